// Package llm provides the model providers used for glossary extraction and
// translation. Providers implement a single prompt-in/text-out Chat call;
// the Ollama backend talks to a local server through its OpenAI-compatible
// endpoint and the Gemini backend uses the Google GenAI SDK. The prompt
// templates for every workflow stage also live here.
package llm
