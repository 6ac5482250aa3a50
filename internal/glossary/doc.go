// Package glossary implements the name/term glossary that keeps character
// and place names consistent across translation runs. It parses the raw
// model output of the extraction stage, persists the documented JSON array
// format, and filters entries per chunk for prompt embedding.
package glossary
