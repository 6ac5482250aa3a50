package llm

import "fmt"

// SystemPrompt steers every model call. All stages use the same persona so
// that glossary extraction and translation stay stylistically aligned.
const SystemPrompt = `You are a sophisticated and precise Japanese to English translator,
that translates with all the implied nuance when required,
is specialized in analyzing given Japanese text,
and giving accurate JSON format output in the precise manner
the user asks you to.`

// GlossaryCreationInstructions asks the model to emit name/term candidates
// as a fenced JSON array. The keys must match the glossary entry format.
const GlossaryCreationInstructions = `Extract all the people's names, nick names and city/town/country/village names,
then give its pronunciation in English and the translated
English name as output in exact JSON format like:
` + "```json" + `
[
    {
        "japanesename": "the original language name",
        "englishphonetic": "English phonetics for the name",
        "actualname": "English name for the corresponding japanesename"
    },
    {
        "japanesename": "the original language name 1",
        "englishphonetic": "English phonetics for the name 1",
        "actualname": "English name for the corresponding japanesename"
    },
...]
` + "```" + `
Do not add any other comments to the JSON!
`

// GlossaryPreamble introduces the glossary lookup the model must honor.
// The serialized glossary and then the translation instructions follow it.
const GlossaryPreamble = `I am going to give you a glossary.
The keys are Japanese names, and the nested JSON structure's 'actualname' key
is the word to be used, and 'gender' gives the gender in case it is necessary.
The exact format of the JSON is like:
[
    "japanesename1" : {
        "actualname": "English translation of japanesename1 to be used",
        "gender": "Gender of the japanesename1",
    },
    "japanesename2" : {
        "actualname": "English translation of japanesename2 to be used",
        "gender": "Gender of the japanesename2",
    },
...]
Now you will be asked to translate some text with the above glossary.
While translating the text, wherever one of the Japanese names above appears in the Japanese text,
use the actualname in the translated text as equivalent.
If a Japanese name does not exist in the glossary use your best guess.
Here is the Glossary:
`

// NovelInstructions is the translation instruction for plain light-novel text
const NovelInstructions = `Make sure the translation is honest to the original content in meaning and implication.
Do not paraphrase!
Output has to be in a single exact JSON format, like:
` + "```json" + `
{
    "original": "Japanese text to be translated",
    "translation": "Your English text translation here (No other nested json, just direct string as value to the key!)"
}
` + "```" + `
It should adhere to correct JSON format!
Now translate all of this into English with the above rules in mind:
`

// ScenarioInstructions is the translation instruction for visual-novel
// scenario JSON. RUBY tags carry furigana and must survive translation.
const ScenarioInstructions = `You will be given a JSON in the following format:
` + "```json" + `
{
    "text": [
        "「んなバカな！」",
        "「そんな単純に、セカイが滅びるかッ！」"
    ]
}
` + "```" + `
You have to return the same JSON, but the values in the "text" field
translated to English. For the above example, this will be the output:
` + "```json" + `
{
    "text": [
        "No way!",
        "The world won't end that easily!"
    ]
}
` + "```" + `
Sometimes, in the "text" field, you will find <RUBY></RUBY> tag(s), like this:
` + "`伝説の初代<RUBY text=\"エトワール\">魔女</RUBY>`" + `
Make sure to keep the tags and translate the text. For example, for the above, the translated
form will be:
` + "`The legendary first-generation <RUBY text=\"Etoile\">witch</RUBY>`" + `
Now with the above rules in mind, translate the following JSON:
`

// GlossaryCreationPrompt builds the prompt for one summary chunk
func GlossaryCreationPrompt(chunk string) string {
	return GlossaryCreationInstructions + chunk
}

// TranslationPrompt combines the glossary steering preamble, the serialized
// glossary subset relevant to the chunk, the per-format instructions and
// the chunk itself.
func TranslationPrompt(glossaryJSON, instructions, chunk string) string {
	return fmt.Sprintf("%s%s\n%s%s", GlossaryPreamble, glossaryJSON, instructions, chunk)
}

// FixJSONPrompt asks the model to repair a completion that failed to parse
func FixJSONPrompt(badJSON string, parseErr error) string {
	return fmt.Sprintf(`The following JSON string:

"%s"

Failed to load with the following error:

"%v"

Please check and fix the JSON string.
`, badJSON, parseErr)
}
