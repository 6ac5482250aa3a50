package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	ListModels bool

	// Project paths
	Input        string
	RawGlossary  string
	GlossaryJSON string
	Output       string
	SummaryFile  string
	ErrorLog     string

	// Model flags
	Backend       string
	Model         string
	GlossaryModel string
	OllamaHost    string
	Temperature   float64
	TimeoutSecs   int
}

// NewFlags creates a new Flags instance with default values. The default
// models match what worked for literary Japanese on a local server:
// llama3.1 for name extraction, aya-expanse for translation.
func NewFlags() *Flags {
	return &Flags{
		RawGlossary:   "raw_glossary.txt",
		GlossaryJSON:  "glossary.json",
		ErrorLog:      "json_error_log.txt",
		SummaryFile:   "summary.txt",
		Backend:       "ollama",
		Model:         "aya-expanse",
		GlossaryModel: "llama3.1",
		OllamaHost:    "http://localhost:11434",
		Temperature:   0.3,
		TimeoutSecs:   300,
	}
}
