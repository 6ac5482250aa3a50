package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Madsy420/LLMJapTranslator/internal"
	"github.com/Madsy420/LLMJapTranslator/internal/chunk"
	"github.com/Madsy420/LLMJapTranslator/internal/llm"
	"github.com/Madsy420/LLMJapTranslator/internal/models"
	"github.com/Madsy420/LLMJapTranslator/internal/scenario"
	"github.com/Madsy420/LLMJapTranslator/internal/workflow"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vntranslate",
		Short: "Glossary-driven Japanese novel translator for local models",
		Long: `vntranslate translates Japanese novel and visual-novel text into English
using a locally hosted language model, keeping character and place names
consistent through a glossary.

The stages are run one at a time, in order:

  vntranslate extract --input scripts/ --output content/    # .nss -> content JSON
  vntranslate glossary --summary summary.txt                # model -> raw glossary
  vntranslate glossary-json                                 # raw -> glossary.json
  vntranslate translate --input content/ --output out/      # scenario JSON
  vntranslate translate-novel --input novel.txt --output raw_translation.txt`,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(newGlossaryCommand(flags))
	rootCmd.AddCommand(newGlossaryJSONCommand(flags))
	rootCmd.AddCommand(newTranslateCommand(flags))
	rootCmd.AddCommand(newTranslateNovelCommand(flags))
	rootCmd.AddCommand(newExtractCommand(flags))

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if flags.ListModels {
			lister := models.NewLister(GetOllamaHost())
			return lister.ListAvailableModels()
		}
		return cmd.Help()
	}

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.vntranslate.yaml)")

	// Project paths
	cmd.PersistentFlags().StringVarP(&flags.Input, "input", "i", "", "Input location (scenario JSON folder, script folder or novel text file)")
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", "", "Output location (folder for scenario JSON, file for novel text)")
	cmd.PersistentFlags().StringVar(&flags.RawGlossary, "raw-glossary", flags.RawGlossary, "Raw glossary text file")
	cmd.PersistentFlags().StringVar(&flags.GlossaryJSON, "glossary", flags.GlossaryJSON, "Glossary JSON file")
	cmd.PersistentFlags().StringVar(&flags.SummaryFile, "summary", flags.SummaryFile, "Story summary file fed to glossary extraction")
	cmd.PersistentFlags().StringVar(&flags.ErrorLog, "error-log", flags.ErrorLog, "File collecting JSON blocks that failed to parse")

	// Model flags
	cmd.PersistentFlags().StringVar(&flags.Backend, "backend", flags.Backend, "Model backend: ollama or gemini")
	cmd.PersistentFlags().StringVar(&flags.Model, "model", flags.Model, "Model for translation")
	cmd.PersistentFlags().StringVar(&flags.GlossaryModel, "glossary-model", flags.GlossaryModel, "Model for glossary extraction")
	cmd.PersistentFlags().StringVar(&flags.OllamaHost, "ollama-host", flags.OllamaHost, "Base URL of the Ollama server")
	cmd.PersistentFlags().Float64Var(&flags.Temperature, "temperature", flags.Temperature, "Sampling temperature for model calls")
	cmd.PersistentFlags().IntVar(&flags.TimeoutSecs, "timeout", flags.TimeoutSecs, "Per-call timeout in seconds")

	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List models available on the Ollama server")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("llm.backend", cmd.PersistentFlags().Lookup("backend"))
	viper.BindPFlag("llm.model", cmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("llm.glossary_model", cmd.PersistentFlags().Lookup("glossary-model"))
	viper.BindPFlag("llm.host", cmd.PersistentFlags().Lookup("ollama-host"))
	viper.BindPFlag("llm.temperature", cmd.PersistentFlags().Lookup("temperature"))
	viper.BindPFlag("llm.timeout", cmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("paths.raw_glossary", cmd.PersistentFlags().Lookup("raw-glossary"))
	viper.BindPFlag("paths.glossary", cmd.PersistentFlags().Lookup("glossary"))
	viper.BindPFlag("paths.summary", cmd.PersistentFlags().Lookup("summary"))
	viper.BindPFlag("paths.error_log", cmd.PersistentFlags().Lookup("error-log"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vntranslate")
	}

	viper.SetEnvPrefix("VNTRANSLATE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("llm.gemini_key")
}

// Effective configuration accessors. The flags are bound into viper, so
// each value resolves flag over config file over flag default; the config
// file and VNTRANSLATE_* variables take effect whenever the flag is left
// unset.

// GetBackend returns the effective model backend
func GetBackend() string {
	return viper.GetString("llm.backend")
}

// GetModel returns the effective translation model
func GetModel() string {
	return viper.GetString("llm.model")
}

// GetGlossaryModel returns the effective glossary extraction model
func GetGlossaryModel() string {
	return viper.GetString("llm.glossary_model")
}

// GetOllamaHost returns the effective Ollama base URL
func GetOllamaHost() string {
	return viper.GetString("llm.host")
}

// GetTemperature returns the effective sampling temperature
func GetTemperature() float64 {
	return viper.GetFloat64("llm.temperature")
}

// GetTimeout returns the effective per-call timeout
func GetTimeout() time.Duration {
	return time.Duration(viper.GetInt("llm.timeout")) * time.Second
}

// workflowConfig maps the effective configuration to the workflow paths.
// Input and output are per-invocation and stay flag-only; the project
// artifact paths read through viper.
func workflowConfig(flags *Flags) workflow.Config {
	return workflow.Config{
		RawInput:         flags.Input,
		RawGlossary:      viper.GetString("paths.raw_glossary"),
		GlossaryJSON:     viper.GetString("paths.glossary"),
		TranslatedOutput: flags.Output,
		SummaryFile:      viper.GetString("paths.summary"),
		ErrorLog:         viper.GetString("paths.error_log"),
	}
}

// newWorkflow builds a workflow with the selected model provider. The
// chunker is only constructed when a stage actually chunks text, since the
// tokenizer loads its BPE ranks on first use.
func newWorkflow(flags *Flags, model string, needChunker bool) (*workflow.Workflow, error) {
	provider, err := llm.NewProvider(&llm.Config{
		Backend:     GetBackend(),
		OllamaHost:  GetOllamaHost(),
		GeminiKey:   GetGeminiKey(),
		Model:       model,
		Temperature: float32(GetTemperature()),
		Timeout:     GetTimeout(),
	})
	if err != nil {
		return nil, err
	}

	var chunker workflow.Chunker
	if needChunker {
		chunker, err = chunk.New(chunk.DefaultEncoding)
		if err != nil {
			return nil, err
		}
	}

	return workflow.New(workflowConfig(flags), provider, chunker), nil
}

func newGlossaryCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "glossary",
		Short: "Extract a raw name/term glossary from the story summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := newWorkflow(flags, GetGlossaryModel(), true)
			if err != nil {
				return err
			}
			return wf.CreateRawGlossary(cmd.Context())
		},
	}
}

func newGlossaryJSONCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "glossary-json",
		Short: "Convert the raw glossary text into the glossary JSON file",
		Long: `Parses the fenced JSON blocks the model emitted during glossary
extraction, deduplicates entries on the Japanese name and writes the
glossary JSON array. You might want to go through the result and fix it a
bit before translating.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := newWorkflow(flags, GetModel(), false)
			if err != nil {
				return err
			}
			return wf.CreateGlossaryJSON(cmd.Context())
		},
	}
}

func newTranslateCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "translate",
		Short: "Translate a folder of scenario JSON files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.Input == "" || flags.Output == "" {
				return fmt.Errorf("--input and --output are required")
			}
			wf, err := newWorkflow(flags, GetModel(), false)
			if err != nil {
				return err
			}
			if err := wf.LoadGlossary(); err != nil {
				return err
			}
			return wf.TranslateScenarioFolder(cmd.Context())
		},
	}
}

func newTranslateNovelCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "translate-novel",
		Short: "Translate a plain-text novel file chunk by chunk",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.Input == "" || flags.Output == "" {
				return fmt.Errorf("--input and --output are required")
			}
			wf, err := newWorkflow(flags, GetModel(), true)
			if err != nil {
				return err
			}
			if err := wf.LoadGlossary(); err != nil {
				return err
			}
			return wf.TranslateNovel(cmd.Context())
		},
	}
}

func newExtractCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Extract scenario content JSON from raw engine script files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.Input == "" || flags.Output == "" {
				return fmt.Errorf("--input and --output are required")
			}
			processed, errs, err := scenario.ExtractFolder(flags.Input, flags.Output)
			if err != nil {
				return err
			}
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
			}
			fmt.Printf("Extracted %d file(s) to %s\n", processed, flags.Output)
			return nil
		},
	}
}
