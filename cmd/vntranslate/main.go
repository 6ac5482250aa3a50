package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Madsy420/LLMJapTranslator/internal/cli"
)

func main() {
	// A .env in the working directory may carry GEMINI_API_KEY or
	// VNTRANSLATE_* overrides; absence is fine
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err == nil {
		defer logger.Sync()
		zap.ReplaceGlobals(logger)
	}

	flags := cli.NewFlags()
	rootCmd := cli.CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
