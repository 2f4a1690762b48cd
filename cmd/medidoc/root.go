package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "medidoc",
	Short: "AI-assisted editor for medical device compliance documents",
	Long: `Medidoc manages regulatory documents for a medical device QMS:
quality manuals, risk analyses, design controls and more. Documents are
created from built-in templates or imported from text files, kept in a
local store, and edited with help from a generative AI assistant.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file (silently ignore if it doesn't exist)
		_ = godotenv.Load()

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
