package main

import (
	"fmt"
	"log/slog"
	"os"

	applog "github.com/nao1215/doccano2spacy/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for doccano2spacy.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doccano2spacy",
		Short: "Validate Doccano and Spacy JSONL annotation files",
		Long: `doccano2spacy validates JSON-Lines annotation files in the Doccano
(id, text, label) and Spacy (text, tokens, spans) schemas.

Each record is turned into a typed entry and compared by shape, meaning
field names and value kinds rather than values, against its own line and
against the dataset built from the whole file. Inputs may be plain,
gzip or xz compressed.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewMatchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the redacting logger on the command's error stream.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	return applog.NewLogger(cmd.ErrOrStderr(), verbose)
}
