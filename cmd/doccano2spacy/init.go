package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/doccano2spacy/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/doccano2spacy.yaml
var configTemplate []byte

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a doccano2spacy configuration file",
		Long: `Init writes a commented configuration file to the current directory.

The file holds default validation settings and examples of per-input
overrides matched by path, base name or glob pattern.

Examples:
  # Create .doccano2spacy.yaml in the current directory
  doccano2spacy init

  # Create the file in the XDG config directory
  doccano2spacy init --global

  # Create config file at a specific path
  doccano2spacy init -o corpus/doccano2spacy.yaml

  # Force overwrite existing file
  doccano2spacy init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().BoolP("global", "g", false,
		"Write to the XDG config directory instead of --output")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	global, err := cmd.Flags().GetBool("global")
	if err != nil {
		return err
	}
	if global {
		outputPath = filepath.Join(config.XDGConfigDir(), "config.yaml")
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, configTemplate, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set per-input options such as:")
	fmt.Fprintln(out, "  - The annotation schema (doccano or spacy)")
	fmt.Fprintln(out, "  - The shape mode (legacy or strict)")
	fmt.Fprintln(out, "  - Whether malformed records stop validation")

	return nil
}
