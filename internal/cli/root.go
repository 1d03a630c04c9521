// Package cli implements the inferkit command line interface.
package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/inferkit/inferkit/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "inferkit",
	Short: "Talk to a local text-generation server",
	Long: `inferkit is a client for inference servers exposing a generate endpoint.

Examples:
  inferkit generate --model llama3 "Why is the sky blue?"
  inferkit generate --model llama3 --stream "Tell me a story"
  inferkit models`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the configuration file")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(modelsCmd)
}

// SetVersion wires the build-time version into the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	if err := rootCmd.Execute(); err != nil {
		red := color.New(color.FgRed, color.Bold)
		red.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}
