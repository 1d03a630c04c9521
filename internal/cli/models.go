package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models declared in the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		if len(cfg.Models) == 0 {
			fmt.Fprintln(os.Stderr, "No models declared in the configuration file.")
			return nil
		}

		cyan := color.New(color.FgCyan, color.Bold)
		for _, model := range cfg.Models {
			cyan.Println(model)
		}
		return nil
	},
}
