package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/inferkit/inferkit/gen"
)

var (
	genModel     string
	genMaxTokens int
	genStream    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate text from a prompt",
	Long: `Generate text from a prompt, either buffered or streamed.

Examples:
  inferkit generate --model llama3 "Why is the sky blue?"
  inferkit generate --model llama3 --stream --max-tokens 512 "Tell me a story"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		client := gen.NewClient(cfg)
		req := gen.GenerateRequest{
			Model:     genModel,
			Prompt:    strings.Join(args, " "),
			MaxTokens: genMaxTokens,
		}

		if genStream {
			return runStream(cmd, client, req)
		}
		return runBuffered(cmd, client, req)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&genModel, "model", "m", "", "Model to use (required)")
	generateCmd.Flags().IntVar(&genMaxTokens, "max-tokens", 0, "Limit the response length")
	generateCmd.Flags().BoolVar(&genStream, "stream", false, "Print fragments as they arrive")
	generateCmd.MarkFlagRequired("model")
}

func runBuffered(cmd *cobra.Command, client *gen.Client, req gen.GenerateRequest) error {
	sp := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = "  Generating..."
	sp.Color("cyan")
	sp.Start()

	text, err := client.Generate(cmd.Context(), req)
	sp.Stop()
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	fmt.Println(text)
	return nil
}

func runStream(cmd *cobra.Command, client *gen.Client, req gen.GenerateRequest) error {
	chunks, err := client.Stream(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	for chunk := range chunks {
		if chunk.Err != nil {
			fmt.Println()
			return fmt.Errorf("stream failed: %w", chunk.Err)
		}
		fmt.Print(chunk.Content)
	}
	fmt.Println()
	return nil
}
