package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vecstore/internal/adapter/store"
)

var embedCmd = &cobra.Command{
	Use:   "embed <text>...",
	Short: "Embed free text and print the vector summary",
	Long: `Generate an embedding for the given text and print its dimension,
norm and leading values. Useful for debugging a strategy change
without touching the store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	embedder := newEmbedder(cfg)
	vec, err := embedder.Embed(text)
	if err != nil {
		return fmt.Errorf("embed failed: %w", err)
	}

	sample := vec
	if len(sample) > 5 {
		sample = sample[:5]
	}

	fmt.Printf("model:     %s\n", embedder.ModelName())
	fmt.Printf("dimension: %d\n", len(vec))
	fmt.Printf("norm:      %.4f\n", store.Norm(vec))
	fmt.Printf("sample:    %v\n", sample)
	return nil
}
