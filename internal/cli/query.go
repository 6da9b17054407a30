package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vecstore/internal/adapter/retriever"
	"vecstore/internal/usecase"
)

var (
	queryText   string
	queryTopK   int
	queryMinSim float64
	queryJSON   bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search stored vectors by similarity",
	Long: `Embed the query text and rank all stored vectors by cosine
similarity. Query embeddings are served from the Redis cache when a
backend is reachable.

Examples:
  vecstore query -q "connection pooling"
  vecstore query -q "retry logic" --top-k 10 --min-similarity 0.2 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().Float64Var(&queryMinSim, "min-similarity", -1, "minimum similarity score (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer st.Close()

	topK := cfg.Search.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}
	minSim := cfg.Search.MinSimilarity
	if cmd.Flags().Changed("min-similarity") {
		minSim = queryMinSim
	}

	queryUC := usecase.NewQueryUseCase(newCachedEmbedder(cfg), retriever.NewCosineSearcher(st))

	results, err := queryUC.Query(queryText, topK, minSim)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for i, r := range results {
		fmt.Printf("%2d. %-50s %.4f\n", i+1, r.NodeID, r.Score)
	}
	return nil
}
