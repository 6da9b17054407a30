package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored vectors",
	Long:  `Delete every vector and its metadata from the store. Irreversible.`,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "skip confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to clear without --yes")
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer st.Close()

	before, err := st.Count()
	if err != nil {
		return err
	}
	if err := st.Clear(); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	fmt.Printf("Deleted %d vectors.\n", before)
	return nil
}
