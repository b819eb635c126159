package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all locally stored fingerprints",
	Long: `Delete every record from the local vector store. Proofs already on the
registry are unaffected, but future near-duplicate checks lose their
history.`,
	Run: runClear,
}

var clearForce bool

func init() {
	clearCmd.Flags().BoolVar(&clearForce, "force", false, "Skip confirmation")
}

func runClear(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	if !clearForce {
		records, err := c.Store.List(ctx)
		if err == nil {
			fmt.Printf("This deletes %d record(s) of duplicate-check history.\n", len(records))
		}
		fmt.Println("Run again with --force to confirm.")
		return
	}

	if err := c.Store.Clear(ctx); err != nil {
		exitError("failed to clear records: %v", err)
	}

	fmt.Println("Cleared local vector store")
}
