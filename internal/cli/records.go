package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List locally stored fingerprints",
	Long: `List every fingerprint in the local vector store. These records back the
near-duplicate check; clearing them does not affect proofs already on
the registry.`,
	Run: runRecords,
}

func runRecords(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	records, err := c.Store.List(ctx)
	if err != nil {
		exitError("failed to list records: %v", err)
	}

	if len(records) == 0 {
		fmt.Println("No records")
		return
	}

	cyan := color.New(color.FgCyan)
	for i, rec := range records {
		cyan.Printf("%3d. %s", i+1, shortID(rec.VectorHash))
		fmt.Printf("  %s", rec.Timestamp.Format("2006-01-02 15:04"))
		if rec.Creator != "" {
			fmt.Printf("  %s", rec.Creator)
		}
		if rec.Text != "" {
			fmt.Printf("  (text retained)")
		}
		fmt.Println()
	}
	fmt.Printf("\n%d record(s)\n", len(records))
}
