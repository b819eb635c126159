package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var warmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Preload the embedding backend",
	Long: `Initialize the embedding backend ahead of time so the first register or
check does not pay the model load cost. Best-effort: a failed warmup
only means register will need --allow-degraded or a reachable backend.`,
	Run: runWarmup,
}

func runWarmup(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initFlowContext()
	defer c.Close()

	fmt.Println("Loading embedding backend...")

	if err := c.Flow.Embedder.Preload(ctx); err != nil {
		yellow := color.New(color.FgYellow)
		yellow.Printf("Warmup failed: %v\n", err)
		return
	}

	green := color.New(color.FgGreen)
	green.Println("Embedding backend ready")
}
