package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check a document for near-duplicates",
	Long: `Fingerprint a document and score it against every previously seen
document. Nothing is registered or stored.`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initFlowContext()
	defer c.Close()

	res, err := c.Flow.Check(ctx, args[0])
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("Fingerprint: %s\n", shortHash(res.Fingerprint.VectorHash))

	if len(res.Matches) == 0 {
		green := color.New(color.FgGreen)
		green.Println("No near-duplicates found")
		return
	}

	red := color.New(color.FgRed)
	red.Printf("%d near-duplicate(s) found:\n\n", len(res.Matches))
	printMatches(res.Matches)
}
