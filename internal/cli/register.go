package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veristamp/veristamp/internal/core"
	"github.com/veristamp/veristamp/internal/fingerprint"
	"github.com/veristamp/veristamp/internal/similarity"
)

var registerCmd = &cobra.Command{
	Use:   "register <file>",
	Short: "Register a document with the proof registry",
	Long: `Register a document: compute its content hash and AI fingerprint, check
for near-duplicates among previously seen documents, and submit the
proof to the registry. A near-duplicate match blocks the submission.`,
	Args: cobra.ExactArgs(1),
	Run:  runRegister,
}

var registerAllowDegraded bool

func init() {
	registerCmd.Flags().BoolVar(&registerAllowDegraded, "allow-degraded", false,
		"Proceed without a fingerprint or duplicate check when no embedding backend is available")
}

func runRegister(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initFlowContext()
	defer c.Close()
	requireRegistry(c)

	path := args[0]
	fmt.Printf("Registering %s\n", path)

	res, err := c.Flow.Register(ctx, path, core.RegisterOptions{
		Creator:       c.Config.Creator,
		AllowDegraded: registerAllowDegraded,
	})
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("Content hash: %s\n", shortHash(res.ContentHash))

	if len(res.Matches) > 0 {
		red := color.New(color.FgRed)
		red.Printf("\nRegistration blocked: %d near-duplicate(s) found\n\n", len(res.Matches))
		printMatches(res.Matches)
		fmt.Println("\nUse 'veristamp check' to inspect, or register a revised document.")
		return
	}

	if res.Degraded {
		yellow := color.New(color.FgYellow)
		yellow.Println("\nWarning: no embedding backend available — registered WITHOUT a duplicate check")
		yellow.Printf("  %v\n", res.DegradedErr)
	} else {
		fmt.Printf("Fingerprint:  %s\n", shortHash(res.Fingerprint.VectorHash))
		fmt.Println("No near-duplicates found")
	}

	green := color.New(color.FgGreen)
	green.Printf("\nRegistered proof %s\n", res.ProofID)
}

// printMatches prints a ranked match list with color coding
func printMatches(matches []similarity.Match) {
	yellow := color.New(color.FgYellow)
	for i, m := range matches {
		yellow.Printf("  %d. %.1f%% similar", i+1, m.Similarity*100)
		fmt.Printf("  (%s)  fingerprint %s", m.Method, shortID(m.VectorHash))
		if m.Creator != "" {
			fmt.Printf("  by %s", m.Creator)
		}
		fmt.Println()
	}
}

// shortHash abbreviates a hex digest for display
func shortHash(hash string) string {
	return fingerprint.Truncate(hash, 16)
}
