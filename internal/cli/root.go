// Package cli implements the command-line interface for veristamp.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veristamp/veristamp/internal/config"
	"github.com/veristamp/veristamp/internal/core"
	"github.com/veristamp/veristamp/internal/embed"
	"github.com/veristamp/veristamp/internal/extract"
	"github.com/veristamp/veristamp/internal/registry"
	"github.com/veristamp/veristamp/internal/similarity"
	"github.com/veristamp/veristamp/internal/store"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Store  store.RecordStore
	Flow   *core.Flow

	db *store.SQLiteBlob // set when the sqlite backend is in use
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.db != nil {
		c.db.Close()
	}
}

// initContext initializes config and the vector store backend
func initContext() *cmdContext {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}

	c := &cmdContext{Config: cfg}

	switch cfg.Store.Backend {
	case "weaviate":
		ws, err := store.NewWeaviateStore(cfg.Store.WeaviateURL, cfg.Store.WeaviateClass)
		if err != nil {
			exitError("failed to create Weaviate store: %v", err)
		}
		c.Store = ws
	default:
		blob, err := store.OpenSQLite(cfg.DatabasePath())
		if err != nil {
			exitError("failed to open store: %v", err)
		}
		c.db = blob
		c.Store = store.NewLocalStore(blob, "")
	}

	return c
}

// initFlowContext initializes config, store, and the full pipeline
func initFlowContext() *cmdContext {
	c := initContext()
	cfg := c.Config

	engine := embed.NewEngine(embed.Config{
		Backends:    cfg.Embedding.Backends,
		Model:       cfg.Embedding.Model,
		Dimensions:  cfg.Embedding.Dimensions,
		OllamaURL:   cfg.Embedding.OllamaURL,
		OpenAIModel: cfg.Embedding.OpenAIModel,
	})

	c.Flow = &core.Flow{
		Extractor: extract.New(cfg.Extract.SampleLimit),
		Embedder:  engine,
		Matcher:   similarity.NewMatcher(cfg.Similarity.Threshold, cfg.Similarity.ShortTextLimit),
		Store:     c.Store,
		Registry:  newRegistryClient(cfg),
	}

	return c
}

// newRegistryClient builds the registry gateway client. Commands that touch
// the registry must call requireRegistry first.
func newRegistryClient(cfg *config.Config) registry.Registry {
	if cfg.Registry.GatewayURL == "" {
		return nil
	}
	client := registry.NewHTTPClient(cfg.Registry.GatewayURL, cfg.Registry.Token)
	return registry.NewRetryClient(client, nil)
}

// requireRegistry exits unless a registry gateway is configured
func requireRegistry(c *cmdContext) {
	if c.Flow == nil || c.Flow.Registry == nil {
		exitError("no registry gateway configured (set registry.gateway_url in .veristamp/config)")
	}
}

var rootCmd = &cobra.Command{
	Use:   "veristamp",
	Short: "Proof-of-originality registry client",
	Long: `Veristamp timestamps document originality. It fingerprints a file with a
semantic embedding, checks it against previously seen documents for
near-duplicates, and registers the content hash with an append-only
proof registry.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(warmupCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// shortID returns first 8 characters of an ID
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
