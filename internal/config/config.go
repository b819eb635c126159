// Package config manages veristamp configuration and the .veristamp directory
// structure. It handles loading, saving, and initializing the workspace
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/veristamp/veristamp/internal/embed"
	"github.com/veristamp/veristamp/internal/extract"
	"github.com/veristamp/veristamp/internal/similarity"
)

const (
	Dir          = ".veristamp"
	ConfigFile   = "config"
	DatabaseFile = "veristamp.db"
)

// EmbeddingConfig tunes the embedding engine.
type EmbeddingConfig struct {
	Backends    []string `toml:"backends"`
	Model       string   `toml:"model"`
	Dimensions  int      `toml:"dimensions"`
	OllamaURL   string   `toml:"ollama_url"`
	OpenAIModel string   `toml:"openai_model"`
}

// SimilarityConfig tunes the duplicate matcher. Both knobs are deliberate
// configuration, not constants: the right threshold and short-text boundary
// depend on the corpus.
type SimilarityConfig struct {
	Threshold      float64 `toml:"threshold"`
	ShortTextLimit int     `toml:"short_text_limit"`
}

// ExtractConfig tunes text extraction.
type ExtractConfig struct {
	SampleLimit int `toml:"sample_limit"`
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	// Backend is "sqlite" (default, local) or "weaviate".
	Backend       string `toml:"backend"`
	WeaviateURL   string `toml:"weaviate_url,omitempty"`
	WeaviateClass string `toml:"weaviate_class,omitempty"`
}

// RegistryConfig points at the on-chain registry gateway.
type RegistryConfig struct {
	GatewayURL string `toml:"gateway_url"`
	Token      string `toml:"token,omitempty"`
}

// Config represents the veristamp workspace configuration.
type Config struct {
	// Creator is the identity attributed to registered records, typically a
	// wallet address. Opaque to veristamp.
	Creator string `toml:"creator"`

	Embedding  EmbeddingConfig  `toml:"embedding"`
	Similarity SimilarityConfig `toml:"similarity"`
	Extract    ExtractConfig    `toml:"extract"`
	Store      StoreConfig      `toml:"store"`
	Registry   RegistryConfig   `toml:"registry"`

	path string // path to .veristamp directory
}

// FindRoot finds the .veristamp directory by walking up from the current
// directory.
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		path := filepath.Join(dir, Dir)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not a veristamp workspace (or any parent up to root)")
		}
		dir = parent
	}
}

// Load loads the configuration from the .veristamp directory.
func Load() (*Config, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, err
	}
	return LoadFrom(root)
}

// LoadFrom loads the configuration from an explicit .veristamp directory.
func LoadFrom(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.path = root
	return &cfg, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(filepath.Join(c.path, ConfigFile), data, 0644)
}

// Path returns the path to the .veristamp directory.
func (c *Config) Path() string {
	return c.path
}

// DatabasePath returns the path to the local vector database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.path, DatabaseFile)
}

// Initialize creates a new .veristamp directory with initial configuration.
// The written file spells out the tuning defaults so they are discoverable
// and editable.
func Initialize(creator, gatewayURL string) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(cwd, Dir)

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("veristamp workspace already exists")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .veristamp directory: %w", err)
	}

	cfg := &Config{
		Creator: creator,
		Embedding: EmbeddingConfig{
			Backends:    []string{"ollama", "openai"},
			Model:       embed.DefaultModel,
			Dimensions:  embed.DefaultDimensions,
			OllamaURL:   embed.DefaultOllamaURL,
			OpenAIModel: embed.DefaultOpenAIModel,
		},
		Similarity: SimilarityConfig{
			Threshold:      similarity.DefaultThreshold,
			ShortTextLimit: similarity.DefaultShortTextLimit,
		},
		Extract: ExtractConfig{
			SampleLimit: extract.DefaultSampleLimit,
		},
		Store: StoreConfig{
			Backend: "sqlite",
		},
		Registry: RegistryConfig{
			GatewayURL: gatewayURL,
		},
		path: path,
	}

	if err := cfg.Save(); err != nil {
		// Cleanup on failure
		os.RemoveAll(path)
		return nil, err
	}

	return cfg, nil
}
