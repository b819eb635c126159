// Package embed produces fixed-length, unit-normalized sentence embeddings.
// The underlying model resource is loaded lazily, at most once per process,
// with an ordered list of backends tried until one initializes.
package embed

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider is a single embedding backend.
type Provider interface {
	// Name identifies the backend in errors and logs.
	Name() string

	// Embed returns a raw embedding for the text. Normalization and
	// dimensionality enforcement happen in the Engine.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Factory constructs and validates a Provider. A factory that fails lets the
// Engine move on to the next backend in order.
type Factory func() (Provider, error)

// OllamaProvider embeds via a local Ollama server. This is the preferred
// backend: no API key, runs on local hardware.
type OllamaProvider struct {
	llm   *ollama.LLM
	model string
}

// NewOllamaProvider creates an Ollama-backed provider.
func NewOllamaProvider(serverURL, model string) (*OllamaProvider, error) {
	llm, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize ollama backend: %w", err)
	}
	return &OllamaProvider{llm: llm, model: model}, nil
}

func (p *OllamaProvider) Name() string { return "ollama/" + p.model }

func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.llm.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("ollama embedding: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("ollama embedding: empty response")
	}
	return vecs[0], nil
}

// OpenAIProvider embeds via the OpenAI embeddings API. Used as the portable
// fallback when no local backend is available. The API key is taken from the
// OPENAI_API_KEY environment variable by the underlying client.
type OpenAIProvider struct {
	llm   *openai.LLM
	model string
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(model string) (*OpenAIProvider, error) {
	llm, err := openai.New(openai.WithEmbeddingModel(model))
	if err != nil {
		return nil, fmt.Errorf("initialize openai backend: %w", err)
	}
	return &OpenAIProvider{llm: llm, model: model}, nil
}

func (p *OpenAIProvider) Name() string { return "openai/" + p.model }

func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.llm.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("openai embedding: empty response")
	}
	return vecs[0], nil
}
