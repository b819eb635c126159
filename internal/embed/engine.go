package embed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// ErrModelLoad indicates no embedding backend could be initialized. Fatal for
// similarity checking in this session; registration may still proceed in
// degraded mode if the caller allows it.
var ErrModelLoad = errors.New("no embedding backend available")

// Defaults chosen to match the 384-dimensional MiniLM family the fingerprint
// format was designed around.
const (
	DefaultModel       = "all-minilm:latest"
	DefaultDimensions  = 384
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOpenAIModel = "text-embedding-3-small"
	DefaultLoadTimeout = 60 * time.Second
)

// Config holds the embedding engine settings.
type Config struct {
	// Backends is the ordered list of backend names to try. Recognized names:
	// "ollama", "openai". First success wins.
	Backends []string

	// Model is the Ollama embedding model.
	Model string

	// Dimensions is the required output dimensionality. Backends returning
	// longer vectors are truncated to this length and renormalized; shorter
	// vectors are an error.
	Dimensions int

	// OllamaURL is the Ollama server address.
	OllamaURL string

	// OpenAIModel is the fallback embedding model.
	OpenAIModel string

	// LoadTimeout bounds backend initialization, including the probe call.
	LoadTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if len(c.Backends) == 0 {
		c.Backends = []string{"ollama", "openai"}
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Dimensions <= 0 {
		c.Dimensions = DefaultDimensions
	}
	if c.OllamaURL == "" {
		c.OllamaURL = DefaultOllamaURL
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = DefaultOpenAIModel
	}
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = DefaultLoadTimeout
	}
	return c
}

// Engine is the process-wide embedding front end. The backend is initialized
// lazily on first use; concurrent first callers share one in-flight load
// instead of racing, and the chosen backend (or the load failure) sticks for
// the lifetime of the Engine.
type Engine struct {
	cfg       Config
	factories []Factory

	once     sync.Once
	provider Provider
	loadErr  error
}

// NewEngine creates an Engine from config. Backend factories are derived from
// cfg.Backends; tests can override them with NewEngineWithFactories.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.withDefaults()

	factories := make([]Factory, 0, len(cfg.Backends))
	for _, name := range cfg.Backends {
		switch name {
		case "ollama":
			url, model := cfg.OllamaURL, cfg.Model
			factories = append(factories, func() (Provider, error) {
				return NewOllamaProvider(url, model)
			})
		case "openai":
			model := cfg.OpenAIModel
			factories = append(factories, func() (Provider, error) {
				return NewOpenAIProvider(model)
			})
		}
	}

	return &Engine{cfg: cfg, factories: factories}
}

// NewEngineWithFactories creates an Engine with explicit backend factories,
// bypassing name resolution. Used by tests to inject deterministic fakes.
func NewEngineWithFactories(cfg Config, factories ...Factory) *Engine {
	return &Engine{cfg: cfg.withDefaults(), factories: factories}
}

// Dimensions returns the engine's fixed output dimensionality.
func (e *Engine) Dimensions() int { return e.cfg.Dimensions }

// Preload initializes the backend if it has not been loaded yet. Safe to call
// from multiple goroutines; all callers observe the result of the single load.
// Returns ErrModelLoad (wrapped) if every backend failed.
func (e *Engine) Preload(ctx context.Context) error {
	e.once.Do(func() {
		// The load runs to completion even if the first caller abandons the
		// wait; a cancelled first call must not poison the singleton.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.LoadTimeout)
		defer cancel()
		e.provider, e.loadErr = e.load(loadCtx)
	})
	return e.loadErr
}

// load tries each backend factory in order. A backend counts as initialized
// only after a successful probe embedding, so unreachable servers fail over
// rather than failing later on the first real call.
func (e *Engine) load(ctx context.Context) (Provider, error) {
	if len(e.factories) == 0 {
		return nil, fmt.Errorf("%w: no backends configured", ErrModelLoad)
	}

	var errs []error
	for _, factory := range e.factories {
		p, err := factory()
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if _, err := p.Embed(ctx, "veristamp backend probe"); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		return p, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrModelLoad, errors.Join(errs...))
}

// Embed produces the unit-normalized embedding for text. The output length is
// always Dimensions; longer backend vectors are truncated and renormalized,
// shorter ones are rejected.
func (e *Engine) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.Preload(ctx); err != nil {
		return nil, err
	}

	vec, err := e.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if len(vec) < e.cfg.Dimensions {
		return nil, fmt.Errorf("backend %s returned %d dimensions, need %d",
			e.provider.Name(), len(vec), e.cfg.Dimensions)
	}
	if len(vec) > e.cfg.Dimensions {
		vec = vec[:e.cfg.Dimensions]
	}

	normalize(vec)
	return vec, nil
}

// normalize scales the vector to unit L2 norm in place. Zero vectors are left
// untouched rather than divided by zero.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
