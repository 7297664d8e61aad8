package parley

import (
	"io"
	"log/slog"
	"math/rand"

	"github.com/parley-dev/parley/internal/i18n"
	"github.com/parley-dev/parley/internal/runtime"
	"github.com/parley-dev/parley/pkg/observability"
	"github.com/parley-dev/parley/pkg/ports"
)

// Engine is the high-level entry point for the Parley library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine

	nlu       ports.Understander
	localizer ports.Localizer
	logger    *slog.Logger
	metrics   *observability.Metrics
	rng       *rand.Rand
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLocalizer injects a custom message catalog, bypassing the embedded one.
func WithLocalizer(loc ports.Localizer) Option {
	return func(e *Engine) {
		e.localizer = loc
	}
}

// WithMetrics attaches a metrics set so the engine reports turn and skill
// counters to its registry.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithRand sets the random source used when sampling example requests.
// Mainly useful for reproducible output in tests.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// New initializes a conversation engine. The NLU component is the caller's
// bridge to whatever language understanding it uses; timeoutSeconds is the
// inactivity window before the session falls asleep; contextJSON seeds the
// conversation context document (empty for a fresh one); defaultLocale picks
// the language of the engine's own prompts.
func New(nlu ports.Understander, timeoutSeconds int, contextJSON, defaultLocale string, opts ...Option) (*Engine, error) {
	eng := &Engine{nlu: nlu}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.localizer == nil {
		catalog, err := i18n.NewCatalog(defaultLocale, eng.logger)
		if err != nil {
			return nil, err
		}
		eng.localizer = catalog
	}

	rt, err := runtime.New(runtime.Config{
		NLU:             nlu,
		TimeoutSeconds:  timeoutSeconds,
		ContextJSON:     contextJSON,
		DefaultLanguage: defaultLocale,
		Localizer:       eng.localizer,
		Logger:          eng.logger,
		Metrics:         eng.metrics,
		Rand:            eng.rng,
	})
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	return eng, nil
}

// AddSkill compiles the declarative definition (JSON or YAML) and registers
// the skill under the definition's name. Invalid definitions are logged and
// skipped; the engine keeps running with the skills it has.
func (e *Engine) AddSkill(skill ports.Skill, definition []byte) {
	e.runtime.AddSkill(skill, definition)
}

// UserInput processes one user turn and returns the engine's output lines in
// order. A blank input is answered with a recovery hint.
func (e *Engine) UserInput(text string) []string {
	return e.runtime.UserInput(text)
}

// GetState reports the session's observable state name.
func (e *Engine) GetState() string {
	return e.runtime.GetState()
}

// Shutdown closes the engine and hands the serialized context document to
// sink so a later session can be seeded with it. Pass nil to discard it.
func (e *Engine) Shutdown(sink func(serializedContext string)) {
	e.runtime.Shutdown(sink)
}
