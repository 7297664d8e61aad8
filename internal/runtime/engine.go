// Package runtime implements the conversation engine: the session automaton,
// the skill registry, the pending-intent queue, the pending-question ledger,
// and the turn pipeline that ties them together.
package runtime

import (
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/parley-dev/parley/internal/machine"
	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/observability"
	"github.com/parley-dev/parley/pkg/ports"
)

// maxSampledExamples caps the example requests offered after unusable input.
const maxSampledExamples = 3

// Config carries the engine's constructor arguments and injected services.
type Config struct {
	NLU             ports.Understander
	TimeoutSeconds  int
	ContextJSON     string
	DefaultLanguage string

	Localizer ports.Localizer
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Rand      *rand.Rand
}

// Engine orchestrates one conversation session. Exactly one skill is active
// at a time; a single mutex serializes user turns and the inactivity timer's
// fire callback, so the timer can never interleave mid-turn.
type Engine struct {
	mu sync.Mutex

	nlu     ports.Understander
	loc     ports.Localizer
	log     *slog.Logger
	metrics *observability.Metrics
	rng     *rand.Rand

	timeout time.Duration
	timer   *time.Timer

	// Two-node session automaton, created once per engine.
	sessionDefault *domain.State
	sessionSleep   *domain.State
	sessionState   *domain.State

	skills   []*machine.SkillMachine
	current  *machine.SkillMachine
	lastUsed *machine.SkillMachine

	queue     *intentQueue
	questions *pendingQuestions
	out       *outputBuffer

	// At most one of these is true at a time.
	awaitingSkillQuestion bool
	awaitingChooseSkill   bool
	awaitingAbortAnswer   bool
	awaitingResumeAnswer  bool

	chooseCandidates []*machine.SkillMachine
	chooseIntent     string

	lastIntent      string
	language        string
	defaultLanguage string

	ctx    *domain.Context
	closed bool
}

// New validates the constructor arguments and builds an engine in the
// default session state with its inactivity timer armed.
func New(cfg Config) (*Engine, error) {
	if cfg.NLU == nil {
		return nil, errors.New("nlu component must not be nil")
	}
	if cfg.TimeoutSeconds <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	if strings.TrimSpace(cfg.DefaultLanguage) == "" {
		return nil, errors.New("default language must not be blank")
	}
	if cfg.Localizer == nil {
		return nil, errors.New("localizer must not be nil")
	}

	ctx, err := domain.ParseContext(cfg.ContextJSON)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	defaultState := domain.NewState(domain.SessionStateDefault)
	sleepState := domain.NewState(domain.SessionStateSleep)
	defaultState.AddTransition(sleepState, domain.TriggerSleep)
	sleepState.AddTransition(defaultState, domain.TriggerWakeup)

	e := &Engine{
		nlu:             cfg.NLU,
		loc:             cfg.Localizer,
		log:             log,
		metrics:         cfg.Metrics,
		rng:             rng,
		timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
		sessionDefault:  defaultState,
		sessionSleep:    sleepState,
		sessionState:    defaultState,
		queue:           &intentQueue{},
		questions:       newPendingQuestions(),
		out:             &outputBuffer{},
		defaultLanguage: cfg.DefaultLanguage,
		ctx:             ctx,
	}

	// The abort/resume protocols answer with the engine's own vocabulary.
	e.nlu.AddUsedIntents([]string{
		domain.IntentAbort, domain.IntentLast, domain.IntentAll,
		domain.IntentYes, domain.IntentNo,
	})

	e.mu.Lock()
	e.armTimerLocked()
	e.mu.Unlock()

	return e, nil
}

// AddSkill compiles and registers a skill. Failures are logged, never
// returned: a rejected skill simply stays unregistered.
func (e *Engine) AddSkill(skill ports.Skill, definition []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		e.log.Error("addSkill called on a closed engine")
		return
	}
	if skill == nil {
		e.log.Error("addSkill called with a nil skill")
		return
	}
	if len(strings.TrimSpace(string(definition))) == 0 {
		e.log.Error("addSkill called with a blank definition")
		return
	}

	m, err := machine.Build(skill, definition, e.nlu, e.log)
	if err != nil {
		// Build already logged every problem it found.
		return
	}

	for _, existing := range e.skills {
		if strings.EqualFold(existing.Name(), m.Name()) {
			e.log.Error("skill name collides with a registered skill",
				"skill", m.Name(), "existing", existing.Name())
			return
		}
	}

	e.skills = append(e.skills, m)
	if e.metrics != nil {
		e.metrics.RegisteredSkills.Set(float64(len(e.skills)))
	}
	e.log.Info("skill registered", "skill", m.Name())
}

// GetState reports the session's observable state: the sleep state while
// asleep (regardless of any active skill), else the active skill's current
// state, else the session state. A closed engine reports "".
func (e *Engine) GetState() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		e.log.Error("getState called on a closed engine")
		return ""
	}
	if e.sessionState == e.sessionSleep {
		return e.sessionState.Name
	}
	if e.current != nil {
		return e.current.CurrentState().Name
	}
	return e.sessionState.Name
}

// Shutdown closes the engine. The context document is serialized and handed
// to sink (when one is supplied) so the next session can be seeded with it;
// everything else is discarded. Every later public call is a logged no-op.
func (e *Engine) Shutdown(sink func(serializedContext string)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		e.log.Error("shutdown called twice")
		return
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.closed = true

	serialized, err := e.ctx.Serialize()
	if err != nil {
		e.log.Error("failed to serialize context on shutdown", "err", err)
		serialized = "{}"
	}
	e.ctx.Reset()

	if sink == nil {
		e.log.Warn("shutdown without a context sink, snapshot discarded")
		return
	}
	sink(serialized)
}

// armTimerLocked replaces (never stacks) the inactivity timer.
// Callers must hold e.mu.
func (e *Engine) armTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.timeout, e.onIdleTimeout)
}

// onIdleTimeout runs on the timer goroutine. The session check is
// re-validated under the lock: a turn that raced the timer wins.
func (e *Engine) onIdleTimeout() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.sessionState != e.sessionDefault {
		return
	}
	next := e.sessionState.NextState(domain.TriggerSleep)
	if next == nil {
		return
	}
	e.sessionState = next
	if e.metrics != nil {
		e.metrics.SleepTransitions.Inc()
	}
	e.log.Info("session idled into sleep state")
}

// lang returns the locale for user-facing output.
func (e *Engine) lang() string {
	if e.language != "" {
		return e.language
	}
	return e.defaultLanguage
}

// msg resolves an engine message key through the localizer.
func (e *Engine) msg(key string, args ...any) string {
	return e.loc.Message(e.lang(), key, args...)
}
