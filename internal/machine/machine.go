// Package machine compiles declarative skill definitions into executable
// state machines and drives their execution.
package machine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/ports"
)

// SkillMachine wraps one skill instance with its automaton. The current
// state is mutated only by Execute and Reset; it is always reachable from
// the start state via recorded transitions.
type SkillMachine struct {
	name    string
	start   *domain.State
	current *domain.State
	end     *domain.State
	skill   ports.Skill
	log     *slog.Logger
}

// New creates a machine positioned at its start state.
func New(name string, start, end *domain.State, skill ports.Skill, log *slog.Logger) *SkillMachine {
	return &SkillMachine{
		name:    name,
		start:   start,
		current: start,
		end:     end,
		skill:   skill,
		log:     log,
	}
}

// Name returns the skill name from the definition.
func (m *SkillMachine) Name() string {
	return m.name
}

// CurrentState returns the state the machine currently sits in.
func (m *SkillMachine) CurrentState() *domain.State {
	return m.current
}

// Skill returns the wrapped skill instance.
func (m *SkillMachine) Skill() ports.Skill {
	return m.skill
}

// CanExecute delegates to the skill with the machine's current state name.
func (m *SkillMachine) CanExecute(intent string) bool {
	return m.skill.CanExecute(intent, m.current.Name)
}

// Execute runs one skill step and advances the machine over the transition
// the answer selects. The answer is rejected (and the machine left in place)
// when the skill returns nil, names a blank trigger, or names a trigger with
// no matching transition on the current state.
func (m *SkillMachine) Execute(intent string, ctx *domain.Context, language string) (*domain.SkillAnswer, error) {
	if m.current == m.start {
		m.log.Info("skill entered", "skill", m.name, "intent", intent)
	}

	answer := m.skill.Execute(intent, ctx, m.current.Name, language)
	if answer == nil {
		return nil, fmt.Errorf("skill %q: %w", m.name, domain.ErrNoAnswer)
	}

	trigger := strings.TrimSpace(answer.TransitionTrigger)
	if trigger == "" {
		return nil, fmt.Errorf("skill %q: %w", m.name, domain.ErrBlankTrigger)
	}

	next := m.current.NextState(trigger)
	if next == nil {
		return nil, fmt.Errorf("skill %q: trigger %q in state %q: %w",
			m.name, trigger, m.current.Name, domain.ErrUnknownTrigger)
	}

	m.log.Debug("skill transition",
		"skill", m.name, "from", m.current.Name, "to", next.Name, "trigger", trigger)
	m.current = next
	return answer, nil
}

// HasEnded reports whether the machine reached its end state.
func (m *SkillMachine) HasEnded() bool {
	return m.current == m.end
}

// Reset rewinds the machine to its start state and tells the skill to clear
// its per-conversation bookkeeping.
func (m *SkillMachine) Reset() {
	m.current = m.start
	m.skill.Reset()
}
