package ports

import "github.com/parley-dev/parley/pkg/domain"

// Skill is one pluggable unit of conversational capability. Its control flow
// is declared separately as a state machine definition; the engine drives the
// machine and calls back into the skill for the business logic of each step.
type Skill interface {
	// Name identifies the skill. Must match the name in its definition.
	Name() string

	// CanExecute reports whether the skill handles intent while its machine
	// sits in the state named currentState.
	CanExecute(intent, currentState string) bool

	// Execute runs one step. The returned answer selects the machine
	// transition via its trigger and may carry output lines and follow-up
	// questions. Returning nil is a contract violation the engine logs.
	Execute(intent string, ctx *domain.Context, currentState, language string) *domain.SkillAnswer

	// Reset clears any per-conversation bookkeeping the skill keeps
	// (counters, partial results). Called when its machine is rewound.
	Reset()

	// ExampleRequests returns sample utterances the user could try from the
	// given state, localized for language. Used in error recovery output.
	ExampleRequests(currentState, language string) []string
}
