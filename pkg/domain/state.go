package domain

// State is a named automaton node with a trigger-keyed table of outgoing
// edges. It is used both for the two-node session automaton (default/sleep)
// and for every skill's own machine. States are owned by the automaton that
// built them; they are never shared across machines.
type State struct {
	Name        string
	transitions map[string]*State
}

// NewState creates a state with no outgoing transitions.
func NewState(name string) *State {
	return &State{
		Name:        name,
		transitions: make(map[string]*State),
	}
}

// AddTransition records an edge to target fired by trigger.
// A later call with the same trigger overwrites the earlier edge; trigger
// uniqueness per state is the builder's concern, not this layer's.
func (s *State) AddTransition(target *State, trigger string) {
	s.transitions[trigger] = target
}

// NextState returns the target for trigger, or nil if the state has no edge
// for it. Unknown triggers are a caller concern.
func (s *State) NextState(trigger string) *State {
	return s.transitions[trigger]
}

// Triggers returns the outgoing trigger labels of the state.
// Used for diagnostics only; order is not defined.
func (s *State) Triggers() []string {
	out := make([]string, 0, len(s.transitions))
	for t := range s.transitions {
		out = append(out, t)
	}
	return out
}
