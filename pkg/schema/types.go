package schema

// Definition is the declarative description of a skill's state machine.
// It is authored as JSON or YAML and compiled into an executable machine by
// the builder.
type Definition struct {
	Name         string          `json:"name" yaml:"name" mapstructure:"name"`
	StartAt      string          `json:"startAt" yaml:"startAt" mapstructure:"startAt"`
	EndAt        string          `json:"endAt" yaml:"endAt" mapstructure:"endAt"`
	UsedEntities []string        `json:"usedEntities" yaml:"usedEntities" mapstructure:"usedEntities"`
	UsedIntents  []string        `json:"usedIntents" yaml:"usedIntents" mapstructure:"usedIntents"`
	States       []StateDef      `json:"states" yaml:"states" mapstructure:"states"`
	Transitions  []TransitionDef `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
}

// StateDef declares one named state of the machine.
type StateDef struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
}

// TransitionDef declares one edge between two declared states.
type TransitionDef struct {
	Source  string `json:"source" yaml:"source" mapstructure:"source"`
	Target  string `json:"target" yaml:"target" mapstructure:"target"`
	Trigger string `json:"trigger" yaml:"trigger" mapstructure:"trigger"`
}
