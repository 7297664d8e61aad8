package dsl

import (
	"encoding/json"
	"fmt"

	"github.com/parley-dev/parley/pkg/schema"
)

// Builder accumulates a skill definition.
type Builder struct {
	def schema.Definition
}

// New creates a builder for a skill with the given name.
func New(name string) *Builder {
	return &Builder{def: schema.Definition{Name: name}}
}

// Start sets the machine's start state name.
func (b *Builder) Start(state string) *Builder {
	b.def.StartAt = state
	return b
}

// End sets the machine's end state name.
func (b *Builder) End(state string) *Builder {
	b.def.EndAt = state
	return b
}

// Entities declares the entity names the skill fills.
func (b *Builder) Entities(entities ...string) *Builder {
	b.def.UsedEntities = append(b.def.UsedEntities, entities...)
	return b
}

// Intents declares the intent labels the skill handles.
func (b *Builder) Intents(intents ...string) *Builder {
	b.def.UsedIntents = append(b.def.UsedIntents, intents...)
	return b
}

// States adds states by name. Adding the same name twice is caught at build
// time by the machine compiler.
func (b *Builder) States(names ...string) *Builder {
	for _, name := range names {
		b.def.States = append(b.def.States, schema.StateDef{Name: name})
	}
	return b
}

// Transition adds an edge from source to target fired by trigger.
func (b *Builder) Transition(source, target, trigger string) *Builder {
	b.def.Transitions = append(b.def.Transitions, schema.TransitionDef{
		Source:  source,
		Target:  target,
		Trigger: trigger,
	})
	return b
}

// Definition validates the accumulated document and returns it typed.
func (b *Builder) Definition() (*schema.Definition, error) {
	raw, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	return schema.ParseDefinition(raw)
}

// Bytes renders the definition as JSON suitable for AddSkill. The document is
// run through schema validation first, so structural mistakes surface here
// rather than at registration.
func (b *Builder) Bytes() ([]byte, error) {
	if b.def.UsedEntities == nil {
		b.def.UsedEntities = []string{}
	}
	if b.def.UsedIntents == nil {
		b.def.UsedIntents = []string{}
	}

	raw, err := json.Marshal(b.def)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}

	doc, err := schema.Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}
	return raw, nil
}
