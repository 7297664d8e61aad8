// Package testutil provides scripted collaborator doubles shared by the
// engine and machine tests.
package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/parley-dev/parley/pkg/domain"
)

// StubSkill is a scriptable ports.Skill.
type StubSkill struct {
	SkillName  string
	Intents    map[string]bool
	ExecuteFn  func(intent string, ctx *domain.Context, currentState, language string) *domain.SkillAnswer
	Examples   []string
	ResetCalls int
}

func (s *StubSkill) Name() string { return s.SkillName }

func (s *StubSkill) CanExecute(intent, currentState string) bool {
	return s.Intents[intent]
}

func (s *StubSkill) Execute(intent string, ctx *domain.Context, currentState, language string) *domain.SkillAnswer {
	if s.ExecuteFn == nil {
		return nil
	}
	return s.ExecuteFn(intent, ctx, currentState, language)
}

func (s *StubSkill) Reset() { s.ResetCalls++ }

func (s *StubSkill) ExampleRequests(currentState, language string) []string {
	return s.Examples
}

// StubNLU is a scriptable ports.Understander. Understand results are keyed
// by exact input text; unknown inputs yield an empty result. EntityFn, when
// set, handles slot-filling turns.
type StubNLU struct {
	Responses map[string]*domain.Understanding
	EntityFn  func(input string, ctx *domain.Context, entityName string) *domain.Understanding

	RegisteredEntities []string
	RegisteredIntents  []string
}

func (n *StubNLU) Understand(input string, ctx *domain.Context) (*domain.Understanding, error) {
	if r, ok := n.Responses[input]; ok {
		return r, nil
	}
	return &domain.Understanding{}, nil
}

func (n *StubNLU) UnderstandEntity(input string, ctx *domain.Context, entityName string) (*domain.Understanding, error) {
	if n.EntityFn != nil {
		return n.EntityFn(input, ctx, entityName), nil
	}
	// Scripted utterances (commands, topic changes) win over slot filling.
	if r, ok := n.Responses[input]; ok {
		return r, nil
	}
	// Default slot filling: accept the raw input as the entity value.
	ctx.Set(entityName, input)
	return &domain.Understanding{AddedNewEntities: true}, nil
}

func (n *StubNLU) AddUsedEntities(entities []string) {
	n.RegisteredEntities = append(n.RegisteredEntities, entities...)
}

func (n *StubNLU) AddUsedIntents(intents []string) {
	n.RegisteredIntents = append(n.RegisteredIntents, intents...)
}

// TwoStateDefinition renders a minimal valid definition with an idle and a
// done state, a self-loop on idle ("asked"), and an idle->done edge
// ("answered").
func TwoStateDefinition(name, intent, entity string) []byte {
	doc := map[string]any{
		"name":         name,
		"startAt":      "idle",
		"endAt":        "done",
		"usedEntities": []string{entity},
		"usedIntents":  []string{intent},
		"states": []map[string]string{
			{"name": "idle"},
			{"name": "done"},
		},
		"transitions": []map[string]string{
			{"source": "idle", "target": "idle", "trigger": "asked"},
			{"source": "idle", "target": "done", "trigger": "answered"},
		},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal definition: %v", err))
	}
	return raw
}

// LoopDefinition renders a definition whose only wired transition is a
// self-loop on the start state, so the machine never reaches its end state.
func LoopDefinition(name, intent string) []byte {
	doc := map[string]any{
		"name":         name,
		"startAt":      "idle",
		"endAt":        "done",
		"usedEntities": []string{},
		"usedIntents":  []string{intent},
		"states": []map[string]string{
			{"name": "idle"},
			{"name": "done"},
		},
		"transitions": []map[string]string{
			{"source": "idle", "target": "idle", "trigger": "again"},
		},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal definition: %v", err))
	}
	return raw
}
