package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_Transitions(t *testing.T) {
	idle := NewState("idle")
	asking := NewState("asking")

	idle.AddTransition(asking, "ask")

	assert.Same(t, asking, idle.NextState("ask"))
	assert.Nil(t, idle.NextState("unknown"))
}

func TestState_DuplicateTriggerOverwrites(t *testing.T) {
	a := NewState("a")
	b := NewState("b")
	c := NewState("c")

	a.AddTransition(b, "go")
	a.AddTransition(c, "go")

	assert.Same(t, c, a.NextState("go"))
	assert.Len(t, a.Triggers(), 1)
}

func TestContext_RoundTrip(t *testing.T) {
	ctx := NewContext()
	ctx.Set("weatherLocations", "Berlin")
	ctx.Set("retries", float64(2))

	raw, err := ctx.Serialize()
	assert.NoError(t, err)

	restored, err := ParseContext(raw)
	assert.NoError(t, err)

	loc, ok := restored.GetString("weatherLocations")
	assert.True(t, ok)
	assert.Equal(t, "Berlin", loc)
	assert.Equal(t, 2, restored.Len())
}

func TestParseContext_Invalid(t *testing.T) {
	_, err := ParseContext("{not json")
	assert.Error(t, err)

	ctx, err := ParseContext("")
	assert.NoError(t, err)
	assert.Equal(t, 0, ctx.Len())
}
