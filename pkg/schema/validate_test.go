package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodJSON = `{
	"name": "weather",
	"startAt": "idle",
	"endAt": "done",
	"usedEntities": ["weatherLocations"],
	"usedIntents": ["weather"],
	"states": [{"name": "idle"}, {"name": "done"}],
	"transitions": [{"source": "idle", "target": "done", "trigger": "answered"}]
}`

const goodYAML = `
name: weather
startAt: idle
endAt: done
usedEntities: [weatherLocations]
usedIntents: [weather]
states:
  - name: idle
  - name: done
transitions:
  - source: idle
    target: done
    trigger: answered
`

func TestParseDefinition_JSON(t *testing.T) {
	def, err := ParseDefinition([]byte(goodJSON))
	require.NoError(t, err)
	assert.Equal(t, "weather", def.Name)
	assert.Equal(t, "idle", def.StartAt)
	assert.Len(t, def.States, 2)
	assert.Equal(t, "answered", def.Transitions[0].Trigger)
}

func TestParseDefinition_YAML(t *testing.T) {
	def, err := ParseDefinition([]byte(goodYAML))
	require.NoError(t, err)
	assert.Equal(t, "weather", def.Name)
	assert.Equal(t, []string{"weather"}, def.UsedIntents)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("{broken"))
	assert.Error(t, err)

	_, err = Parse([]byte("   "))
	assert.Error(t, err)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	doc := map[string]any{
		"name":         42, // wrong type
		"startAt":      "idle",
		"usedEntities": []any{"ok", 7}, // one bad element
		"usedIntents":  []any{},
		"states":       []any{map[string]any{}}, // missing name
		"transitions": []any{
			map[string]any{"source": "a", "target": "b"}, // missing trigger
			"not-an-object",
		},
	}

	err := Validate(doc)
	require.Error(t, err)

	errs := ValidationErrors(err)
	require.NotNil(t, errs)

	// endAt missing, name wrong type, usedEntities[1], states[0].name,
	// transitions[0].trigger, transitions[1] shape.
	assert.GreaterOrEqual(t, len(errs), 6)

	msg := err.Error()
	assert.Contains(t, msg, "endAt")
	assert.Contains(t, msg, "usedEntities[1]")
	assert.Contains(t, msg, "states[0].name")
	assert.Contains(t, msg, "transitions[0].trigger")
	assert.True(t, strings.Contains(msg, "validation errors"))
}

func TestValidate_OK(t *testing.T) {
	doc, err := Parse([]byte(goodJSON))
	require.NoError(t, err)
	assert.NoError(t, Validate(doc))
}
