package machine

import (
	"encoding/json"
	"testing"

	"github.com/parley-dev/parley/internal/logging"
	"github.com/parley-dev/parley/internal/testutil"
	"github.com/parley-dev/parley/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, doc map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return raw
}

func validDoc() map[string]any {
	return map[string]any{
		"name":         "weather",
		"startAt":      "idle",
		"endAt":        "done",
		"usedEntities": []string{"weatherLocations"},
		"usedIntents":  []string{"weather"},
		"states": []map[string]string{
			{"name": "idle"}, {"name": "done"},
		},
		"transitions": []map[string]string{
			{"source": "idle", "target": "done", "trigger": "answered"},
		},
	}
}

func TestBuild_OK(t *testing.T) {
	nlu := &testutil.StubNLU{}
	skill := &testutil.StubSkill{SkillName: "weather"}

	m, err := Build(skill, mustJSON(t, validDoc()), nlu, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "weather", m.Name())
	assert.Equal(t, "idle", m.CurrentState().Name)
	assert.Equal(t, []string{"weatherLocations"}, nlu.RegisteredEntities)
	assert.Equal(t, []string{"weather"}, nlu.RegisteredIntents)
}

func TestBuild_MalformedDocument(t *testing.T) {
	_, err := Build(&testutil.StubSkill{}, []byte("{nope"), &testutil.StubNLU{}, logging.NewNop())
	assert.Error(t, err)
}

func TestBuild_DanglingSourceState(t *testing.T) {
	doc := validDoc()
	doc["transitions"] = []map[string]string{
		{"source": "ghost", "target": "done", "trigger": "answered"},
	}

	nlu := &testutil.StubNLU{}
	m, err := Build(&testutil.StubSkill{}, mustJSON(t, doc), nlu, logging.NewNop())
	assert.Nil(t, m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot find the source state "ghost"`)

	// A rejected skill must not register vocabulary.
	assert.Empty(t, nlu.RegisteredIntents)
}

func TestBuild_ReportsAllProblemsAtOnce(t *testing.T) {
	doc := validDoc()
	doc["name"] = "  "
	doc["startAt"] = "missing"
	doc["transitions"] = []map[string]string{
		{"source": "ghost", "target": "done", "trigger": "a"},
		{"source": "idle", "target": "phantom", "trigger": "b"},
	}

	_, err := Build(&testutil.StubSkill{}, mustJSON(t, doc), &testutil.StubNLU{}, logging.NewNop())
	require.Error(t, err)

	errs := schema.ValidationErrors(err)
	require.NotNil(t, errs)
	assert.GreaterOrEqual(t, len(errs), 4)

	msg := err.Error()
	assert.Contains(t, msg, `cannot find the source state "ghost"`)
	assert.Contains(t, msg, `cannot find the target state "phantom"`)
	assert.Contains(t, msg, `start state "missing"`)
	assert.Contains(t, msg, "name must not be blank")
}

func TestBuild_SchemaViolationsAggregated(t *testing.T) {
	doc := validDoc()
	delete(doc, "endAt")
	doc["usedIntents"] = []any{1, 2}

	_, err := Build(&testutil.StubSkill{}, mustJSON(t, doc), &testutil.StubNLU{}, logging.NewNop())
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "endAt")
	assert.Contains(t, msg, "usedIntents[0]")
}

func TestBuild_DuplicateState(t *testing.T) {
	doc := validDoc()
	doc["states"] = []map[string]string{
		{"name": "idle"}, {"name": "idle"}, {"name": "done"},
	}

	_, err := Build(&testutil.StubSkill{}, mustJSON(t, doc), &testutil.StubNLU{}, logging.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared more than once")
}
