package runtime

import (
	"math/rand"
	"testing"
	"time"

	"github.com/parley-dev/parley/internal/i18n"
	"github.com/parley-dev/parley/internal/logging"
	"github.com/parley-dev/parley/internal/testutil"
	"github.com/parley-dev/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, nlu *testutil.StubNLU, contextJSON string) *Engine {
	t.Helper()

	loc, err := i18n.NewCatalog("en", logging.NewNop())
	require.NoError(t, err)

	e, err := New(Config{
		NLU:             nlu,
		TimeoutSeconds:  300,
		ContextJSON:     contextJSON,
		DefaultLanguage: "en",
		Localizer:       loc,
		Logger:          logging.NewNop(),
		Rand:            rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { e.Shutdown(nil) })
	return e
}

func scriptedNLU() *testutil.StubNLU {
	return &testutil.StubNLU{Responses: map[string]*domain.Understanding{
		"what is the weather": {Intents: []string{"weather"}},
		"tell me a joke":      {Intents: []string{"joke"}},
		"abort":               {Intents: []string{"abort"}},
		"last":                {Intents: []string{"last"}},
		"all":                 {Intents: []string{"all"}},
		"yes":                 {Intents: []string{"yes"}},
		"no":                  {Intents: []string{"no"}},
	}}
}

// weatherSkill asks for a location once and answers from the context.
func weatherSkill() *testutil.StubSkill {
	return &testutil.StubSkill{
		SkillName: "weather",
		Intents:   map[string]bool{"weather": true},
		Examples:  []string{"What is the weather in Berlin?"},
		ExecuteFn: func(intent string, ctx *domain.Context, state, lang string) *domain.SkillAnswer {
			if city, ok := ctx.GetString("weatherLocations"); ok {
				return &domain.SkillAnswer{
					TransitionTrigger: "answered",
					Answers:           []string{"Sunny in " + city + "."},
				}
			}
			return &domain.SkillAnswer{
				TransitionTrigger: "asked",
				RequiredQuestions: []domain.Question{
					{Entity: "weatherLocations", Text: "Which city?"},
				},
			}
		},
	}
}

// jokeSkill answers in a single step.
func jokeSkill() *testutil.StubSkill {
	return &testutil.StubSkill{
		SkillName: "joke",
		Intents:   map[string]bool{"joke": true},
		Examples:  []string{"Tell me a joke!"},
		ExecuteFn: func(string, *domain.Context, string, string) *domain.SkillAnswer {
			return &domain.SkillAnswer{
				TransitionTrigger: "answered",
				Answers:           []string{"A joke."},
			}
		},
	}
}

func addWeather(t *testing.T, e *Engine) {
	t.Helper()
	e.AddSkill(weatherSkill(), testutil.TwoStateDefinition("weather", "weather", "weatherLocations"))
	require.Len(t, e.skills, 1)
}

func addJoke(t *testing.T, e *Engine) {
	t.Helper()
	e.AddSkill(jokeSkill(), testutil.TwoStateDefinition("joke", "joke", "jokeTopic"))
}

func TestNew_ArgumentValidation(t *testing.T) {
	loc, err := i18n.NewCatalog("en", logging.NewNop())
	require.NoError(t, err)

	base := Config{
		NLU:             scriptedNLU(),
		TimeoutSeconds:  10,
		DefaultLanguage: "en",
		Localizer:       loc,
	}

	t.Run("nil nlu", func(t *testing.T) {
		cfg := base
		cfg.NLU = nil
		_, err := New(cfg)
		assert.Error(t, err)
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := base
		cfg.TimeoutSeconds = 0
		_, err := New(cfg)
		assert.Error(t, err)
	})

	t.Run("blank language", func(t *testing.T) {
		cfg := base
		cfg.DefaultLanguage = "  "
		_, err := New(cfg)
		assert.Error(t, err)
	})

	t.Run("broken context json", func(t *testing.T) {
		cfg := base
		cfg.ContextJSON = "{nope"
		_, err := New(cfg)
		assert.Error(t, err)
	})
}

func TestNew_RegistersEngineVocabulary(t *testing.T) {
	nlu := scriptedNLU()
	newTestEngine(t, nlu, "")

	assert.Equal(t,
		[]string{"abort", "last", "all", "yes", "no"},
		nlu.RegisteredIntents)
}

func TestUserInput_DirectAnswerWithSeededContext(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), `{"weatherLocations":"Berlin"}`)
	addWeather(t, e)

	out := e.UserInput("what is the weather")
	assert.Equal(t, []string{"Sunny in Berlin."}, out)

	// The skill ended with nothing to resume: session is back to default.
	assert.Equal(t, domain.SessionStateDefault, e.GetState())
}

func TestUserInput_SlotFilling(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	addWeather(t, e)

	out := e.UserInput("what is the weather")
	assert.Equal(t, []string{"Which city?"}, out)
	assert.True(t, e.awaitingSkillQuestion)
	assert.Equal(t, "idle", e.GetState())

	out = e.UserInput("Berlin")
	assert.Equal(t, []string{"Sunny in Berlin."}, out)
	assert.False(t, e.awaitingSkillQuestion)
	assert.Equal(t, 0, e.questions.Count("weather"))
	assert.Equal(t, domain.SessionStateDefault, e.GetState())
}

func TestUserInput_FailedSlotAnswerRepresentsSameQuestion(t *testing.T) {
	nlu := scriptedNLU()
	nlu.EntityFn = func(input string, ctx *domain.Context, entity string) *domain.Understanding {
		return &domain.Understanding{} // never extracts anything
	}
	e := newTestEngine(t, nlu, "")
	addWeather(t, e)

	e.UserInput("what is the weather")
	require.Equal(t, 1, e.questions.Count("weather"))

	out := e.UserInput("mumble")
	assert.Contains(t, out, "Which city?")
	// Ledger unchanged, question still outstanding.
	assert.Equal(t, 1, e.questions.Count("weather"))
	assert.True(t, e.awaitingSkillQuestion)
}

func TestUserInput_BlankInput(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	addWeather(t, e)

	out := e.UserInput("   ")
	require.NotEmpty(t, out)
	assert.Equal(t, e.msg(msgNotUnderstood), out[0])
	assert.Contains(t, out, "What is the weather in Berlin?")
}

func TestUserInput_BlankInputReasksPendingQuestion(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	addWeather(t, e)

	e.UserInput("what is the weather")
	out := e.UserInput("")
	assert.Contains(t, out, "Which city?")
	assert.Equal(t, 1, e.questions.Count("weather"))
}

func TestUserInput_Unrecognized(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	addWeather(t, e)

	out := e.UserInput("gibberish nobody understands")
	require.NotEmpty(t, out)
	assert.Equal(t, e.msg(msgNotUnderstood), out[0])
}

func TestUserInput_NoSkillFound(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	addJoke(t, e)

	out := e.UserInput("what is the weather")
	assert.Contains(t, out, e.msg(msgNoSkill))
	// The intent was dropped, not left queued.
	assert.Equal(t, 0, e.queue.Len())
}

func TestUserInput_DetectionOrderPreserved(t *testing.T) {
	nlu := scriptedNLU()
	nlu.Responses["do all the things"] = &domain.Understanding{
		Intents: []string{"alpha", "beta", "gamma"},
	}

	var order []string
	oneShot := func(name string) *testutil.StubSkill {
		return &testutil.StubSkill{
			SkillName: name,
			Intents:   map[string]bool{name: true},
			ExecuteFn: func(intent string, _ *domain.Context, _, _ string) *domain.SkillAnswer {
				order = append(order, intent)
				return &domain.SkillAnswer{TransitionTrigger: "answered", Answers: []string{name + " done"}}
			},
		}
	}

	e := newTestEngine(t, nlu, "")
	for _, name := range []string{"alpha", "beta", "gamma"} {
		e.AddSkill(oneShot(name), testutil.TwoStateDefinition(name, name, name+"Entity"))
	}
	require.Len(t, e.skills, 3)

	e.UserInput("do all the things")
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, order)
}

func TestUserInput_SkillContractViolation(t *testing.T) {
	broken := &testutil.StubSkill{
		SkillName: "broken",
		Intents:   map[string]bool{"breakit": true},
		ExecuteFn: func(string, *domain.Context, string, string) *domain.SkillAnswer {
			return nil
		},
	}
	nlu := scriptedNLU()
	nlu.Responses["break"] = &domain.Understanding{Intents: []string{"breakit"}}

	e := newTestEngine(t, nlu, "")
	e.AddSkill(broken, testutil.TwoStateDefinition("broken", "breakit", "x"))

	out := e.UserInput("break")
	assert.Contains(t, out, e.msg(msgNotUnderstood))
	// The machine must still sit in its start state.
	assert.Equal(t, "idle", e.skills[0].CurrentState().Name)
}

func TestDisambiguation(t *testing.T) {
	nlu := scriptedNLU()
	home := weatherSkill()
	home.SkillName = "WeatherHome"
	work := weatherSkill()
	work.SkillName = "WeatherWork"

	e := newTestEngine(t, nlu, `{"weatherLocations":"Berlin"}`)
	e.AddSkill(home, testutil.TwoStateDefinition("WeatherHome", "weather", "weatherLocations"))
	e.AddSkill(work, testutil.TwoStateDefinition("WeatherWork", "weather", "weatherLocations"))
	require.Len(t, e.skills, 2)

	out := e.UserInput("what is the weather")
	require.Len(t, out, 1)
	prompt := out[0]
	assert.Contains(t, prompt, "WeatherHome")
	assert.Contains(t, prompt, "WeatherWork")
	assert.True(t, e.awaitingChooseSkill)

	// Replying with neither name re-prompts with the identical message.
	out = e.UserInput("the blue one")
	assert.Equal(t, []string{prompt}, out)
	assert.True(t, e.awaitingChooseSkill)

	// Matching is case-insensitive against the offered names.
	out = e.UserInput("weatherwork")
	assert.Equal(t, []string{"Sunny in Berlin."}, out)
	assert.False(t, e.awaitingChooseSkill)
}

func TestAbort_WithoutInterruptedSkillClearsPipeline(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	addWeather(t, e)

	e.UserInput("what is the weather")
	require.Equal(t, 1, e.questions.Count("weather"))

	out := e.UserInput("abort")
	// Cleared in one turn: no abort question, just the generic prompt.
	assert.Equal(t, []string{e.msg(msgWhatNext)}, out)
	assert.False(t, e.awaitingAbortAnswer)
	assert.Equal(t, 0, e.questions.Count("weather"))
	assert.Equal(t, 0, e.queue.Len())
	assert.Nil(t, e.current)
	assert.Equal(t, domain.SessionStateDefault, e.GetState())
}

func TestInterruptionAndResume_Yes(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	addWeather(t, e)
	addJoke(t, e)

	e.UserInput("what is the weather")
	out := e.UserInput("tell me a joke")

	// The joke ran and, since it ended while weather was interrupted, the
	// engine asks whether to continue with weather.
	require.Contains(t, out, "A joke.")
	require.True(t, e.awaitingResumeAnswer)
	assert.Contains(t, out[len(out)-1], "weather")

	out = e.UserInput("yes")
	assert.Contains(t, out, "Which city?")
	assert.True(t, e.awaitingSkillQuestion)

	out = e.UserInput("Berlin")
	assert.Equal(t, []string{"Sunny in Berlin."}, out)
}

func TestInterruptionAndResume_No(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	addWeather(t, e)
	addJoke(t, e)

	e.UserInput("what is the weather")
	e.UserInput("tell me a joke")
	require.True(t, e.awaitingResumeAnswer)

	out := e.UserInput("no")
	assert.Equal(t, []string{e.msg(msgWhatNext)}, out)
	assert.Nil(t, e.current)
	assert.Nil(t, e.lastUsed)
	assert.Equal(t, 0, e.questions.Count("weather"))
}

func TestInterruptionAndResume_OtherAnswerReasks(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	addWeather(t, e)
	addJoke(t, e)

	e.UserInput("what is the weather")
	out := e.UserInput("tell me a joke")
	resumePrompt := out[len(out)-1]

	out = e.UserInput("tell me a joke")
	assert.Equal(t, []string{resumePrompt}, out)
	assert.True(t, e.awaitingResumeAnswer)
}

// counterSkill never ends: its machine loops on the start state so the skill
// can sit interrupted while another one runs.
func counterSkill() *testutil.StubSkill {
	return &testutil.StubSkill{
		SkillName: "counter",
		Intents:   map[string]bool{"count": true},
		ExecuteFn: func(string, *domain.Context, string, string) *domain.SkillAnswer {
			return &domain.SkillAnswer{TransitionTrigger: "again", Answers: []string{"1"}}
		},
	}
}

// startInterruptedPair leaves the counter skill interrupted by the weather
// skill, which is mid slot filling.
func startInterruptedPair(t *testing.T, e *Engine, nlu *testutil.StubNLU) {
	t.Helper()
	nlu.Responses["count something"] = &domain.Understanding{Intents: []string{"count"}}

	e.UserInput("count something")
	out := e.UserInput("what is the weather")
	require.Contains(t, out, "Which city?")
	require.NotNil(t, e.lastUsed)
	require.Equal(t, "counter", e.lastUsed.Name())
}

func TestAbort_WithInterruptedSkillAsksFirst(t *testing.T) {
	nlu := scriptedNLU()
	e := newTestEngine(t, nlu, "")
	addWeather(t, e)
	weather := e.skills[0].Skill().(*testutil.StubSkill)
	e.AddSkill(counterSkill(), testutil.LoopDefinition("counter", "count"))

	startInterruptedPair(t, e, nlu)

	out := e.UserInput("abort")
	assert.Equal(t, []string{e.msg(msgAbortQuestion)}, out)
	assert.True(t, e.awaitingAbortAnswer)

	// An answer that is neither "last" nor "all" re-asks.
	out = e.UserInput("tell me a joke")
	assert.Equal(t, []string{e.msg(msgAbortQuestion)}, out)
	assert.True(t, e.awaitingAbortAnswer)

	// "last" aborts the weather skill and hands control back to the counter.
	e.UserInput("last")
	assert.False(t, e.awaitingAbortAnswer)
	require.NotNil(t, e.current)
	assert.Equal(t, "counter", e.current.Name())
	assert.Nil(t, e.lastUsed)
	assert.Equal(t, 1, weather.ResetCalls)
	assert.Equal(t, 0, e.questions.Count("weather"))
	assert.Equal(t, 0, e.queue.Len())
}

func TestAbort_All(t *testing.T) {
	nlu := scriptedNLU()
	e := newTestEngine(t, nlu, "")
	addWeather(t, e)
	e.AddSkill(counterSkill(), testutil.LoopDefinition("counter", "count"))

	startInterruptedPair(t, e, nlu)

	e.UserInput("abort")
	require.True(t, e.awaitingAbortAnswer)

	out := e.UserInput("all")
	assert.Equal(t, []string{e.msg(msgWhatNext)}, out)
	assert.Nil(t, e.current)
	assert.Nil(t, e.lastUsed)
	assert.Equal(t, 0, e.queue.Len())
	assert.Equal(t, 0, e.questions.Count("weather"))
}

func TestReactivatedSkillReasksInsteadOfReexecuting(t *testing.T) {
	nlu := scriptedNLU()
	nlu.Responses["count something"] = &domain.Understanding{Intents: []string{"count"}}
	e := newTestEngine(t, nlu, "")
	addWeather(t, e)
	e.AddSkill(counterSkill(), testutil.LoopDefinition("counter", "count"))

	e.UserInput("what is the weather")
	require.Equal(t, 1, e.questions.Count("weather"))

	// The counter interrupts but does not end, so the still-queued weather
	// intent is resolved again in the same turn. The open question must be
	// re-asked once, not asked twice.
	out := e.UserInput("count something")
	assert.Equal(t, []string{"1", "Which city?"}, out)
	assert.Equal(t, 1, e.questions.Count("weather"))
	assert.True(t, e.awaitingSkillQuestion)

	// Weather ends while the counter is still on record, so the turn closes
	// with the resume question.
	out = e.UserInput("Berlin")
	require.NotEmpty(t, out)
	assert.Equal(t, "Sunny in Berlin.", out[0])
	assert.True(t, e.awaitingResumeAnswer)
}

func TestSleepAndWake(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	addWeather(t, e)

	e.UserInput("what is the weather")
	require.Equal(t, "idle", e.GetState())

	// Fire the inactivity timeout directly; the sleep state masks the
	// active skill's state.
	e.onIdleTimeout()
	assert.Equal(t, domain.SessionStateSleep, e.GetState())

	// A second fire while already asleep is a no-op.
	e.onIdleTimeout()
	assert.Equal(t, domain.SessionStateSleep, e.GetState())

	out := e.UserInput("Berlin")
	require.NotEmpty(t, out)
	assert.Equal(t, e.msg(msgWelcomeBack), out[0])
	assert.Contains(t, out, "Sunny in Berlin.")
	assert.NotEqual(t, domain.SessionStateSleep, e.GetState())
}

func TestIdleTimer_FiresForReal(t *testing.T) {
	loc, err := i18n.NewCatalog("en", logging.NewNop())
	require.NoError(t, err)

	e, err := New(Config{
		NLU:             scriptedNLU(),
		TimeoutSeconds:  1,
		DefaultLanguage: "en",
		Localizer:       loc,
		Logger:          logging.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { e.Shutdown(nil) })

	assert.Eventually(t, func() bool {
		return e.GetState() == domain.SessionStateSleep
	}, 3*time.Second, 50*time.Millisecond)
}

func TestShutdown(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), `{"weatherLocations":"Berlin"}`)

	var snapshot string
	e.Shutdown(func(serialized string) { snapshot = serialized })
	assert.Contains(t, snapshot, "Berlin")

	// Every public operation is now a safe no-op.
	assert.Nil(t, e.UserInput("what is the weather"))
	assert.Equal(t, "", e.GetState())
	e.AddSkill(weatherSkill(), testutil.TwoStateDefinition("weather", "weather", "weatherLocations"))
	assert.Empty(t, e.skills)

	called := false
	e.Shutdown(func(string) { called = true })
	assert.False(t, called)
}

func TestContextRoundTrip(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	addWeather(t, e)

	e.UserInput("what is the weather")
	e.UserInput("Berlin")

	var snapshot string
	e.Shutdown(func(serialized string) { snapshot = serialized })
	require.NotEmpty(t, snapshot)

	// A new engine seeded with the snapshot answers without re-asking.
	e2 := newTestEngine(t, scriptedNLU(), snapshot)
	addWeather(t, e2)
	out := e2.UserInput("what is the weather")
	assert.Equal(t, []string{"Sunny in Berlin."}, out)
}

func TestAddSkill_Rejections(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")

	e.AddSkill(nil, testutil.TwoStateDefinition("weather", "weather", "x"))
	assert.Empty(t, e.skills)

	e.AddSkill(weatherSkill(), []byte("   "))
	assert.Empty(t, e.skills)

	addWeather(t, e)

	// Case-insensitive name collision.
	dup := weatherSkill()
	dup.SkillName = "Weather"
	e.AddSkill(dup, testutil.TwoStateDefinition("Weather", "weather", "weatherLocations"))
	assert.Len(t, e.skills, 1)
}

func TestGetState_PrecedenceRules(t *testing.T) {
	e := newTestEngine(t, scriptedNLU(), "")
	assert.Equal(t, domain.SessionStateDefault, e.GetState())

	addWeather(t, e)
	e.UserInput("what is the weather")
	assert.Equal(t, "idle", e.GetState())

	e.onIdleTimeout()
	assert.Equal(t, domain.SessionStateSleep, e.GetState())
}
