// Package cli hosts the interactive chat session and the demo skill set the
// bundled commands run with.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/parley-dev/parley"
	"github.com/parley-dev/parley/pkg/adapters/keyword"
	"github.com/parley-dev/parley/pkg/domain"
)

const weatherDefinition = `
name: weather
startAt: idle
endAt: done
usedEntities: [weatherLocations]
usedIntents: [weather]
states:
  - name: idle
  - name: done
transitions:
  - {source: idle, target: idle, trigger: asked}
  - {source: idle, target: done, trigger: answered}
`

const jokeDefinition = `
name: joke
startAt: idle
endAt: done
usedEntities: []
usedIntents: [joke]
states:
  - name: idle
  - name: done
transitions:
  - {source: idle, target: done, trigger: answered}
`

// WeatherSkill is the demo slot-filling skill: it asks for a location, then
// answers with a canned report.
type WeatherSkill struct{}

func (WeatherSkill) Name() string { return "weather" }

func (WeatherSkill) CanExecute(intent, _ string) bool { return intent == "weather" }

func (WeatherSkill) Execute(_ string, ctx *domain.Context, _, _ string) *domain.SkillAnswer {
	city, ok := ctx.GetString("weatherLocations")
	if !ok {
		return &domain.SkillAnswer{
			TransitionTrigger: "asked",
			RequiredQuestions: []domain.Question{
				{Entity: "weatherLocations", Text: "For which city?"},
			},
		}
	}
	return &domain.SkillAnswer{
		TransitionTrigger: "answered",
		Answers: []string{
			fmt.Sprintf("I have no live data, but knowing %s it is probably sunny.", city),
		},
	}
}

func (WeatherSkill) Reset() {}

func (WeatherSkill) ExampleRequests(_, _ string) []string {
	return []string{"What is the weather like?"}
}

// JokeSkill answers each request with the next joke from its rotation.
type JokeSkill struct {
	next int
}

var jokes = []string{
	"Why do programmers prefer dark mode? Because light attracts bugs.",
	"I would tell you a UDP joke, but you might not get it.",
	"There are only two hard things in computer science: cache invalidation, naming things, and off-by-one errors.",
}

func (*JokeSkill) Name() string { return "joke" }

func (*JokeSkill) CanExecute(intent, _ string) bool { return intent == "joke" }

func (j *JokeSkill) Execute(_ string, _ *domain.Context, _, _ string) *domain.SkillAnswer {
	joke := jokes[j.next%len(jokes)]
	j.next++
	return &domain.SkillAnswer{
		TransitionTrigger: "answered",
		Answers:           []string{joke},
	}
}

func (*JokeSkill) Reset() {}

func (*JokeSkill) ExampleRequests(_, _ string) []string {
	return []string{"Tell me a joke!"}
}

// NewDemoEngine builds an engine wired with the keyword recognizer and the
// demo skills. The commands use it as their session factory.
func NewDemoEngine(contextJSON, locale string, logger *slog.Logger, opts ...parley.Option) (*parley.Engine, error) {
	nlu := keyword.New()
	nlu.Map("weather", "weather", "forecast")
	nlu.Map("joke", "joke", "funny")

	opts = append([]parley.Option{parley.WithLogger(logger)}, opts...)
	eng, err := parley.New(nlu, 300, contextJSON, locale, opts...)
	if err != nil {
		return nil, err
	}

	eng.AddSkill(WeatherSkill{}, []byte(weatherDefinition))
	eng.AddSkill(&JokeSkill{}, []byte(jokeDefinition))
	return eng, nil
}
