/*
Package parley is a dialog orchestration engine for multi-skill voice and chat
assistants. It coordinates which skill speaks when: recognized intents are
queued and dispatched to the skill that can handle them, open questions are
tracked until the user answers, and interruptions, aborts, and resumptions
follow a predictable protocol.

# Concept

Parley separates language understanding from conversation control. The host
application plugs in an NLU component (anything implementing ports.Understander)
and a set of skills, each described by a declarative state machine definition
(JSON or YAML). The engine owns the session: it decides whether an utterance
answers an open question, starts a new skill, interrupts the current one, or
aborts everything.

# Key Features

  - Declarative skills: each skill's dialog flow is a validated state machine
    definition, compiled at registration time.
  - Interruption handling: a new request can interrupt a skill mid-question;
    the interrupted skill is remembered and offered for resumption.
  - Abort protocol: "abort" clears the last skill or the whole pipeline, with
    a clarifying question when both options are open.
  - Session lifecycle: inactive sessions fall asleep and greet the user on
    return; the context document survives shutdown for session continuity.

# Usage

	package main

	import (
		"bufio"
		"fmt"
		"os"

		"github.com/parley-dev/parley"
		"github.com/parley-dev/parley/pkg/adapters/keyword"
	)

	func main() {
		nlu := keyword.New()
		eng, err := parley.New(nlu, 300, "", "en")
		if err != nil {
			panic(err)
		}
		defer eng.Shutdown(nil)

		definition, _ := os.ReadFile("weather.yaml")
		eng.AddSkill(&WeatherSkill{}, definition)

		in := bufio.NewScanner(os.Stdin)
		for in.Scan() {
			for _, line := range eng.UserInput(in.Text()) {
				fmt.Println(line)
			}
		}
	}
*/
package parley
