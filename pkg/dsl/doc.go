/*
Package dsl provides a fluent builder for skill definitions, as an alternative
to writing the JSON or YAML documents by hand.

	raw, err := dsl.New("weather").
		Start("idle").End("done").
		Entities("weatherLocations").
		Intents("weather").
		States("idle", "done").
		Transition("idle", "idle", "asked").
		Transition("idle", "done", "answered").
		Bytes()
	if err != nil {
		// handle
	}
	engine.AddSkill(&WeatherSkill{}, raw)

The builder produces the same document shape the schema package validates, so
definitions built here and definitions loaded from files go through identical
checks at registration time.
*/
package dsl
