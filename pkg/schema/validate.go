package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// requiredKeys are the top-level fields every definition must carry.
var requiredKeys = []string{
	"name", "startAt", "endAt",
	"usedEntities", "usedIntents",
	"states", "transitions",
}

// Validate checks a parsed definition document against the embedded schema.
// It does not stop at the first problem: every structurally independent
// violation is collected into one AggregateError so the author can fix the
// whole document in a single round.
//
// Validate only covers document shape. Semantic checks (dangling transition
// references, unresolved startAt/endAt) belong to the machine builder, which
// has the materialized states at hand.
func Validate(doc map[string]any) error {
	var errs []error

	for _, key := range requiredKeys {
		if _, ok := doc[key]; !ok {
			errs = append(errs, &ValidationError{Key: key, Reason: "required"})
		}
	}

	errs = append(errs, validateString(doc, "name")...)
	errs = append(errs, validateString(doc, "startAt")...)
	errs = append(errs, validateString(doc, "endAt")...)
	errs = append(errs, validateStringSlice(doc, "usedEntities")...)
	errs = append(errs, validateStringSlice(doc, "usedIntents")...)
	errs = append(errs, validateStates(doc)...)
	errs = append(errs, validateTransitions(doc)...)

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Decode maps a validated document onto the typed Definition.
func Decode(doc map[string]any) (*Definition, error) {
	var def Definition
	if err := mapstructure.Decode(doc, &def); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	return &def, nil
}

func validateString(doc map[string]any, key string) []error {
	v, ok := doc[key]
	if !ok {
		return nil // Missing keys are reported once by the required pass
	}
	if _, ok := v.(string); !ok {
		return []error{&ValidationError{Key: key, Reason: "must be a string", Value: v}}
	}
	return nil
}

func validateStringSlice(doc map[string]any, key string) []error {
	v, ok := doc[key]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return []error{&ValidationError{Key: key, Reason: "must be an array of strings", Value: v}}
	}
	var errs []error
	for i, item := range items {
		if _, ok := item.(string); !ok {
			errs = append(errs, &ValidationError{
				Key:    fmt.Sprintf("%s[%d]", key, i),
				Reason: "must be a string",
				Value:  item,
			})
		}
	}
	return errs
}

func validateStates(doc map[string]any) []error {
	v, ok := doc["states"]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return []error{&ValidationError{Key: "states", Reason: "must be an array of objects", Value: v}}
	}
	var errs []error
	for i, item := range items {
		obj, ok := toMap(item)
		if !ok {
			errs = append(errs, &ValidationError{
				Key:    fmt.Sprintf("states[%d]", i),
				Reason: "must be an object",
				Value:  item,
			})
			continue
		}
		errs = append(errs, requireStringField(obj, fmt.Sprintf("states[%d]", i), "name")...)
	}
	return errs
}

func validateTransitions(doc map[string]any) []error {
	v, ok := doc["transitions"]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return []error{&ValidationError{Key: "transitions", Reason: "must be an array of objects", Value: v}}
	}
	var errs []error
	for i, item := range items {
		obj, ok := toMap(item)
		if !ok {
			errs = append(errs, &ValidationError{
				Key:    fmt.Sprintf("transitions[%d]", i),
				Reason: "must be an object",
				Value:  item,
			})
			continue
		}
		path := fmt.Sprintf("transitions[%d]", i)
		errs = append(errs, requireStringField(obj, path, "source")...)
		errs = append(errs, requireStringField(obj, path, "target")...)
		errs = append(errs, requireStringField(obj, path, "trigger")...)
	}
	return errs
}

func requireStringField(obj map[string]any, path, field string) []error {
	v, ok := obj[field]
	if !ok {
		return []error{&ValidationError{Key: path + "." + field, Reason: "required"}}
	}
	s, ok := v.(string)
	if !ok {
		return []error{&ValidationError{Key: path + "." + field, Reason: "must be a string", Value: v}}
	}
	if s == "" {
		return []error{&ValidationError{Key: path + "." + field, Reason: "must not be empty"}}
	}
	return nil
}

// toMap normalizes the two map shapes the JSON and YAML parsers produce.
func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}
