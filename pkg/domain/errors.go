package domain

import "errors"

// ErrNoAnswer is returned when a skill execution yields no answer at all.
var ErrNoAnswer = errors.New("skill returned no answer")

// ErrBlankTrigger is returned when a skill answer carries an empty
// transition trigger.
var ErrBlankTrigger = errors.New("skill answer has a blank transition trigger")

// ErrUnknownTrigger is returned when a skill answer names a trigger with no
// matching transition on the machine's current state.
var ErrUnknownTrigger = errors.New("no transition matches the answer trigger")

// ErrSessionNotFound is returned when a context snapshot cannot be found in
// a store.
var ErrSessionNotFound = errors.New("session not found")
