package domain

// Understanding is the result of one NLU pass over a user utterance.
type Understanding struct {
	// Intents holds the recognized intent labels in detection order.
	// The engine dispatches them in exactly this order.
	Intents []string

	// Language is the detected locale of the utterance (BCP 47-ish tag,
	// e.g. "en" or "de"). Blank means the engine's default applies.
	Language string

	// AddedNewEntities reports whether the pass extracted at least one new
	// entity value into the context. A turn that adds neither intents nor
	// entities is treated as unrecognized input.
	AddedNewEntities bool
}

// Empty reports whether the pass produced nothing usable.
func (u *Understanding) Empty() bool {
	return u == nil || (len(u.Intents) == 0 && !u.AddedNewEntities)
}
