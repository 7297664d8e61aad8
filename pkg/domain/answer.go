package domain

// Question is one slot-filling follow-up a skill wants asked: the entity it
// fills and the localized question text presented to the user.
type Question struct {
	Entity string
	Text   string
}

// SkillAnswer is what a skill returns from one execution step.
//
// TransitionTrigger selects the edge of the skill machine's current state to
// advance over; a blank or unknown trigger is a contract violation. Answers
// are the output lines for the user, suppressed when SkipOutput is set.
// RequiredQuestions lists the entities the skill still needs, in the order
// they should be asked.
type SkillAnswer struct {
	TransitionTrigger string
	Answers           []string
	RequiredQuestions []Question
	SkipOutput        bool
}

// HasContent reports whether the answer carries anything user-visible:
// output text or follow-up questions. A successful execution producing
// neither is logged as a skill-contract violation.
func (a *SkillAnswer) HasContent() bool {
	return len(a.Answers) > 0 || len(a.RequiredQuestions) > 0
}
