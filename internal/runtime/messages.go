package runtime

// Message catalog keys for all engine-generated output. Skill answers and
// skill questions arrive pre-localized; only the engine's own prompts go
// through the localizer.
const (
	msgNotUnderstood = "error.not_understood"
	msgNoSkill       = "error.no_skill"
	msgWhatNext      = "prompt.what_next"
	msgWelcomeBack   = "prompt.welcome_back"
	msgAbortQuestion = "question.abort"
	msgResumeSkill   = "question.resume_skill"
	msgChooseSkill   = "question.choose_skill"
	msgTryExample    = "hint.try_example"
)
