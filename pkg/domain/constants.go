package domain

// Session automaton state names. GetState reports these verbatim when no
// skill is active.
const (
	SessionStateDefault = "defaultState"
	SessionStateSleep   = "sleepState"
)

// Session automaton triggers.
const (
	TriggerSleep  = "SLEEP"
	TriggerWakeup = "WAKEUP"
)

// Engine-owned intents. These are registered with the NLU collaborator at
// construction time so the abort/resume protocols can recognize their answers.
const (
	IntentAbort = "abort"
	IntentLast  = "last"
	IntentAll   = "all"
	IntentYes   = "yes"
	IntentNo    = "no"
)
