// Package domain contains the core types of the Parley engine: the automaton
// primitive shared by the session machine and every skill machine, the skill
// answer contract, NLU results, and the conversation context document.
//
// Types here carry no behavior beyond their own invariants; orchestration
// lives in the runtime.
package domain
