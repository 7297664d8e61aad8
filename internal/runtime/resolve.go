package runtime

import (
	"strings"

	"github.com/parley-dev/parley/internal/machine"
	"github.com/parley-dev/parley/pkg/domain"
)

// execResult classifies the outcome of one skill execution step.
type execResult int

const (
	execFailed execResult = iota
	execAskedQuestions
	execCompleted
)

// evaluateNextAction drains the intent queue until the turn needs user
// input (a question was asked), a protocol question is outstanding, or no
// more work is resolvable.
func (e *Engine) evaluateNextAction() {
	for {
		if e.shouldAskPendingQuestion() {
			e.askTopQuestion()
			return
		}

		intent, ok := e.queue.Peek()
		if !ok {
			return
		}

		if intent == domain.IntentAbort {
			e.queue.Pop()
			e.beginAbort()
			if e.awaitingAbortAnswer {
				return
			}
			continue
		}

		if !e.dispatchIntent(intent) {
			return
		}
	}
}

// shouldAskPendingQuestion reports whether the active skill's next
// slot-filling question takes precedence over dispatching the queue head.
// A head intent the active skill cannot handle wins instead: it belongs to
// another skill and may interrupt.
func (e *Engine) shouldAskPendingQuestion() bool {
	if e.current == nil || e.questions.Count(e.current.Name()) == 0 {
		return false
	}
	head, ok := e.queue.Peek()
	if !ok {
		return true
	}
	return head == e.lastIntent || e.current.CanExecute(head)
}

// askTopQuestion emits the active skill's front question and marks it
// outstanding.
func (e *Engine) askTopQuestion() {
	q, ok := e.questions.Top(e.current.Name())
	if !ok {
		return
	}
	e.out.Append(q.Text)
	e.awaitingSkillQuestion = true
}

// dispatchIntent resolves a handling skill for the queue head and executes
// it. Returns false when the turn must stop (question asked, disambiguation
// outstanding, or execution failed).
func (e *Engine) dispatchIntent(intent string) bool {
	var target *machine.SkillMachine

	if e.current != nil && e.current.CanExecute(intent) {
		target = e.current
	} else {
		candidates := e.candidatesFor(intent)
		switch len(candidates) {
		case 0:
			e.queue.Pop()
			e.log.Warn("no skill can handle intent", "intent", intent)
			e.out.Append(e.msg(msgNoSkill))
			return true
		case 1:
			target = candidates[0]
		default:
			e.queue.Pop()
			e.chooseCandidates = candidates
			e.chooseIntent = intent
			e.awaitingChooseSkill = true
			e.out.Append(e.msg(msgChooseSkill, e.candidateNames()))
			return false
		}
	}

	e.activate(target)

	if e.questions.Count(target.Name()) > 0 {
		// The skill still owes the user an answer to an earlier question.
		// Re-ask it instead of executing the intent a second time.
		e.lastIntent = intent
		e.askTopQuestion()
		return false
	}

	switch e.executeCurrent(intent) {
	case execFailed:
		return false
	case execAskedQuestions:
		// The intent stays queued; the next loop pass asks the question.
		return true
	default:
		e.queue.Pop()
		return e.afterSkillStep()
	}
}

// executeCurrent runs one step of the active skill and processes its answer.
func (e *Engine) executeCurrent(intent string) execResult {
	e.lastIntent = intent

	answer, err := e.current.Execute(intent, e.ctx, e.lang())
	if err != nil {
		e.log.Error("skill execution rejected", "skill", e.current.Name(), "err", err)
		if e.metrics != nil {
			e.metrics.SkillFailures.WithLabelValues(e.current.Name()).Inc()
		}
		e.out.Append(e.msg(msgNotUnderstood))
		return execFailed
	}
	if e.metrics != nil {
		e.metrics.SkillExecutions.WithLabelValues(e.current.Name()).Inc()
	}

	if !answer.SkipOutput {
		e.out.Append(answer.Answers...)
	}

	if len(answer.RequiredQuestions) > 0 {
		for _, q := range answer.RequiredQuestions {
			e.questions.Add(e.current.Name(), q)
		}
		return execAskedQuestions
	}

	if !answer.HasContent() && !answer.SkipOutput {
		e.log.Warn("skill answered with neither text nor questions", "skill", e.current.Name())
	}
	return execCompleted
}

// afterSkillStep handles an ended machine: either the resume-last-skill
// question or a plain completion reset. Returns false when the turn must
// stop for a user answer.
func (e *Engine) afterSkillStep() bool {
	if !e.current.HasEnded() {
		return true
	}

	if e.lastUsed != nil {
		e.out.Append(e.msg(msgResumeSkill, e.lastUsed.Name()))
		e.awaitingResumeAnswer = true
		return false
	}

	e.current.Reset()
	e.questions.RemoveAll(e.current.Name())
	e.current = nil
	e.lastIntent = ""
	return true
}

// activate makes target the active skill, remembering the skill it
// interrupts. Only one level of interruption history is kept: interrupting a
// second skill overwrites the memory of the first.
func (e *Engine) activate(target *machine.SkillMachine) {
	if e.current == target {
		return
	}
	if e.current != nil {
		e.lastUsed = e.current
	}
	e.current = target
}

// candidatesFor returns every registered skill that can execute intent from
// its machine's current state, computed at resolution time.
func (e *Engine) candidatesFor(intent string) []*machine.SkillMachine {
	var out []*machine.SkillMachine
	for _, m := range e.skills {
		if m.CanExecute(intent) {
			out = append(out, m)
		}
	}
	return out
}

func (e *Engine) candidateNames() string {
	names := make([]string, len(e.chooseCandidates))
	for i, m := range e.chooseCandidates {
		names[i] = m.Name()
	}
	return strings.Join(names, ", ")
}

// beginAbort starts the abort protocol. With no interrupted skill on record
// the whole pipeline is cleared at once; otherwise the user is asked whether
// to abort just the last skill or everything.
func (e *Engine) beginAbort() {
	if e.lastUsed == nil {
		e.clearPipeline()
		return
	}
	e.out.Append(e.msg(msgAbortQuestion))
	e.awaitingAbortAnswer = true
}

// handleAbortAnswer interprets a turn's intents as the abort answer.
func (e *Engine) handleAbortAnswer(intents []string) {
	answer := ""
	if len(intents) > 0 {
		answer = intents[0]
	}

	switch answer {
	case domain.IntentLast:
		e.awaitingAbortAnswer = false
		aborted := e.current
		if aborted != nil {
			e.queue.RemoveWhere(aborted.CanExecute)
		}
		e.resetCurrent(false)
		e.evaluateNextAction()
	case domain.IntentAll:
		e.awaitingAbortAnswer = false
		e.clearPipeline()
	default:
		e.out.Append(e.msg(msgAbortQuestion))
	}
}

// handleResumeAnswer interprets a turn's intents as the answer to the
// "continue with skill X?" question.
func (e *Engine) handleResumeAnswer(intents []string) {
	answer := ""
	if len(intents) > 0 {
		answer = intents[0]
	}

	switch answer {
	case domain.IntentYes:
		e.awaitingResumeAnswer = false
		ended := e.current
		ended.Reset()
		e.questions.RemoveAll(ended.Name())
		e.current = e.lastUsed
		e.lastUsed = nil
		e.evaluateNextAction()
	case domain.IntentNo:
		e.awaitingResumeAnswer = false
		// Intents still queued for either skill die with them.
		if e.current != nil {
			e.queue.RemoveWhere(e.current.CanExecute)
		}
		if e.lastUsed != nil {
			e.queue.RemoveWhere(e.lastUsed.CanExecute)
		}
		e.resetCurrent(true)
	default:
		e.out.Append(e.msg(msgResumeSkill, e.lastUsed.Name()))
	}
}

// resetCurrent rewinds the active skill and promotes the remembered one.
// With alsoLast set, the remembered skill is reset as well, leaving no
// active skill at all. Two sequential resets, no recursion.
func (e *Engine) resetCurrent(alsoLast bool) {
	if alsoLast && e.lastUsed != nil {
		e.lastUsed.Reset()
		e.questions.RemoveAll(e.lastUsed.Name())
		e.lastUsed = nil
	}
	if e.current != nil {
		e.current.Reset()
		e.questions.RemoveAll(e.current.Name())
	}
	e.current = e.lastUsed
	e.lastUsed = nil
	e.awaitingSkillQuestion = false
	e.lastIntent = ""
}

// clearPipeline discards all pending work: queued intents, open questions,
// protocol flags, disambiguation candidates, and both skill slots. The
// context document is deliberately untouched.
func (e *Engine) clearPipeline() {
	e.resetCurrent(true)
	e.queue.Clear()
	e.questions.Clear()
	e.awaitingSkillQuestion = false
	e.awaitingChooseSkill = false
	e.awaitingAbortAnswer = false
	e.awaitingResumeAnswer = false
	e.chooseCandidates = nil
	e.chooseIntent = ""
	e.log.Info("conversation pipeline cleared")
}
