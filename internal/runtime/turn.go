package runtime

import (
	"strings"

	"github.com/parley-dev/parley/pkg/domain"
)

// UserInput processes one user turn and returns the ordered output lines.
// Turns run to completion synchronously; the inactivity timer is re-armed at
// the start of every turn.
func (e *Engine) UserInput(text string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		e.log.Error("userInput called on a closed engine")
		return nil
	}

	if e.metrics != nil {
		e.metrics.Turns.Inc()
	}

	e.wakeIfAsleep()
	e.armTimerLocked()

	if strings.TrimSpace(text) == "" {
		e.handleBlankInput()
		return e.flush()
	}

	switch {
	case e.awaitingSkillQuestion:
		e.answerSkillQuestion(text)
	case e.awaitingChooseSkill:
		e.answerChooseSkill(text)
	default:
		e.handleRequest(text)
	}

	return e.flush()
}

// wakeIfAsleep moves the session automaton back to the default state and
// greets the user. The welcome line lands first in the turn's output.
func (e *Engine) wakeIfAsleep() {
	if e.sessionState != e.sessionSleep {
		return
	}
	next := e.sessionState.NextState(domain.TriggerWakeup)
	if next == nil {
		return
	}
	e.sessionState = next
	e.out.Append(e.msg(msgWelcomeBack))
	e.log.Info("session woke up")
}

// handleBlankInput answers null or blank input: the default apology, plus
// either a re-ask of the outstanding skill question or a few example
// requests to help the user recover.
func (e *Engine) handleBlankInput() {
	e.out.Append(e.msg(msgNotUnderstood))

	if e.awaitingSkillQuestion && e.current != nil {
		if q, ok := e.questions.Top(e.current.Name()); ok {
			e.out.Append(q.Text)
			return
		}
	}
	e.offerSampledExamples()
}

// handleRequest treats the input as a fresh request.
func (e *Engine) handleRequest(text string) {
	result, err := e.nlu.Understand(text, e.ctx)
	if err != nil {
		e.log.Error("nlu failed", "err", err)
		e.unrecognized()
		return
	}
	e.afterUnderstanding(result)
}

// answerSkillQuestion resolves the input against the active skill's next
// expected entity. On success the answered question leaves the ledger and
// queue evaluation resumes; otherwise the identical question is re-asked.
func (e *Engine) answerSkillQuestion(text string) {
	question, ok := e.questions.Top(e.current.Name())
	if !ok {
		// Flag without a question means the ledger was cleared elsewhere.
		e.awaitingSkillQuestion = false
		e.handleRequest(text)
		return
	}

	result, err := e.nlu.UnderstandEntity(text, e.ctx, question.Entity)
	if err != nil {
		e.log.Error("nlu failed on slot filling", "entity", question.Entity, "err", err)
		e.out.Append(e.msg(msgNotUnderstood), question.Text)
		return
	}
	if result.Language != "" {
		e.language = result.Language
	}

	if result.AddedNewEntities {
		e.questions.Pop(e.current.Name())
		e.awaitingSkillQuestion = false
		e.queueIntents(result.Intents)
		e.evaluateNextAction()
		return
	}

	if len(result.Intents) > 0 {
		// No entity, but a recognizable request: the user changed topic
		// mid-question. The question stays pending; the new intents take
		// precedence and may interrupt the skill.
		e.awaitingSkillQuestion = false
		e.queueIntents(result.Intents)
		e.consumeLeadingAbort()
		if !e.awaitingAbortAnswer {
			e.evaluateNextAction()
		}
		return
	}

	// Could not extract the entity: ledger unchanged, same question again.
	e.out.Append(e.msg(msgNotUnderstood), question.Text)
}

// answerChooseSkill matches the raw input against the offered skill names.
// A match activates that skill and replays the disambiguated intent; no
// match repeats the identical prompt.
func (e *Engine) answerChooseSkill(text string) {
	answer := strings.TrimSpace(text)
	for _, candidate := range e.chooseCandidates {
		if !strings.EqualFold(candidate.Name(), answer) {
			continue
		}
		intent := e.chooseIntent
		e.awaitingChooseSkill = false
		e.chooseCandidates = nil
		e.chooseIntent = ""

		e.activate(candidate)
		e.queue.PushFront(intent)
		e.evaluateNextAction()
		return
	}

	e.out.Append(e.msg(msgChooseSkill, e.candidateNames()))
}

// afterUnderstanding routes a fresh NLU result: unusable results fall back
// to the default error, outstanding abort/resume questions consume the
// intents as their answer, everything else is queued and dispatched.
func (e *Engine) afterUnderstanding(result *domain.Understanding) {
	if result != nil && result.Language != "" {
		e.language = result.Language
	}

	if result.Empty() {
		e.unrecognized()
		return
	}

	if e.awaitingAbortAnswer {
		e.handleAbortAnswer(result.Intents)
		return
	}
	if e.awaitingResumeAnswer {
		e.handleResumeAnswer(result.Intents)
		return
	}

	e.queueIntents(result.Intents)
	e.consumeLeadingAbort()
	if !e.awaitingAbortAnswer {
		e.evaluateNextAction()
	}
}

// queueIntents pushes a turn's intents at the queue head, preserving their
// detection order. The intent currently being slot-filled is skipped when it
// is still queued, so re-detecting it does not dispatch the skill twice.
func (e *Engine) queueIntents(intents []string) {
	block := make([]string, 0, len(intents))
	for _, intent := range intents {
		if intent == e.lastIntent && e.queue.Contains(intent) {
			e.log.Debug("intent already queued for slot filling, skipped", "intent", intent)
			continue
		}
		block = append(block, intent)
	}
	e.queue.PushBlock(block)
}

// consumeLeadingAbort starts abort handling when abort is the next intent.
func (e *Engine) consumeLeadingAbort() {
	if head, ok := e.queue.Peek(); ok && head == domain.IntentAbort {
		e.queue.Pop()
		e.beginAbort()
	}
}

// unrecognized emits the default error output, optionally followed by the
// active skill's example requests.
func (e *Engine) unrecognized() {
	if e.metrics != nil {
		e.metrics.Unrecognized.Inc()
	}
	e.out.Append(e.msg(msgNotUnderstood))
	if e.current != nil {
		examples := e.current.Skill().ExampleRequests(e.current.CurrentState().Name, e.lang())
		if len(examples) > 0 {
			e.out.Append(e.msg(msgTryExample))
			e.out.Append(examples...)
		}
	}
}

// offerSampledExamples appends up to three example requests drawn randomly
// from all registered skills.
func (e *Engine) offerSampledExamples() {
	var pool []string
	for _, m := range e.skills {
		pool = append(pool, m.Skill().ExampleRequests(m.CurrentState().Name, e.lang())...)
	}
	if len(pool) == 0 {
		return
	}
	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > maxSampledExamples {
		pool = pool[:maxSampledExamples]
	}
	e.out.Append(e.msg(msgTryExample))
	e.out.Append(pool...)
}

// flush hands the buffered lines to the caller, substituting a generic
// prompt when the turn produced nothing.
func (e *Engine) flush() []string {
	if e.out.Empty() {
		return []string{e.msg(msgWhatNext)}
	}
	return e.out.Drain()
}
