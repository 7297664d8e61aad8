package runtime

import "github.com/parley-dev/parley/pkg/domain"

// pendingQuestions is the per-skill ordered ledger of slot-filling questions
// awaiting a user answer. Entries are appended when a skill declares
// unanswered required entities and popped from the front when the top
// question is answered or the skill's context is cleared.
type pendingQuestions struct {
	bySkill map[string][]domain.Question
}

func newPendingQuestions() *pendingQuestions {
	return &pendingQuestions{bySkill: make(map[string][]domain.Question)}
}

// Add appends a question to a skill's queue.
func (p *pendingQuestions) Add(skillName string, q domain.Question) {
	p.bySkill[skillName] = append(p.bySkill[skillName], q)
}

// Top peeks the front question of a skill's queue.
func (p *pendingQuestions) Top(skillName string) (domain.Question, bool) {
	qs := p.bySkill[skillName]
	if len(qs) == 0 {
		return domain.Question{}, false
	}
	return qs[0], true
}

// Pop removes the front question of a skill's queue.
func (p *pendingQuestions) Pop(skillName string) {
	qs := p.bySkill[skillName]
	if len(qs) == 0 {
		return
	}
	if len(qs) == 1 {
		delete(p.bySkill, skillName)
		return
	}
	p.bySkill[skillName] = qs[1:]
}

// Count returns the number of open questions for a skill.
func (p *pendingQuestions) Count(skillName string) int {
	return len(p.bySkill[skillName])
}

// RemoveAll clears one skill's queue. Used when the skill is reset.
func (p *pendingQuestions) RemoveAll(skillName string) {
	delete(p.bySkill, skillName)
}

// Clear empties the whole ledger. Used on full pipeline reset.
func (p *pendingQuestions) Clear() {
	p.bySkill = make(map[string][]domain.Question)
}
