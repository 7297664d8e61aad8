// Package keyword implements ports.Understander with plain keyword matching.
// It is meant for demos, tests, and the bundled CLI; production hosts bridge
// their own NLU service instead.
package keyword

import (
	"sort"
	"strings"
	"sync"

	"github.com/parley-dev/parley/pkg/domain"
)

// Recognizer maps trigger phrases to intents. Phrases are matched as
// case-insensitive substrings of the input; detected intents are reported in
// the order their phrases appear in the input. Slot-filling turns accept the
// raw input as the entity value unless the input matches a phrase, which the
// engine then treats as a topic change.
type Recognizer struct {
	mu       sync.RWMutex
	phrases  map[string]string // lowercased phrase -> intent
	entities map[string]bool
}

// New creates an empty recognizer. Registered intents match their own name
// as a phrase; richer phrasing is added with Map.
func New() *Recognizer {
	return &Recognizer{
		phrases:  make(map[string]string),
		entities: make(map[string]bool),
	}
}

// Map associates trigger phrases with an intent.
func (r *Recognizer) Map(intent string, phrases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			r.phrases[p] = intent
		}
	}
}

// Understand reports every registered phrase found in the input.
func (r *Recognizer) Understand(input string, ctx *domain.Context) (*domain.Understanding, error) {
	return &domain.Understanding{Intents: r.match(input)}, nil
}

// UnderstandEntity resolves a slot-filling turn. A phrase match wins and is
// reported as intents; otherwise the trimmed input becomes the entity value.
func (r *Recognizer) UnderstandEntity(input string, ctx *domain.Context, entityName string) (*domain.Understanding, error) {
	if intents := r.match(input); len(intents) > 0 {
		return &domain.Understanding{Intents: intents}, nil
	}

	value := strings.TrimSpace(input)
	if value == "" {
		return &domain.Understanding{}, nil
	}
	ctx.Set(entityName, value)
	return &domain.Understanding{AddedNewEntities: true}, nil
}

// AddUsedEntities records the entity names a skill fills.
func (r *Recognizer) AddUsedEntities(entities []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entities {
		r.entities[e] = true
	}
}

// AddUsedIntents registers each intent under its own name as a phrase.
func (r *Recognizer) AddUsedIntents(intents []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, intent := range intents {
		r.phrases[strings.ToLower(intent)] = intent
	}
}

type hit struct {
	pos    int
	intent string
}

// match finds registered phrases in the input, ordered by position. A phrase
// only counts on word boundaries, so "all" does not fire inside "ball".
func (r *Recognizer) match(input string) []string {
	lowered := strings.ToLower(input)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var hits []hit
	seen := make(map[string]bool)
	for phrase, intent := range r.phrases {
		pos := indexWord(lowered, phrase)
		if pos < 0 || seen[intent] {
			continue
		}
		seen[intent] = true
		hits = append(hits, hit{pos: pos, intent: intent})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	intents := make([]string, len(hits))
	for i, h := range hits {
		intents[i] = h.intent
	}
	return intents
}

// indexWord returns the position of phrase in s, requiring non-letter
// characters (or the string edges) on both sides. Returns -1 when absent.
func indexWord(s, phrase string) int {
	from := 0
	for {
		i := strings.Index(s[from:], phrase)
		if i < 0 {
			return -1
		}
		i += from
		before := i == 0 || !isWordByte(s[i-1])
		afterIdx := i + len(phrase)
		after := afterIdx >= len(s) || !isWordByte(s[afterIdx])
		if before && after {
			return i
		}
		from = i + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
