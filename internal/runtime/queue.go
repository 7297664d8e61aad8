package runtime

// intentQueue holds recognized intents awaiting dispatch.
//
// Within one turn, intents are processed in detection order. Across turns,
// the newest turn's intents are processed before leftovers from earlier
// turns, so a fresh utterance can interrupt a skill that is still waiting on
// queued work. The source system achieved this with a LIFO deque fed with
// reversed detection lists; a front-pushed block on a plain deque has the
// identical external behavior.
type intentQueue struct {
	items []string
}

// PushBlock inserts a turn's intents at the front, preserving their
// detection order among themselves.
func (q *intentQueue) PushBlock(intents []string) {
	if len(intents) == 0 {
		return
	}
	q.items = append(append([]string{}, intents...), q.items...)
}

// PushFront re-queues a single intent at the head.
func (q *intentQueue) PushFront(intent string) {
	q.items = append([]string{intent}, q.items...)
}

// Peek returns the head intent without removing it.
func (q *intentQueue) Peek() (string, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	return q.items[0], true
}

// Pop removes and returns the head intent.
func (q *intentQueue) Pop() (string, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Contains reports whether intent is queued.
func (q *intentQueue) Contains(intent string) bool {
	for _, it := range q.items {
		if it == intent {
			return true
		}
	}
	return false
}

// RemoveWhere drops every queued intent for which keep returns true.
func (q *intentQueue) RemoveWhere(drop func(intent string) bool) {
	kept := q.items[:0]
	for _, it := range q.items {
		if !drop(it) {
			kept = append(kept, it)
		}
	}
	q.items = kept
}

// Len returns the number of queued intents.
func (q *intentQueue) Len() int {
	return len(q.items)
}

// Clear discards all queued intents.
func (q *intentQueue) Clear() {
	q.items = nil
}
