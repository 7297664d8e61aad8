package runtime

// outputBuffer accumulates the user-facing lines of one turn. It is drained
// exactly once at the end of UserInput.
type outputBuffer struct {
	lines []string
}

// Append adds lines to the end of the buffer, skipping empty ones.
func (b *outputBuffer) Append(lines ...string) {
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.lines = append(b.lines, line)
	}
}

// Empty reports whether nothing has been buffered yet.
func (b *outputBuffer) Empty() bool {
	return len(b.lines) == 0
}

// Drain returns the buffered lines and resets the buffer.
func (b *outputBuffer) Drain() []string {
	out := b.lines
	b.lines = nil
	return out
}
