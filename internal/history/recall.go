package history

// Recall is the up/down ring of submitted lines used for line recall.
// Unlike the Ledger it stores bare strings and tracks a browse position.
type Recall struct {
	lines    []string
	capacity int
	pos      int    // len(lines) means "not browsing"
	draft    string // line being edited before browsing started
}

// NewRecall creates a ring holding at most capacity lines.
func NewRecall(capacity int) *Recall {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recall{capacity: capacity}
}

// Push records a submitted line and resets browsing.
// Empty lines are not recorded.
func (r *Recall) Push(line string) {
	defer r.Reset()
	if line == "" {
		return
	}
	if len(r.lines) >= r.capacity {
		r.lines = append(r.lines[:0], r.lines[1:]...)
	}
	r.lines = append(r.lines, line)
}

// Prev moves one line back. current is the editor content, saved as the
// draft when browsing starts. ok is false at the oldest line.
func (r *Recall) Prev(current string) (string, bool) {
	if r.pos == 0 {
		return "", false
	}
	if r.pos == len(r.lines) {
		r.draft = current
	}
	r.pos--
	return r.lines[r.pos], true
}

// Next moves one line forward, returning the draft after the newest line.
// ok is false when not browsing.
func (r *Recall) Next() (string, bool) {
	if r.pos >= len(r.lines) {
		return "", false
	}
	r.pos++
	if r.pos == len(r.lines) {
		return r.draft, true
	}
	return r.lines[r.pos], true
}

// Reset stops browsing.
func (r *Recall) Reset() {
	r.pos = len(r.lines)
	r.draft = ""
}

// Lines returns a copy of the ring, oldest first.
func (r *Recall) Lines() []string {
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}
