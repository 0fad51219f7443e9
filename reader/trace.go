package reader

// DefaultTraceLimit is how many locations trace keeps.
const DefaultTraceLimit = 100

// Trace is bounded back and forward navigation history. Cursor points to the
// entry describing current location.
type Trace struct {
	entries []Location
	cursor  int
	limit   int
}

func NewTrace(limit int) *Trace {
	if limit <= 0 {
		limit = DefaultTraceLimit
	}
	return &Trace{cursor: -1, limit: limit}
}

// Push records location. Pushing location equal to the current entry does
// nothing, pushing after moving back drops forward entries and the oldest
// entry is evicted once trace is full.
func (t *Trace) Push(loc Location) {
	if t.cursor >= 0 && t.entries[t.cursor] == loc {
		return
	}
	t.entries = append(t.entries[:t.cursor+1], loc)
	if over := len(t.entries) - t.limit; over > 0 {
		t.entries = append(t.entries[:0], t.entries[over:]...)
	}
	t.cursor = len(t.entries) - 1
}

// Current returns the entry under cursor.
func (t *Trace) Current() (Location, bool) {
	if t.cursor < 0 {
		return Location{}, false
	}
	return t.entries[t.cursor], true
}

// Back moves cursor one entry back.
func (t *Trace) Back() (Location, bool) {
	if t.cursor <= 0 {
		return Location{}, false
	}
	t.cursor--
	return t.entries[t.cursor], true
}

// Forward moves cursor one entry forward.
func (t *Trace) Forward() (Location, bool) {
	if t.cursor < 0 || t.cursor >= len(t.entries)-1 {
		return Location{}, false
	}
	t.cursor++
	return t.entries[t.cursor], true
}

func (t *Trace) Len() int {
	return len(t.entries)
}

// Entries returns copy of recorded locations, oldest first.
func (t *Trace) Entries() []Location {
	out := make([]Location, len(t.entries))
	copy(out, t.entries)
	return out
}

// Reset forgets everything.
func (t *Trace) Reset() {
	t.entries, t.cursor = t.entries[:0], -1
}
