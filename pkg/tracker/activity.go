package tracker

// ActivityLog keeps the most recent lines, newest first, discarding the
// oldest once the cap is exceeded.
type ActivityLog struct {
	cap     int
	entries []string
}

// NewActivityLog returns an empty log holding at most capacity entries.
// A non-positive capacity falls back to DefaultActivityCap.
func NewActivityLog(capacity int) *ActivityLog {
	if capacity <= 0 {
		capacity = DefaultActivityCap
	}
	return &ActivityLog{cap: capacity, entries: make([]string, 0, capacity+1)}
}

// Push records line as the newest entry.
func (a *ActivityLog) Push(line string) {
	a.entries = append(a.entries, "")
	copy(a.entries[1:], a.entries)
	a.entries[0] = line
	if len(a.entries) > a.cap {
		a.entries = a.entries[:a.cap]
	}
}

// Entries returns a copy of the log, newest first.
func (a *ActivityLog) Entries() []string {
	return append([]string(nil), a.entries...)
}

// Len returns the number of entries held.
func (a *ActivityLog) Len() int {
	return len(a.entries)
}
