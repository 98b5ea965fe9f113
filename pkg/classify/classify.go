// Package classify resolves a single chat log line to at most one event.
package classify

import (
	"fmt"

	"hunttrack/pkg/pattern"
)

// Event is a classified line. Fields are the winning pattern's capture groups
// as text; numeric parsing is left to the aggregator.
type Event struct {
	Line     string
	Category pattern.Category
	Kind     pattern.Kind
	Fields   []string
}

// Field returns capture i, or "" when the pattern has fewer captures.
func (e Event) Field(i int) string {
	if i < 0 || i >= len(e.Fields) {
		return ""
	}
	return e.Fields[i]
}

// Classifier owns no mutable state and may be shared across goroutines.
type Classifier struct {
	registry *pattern.Registry
}

// New returns a Classifier over registry.
func New(registry *pattern.Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Classify returns the event for line. When several patterns match, the one
// with the lowest id wins. Lines matching nothing return false.
func (c *Classifier) Classify(line string) (Event, bool) {
	ids := c.registry.Matches(line)
	if len(ids) == 0 {
		return Event{}, false
	}

	winner := ids[0]
	for _, id := range ids[1:] {
		if id < winner {
			winner = id
		}
	}

	fields, ok := c.registry.Captures(winner, line)
	if !ok {
		panic(fmt.Sprintf("classify: pattern %d matched %q but produced no captures", winner, line))
	}

	p := c.registry.Pattern(winner)
	return Event{
		Line:     line,
		Category: p.Category,
		Kind:     p.Kind,
		Fields:   fields,
	}, true
}
