package session

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Markup is the market multiplier for an item, 1.0 meaning trade value.
type Markup struct {
	Name      string
	Value     decimal.Decimal
	CreatedAt time.Time
}

// Markups maps item name to its markup.
type Markups map[string]Markup

// DefaultMarkup is the multiplier assigned to newly seen items.
func DefaultMarkup() decimal.Decimal {
	return decimal.New(100, -2)
}

// Has reports whether item has a markup entry.
func (m Markups) Has(item string) bool {
	_, ok := m[item]
	return ok
}

// Set records value for item, keeping the original creation time.
func (m Markups) Set(item string, value decimal.Decimal) {
	entry, ok := m[item]
	if !ok {
		entry = Markup{Name: item, CreatedAt: time.Now().UTC()}
	}
	entry.Value = value
	m[item] = entry
}

// Value returns the multiplier for item, 1.0 when unknown.
func (m Markups) Value(item string) decimal.Decimal {
	if entry, ok := m[item]; ok {
		return entry.Value
	}
	return DefaultMarkup()
}

// Sorted returns entries ordered by name.
func (m Markups) Sorted() []Markup {
	out := make([]Markup, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
