// Package pattern holds the fixed catalogue of chat log message patterns and
// the combined matcher used to pre-filter lines before capture extraction.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Category groups patterns by the part of the game they report on.
type Category string

// Pattern categories.
const (
	Combat Category = "combat"
	Global Category = "global"
	Loot   Category = "loot"
	Skills Category = "skills"
)

// Kind identifies the event a pattern produces.
type Kind int

// Event kinds. The set is closed; the aggregator switches over all of them.
const (
	SelfCrit Kind = iota
	SelfHit
	SelfHeal
	SelfDeflect
	SelfEvade
	SelfMiss
	SelfSkillGain
	SelfLoot
	SelfDeath
	TargetDodge
	TargetEvade
	TargetJam
	TargetHit
	GlobalHuntHOF
	GlobalHunt
)

var kindNames = [...]string{ //nolint:gochecknoglobals // fixed lookup table
	SelfCrit:      "self_crit",
	SelfHit:       "self_hit",
	SelfHeal:      "self_heal",
	SelfDeflect:   "self_deflect",
	SelfEvade:     "self_evade",
	SelfMiss:      "self_miss",
	SelfSkillGain: "self_skill_gain",
	SelfLoot:      "self_loot",
	SelfDeath:     "self_death",
	TargetDodge:   "target_dodge",
	TargetEvade:   "target_evade",
	TargetJam:     "target_jam",
	TargetHit:     "target_hit",
	GlobalHuntHOF: "global_hunt_hof",
	GlobalHunt:    "global_hunt",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Pattern is one catalogue entry. ID doubles as match precedence: when
// several patterns match a line, the lowest ID wins.
type Pattern struct {
	ID       int
	Expr     string
	Category Category
	Kind     Kind
	Fields   []string // names of the capture groups, in order
}

// BuildError reports a malformed catalogue entry.
type BuildError struct {
	ID     int
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("pattern %d: %s", e.ID, e.Reason)
}

// Registry is an immutable, ordered pattern catalogue with compiled
// per-pattern extractors and a combined pre-filter. Safe for concurrent use.
type Registry struct {
	patterns []Pattern
	compiled []*regexp.Regexp
	combined *regexp.Regexp
}

// Build validates and compiles patterns. IDs must be 0..n-1 in slice order and
// each expression must have exactly len(Fields) capture groups.
func Build(patterns []Pattern) (*Registry, error) {
	if len(patterns) == 0 {
		return nil, &BuildError{ID: -1, Reason: "empty catalogue"}
	}

	r := &Registry{
		patterns: make([]Pattern, len(patterns)),
		compiled: make([]*regexp.Regexp, len(patterns)),
	}
	alternatives := make([]string, len(patterns))

	for i, p := range patterns {
		if p.ID != i {
			return nil, &BuildError{ID: p.ID, Reason: fmt.Sprintf("out of order, expected id %d", i)}
		}
		re, err := regexp.Compile(p.Expr)
		if err != nil {
			return nil, &BuildError{ID: p.ID, Reason: err.Error()}
		}
		if re.NumSubexp() != len(p.Fields) {
			return nil, &BuildError{
				ID:     p.ID,
				Reason: fmt.Sprintf("%d capture groups, %d field names", re.NumSubexp(), len(p.Fields)),
			}
		}

		p.Fields = append([]string(nil), p.Fields...)
		r.patterns[i] = p
		r.compiled[i] = re
		alternatives[i] = "(?:" + p.Expr + ")"
	}

	combined, err := regexp.Compile(strings.Join(alternatives, "|"))
	if err != nil {
		return nil, &BuildError{ID: -1, Reason: "combined matcher: " + err.Error()}
	}
	r.combined = combined

	return r, nil
}

// MustBuild is Build for catalogues known at compile time. It panics on a
// malformed catalogue; the program cannot run without one.
func MustBuild(patterns []Pattern) *Registry {
	r, err := Build(patterns)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of patterns.
func (r *Registry) Len() int {
	return len(r.patterns)
}

// Pattern returns the pattern with the given id.
func (r *Registry) Pattern(id int) Pattern {
	return r.patterns[id]
}

// Matches returns the ids of every pattern matching line, ascending.
// Lines rejected by the combined pre-filter return nil without touching the
// per-pattern expressions.
func (r *Registry) Matches(line string) []int {
	if !r.combined.MatchString(line) {
		return nil
	}

	var ids []int
	for id, re := range r.compiled {
		if re.MatchString(line) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Captures returns the capture groups of pattern id against line, or false
// when the pattern does not match.
func (r *Registry) Captures(id int, line string) ([]string, bool) {
	m := r.compiled[id].FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}
