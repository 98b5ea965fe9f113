// Package session holds the state of one tracked hunting session: its
// stopwatch, cumulative statistics, loot and skill tallies, and the equipped
// loadout. Money and points use exact decimal arithmetic.
package session

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// nameLayout is the timestamp format used for generated session names.
const nameLayout = "2006-01-02_15-04-05"

// Stats is the flat set of counters and accumulators for a session.
type Stats struct {
	TTProfit        decimal.Decimal `json:"tt_profit"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	GlobalCount     int             `json:"global_count"`
	TotalGlobalGain decimal.Decimal `json:"total_global_gain"`
	HOFCount        int             `json:"hof_count"`
	TotalHOFGain    decimal.Decimal `json:"total_hof_gain"`

	TotalExpGain decimal.Decimal `json:"total_exp_gain"`

	TotalCritDamage decimal.Decimal `json:"total_crit_damage"`
	TotalDamage     decimal.Decimal `json:"total_damage"`
	TotalHeal       decimal.Decimal `json:"total_heal"`
	AttackMissCount int             `json:"attack_miss_count"`
	AttackCount     int             `json:"attack_count"`
	CritCount       int             `json:"crit_count"`
	EvadeCount      int             `json:"evade_count"`
	DeflectCount    int             `json:"deflect_count"`
	DeathCount      int             `json:"death_count"`

	TargetTotalDamage decimal.Decimal `json:"target_total_damage"`
	TargetAttackCount int             `json:"target_attack_count"`
	TargetDodgeCount  int             `json:"target_dodge_count"`
	TargetEvadeCount  int             `json:"target_evade_count"`
	TargetJamCount    int             `json:"target_jam_count"`
}

// LootEntry tallies one item looted during the session.
type LootEntry struct {
	Name    string
	TTValue decimal.Decimal
	Count   int
}

// SkillEntry tallies experience gained in one skill.
type SkillEntry struct {
	Name    string
	ExpGain decimal.Decimal
}

// Session is the unit of aggregation. Exactly one session is current at a
// time; it has a single mutator.
type Session struct {
	Stopwatch

	ID        uuid.UUID
	Name      string
	Stats     Stats
	Loot      map[string]*LootEntry
	Skills    map[string]*SkillEntry
	Loadout   Loadout
	CreatedAt time.Time
}

// New returns a stopped session with the given name and a default loadout.
// A nil now means time.Now.
func New(name string, now func() time.Time) *Session {
	sw := NewStopwatch(now)
	return &Session{
		Stopwatch: sw,
		ID:        uuid.New(),
		Name:      name,
		Loot:      make(map[string]*LootEntry),
		Skills:    make(map[string]*SkillEntry),
		Loadout:   NewLoadout(DefaultLoadoutName, sw.clock()),
		CreatedAt: sw.clock().UTC(),
	}
}

// GenerateName returns a session name derived from t, e.g.
// "2026-10-17_14-03-59_session".
func GenerateName(t time.Time) string {
	return t.Format(nameLayout) + "_session"
}

// IsActive reports whether statistics are currently being collected.
func (s *Session) IsActive() bool {
	return s.Running()
}

// Clear stops the session and discards its elapsed time, statistics and
// tallies. Identity and loadout are kept.
func (s *Session) Clear() {
	s.Stopwatch.Reset()
	s.Stats = Stats{}
	s.Loot = make(map[string]*LootEntry)
	s.Skills = make(map[string]*SkillEntry)
}

// AddLoot adds qty items worth value to the loot tally for item.
func (s *Session) AddLoot(item string, qty int, value decimal.Decimal) {
	if e, ok := s.Loot[item]; ok {
		e.TTValue = e.TTValue.Add(value)
		e.Count += qty
		return
	}
	s.Loot[item] = &LootEntry{Name: item, TTValue: value, Count: qty}
}

// AddSkill adds exp to the tally for skill.
func (s *Session) AddSkill(skill string, exp decimal.Decimal) {
	if e, ok := s.Skills[skill]; ok {
		e.ExpGain = e.ExpGain.Add(exp)
		return
	}
	s.Skills[skill] = &SkillEntry{Name: skill, ExpGain: exp}
}

// LootByValue returns loot entries sorted by trade value, highest first.
func (s *Session) LootByValue() []LootEntry {
	out := make([]LootEntry, 0, len(s.Loot))
	for _, e := range s.Loot {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TTValue.Cmp(out[j].TTValue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SkillsByExp returns skill entries sorted by experience gained, highest first.
func (s *Session) SkillsByExp() []SkillEntry {
	out := make([]SkillEntry, 0, len(s.Skills))
	for _, e := range s.Skills {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].ExpGain.Cmp(out[j].ExpGain); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Percent returns value/total*100, or zero when total is zero.
func Percent(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Mul(decimal.NewFromInt(100)).Div(total)
}
