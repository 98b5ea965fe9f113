// Package tracker reduces classified chat events into the current session's
// statistics.
package tracker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"hunttrack/pkg/classify"
	"hunttrack/pkg/pattern"
	"hunttrack/pkg/session"
)

// DefaultActivityCap is the number of recent activity lines kept.
const DefaultActivityCap = 75

// FieldError reports a captured field that failed to parse. The event that
// carried it is dropped without touching any statistic.
type FieldError struct {
	Kind  pattern.Kind
	Index int
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s field %d %q: %v", e.Kind, e.Index, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// LoadoutProvider supplies the parameters for the per-shot cost.
type LoadoutProvider interface {
	CostParams() (decay decimal.Decimal, burn int)
}

// Valuations is the markup table consulted when loot arrives.
type Valuations interface {
	Has(item string) bool
	Set(item string, value decimal.Decimal)
}

var (
	_ LoadoutProvider = session.Loadout{}
	_ Valuations      = session.Markups{}
)

// Tracker owns the current session and the process-wide markup table and
// applies events to them. It is not safe for concurrent use; the tailing
// loop is its only mutator.
type Tracker struct {
	Player   string
	Session  *session.Session
	Markups  session.Markups
	Activity *ActivityLog
}

// New returns a Tracker for player over s. A nil markups table is allocated.
func New(player string, s *session.Session, markups session.Markups) *Tracker {
	if markups == nil {
		markups = session.Markups{}
	}
	return &Tracker{
		Player:   player,
		Session:  s,
		Markups:  markups,
		Activity: NewActivityLog(DefaultActivityCap),
	}
}

// CostPerShot returns burn / (10000 + decay*0.01). A non-positive
// denominator yields zero.
func CostPerShot(decay decimal.Decimal, burn int) decimal.Decimal {
	denom := decimal.NewFromInt(10000).Add(decay.Mul(decimal.New(1, -2)))
	if denom.Sign() <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(burn)).Div(denom)
}

// Track applies ev to the current session. It returns false without error
// when the session is stopped or the event is a global for another player.
// A *FieldError means the event was dropped.
func (t *Tracker) Track(ev classify.Event) (bool, error) {
	if t.Session == nil || !t.Session.IsActive() {
		return false, nil
	}

	applied, err := t.apply(ev)
	if err != nil || !applied {
		return false, err
	}
	t.Activity.Push(ev.Line)
	return true, nil
}

func (t *Tracker) apply(ev classify.Event) (bool, error) {
	st := &t.Session.Stats

	switch ev.Kind {
	case pattern.SelfCrit:
		dmg, err := number(ev, 0)
		if err != nil {
			return false, err
		}
		st.AttackCount++
		st.CritCount++
		st.TotalDamage = st.TotalDamage.Add(dmg)
		st.TotalCritDamage = st.TotalCritDamage.Add(dmg)
		st.TotalCost = st.TotalCost.Add(t.shotCost())

	case pattern.SelfHit:
		dmg, err := number(ev, 0)
		if err != nil {
			return false, err
		}
		st.AttackCount++
		st.TotalDamage = st.TotalDamage.Add(dmg)
		st.TotalCost = st.TotalCost.Add(t.shotCost())

	case pattern.SelfHeal:
		heal, err := number(ev, 0)
		if err != nil {
			return false, err
		}
		st.TotalHeal = st.TotalHeal.Add(heal)

	case pattern.SelfDeflect:
		st.DeflectCount++
		st.TargetAttackCount++

	case pattern.SelfEvade:
		st.EvadeCount++
		st.TargetAttackCount++

	case pattern.SelfMiss:
		st.AttackCount++
		st.AttackMissCount++

	case pattern.SelfSkillGain:
		exp, err := number(ev, 0)
		if err != nil {
			return false, err
		}
		st.TotalExpGain = st.TotalExpGain.Add(exp)
		t.Session.AddSkill(ev.Field(1), exp)

	case pattern.SelfLoot:
		item := ev.Field(0)
		qty, err := strconv.Atoi(strings.TrimSpace(ev.Field(1)))
		if err != nil {
			return false, &FieldError{Kind: ev.Kind, Index: 1, Value: ev.Field(1), Err: err}
		}
		value, err := number(ev, 2)
		if err != nil {
			return false, err
		}
		st.TTProfit = st.TTProfit.Add(value)
		seedMarkup(t.Markups, item)
		t.Session.AddLoot(item, qty, value)

	case pattern.SelfDeath:
		st.DeathCount++

	case pattern.TargetDodge:
		st.TargetDodgeCount++
		st.AttackCount++
		st.AttackMissCount++

	case pattern.TargetEvade:
		st.TargetEvadeCount++
		st.AttackCount++
		st.AttackMissCount++

	case pattern.TargetJam:
		st.TargetJamCount++
		st.AttackCount++
		st.AttackMissCount++

	case pattern.TargetHit:
		dmg, err := number(ev, 0)
		if err != nil {
			return false, err
		}
		st.TargetAttackCount++
		st.TargetTotalDamage = st.TargetTotalDamage.Add(dmg)

	case pattern.GlobalHuntHOF, pattern.GlobalHunt:
		if ev.Field(0) != t.Player {
			return false, nil
		}
		value, err := number(ev, 2)
		if err != nil {
			return false, err
		}
		st.GlobalCount++
		st.TotalGlobalGain = st.TotalGlobalGain.Add(value)
		if ev.Kind == pattern.GlobalHuntHOF {
			st.HOFCount++
			st.TotalHOFGain = st.TotalHOFGain.Add(value)
		}

	default:
		return false, nil
	}

	return true, nil
}

// Note records a control message (session switched, started, ...) in the
// activity log regardless of session state.
func (t *Tracker) Note(msg string) {
	t.Activity.Push(msg)
}

func (t *Tracker) shotCost() decimal.Decimal {
	return costOf(t.Session.Loadout)
}

func costOf(l LoadoutProvider) decimal.Decimal {
	return CostPerShot(l.CostParams())
}

// seedMarkup gives a newly seen item the default markup. Existing values,
// including ones the user edited, are left alone.
func seedMarkup(v Valuations, item string) {
	if !v.Has(item) {
		v.Set(item, session.DefaultMarkup())
	}
}

// number parses capture i of ev as an exact decimal.
func number(ev classify.Event, i int) (decimal.Decimal, error) {
	raw := ev.Field(i)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &FieldError{Kind: ev.Kind, Index: i, Value: raw, Err: err}
	}
	return d, nil
}
