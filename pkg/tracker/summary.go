package tracker

import (
	"time"

	"github.com/shopspring/decimal"

	"hunttrack/pkg/session"
)

// Summary holds the figures derived from a session for display.
type Summary struct {
	Elapsed time.Duration

	TotalCost    decimal.Decimal
	MUValue      decimal.Decimal // loot trade value times markup
	MUProfit     decimal.Decimal
	MUReturn     decimal.Decimal // percent of cost
	TTProfit     decimal.Decimal
	TTReturn     decimal.Decimal
	ValuePerHour decimal.Decimal
	CostPerHour  decimal.Decimal

	CritRate      decimal.Decimal
	MissRate      decimal.Decimal
	DeflectRate   decimal.Decimal
	TargetMissPct decimal.Decimal
}

// Summarize derives the display figures for the current session.
func (t *Tracker) Summarize() Summary {
	s := t.Session
	st := s.Stats
	elapsed := s.Elapsed()

	mu := decimal.Zero
	for _, l := range s.Loot {
		mu = mu.Add(l.TTValue.Mul(t.Markups.Value(l.Name)))
	}

	return Summary{
		Elapsed:      elapsed,
		TotalCost:    st.TotalCost,
		MUValue:      mu,
		MUProfit:     mu.Sub(st.TotalCost),
		MUReturn:     session.Percent(mu, st.TotalCost),
		TTProfit:     st.TTProfit.Sub(st.TotalCost),
		TTReturn:     session.Percent(st.TTProfit, st.TotalCost),
		ValuePerHour: perHour(mu, elapsed),
		CostPerHour:  perHour(st.TotalCost, elapsed),

		CritRate:      session.Percent(decimal.NewFromInt(int64(st.CritCount)), decimal.NewFromInt(int64(st.AttackCount))),
		MissRate:      session.Percent(decimal.NewFromInt(int64(st.AttackMissCount)), decimal.NewFromInt(int64(st.AttackCount))),
		DeflectRate:   session.Percent(decimal.NewFromInt(int64(st.DeflectCount)), decimal.NewFromInt(int64(st.TargetAttackCount))),
		TargetMissPct: session.Percent(decimal.NewFromInt(int64(st.EvadeCount)), decimal.NewFromInt(int64(st.TargetAttackCount))),
	}
}

// perHour scales v accrued over elapsed whole seconds to one hour.
func perHour(v decimal.Decimal, elapsed time.Duration) decimal.Decimal {
	secs := int64(elapsed / time.Second)
	if secs <= 0 {
		return decimal.Zero
	}
	return v.Mul(decimal.NewFromInt(3600)).Div(decimal.NewFromInt(secs))
}
