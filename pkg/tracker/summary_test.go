package tracker

import (
	"testing"
	"time"

	"hunttrack/pkg/pattern"
	"hunttrack/pkg/session"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s := session.New("summary", func() time.Time { return now })
	s.Loadout.Burn = 1000 // 0.1 per shot
	s.Start()

	tr := New(player, s, nil)
	for i := 0; i < 10; i++ {
		mustTrack(t, tr, ev(pattern.SelfHit, "hit", "10"))
	}
	mustTrack(t, tr, ev(pattern.SelfCrit, "crit", "20"))
	mustTrack(t, tr, ev(pattern.SelfMiss, "miss"))
	mustTrack(t, tr, ev(pattern.SelfLoot, "loot", "Animal Hide", "4", "1.0"))
	mustTrack(t, tr, ev(pattern.SelfLoot, "loot", "Animal Oil", "2", "0.2"))
	tr.Markups.Set("Animal Hide", dec("1.5"))

	now = now.Add(30 * time.Minute)
	sum := tr.Summarize()

	checks := []struct {
		name string
		got  string
		want string
	}{
		{"TotalCost", sum.TotalCost.String(), "1.1"},
		{"MUValue", sum.MUValue.String(), "1.7"},
		{"MUProfit", sum.MUProfit.String(), "0.6"},
		{"TTProfit", sum.TTProfit.String(), "0.1"},
		{"CostPerHour", sum.CostPerHour.String(), "2.2"},
		{"ValuePerHour", sum.ValuePerHour.String(), "3.4"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}

	// 1 crit out of 12 attacks, 1 miss out of 12.
	if got := sum.CritRate.Round(2).String(); got != "8.33" {
		t.Errorf("CritRate = %s, want 8.33", got)
	}
	if got := sum.MissRate.Round(2).String(); got != "8.33" {
		t.Errorf("MissRate = %s, want 8.33", got)
	}
	if !sum.DeflectRate.IsZero() || !sum.TargetMissPct.IsZero() {
		t.Error("rates over zero target attacks should be zero")
	}
	if sum.Elapsed != 30*time.Minute {
		t.Errorf("Elapsed = %v", sum.Elapsed)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	tr := New(player, session.New("empty", nil), nil)
	sum := tr.Summarize()
	if !sum.MUReturn.IsZero() || !sum.ValuePerHour.IsZero() || !sum.CostPerHour.IsZero() {
		t.Errorf("empty session summary should be all zero: %+v", sum)
	}
}
