package session

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLoadoutName names the loadout created when none exists.
const DefaultLoadoutName = "default"

// Loadout is the equipped gear. Decay and Burn drive the per-shot cost.
type Loadout struct {
	Name      string
	Weapon    string
	Amp       string
	Scope     string
	SightOne  string
	SightTwo  string
	Decay     decimal.Decimal
	Burn      int
	CreatedAt time.Time
}

// NewLoadout returns an empty loadout with zero decay and burn.
func NewLoadout(name string, createdAt time.Time) Loadout {
	return Loadout{Name: name, CreatedAt: createdAt.UTC()}
}

// GenerateLoadoutName returns a loadout name derived from t.
func GenerateLoadoutName(t time.Time) string {
	return t.Format(nameLayout)
}

// Key returns the normalized name used to identify the loadout on disk.
func (l Loadout) Key() string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(l.Name), " ", "_"))
}

// CostParams returns the decay and burn used for cost per shot.
func (l Loadout) CostParams() (decimal.Decimal, int) {
	return l.Decay, l.Burn
}
