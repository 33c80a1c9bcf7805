package engine

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// decayEpsilon is the threshold under which decay deltas are not logged and
// records are pruned as spent.
const decayEpsilon = 0.01

// retentionDays bounds how long low-value gain records are kept.
const retentionDays = 90

// AttributeGainRecord is one discrete attribute grant. Amount is immutable
// and serves as the base of the exponential decay; CurrentValue decays over
// time and always stays within [0, Amount].
type AttributeGainRecord struct {
	ID            string          `json:"id"`
	Attribute     Attribute       `json:"attribute"`
	Amount        float64         `json:"amount"`
	GainedAt      time.Time       `json:"gainedAt"`
	Reason        string          `json:"reason"`
	Correlation   *CorrelationKey `json:"correlation,omitempty"`
	DecayRate     float64         `json:"decayRate"`
	HalfLifeDays  float64         `json:"halfLifeDays"`
	CurrentValue  float64         `json:"currentValue"`
	LastDecayedAt time.Time       `json:"lastDecayedAt"`
}

// DecayConfig is the per-attribute decay policy. Changing it affects future
// grants; existing records keep the rate they were created with.
type DecayConfig struct {
	Attribute    Attribute `json:"attribute"`
	Enabled      bool      `json:"enabled"`
	HalfLifeDays float64   `json:"halfLifeDays"`
	MinValue     float64   `json:"minValue"`
	DecayRate    float64   `json:"decayRate"`
}

// rateForHalfLife converts a half-life in days to a per-day decay fraction:
// (1-rate)^halfLife = 0.5.
func rateForHalfLife(halfLifeDays float64) float64 {
	if halfLifeDays <= 0 {
		return 0
	}
	return 1 - math.Pow(0.5, 1/halfLifeDays)
}

func defaultDecayConfigs() map[Attribute]DecayConfig {
	out := map[Attribute]DecayConfig{}
	for _, a := range AllAttributes {
		out[a] = DecayConfig{
			Attribute:    a,
			Enabled:      true,
			HalfLifeDays: 30,
			MinValue:     0,
			DecayRate:    rateForHalfLife(30),
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func newGainRecord(attr Attribute, amount float64, reason string, corr *CorrelationKey, cfg DecayConfig, halfLifeOverride *float64, now time.Time) AttributeGainRecord {
	halfLife := cfg.HalfLifeDays
	rate := cfg.DecayRate
	if halfLifeOverride != nil {
		halfLife = *halfLifeOverride
		rate = rateForHalfLife(halfLife)
	}
	return AttributeGainRecord{
		ID:            uuid.NewString(),
		Attribute:     attr,
		Amount:        amount,
		GainedAt:      now,
		Reason:        reason,
		Correlation:   corr,
		DecayRate:     rate,
		HalfLifeDays:  halfLife,
		CurrentValue:  amount,
		LastDecayedAt: now,
	}
}

// grantAttribute creates a gain record, bumps the aggregate and logs the
// attribute-change ledger entry. Returns the record id.
func (s *State) grantAttribute(attr Attribute, amount float64, reason string, corr *CorrelationKey, halfLifeOverride *float64, now time.Time) string {
	rec := newGainRecord(attr, amount, reason, corr, s.DecayConfigs[attr], halfLifeOverride, now)
	s.AttributeRecords = append(s.AttributeRecords, rec)

	old := s.Attributes[attr]
	s.Attributes[attr] = round2(old + amount)
	s.recordAttributeChange(attr, old, s.Attributes[attr], reason, corr, now)
	return rec.ID
}

// revokeAttributeByCorrelation removes every gain record for attr+corr and
// decrements the aggregate by the sum of their current (decayed) values: a
// reversal takes back what the user still holds, not what was once granted.
func (s *State) revokeAttributeByCorrelation(attr Attribute, corr CorrelationKey) float64 {
	var sum float64
	kept := s.AttributeRecords[:0]
	for _, rec := range s.AttributeRecords {
		if rec.Attribute == attr && rec.Correlation != nil && *rec.Correlation == corr {
			sum += rec.CurrentValue
			continue
		}
		kept = append(kept, rec)
	}
	s.AttributeRecords = kept

	sum = round2(sum)
	if sum > 0 {
		s.Attributes[attr] = round2(math.Max(0, s.Attributes[attr]-sum))
	}
	return sum
}

// applyDecay recomputes every enabled attribute's gain records. Decay is a
// whole-day step function: records touched less than a day ago are skipped,
// and the new value is always derived from the original amount and the total
// elapsed days since the grant, so skipped calls never lose decay and repeated
// calls never compound error.
func (s *State) applyDecay(now time.Time) {
	for i := range s.AttributeRecords {
		rec := &s.AttributeRecords[i]
		cfg, ok := s.DecayConfigs[rec.Attribute]
		if !ok || !cfg.Enabled {
			continue
		}
		if now.Sub(rec.LastDecayedAt) < 24*time.Hour {
			continue
		}

		days := int(now.Sub(rec.GainedAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		newValue := rec.Amount * math.Pow(1-rec.DecayRate, float64(days))
		if newValue < cfg.MinValue {
			newValue = cfg.MinValue
		}
		newValue = round2(newValue)

		prev := rec.CurrentValue
		rec.CurrentValue = newValue
		rec.LastDecayedAt = now

		decayAmount := round2(prev - newValue)
		if decayAmount > decayEpsilon {
			old := s.Attributes[rec.Attribute]
			s.Attributes[rec.Attribute] = round2(math.Max(0, old-decayAmount))
			s.recordAttributeChange(rec.Attribute, old, s.Attributes[rec.Attribute], "natural decay", nil, now)
		}
	}

	s.pruneGainRecords(now)
}

// pruneGainRecords drops spent records and stale low-value ones past the
// retention window.
func (s *State) pruneGainRecords(now time.Time) {
	kept := s.AttributeRecords[:0]
	for _, rec := range s.AttributeRecords {
		spent := rec.CurrentValue < decayEpsilon
		stale := now.Sub(rec.GainedAt) > retentionDays*24*time.Hour && rec.CurrentValue < 1
		if spent || stale {
			continue
		}
		kept = append(kept, rec)
	}
	s.AttributeRecords = kept
}

// attributeHealth scores recent earning quality for one attribute: the average
// retained fraction (currentValue/amount) across records gained inside the
// trailing window, scaled to 0..100. No records in the window means 0; health
// reflects recent activity, not all-time strength.
func (s *State) attributeHealth(attr Attribute, windowDays int, now time.Time) float64 {
	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)
	var sum float64
	n := 0
	for i := range s.AttributeRecords {
		rec := &s.AttributeRecords[i]
		if rec.Attribute != attr || rec.GainedAt.Before(cutoff) || rec.Amount <= 0 {
			continue
		}
		sum += rec.CurrentValue / rec.Amount * 100
		n++
	}
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}

// decayingRecords returns all records still holding value, for display/audit.
func (s *State) decayingRecords() []AttributeGainRecord {
	var out []AttributeGainRecord
	for _, rec := range s.AttributeRecords {
		if rec.CurrentValue > 0 {
			out = append(out, rec)
		}
	}
	return out
}
