package engine

import (
	"math"
	"testing"
	"time"
)

// bareState returns a state with no attribute records or values so decay math
// can be asserted in isolation.
func bareState(now time.Time) *State {
	s := NewState(now)
	s.AttributeRecords = nil
	s.Attributes = map[Attribute]float64{}
	return s
}

func TestDecayIsExponentialOnOriginalAmount(t *testing.T) {
	now := fixedTime(2030, 3, 1, 12)
	s := bareState(now)
	cfg := s.DecayConfigs[AttributeSTR]
	cfg.DecayRate = 0.1
	s.DecayConfigs[AttributeSTR] = cfg

	s.grantAttribute(AttributeSTR, 100, "training", nil, nil, now)
	if s.Attributes[AttributeSTR] != 100 {
		t.Fatalf("value=%v, want 100", s.Attributes[AttributeSTR])
	}

	// Less than a whole day: untouched.
	s.applyDecay(now.Add(12 * time.Hour))
	if s.Attributes[AttributeSTR] != 100 {
		t.Fatalf("value after 12h=%v, want 100", s.Attributes[AttributeSTR])
	}

	// 100 * 0.9^3 = 72.9 after three whole days.
	s.applyDecay(now.Add(72 * time.Hour))
	if got := s.AttributeRecords[0].CurrentValue; got != 72.9 {
		t.Fatalf("record value=%v, want 72.9", got)
	}
	if got := s.Attributes[AttributeSTR]; got != 72.9 {
		t.Fatalf("aggregate=%v, want 72.9", got)
	}

	// Re-running within the same day changes nothing; the next whole day is
	// derived from the original amount, never compounded from intermediates.
	s.applyDecay(now.Add(73 * time.Hour))
	if got := s.Attributes[AttributeSTR]; got != 72.9 {
		t.Fatalf("aggregate after re-run=%v, want 72.9", got)
	}
	s.applyDecay(now.Add(96 * time.Hour))
	if got := s.AttributeRecords[0].CurrentValue; got != 65.61 {
		t.Fatalf("record value day 4=%v, want 65.61", got)
	}
}

func TestDecayRespectsMinValueFloor(t *testing.T) {
	now := fixedTime(2030, 3, 1, 12)
	s := bareState(now)
	s.DecayConfigs[AttributeVIT] = DecayConfig{
		Attribute: AttributeVIT,
		Enabled:   true,
		DecayRate: 0.5,
		MinValue:  10,
	}

	s.grantAttribute(AttributeVIT, 20, "workout", nil, nil, now)
	s.applyDecay(now.Add(5 * 24 * time.Hour))
	if got := s.AttributeRecords[0].CurrentValue; got != 10 {
		t.Fatalf("record value=%v, want floor 10", got)
	}
}

func TestDecayDisabledAttributeIsUntouched(t *testing.T) {
	now := fixedTime(2030, 3, 1, 12)
	s := bareState(now)
	s.DecayConfigs[AttributeCHA] = DecayConfig{Attribute: AttributeCHA, Enabled: false, DecayRate: 0.5}

	s.grantAttribute(AttributeCHA, 40, "talk", nil, nil, now)
	s.applyDecay(now.Add(10 * 24 * time.Hour))
	if got := s.Attributes[AttributeCHA]; got != 40 {
		t.Fatalf("value=%v, want 40", got)
	}
}

func TestRevokeTakesDecayedValueNotOriginal(t *testing.T) {
	now := fixedTime(2030, 3, 1, 12)
	s := bareState(now)
	cfg := s.DecayConfigs[AttributeSTR]
	cfg.DecayRate = 0.2
	s.DecayConfigs[AttributeSTR] = cfg

	key := QuestKey("q1")
	s.grantAttribute(AttributeSTR, 50, "quest", &key, nil, now)
	s.applyDecay(now.Add(24 * time.Hour))
	if got := s.Attributes[AttributeSTR]; got != 40 {
		t.Fatalf("decayed value=%v, want 40", got)
	}

	taken := s.revokeAttributeByCorrelation(AttributeSTR, key)
	if taken != 40 {
		t.Fatalf("taken=%v, want the decayed 40, not the granted 50", taken)
	}
	if got := s.Attributes[AttributeSTR]; got != 0 {
		t.Fatalf("value=%v, want 0", got)
	}
	if len(s.AttributeRecords) != 0 {
		t.Fatalf("records=%d, want 0", len(s.AttributeRecords))
	}

	// Revoking again finds nothing and the aggregate never goes negative.
	if again := s.revokeAttributeByCorrelation(AttributeSTR, key); again != 0 {
		t.Fatalf("second revoke=%v, want 0", again)
	}
	if got := s.Attributes[AttributeSTR]; got != 0 {
		t.Fatalf("value=%v, want 0", got)
	}
}

func TestDecayLogsOnlyAboveEpsilon(t *testing.T) {
	now := fixedTime(2030, 3, 1, 12)
	s := bareState(now)
	cfg := s.DecayConfigs[AttributeINT]
	cfg.DecayRate = 0.0001
	s.DecayConfigs[AttributeINT] = cfg

	s.grantAttribute(AttributeINT, 10, "study", nil, nil, now)
	entries := len(s.Transactions.Attribute)

	// One day at rate 0.0001 on 10 points rounds to a delta below epsilon.
	s.applyDecay(now.Add(24 * time.Hour))
	if got := len(s.Transactions.Attribute); got != entries {
		t.Fatalf("attribute entries=%d, want unchanged %d", got, entries)
	}
}

func TestPruneDropsSpentAndStaleRecords(t *testing.T) {
	now := fixedTime(2030, 6, 1, 12)
	s := bareState(now)

	s.AttributeRecords = []AttributeGainRecord{
		{ID: "spent", Attribute: AttributeSTR, Amount: 10, CurrentValue: 0.001, GainedAt: now.AddDate(0, 0, -5)},
		{ID: "stale", Attribute: AttributeINT, Amount: 10, CurrentValue: 0.5, GainedAt: now.AddDate(0, 0, -120)},
		{ID: "old-but-strong", Attribute: AttributeVIT, Amount: 10, CurrentValue: 5, GainedAt: now.AddDate(0, 0, -120)},
		{ID: "fresh", Attribute: AttributeCHA, Amount: 10, CurrentValue: 10, GainedAt: now.AddDate(0, 0, -1)},
	}

	s.pruneGainRecords(now)
	if len(s.AttributeRecords) != 2 {
		t.Fatalf("records=%d, want 2", len(s.AttributeRecords))
	}
	for _, rec := range s.AttributeRecords {
		if rec.ID == "spent" || rec.ID == "stale" {
			t.Fatalf("record %s should have been pruned", rec.ID)
		}
	}
}

func TestAttributeHealthAveragesRetention(t *testing.T) {
	now := fixedTime(2030, 6, 1, 12)
	s := bareState(now)

	s.AttributeRecords = []AttributeGainRecord{
		{Attribute: AttributeSTR, Amount: 100, CurrentValue: 100, GainedAt: now.AddDate(0, 0, -1)},
		{Attribute: AttributeSTR, Amount: 100, CurrentValue: 50, GainedAt: now.AddDate(0, 0, -2)},
		// Outside the window: ignored.
		{Attribute: AttributeSTR, Amount: 100, CurrentValue: 10, GainedAt: now.AddDate(0, 0, -40)},
		// Different attribute: ignored.
		{Attribute: AttributeINT, Amount: 100, CurrentValue: 100, GainedAt: now.AddDate(0, 0, -1)},
	}

	if got := s.attributeHealth(AttributeSTR, 30, now); got != 75 {
		t.Fatalf("health=%v, want 75", got)
	}
	if got := s.attributeHealth(AttributeCHA, 30, now); got != 0 {
		t.Fatalf("health with no recent records=%v, want 0", got)
	}
}

func TestRateForHalfLife(t *testing.T) {
	rate := rateForHalfLife(30)
	if halved := math.Pow(1-rate, 30); math.Abs(halved-0.5) > 1e-9 {
		t.Fatalf("(1-rate)^30=%v, want 0.5", halved)
	}
	if got := rateForHalfLife(0); got != 0 {
		t.Fatalf("rate for zero half-life=%v, want 0", got)
	}
}
