package engine

import (
	"time"

	"github.com/google/uuid"
)

// LedgerCap bounds each transaction list; insertion prunes the oldest entries
// past the cap regardless of revoked status.
const LedgerCap = 500

type Direction string

const (
	DirectionEarn  Direction = "earn"
	DirectionSpend Direction = "spend"
)

type LedgerKind string

const (
	KindCurrency   LedgerKind = "currency"
	KindExperience LedgerKind = "experience"
	KindAttribute  LedgerKind = "attribute"
)

// LedgerEntry is one immutable state change. Once created, only the revoked
// fields may change, and an entry is revoked at most once. Amounts are stored
// as granted (after any bonus multipliers), so a revocation subtracts exactly
// what the grant added.
type LedgerEntry struct {
	ID        string     `json:"id"`
	Kind      LedgerKind `json:"kind"`
	Direction Direction  `json:"direction"`
	Coin      CoinType   `json:"coin,omitempty"` // currency entries only
	Amount    float64    `json:"amount"`
	// Attribute-change payload. Amount holds the delta (newValue - oldValue).
	Attribute Attribute `json:"attribute,omitempty"`
	OldValue  float64   `json:"oldValue,omitempty"`
	NewValue  float64   `json:"newValue,omitempty"`

	Reason      string          `json:"reason"`
	Timestamp   time.Time       `json:"timestamp"`
	Correlation *CorrelationKey `json:"correlation,omitempty"`

	Revoked      bool       `json:"revoked,omitempty"`
	RevokedAt    *time.Time `json:"revokedAt,omitempty"`
	RevokeReason string     `json:"revokeReason,omitempty"`
}

// transactions holds the three parallel capped histories, newest first.
type transactions struct {
	Currency   []LedgerEntry `json:"currency"`
	Experience []LedgerEntry `json:"experience"`
	Attribute  []LedgerEntry `json:"attribute"`
}

func prepend(list []LedgerEntry, e LedgerEntry) []LedgerEntry {
	list = append([]LedgerEntry{e}, list...)
	if len(list) > LedgerCap {
		list = list[:LedgerCap]
	}
	return list
}

func (s *State) recordCurrency(dir Direction, coin CoinType, amount int, reason string, corr *CorrelationKey, now time.Time) *LedgerEntry {
	e := LedgerEntry{
		ID:          uuid.NewString(),
		Kind:        KindCurrency,
		Direction:   dir,
		Coin:        coin,
		Amount:      float64(amount),
		Reason:      reason,
		Timestamp:   now,
		Correlation: corr,
	}
	s.Transactions.Currency = prepend(s.Transactions.Currency, e)
	return &s.Transactions.Currency[0]
}

func (s *State) recordExperience(dir Direction, amount int, reason string, corr *CorrelationKey, now time.Time) *LedgerEntry {
	e := LedgerEntry{
		ID:          uuid.NewString(),
		Kind:        KindExperience,
		Direction:   dir,
		Amount:      float64(amount),
		Reason:      reason,
		Timestamp:   now,
		Correlation: corr,
	}
	s.Transactions.Experience = prepend(s.Transactions.Experience, e)
	return &s.Transactions.Experience[0]
}

func (s *State) recordAttributeChange(attr Attribute, oldValue, newValue float64, reason string, corr *CorrelationKey, now time.Time) *LedgerEntry {
	e := LedgerEntry{
		ID:          uuid.NewString(),
		Kind:        KindAttribute,
		Direction:   DirectionEarn,
		Attribute:   attr,
		Amount:      round2(newValue - oldValue),
		OldValue:    oldValue,
		NewValue:    newValue,
		Reason:      reason,
		Timestamp:   now,
		Correlation: corr,
	}
	s.Transactions.Attribute = prepend(s.Transactions.Attribute, e)
	return &s.Transactions.Attribute[0]
}

// revokeByCorrelation marks every non-revoked earn-direction entry of the
// given kind matching corr as revoked and returns copies carrying the original
// amounts. A key with no matching entries yields an empty result, never an
// error: reversal cascades re-invoke this freely.
//
// Spend entries are terminal and are never auto-revoked.
func (s *State) revokeByCorrelation(kind LedgerKind, corr CorrelationKey, revokeReason string, now time.Time) []LedgerEntry {
	var list []LedgerEntry
	switch kind {
	case KindCurrency:
		list = s.Transactions.Currency
	case KindExperience:
		list = s.Transactions.Experience
	case KindAttribute:
		list = s.Transactions.Attribute
	}

	var revoked []LedgerEntry
	for i := range list {
		e := &list[i]
		if e.Revoked || e.Direction != DirectionEarn {
			continue
		}
		if e.Correlation == nil || *e.Correlation != corr {
			continue
		}
		e.Revoked = true
		t := now
		e.RevokedAt = &t
		e.RevokeReason = revokeReason
		revoked = append(revoked, *e)
	}
	return revoked
}
