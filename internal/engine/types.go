package engine

import (
	"fmt"
	"strings"
)

type Attribute string

const (
	AttributeSTR Attribute = "STR"
	AttributeINT Attribute = "INT"
	AttributeVIT Attribute = "VIT"
	AttributeCHA Attribute = "CHA"
)

// AllAttributes is the fixed attribute set, in display order.
var AllAttributes = []Attribute{AttributeSTR, AttributeINT, AttributeVIT, AttributeCHA}

func (a Attribute) IsValid() bool {
	switch a {
	case AttributeSTR, AttributeINT, AttributeVIT, AttributeCHA:
		return true
	default:
		return false
	}
}

// DefaultAttribute is used when user or AI input is missing/invalid.
const DefaultAttribute Attribute = AttributeINT

// ParseAttribute parses user input to an Attribute.
// Supported: str, int, vit, cha (plus a few aliases).
// If input is empty or unrecognized, returns DefaultAttribute.
func ParseAttribute(input string) Attribute {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "str", "strength", "body":
		return AttributeSTR
	case "int", "intellect", "mind":
		return AttributeINT
	case "vit", "vitality", "health":
		return AttributeVIT
	case "cha", "charisma", "social":
		return AttributeCHA
	default:
		return DefaultAttribute
	}
}

// CoinType tags currency ledger entries and balances. Each attribute has a
// typed coin, plus a universal coin. CoinAll is a legacy tag kept for old
// state documents; it is never written by new code.
type CoinType string

const (
	CoinSTR       CoinType = "str"
	CoinINT       CoinType = "int"
	CoinVIT       CoinType = "vit"
	CoinCHA       CoinType = "cha"
	CoinUniversal CoinType = "universal"
	CoinAll       CoinType = "all"
)

func (c CoinType) IsValid() bool {
	switch c {
	case CoinSTR, CoinINT, CoinVIT, CoinCHA, CoinUniversal, CoinAll:
		return true
	default:
		return false
	}
}

// CoinForAttribute maps an attribute to its typed coin.
func CoinForAttribute(a Attribute) CoinType {
	switch a {
	case AttributeSTR:
		return CoinSTR
	case AttributeINT:
		return CoinINT
	case AttributeVIT:
		return CoinVIT
	case AttributeCHA:
		return CoinCHA
	default:
		return CoinUniversal
	}
}

// ParseCoinType parses user input to a CoinType, defaulting to universal.
func ParseCoinType(input string) CoinType {
	c := CoinType(strings.TrimSpace(strings.ToLower(input)))
	if c.IsValid() {
		return c
	}
	return CoinUniversal
}

type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// CorrelationKind discriminates CorrelationKey variants.
type CorrelationKind string

const (
	CorrQuest       CorrelationKind = "quest"
	CorrLevelGain   CorrelationKind = "level"
	CorrDailyLogin  CorrelationKind = "login"
	CorrCheckIn     CorrelationKind = "checkin"
	CorrAchievement CorrelationKind = "achievement"
	CorrHabit       CorrelationKind = "habit"
)

// CorrelationKey ties ledger entries and attribute gain records back to the
// compound action that produced them, so a reversal can find exactly what the
// action granted. It is a tagged value, not a free-form string: revocation
// lookups compare keys structurally and never parse display strings.
type CorrelationKey struct {
	Kind CorrelationKind `json:"kind"`
	ID   string          `json:"id,omitempty"`   // quest/achievement/habit id
	N    int             `json:"n,omitempty"`    // level number for CorrLevelGain
	Date string          `json:"date,omitempty"` // YYYY-MM-DD for date-keyed kinds
}

func QuestKey(id string) CorrelationKey       { return CorrelationKey{Kind: CorrQuest, ID: id} }
func LevelKey(n int) CorrelationKey           { return CorrelationKey{Kind: CorrLevelGain, N: n} }
func LoginKey(date string) CorrelationKey     { return CorrelationKey{Kind: CorrDailyLogin, Date: date} }
func CheckInKey(date string) CorrelationKey   { return CorrelationKey{Kind: CorrCheckIn, Date: date} }
func AchievementKey(id string) CorrelationKey { return CorrelationKey{Kind: CorrAchievement, ID: id} }
func HabitKey(id, date string) CorrelationKey {
	return CorrelationKey{Kind: CorrHabit, ID: id, Date: date}
}

// String renders the legacy display form ("level-5", "checkin-2026-08-30").
func (k CorrelationKey) String() string {
	switch k.Kind {
	case CorrLevelGain:
		return fmt.Sprintf("level-%d", k.N)
	case CorrDailyLogin:
		return "login-" + k.Date
	case CorrCheckIn:
		return "checkin-" + k.Date
	case CorrHabit:
		return fmt.Sprintf("habit-%s-%s", k.ID, k.Date)
	default:
		return string(k.Kind) + "-" + k.ID
	}
}

// IsZero reports whether the key is unset (entry has no correlation).
func (k CorrelationKey) IsZero() bool { return k.Kind == "" }
