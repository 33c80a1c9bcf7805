package engine

import (
	"math"
	"time"
)

type AchievementCategory string

const (
	CategoryMilestone AchievementCategory = "milestone"
	CategoryQuest     AchievementCategory = "quest"
	CategoryStreak    AchievementCategory = "streak"
	CategoryAttribute AchievementCategory = "attribute"
	CategorySpecial   AchievementCategory = "special"
	CategoryHidden    AchievementCategory = "hidden"
)

// Requirement is the typed unlock condition of a catalog entry. Every variant
// is an explicit struct; the evaluator never infers rules from id strings.
type Requirement interface {
	met(s *State, selfID string, now time.Time) bool
}

// Milestone: reach a global level.
type Milestone struct{ Level int }

// QuestCount: complete a number of quests.
type QuestCount struct{ Count int }

// StreakDays: reach a check-in streak.
type StreakDays struct{ Days int }

// CurrencyTotal: hold a coin balance.
type CurrencyTotal struct {
	Coin   CoinType
	Amount int
}

// AttributeValue: one attribute aggregate at or above a threshold.
type AttributeValue struct {
	Attr  Attribute
	Value float64
}

// AttributeSpread: all attributes above MinValue and within MaxDiff of each
// other.
type AttributeSpread struct {
	MaxDiff  float64
	MinValue float64
}

// Combo: every referenced achievement unlocked and every referenced attribute
// threshold currently met, simultaneously.
type Combo struct {
	Achievements []string
	Attributes   map[Attribute]float64
}

// Collector: a number of other achievements unlocked.
type Collector struct{ Count int }

// TimeOfDay: the triggering action happened inside [StartHour, EndHour).
// One-time wall-clock conditions like this are exempt from revocation
// rechecks; they are not continuously re-checkable state.
type TimeOfDay struct {
	StartHour int
	EndHour   int
}

func (r Milestone) met(s *State, _ string, _ time.Time) bool  { return s.Level >= r.Level }
func (r QuestCount) met(s *State, _ string, _ time.Time) bool { return s.CompletedQuests >= r.Count }
func (r StreakDays) met(s *State, _ string, _ time.Time) bool { return s.CheckInStreak >= r.Days }

func (r CurrencyTotal) met(s *State, _ string, _ time.Time) bool {
	return s.Coins[r.Coin] >= r.Amount
}

func (r AttributeValue) met(s *State, _ string, _ time.Time) bool {
	return s.Attributes[r.Attr] >= r.Value
}

func (r AttributeSpread) met(s *State, _ string, _ time.Time) bool {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, a := range AllAttributes {
		v := s.Attributes[a]
		if v < r.MinValue {
			return false
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi-lo <= r.MaxDiff
}

func (r Combo) met(s *State, _ string, _ time.Time) bool {
	for _, id := range r.Achievements {
		if !s.isUnlocked(id) {
			return false
		}
	}
	for a, v := range r.Attributes {
		if s.Attributes[a] < v {
			return false
		}
	}
	return true
}

func (r Collector) met(s *State, selfID string, _ time.Time) bool {
	n := 0
	for _, id := range s.UnlockedAchievements {
		if id != selfID {
			n++
		}
	}
	return n >= r.Count
}

func (r TimeOfDay) met(_ *State, _ string, now time.Time) bool {
	h := now.Hour()
	return h >= r.StartHour && h < r.EndHour
}

// AchievementReward is granted on unlock and reversed on revocation.
type AchievementReward struct {
	Exp    int
	Coins  map[CoinType]int
	Points int
}

// AchievementDef is a static catalog entry. Per-user state only records
// membership in the unlocked set.
type AchievementDef struct {
	ID            string
	Name          string
	Description   string
	Icon          string
	Category      AchievementCategory
	Requirement   Requirement
	Prerequisites []string
	Reward        AchievementReward
}

func defaultCatalog() []AchievementDef {
	return []AchievementDef{
		{ID: "first_quest", Name: "First Quest", Description: "Complete your first quest", Icon: "✓", Category: CategoryQuest,
			Requirement: QuestCount{Count: 1}, Reward: AchievementReward{Exp: 20, Points: 5}},
		{ID: "productive", Name: "Productive", Description: "Complete 10 quests", Icon: "📋", Category: CategoryQuest,
			Requirement: QuestCount{Count: 10}, Prerequisites: []string{"first_quest"},
			Reward: AchievementReward{Exp: 60, Coins: map[CoinType]int{CoinUniversal: 50}, Points: 10}},
		{ID: "powerhouse", Name: "Powerhouse", Description: "Complete 50 quests", Icon: "🏆", Category: CategoryQuest,
			Requirement: QuestCount{Count: 50}, Prerequisites: []string{"productive"},
			Reward: AchievementReward{Exp: 200, Coins: map[CoinType]int{CoinUniversal: 200}, Points: 25}},

		{ID: "novice", Name: "Novice", Description: "Reach level 2", Icon: "🌱", Category: CategoryMilestone,
			Requirement: Milestone{Level: 2}, Reward: AchievementReward{Coins: map[CoinType]int{CoinUniversal: 30}, Points: 5}},
		{ID: "adept", Name: "Adept", Description: "Reach level 5", Icon: "🌿", Category: CategoryMilestone,
			Requirement: Milestone{Level: 5}, Prerequisites: []string{"novice"},
			Reward: AchievementReward{Coins: map[CoinType]int{CoinUniversal: 100}, Points: 10}},
		{ID: "veteran", Name: "Veteran", Description: "Reach level 10", Icon: "⭐", Category: CategoryMilestone,
			Requirement: Milestone{Level: 10}, Prerequisites: []string{"adept"},
			Reward: AchievementReward{Coins: map[CoinType]int{CoinUniversal: 300}, Points: 20}},

		{ID: "streak_3", Name: "Warming Up", Description: "Check in 3 days in a row", Icon: "🔥", Category: CategoryStreak,
			Requirement: StreakDays{Days: 3}, Reward: AchievementReward{Exp: 30, Points: 5}},
		{ID: "streak_7", Name: "On Fire", Description: "Check in 7 days in a row", Icon: "🎇", Category: CategoryStreak,
			Requirement: StreakDays{Days: 7}, Prerequisites: []string{"streak_3"},
			Reward: AchievementReward{Exp: 80, Coins: map[CoinType]int{CoinUniversal: 70}, Points: 10}},

		{ID: "strong", Name: "Strong", Description: "STR at 100", Icon: "💪", Category: CategoryAttribute,
			Requirement: AttributeValue{Attr: AttributeSTR, Value: 100}, Reward: AchievementReward{Points: 10}},
		{ID: "scholar", Name: "Scholar", Description: "INT at 100", Icon: "🧠", Category: CategoryAttribute,
			Requirement: AttributeValue{Attr: AttributeINT, Value: 100}, Reward: AchievementReward{Points: 10}},
		{ID: "balanced", Name: "Balanced", Description: "All attributes above 70, none ahead by more than 15", Icon: "⚖️", Category: CategoryAttribute,
			Requirement: AttributeSpread{MaxDiff: 15, MinValue: 70}, Reward: AchievementReward{Exp: 50, Points: 15}},

		{ID: "wealthy", Name: "Wealthy", Description: "Hold 500 universal coins", Icon: "💰", Category: CategorySpecial,
			Requirement: CurrencyTotal{Coin: CoinUniversal, Amount: 500}, Reward: AchievementReward{Points: 15}},
		{ID: "well_rounded", Name: "Well Rounded", Description: "Adept with strong body and mind", Icon: "🎖️", Category: CategorySpecial,
			Requirement: Combo{Achievements: []string{"adept"}, Attributes: map[Attribute]float64{AttributeSTR: 80, AttributeINT: 80}},
			Reward:      AchievementReward{Coins: map[CoinType]int{CoinUniversal: 150}, Points: 20}},
		{ID: "collector", Name: "Collector", Description: "Unlock 5 achievements", Icon: "🗃️", Category: CategorySpecial,
			Requirement: Collector{Count: 5}, Reward: AchievementReward{Points: 25}},

		{ID: "night_owl", Name: "Night Owl", Description: "Complete a quest between midnight and 5am", Icon: "🦉", Category: CategoryHidden,
			Requirement: TimeOfDay{StartHour: 0, EndHour: 5}, Reward: AchievementReward{Exp: 40, Points: 10}},
	}
}

// achievementCatalog is package state so tests can install a bespoke catalog.
var achievementCatalog = defaultCatalog()

func catalogEntry(id string) *AchievementDef {
	for i := range achievementCatalog {
		if achievementCatalog[i].ID == id {
			return &achievementCatalog[i]
		}
	}
	return nil
}

func (s *State) prerequisitesMet(def *AchievementDef) bool {
	for _, id := range def.Prerequisites {
		if !s.isUnlocked(id) {
			return false
		}
	}
	return true
}

// evaluateUnlocks scans the catalog for newly satisfied achievements and
// unlocks them, granting rewards. The full catalog is re-scanned until a pass
// unlocks nothing: combo and collector entries may only become satisfiable by
// unlocks (or reward cascades) from the same pass, and rescanning avoids any
// dependence on catalog order.
func (s *State) evaluateUnlocks(now time.Time) []string {
	var unlocked []string
	for {
		changed := false
		for i := range achievementCatalog {
			def := &achievementCatalog[i]
			if s.isUnlocked(def.ID) || !s.prerequisitesMet(def) {
				continue
			}
			if !def.Requirement.met(s, def.ID, now) {
				continue
			}
			s.unlockAchievement(def, now)
			unlocked = append(unlocked, def.ID)
			changed = true
		}
		if !changed {
			return unlocked
		}
	}
}

func (s *State) unlockAchievement(def *AchievementDef, now time.Time) {
	s.UnlockedAchievements = append(s.UnlockedAchievements, def.ID)

	key := AchievementKey(def.ID)
	if def.Reward.Exp > 0 {
		s.grantExperience(def.Reward.Exp, "achievement: "+def.Name, &key, now)
	}
	for coin, amount := range def.Reward.Coins {
		if amount <= 0 {
			continue
		}
		s.Coins[coin] += amount
		s.recordCurrency(DirectionEarn, coin, amount, "achievement: "+def.Name, &key, now)
	}
	s.AchievementPoints += def.Reward.Points
}

// recheckRevocations re-evaluates every unlocked achievement and revokes the
// ones whose condition no longer holds, reversing their rewards through the
// ledger. Hidden one-time achievements are exempt. Returns the revoked ids;
// callers iterate to a fixed point because a revocation can itself lower
// level or currency and invalidate further achievements. Termination is
// guaranteed: each pass strictly shrinks the unlocked set.
func (s *State) recheckRevocations(now time.Time) []string {
	var revoked []string
	current := append([]string(nil), s.UnlockedAchievements...)
	for _, id := range current {
		def := catalogEntry(id)
		if def == nil {
			continue
		}
		if _, oneTime := def.Requirement.(TimeOfDay); oneTime {
			continue
		}
		if s.prerequisitesMet(def) && def.Requirement.met(s, def.ID, now) {
			continue
		}
		s.revokeAchievement(def, now)
		revoked = append(revoked, id)
	}
	return revoked
}

func (s *State) revokeAchievement(def *AchievementDef, now time.Time) {
	kept := s.UnlockedAchievements[:0]
	for _, id := range s.UnlockedAchievements {
		if id != def.ID {
			kept = append(kept, id)
		}
	}
	s.UnlockedAchievements = kept

	key := AchievementKey(def.ID)
	reason := "achievement revoked: " + def.Name

	expRevoked := 0
	for _, e := range s.revokeByCorrelation(KindExperience, key, reason, now) {
		expRevoked += int(e.Amount)
	}
	if expRevoked > 0 {
		s.revokeExperience(expRevoked, reason, now)
	}
	for _, e := range s.revokeByCorrelation(KindCurrency, key, reason, now) {
		s.subtractCoins(e.Coin, int(e.Amount))
	}
	s.AchievementPoints -= def.Reward.Points
	if s.AchievementPoints < 0 {
		s.AchievementPoints = 0
	}
}

// recheckToFixedPoint runs revocation rechecks until a pass revokes nothing.
// The iteration bound mirrors the termination argument: the unlocked set can
// only shrink, so it cannot loop more times than the set had members.
func (s *State) recheckToFixedPoint(now time.Time) []string {
	var all []string
	for i := len(s.UnlockedAchievements); i >= 0; i-- {
		revoked := s.recheckRevocations(now)
		if len(revoked) == 0 {
			return all
		}
		all = append(all, revoked...)
	}
	return all
}
