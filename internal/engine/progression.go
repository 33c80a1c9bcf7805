package engine

import (
	"math"
	"time"
)

const (
	// expLevelBonusRate is the experience bonus per level above 1 (1%).
	expLevelBonusRate = 0.01
	// expLevelBonusCap caps the level bonus at +25%.
	expLevelBonusCap = 0.25
	// expStreakBonusRate is the experience bonus per check-in streak day (5%).
	expStreakBonusRate = 0.05
	// expStreakBonusCap caps the streak bonus at +50%.
	expStreakBonusCap = 0.50
)

// MaxExpForLevel returns the experience capacity of a level:
// floor(level * 100 * 1.5).
func MaxExpForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(float64(level) * 100 * 1.5))
}

// ExpMultiplier is the combined earn multiplier for the given level and
// check-in streak. Both inputs are monotonic, deterministic functions of
// existing state; the multiplier is applied at grant time and the boosted
// amount is what the ledger records, so reversals never need to know what
// the multiplier was.
func ExpMultiplier(level, streak int) float64 {
	levelBonus := float64(level-1) * expLevelBonusRate
	if levelBonus > expLevelBonusCap {
		levelBonus = expLevelBonusCap
	}
	streakBonus := float64(streak) * expStreakBonusRate
	if streakBonus > expStreakBonusCap {
		streakBonus = expStreakBonusCap
	}
	return 1 + levelBonus + streakBonus
}

// LevelReward is the static per-level reward: a universal coin grant plus the
// features that open up at that level.
type LevelReward struct {
	Coins   int
	Unlocks []string
}

// levelRewardTable lists the levels with bespoke rewards. Levels not present
// fall back to LevelRewardFor's formula.
var levelRewardTable = map[int]LevelReward{
	2:  {Coins: 60, Unlocks: []string{"shop"}},
	3:  {Coins: 80, Unlocks: []string{"quest chains"}},
	5:  {Coins: 150, Unlocks: []string{"habits"}},
	7:  {Coins: 200, Unlocks: []string{"ai suggestions"}},
	10: {Coins: 400, Unlocks: []string{"prestige board"}},
	15: {Coins: 700, Unlocks: []string{"weekly reviews"}},
}

// LevelRewardFor returns the currency reward and unlock list for reaching a
// level.
func LevelRewardFor(level int) LevelReward {
	if r, ok := levelRewardTable[level]; ok {
		return r
	}
	return LevelReward{Coins: level * 25}
}

// UnlocksThroughLevel lists every feature unlocked at or below level, in
// level order.
func UnlocksThroughLevel(level int) []string {
	var out []string
	for l := 2; l <= level; l++ {
		out = append(out, levelRewardTable[l].Unlocks...)
	}
	return out
}

// grantExperience applies the active bonus multiplier to base, logs the final
// amount as an experience-earn entry, adds it to currentExp and resolves any
// resulting level-ups. Each level gained grants its static currency reward
// under a level-N correlation so a later reversal can take back exactly that
// level's reward. Returns the logged amount and the levels gained in order.
func (s *State) grantExperience(base int, reason string, corr *CorrelationKey, now time.Time) (awarded int, levelsGained []int) {
	if base <= 0 {
		return 0, nil
	}
	awarded = int(math.Round(float64(base) * ExpMultiplier(s.Level, s.CheckInStreak)))
	s.recordExperience(DirectionEarn, awarded, reason, corr, now)
	s.CurrentExp += awarded

	for s.CurrentExp >= MaxExpForLevel(s.Level) {
		s.CurrentExp -= MaxExpForLevel(s.Level)
		s.Level++
		s.MaxExp = MaxExpForLevel(s.Level)
		levelsGained = append(levelsGained, s.Level)

		reward := LevelRewardFor(s.Level)
		if reward.Coins > 0 {
			key := LevelKey(s.Level)
			s.Coins[CoinUniversal] += reward.Coins
			s.recordCurrency(DirectionEarn, CoinUniversal, reward.Coins, "level reward", &key, now)
		}
	}
	return awarded, levelsGained
}

// revokeExperience subtracts an already-granted amount from currentExp and
// resolves any resulting level-downs, revoking each lost level's currency
// reward through the ledger. The amount must come from revoked earn entries
// (what was actually granted), never from recomputing bonuses: multiplier
// inputs may have changed since the grant. No spend entry is written; the
// caller already revoked the original earns.
func (s *State) revokeExperience(amount int, revokeReason string, now time.Time) (levelsLost []int) {
	if amount <= 0 {
		return nil
	}
	s.CurrentExp -= amount

	for s.CurrentExp < 0 && s.Level > 1 {
		lost := s.Level
		for _, e := range s.revokeByCorrelation(KindCurrency, LevelKey(lost), revokeReason, now) {
			s.subtractCoins(e.Coin, int(e.Amount))
		}
		s.Level--
		s.CurrentExp += MaxExpForLevel(s.Level)
		levelsLost = append(levelsLost, lost)
	}
	if s.CurrentExp < 0 {
		// Level 1 floor: experience never goes negative.
		s.CurrentExp = 0
	}
	s.MaxExp = MaxExpForLevel(s.Level)
	return levelsLost
}

func (s *State) subtractCoins(coin CoinType, amount int) {
	v := s.Coins[coin] - amount
	if v < 0 {
		v = 0
	}
	s.Coins[coin] = v
}
