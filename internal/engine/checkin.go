package engine

import "time"

const dateLayout = "2006-01-02"

const (
	checkInBaseExp   = 15
	checkInBaseCoins = 20
	// checkInStreakCoinBonus adds coins per streak day, capped.
	checkInStreakCoinBonus = 5
	checkInStreakCoinCap   = 10
	dailyLoginCoins        = 10
)

// CheckInResult summarizes one daily check-in.
type CheckInResult struct {
	Date            string
	Streak          int
	ExpAwarded      int
	CoinsAwarded    int
	LevelsGained    []int
	NewAchievements []string
}

// dailyCheckIn grants the once-per-calendar-day check-in reward and advances
// the streak. Days are local-time YYYY-MM-DD strings; a second call on the
// same day is a no-op. Crossing a day boundary is also the natural moment to
// settle attribute decay, so that runs here as a side effect.
func (s *State) dailyCheckIn(now time.Time) *CheckInResult {
	today := now.Format(dateLayout)
	if s.LastCheckIn == today {
		return nil
	}

	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	if s.LastCheckIn == yesterday {
		s.CheckInStreak++
	} else {
		s.CheckInStreak = 1
	}
	s.LastCheckIn = today
	s.CheckInHistory = append(s.CheckInHistory, today)

	s.applyDecay(now)

	key := CheckInKey(today)
	res := &CheckInResult{Date: today, Streak: s.CheckInStreak}

	res.ExpAwarded, res.LevelsGained = s.grantExperience(checkInBaseExp, "daily check-in", &key, now)

	streakBonus := s.CheckInStreak
	if streakBonus > checkInStreakCoinCap {
		streakBonus = checkInStreakCoinCap
	}
	res.CoinsAwarded = checkInBaseCoins + streakBonus*checkInStreakCoinBonus
	s.Coins[CoinUniversal] += res.CoinsAwarded
	s.recordCurrency(DirectionEarn, CoinUniversal, res.CoinsAwarded, "daily check-in", &key, now)

	res.NewAchievements = s.evaluateUnlocks(now)
	return res
}

// checkDailyLogin grants the small once-per-day login coin. Separate from the
// check-in: logging in is passive, checking in is deliberate.
func (s *State) checkDailyLogin(now time.Time) bool {
	today := now.Format(dateLayout)
	if s.LastLogin == today {
		return false
	}
	s.LastLogin = today

	key := LoginKey(today)
	s.Coins[CoinUniversal] += dailyLoginCoins
	s.recordCurrency(DirectionEarn, CoinUniversal, dailyLoginCoins, "daily login", &key, now)
	return true
}
