package engine

import (
	"fmt"
	"time"
)

// InsufficientFundsError rejects a purchase before any deduction happens.
type InsufficientFundsError struct {
	Coin   CoinType
	Need   int
	Have   int
	Points bool // true when the shortfall is achievement points
}

func (e InsufficientFundsError) Error() string {
	if e.Points {
		return fmt.Sprintf("not enough achievement points (need %d, have %d)", e.Need, e.Have)
	}
	return fmt.Sprintf("not enough %s coins (need %d, have %d)", e.Coin, e.Need, e.Have)
}

// purchaseReward spends currency and optionally achievement points on a shop
// item. The deduction is all-or-nothing: both balances are validated before
// either is touched. Spend entries are terminal and never auto-revoked.
func (s *State) purchaseReward(rewardID string, coin CoinType, amount, pointsAmount int, now time.Time) error {
	if amount < 0 || pointsAmount < 0 {
		return fmt.Errorf("negative purchase amount")
	}
	if s.Coins[coin] < amount {
		return InsufficientFundsError{Coin: coin, Need: amount, Have: s.Coins[coin]}
	}
	if s.AchievementPoints < pointsAmount {
		return InsufficientFundsError{Points: true, Need: pointsAmount, Have: s.AchievementPoints}
	}

	if amount > 0 {
		s.Coins[coin] -= amount
		s.recordCurrency(DirectionSpend, coin, amount, "purchase: "+rewardID, nil, now)
	}
	s.AchievementPoints -= pointsAmount
	return nil
}
