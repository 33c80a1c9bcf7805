package engine

import (
	"context"
	"errors"
	"testing"
)

func TestPurchaseIsAllOrNothing(t *testing.T) {
	now := fixedTime(2030, 1, 1, 12)
	s := NewState(now)
	s.Coins[CoinUniversal] = 50
	s.AchievementPoints = 10

	// Coin shortfall: nothing moves.
	err := s.purchaseReward("sword", CoinUniversal, 60, 0, now)
	var funds InsufficientFundsError
	if !errors.As(err, &funds) {
		t.Fatalf("err=%v, want InsufficientFundsError", err)
	}
	if funds.Points || funds.Need != 60 || funds.Have != 50 {
		t.Fatalf("error detail=%+v", funds)
	}
	if s.Coins[CoinUniversal] != 50 {
		t.Fatalf("coins=%d, want untouched 50", s.Coins[CoinUniversal])
	}

	// Point shortfall: coins are validated first but still not deducted.
	err = s.purchaseReward("trophy", CoinUniversal, 30, 20, now)
	if !errors.As(err, &funds) || !funds.Points {
		t.Fatalf("err=%v, want point shortfall", err)
	}
	if s.Coins[CoinUniversal] != 50 || s.AchievementPoints != 10 {
		t.Fatalf("balances=%d/%d, want untouched 50/10", s.Coins[CoinUniversal], s.AchievementPoints)
	}

	// Both sufficient: deduct and log the spend.
	if err := s.purchaseReward("potion", CoinUniversal, 30, 5, now); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if s.Coins[CoinUniversal] != 20 || s.AchievementPoints != 5 {
		t.Fatalf("balances=%d/%d, want 20/5", s.Coins[CoinUniversal], s.AchievementPoints)
	}
	e := s.Transactions.Currency[0]
	if e.Direction != DirectionSpend || e.Amount != 30 {
		t.Fatalf("spend entry=%+v", e)
	}
}

func TestPurchaseRejectsNegativeAmounts(t *testing.T) {
	now := fixedTime(2030, 1, 1, 12)
	s := NewState(now)

	if err := s.purchaseReward("weird", CoinUniversal, -5, 0, now); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestEnginePurchaseInsufficientFunds(t *testing.T) {
	swapCatalog(t, nil)
	eng, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	err := eng.PurchaseReward(ctx, "sword", CoinUniversal, 100, 0)
	var funds InsufficientFundsError
	if !errors.As(err, &funds) {
		t.Fatalf("err=%v, want InsufficientFundsError", err)
	}
}
