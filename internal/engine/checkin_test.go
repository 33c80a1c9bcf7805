package engine

import (
	"context"
	"testing"
	"time"
)

func TestDailyCheckInStreakAndRewards(t *testing.T) {
	swapCatalog(t, nil)
	eng, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	day := fixedTime(2030, 5, 1, 9)
	eng.now = func() time.Time { return day }

	res, err := eng.DailyCheckIn(ctx)
	if err != nil {
		t.Fatalf("DailyCheckIn: %v", err)
	}
	if res == nil || res.Streak != 1 {
		t.Fatalf("result=%+v, want streak 1", res)
	}
	// Base 15 boosted by the day-1 streak bonus: round(15 * 1.05) = 16.
	if res.ExpAwarded != 16 {
		t.Fatalf("exp=%d, want 16", res.ExpAwarded)
	}
	if res.CoinsAwarded != 25 { // 20 base + 5 for streak day 1
		t.Fatalf("coins=%d, want 25", res.CoinsAwarded)
	}

	// Same day again: no-op.
	res, err = eng.DailyCheckIn(ctx)
	if err != nil {
		t.Fatalf("DailyCheckIn same day: %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil for same-day check-in, got %+v", res)
	}

	// Next day: streak advances and the coin bonus grows.
	day = day.AddDate(0, 0, 1)
	res, err = eng.DailyCheckIn(ctx)
	if err != nil {
		t.Fatalf("DailyCheckIn day 2: %v", err)
	}
	if res.Streak != 2 || res.CoinsAwarded != 30 {
		t.Fatalf("day 2 streak=%d coins=%d, want 2/30", res.Streak, res.CoinsAwarded)
	}

	// A missed day resets the streak to 1.
	day = day.AddDate(0, 0, 2)
	res, err = eng.DailyCheckIn(ctx)
	if err != nil {
		t.Fatalf("DailyCheckIn after gap: %v", err)
	}
	if res.Streak != 1 {
		t.Fatalf("streak after gap=%d, want 1", res.Streak)
	}
}

func TestCheckInCoinBonusCap(t *testing.T) {
	swapCatalog(t, nil)
	eng, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	day := fixedTime(2030, 5, 1, 9)
	eng.now = func() time.Time { return day }

	var last *CheckInResult
	for i := 0; i < 14; i++ {
		res, err := eng.DailyCheckIn(ctx)
		if err != nil {
			t.Fatalf("DailyCheckIn #%d: %v", i+1, err)
		}
		last = res
		day = day.AddDate(0, 0, 1)
	}
	if last.Streak != 14 {
		t.Fatalf("streak=%d, want 14", last.Streak)
	}
	if last.CoinsAwarded != 70 { // 20 + capped 10*5
		t.Fatalf("coins=%d, want capped 70", last.CoinsAwarded)
	}
}

func TestCheckDailyLoginOncePerDay(t *testing.T) {
	swapCatalog(t, nil)
	eng, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	day := fixedTime(2030, 5, 1, 9)
	eng.now = func() time.Time { return day }

	granted, err := eng.CheckDailyLogin(ctx)
	if err != nil {
		t.Fatalf("CheckDailyLogin: %v", err)
	}
	if !granted {
		t.Fatalf("expected first login grant")
	}
	granted, err = eng.CheckDailyLogin(ctx)
	if err != nil {
		t.Fatalf("CheckDailyLogin again: %v", err)
	}
	if granted {
		t.Fatalf("expected same-day login to be a no-op")
	}

	snap, _ := eng.Snapshot()
	if snap.Coins[CoinUniversal] != 10 {
		t.Fatalf("coins=%d, want 10", snap.Coins[CoinUniversal])
	}
}
