package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lifequest/internal/storage"
)

func newTestEngine(t *testing.T) (*GameEngine, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	eng, err := New(ctx, store, "test", zerolog.Nop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	cleanup := func() {
		_ = store.Close()
	}
	return eng, cleanup
}

// swapCatalog installs a bespoke achievement catalog for the duration of a
// test so reward math stays isolated from the default entries.
func swapCatalog(t *testing.T, defs []AchievementDef) {
	t.Helper()
	orig := achievementCatalog
	achievementCatalog = defs
	t.Cleanup(func() { achievementCatalog = orig })
}

func TestCompleteAndUncompleteQuestRoundTrip(t *testing.T) {
	swapCatalog(t, nil)
	eng, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	q, err := eng.AddQuest(ctx, QuestDescriptor{
		Title:      "Study algebra",
		Attributes: []string{"int", "vit"},
		ExpReward:  50,
		CoinReward: 100,
	})
	if err != nil {
		t.Fatalf("AddQuest: %v", err)
	}

	res, err := eng.CompleteQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	if res == nil {
		t.Fatalf("expected completion result")
	}
	if res.ExpAwarded != 50 {
		t.Fatalf("exp=%d, want 50", res.ExpAwarded)
	}
	if res.CoinsAwarded[CoinINT] != 35 || res.CoinsAwarded[CoinVIT] != 35 {
		t.Fatalf("attr coins=%v, want 35/35", res.CoinsAwarded)
	}
	if res.CoinsAwarded[CoinUniversal] != 30 {
		t.Fatalf("universal coins=%d, want 30", res.CoinsAwarded[CoinUniversal])
	}

	snap, err := eng.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.CurrentExp != 50 {
		t.Fatalf("currentExp=%d, want 50", snap.CurrentExp)
	}
	if snap.Attributes[AttributeINT] != 70 || snap.Attributes[AttributeVIT] != 70 {
		t.Fatalf("attributes=%v, want INT=70 VIT=70", snap.Attributes)
	}
	if snap.CompletedQuests != 1 {
		t.Fatalf("completedQuests=%d, want 1", snap.CompletedQuests)
	}

	// Completing again is a silent no-op.
	again, err := eng.CompleteQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("CompleteQuest again: %v", err)
	}
	if again != nil {
		t.Fatalf("expected nil result for double complete")
	}

	undo, err := eng.UncompleteQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("UncompleteQuest: %v", err)
	}
	if undo == nil {
		t.Fatalf("expected uncomplete result")
	}
	if undo.ExpRevoked != 50 {
		t.Fatalf("expRevoked=%d, want 50", undo.ExpRevoked)
	}
	if undo.CoinsRevoked[CoinINT] != 35 || undo.CoinsRevoked[CoinVIT] != 35 || undo.CoinsRevoked[CoinUniversal] != 30 {
		t.Fatalf("coinsRevoked=%v", undo.CoinsRevoked)
	}
	if undo.AttributesRevoked[AttributeINT] != 10 || undo.AttributesRevoked[AttributeVIT] != 10 {
		t.Fatalf("attributesRevoked=%v, want 10/10", undo.AttributesRevoked)
	}

	snap, err = eng.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Level != 1 || snap.CurrentExp != 0 {
		t.Fatalf("level=%d exp=%d, want 1/0", snap.Level, snap.CurrentExp)
	}
	for _, c := range []CoinType{CoinINT, CoinVIT, CoinUniversal} {
		if snap.Coins[c] != 0 {
			t.Fatalf("coin %s=%d, want 0", c, snap.Coins[c])
		}
	}
	if snap.Attributes[AttributeINT] != 60 || snap.Attributes[AttributeVIT] != 60 {
		t.Fatalf("attributes=%v, want back to 60", snap.Attributes)
	}
	if snap.CompletedQuests != 0 {
		t.Fatalf("completedQuests=%d, want 0", snap.CompletedQuests)
	}

	// The history survives: earn entries are marked revoked, not deleted.
	revoked := 0
	for _, e := range snap.Transactions.Currency {
		if e.Revoked {
			revoked++
		}
	}
	if revoked != 3 {
		t.Fatalf("revoked currency entries=%d, want 3", revoked)
	}

	// Uncompleting an active quest is a silent no-op.
	undo2, err := eng.UncompleteQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("UncompleteQuest again: %v", err)
	}
	if undo2 != nil {
		t.Fatalf("expected nil result for double uncomplete")
	}

	// The quest is completable again, with identical rewards.
	res2, err := eng.CompleteQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("re-CompleteQuest: %v", err)
	}
	if res2 == nil || res2.ExpAwarded != 50 {
		t.Fatalf("re-complete result=%v, want exp 50", res2)
	}
}

func TestParentQuestAutoCompletion(t *testing.T) {
	swapCatalog(t, nil)
	eng, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	parent, err := eng.AddQuest(ctx, QuestDescriptor{Title: "Ship the feature"})
	if err != nil {
		t.Fatalf("add parent: %v", err)
	}
	c1, err := eng.AddQuest(ctx, QuestDescriptor{Title: "Write code", ParentID: parent.ID})
	if err != nil {
		t.Fatalf("add child1: %v", err)
	}
	c2, err := eng.AddQuest(ctx, QuestDescriptor{Title: "Write tests", ParentID: parent.ID})
	if err != nil {
		t.Fatalf("add child2: %v", err)
	}

	res1, err := eng.CompleteQuest(ctx, c1.ID)
	if err != nil {
		t.Fatalf("complete child1: %v", err)
	}
	if res1.ParentCompleted {
		t.Fatalf("parent completed after one of two children")
	}

	snap, _ := eng.Snapshot()
	for _, q := range snap.Quests {
		if q.ID == parent.ID && q.Progress != 50 {
			t.Fatalf("parent progress=%d, want 50", q.Progress)
		}
	}

	res2, err := eng.CompleteQuest(ctx, c2.ID)
	if err != nil {
		t.Fatalf("complete child2: %v", err)
	}
	if !res2.ParentCompleted {
		t.Fatalf("expected parent auto-completion")
	}

	// Undoing a child refreshes the parent's progress but never auto-undoes
	// the parent itself.
	if _, err := eng.UncompleteQuest(ctx, c1.ID); err != nil {
		t.Fatalf("uncomplete child1: %v", err)
	}
	snap, _ = eng.Snapshot()
	for _, q := range snap.Quests {
		if q.ID == parent.ID {
			if q.Status != QuestCompleted {
				t.Fatalf("parent status=%q, want completed", q.Status)
			}
			if q.Progress != 50 {
				t.Fatalf("parent progress=%d, want 50", q.Progress)
			}
		}
	}
}

func TestUpdateQuestProgressLeafOnly(t *testing.T) {
	swapCatalog(t, nil)
	eng, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	parent, _ := eng.AddQuest(ctx, QuestDescriptor{Title: "Parent"})
	child, _ := eng.AddQuest(ctx, QuestDescriptor{Title: "Child", ParentID: parent.ID})

	ok, err := eng.UpdateQuestProgress(ctx, parent.ID, 40)
	if err != nil {
		t.Fatalf("UpdateQuestProgress parent: %v", err)
	}
	if ok {
		t.Fatalf("progress of a quest with children must not be settable")
	}

	ok, err = eng.UpdateQuestProgress(ctx, child.ID, 140)
	if err != nil {
		t.Fatalf("UpdateQuestProgress child: %v", err)
	}
	if !ok {
		t.Fatalf("expected leaf progress update")
	}
	snap, _ := eng.Snapshot()
	for _, q := range snap.Quests {
		if q.ID == child.ID && q.Progress != 100 {
			t.Fatalf("child progress=%d, want clamped 100", q.Progress)
		}
	}
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	swapCatalog(t, nil)
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	eng, err := New(ctx, store, "test", zerolog.Nop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	q, err := eng.AddQuest(ctx, QuestDescriptor{Title: "Persist me", ExpReward: 40, CoinReward: 10})
	if err != nil {
		t.Fatalf("AddQuest: %v", err)
	}
	if _, err := eng.CompleteQuest(ctx, q.ID); err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	store2, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store2.Close()

	eng2, err := New(ctx, store2, "test", zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen engine: %v", err)
	}
	snap, err := eng2.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.CurrentExp != 40 || snap.CompletedQuests != 1 {
		t.Fatalf("reloaded exp=%d completed=%d, want 40/1", snap.CurrentExp, snap.CompletedQuests)
	}
	if len(snap.Quests) != 1 || snap.Quests[0].Status != QuestCompleted {
		t.Fatalf("reloaded quests=%v", snap.Quests)
	}
}

func TestHiddenAchievementsListedOnlyWhenEarned(t *testing.T) {
	eng, cleanup := newTestEngine(t)
	defer cleanup()

	hidden := 0
	for _, def := range achievementCatalog {
		if def.Category == CategoryHidden {
			hidden++
		}
	}
	if hidden == 0 {
		t.Fatalf("default catalog has no hidden achievements")
	}
	if got := len(eng.Achievements()); got != len(achievementCatalog)-hidden {
		t.Fatalf("listed=%d, want %d", got, len(achievementCatalog)-hidden)
	}
}

func TestAddQuestValidation(t *testing.T) {
	swapCatalog(t, nil)
	eng, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := eng.AddQuest(ctx, QuestDescriptor{Title: "   "}); err == nil {
		t.Fatalf("expected error for blank title")
	}
	if _, err := eng.AddQuest(ctx, QuestDescriptor{Title: "Orphan", ParentID: "missing"}); err == nil {
		t.Fatalf("expected error for unknown parent")
	}

	q, err := eng.AddQuest(ctx, QuestDescriptor{Title: "Defaults", Priority: "bogus"})
	if err != nil {
		t.Fatalf("AddQuest: %v", err)
	}
	if q.Priority != PriorityMedium {
		t.Fatalf("priority=%q, want medium default", q.Priority)
	}
	if len(q.Attributes) != 1 || q.Attributes[0] != DefaultAttribute {
		t.Fatalf("attributes=%v, want default %s", q.Attributes, DefaultAttribute)
	}
	if q.ExpReward != 50 || q.CoinReward != 100 {
		t.Fatalf("rewards=%d/%d, want medium defaults 50/100", q.ExpReward, q.CoinReward)
	}
	if q.EstimatedMinutes != 30 {
		t.Fatalf("minutes=%d, want 30", q.EstimatedMinutes)
	}
}

func TestDeleteQuestDetachesChildren(t *testing.T) {
	swapCatalog(t, nil)
	eng, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	parent, _ := eng.AddQuest(ctx, QuestDescriptor{Title: "Parent"})
	child, _ := eng.AddQuest(ctx, QuestDescriptor{Title: "Child", ParentID: parent.ID})

	ok, err := eng.DeleteQuest(ctx, parent.ID)
	if err != nil {
		t.Fatalf("DeleteQuest: %v", err)
	}
	if !ok {
		t.Fatalf("expected deletion")
	}

	snap, _ := eng.Snapshot()
	if len(snap.Quests) != 1 {
		t.Fatalf("quests=%d, want 1", len(snap.Quests))
	}
	if snap.Quests[0].ID != child.ID || snap.Quests[0].ParentID != "" {
		t.Fatalf("child not detached: %+v", snap.Quests[0])
	}

	ok, err = eng.DeleteQuest(ctx, "missing")
	if err != nil {
		t.Fatalf("DeleteQuest missing: %v", err)
	}
	if ok {
		t.Fatalf("expected false for unknown id")
	}
}

func fixedTime(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.Local)
}
