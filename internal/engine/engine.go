package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lifequest/internal/storage"
)

// DefaultUserKey is the profile used when none is configured.
const DefaultUserKey = "main"

// GameEngine owns the whole game state for one user: ledger, decaying
// attribute store, progression and achievements are all views over the same
// State document. Every compound operation runs under one mutex and flushes
// the serialized document through the storage adapter before returning, so
// observers never see a half-applied reward.
type GameEngine struct {
	mu      sync.Mutex
	state   *State
	store   storage.Store
	userKey string
	log     zerolog.Logger

	// now is injectable for decay/check-in tests.
	now func() time.Time
}

// New loads (or creates) the user's state document and returns an engine
// bound to it.
func New(ctx context.Context, store storage.Store, userKey string, log zerolog.Logger) (*GameEngine, error) {
	if userKey == "" {
		userKey = DefaultUserKey
	}
	e := &GameEngine{
		store:   store,
		userKey: userKey,
		log:     log,
		now:     time.Now,
	}

	doc, err := store.Load(ctx, userKey)
	if err != nil {
		return nil, err
	}
	now := e.now()
	if doc == nil {
		e.state = NewState(now)
	} else {
		var s State
		if err := json.Unmarshal(doc, &s); err != nil {
			return nil, fmt.Errorf("decode state: %w", err)
		}
		e.state = &s
	}
	e.state.normalize(now)

	if err := e.flush(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *GameEngine) flush(ctx context.Context) error {
	e.state.UpdatedAt = e.now()
	doc, err := json.Marshal(e.state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := e.store.Save(ctx, e.userKey, doc); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the current state for display. Callers must
// not feed it back into the engine.
func (e *GameEngine) Snapshot() (*State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, err := json.Marshal(e.state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	var s State
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &s, nil
}

// AddQuest validates a descriptor (with field-level defaulting, see
// QuestDescriptor) and appends the quest.
func (e *GameEngine) AddQuest(ctx context.Context, d QuestDescriptor) (*Quest, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	d.Title = title

	e.mu.Lock()
	defer e.mu.Unlock()

	if d.ParentID != "" && e.state.quest(d.ParentID) == nil {
		return nil, fmt.Errorf("parent quest %s not found", d.ParentID)
	}

	q := questFromDescriptor(d, e.now())
	e.state.Quests = append(e.state.Quests, q)
	if q.ParentID != "" {
		e.state.refreshParentProgress(q.ParentID)
	}
	if err := e.flush(ctx); err != nil {
		return nil, err
	}
	e.log.Info().Str("quest", q.ID).Str("title", q.Title).Msg("quest added")
	return &q, nil
}

// DeleteQuest removes a quest and detaches its children. Returns false when
// the id is unknown.
func (e *GameEngine) DeleteQuest(ctx context.Context, id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	found := false
	kept := e.state.Quests[:0]
	for _, q := range e.state.Quests {
		if q.ID == id {
			found = true
			continue
		}
		if q.ParentID == id {
			q.ParentID = ""
		}
		kept = append(kept, q)
	}
	e.state.Quests = kept
	if !found {
		return false, nil
	}
	return true, e.flush(ctx)
}

// UpdateQuestProgress sets a leaf quest's progress percentage. Progress of a
// quest with children is derived and cannot be set directly.
func (e *GameEngine) UpdateQuestProgress(ctx context.Context, id string, pct int) (bool, error) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	q := e.state.quest(id)
	if q == nil || q.Status != QuestActive {
		return false, nil
	}
	for i := range e.state.Quests {
		if e.state.Quests[i].ParentID == id {
			return false, nil
		}
	}
	q.Progress = pct
	return true, e.flush(ctx)
}

// CompleteQuest applies the compound completion. Completing a quest that is
// not active returns (nil, nil): wrong-status transitions are silent no-ops.
func (e *GameEngine) CompleteQuest(ctx context.Context, id string) (*CompleteResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := e.state.completeQuest(id, e.now())
	if res == nil {
		return nil, nil
	}
	if err := e.flush(ctx); err != nil {
		return nil, err
	}
	e.log.Info().
		Str("quest", id).
		Int("exp", res.ExpAwarded).
		Ints("levels", res.LevelsGained).
		Strs("achievements", res.NewAchievements).
		Msg("quest completed")
	return res, nil
}

// UncompleteQuest exactly unwinds a prior completion, including achievement
// revocation cascades. Uncompleting a quest that is not completed returns
// (nil, nil).
func (e *GameEngine) UncompleteQuest(ctx context.Context, id string) (*UncompleteResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := e.state.uncompleteQuest(id, e.now())
	if res == nil {
		return nil, nil
	}
	if err := e.flush(ctx); err != nil {
		return nil, err
	}
	e.log.Info().
		Str("quest", id).
		Int("expRevoked", res.ExpRevoked).
		Ints("levelsLost", res.LevelsLost).
		Strs("revokedAchievements", res.RevokedAchievements).
		Msg("quest uncompleted")
	return res, nil
}

// UnlockAchievement unlocks directly, bypassing requirement evaluation (the
// prerequisite gate still applies). Returns false if already unlocked or
// gated.
func (e *GameEngine) UnlockAchievement(ctx context.Context, id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	def := catalogEntry(id)
	if def == nil || e.state.isUnlocked(id) || !e.state.prerequisitesMet(def) {
		return false, nil
	}
	e.state.unlockAchievement(def, e.now())
	return true, e.flush(ctx)
}

// CheckAchievements evaluates unlocks against current state.
func (e *GameEngine) CheckAchievements(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	unlocked := e.state.evaluateUnlocks(e.now())
	if len(unlocked) == 0 {
		return nil, nil
	}
	return unlocked, e.flush(ctx)
}

// RecheckAchievements runs revocation rechecks to a fixed point.
func (e *GameEngine) RecheckAchievements(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	revoked := e.state.recheckToFixedPoint(e.now())
	if len(revoked) == 0 {
		return nil, nil
	}
	return revoked, e.flush(ctx)
}

// DailyCheckIn grants the once-per-day check-in reward; (nil, nil) when
// already checked in today.
func (e *GameEngine) DailyCheckIn(ctx context.Context) (*CheckInResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := e.state.dailyCheckIn(e.now())
	if res == nil {
		return nil, nil
	}
	if err := e.flush(ctx); err != nil {
		return nil, err
	}
	e.log.Info().Str("date", res.Date).Int("streak", res.Streak).Msg("daily check-in")
	return res, nil
}

// CheckDailyLogin grants the once-per-day login coin; false when already
// granted today.
func (e *GameEngine) CheckDailyLogin(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.checkDailyLogin(e.now()) {
		return false, nil
	}
	return true, e.flush(ctx)
}

// AttributeHealth scores recent earning quality for one attribute over the
// trailing 30 days (0..100).
func (e *GameEngine) AttributeHealth(attr Attribute) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.attributeHealth(attr, 30, e.now())
}

// DecayingAttributes lists all gain records still holding value.
func (e *GameEngine) DecayingAttributes() []AttributeGainRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.decayingRecords()
}

// ApplyDecay settles attribute decay up to now and prunes spent records.
func (e *GameEngine) ApplyDecay(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.applyDecay(e.now())
	return e.flush(ctx)
}

// UpdateDecayConfig replaces one attribute's decay policy. Existing records
// keep the rate they were created with; new grants pick up the change.
func (e *GameEngine) UpdateDecayConfig(ctx context.Context, cfg DecayConfig) error {
	if !cfg.Attribute.IsValid() {
		return fmt.Errorf("invalid attribute: %s", cfg.Attribute)
	}
	if cfg.HalfLifeDays > 0 && cfg.DecayRate == 0 {
		cfg.DecayRate = rateForHalfLife(cfg.HalfLifeDays)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.DecayConfigs[cfg.Attribute] = cfg
	return e.flush(ctx)
}

// PurchaseReward spends currency and points, all-or-nothing.
func (e *GameEngine) PurchaseReward(ctx context.Context, rewardID string, coin CoinType, amount, pointsAmount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.state.purchaseReward(rewardID, coin, amount, pointsAmount, e.now()); err != nil {
		return err
	}
	if err := e.flush(ctx); err != nil {
		return err
	}
	e.log.Info().Str("reward", rewardID).Str("coin", string(coin)).Int("amount", amount).Msg("purchase")
	return nil
}

// AddHabit appends a recurring habit.
func (e *GameEngine) AddHabit(ctx context.Context, title string, attr Attribute, interval HabitInterval) (*Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	h := *e.state.addHabit(title, attr, interval, e.now())
	if err := e.flush(ctx); err != nil {
		return nil, err
	}
	return &h, nil
}

// CompleteHabit grants the habit reward; (nil, nil) when the habit is unknown
// or already completed this period.
func (e *GameEngine) CompleteHabit(ctx context.Context, id string) (*HabitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := e.state.completeHabit(id, e.now())
	if res == nil {
		return nil, nil
	}
	if err := e.flush(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// AchievementStatus pairs a catalog entry with its earned state for display.
type AchievementStatus struct {
	AchievementDef
	Earned bool
}

// Achievements returns the catalog with earned flags. Hidden achievements are
// included only once earned.
func (e *GameEngine) Achievements() []AchievementStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []AchievementStatus
	for i := range achievementCatalog {
		def := achievementCatalog[i]
		earned := e.state.isUnlocked(def.ID)
		if def.Category == CategoryHidden && !earned {
			continue
		}
		out = append(out, AchievementStatus{AchievementDef: def, Earned: earned})
	}
	return out
}
