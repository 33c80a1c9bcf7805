package engine

import (
	"time"

	"github.com/google/uuid"
)

// attributePointsPerQuest is the fixed attribute-point grant per declared
// attribute on quest completion.
const attributePointsPerQuest = 10

// Quest is a unit of user-declared work. Only an active quest can be
// completed and only a completed quest can be uncompleted; Failed is terminal.
type Quest struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description,omitempty"`
	Attributes       []Attribute `json:"attributes"`
	ExpReward        int         `json:"expReward"`
	CoinReward       int         `json:"coinReward"`
	Status           QuestStatus `json:"status"`
	Priority         Priority    `json:"priority"`
	EstimatedMinutes int         `json:"estimatedMinutes"`
	Progress         int         `json:"progress"`
	ParentID         string      `json:"parentId,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty"`
}

// QuestDescriptor is the loosely validated input for a new quest. Manual
// input and AI suggestions arrive through the same shape and get the same
// field-level defaulting: this boundary is additive-only, so availability
// beats strictness.
type QuestDescriptor struct {
	Title            string
	Description      string
	Attributes       []string
	ExpReward        int
	CoinReward       int
	Priority         string
	EstimatedMinutes int
	ParentID         string
}

// defaultRewards by priority, used when a descriptor carries no explicit
// reward values.
func defaultRewards(p Priority) (exp, coins int) {
	switch p {
	case PriorityLow:
		return 25, 50
	case PriorityHigh:
		return 100, 200
	default:
		return 50, 100
	}
}

func questFromDescriptor(d QuestDescriptor, now time.Time) Quest {
	priority := Priority(d.Priority)
	if !priority.IsValid() {
		priority = PriorityMedium
	}

	var attrs []Attribute
	seen := map[Attribute]bool{}
	for _, raw := range d.Attributes {
		a := ParseAttribute(raw)
		if !seen[a] {
			seen[a] = true
			attrs = append(attrs, a)
		}
	}
	if attrs == nil {
		attrs = []Attribute{DefaultAttribute}
	}

	expReward := d.ExpReward
	coinReward := d.CoinReward
	defExp, defCoins := defaultRewards(priority)
	if expReward <= 0 {
		expReward = defExp
	}
	if coinReward <= 0 {
		coinReward = defCoins
	}

	minutes := d.EstimatedMinutes
	if minutes <= 0 {
		minutes = 30
	}

	return Quest{
		ID:               uuid.NewString(),
		Title:            d.Title,
		Description:      d.Description,
		Attributes:       attrs,
		ExpReward:        expReward,
		CoinReward:       coinReward,
		Status:           QuestActive,
		Priority:         priority,
		EstimatedMinutes: minutes,
		ParentID:         d.ParentID,
		CreatedAt:        now,
	}
}

// CompleteResult summarizes one quest completion for notifications.
type CompleteResult struct {
	QuestID         string
	ExpAwarded      int
	LevelsGained    []int
	CoinsAwarded    map[CoinType]int
	AttributePoints map[Attribute]float64
	NewAchievements []string
	ParentCompleted bool
}

// UncompleteResult summarizes one quest reversal.
type UncompleteResult struct {
	QuestID             string
	ExpRevoked          int
	LevelsLost          []int
	CoinsRevoked        map[CoinType]int
	AttributesRevoked   map[Attribute]float64
	RevokedAchievements []string
}

// completeQuest applies the full compound completion. Wrong-status quests are
// a silent no-op returning nil: double submits from a stale UI must not touch
// the ledger.
func (s *State) completeQuest(id string, now time.Time) *CompleteResult {
	q := s.quest(id)
	if q == nil || q.Status != QuestActive {
		return nil
	}

	q.Status = QuestCompleted
	t := now
	q.CompletedAt = &t
	q.Progress = 100
	s.CompletedQuests++

	key := QuestKey(id)
	res := &CompleteResult{
		QuestID:         id,
		CoinsAwarded:    map[CoinType]int{},
		AttributePoints: map[Attribute]float64{},
	}

	res.ExpAwarded, res.LevelsGained = s.grantExperience(q.ExpReward, "quest: "+q.Title, &key, now)

	// Coin distribution: with declared attributes, 70% splits evenly across
	// their typed coins and the rest (30% plus any integer-division
	// remainder) goes universal. Without attributes the whole reward is
	// universal.
	if len(q.Attributes) > 0 && q.CoinReward > 0 {
		attrTotal := q.CoinReward * 70 / 100
		perAttr := attrTotal / len(q.Attributes)
		distributed := 0
		for _, a := range q.Attributes {
			coin := CoinForAttribute(a)
			if perAttr > 0 {
				s.Coins[coin] += perAttr
				s.recordCurrency(DirectionEarn, coin, perAttr, "quest: "+q.Title, &key, now)
				res.CoinsAwarded[coin] += perAttr
				distributed += perAttr
			}
		}
		universal := q.CoinReward - distributed
		if universal > 0 {
			s.Coins[CoinUniversal] += universal
			s.recordCurrency(DirectionEarn, CoinUniversal, universal, "quest: "+q.Title, &key, now)
			res.CoinsAwarded[CoinUniversal] += universal
		}
	} else if q.CoinReward > 0 {
		s.Coins[CoinUniversal] += q.CoinReward
		s.recordCurrency(DirectionEarn, CoinUniversal, q.CoinReward, "quest: "+q.Title, &key, now)
		res.CoinsAwarded[CoinUniversal] += q.CoinReward
	}

	for _, a := range q.Attributes {
		s.grantAttribute(a, attributePointsPerQuest, "quest: "+q.Title, &key, nil, now)
		res.AttributePoints[a] += attributePointsPerQuest
	}

	if q.ParentID != "" {
		if s.refreshParentProgress(q.ParentID) == 100 {
			if parent := s.quest(q.ParentID); parent != nil && parent.Status == QuestActive {
				if pres := s.completeQuest(parent.ID, now); pres != nil {
					res.ParentCompleted = true
					res.NewAchievements = append(res.NewAchievements, pres.NewAchievements...)
				}
			}
		}
	}

	res.NewAchievements = append(res.NewAchievements, s.evaluateUnlocks(now)...)
	return res
}

// uncompleteQuest exactly unwinds a prior completion: revoked ledger entries
// drive the experience, currency and attribute subtractions, and achievement
// rechecks run to a fixed point so cascaded unlocks are cascaded back out.
func (s *State) uncompleteQuest(id string, now time.Time) *UncompleteResult {
	q := s.quest(id)
	if q == nil || q.Status != QuestCompleted {
		return nil
	}

	q.Status = QuestActive
	q.CompletedAt = nil
	q.Progress = 0
	if s.CompletedQuests > 0 {
		s.CompletedQuests--
	}

	key := QuestKey(id)
	reason := "quest uncompleted"
	res := &UncompleteResult{
		QuestID:           id,
		CoinsRevoked:      map[CoinType]int{},
		AttributesRevoked: map[Attribute]float64{},
	}

	for _, e := range s.revokeByCorrelation(KindExperience, key, reason, now) {
		res.ExpRevoked += int(e.Amount)
	}
	res.LevelsLost = s.revokeExperience(res.ExpRevoked, reason, now)

	for _, e := range s.revokeByCorrelation(KindCurrency, key, reason, now) {
		s.subtractCoins(e.Coin, int(e.Amount))
		res.CoinsRevoked[e.Coin] += int(e.Amount)
	}

	for _, a := range q.Attributes {
		if taken := s.revokeAttributeByCorrelation(a, key); taken > 0 {
			res.AttributesRevoked[a] = taken
		}
	}
	s.revokeByCorrelation(KindAttribute, key, reason, now)

	if q.ParentID != "" {
		s.refreshParentProgress(q.ParentID)
	}

	res.RevokedAchievements = s.recheckToFixedPoint(now)
	return res
}

// refreshParentProgress recomputes a parent quest's progress as the completed
// percentage of its children. Returns the new progress, or -1 when the parent
// does not exist or has no children.
func (s *State) refreshParentProgress(parentID string) int {
	parent := s.quest(parentID)
	if parent == nil {
		return -1
	}
	total, done := 0, 0
	for i := range s.Quests {
		if s.Quests[i].ParentID != parentID {
			continue
		}
		total++
		if s.Quests[i].Status == QuestCompleted {
			done++
		}
	}
	if total == 0 {
		return -1
	}
	parent.Progress = done * 100 / total
	return parent.Progress
}
