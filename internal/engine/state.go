package engine

import (
	"time"
)

// startingAttributeValue is the baseline every new profile begins with.
const startingAttributeValue = 60

// State is the whole per-user game state. It is owned by a GameEngine, only
// mutated through engine operations, and serialized as a single JSON document
// through the storage adapter.
type State struct {
	Level      int `json:"level"`
	CurrentExp int `json:"currentExp"`
	MaxExp     int `json:"maxExp"`

	Coins             map[CoinType]int `json:"coins"`
	AchievementPoints int              `json:"achievementPoints"`

	Attributes       map[Attribute]float64     `json:"attributes"`
	AttributeRecords []AttributeGainRecord     `json:"attributeRecords"`
	DecayConfigs     map[Attribute]DecayConfig `json:"decayConfigs"`

	Quests          []Quest `json:"quests"`
	CompletedQuests int     `json:"completedQuests"`
	Habits          []Habit `json:"habits"`

	UnlockedAchievements []string `json:"unlockedAchievements"`

	Transactions transactions `json:"transactions"`

	LastCheckIn    string   `json:"lastCheckIn,omitempty"`
	CheckInStreak  int      `json:"checkInStreak"`
	CheckInHistory []string `json:"checkInHistory,omitempty"`
	LastLogin      string   `json:"lastLogin,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewState builds a fresh profile: level 1, empty ledgers, all attributes at
// the starting value with matching initial gain records so the aggregate stays
// reconcilable against the record set from day one.
func NewState(now time.Time) *State {
	s := &State{
		Level:        1,
		CurrentExp:   0,
		MaxExp:       MaxExpForLevel(1),
		Coins:        map[CoinType]int{},
		Attributes:   map[Attribute]float64{},
		DecayConfigs: defaultDecayConfigs(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, a := range AllAttributes {
		s.Attributes[a] = startingAttributeValue
		s.AttributeRecords = append(s.AttributeRecords, newGainRecord(a, startingAttributeValue, "initial", nil, s.DecayConfigs[a], nil, now))
	}
	return s
}

// normalize repairs documents written by older versions. It is idempotent and
// runs on every load.
func (s *State) normalize(now time.Time) {
	if s.Level < 1 {
		s.Level = 1
	}
	// Older documents stored a wrong maxExp for level 1; it is derived state,
	// so always recompute.
	s.MaxExp = MaxExpForLevel(s.Level)

	if s.Coins == nil {
		s.Coins = map[CoinType]int{}
	}
	if s.Attributes == nil {
		s.Attributes = map[Attribute]float64{}
	}
	for _, a := range AllAttributes {
		if _, ok := s.Attributes[a]; !ok {
			s.Attributes[a] = startingAttributeValue
		}
	}
	if s.DecayConfigs == nil {
		s.DecayConfigs = map[Attribute]DecayConfig{}
	}
	for a, cfg := range defaultDecayConfigs() {
		if _, ok := s.DecayConfigs[a]; !ok {
			s.DecayConfigs[a] = cfg
		}
	}

	// Legacy documents predate gain records: their attribute totals exist with
	// no contributing records. Synthesize one starter record per attribute so
	// decay and revocation math have a base to work from.
	hasRecord := map[Attribute]bool{}
	for i := range s.AttributeRecords {
		hasRecord[s.AttributeRecords[i].Attribute] = true
	}
	for _, a := range AllAttributes {
		if v := s.Attributes[a]; v > 0 && !hasRecord[a] {
			s.AttributeRecords = append(s.AttributeRecords, newGainRecord(a, v, "initial", nil, s.DecayConfigs[a], nil, now))
		}
	}

	// Legacy quests carried a single attribute instead of a list. A missing
	// list defaults to one element; an explicitly empty list stays empty.
	for i := range s.Quests {
		if s.Quests[i].Attributes == nil {
			s.Quests[i].Attributes = []Attribute{DefaultAttribute}
		}
		if s.Quests[i].Status == "" {
			s.Quests[i].Status = QuestActive
		}
	}

	if s.CheckInStreak == 0 && len(s.CheckInHistory) > 0 {
		s.CheckInStreak = streakFromHistory(s.CheckInHistory)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
}

// streakFromHistory counts the consecutive-day run ending at the most recent
// check-in date.
func streakFromHistory(history []string) int {
	if len(history) == 0 {
		return 0
	}
	seen := map[string]bool{}
	for _, d := range history {
		seen[d] = true
	}
	last, err := time.ParseInLocation(dateLayout, history[len(history)-1], time.Local)
	if err != nil {
		return 1
	}
	streak := 0
	for d := last; seen[d.Format(dateLayout)]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

func (s *State) quest(id string) *Quest {
	for i := range s.Quests {
		if s.Quests[i].ID == id {
			return &s.Quests[i]
		}
	}
	return nil
}

func (s *State) habit(id string) *Habit {
	for i := range s.Habits {
		if s.Habits[i].ID == id {
			return &s.Habits[i]
		}
	}
	return nil
}

func (s *State) isUnlocked(achievementID string) bool {
	for _, id := range s.UnlockedAchievements {
		if id == achievementID {
			return true
		}
	}
	return false
}
