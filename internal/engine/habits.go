package engine

import (
	"time"

	"github.com/google/uuid"
)

type HabitInterval string

const (
	HabitIntervalDaily  HabitInterval = "daily"
	HabitIntervalWeekly HabitInterval = "weekly"
)

func (h HabitInterval) IsValid() bool {
	return h == HabitIntervalDaily || h == HabitIntervalWeekly
}

// habitBaseExp is the base reward per habit completion.
const habitBaseExp = 25

// habitAttributePoints is the attribute grant per habit completion.
const habitAttributePoints = 5

// Habit is recurring work: completable once per interval period, with a
// streak and diminishing returns on grinding.
type Habit struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Attribute     Attribute     `json:"attribute"`
	Interval      HabitInterval `json:"interval"`
	Streak        int           `json:"streak"`
	LastCompleted string        `json:"lastCompleted,omitempty"` // YYYY-MM-DD
	Completions   []string      `json:"completions,omitempty"`   // completion dates, oldest first
	CreatedAt     time.Time     `json:"createdAt"`
}

// HabitResult summarizes one habit completion.
type HabitResult struct {
	HabitID         string
	ExpAwarded      int
	Streak          int
	Diminished      bool
	LevelsGained    []int
	NewAchievements []string
}

func (s *State) addHabit(title string, attr Attribute, interval HabitInterval, now time.Time) *Habit {
	if !attr.IsValid() {
		attr = DefaultAttribute
	}
	if !interval.IsValid() {
		interval = HabitIntervalDaily
	}
	s.Habits = append(s.Habits, Habit{
		ID:        uuid.NewString(),
		Title:     title,
		Attribute: attr,
		Interval:  interval,
		CreatedAt: now,
	})
	return &s.Habits[len(s.Habits)-1]
}

// completeHabit grants the habit reward at most once per period. More than 5
// completions inside a trailing week halve the reward; grinding a daily habit
// should not out-earn real quests.
func (s *State) completeHabit(id string, now time.Time) *HabitResult {
	h := s.habit(id)
	if h == nil {
		return nil
	}

	today := now.Format(dateLayout)
	if h.LastCompleted == today {
		return nil
	}
	if h.Interval == HabitIntervalWeekly && h.LastCompleted != "" {
		last, err := time.ParseInLocation(dateLayout, h.LastCompleted, time.Local)
		if err == nil && now.Sub(last) < 7*24*time.Hour {
			return nil
		}
	}

	recent := 0
	weekAgo := now.AddDate(0, 0, -7)
	for _, d := range h.Completions {
		if t, err := time.ParseInLocation(dateLayout, d, time.Local); err == nil && !t.Before(weekAgo) {
			recent++
		}
	}

	exp := habitBaseExp
	diminished := recent >= 5
	if diminished {
		exp /= 2
	}
	if exp < 1 {
		exp = 1
	}

	if h.LastCompleted == previousPeriodDate(h.Interval, now) {
		h.Streak++
	} else {
		h.Streak = 1
	}
	h.LastCompleted = today
	h.Completions = append(h.Completions, today)

	key := HabitKey(h.ID, today)
	res := &HabitResult{HabitID: h.ID, Streak: h.Streak, Diminished: diminished}
	res.ExpAwarded, res.LevelsGained = s.grantExperience(exp, "habit: "+h.Title, &key, now)
	s.grantAttribute(h.Attribute, habitAttributePoints, "habit: "+h.Title, &key, nil, now)
	res.NewAchievements = s.evaluateUnlocks(now)
	return res
}

// previousPeriodDate is the completion date that keeps a streak alive.
func previousPeriodDate(interval HabitInterval, now time.Time) string {
	if interval == HabitIntervalWeekly {
		return now.AddDate(0, 0, -7).Format(dateLayout)
	}
	return now.AddDate(0, 0, -1).Format(dateLayout)
}
