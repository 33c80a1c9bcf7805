package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	"lifequest/internal/engine"
)

// rawSuggestion tolerates loosely typed model output: numbers may arrive as
// strings, fields may be missing entirely.
type rawSuggestion struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Attributes       []string        `json:"attributes"`
	Priority         string          `json:"priority"`
	EstimatedMinutes json.RawMessage `json:"estimated_minutes"`
}

// ParseDescriptors decodes a model response into quest descriptors. Malformed
// fields are defaulted rather than rejected; only elements without a usable
// title are dropped. The engine applies its own defaulting on top, so the
// worst a bad suggestion can do is become a bland quest.
func ParseDescriptors(content string) ([]engine.QuestDescriptor, error) {
	content = stripFences(content)

	var raws []rawSuggestion
	if err := json.Unmarshal([]byte(content), &raws); err != nil {
		// Some models wrap the array in an object.
		var wrapper struct {
			Quests []rawSuggestion `json:"quests"`
		}
		if err2 := json.Unmarshal([]byte(content), &wrapper); err2 != nil || len(wrapper.Quests) == 0 {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}
		raws = wrapper.Quests
	}

	var out []engine.QuestDescriptor
	for _, r := range raws {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		out = append(out, engine.QuestDescriptor{
			Title:            title,
			Description:      strings.TrimSpace(r.Description),
			Attributes:       r.Attributes,
			Priority:         strings.ToLower(strings.TrimSpace(r.Priority)),
			EstimatedMinutes: parseMinutes(r.EstimatedMinutes),
		})
	}
	return out, nil
}

// parseMinutes accepts a JSON number or a numeric string; anything else
// yields 0 and the engine's default applies.
func parseMinutes(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var m float64
		if _, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &m); err == nil {
			return int(m)
		}
	}
	return 0
}
