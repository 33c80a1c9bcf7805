package suggest

import (
	"testing"
)

func TestParseDescriptorsPlainArray(t *testing.T) {
	content := `[
		{"title": "Read a chapter", "description": "Any book", "attributes": ["int"], "priority": "Low", "estimated_minutes": 20},
		{"title": "Go for a run", "attributes": ["str", "vit"], "priority": "medium", "estimated_minutes": "45"}
	]`

	got, err := ParseDescriptors(content)
	if err != nil {
		t.Fatalf("ParseDescriptors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2", len(got))
	}
	if got[0].Title != "Read a chapter" || got[0].Priority != "low" || got[0].EstimatedMinutes != 20 {
		t.Fatalf("first descriptor=%+v", got[0])
	}
	// Numeric strings are tolerated.
	if got[1].EstimatedMinutes != 45 {
		t.Fatalf("minutes=%d, want 45", got[1].EstimatedMinutes)
	}
}

func TestParseDescriptorsWrappedObjectAndFences(t *testing.T) {
	content := "```json\n" + `{"quests": [{"title": "Stretch", "estimated_minutes": 10}]}` + "\n```"

	got, err := ParseDescriptors(content)
	if err != nil {
		t.Fatalf("ParseDescriptors: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Stretch" || got[0].EstimatedMinutes != 10 {
		t.Fatalf("descriptors=%+v", got)
	}
}

func TestParseDescriptorsDropsTitleless(t *testing.T) {
	content := `[
		{"title": "  ", "estimated_minutes": 5},
		{"title": "Keep me"},
		{"description": "no title at all"}
	]`

	got, err := ParseDescriptors(content)
	if err != nil {
		t.Fatalf("ParseDescriptors: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Keep me" {
		t.Fatalf("descriptors=%+v, want only the titled one", got)
	}
}

func TestParseDescriptorsRejectsGarbage(t *testing.T) {
	if _, err := ParseDescriptors("the model got confused"); err == nil {
		t.Fatalf("expected error for non-JSON content")
	}
}

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`30`, 30},
		{`30.7`, 30},
		{`"15"`, 15},
		{`" 25 min"`, 25},
		{`true`, 0},
		{``, 0},
	}
	for _, c := range cases {
		if got := parseMinutes([]byte(c.raw)); got != c.want {
			t.Fatalf("parseMinutes(%q)=%d, want %d", c.raw, got, c.want)
		}
	}
}
