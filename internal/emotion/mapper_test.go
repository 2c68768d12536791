package emotion

import (
	"testing"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
)

func TestMapToMood(t *testing.T) {
	cases := map[string]domain.Mood{
		"Happy":         domain.MoodHappy,
		"sad":           domain.MoodSad,
		"NEUTRAL":       domain.MoodNeutral,
		"ANGRY":         domain.MoodSad,
		"disgust":       domain.MoodSad,
		"Fear":          domain.MoodSad,
		"surprise":      domain.MoodHappy,
		"contempt":      domain.MoodNeutral,
		"unknown_label": domain.MoodNeutral,
		"":              domain.MoodNeutral,
		"  happy ":      domain.MoodHappy,
	}

	for raw, want := range cases {
		if got := MapToMood(raw); got != want {
			t.Errorf("MapToMood(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestMapToMoodDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		if MapToMood("Surprise") != domain.MoodHappy {
			t.Fatal("mapping changed between calls")
		}
	}
}
