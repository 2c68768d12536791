// Package emotion collapses face-emotion labels into song moods.
package emotion

import (
	"strings"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
)

var faceToMood = map[string]domain.Mood{
	"angry":    domain.MoodSad,
	"disgust":  domain.MoodSad,
	"fear":     domain.MoodSad,
	"surprise": domain.MoodHappy,
	"contempt": domain.MoodNeutral,
}

// MapToMood maps any raw label to exactly one mood. Unknown labels,
// including the empty string, map to neutral.
func MapToMood(raw string) domain.Mood {
	label := strings.ToLower(strings.TrimSpace(raw))

	if m := domain.Mood(label); m.Valid() {
		return m
	}
	if m, ok := faceToMood[label]; ok {
		return m
	}
	return domain.MoodNeutral
}
