package domain

// Mood is the target category used for recommendation.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodNeutral Mood = "neutral"
)

// Moods lists every target mood.
var Moods = []Mood{MoodHappy, MoodSad, MoodNeutral}

func (m Mood) String() string {
	return string(m)
}

// Valid reports whether m is one of the closed set of moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodNeutral:
		return true
	}
	return false
}
