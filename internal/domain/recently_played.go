package domain

import "time"

const (
	SourceManual        = "manual"
	SourceFaceDetection = "face-detection"
	SourceTest          = "test"
)

// RecentlyPlayedLimit is how many plays are kept per user.
const RecentlyPlayedLimit = 20

type RecentlyPlayed struct {
	UserID   string    `json:"userId"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	Language string    `json:"language"`
	Emotion  string    `json:"emotion,omitempty"`
	Source   string    `json:"source"`
	PlayedAt time.Time `json:"playedAt"`
}

// ValidSource reports whether s is an accepted play source.
func ValidSource(s string) bool {
	switch s {
	case SourceManual, SourceFaceDetection, SourceTest:
		return true
	}
	return false
}
