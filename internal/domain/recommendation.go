package domain

import "time"

const (
	SelectionVaried   = "varied"
	SelectionFallback = "fallback"
)

type SongSummary struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Album        string  `json:"album"`
	Score        float64 `json:"score"`
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
}

type RecommendationResult struct {
	ID              string        `json:"recommendation_id"`
	Mood            Mood          `json:"emotion"`
	FaceEmotion     string        `json:"face_emotion"`
	Confidence      float64       `json:"confidence"`
	Songs           []SongSummary `json:"songs"`
	TotalConsidered int           `json:"total_songs_considered"`
	ResponseTime    time.Duration `json:"-"`
	SelectionType   string        `json:"selection_type"`
	Degraded        bool          `json:"degraded"`
}

type HealthReport struct {
	Status         string   `json:"status"`
	Timestamp      string   `json:"timestamp"`
	MoodClasses    []string `json:"song_emotions"`
	Strategy       string   `json:"recommendation_strategy"`
	TotalSongs     int      `json:"total_songs"`
	SampleSongs    []string `json:"sample_songs"`
	ActiveSessions int      `json:"active_sessions"`
	MaxRecentSongs int      `json:"max_recent_songs"`
	Error          string   `json:"error,omitempty"`
}
