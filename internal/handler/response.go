package handler

import "github.com/actuallystonmai/moodtune-service/internal/domain"

type RecommendRequest struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

type RecommendationResponse struct {
	*domain.RecommendationResult
	ResponseTime float64 `json:"response_time"`
}

type ResetResponse struct {
	Message string `json:"message"`
	Reset   bool   `json:"reset"`
}

type RecentlyPlayedRequest struct {
	UserID string               `json:"userId"`
	Song   *RecentlyPlayedEntry `json:"song"`
}

type RecentlyPlayedEntry struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Language string `json:"language"`
	Emotion  string `json:"emotion"`
	Source   string `json:"source"`
}

type RecentlyPlayedResponse struct {
	Success bool                    `json:"success"`
	Songs   []domain.RecentlyPlayed `json:"songs,omitempty"`
	Message string                  `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
