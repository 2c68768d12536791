package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
	"github.com/actuallystonmai/moodtune-service/internal/model"
	"github.com/actuallystonmai/moodtune-service/internal/ranking"
	"github.com/actuallystonmai/moodtune-service/internal/service"
	"github.com/actuallystonmai/moodtune-service/internal/session"
)

type stubCatalog struct {
	records []domain.CatalogRecord
	err     error
}

func (s *stubCatalog) ListSongs(ctx context.Context) ([]domain.CatalogRecord, error) {
	return s.records, s.err
}

func (s *stubCatalog) CountSongs(ctx context.Context) (int, error) {
	return len(s.records), s.err
}

func (s *stubCatalog) SampleSongs(ctx context.Context, n int) ([]domain.CatalogRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records[:min(n, len(s.records))], nil
}

type stubPlays struct {
	items []domain.RecentlyPlayed
}

func (s *stubPlays) ListRecentlyPlayed(ctx context.Context, userID string, limit int) ([]domain.RecentlyPlayed, error) {
	var out []domain.RecentlyPlayed
	for _, it := range s.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubPlays) AddRecentlyPlayed(ctx context.Context, item domain.RecentlyPlayed, keep int) error {
	s.items = append(s.items, item)
	return nil
}

func records(n int) []domain.CatalogRecord {
	out := make([]domain.CatalogRecord, n)
	for i := range out {
		title := fmt.Sprintf("Song %d", i+1)
		v := float64(i%10) / 10
		out[i] = domain.CatalogRecord{
			ID:    fmt.Sprintf("%d", i+1),
			Title: &title,
			Features: map[string]any{
				"danceability": v,
				"energy":       v,
				"valence":      1 - v,
				"acousticness": 0.3,
				"tempo":        100 + float64(i),
			},
		}
	}
	return out
}

func newTestHandler(cat *stubCatalog) (*Handler, *stubPlays) {
	sessions := session.NewMemoryStore(session.DefaultHistorySize)
	classifier := model.NewClient()
	plays := &stubPlays{}
	svc := service.NewService(service.Deps{
		Catalog:    cat,
		Plays:      plays,
		Classifier: classifier,
		Ranker:     ranking.NewRanker(classifier, sessions),
		Sessions:   sessions,
	})
	return NewHandler(svc), plays
}

func testRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/recommendations", h.Recommend)
	r.Post("/api/reset-history", h.ResetHistory)
	r.Get("/api/health", h.Health)
	r.Get("/api/recently-played/{userID}", h.ListRecentlyPlayed)
	r.Post("/api/recently-played", h.AddRecentlyPlayed)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRecommend(t *testing.T) {
	h, _ := newTestHandler(&stubCatalog{records: records(30)})
	r := testRouter(h)

	rec := do(t, r, http.MethodPost, "/api/recommendations", `{"emotion":"fear","confidence":0.6}`,
		map[string]string{SessionHeader: "abc"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		ID           string               `json:"recommendation_id"`
		Emotion      string               `json:"emotion"`
		FaceEmotion  string               `json:"face_emotion"`
		Songs        []domain.SongSummary `json:"songs"`
		Considered   int                  `json:"total_songs_considered"`
		ResponseTime *float64             `json:"response_time"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Emotion != "sad" {
		t.Errorf("expected sad, got %s", body.Emotion)
	}
	if body.FaceEmotion != "fear" {
		t.Errorf("expected face emotion fear, got %s", body.FaceEmotion)
	}
	if len(body.Songs) != 5 {
		t.Errorf("expected 5 songs, got %d", len(body.Songs))
	}
	if body.Considered != 30 {
		t.Errorf("expected 30 considered, got %d", body.Considered)
	}
	if body.ID == "" {
		t.Error("expected recommendation id")
	}
	if body.ResponseTime == nil {
		t.Error("expected response_time field")
	}
}

func TestRecommendEmptyBodyIsNeutral(t *testing.T) {
	h, _ := newTestHandler(&stubCatalog{records: records(10)})

	rec := do(t, testRouter(h), http.MethodPost, "/api/recommendations", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Emotion string `json:"emotion"`
	}
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Emotion != "neutral" {
		t.Errorf("expected neutral, got %s", body.Emotion)
	}
}

func TestRecommendBadRequest(t *testing.T) {
	h, _ := newTestHandler(&stubCatalog{records: records(10)})
	r := testRouter(h)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", `{"emotion":`, "invalid_body"},
		{"confidence too high", `{"emotion":"happy","confidence":1.5}`, "invalid_parameter"},
		{"negative confidence", `{"emotion":"happy","confidence":-0.1}`, "invalid_parameter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/api/recommendations", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var resp ErrorResponse
			json.NewDecoder(rec.Body).Decode(&resp)
			if resp.Error != tt.code {
				t.Errorf("expected %s, got %s", tt.code, resp.Error)
			}
		})
	}
}

func TestRecommendCatalogUnavailable(t *testing.T) {
	h, _ := newTestHandler(&stubCatalog{err: errors.New("connection refused")})

	rec := do(t, testRouter(h), http.MethodPost, "/api/recommendations", `{"emotion":"happy"}`, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var resp ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Error != "catalog_unavailable" {
		t.Errorf("expected catalog_unavailable, got %s", resp.Error)
	}
}

func TestResetHistory(t *testing.T) {
	h, _ := newTestHandler(&stubCatalog{records: records(30)})
	r := testRouter(h)
	headers := map[string]string{SessionHeader: "listener-1"}

	var resp ResetResponse
	rec := do(t, r, http.MethodPost, "/api/reset-history", "", headers)
	json.NewDecoder(rec.Body).Decode(&resp)
	if rec.Code != http.StatusOK || resp.Reset {
		t.Fatalf("expected no history for a new session, got %d %+v", rec.Code, resp)
	}

	do(t, r, http.MethodPost, "/api/recommendations", `{"emotion":"happy"}`, headers)

	rec = do(t, r, http.MethodPost, "/api/reset-history", "", headers)
	json.NewDecoder(rec.Body).Decode(&resp)
	if !resp.Reset {
		t.Errorf("expected reset after a recommendation, got %+v", resp)
	}
}

func TestSessionKeyFallsBackToClientAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.0.2.7:51234"
	if got := sessionKey(req); got != "192.0.2.7" {
		t.Errorf("expected client ip, got %s", got)
	}

	req.Header.Set(SessionHeader, " tab-9 ")
	if got := sessionKey(req); got != "tab-9" {
		t.Errorf("expected header session, got %s", got)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(&stubCatalog{records: records(8)})

	rec := do(t, testRouter(h), http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var report domain.HealthReport
	json.NewDecoder(rec.Body).Decode(&report)
	if report.Status != "healthy" || report.TotalSongs != 8 {
		t.Errorf("unexpected report %+v", report)
	}
	if len(report.SampleSongs) != 5 {
		t.Errorf("expected 5 sample songs, got %d", len(report.SampleSongs))
	}
}

func TestHealthUnhealthy(t *testing.T) {
	h, _ := newTestHandler(&stubCatalog{err: errors.New("db down")})

	rec := do(t, testRouter(h), http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var report domain.HealthReport
	json.NewDecoder(rec.Body).Decode(&report)
	if report.Status != "unhealthy" || report.Error == "" {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestRecentlyPlayed(t *testing.T) {
	h, plays := newTestHandler(&stubCatalog{})
	r := testRouter(h)

	rec := do(t, r, http.MethodPost, "/api/recently-played",
		`{"userId":"u1","song":{"filename":"a.mp3","title":"A","emotion":"happy","source":"face-detection"}}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(plays.items) != 1 || plays.items[0].Artist != "Unknown Artist" {
		t.Fatalf("unexpected saved items %+v", plays.items)
	}

	rec = do(t, r, http.MethodGet, "/api/recently-played/u1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp RecentlyPlayedResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if !resp.Success || len(resp.Songs) != 1 || resp.Songs[0].Filename != "a.mp3" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestAddRecentlyPlayedValidation(t *testing.T) {
	h, _ := newTestHandler(&stubCatalog{})
	r := testRouter(h)

	tests := []struct {
		name string
		body string
	}{
		{"missing song", `{"userId":"u1"}`},
		{"missing user", `{"song":{"filename":"a.mp3","title":"A"}}`},
		{"missing title", `{"userId":"u1","song":{"filename":"a.mp3"}}`},
		{"unknown source", `{"userId":"u1","song":{"filename":"a.mp3","title":"A","source":"radio"}}`},
		{"not json", `userId=u1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/api/recently-played", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}
