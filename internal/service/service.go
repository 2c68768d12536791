package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/actuallystonmai/moodtune-service/internal/catalog"
	"github.com/actuallystonmai/moodtune-service/internal/domain"
	"github.com/actuallystonmai/moodtune-service/internal/emotion"
	"github.com/actuallystonmai/moodtune-service/internal/logging"
	"github.com/actuallystonmai/moodtune-service/internal/metrics"
	"github.com/actuallystonmai/moodtune-service/internal/model"
	"github.com/actuallystonmai/moodtune-service/internal/ranking"
	"github.com/actuallystonmai/moodtune-service/internal/session"
)

const (
	healthSampleSize = 5
	strategyName     = "varied_with_randomization"
)

type CatalogStore interface {
	ListSongs(ctx context.Context) ([]domain.CatalogRecord, error)
	CountSongs(ctx context.Context) (int, error)
	SampleSongs(ctx context.Context, n int) ([]domain.CatalogRecord, error)
}

type SnapshotCache interface {
	Get(ctx context.Context) ([]domain.CatalogRecord, bool, error)
	Set(ctx context.Context, records []domain.CatalogRecord) error
}

type PlayLog interface {
	ListRecentlyPlayed(ctx context.Context, userID string, limit int) ([]domain.RecentlyPlayed, error)
	AddRecentlyPlayed(ctx context.Context, item domain.RecentlyPlayed, keep int) error
}

// Deps wires the service. Cache is optional.
type Deps struct {
	Catalog    CatalogStore
	Cache      SnapshotCache
	Plays      PlayLog
	Classifier model.Classifier
	Ranker     *ranking.Ranker
	Sessions   session.Store

	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

type Service struct {
	catalog    CatalogStore
	cache      SnapshotCache
	plays      PlayLog
	classifier model.Classifier
	ranker     *ranking.Ranker
	sessions   session.Store
	breaker    *gobreaker.CircuitBreaker[[]domain.CatalogRecord]
	log        zerolog.Logger
	now        func() time.Time
}

func NewService(d Deps) *Service {
	s := &Service{
		catalog:    d.Catalog,
		cache:      d.Cache,
		plays:      d.Plays,
		classifier: d.Classifier,
		ranker:     d.Ranker,
		sessions:   d.Sessions,
		log:        logging.Component("service"),
		now:        time.Now,
	}

	failures := d.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	s.breaker = gobreaker.NewCircuitBreaker[[]domain.CatalogRecord](gobreaker.Settings{
		Name:    "catalog",
		Timeout: d.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return s
}

// RecommendInput carries the upstream emotion signal. An empty Emotion
// means no face was detected.
type RecommendInput struct {
	Emotion    string
	Confidence float64
	SessionKey string
}

func (s *Service) Recommend(ctx context.Context, in RecommendInput) (*domain.RecommendationResult, error) {
	start := time.Now()

	faceEmotion, confidence := strings.TrimSpace(in.Emotion), in.Confidence
	if faceEmotion == "" {
		faceEmotion, confidence = string(domain.MoodNeutral), 0
	}
	mood := emotion.MapToMood(faceEmotion)

	records, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	ex := catalog.Extract(records)
	if len(ex.Skipped) > 0 {
		metrics.SkippedSongs.Add(float64(len(ex.Skipped)))
		s.log.Debug().Int("skipped", len(ex.Skipped)).Msg("songs with invalid features excluded")
	}

	result := &domain.RecommendationResult{
		ID:            uuid.NewString(),
		Mood:          mood,
		FaceEmotion:   faceEmotion,
		Confidence:    round(confidence, 3),
		Songs:         []domain.SongSummary{},
		SelectionType: domain.SelectionVaried,
	}

	if len(ex.Songs) == 0 {
		s.log.Warn().Int("records", len(records)).Msg("no songs with valid features")
		result.ResponseTime = time.Since(start)
		return result, nil
	}

	if len(s.classifier.Classes()) == 0 {
		return nil, domain.ErrClassifierUnavailable
	}

	ranked := s.ranker.Rank(ctx, ex.Features, ex.Songs, mood, in.SessionKey)
	if ranked.Degraded {
		metrics.RankingFallbacks.Inc()
		s.log.Warn().Err(ranked.Cause).Str("mood", mood.String()).Msg("ranking degraded, using random selection")
		result.Degraded = true
		result.SelectionType = domain.SelectionFallback
	}

	for _, p := range ranked.Picks {
		result.Songs = append(result.Songs, summarize(p))
	}
	result.TotalConsidered = ranked.Considered
	result.ResponseTime = time.Since(start)

	metrics.Recommendations.WithLabelValues(mood.String(), result.SelectionType).Inc()
	metrics.RecommendDuration.Observe(result.ResponseTime.Seconds())

	s.log.Info().
		Str("face_emotion", faceEmotion).
		Str("mood", mood.String()).
		Int("songs", len(result.Songs)).
		Int("considered", result.TotalConsidered).
		Dur("elapsed", result.ResponseTime).
		Msg("recommendation served")

	return result, nil
}

// loadCatalog reads the snapshot cache first and falls back to the store
// behind the circuit breaker. Cache errors are logged, never returned.
func (s *Service) loadCatalog(ctx context.Context) ([]domain.CatalogRecord, error) {
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			metrics.CatalogCache.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Msg("catalog cache get failed")
		case found:
			metrics.CatalogCache.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.CatalogCache.WithLabelValues("miss").Inc()
		}
	}

	records, err := s.breaker.Execute(func() ([]domain.CatalogRecord, error) {
		return s.catalog.ListSongs(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, records); cacheErr != nil {
			s.log.Warn().Err(cacheErr).Msg("catalog cache set failed")
		}
	}
	return records, nil
}

// RefreshModel fits the classifier to the current catalog, when the
// classifier supports fitting.
func (s *Service) RefreshModel(ctx context.Context) (map[string]int, error) {
	fitter, ok := s.classifier.(interface {
		Fit(features [][]float64) (map[string]int, error)
	})
	if !ok {
		return nil, nil
	}

	records, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := fitter.Fit(catalog.Extract(records).Features)
	if err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}
	return counts, nil
}

// ResetHistory clears the session history. It reports whether the
// session was known.
func (s *Service) ResetHistory(ctx context.Context, sessionKey string) (bool, error) {
	found, err := s.sessions.Reset(ctx, sessionKey)
	if err != nil {
		return false, fmt.Errorf("reset session: %w", err)
	}
	if found {
		metrics.SessionResets.WithLabelValues("reset").Inc()
	} else {
		metrics.SessionResets.WithLabelValues("not_found").Inc()
	}
	return found, nil
}

// Health reports model classes, catalog size and a random catalog sample.
func (s *Service) Health(ctx context.Context) (domain.HealthReport, error) {
	report := domain.HealthReport{
		Status:         "healthy",
		Timestamp:      s.now().UTC().Format(time.RFC3339),
		MoodClasses:    s.classifier.Classes(),
		Strategy:       strategyName,
		SampleSongs:    []string{},
		MaxRecentSongs: s.sessions.Capacity(),
	}

	total, err := s.catalog.CountSongs(ctx)
	if err != nil {
		report.Status, report.Error = "unhealthy", err.Error()
		return report, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	report.TotalSongs = total

	samples, err := s.catalog.SampleSongs(ctx, healthSampleSize)
	if err != nil {
		report.Status, report.Error = "unhealthy", err.Error()
		return report, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	for _, rec := range samples {
		song, _ := catalog.ToSong(domain.CatalogRecord{ID: rec.ID, Title: rec.Title, Artist: rec.Artist})
		report.SampleSongs = append(report.SampleSongs, song.Title+" - "+song.Artist)
	}

	if n, err := s.sessions.Count(ctx); err != nil {
		s.log.Warn().Err(err).Msg("session count unavailable")
	} else {
		report.ActiveSessions = n
	}

	return report, nil
}

func summarize(p ranking.Pick) domain.SongSummary {
	return domain.SongSummary{
		ID:           p.Song.ID,
		Title:        p.Song.Title,
		Artist:       p.Song.Artist,
		Album:        p.Song.Album,
		Score:        round(p.Score, 3),
		Danceability: round(p.Song.Danceability, 2),
		Energy:       round(p.Song.Energy, 2),
		Valence:      round(p.Song.Valence, 2),
		Tempo:        round(p.Song.Tempo, 1),
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
