// Package ranking selects a small, varied set of songs for a target mood.
//
// Songs are scored by classifier relevance, then perturbed by a recency
// penalty, random jitter and a tempo factor to form a diversity score. The
// top of the diversity order becomes a candidate pool, which is sampled by
// relevance band so every response mixes strong and weak matches.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/rs/zerolog"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
	"github.com/actuallystonmai/moodtune-service/internal/logging"
	"github.com/actuallystonmai/moodtune-service/internal/model"
	"github.com/actuallystonmai/moodtune-service/internal/session"
)

var errShapeMismatch = errors.New("shape mismatch")

// Pick is a selected song with its relevance to the target mood.
type Pick struct {
	Song  domain.Song
	Score float64
}

// Result is the outcome of one ranking call. Degraded is set when the
// pipeline failed and Picks came from a uniform random fallback.
type Result struct {
	Picks      []Pick
	Considered int
	Degraded   bool
	Cause      error
}

type scoreRow struct {
	index     int
	relevance float64
	diversity float64
}

type Option func(*Ranker)

// WithRand replaces the per-call random source factory.
func WithRand(factory func() *rand.Rand) Option {
	return func(r *Ranker) {
		r.newRand = factory
	}
}

func WithConfig(cfg Config) Option {
	return func(r *Ranker) {
		r.cfg = cfg
	}
}

type Ranker struct {
	classifier model.Classifier
	sessions   session.Store
	cfg        Config
	newRand    func() *rand.Rand
	log        zerolog.Logger
}

// NewRanker builds a ranker. sessions may be nil, which disables the
// recency penalty and history updates.
func NewRanker(classifier model.Classifier, sessions session.Store, opts ...Option) *Ranker {
	r := &Ranker{
		classifier: classifier,
		sessions:   sessions,
		cfg:        DefaultConfig(),
		newRand:    defaultRand,
		log:        logging.Component("ranking"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// defaultRand gives each call its own generator seeded from the runtime's
// auto-seeded source.
func defaultRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (r *Ranker) Config() Config {
	return r.cfg
}

// Rank selects up to cfg.Limit songs. features[i] must describe songs[i].
// It never fails: any error in scoring or sampling yields a degraded
// result built by random sampling.
func (r *Ranker) Rank(ctx context.Context, features [][]float64, songs []domain.Song, mood domain.Mood, sessionKey string) (res Result) {
	if len(songs) == 0 {
		return Result{}
	}
	rng := r.newRand()

	var relevance []float64
	defer func() {
		if p := recover(); p != nil {
			res = r.fallback(rng, songs, relevance, fmt.Errorf("ranking panic: %v", p))
		}
	}()

	relevance, err := r.relevance(features, len(songs), mood)
	if err != nil {
		return r.fallback(rng, songs, nil, err)
	}

	recent := r.recentSet(ctx, sessionKey)
	rows := r.score(rng, songs, relevance, recent)
	selected := r.stratifiedSample(rng, rows)

	picks := make([]Pick, len(selected))
	ids := make([]string, len(selected))
	for i, row := range selected {
		picks[i] = Pick{Song: songs[row.index], Score: row.relevance}
		ids[i] = songs[row.index].ID
	}

	if sessionKey != "" && r.sessions != nil {
		if err := r.sessions.Record(ctx, sessionKey, ids); err != nil {
			r.log.Warn().Err(err).Str("session", sessionKey).Msg("failed to record session history")
		}
	}

	return Result{Picks: picks, Considered: len(songs)}
}

// relevance returns the probability of the target mood per song, or the
// balance score 1 - max(p) when the classifier does not know the mood.
func (r *Ranker) relevance(features [][]float64, n int, mood domain.Mood) ([]float64, error) {
	if len(features) != n {
		return nil, fmt.Errorf("%w: %d feature rows for %d songs", errShapeMismatch, len(features), n)
	}

	probs, err := r.classifier.PredictDistribution(features)
	if err != nil {
		return nil, fmt.Errorf("predict distribution: %w", err)
	}
	if len(probs) != n {
		return nil, fmt.Errorf("%w: %d distributions for %d songs", errShapeMismatch, len(probs), n)
	}

	classes := r.classifier.Classes()
	target := slices.Index(classes, string(mood))

	scores := make([]float64, n)
	for i, row := range probs {
		if len(row) == 0 || len(row) != len(classes) {
			return nil, fmt.Errorf("%w: row %d has %d classes, want %d", errShapeMismatch, i, len(row), len(classes))
		}
		for _, p := range row {
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, fmt.Errorf("row %d: probability not finite", i)
			}
		}
		if target >= 0 {
			scores[i] = row[target]
		} else {
			scores[i] = 1 - slices.Max(row)
		}
	}
	return scores, nil
}

func (r *Ranker) recentSet(ctx context.Context, sessionKey string) map[string]struct{} {
	if sessionKey == "" || r.sessions == nil {
		return nil
	}
	history, err := r.sessions.History(ctx, sessionKey)
	if err != nil {
		r.log.Warn().Err(err).Str("session", sessionKey).Msg("session history unavailable, ranking without penalty")
		return nil
	}

	recent := make(map[string]struct{}, len(history))
	for _, id := range history {
		recent[id] = struct{}{}
	}
	return recent
}

// score computes diversity scores and returns rows sorted by them,
// highest first.
func (r *Ranker) score(rng *rand.Rand, songs []domain.Song, relevance []float64, recent map[string]struct{}) []scoreRow {
	rows := make([]scoreRow, len(songs))
	for i, song := range songs {
		penalty := 1.0
		if _, seen := recent[song.ID]; seen {
			penalty = r.cfg.RecencyPenalty
		}
		jitter := r.cfg.JitterMin + rng.Float64()*(r.cfg.JitterMax-r.cfg.JitterMin)
		tempoFactor := 1 + (song.Tempo-r.cfg.ReferenceTempo)/r.cfg.TempoSpan

		rows[i] = scoreRow{
			index:     i,
			relevance: relevance[i],
			diversity: relevance[i] * penalty * jitter * tempoFactor,
		}
	}

	slices.SortFunc(rows, func(a, b scoreRow) int {
		switch {
		case a.diversity > b.diversity:
			return -1
		case a.diversity < b.diversity:
			return 1
		}
		return 0
	})
	return rows
}

// stratifiedSample draws quotas from the high, mid and low relevance bands
// of the candidate pool, backfills from the rest of the pool and shuffles.
func (r *Ranker) stratifiedSample(rng *rand.Rand, rows []scoreRow) []scoreRow {
	pool := rows[:min(r.cfg.PoolSize, len(rows))]

	var high, mid, low []scoreRow
	for _, row := range pool {
		switch {
		case row.relevance > r.cfg.HighThreshold:
			high = append(high, row)
		case row.relevance >= r.cfg.LowThreshold:
			mid = append(mid, row)
		default:
			low = append(low, row)
		}
	}

	selected := make([]scoreRow, 0, r.cfg.Limit)
	taken := make(map[int]struct{}, r.cfg.Limit)
	take := func(stratum []scoreRow, quota int) {
		quota = min(quota, r.cfg.Limit-len(selected))
		for _, row := range sample(rng, stratum, quota) {
			selected = append(selected, row)
			taken[row.index] = struct{}{}
		}
	}

	take(high, r.cfg.HighQuota)
	take(mid, r.cfg.MidQuota)
	take(low, r.cfg.LowQuota)

	if len(selected) < r.cfg.Limit {
		remaining := make([]scoreRow, 0, len(pool))
		for _, row := range pool {
			if _, ok := taken[row.index]; !ok {
				remaining = append(remaining, row)
			}
		}
		take(remaining, r.cfg.Limit-len(selected))
	}

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected
}

// sample draws k rows uniformly without replacement.
func sample(rng *rand.Rand, rows []scoreRow, k int) []scoreRow {
	k = min(k, len(rows))
	if k <= 0 {
		return nil
	}
	out := make([]scoreRow, k)
	for i, idx := range rng.Perm(len(rows))[:k] {
		out[i] = rows[idx]
	}
	return out
}

func (r *Ranker) fallback(rng *rand.Rand, songs []domain.Song, relevance []float64, cause error) Result {
	r.log.Debug().Err(cause).Int("songs", len(songs)).Msg("ranking degraded to random selection")

	n := min(r.cfg.Limit, len(songs))
	picks := make([]Pick, 0, n)
	for _, idx := range rng.Perm(len(songs))[:n] {
		var score float64
		if len(relevance) == len(songs) {
			score = relevance[idx]
		}
		picks = append(picks, Pick{Song: songs[idx], Score: score})
	}

	return Result{
		Picks:      picks,
		Considered: len(songs),
		Degraded:   true,
		Cause:      cause,
	}
}
