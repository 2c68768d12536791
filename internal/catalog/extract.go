// Package catalog turns raw catalog records into rankable songs.
package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
)

const (
	unknownTitle  = "Unknown Song"
	unknownArtist = "Unknown Artist"
)

var featureDefaults = map[string]float64{
	domain.FeatureDanceability: domain.DefaultDanceability,
	domain.FeatureTempo:        domain.DefaultTempo,
	domain.FeatureAcousticness: domain.DefaultAcousticness,
	domain.FeatureEnergy:       domain.DefaultEnergy,
	domain.FeatureValence:      domain.DefaultValence,
}

// Extraction is the result of building a feature matrix from a snapshot.
// Features[i] belongs to Songs[i].
type Extraction struct {
	Features [][]float64
	Songs    []domain.Song
	Skipped  []string
}

// Extract builds the feature matrix. Records with a present but
// non-numeric feature are skipped; missing features take their default.
func Extract(records []domain.CatalogRecord) Extraction {
	out := Extraction{
		Features: make([][]float64, 0, len(records)),
		Songs:    make([]domain.Song, 0, len(records)),
	}

	for _, rec := range records {
		song, ok := ToSong(rec)
		if !ok {
			out.Skipped = append(out.Skipped, rec.ID)
			continue
		}
		out.Features = append(out.Features, song.Vector())
		out.Songs = append(out.Songs, song)
	}
	return out
}

// ToSong coerces a single record. It reports false if any feature is
// present but invalid.
func ToSong(rec domain.CatalogRecord) (domain.Song, bool) {
	values := make(map[string]float64, len(featureDefaults))
	for key, def := range featureDefaults {
		raw, present := rec.Features[key]
		if !present {
			values[key] = def
			continue
		}
		v, ok := Coerce(raw)
		if !ok {
			return domain.Song{}, false
		}
		values[key] = v
	}

	return domain.Song{
		ID:           rec.ID,
		Title:        textOr(rec.Title, unknownTitle),
		Artist:       textOr(rec.Artist, unknownArtist),
		Album:        textOr(rec.Album, ""),
		Danceability: values[domain.FeatureDanceability],
		Energy:       values[domain.FeatureEnergy],
		Tempo:        values[domain.FeatureTempo],
		Acousticness: values[domain.FeatureAcousticness],
		Valence:      values[domain.FeatureValence],
	}, true
}

// Coerce converts a decoded JSON value to a finite float.
func Coerce(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func textOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
