package domain

// Feature defaults applied when a key is missing from a catalog record.
const (
	DefaultDanceability = 0.5
	DefaultTempo        = 120.0
	DefaultAcousticness = 0.5
	DefaultEnergy       = 0.5
	DefaultValence      = 0.5
)

// Feature keys as stored in the catalog features document.
const (
	FeatureDanceability = "danceability"
	FeatureTempo        = "tempo"
	FeatureAcousticness = "acousticness"
	FeatureEnergy       = "energy"
	FeatureValence      = "valence"
)

// FeatureOrder is the column order of a feature matrix row.
var FeatureOrder = []string{
	FeatureDanceability,
	FeatureTempo,
	FeatureAcousticness,
	FeatureEnergy,
	FeatureValence,
}

// CatalogRecord is a raw song as held by the catalog store.
type CatalogRecord struct {
	ID       string         `json:"id"`
	Title    *string        `json:"title,omitempty"`
	Artist   *string        `json:"artist,omitempty"`
	Album    *string        `json:"album,omitempty"`
	Features map[string]any `json:"features"`
}

// Song is a catalog record whose features all coerced to floats.
type Song struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Album        string  `json:"album"`
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Tempo        float64 `json:"tempo"`
	Acousticness float64 `json:"acousticness"`
	Valence      float64 `json:"valence"`
}

// Vector returns the song features in FeatureOrder.
func (s Song) Vector() []float64 {
	return []float64{s.Danceability, s.Tempo, s.Acousticness, s.Energy, s.Valence}
}
