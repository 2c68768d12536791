package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/muesli/clusters"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
)

const (
	featureCount = 5
	maxTempo     = 250.0
	temperature  = 0.15
)

// Feature matrix column indexes.
const (
	colDanceability = iota
	colTempo
	colAcousticness
	colEnergy
	colValence
)

// Classifier estimates a mood distribution per feature row.
type Classifier interface {
	// Classes returns the ordered mood class names. Column j of every
	// distribution row is the probability of Classes()[j].
	Classes() []string
	PredictDistribution(features [][]float64) ([][]float64, error)
}

type ModelInferenceError struct {
	Msg string
}

func (e *ModelInferenceError) Error() string {
	return e.Msg
}

func IsModelInferenceError(err error) bool {
	var target *ModelInferenceError
	return errors.As(err, &target)
}

// CentroidClassifier scores rows by distance to one centroid per mood.
type CentroidClassifier struct {
	mu        sync.RWMutex
	classes   []string
	centroids map[string]clusters.Coordinates
}

// prototypes sit inside the labelling rule regions of each mood.
func prototypes() map[string]clusters.Coordinates {
	return map[string]clusters.Coordinates{
		string(domain.MoodHappy):   {0.75, 128 / maxTempo, 0.2, 0.8, 0.8},
		string(domain.MoodSad):     {0.35, 80 / maxTempo, 0.7, 0.3, 0.25},
		string(domain.MoodNeutral): {0.55, 110 / maxTempo, 0.45, 0.55, 0.5},
	}
}

func NewClient() *CentroidClassifier {
	c := &CentroidClassifier{centroids: prototypes()}
	for name := range c.centroids {
		c.classes = append(c.classes, name)
	}
	sort.Strings(c.classes)
	return c
}

func (c *CentroidClassifier) Classes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.classes))
	copy(out, c.classes)
	return out
}

// Fit labels each row with the mood rules and moves every centroid to the
// mean of its members. Moods with no members keep their prototype.
func (c *CentroidClassifier) Fit(features [][]float64) (map[string]int, error) {
	sums := make(map[string]clusters.Coordinates)
	counts := make(map[string]int)

	for i, row := range features {
		point, err := normalize(row)
		if err != nil {
			return nil, fmt.Errorf("fit row %d: %w", i, err)
		}
		label := string(LabelMood(row))
		if sums[label] == nil {
			sums[label] = make(clusters.Coordinates, featureCount)
		}
		for j, v := range point {
			sums[label][j] += v
		}
		counts[label]++
	}

	centroids := prototypes()
	for label, sum := range sums {
		mean := make(clusters.Coordinates, featureCount)
		for j := range sum {
			mean[j] = sum[j] / float64(counts[label])
		}
		centroids[label] = mean
	}

	c.mu.Lock()
	c.centroids = centroids
	c.mu.Unlock()
	return counts, nil
}

func (c *CentroidClassifier) PredictDistribution(features [][]float64) ([][]float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([][]float64, len(features))
	for i, row := range features {
		point, err := normalize(row)
		if err != nil {
			return nil, fmt.Errorf("predict row %d: %w", i, err)
		}
		out[i] = c.softmax(point)
	}
	return out, nil
}

func (c *CentroidClassifier) softmax(point clusters.Coordinates) []float64 {
	logits := make([]float64, len(c.classes))
	peak := math.Inf(-1)
	for j, name := range c.classes {
		logits[j] = -point.Distance(c.centroids[name]) / temperature
		peak = math.Max(peak, logits[j])
	}

	var total float64
	for j := range logits {
		logits[j] = math.Exp(logits[j] - peak)
		total += logits[j]
	}
	for j := range logits {
		logits[j] /= total
	}
	return logits
}

func normalize(row []float64) (clusters.Coordinates, error) {
	if len(row) != featureCount {
		return nil, &ModelInferenceError{Msg: fmt.Sprintf("expected %d features, got %d", featureCount, len(row))}
	}
	point := make(clusters.Coordinates, featureCount)
	for j, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ModelInferenceError{Msg: fmt.Sprintf("feature %d is not finite", j)}
		}
		point[j] = v
	}
	point[colTempo] = math.Min(math.Max(row[colTempo]/maxTempo, 0), 1)
	return point, nil
}

// LabelMood applies the catalog labelling rules to one feature row.
func LabelMood(row []float64) domain.Mood {
	valence, energy := row[colValence], row[colEnergy]

	switch {
	case valence >= 0.60 && energy >= 0.65:
		if row[colDanceability] >= 0.50 {
			return domain.MoodHappy
		}
	case valence <= 0.40 && energy <= 0.45:
		if row[colAcousticness] >= 0.40 {
			return domain.MoodSad
		}
	}
	return domain.MoodNeutral
}
