package ranking

import "fmt"

// Config holds the selection knobs of the ranker.
type Config struct {
	PoolSize int // candidates kept after the diversity sort
	Limit    int // songs returned per call

	HighThreshold float64 // relevance strictly above is "high"
	LowThreshold  float64 // relevance strictly below is "low"

	HighQuota int
	MidQuota  int
	LowQuota  int

	RecencyPenalty float64
	JitterMin      float64
	JitterMax      float64

	ReferenceTempo float64
	TempoSpan      float64
}

func DefaultConfig() Config {
	return Config{
		PoolSize:       20,
		Limit:          5,
		HighThreshold:  0.7,
		LowThreshold:   0.4,
		HighQuota:      2,
		MidQuota:       2,
		LowQuota:       1,
		RecencyPenalty: 0.5,
		JitterMin:      0.8,
		JitterMax:      1.2,
		ReferenceTempo: 120,
		TempoSpan:      240,
	}
}

func (c Config) Validate() error {
	switch {
	case c.PoolSize <= 0:
		return fmt.Errorf("pool size must be positive, got %d", c.PoolSize)
	case c.Limit <= 0:
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	case c.LowThreshold > c.HighThreshold:
		return fmt.Errorf("low threshold %.2f above high threshold %.2f", c.LowThreshold, c.HighThreshold)
	case c.HighQuota < 0 || c.MidQuota < 0 || c.LowQuota < 0:
		return fmt.Errorf("stratum quotas must not be negative")
	case c.JitterMin > c.JitterMax:
		return fmt.Errorf("jitter min %.2f above max %.2f", c.JitterMin, c.JitterMax)
	case c.TempoSpan <= 0:
		return fmt.Errorf("tempo span must be positive")
	}
	return nil
}
