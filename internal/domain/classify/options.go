package classify

// Default thresholds of the dashboard buckets.
const (
	DefaultHighDemandThreshold = 100
	DefaultUntappedThreshold   = 50
)

// Polarity selects the high-demand comparison.
type Polarity string

// Supported polarities.
const (
	// Below admits trending topics whose total is strictly under the threshold.
	Below Polarity = "below"
	// Above admits trending topics whose total is strictly over the threshold.
	Above Polarity = "above"
)

type settings struct {
	highDemandThreshold int
	untappedThreshold   int
	polarity            Polarity
}

func defaults() settings {
	return settings{
		highDemandThreshold: DefaultHighDemandThreshold,
		untappedThreshold:   DefaultUntappedThreshold,
		polarity:            Below,
	}
}

// Option applies a configuration option to Classify.
type Option func(*settings)

// WithHighDemandThreshold sets the high-demand threshold. Negative values are ignored.
func WithHighDemandThreshold(threshold int) Option {
	return func(s *settings) {
		if threshold >= 0 {
			s.highDemandThreshold = threshold
		}
	}
}

// WithUntappedThreshold sets the inclusive untapped ceiling. Negative values are ignored.
func WithUntappedThreshold(threshold int) Option {
	return func(s *settings) {
		if threshold >= 0 {
			s.untappedThreshold = threshold
		}
	}
}

// WithPolarity sets the high-demand comparison. Unknown values are ignored.
func WithPolarity(p Polarity) Option {
	return func(s *settings) {
		if p == Below || p == Above {
			s.polarity = p
		}
	}
}
