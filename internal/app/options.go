package service

import (
	"github.com/axioma/trendboard/internal/adapters/identity"
	"github.com/axioma/trendboard/internal/domain/classify"
	"github.com/axioma/trendboard/internal/domain/dataset"
	"github.com/axioma/trendboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDatasetPath sets the dataset file loaded on Start.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithDataset publishes ds on Start instead of reading a file.
func WithDataset(ds *dataset.Dataset) Option {
	return func(s *Service) {
		s.initial = ds
	}
}

// WithWatch reloads the dataset whenever its file changes.
func WithWatch(enabled bool) Option {
	return func(s *Service) {
		s.watch = enabled
	}
}

// WithDefaultTopN sets the leaderboard size used when none is requested.
func WithDefaultTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultTopN = n
		}
	}
}

// WithClassifier sets the classification thresholds and polarity.
func WithClassifier(highDemand, untapped int, polarity string) Option {
	return func(s *Service) {
		s.classifyOpts = []classify.Option{
			classify.WithHighDemandThreshold(highDemand),
			classify.WithUntappedThreshold(untapped),
			classify.WithPolarity(classify.Polarity(polarity)),
		}
	}
}

// WithReferenceGraph sets the graph whose data keys form the overlap reference set.
func WithReferenceGraph(title string) Option {
	return func(s *Service) {
		if title != "" {
			s.referenceGraph = title
		}
	}
}

// WithInfluenceGraph sets the platform/month graph and the default month.
func WithInfluenceGraph(title, defaultMonth string) Option {
	return func(s *Service) {
		if title != "" {
			s.influenceGraph = title
		}
		if defaultMonth != "" {
			s.defaultMonth = defaultMonth
		}
	}
}

// WithIdentityStore injects a ready identity store. The service closes it on Stop.
func WithIdentityStore(store identity.Store) Option {
	return func(s *Service) {
		s.identity = store
	}
}

// WithIdentityBackend selects the identity store opened on Start.
func WithIdentityBackend(backend, dsn string, bcryptCost int) Option {
	return func(s *Service) {
		if backend != "" {
			s.identityBackend = backend
		}
		s.identityDSN = dsn
		s.bcryptCost = bcryptCost
	}
}
