package identity

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt cost used when none is configured.
const DefaultCost = 10

type settings struct {
	cost int
}

// Option applies a configuration option to a Store implementation.
type Option func(*settings)

// WithCost sets the bcrypt cost. Values outside bcrypt's range are ignored.
func WithCost(cost int) Option {
	return func(s *settings) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{cost: DefaultCost}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
