package store

import "dialdesk/internal/platform/logger"

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger replaces the default "store" component logger
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
