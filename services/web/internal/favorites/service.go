package favorites

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Service loads per-client favorite sets with the store wired in as their
// save hook.
type Service struct {
	store   Store
	timeout time.Duration
	logger  *logrus.Logger
}

func NewService(store Store, logger *logrus.Logger) *Service {
	return &Service{
		store:   store,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

// Open reads the client's set once. A store failure is returned; corrupted
// stored data is not, it loads as an empty set.
func (s *Service) Open(ctx context.Context, clientID string) (*Set, error) {
	raw, err := s.store.Get(ctx, clientID, Key)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	save := func(value []byte) error {
		saveCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.store.Put(saveCtx, clientID, Key, value)
	}

	return Load(raw, save, s.logger), nil
}
