package favorites

import (
	"context"
)

// Key is the fixed name the set is stored under, scoped per client.
const Key = "favorites"

// Store is client-scoped key-value persistence. Get returns nil, nil when
// nothing is stored.
type Store interface {
	Get(ctx context.Context, clientID, key string) ([]byte, error)
	Put(ctx context.Context, clientID, key string, value []byte) error
	HealthCheck(ctx context.Context) error
	Close() error
}
