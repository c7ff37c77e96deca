package preference

import (
	"context"

	"github.com/pkg/errors"
)

// KeyLanguage is the only persisted preference.
const KeyLanguage = "language"

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown preference backend")

// Store is a durable string key-value store.
type Store interface {
	// Get returns ok=false when the key was never written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open builds the store selected by cfg.Backend.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		return OpenSQLite(cfg.SQLitePath)
	case BackendRedis:
		return NewRedisStore(cfg.Redis)
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, errors.Wrapf(ErrUnknownBackend, "%q", cfg.Backend)
}
