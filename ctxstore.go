package ctxstore

import (
	"fmt"

	"github.com/aretw0/ctxstore/internal/config"
	"github.com/aretw0/ctxstore/pkg/adapters/memory"
	"github.com/aretw0/ctxstore/pkg/adapters/redis"
	"github.com/aretw0/ctxstore/pkg/ports"
	"github.com/aretw0/ctxstore/pkg/session"
	backend "github.com/redis/go-redis/v9"
)

// Version is the release version reported by the CLI and the MCP
// server handshake.
var Version = "0.1.0"

// Service bundles the store and registry wired from a config. The
// process entry point owns its lifecycle: construct once, Close on the
// termination path.
type Service struct {
	Store    ports.KVStore
	Registry *session.Registry
}

// New wires a Service from configuration. Store selection follows
// cfg.Store: "redis" (default) or "memory" for ephemeral dev runs.
// When locking is enabled on a redis store, updates to the same
// session are serialized across processes.
func New(cfg *config.Config) (*Service, error) {
	registryOpts := []session.Option{
		session.WithPrefix(cfg.Redis.Prefix),
		session.WithTTL(cfg.Redis.TTL.Std()),
	}

	switch cfg.Store {
	case "", config.StoreRedis:
		opts, err := backend.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(opts)
		store := redis.NewFromClient(client)

		if cfg.Redis.Locking {
			registryOpts = append(registryOpts,
				session.WithLocker(redis.NewLocker(client, cfg.Redis.Prefix)))
		}

		return &Service{
			Store:    store,
			Registry: session.NewRegistry(store, registryOpts...),
		}, nil

	case config.StoreMemory:
		store := memory.NewStore()
		return &Service{
			Store:    store,
			Registry: session.NewRegistry(store, registryOpts...),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Store)
	}
}

// Close releases the store connection.
func (s *Service) Close() error {
	return s.Store.Close()
}
