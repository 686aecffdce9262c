/*
Package ctxstore is a session-context store: it keeps per-directory
session histories in an external key-value backend and exposes them
through a small tool protocol (MCP) and a REST mirror.

A caller creates a session scoped to a directory path, appends text
entries to its history, reads the accumulated context back, and
eventually destroys the session. The service itself holds no state
beyond the backend connection.

# Architecture

The core follows a hexagonal layout:

  - pkg/domain: the SessionContext record (directory, append-only
    history, lifecycle timestamps).
  - pkg/ports: the KVStore and SessionLocker contracts.
  - pkg/adapters: redis (go-redis) and in-memory stores, plus the MCP
    and HTTP transport adapters.
  - pkg/session: the Registry, which derives storage keys from
    (directory, sessionID) and maps the four session operations onto
    get/modify/set sequences.

# Usage

	store, err := redis.New("redis://localhost:6379/0")
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	registry := session.NewRegistry(store)

	id, err := registry.Create(ctx, "/home/me/project")
	_ = registry.Update(ctx, "/home/me/project", id, "note to self")
	record, _ := registry.Get(ctx, "/home/me/project", id)
	_ = registry.End(ctx, "/home/me/project", id)

Concurrent updates to the same session race by default (last write
wins); configure a SessionLocker on the registry when lost appends
matter.
*/
package ctxstore
