/*
Package domain holds the core data model of ctxstore.

A SessionContext is the value persisted per session: the directory the
session is scoped to, an append-only history of text entries, and the
lifecycle timestamps. The package has no dependencies on storage or
transport; adapters serialize it as JSON.
*/
package domain
