// Package observability provides prometheus instruments shared by the
// transport adapters.
package observability
