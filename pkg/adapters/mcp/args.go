package mcp

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

type createSessionArgs struct {
	Directory string `mapstructure:"directory"`
}

type sessionArgs struct {
	Directory string `mapstructure:"directory"`
	SessionID string `mapstructure:"sessionId"`
}

type updateContextArgs struct {
	Directory string `mapstructure:"directory"`
	SessionID string `mapstructure:"sessionId"`
	Content   string `mapstructure:"content"`
}

// decodeArgs maps the raw tool argument map onto a typed struct. A
// type mismatch (e.g. a number where a string is expected) fails the
// decode; nothing is coerced.
func decodeArgs(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: false,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

// requireString enforces presence and type of a required string
// parameter before any store access. An absent key and a wrong-typed
// value are both client faults.
func requireString(raw map[string]any, name string) error {
	val, ok := raw[name]
	if !ok {
		return fmt.Errorf("invalid params: missing %s", name)
	}
	s, ok := val.(string)
	if !ok {
		return fmt.Errorf("invalid params: %s must be a string", name)
	}
	if s == "" {
		return fmt.Errorf("invalid params: %s must be a non-empty string", name)
	}
	return nil
}

// requirePresent is requireString without the non-empty rule, for
// parameters where an empty string is a legal value (content).
func requirePresent(raw map[string]any, name string) error {
	val, ok := raw[name]
	if !ok {
		return fmt.Errorf("invalid params: missing %s", name)
	}
	if _, ok := val.(string); !ok {
		return fmt.Errorf("invalid params: %s must be a string", name)
	}
	return nil
}
