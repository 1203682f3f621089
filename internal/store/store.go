// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
)

// Collection names a logical group of records in the key-value substrate.
type Collection string

const (
	// CharactersCollection holds one JSON profile per character.
	CharactersCollection Collection = "characters"
	// ScenesCollection holds one JSON scene list per character.
	ScenesCollection Collection = "scenes"
)

// Entry is a single key/value pair returned by List.
type Entry struct {
	Key   string
	Value []byte
}

// KV is the key-value substrate behind the story library.
type KV interface {
	// Get returns the value stored under key, and false if it is absent.
	Get(ctx context.Context, collection Collection, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, collection Collection, key string, value []byte) error

	// List returns every entry whose key starts with prefix, in insertion order.
	List(ctx context.Context, collection Collection, prefix string) ([]Entry, error)

	// Ping verifies the substrate is reachable.
	Ping(ctx context.Context) error

	// Close releases the substrate.
	Close() error
}
