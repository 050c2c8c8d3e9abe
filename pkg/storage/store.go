// Package storage provides the durable key-value store that backs the
// dashboard's persisted labels (the quiz result and the last seen sleep
// condition).
//
// Values are plain strings, trusted as-is, with last-writer-wins semantics.
// MemoryStore is process-local; RedisStore survives restarts and can be shared
// by several dashboard instances.
package storage

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	// KeyDosha holds the dominant dosha computed by the quiz.
	KeyDosha = "ayurvedaDosha"
	// KeyCondition holds the last condition label reported by the backend.
	KeyCondition = "sleepDisorder"
)

// ErrEmptyKey is returned when an operation is given an empty key.
var ErrEmptyKey = errors.New("key cannot be empty")

// ErrClosed is returned by a store used after Close.
var ErrClosed = errors.New("store is closed")

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
}

// GetOr returns the stored value for key, or fallback when the key is missing
// or the store fails. The error is returned so callers can log it.
func GetOr(ctx context.Context, s Store, key, fallback string) (string, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		return fallback, err
	}
	if !ok || v == "" {
		return fallback, nil
	}
	return v, nil
}
