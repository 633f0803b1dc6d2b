package core

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Document keys
const (
	KeyUsers               = "users"
	KeySessions            = "sessions"
	KeyAnnouncements       = "announcements"
	KeyHomeworks           = "homeworks"
	KeyHomeworkCompletions = "homework_completions"
	KeyStudentActivities   = "student_activities"
)

// Store persists named JSON documents.
// Reads and writes are atomic per key; there are no cross-key transactions.
type Store interface {
	// Get returns ErrKeyNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Read decodes the document stored under key.
func Read[T any](ctx context.Context, store Store, key string) (T, error) {
	var doc T
	data, err := store.Get(ctx, key)
	if err != nil {
		return doc, &StorageError{Op: "read", Key: key, Err: err}
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, &StorageError{Op: "decode", Key: key, Err: err}
	}
	return doc, nil
}

// ReadOrSeed decodes the document stored under key.
// When key is absent, seed is written and returned instead.
func ReadOrSeed[T any](ctx context.Context, store Store, key string, seed T) (T, error) {
	doc, err := Read[T](ctx, store, key)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return doc, err
	}
	if err := Write(ctx, store, key, seed); err != nil {
		return seed, err
	}
	return seed, nil
}

// Write encodes value and stores it under key.
func Write[T any](ctx context.Context, store Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &StorageWriteError{Key: key, Err: err}
	}
	if err := store.Set(ctx, key, data); err != nil {
		return &StorageWriteError{Key: key, Err: err}
	}
	return nil
}
