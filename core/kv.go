package core

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KV.Get when no value exists for the key.
var ErrKeyNotFound = errors.New("key not found")

// KV is the document store every domain service persists to.
// Values are JSON documents; keys are namespaced strings ("subjects:<id>",
// "weeks:<subjectID>:<weekID>", ...) and prefix scan is the only query primitive.
// There are no transactions: concurrent writers to the same key race and the
// last Set wins, and multi-key operations are best-effort sequences.
type KV interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, unconditionally overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// ScanPrefix returns all values whose key starts with prefix, in no
	// particular order.
	ScanPrefix(ctx context.Context, prefix string) ([][]byte, error)
}
