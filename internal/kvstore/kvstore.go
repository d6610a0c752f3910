// Package kvstore provides the string-keyed persistence substrate that backs the record collections.
package kvstore

import (
	"context"
	"errors"
)

// ErrEmptyKey indicates that a substrate operation was called without a key.
var ErrEmptyKey = errors.New("kvstore: key is required")

// Substrate stores string values addressed by string keys.
// Writes replace the prior value unconditionally.
type Substrate interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
