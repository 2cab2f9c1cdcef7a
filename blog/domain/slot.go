package domain

import (
	"context"
)

// SlotStore is a key-value store holding opaque values under named slots.
// This allows the post collection to be mirrored to different backends.
type SlotStore interface {
	// Get returns the value stored under key. found is false when the slot is empty.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put overwrites the value stored under key
	Put(ctx context.Context, key string, value []byte) error

	Close() error
}

// PostStore loads and saves the whole post collection.
type PostStore interface {
	Load(ctx context.Context) []Post
	Save(ctx context.Context, posts []Post) error
}
