package pending

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates no pending transfer is staged for the identity.
	ErrNotFound = errors.New("no pending transfer")

	// ErrExpired indicates the staged transfer outlived its TTL. The entry
	// has already been removed when this is returned.
	ErrExpired = errors.New("pending transfer expired")
)

// Transfer is a staged, unsigned transfer intent awaiting confirmation.
type Transfer struct {
	Identity  string    `json:"identity"`
	To        string    `json:"to"`
	Amount    string    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Cache holds at most one pending transfer per identity.
type Cache interface {
	// Put stages a transfer, overwriting any existing entry for the identity.
	Put(ctx context.Context, t Transfer) error

	// Peek reads the staged transfer without consuming it. Returns
	// ErrNotFound when nothing is staged.
	Peek(ctx context.Context, identity string) (Transfer, error)

	// TakeIfFresh atomically removes and returns the staged transfer.
	// Entries older than ttl are removed and reported as ErrExpired.
	// Concurrent takes for the same identity see at most one live entry.
	TakeIfFresh(ctx context.Context, identity string, ttl time.Duration) (Transfer, error)

	// Clear removes any staged transfer and reports whether one existed.
	Clear(ctx context.Context, identity string) (bool, error)
}
