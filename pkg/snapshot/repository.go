// Package snapshot persists token.State between process runs.
//
// The file repository writes atomically (temp file, then rename) with
// owner-only permissions, since a snapshot may hold a live credential.
//
//	repo := snapshot.NewFileRepository("/path/to/state/dir")
//
//	st, err := repo.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	// ... dispatch ...
//	if err := repo.Save(ctx, st); err != nil {
//	    return err
//	}
package snapshot

import (
	"context"

	"github.com/bft-labs/tokenlife/pkg/token"
)

// Repository loads and saves token snapshots.
type Repository interface {
	// Load returns the last saved state, or token.Initial() if none exists.
	// A stored state that fails validation is an error.
	Load(ctx context.Context) (token.State, error)

	// Save persists st atomically.
	Save(ctx context.Context, st token.State) error

	// Clear removes any persisted state. Clearing nothing is not an error.
	Clear(ctx context.Context) error
}
