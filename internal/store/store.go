// Package store is the persistence gateway for follow edges and alpha
// signals. Callers depend on the Store interface; the backend (postgres or
// sqlite) is picked once when the *gorm.DB is opened and never inspected
// again.
package store

import (
	"context"

	"alphawatch/internal/models"
)

// Store is the capability interface the monitoring pipeline depends on.
// All writes are idempotent.
type Store interface {
	// GetStoredFollowingIDs returns the set of following IDs already
	// persisted for the given observer handle.
	GetStoredFollowingIDs(ctx context.Context, handle string) (map[string]struct{}, error)

	// BulkUpsertFollowEdges inserts edges, silently skipping rows whose
	// (handle, following_id) pair already exists.
	BulkUpsertFollowEdges(ctx context.Context, edges []models.FollowEdge) error

	// UpsertAlphaSignal inserts or overwrites the signal for its token
	// mint. Metrics columns are replaced; tweeted and added_at survive.
	UpsertAlphaSignal(ctx context.Context, signal *models.AlphaSignal) error

	// GetUnpostedSignals returns signals with tweeted=false, newest
	// first. limit <= 0 means no limit.
	GetUnpostedSignals(ctx context.Context, limit int) ([]models.AlphaSignal, error)

	// MarkSignalTweeted flips the signal's tweeted flag to true. Calling
	// it again is a no-op.
	MarkSignalTweeted(ctx context.Context, tokenMint string) error
}
