package alpha

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"alphawatch/internal/models"
	"alphawatch/internal/store"
	"alphawatch/pkg/twitter"
)

// SocialClient is the slice of the platform gateway the tracker needs.
type SocialClient interface {
	GetUserID(ctx context.Context, username string) (string, error)
	GetFollowing(ctx context.Context, userID string, maxCount int, visit func(twitter.Profile) bool) error
	GetProfile(ctx context.Context, username string) (*twitter.Profile, error)
	GetRecentTweets(ctx context.Context, userID string, count int) ([]twitter.Tweet, error)
}

// paginationBatch is how many profiles are consumed between rate-limit
// pauses while walking a follow list.
const paginationBatch = 100

// Tracker diffs an account's live follow list against the persisted edges
// and records what is new.
type Tracker struct {
	client       SocialClient
	store        store.Store
	limiter      *rate.Limiter
	maxFollowing int
}

// NewTracker creates a tracker. maxFollowing bounds how much of a follow
// list is retrieved per cycle.
func NewTracker(client SocialClient, st store.Store, maxFollowing int) *Tracker {
	return &Tracker{
		client:       client,
		store:        st,
		limiter:      rate.NewLimiter(rate.Limit(10), 1), // one pause per batch, 100ms apart
		maxFollowing: maxFollowing,
	}
}

// CheckNewFollowing fetches handle's current follow list, persists edges
// not seen before and returns them. The bulk insert happens before the
// edges are handed back, so a crash downstream simply re-detects the same
// edges next cycle and the conflict-ignoring insert absorbs them.
//
// A fetch failure is logged and yields an empty set; the account is
// retried next cycle and never aborts the sweep.
func (t *Tracker) CheckNewFollowing(ctx context.Context, handle string) []models.FollowEdge {
	latest, err := t.fetchFollowing(ctx, handle)
	if err != nil {
		log.WithFields(log.Fields{"account": handle}).Warnf("Unable to fetch following list: %v", err)
		return nil
	}
	if len(latest) == 0 {
		log.WithFields(log.Fields{"account": handle}).Warn("Empty following list, skipping")
		return nil
	}

	storedIDs, err := t.store.GetStoredFollowingIDs(ctx, handle)
	if err != nil {
		log.WithFields(log.Fields{"account": handle}).Errorf("Failed to load stored following: %v", err)
		return nil
	}

	var newEdges []models.FollowEdge
	for _, profile := range latest {
		if _, seen := storedIDs[profile.UserID]; seen {
			continue
		}
		newEdges = append(newEdges, models.FollowEdge{
			Handle:          handle,
			FollowingID:     profile.UserID,
			FollowingHandle: profile.Username,
			Bio:             profile.Biography,
		})
	}

	if len(newEdges) == 0 {
		return nil
	}

	if err := t.store.BulkUpsertFollowEdges(ctx, newEdges); err != nil {
		// Not persisted, so do not hand the edges to the pipeline; the
		// same diff re-detects them next cycle.
		log.WithFields(log.Fields{"account": handle}).Errorf("Failed to persist follow edges: %v", err)
		return nil
	}

	for _, edge := range newEdges {
		log.WithFields(log.Fields{
			"account":  handle,
			"followed": edge.FollowingHandle,
			"id":       edge.FollowingID,
		}).Info("New follow edge detected")
	}

	return newEdges
}

func (t *Tracker) fetchFollowing(ctx context.Context, handle string) ([]twitter.Profile, error) {
	userID, err := t.client.GetUserID(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", handle, err)
	}

	var profiles []twitter.Profile
	var waitErr error
	err = t.client.GetFollowing(ctx, userID, t.maxFollowing, func(p twitter.Profile) bool {
		profiles = append(profiles, p)
		if len(profiles)%paginationBatch == 0 {
			if waitErr = t.limiter.Wait(ctx); waitErr != nil {
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if waitErr != nil {
		return nil, waitErr
	}

	log.WithFields(log.Fields{"account": handle, "count": len(profiles)}).Debug("Retrieved following list")
	return profiles, nil
}
