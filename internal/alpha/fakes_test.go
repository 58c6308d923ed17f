package alpha

import (
	"context"
	"errors"
	"sync"

	"alphawatch/internal/models"
	"alphawatch/pkg/raydium"
	"alphawatch/pkg/twitter"
)

type fakeSocialClient struct {
	mu        sync.Mutex
	userIDs   map[string]string
	following map[string][]twitter.Profile
	profiles  map[string]*twitter.Profile
	tweets    []twitter.Tweet

	failFollowing map[string]bool
	profileCalls  int
}

func newFakeSocialClient() *fakeSocialClient {
	return &fakeSocialClient{
		userIDs:       make(map[string]string),
		following:     make(map[string][]twitter.Profile),
		profiles:      make(map[string]*twitter.Profile),
		failFollowing: make(map[string]bool),
	}
}

func (f *fakeSocialClient) GetUserID(ctx context.Context, username string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.userIDs[username]
	if !ok {
		return "", errors.New("user not found")
	}
	return id, nil
}

func (f *fakeSocialClient) GetFollowing(ctx context.Context, userID string, maxCount int, visit func(twitter.Profile) bool) error {
	f.mu.Lock()
	fail := f.failFollowing[userID]
	profiles := f.following[userID]
	f.mu.Unlock()

	if fail {
		return errors.New("fetch failed")
	}
	for i, p := range profiles {
		if i >= maxCount {
			return nil
		}
		if !visit(p) {
			return nil
		}
	}
	return nil
}

func (f *fakeSocialClient) GetProfile(ctx context.Context, username string) (*twitter.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	p, ok := f.profiles[username]
	if !ok {
		return nil, errors.New("profile not found")
	}
	return p, nil
}

func (f *fakeSocialClient) GetRecentTweets(ctx context.Context, userID string, count int) ([]twitter.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tweets, nil
}

type fakeStore struct {
	mu      sync.Mutex
	edges   map[string]map[string]models.FollowEdge // handle -> followingID -> edge
	signals map[string]models.AlphaSignal

	failEdgeInsert bool
	upsertCalls    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		edges:   make(map[string]map[string]models.FollowEdge),
		signals: make(map[string]models.AlphaSignal),
	}
}

func (f *fakeStore) GetStoredFollowingIDs(ctx context.Context, handle string) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := make(map[string]struct{})
	for id := range f.edges[handle] {
		set[id] = struct{}{}
	}
	return set, nil
}

func (f *fakeStore) BulkUpsertFollowEdges(ctx context.Context, edges []models.FollowEdge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEdgeInsert {
		return errors.New("insert failed")
	}
	for _, e := range edges {
		if f.edges[e.Handle] == nil {
			f.edges[e.Handle] = make(map[string]models.FollowEdge)
		}
		if _, exists := f.edges[e.Handle][e.FollowingID]; !exists {
			f.edges[e.Handle][e.FollowingID] = e
		}
	}
	return nil
}

func (f *fakeStore) UpsertAlphaSignal(ctx context.Context, signal *models.AlphaSignal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	prev, exists := f.signals[signal.TokenMint]
	stored := *signal
	if exists {
		stored.Tweeted = prev.Tweeted
		stored.AddedAt = prev.AddedAt
	}
	f.signals[signal.TokenMint] = stored
	return nil
}

func (f *fakeStore) GetUnpostedSignals(ctx context.Context, limit int) ([]models.AlphaSignal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AlphaSignal
	for _, s := range f.signals {
		if !s.Tweeted {
			out = append(out, s)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) MarkSignalTweeted(ctx context.Context, tokenMint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.signals[tokenMint]
	if !ok {
		return errors.New("not found")
	}
	s.Tweeted = true
	f.signals[tokenMint] = s
	return nil
}

func (f *fakeStore) signal(mint string) (models.AlphaSignal, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.signals[mint]
	return s, ok
}

type fakePoolClient struct {
	mu    sync.Mutex
	pools map[string][]raydium.Pool
	err   error
	calls int
}

func (f *fakePoolClient) GetPoolsForMint(ctx context.Context, tokenMint string) ([]raydium.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pools[tokenMint], nil
}

type fakeMintChecker struct {
	mintable bool
	err      error
}

func (f *fakeMintChecker) IsTokenMintable(ctx context.Context, mintAddress string) (bool, error) {
	return f.mintable, f.err
}

type fakePublisher struct {
	mu       sync.Mutex
	messages map[string][]interface{}
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{messages: make(map[string][]interface{})}
}

func (f *fakePublisher) Publish(queueName string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[queueName] = append(f.messages[queueName], message)
	return nil
}

func (f *fakePublisher) count(queue string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages[queue])
}
