package alpha

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"alphawatch/internal/models"
	"alphawatch/internal/store"
	"alphawatch/pkg/config"
)

// EventPublisher pushes signal events onto the message queue. A nil
// publisher disables event publishing.
type EventPublisher interface {
	Publish(queueName string, message interface{}) error
}

// Monitor drives the end-to-end cycle: for every tracked account, diff the
// follow graph, then run each new edge through extraction, profile lookup,
// pool analysis, scoring and persistence. After each full sweep the polling
// interval is re-tuned from the number of new follows observed.
type Monitor struct {
	cfg      config.MonitorConfig
	tracker  *Tracker
	analyzer *Analyzer
	client   SocialClient
	store    store.Store
	cache    *ProfileCache
	events   EventPublisher

	mu       sync.Mutex
	interval time.Duration
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewMonitor wires the pipeline. events may be nil.
func NewMonitor(cfg config.MonitorConfig, client SocialClient, st store.Store, analyzer *Analyzer, events EventPublisher) *Monitor {
	return &Monitor{
		cfg:      cfg,
		tracker:  NewTracker(client, st, cfg.MaxFollowing),
		analyzer: analyzer,
		client:   client,
		store:    st,
		cache:    NewProfileCache(cfg.CacheTTL, cfg.CacheCapacity),
		events:   events,
		interval: cfg.StartInterval,
	}
}

// Start launches the monitoring loop. A second Start while running is a
// no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.running = true
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	log.Infof("Starting follow monitoring for %d accounts", len(m.cfg.Accounts))
	go m.run(ctx)
}

// Stop signals the loop to drain and blocks until the in-flight pipeline
// step completes. Stopping latency is bounded by the per-call timeouts.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	<-done

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
	log.Info("Follow monitoring stopped")
}

// Running reports whether the loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// CurrentInterval returns the polling interval the next cycle will wait.
func (m *Monitor) CurrentInterval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// Cache exposes the profile cache for the periodic sweep job.
func (m *Monitor) Cache() *ProfileCache {
	return m.cache
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	for {
		newFollows := m.runCycle(ctx)
		if ctx.Err() != nil {
			return
		}

		wait := m.adjustInterval(newFollows)
		log.Infof("Next scan in %s", wait)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
}

// runCycle sweeps every tracked account once, strictly sequentially, and
// returns the number of new follow edges observed across the sweep.
func (m *Monitor) runCycle(ctx context.Context) int {
	newFollowCount := 0
	for _, account := range m.cfg.Accounts {
		// Stop flag is checked at every account boundary.
		if ctx.Err() != nil {
			return newFollowCount
		}

		newEdges := m.tracker.CheckNewFollowing(ctx, account)
		newFollowCount += len(newEdges)

		for _, edge := range newEdges {
			if ctx.Err() != nil {
				return newFollowCount
			}
			m.evaluateEdge(ctx, edge)
		}
	}
	return newFollowCount
}

// evaluateEdge runs one new follow edge through the token pipeline. Every
// failure is isolated to this edge.
func (m *Monitor) evaluateEdge(ctx context.Context, edge models.FollowEdge) {
	tokenMint := ExtractTokenMint(edge.Bio)
	if tokenMint == "" {
		log.WithFields(log.Fields{"followed": edge.FollowingHandle}).Debug("No launch token in bio")
		return
	}

	profile := m.cache.Get(edge.FollowingHandle)
	if profile == nil {
		fetched, err := m.client.GetProfile(ctx, edge.FollowingHandle)
		if err != nil {
			log.WithFields(log.Fields{"followed": edge.FollowingHandle}).Warnf("Profile fetch failed: %v", err)
		} else {
			profile = fetched
			m.cache.Put(edge.FollowingHandle, fetched)
		}
	}

	analysis, err := m.analyzer.Analyze(ctx, tokenMint)
	if err != nil {
		// Unavailable this cycle; the edge is already persisted so the
		// token is simply not scored until a later re-follow or re-run.
		log.WithFields(log.Fields{"token": tokenMint}).Warnf("Pool analysis unavailable: %v", err)
		return
	}

	signal := BuildSignal(tokenMint, edge.FollowingHandle, profile, analysis)
	if err := m.store.UpsertAlphaSignal(ctx, &signal); err != nil {
		log.WithFields(log.Fields{"token": tokenMint}).Errorf("Failed to persist signal: %v", err)
		return
	}

	actionable := IsActionable(&signal, m.cfg.FreshPoolMaxAgeDays)
	log.WithFields(log.Fields{
		"token":      tokenMint,
		"handle":     signal.Handle,
		"has_pool":   signal.HasPool,
		"mintable":   signal.IsMintable,
		"actionable": actionable,
	}).Info("Alpha signal persisted")

	m.publish(config.QueueSignalFeed, signal)
	if actionable {
		m.publish(config.QueueTradeRequests, signal)
	}
}

func (m *Monitor) publish(queue string, signal models.AlphaSignal) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(queue, signal); err != nil {
		log.Warnf("Failed to publish signal %s to %s: %v", signal.TokenMint, queue, err)
	}
}

// adjustInterval re-tunes the polling interval after a sweep: shrink 20%
// on a busy cycle, grow 20% on an idle one, clamped to the configured
// bounds.
func (m *Monitor) adjustInterval(newFollowCount int) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case newFollowCount > m.cfg.ShrinkTrigger:
		m.interval = time.Duration(float64(m.interval) * 0.8)
		if m.interval < m.cfg.MinInterval {
			m.interval = m.cfg.MinInterval
		}
	case newFollowCount == 0:
		m.interval = time.Duration(float64(m.interval) * 1.2)
		if m.interval > m.cfg.MaxInterval {
			m.interval = m.cfg.MaxInterval
		}
	}
	return m.interval
}

// ReconcileTweeted checks the bot account's recent posts against unposted
// signals and marks every signal whose source handle appears in a post.
// Returns the token mints that were marked.
func (m *Monitor) ReconcileTweeted(ctx context.Context, selfHandle string, tweetCount int) ([]string, error) {
	userID, err := m.client.GetUserID(ctx, selfHandle)
	if err != nil {
		return nil, err
	}
	tweets, err := m.client.GetRecentTweets(ctx, userID, tweetCount)
	if err != nil {
		return nil, err
	}
	if len(tweets) == 0 {
		return nil, nil
	}

	unposted, err := m.store.GetUnpostedSignals(ctx, 0)
	if err != nil {
		return nil, err
	}

	var marked []string
	for _, tweet := range tweets {
		text := strings.ToLower(tweet.Text)
		for _, signal := range unposted {
			if signal.Handle == "" || contains(marked, signal.TokenMint) {
				continue
			}
			if strings.Contains(text, strings.ToLower(signal.Handle)) {
				if err := m.store.MarkSignalTweeted(ctx, signal.TokenMint); err != nil {
					log.Errorf("Failed to mark %s tweeted: %v", signal.TokenMint, err)
					continue
				}
				marked = append(marked, signal.TokenMint)
				log.WithFields(log.Fields{"token": signal.TokenMint, "handle": signal.Handle}).
					Info("Signal marked as tweeted")
			}
		}
	}
	return marked, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
