package alpha

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alphawatch/internal/models"
	"alphawatch/pkg/config"
	"alphawatch/pkg/raydium"
	"alphawatch/pkg/twitter"
)

const testMint = "CzL7vzzHeGLZkPGr71rukufmrz9hE7JFDZnE4cPKpump"

func testConfig(accounts ...string) config.MonitorConfig {
	return config.MonitorConfig{
		Accounts:            accounts,
		MinInterval:         2 * time.Minute,
		MaxInterval:         15 * time.Minute,
		StartInterval:       5 * time.Minute,
		ShrinkTrigger:       5,
		FreshPoolMaxAgeDays: 2,
		CacheTTL:            10 * time.Minute,
		CacheCapacity:       500,
		MaxFollowing:        20000,
	}
}

type monitorFixture struct {
	monitor   *Monitor
	client    *fakeSocialClient
	store     *fakeStore
	pools     *fakePoolClient
	publisher *fakePublisher
}

func newMonitorFixture(cfg config.MonitorConfig) *monitorFixture {
	client := newFakeSocialClient()
	st := newFakeStore()
	pools := &fakePoolClient{pools: make(map[string][]raydium.Pool)}
	publisher := newFakePublisher()
	analyzer := NewAnalyzer(pools, &fakeMintChecker{mintable: false})

	return &monitorFixture{
		monitor:   NewMonitor(cfg, client, st, analyzer, publisher),
		client:    client,
		store:     st,
		pools:     pools,
		publisher: publisher,
	}
}

func TestAdjustInterval(t *testing.T) {
	cases := []struct {
		name       string
		start      time.Duration
		newFollows int
		want       time.Duration
	}{
		{"busy cycle shrinks 20%", 5 * time.Minute, 6, 4 * time.Minute},
		{"idle cycle grows 20%", 5 * time.Minute, 0, 6 * time.Minute},
		{"moderate cycle unchanged", 5 * time.Minute, 3, 5 * time.Minute},
		{"exactly at trigger unchanged", 5 * time.Minute, 5, 5 * time.Minute},
		{"shrink clamps at floor", 2 * time.Minute, 100, 2 * time.Minute},
		{"grow clamps at ceiling", 15 * time.Minute, 0, 15 * time.Minute},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newMonitorFixture(testConfig())
			fx.monitor.interval = tc.start
			got := fx.monitor.adjustInterval(tc.newFollows)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 2*time.Minute)
			assert.LessOrEqual(t, got, 15*time.Minute)
		})
	}
}

func TestStartStop(t *testing.T) {
	fx := newMonitorFixture(testConfig("observer"))
	fx.client.userIDs["observer"] = "obs-1"

	fx.monitor.Start()
	assert.True(t, fx.monitor.Running())

	// Second start is a no-op; Stop below still terminates cleanly.
	fx.monitor.Start()

	fx.monitor.Stop()
	assert.False(t, fx.monitor.Running())

	// Stop on a stopped monitor is safe.
	fx.monitor.Stop()
}

func TestEvaluateEdge(t *testing.T) {
	ctx := context.Background()

	edgeWithBio := func(bio string) models.FollowEdge {
		return models.FollowEdge{
			Handle:          "observer",
			FollowingID:     "100",
			FollowingHandle: "alice",
			Bio:             bio,
		}
	}

	t.Run("fresh stable pool produces actionable signal", func(t *testing.T) {
		fx := newMonitorFixture(testConfig("observer"))
		fx.client.profiles["alice"] = &twitter.Profile{Username: "alice", FollowersCount: 4200}
		fx.pools.pools[testMint] = []raydium.Pool{
			{BaseMint: USDCMint, QuoteMint: testMint, TVL: 42000, Volume24h: 9000, Price: 0.002,
				OpenTime: time.Now().Add(-12 * time.Hour).Unix()},
		}

		fx.monitor.evaluateEdge(ctx, edgeWithBio("gm frens "+testMint+" to the moon"))

		signal, ok := fx.store.signal(testMint)
		require.True(t, ok, "signal must be persisted")
		assert.True(t, signal.HasPool)
		assert.Equal(t, 4200, signal.FollowersCount)
		require.NotNil(t, signal.UsdcPoolAge)
		assert.InDelta(t, 0.5, *signal.UsdcPoolAge, 0.01)

		assert.Equal(t, 1, fx.publisher.count(config.QueueSignalFeed))
		assert.Equal(t, 1, fx.publisher.count(config.QueueTradeRequests), "fresh pool is actionable")
	})

	t.Run("bio without token skips analysis entirely", func(t *testing.T) {
		fx := newMonitorFixture(testConfig("observer"))

		fx.monitor.evaluateEdge(ctx, edgeWithBio("just vibes, no coin here"))

		assert.Equal(t, 0, fx.pools.calls, "no pool query without a token")
		assert.Equal(t, 0, fx.store.upsertCalls)
		assert.Equal(t, 0, fx.publisher.count(config.QueueSignalFeed))
	})

	t.Run("stale pool persists but is not actionable", func(t *testing.T) {
		fx := newMonitorFixture(testConfig("observer"))
		fx.client.profiles["alice"] = &twitter.Profile{Username: "alice"}
		fx.pools.pools[testMint] = []raydium.Pool{
			{BaseMint: USDCMint, QuoteMint: testMint, TVL: 100,
				OpenTime: time.Now().Add(-10 * 24 * time.Hour).Unix()},
		}

		fx.monitor.evaluateEdge(ctx, edgeWithBio(testMint))

		_, ok := fx.store.signal(testMint)
		assert.True(t, ok)
		assert.Equal(t, 1, fx.publisher.count(config.QueueSignalFeed))
		assert.Equal(t, 0, fx.publisher.count(config.QueueTradeRequests))
	})

	t.Run("no pools persists a negative signal", func(t *testing.T) {
		fx := newMonitorFixture(testConfig("observer"))
		fx.client.profiles["alice"] = &twitter.Profile{Username: "alice"}

		fx.monitor.evaluateEdge(ctx, edgeWithBio(testMint))

		signal, ok := fx.store.signal(testMint)
		require.True(t, ok)
		assert.False(t, signal.HasPool)
		assert.Nil(t, signal.UsdcPoolAge)
	})

	t.Run("profile fetch failure still scores the token", func(t *testing.T) {
		fx := newMonitorFixture(testConfig("observer"))
		// No profile registered: GetProfile fails.
		fx.pools.pools[testMint] = []raydium.Pool{
			{BaseMint: USDCMint, QuoteMint: testMint, TVL: 100,
				OpenTime: time.Now().Add(-time.Hour).Unix()},
		}

		fx.monitor.evaluateEdge(ctx, edgeWithBio(testMint))

		signal, ok := fx.store.signal(testMint)
		require.True(t, ok)
		assert.Equal(t, 0, signal.FollowersCount)
	})

	t.Run("profile comes from cache on second evaluation", func(t *testing.T) {
		fx := newMonitorFixture(testConfig("observer"))
		fx.client.profiles["alice"] = &twitter.Profile{Username: "alice"}

		fx.monitor.evaluateEdge(ctx, edgeWithBio(testMint))
		fx.monitor.evaluateEdge(ctx, edgeWithBio(testMint))

		assert.Equal(t, 1, fx.client.profileCalls)
	})
}

func TestRunCycle(t *testing.T) {
	t.Run("counts new follows across accounts", func(t *testing.T) {
		fx := newMonitorFixture(testConfig("obs1", "obs2"))
		fx.client.userIDs["obs1"] = "u1"
		fx.client.userIDs["obs2"] = "u2"
		fx.client.following["u1"] = []twitter.Profile{{UserID: "1"}, {UserID: "2"}, {UserID: "3"}}
		fx.client.following["u2"] = []twitter.Profile{{UserID: "4"}, {UserID: "5"}, {UserID: "6"}}

		count := fx.monitor.runCycle(context.Background())
		assert.Equal(t, 6, count)

		// Busy sweep (>5) shrinks the interval by exactly 20%.
		got := fx.monitor.adjustInterval(count)
		assert.Equal(t, 4*time.Minute, got)
	})

	t.Run("one failing account does not abort the sweep", func(t *testing.T) {
		fx := newMonitorFixture(testConfig("bad", "good"))
		fx.client.userIDs["bad"] = "ub"
		fx.client.userIDs["good"] = "ug"
		fx.client.failFollowing["ub"] = true
		fx.client.following["ug"] = []twitter.Profile{{UserID: "1"}}

		count := fx.monitor.runCycle(context.Background())
		assert.Equal(t, 1, count)
	})

	t.Run("cancelled context stops at account boundary", func(t *testing.T) {
		fx := newMonitorFixture(testConfig("obs1", "obs2"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		count := fx.monitor.runCycle(ctx)
		assert.Equal(t, 0, count)
	})
}

func TestReconcileTweeted(t *testing.T) {
	ctx := context.Background()

	fx := newMonitorFixture(testConfig())
	fx.client.userIDs["alphabot"] = "self-1"
	fx.client.tweets = []twitter.Tweet{
		{ID: "t1", Text: "Huge find: @Alice just got followed, check her token out"},
		{ID: "t2", Text: "unrelated market commentary"},
	}

	require.NoError(t, fx.store.UpsertAlphaSignal(ctx, &models.AlphaSignal{TokenMint: "MintA", Handle: "alice"}))
	require.NoError(t, fx.store.UpsertAlphaSignal(ctx, &models.AlphaSignal{TokenMint: "MintB", Handle: "bob"}))

	marked, err := fx.monitor.ReconcileTweeted(ctx, "alphabot", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"MintA"}, marked)

	signal, _ := fx.store.signal("MintA")
	assert.True(t, signal.Tweeted)
	signal, _ = fx.store.signal("MintB")
	assert.False(t, signal.Tweeted)
}
