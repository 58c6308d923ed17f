package alpha

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alphawatch/pkg/raydium"
)

func poolAt(base, quote string, tvl float64, openedAgo time.Duration) raydium.Pool {
	return raydium.Pool{
		BaseMint:  base,
		QuoteMint: quote,
		TVL:       tvl,
		OpenTime:  time.Now().Add(-openedAgo).Unix(),
	}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	const mint = "TokenMint111"

	t.Run("selects highest TVL pool per reference", func(t *testing.T) {
		pools := &fakePoolClient{pools: map[string][]raydium.Pool{mint: {
			poolAt(WSOLMint, mint, 1000, 72*time.Hour),
			poolAt(mint, WSOLMint, 9000, 48*time.Hour), // higher TVL, reference on quote side
			poolAt(USDCMint, mint, 500, 12*time.Hour),
			poolAt(mint, "SomeOtherMint", 99999, time.Hour), // not a reference pool
		}}}

		analysis, err := NewAnalyzer(pools, &fakeMintChecker{mintable: true}).Analyze(ctx, mint)
		require.NoError(t, err)

		assert.True(t, analysis.HasPool)
		assert.True(t, analysis.IsMintable)
		require.NotNil(t, analysis.WsolPool)
		assert.Equal(t, 9000.0, analysis.WsolPool.TVL)
		assert.InDelta(t, 2.0, analysis.WsolPoolAge, 0.01)
		require.NotNil(t, analysis.UsdcPool)
		assert.InDelta(t, 0.5, analysis.UsdcPoolAge, 0.01)
	})

	t.Run("no reference pools", func(t *testing.T) {
		pools := &fakePoolClient{pools: map[string][]raydium.Pool{mint: {
			poolAt(mint, "SomeOtherMint", 100, time.Hour),
		}}}

		analysis, err := NewAnalyzer(pools, &fakeMintChecker{}).Analyze(ctx, mint)
		require.NoError(t, err)
		assert.False(t, analysis.HasPool)
		assert.Nil(t, analysis.WsolPool)
		assert.Nil(t, analysis.UsdcPool)
		assert.Zero(t, analysis.UsdcPoolAge)
	})

	t.Run("empty pool set still computes mintability", func(t *testing.T) {
		pools := &fakePoolClient{pools: map[string][]raydium.Pool{}}

		analysis, err := NewAnalyzer(pools, &fakeMintChecker{mintable: true}).Analyze(ctx, mint)
		require.NoError(t, err)
		assert.False(t, analysis.HasPool)
		assert.True(t, analysis.IsMintable)
	})

	t.Run("pool query failure is unavailable", func(t *testing.T) {
		pools := &fakePoolClient{err: errors.New("max retries exceeded")}

		_, err := NewAnalyzer(pools, &fakeMintChecker{}).Analyze(ctx, mint)
		assert.Error(t, err)
	})

	t.Run("mintability failure degrades to not mintable", func(t *testing.T) {
		pools := &fakePoolClient{pools: map[string][]raydium.Pool{mint: {
			poolAt(USDCMint, mint, 500, time.Hour),
		}}}

		analysis, err := NewAnalyzer(pools, &fakeMintChecker{err: errors.New("rpc down")}).Analyze(ctx, mint)
		require.NoError(t, err)
		assert.False(t, analysis.IsMintable)
		assert.True(t, analysis.HasPool)
	})
}
