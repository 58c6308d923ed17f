package alpha

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"alphawatch/pkg/raydium"
)

// Reference mints used to price arbitrary tokens.
const (
	WSOLMint = "So11111111111111111111111111111111111111112"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

// PoolClient fetches the pool set for a token.
type PoolClient interface {
	GetPoolsForMint(ctx context.Context, tokenMint string) ([]raydium.Pool, error)
}

// MintChecker resolves whether a token is still mintable.
type MintChecker interface {
	IsTokenMintable(ctx context.Context, mintAddress string) (bool, error)
}

// PoolAnalysis is the reconciled view of a token's liquidity: the best
// (highest-TVL) pool against each reference currency plus the mintability
// flag. Ages are in days and zero when the pool is absent.
type PoolAnalysis struct {
	HasPool     bool
	IsMintable  bool
	WsolPool    *raydium.Pool
	UsdcPool    *raydium.Pool
	WsolPoolAge float64
	UsdcPoolAge float64
}

// Analyzer combines the pool query and the mintability check.
type Analyzer struct {
	pools PoolClient
	mints MintChecker
	now   func() time.Time
}

// NewAnalyzer creates an analyzer over the given clients.
func NewAnalyzer(pools PoolClient, mints MintChecker) *Analyzer {
	return &Analyzer{pools: pools, mints: mints, now: time.Now}
}

// Analyze fetches the pool set for tokenMint and selects, independently,
// the highest-TVL WSOL pool and the highest-TVL USDC pool. An error means
// the data source was unavailable this cycle; the caller skips the token
// and retries next cycle. "No pools" is a valid result, not an error.
func (a *Analyzer) Analyze(ctx context.Context, tokenMint string) (*PoolAnalysis, error) {
	pools, err := a.pools.GetPoolsForMint(ctx, tokenMint)
	if err != nil {
		return nil, fmt.Errorf("pool data unavailable for %s: %w", tokenMint, err)
	}

	mintable, err := a.mints.IsTokenMintable(ctx, tokenMint)
	if err != nil {
		// A pool answer is still worth a signal; log and treat as not
		// mintable rather than dropping the token.
		log.Warnf("Mintability check failed for %s: %v", tokenMint, err)
		mintable = false
	}

	analysis := &PoolAnalysis{IsMintable: mintable}
	now := a.now()

	for i := range pools {
		pool := &pools[i]
		if pairsWith(pool, WSOLMint) {
			if analysis.WsolPool == nil || pool.TVL > analysis.WsolPool.TVL {
				analysis.WsolPool = pool
			}
		}
		if pairsWith(pool, USDCMint) {
			if analysis.UsdcPool == nil || pool.TVL > analysis.UsdcPool.TVL {
				analysis.UsdcPool = pool
			}
		}
	}

	if analysis.WsolPool != nil {
		analysis.WsolPoolAge = analysis.WsolPool.AgeDays(now)
	}
	if analysis.UsdcPool != nil {
		analysis.UsdcPoolAge = analysis.UsdcPool.AgeDays(now)
	}
	analysis.HasPool = analysis.WsolPool != nil || analysis.UsdcPool != nil

	return analysis, nil
}

func pairsWith(pool *raydium.Pool, mint string) bool {
	return pool.BaseMint == mint || pool.QuoteMint == mint
}
