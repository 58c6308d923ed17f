package alpha

import (
	"fmt"
	"strings"

	"alphawatch/internal/models"
	"alphawatch/pkg/twitter"
)

// BuildSignal aggregates profile and pool metrics into the persisted
// signal record. Pure aggregation, no I/O.
func BuildSignal(tokenMint string, handle string, profile *twitter.Profile, analysis *PoolAnalysis) models.AlphaSignal {
	signal := models.AlphaSignal{
		TokenMint:  tokenMint,
		Handle:     handle,
		IsMintable: analysis.IsMintable,
		HasPool:    analysis.HasPool,
	}

	if profile != nil {
		signal.Bio = profile.Biography
		signal.FollowersCount = profile.FollowersCount
		signal.FollowingCount = profile.FollowingCount
		signal.TweetsCount = profile.TweetsCount
		signal.AccountCreated = profile.Joined
	}

	if p := analysis.WsolPool; p != nil {
		age, tvl, volume, price := analysis.WsolPoolAge, p.TVL, p.Volume24h, p.Price
		signal.WsolPoolAge = &age
		signal.WsolPoolTvl = &tvl
		signal.WsolPoolVolume24h = &volume
		signal.WsolPoolPrice = &price
	}
	if p := analysis.UsdcPool; p != nil {
		age, tvl, volume, price := analysis.UsdcPoolAge, p.TVL, p.Volume24h, p.Price
		signal.UsdcPoolAge = &age
		signal.UsdcPoolTvl = &tvl
		signal.UsdcPoolVolume24h = &volume
		signal.UsdcPoolPrice = &price
	}

	return signal
}

// IsActionable reports whether the signal is fresh enough for an immediate
// downstream action: the USDC pool must exist and be younger than
// maxAgeDays. Stale or poolless signals are still persisted for analytics
// but not acted on.
func IsActionable(signal *models.AlphaSignal, maxAgeDays float64) bool {
	return signal.UsdcPoolAge != nil && *signal.UsdcPoolAge < maxAgeDays
}

// SignalSummary renders the aggregated facts as a single line of plain
// text for the recommendation oracle.
func SignalSummary(signal *models.AlphaSignal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Token %s found in bio of @%s.", signal.TokenMint, signal.Handle)
	fmt.Fprintf(&b, " Followers: %d, following: %d, tweets: %d.",
		signal.FollowersCount, signal.FollowingCount, signal.TweetsCount)
	fmt.Fprintf(&b, " Mintable: %s. Has pool: %s.",
		yesNo(signal.IsMintable), yesNo(signal.HasPool))

	if signal.UsdcPoolAge != nil {
		fmt.Fprintf(&b, " USDC pool age: %.2f days, TVL: %s, 24h volume: %s, price: %s.",
			*signal.UsdcPoolAge,
			floatOrNA(signal.UsdcPoolTvl),
			floatOrNA(signal.UsdcPoolVolume24h),
			floatOrNA(signal.UsdcPoolPrice))
	} else {
		b.WriteString(" No USDC pool.")
	}
	if signal.WsolPoolAge != nil {
		fmt.Fprintf(&b, " WSOL pool age: %.2f days, TVL: %s.",
			*signal.WsolPoolAge, floatOrNA(signal.WsolPoolTvl))
	} else {
		b.WriteString(" No WSOL pool.")
	}

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func floatOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
