// Package alpha implements the follow monitoring pipeline: follow-graph
// diffing, bio token extraction, pool analysis, signal scoring and the
// adaptive polling loop that drives them.
package alpha

import (
	"regexp"

	"github.com/mr-tron/base58"
)

// Launch tokens carry a mint address ending in this literal suffix.
const launchSuffix = "pump"

// Base58 alphabet, 32-44 chars total including the suffix. Anchored on the
// suffix on purpose: narrow recall, near-zero false positives.
var tokenMintPattern = regexp.MustCompile(`\b[1-9A-HJ-NP-Za-km-z]{28,40}` + launchSuffix + `\b`)

// ExtractTokenMint returns the first launch-token mint found in bio, or ""
// when there is none. Pure function, no I/O.
func ExtractTokenMint(bio string) string {
	if bio == "" {
		return ""
	}

	match := tokenMintPattern.FindString(bio)
	if match == "" {
		return ""
	}

	// The pattern already restricts the alphabet; the decode guards against
	// pathological inputs the regexp engine cannot see.
	if _, err := base58.Decode(match); err != nil {
		return ""
	}
	return match
}
