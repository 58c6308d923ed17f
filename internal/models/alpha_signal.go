package models

import (
	"time"
)

// AlphaSignal is the persisted outcome of analyzing one token found in a
// newly followed account's bio. One row per token mint; re-analysis
// overwrites the metrics but never resets Tweeted or AddedAt.
//
// Pool columns are pointers so "no such pool" survives a round trip through
// either backend as NULL rather than a zero value.
type AlphaSignal struct {
	TokenMint         string     `gorm:"primaryKey;size:64;column:token_mint" json:"token_mint"`
	Handle            string     `gorm:"size:64;not null" json:"handle"`
	Bio               string     `gorm:"type:text" json:"bio"`
	FollowersCount    int        `gorm:"not null" json:"followers_count"`
	FollowingCount    int        `gorm:"not null" json:"following_count"`
	TweetsCount       int        `gorm:"not null" json:"tweets_count"`
	AccountCreated    *time.Time `json:"account_created"`
	IsMintable        bool       `gorm:"not null" json:"is_mintable"`
	HasPool           bool       `gorm:"not null" json:"has_pool"`
	WsolPoolAge       *float64   `json:"wsol_pool_age"`
	UsdcPoolAge       *float64   `json:"usdc_pool_age"`
	WsolPoolTvl       *float64   `json:"wsol_pool_tvl"`
	UsdcPoolTvl       *float64   `json:"usdc_pool_tvl"`
	WsolPoolVolume24h *float64   `gorm:"column:wsol_pool_volume_24h" json:"wsol_pool_volume_24h"`
	UsdcPoolVolume24h *float64   `gorm:"column:usdc_pool_volume_24h" json:"usdc_pool_volume_24h"`
	WsolPoolPrice     *float64   `json:"wsol_pool_price"`
	UsdcPoolPrice     *float64   `json:"usdc_pool_price"`
	Tweeted           bool       `gorm:"default:false" json:"tweeted"`
	AddedAt           time.Time  `json:"added_at" gorm:"autoCreateTime"`
}

func (AlphaSignal) TableName() string {
	return "alpha_analysis"
}
