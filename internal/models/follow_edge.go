package models

import (
	"time"
)

// FollowEdge records that a tracked account followed another account at some
// point. The (handle, following_id) pair is unique; rows are insert-only.
type FollowEdge struct {
	Handle          string    `gorm:"primaryKey;size:64" json:"handle"`
	FollowingID     string    `gorm:"primaryKey;size:64;column:following_id" json:"following_id"`
	FollowingHandle string    `gorm:"size:64;not null" json:"following_handle"`
	Bio             string    `gorm:"type:text" json:"bio"`
	AddedAt         time.Time `json:"added_at" gorm:"autoCreateTime"`
}

func (FollowEdge) TableName() string {
	return "twitter_following"
}
