package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alphawatch/internal/models"
)

// signalMetricColumns are the columns overwritten on re-analysis. tweeted
// and added_at are deliberately absent so a re-upsert never reverts the
// posted flag or the first-seen time.
var signalMetricColumns = []string{
	"handle", "bio", "followers_count", "following_count", "tweets_count",
	"account_created", "is_mintable", "has_pool",
	"wsol_pool_age", "usdc_pool_age", "wsol_pool_tvl", "usdc_pool_tvl",
	"wsol_pool_volume_24h", "usdc_pool_volume_24h",
	"wsol_pool_price", "usdc_pool_price",
}

// GormStore implements Store on top of gorm. Both supported dialects go
// through identical statements; gorm renders the conflict clauses and
// boolean literals per backend.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened *gorm.DB.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetStoredFollowingIDs(ctx context.Context, handle string) (map[string]struct{}, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.FollowEdge{}).
		Where("handle = ?", handle).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load stored following for %s: %w", handle, err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *GormStore) BulkUpsertFollowEdges(ctx context.Context, edges []models.FollowEdge) error {
	if len(edges) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edges).Error
	if err != nil {
		return fmt.Errorf("bulk insert follow edges: %w", err)
	}
	return nil
}

func (s *GormStore) UpsertAlphaSignal(ctx context.Context, signal *models.AlphaSignal) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_mint"}},
			DoUpdates: clause.AssignmentColumns(signalMetricColumns),
		}).
		Create(signal).Error
	if err != nil {
		return fmt.Errorf("upsert alpha signal %s: %w", signal.TokenMint, err)
	}
	return nil
}

func (s *GormStore) GetUnpostedSignals(ctx context.Context, limit int) ([]models.AlphaSignal, error) {
	query := s.db.WithContext(ctx).
		Where("tweeted = ?", false).
		Order("added_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var signals []models.AlphaSignal
	if err := query.Find(&signals).Error; err != nil {
		return nil, fmt.Errorf("load unposted signals: %w", err)
	}
	return signals, nil
}

func (s *GormStore) MarkSignalTweeted(ctx context.Context, tokenMint string) error {
	err := s.db.WithContext(ctx).
		Model(&models.AlphaSignal{}).
		Where("token_mint = ?", tokenMint).
		Update("tweeted", true).Error
	if err != nil {
		return fmt.Errorf("mark signal %s tweeted: %w", tokenMint, err)
	}
	return nil
}

// GetSignal returns one signal by token mint.
func (s *GormStore) GetSignal(ctx context.Context, tokenMint string) (*models.AlphaSignal, error) {
	var signal models.AlphaSignal
	err := s.db.WithContext(ctx).
		Where("token_mint = ?", tokenMint).
		First(&signal).Error
	if err != nil {
		return nil, fmt.Errorf("load signal %s: %w", tokenMint, err)
	}
	return &signal, nil
}

// ListSignals returns signals newest first with optional tweeted filter,
// for the read API.
func (s *GormStore) ListSignals(ctx context.Context, page, pageSize int, tweeted *bool) ([]models.AlphaSignal, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.AlphaSignal{})
	if tweeted != nil {
		query = query.Where("tweeted = ?", *tweeted)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var signals []models.AlphaSignal
	err := query.
		Order("added_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&signals).Error
	if err != nil {
		return nil, 0, err
	}
	return signals, total, nil
}

// ListFollowEdges returns the persisted edges for one observer handle,
// newest first, for the read API.
func (s *GormStore) ListFollowEdges(ctx context.Context, handle string, page, pageSize int) ([]models.FollowEdge, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.FollowEdge{}).Where("handle = ?", handle)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var edges []models.FollowEdge
	err := query.
		Order("added_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&edges).Error
	if err != nil {
		return nil, 0, err
	}
	return edges, total, nil
}
