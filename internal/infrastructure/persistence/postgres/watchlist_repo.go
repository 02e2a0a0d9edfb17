// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/domain/repository"
)

// WatchlistRepository 片单仓储实现
type WatchlistRepository struct {
	client *Client
}

// NewWatchlistRepository 创建片单仓储
func NewWatchlistRepository(client *Client) *WatchlistRepository {
	return &WatchlistRepository{client: client}
}

// Create 创建片单条目
func (r *WatchlistRepository) Create(ctx context.Context, item *entity.WatchlistItem) error {
	ctx, span := tracer.Start(ctx, "postgres.WatchlistRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	m := toWatchlistModel(item)
	if err := db.Create(m).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create watchlist item: %w", err)
	}
	item.ID = m.ID
	return nil
}

// GetByID 根据 ID 获取片单条目
func (r *WatchlistRepository) GetByID(ctx context.Context, id string) (*entity.WatchlistItem, error) {
	ctx, span := tracer.Start(ctx, "postgres.WatchlistRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var m watchlistModel
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get watchlist item: %w", err)
	}
	return m.toEntity(), nil
}

// GetByCatalogItem 根据用户与目录条目获取片单条目
func (r *WatchlistRepository) GetByCatalogItem(ctx context.Context, userID string, catalogID int64, mediaType entity.MediaType) (*entity.WatchlistItem, error) {
	ctx, span := tracer.Start(ctx, "postgres.WatchlistRepository.GetByCatalogItem")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var m watchlistModel
	err := db.First(&m, "user_id = ? AND catalog_id = ? AND media_type = ?", userID, catalogID, string(mediaType)).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get watchlist item by catalog item: %w", err)
	}
	return m.toEntity(), nil
}

// Update 更新片单条目
func (r *WatchlistRepository) Update(ctx context.Context, item *entity.WatchlistItem) error {
	ctx, span := tracer.Start(ctx, "postgres.WatchlistRepository.Update")
	defer span.End()

	item.UpdatedAt = time.Now()
	db := getDB(ctx, r.client.db)
	if err := db.Save(toWatchlistModel(item)).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update watchlist item: %w", err)
	}
	return nil
}

// Delete 删除片单条目
func (r *WatchlistRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.WatchlistRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&watchlistModel{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete watchlist item: %w", err)
	}
	return nil
}

// ListByUser 获取用户片单列表
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID string, filter repository.WatchlistFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.WatchlistItem], error) {
	ctx, span := tracer.Start(ctx, "postgres.WatchlistRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&watchlistModel{}).Where("user_id = ?", userID)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.MediaType != "" {
		query = query.Where("media_type = ?", string(filter.MediaType))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count watchlist items: %w", err)
	}

	var models []*watchlistModel
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&models).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list watchlist items: %w", err)
	}

	items := make([]*entity.WatchlistItem, 0, len(models))
	for _, m := range models {
		items = append(items, m.toEntity())
	}
	return repository.NewPagedResult(items, total, pagination), nil
}
