// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"streamguide-api/internal/domain/entity"
)

// WatchlistFilter 片单查询过滤条件
type WatchlistFilter struct {
	Status    entity.WatchStatus `json:"status,omitempty"`
	MediaType entity.MediaType   `json:"media_type,omitempty"`
}

// WatchlistRepository 片单仓储接口
type WatchlistRepository interface {
	// Create 创建片单条目
	Create(ctx context.Context, item *entity.WatchlistItem) error

	// GetByID 根据 ID 获取片单条目
	GetByID(ctx context.Context, id string) (*entity.WatchlistItem, error)

	// GetByCatalogItem 根据用户与目录条目获取片单条目
	GetByCatalogItem(ctx context.Context, userID string, catalogID int64, mediaType entity.MediaType) (*entity.WatchlistItem, error)

	// Update 更新片单条目
	Update(ctx context.Context, item *entity.WatchlistItem) error

	// Delete 删除片单条目
	Delete(ctx context.Context, id string) error

	// ListByUser 获取用户片单列表
	ListByUser(ctx context.Context, userID string, filter WatchlistFilter, pagination Pagination) (*PagedResult[*entity.WatchlistItem], error)
}
