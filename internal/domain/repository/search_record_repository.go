// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"streamguide-api/internal/domain/entity"
)

// SearchRecordRepository 检索历史仓储接口
type SearchRecordRepository interface {
	// Create 写入检索记录
	Create(ctx context.Context, record *entity.SearchRecord) error

	// ListByUser 获取用户检索历史，按时间倒序
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.SearchRecord], error)

	// Delete 删除用户的单条检索记录
	Delete(ctx context.Context, userID, id string) error

	// DeleteByUser 清空用户检索历史
	DeleteByUser(ctx context.Context, userID string) error
}
