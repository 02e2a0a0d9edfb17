// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/domain/repository"
)

// SearchRecordRepository 检索历史仓储实现
type SearchRecordRepository struct {
	client *Client
}

// NewSearchRecordRepository 创建检索历史仓储
func NewSearchRecordRepository(client *Client) *SearchRecordRepository {
	return &SearchRecordRepository{client: client}
}

// Create 写入检索记录
func (r *SearchRecordRepository) Create(ctx context.Context, record *entity.SearchRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.SearchRecordRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	m := toSearchRecordModel(record)
	if err := db.Create(m).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create search record: %w", err)
	}
	record.ID = m.ID
	return nil
}

// ListByUser 获取用户检索历史，按时间倒序
func (r *SearchRecordRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.SearchRecord], error) {
	ctx, span := tracer.Start(ctx, "postgres.SearchRecordRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&searchRecordModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count search records: %w", err)
	}

	var models []*searchRecordModel
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&models).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list search records: %w", err)
	}

	records := make([]*entity.SearchRecord, 0, len(models))
	for _, m := range models {
		records = append(records, m.toEntity())
	}
	return repository.NewPagedResult(records, total, pagination), nil
}

// Delete 删除用户的单条检索记录
func (r *SearchRecordRepository) Delete(ctx context.Context, userID, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.SearchRecordRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&searchRecordModel{}, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete search record: %w", err)
	}
	return nil
}

// DeleteByUser 清空用户检索历史
func (r *SearchRecordRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "postgres.SearchRecordRepository.DeleteByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&searchRecordModel{}, "user_id = ?", userID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete search records: %w", err)
	}
	return nil
}
