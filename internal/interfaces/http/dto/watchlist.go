// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"streamguide-api/internal/domain/entity"
)

// AddWatchlistRequest 加入片单请求
// 标题与海报由客户端随检索结果一并提交，服务端存为快照
type AddWatchlistRequest struct {
	CatalogID  int64            `json:"catalog_id" binding:"required"`
	MediaType  entity.MediaType `json:"media_type" binding:"required,oneof=movie tv"`
	Title      string           `json:"title" binding:"required,max=512"`
	PosterPath string           `json:"poster_path" binding:"omitempty,max=256"`
	GenreIDs   []int64          `json:"genre_ids" binding:"omitempty,max=16"`
}

// UpdateWatchlistRequest 更新片单条目请求
type UpdateWatchlistRequest struct {
	Status *entity.WatchStatus `json:"status" binding:"omitempty,oneof=want watching watched"`
	Rating *float64            `json:"rating" binding:"omitempty,min=0,max=10"`
	Note   *string             `json:"note" binding:"omitempty,max=2048"`
}

// WatchlistItemResponse 片单条目响应
type WatchlistItemResponse struct {
	ID         string             `json:"id"`
	CatalogID  int64              `json:"catalog_id"`
	MediaType  entity.MediaType   `json:"media_type"`
	Title      string             `json:"title"`
	PosterPath string             `json:"poster_path,omitempty"`
	GenreIDs   []int64            `json:"genre_ids,omitempty"`
	Status     entity.WatchStatus `json:"status"`
	Rating     *float64           `json:"rating,omitempty"`
	Note       string             `json:"note,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// WatchlistResponse 片单列表响应
type WatchlistResponse struct {
	Items []*WatchlistItemResponse `json:"items"`
}

// ToWatchlistItemResponse 实体转换为响应
func ToWatchlistItemResponse(item *entity.WatchlistItem) *WatchlistItemResponse {
	if item == nil {
		return nil
	}
	return &WatchlistItemResponse{
		ID:         item.ID,
		CatalogID:  item.CatalogID,
		MediaType:  item.MediaType,
		Title:      item.Title,
		PosterPath: item.PosterPath,
		GenreIDs:   item.GenreIDs,
		Status:     item.Status,
		Rating:     item.Rating,
		Note:       item.Note,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

// ToWatchlistResponse 实体列表转换为响应
func ToWatchlistResponse(items []*entity.WatchlistItem) *WatchlistResponse {
	resp := &WatchlistResponse{Items: make([]*WatchlistItemResponse, len(items))}
	for i, item := range items {
		resp.Items[i] = ToWatchlistItemResponse(item)
	}
	return resp
}

// ApplyToItem 更新实体
func (r *UpdateWatchlistRequest) ApplyToItem(item *entity.WatchlistItem) {
	if r.Status != nil {
		item.Status = *r.Status
	}
	if r.Rating != nil {
		item.Rating = r.Rating
	}
	if r.Note != nil {
		item.Note = *r.Note
	}
	item.UpdatedAt = time.Now()
}
