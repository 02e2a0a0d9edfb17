// Package entity 定义领域实体
package entity

import "time"

// WatchStatus 观看状态
type WatchStatus string

const (
	WatchStatusWant     WatchStatus = "want"
	WatchStatusWatching WatchStatus = "watching"
	WatchStatusWatched  WatchStatus = "watched"
)

// IsValid 检查观看状态是否合法
func (s WatchStatus) IsValid() bool {
	switch s {
	case WatchStatusWant, WatchStatusWatching, WatchStatusWatched:
		return true
	}
	return false
}

// WatchlistItem 片单条目
// (UserID, CatalogID, MediaType) 唯一；标题与海报为加入时的快照，
// 渲染列表时无需再访问目录 API
type WatchlistItem struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	CatalogID  int64       `json:"catalog_id"`
	MediaType  MediaType   `json:"media_type"`
	Title      string      `json:"title"`
	PosterPath string      `json:"poster_path,omitempty"`
	GenreIDs   []int64     `json:"genre_ids,omitempty"`
	Status     WatchStatus `json:"status"`
	// Rating 用户评分 0-10，nil 表示未评分
	Rating    *float64  `json:"rating,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWatchlistItem 创建片单条目
func NewWatchlistItem(userID string, item CatalogItem) *WatchlistItem {
	now := time.Now()
	return &WatchlistItem{
		UserID:     userID,
		CatalogID:  item.ID,
		MediaType:  item.MediaType,
		Title:      item.Title,
		PosterPath: item.PosterPath,
		GenreIDs:   item.GenreIDs,
		Status:     WatchStatusWant,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
