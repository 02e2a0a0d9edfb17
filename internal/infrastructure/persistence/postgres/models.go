// Package postgres 提供 PostgreSQL 数据库访问层实现
package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"streamguide-api/internal/domain/entity"
)

// preferencesJSON 用户偏好的 JSONB 列类型
type preferencesJSON struct {
	entity.UserPreferences
}

// Value 实现 driver.Valuer
func (p preferencesJSON) Value() (driver.Value, error) {
	return json.Marshal(p.UserPreferences)
}

// Scan 实现 sql.Scanner
func (p *preferencesJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported preferences column type %T", value)
	}
	return json.Unmarshal(data, &p.UserPreferences)
}

// userModel users 表模型
type userModel struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	Email        string          `gorm:"uniqueIndex;not null"`
	PasswordHash string          `gorm:"not null"`
	Name         string          `gorm:"not null"`
	AvatarURL    string          ``
	Role         string          `gorm:"not null;default:member"`
	Preferences  preferencesJSON `gorm:"type:jsonb"`
	LastLoginAt  *time.Time      ``
	CreatedAt    time.Time       ``
	UpdatedAt    time.Time       ``
}

// TableName 表名
func (userModel) TableName() string { return "users" }

func toUserModel(u *entity.User) *userModel {
	m := &userModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		AvatarURL:    u.AvatarURL,
		Role:         string(u.Role),
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if u.Preferences != nil {
		m.Preferences = preferencesJSON{UserPreferences: *u.Preferences}
	}
	return m
}

func (m *userModel) toEntity() *entity.User {
	prefs := m.Preferences.UserPreferences
	return &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		AvatarURL:    m.AvatarURL,
		Role:         entity.UserRole(m.Role),
		Preferences:  &prefs,
		LastLoginAt:  m.LastLoginAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// watchlistModel watchlist_items 表模型
// (user_id, catalog_id, media_type) 唯一约束承载去重语义
type watchlistModel struct {
	ID         string        `gorm:"type:uuid;primaryKey"`
	UserID     string        `gorm:"type:uuid;index;not null;uniqueIndex:idx_watchlist_user_item"`
	CatalogID  int64         `gorm:"not null;uniqueIndex:idx_watchlist_user_item"`
	MediaType  string        `gorm:"not null;uniqueIndex:idx_watchlist_user_item"`
	Title      string        `gorm:"not null"`
	PosterPath string        ``
	GenreIDs   pq.Int64Array `gorm:"type:bigint[]"`
	Status     string        `gorm:"not null;default:want"`
	Rating     *float64      ``
	Note       string        ``
	CreatedAt  time.Time     ``
	UpdatedAt  time.Time     ``
}

// TableName 表名
func (watchlistModel) TableName() string { return "watchlist_items" }

func toWatchlistModel(item *entity.WatchlistItem) *watchlistModel {
	m := &watchlistModel{
		ID:         item.ID,
		UserID:     item.UserID,
		CatalogID:  item.CatalogID,
		MediaType:  string(item.MediaType),
		Title:      item.Title,
		PosterPath: item.PosterPath,
		GenreIDs:   pq.Int64Array(item.GenreIDs),
		Status:     string(item.Status),
		Rating:     item.Rating,
		Note:       item.Note,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return m
}

func (m *watchlistModel) toEntity() *entity.WatchlistItem {
	return &entity.WatchlistItem{
		ID:         m.ID,
		UserID:     m.UserID,
		CatalogID:  m.CatalogID,
		MediaType:  entity.MediaType(m.MediaType),
		Title:      m.Title,
		PosterPath: m.PosterPath,
		GenreIDs:   []int64(m.GenreIDs),
		Status:     entity.WatchStatus(m.Status),
		Rating:     m.Rating,
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// searchRecordModel search_records 表模型
type searchRecordModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"type:uuid;index;not null"`
	Query       string    `gorm:"not null"`
	Intent      string    ``
	Confidence  float64   ``
	ResultCount int       ``
	AIPowered   bool      `gorm:"column:ai_powered"`
	CreatedAt   time.Time `gorm:"index"`
}

// TableName 表名
func (searchRecordModel) TableName() string { return "search_records" }

func toSearchRecordModel(r *entity.SearchRecord) *searchRecordModel {
	m := &searchRecordModel{
		ID:          r.ID,
		UserID:      r.UserID,
		Query:       r.Query,
		Intent:      string(r.Intent),
		Confidence:  r.Confidence,
		ResultCount: r.ResultCount,
		AIPowered:   r.AIPowered,
		CreatedAt:   r.CreatedAt,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return m
}

func (m *searchRecordModel) toEntity() *entity.SearchRecord {
	return &entity.SearchRecord{
		ID:          m.ID,
		UserID:      m.UserID,
		Query:       m.Query,
		Intent:      entity.SearchIntent(m.Intent),
		Confidence:  m.Confidence,
		ResultCount: m.ResultCount,
		AIPowered:   m.AIPowered,
		CreatedAt:   m.CreatedAt,
	}
}

// AutoMigrate 执行表结构迁移
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&watchlistModel{},
		&searchRecordModel{},
	)
}
