// Package entity 定义领域实体
package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRole 用户角色
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

// UserPreferences 用户偏好，影响检索结果的本地化与过滤
type UserPreferences struct {
	Language        string   `json:"language,omitempty"`
	Region          string   `json:"region,omitempty"`
	IncludeAdult    bool     `json:"include_adult,omitempty"`
	FavoriteGenres  []string `json:"favorite_genres,omitempty"`
	PreferredMedia  string   `json:"preferred_media,omitempty"` // "movie" / "tv" / ""
	HistoryOptOut   bool     `json:"history_opt_out,omitempty"`
	InsightDisabled bool     `json:"insight_disabled,omitempty"`
}

// User 用户实体
type User struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"-"` // 不在 JSON 中暴露
	Name         string           `json:"name"`
	AvatarURL    string           `json:"avatar_url,omitempty"`
	Role         UserRole         `json:"role"`
	Preferences  *UserPreferences `json:"preferences,omitempty"`
	LastLoginAt  *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewUser 创建新用户
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{
		Email:       email,
		Name:        name,
		Role:        UserRoleMember,
		Preferences: &UserPreferences{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsAdmin 检查用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// SetPassword 设置并散列密码
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
