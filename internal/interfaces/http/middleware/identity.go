// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// IdentityContextKey 身份上下文 Key 类型
type IdentityContextKey string

const (
	// UserIDKey 用户 ID 上下文 Key
	UserIDKey IdentityContextKey = "user_id"
	// RoleKey 用户角色上下文 Key
	RoleKey IdentityContextKey = "role"
)

// Identity 身份传播中间件
// 将 Auth 中间件解析出的用户信息同步到 request context，
// 便于 Repository 与消息投递层使用
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID != "" {
			ctx := context.WithValue(c.Request.Context(), UserIDKey, userID)
			if role := c.GetString("role"); role != "" {
				ctx = context.WithValue(ctx, RoleKey, role)
			}
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// GetUserID 从 context 中获取用户 ID
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserIDFromGin 从 Gin Context 中获取用户 ID
func GetUserIDFromGin(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetRoleFromGin 从 Gin Context 中获取用户角色
func GetRoleFromGin(c *gin.Context) string {
	return c.GetString("role")
}

// RequireAdmin 管理员专属路由守卫，必须在 Auth 之后挂载
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRoleFromGin(c) != "admin" {
			c.AbortWithStatusJSON(403, gin.H{
				"code":     403,
				"message":  "admin role required",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}
		c.Next()
	}
}
