// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"encoding/json"
	"time"

	"streamguide-api/internal/application/search"
	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/domain/repository"
	redisinfra "streamguide-api/internal/infrastructure/persistence/redis"
	"streamguide-api/internal/interfaces/http/dto"
	"streamguide-api/internal/interfaces/http/middleware"
	"streamguide-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// userPrefsCacheTTL 用户偏好缓存时长，偏好变更时由 InvalidateUser 提前失效
const userPrefsCacheTTL = 5 * time.Minute

// SearchHandler 智能检索处理器
type SearchHandler struct {
	searchService *search.Service
	userRepo      repository.UserRepository
	cache         *redisinfra.Cache
}

// NewSearchHandler 创建智能检索处理器
// cache 允许为 nil，退化为每次请求直查用户偏好
func NewSearchHandler(searchService *search.Service, userRepo repository.UserRepository, cache *redisinfra.Cache) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		userRepo:      userRepo,
		cache:         cache,
	}
}

// Search 智能检索
// @Summary 自然语言智能检索
// @Description 分析查询意图，多策略并行检索目录并合并排序
// @Tags Search
// @Accept json
// @Produce json
// @Param body body dto.SearchRequest true "检索请求"
// @Success 200 {object} dto.Response[dto.SearchResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/search [post]
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	h.perform(c, req)
}

// SearchGet 智能检索（查询参数形式）
// @Summary 自然语言智能检索
// @Description 与 POST /v1/search 等价，便于直接链接与调试
// @Tags Search
// @Produce json
// @Param q query string true "查询文本"
// @Param max_results query int false "结果上限"
// @Param include_people query bool false "是否包含人物内容"
// @Success 200 {object} dto.Response[dto.SearchResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/search [get]
func (h *SearchHandler) SearchGet(c *gin.Context) {
	var req dto.SearchQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		dto.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	h.perform(c, dto.SearchRequest{
		Query:         req.Query,
		MaxResults:    req.MaxResults,
		IncludePeople: req.IncludePeople,
	})
}

func (h *SearchHandler) perform(c *gin.Context, req dto.SearchRequest) {
	ctx := c.Request.Context()

	userID := middleware.GetUserIDFromGin(c)
	historyUserID := userID
	if userID != "" {
		// 偏好中关闭历史记录时不投递事件
		prefs, err := h.loadPreferences(ctx, userID)
		if err != nil {
			logger.Warn(ctx, "failed to load user preferences", "error", err, "user_id", userID)
		}
		if prefs != nil && prefs.HistoryOptOut {
			historyUserID = ""
		}
	}

	result, err := h.searchService.Search(ctx, historyUserID, req.Query, search.Options{
		IncludePersonContent: req.IncludePeople,
		MaxResults:           req.MaxResults,
	})
	if err != nil {
		logger.Error(ctx, "search failed", err, "query", req.Query)
		dto.InternalError(c, "search failed")
		return
	}

	dto.Success(c, dto.ToSearchResponse(result))
}

// loadPreferences 读穿缓存加载用户偏好，检索是偏好读取的热路径
func (h *SearchHandler) loadPreferences(ctx context.Context, userID string) (*entity.UserPreferences, error) {
	load := func() (*entity.UserPreferences, error) {
		user, err := h.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil || user.Preferences == nil {
			return &entity.UserPreferences{}, nil
		}
		return user.Preferences, nil
	}

	if h.cache == nil {
		return load()
	}

	data, err := h.cache.GetOrLoadSafe(ctx, userPrefsCacheKey(userID), userPrefsCacheTTL, func() (interface{}, error) {
		return load()
	})
	if err != nil {
		return load()
	}

	var prefs entity.UserPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return load()
	}
	return &prefs, nil
}

func userPrefsCacheKey(userID string) string {
	return "user:" + userID + ":prefs"
}
