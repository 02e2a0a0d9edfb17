// Package handler 提供 HTTP 请求处理器
package handler

import (
	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/domain/repository"
	"streamguide-api/internal/interfaces/http/dto"
	"streamguide-api/internal/interfaces/http/middleware"
	"streamguide-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// WatchlistHandler 片单处理器
type WatchlistHandler struct {
	watchlistRepo repository.WatchlistRepository
}

// NewWatchlistHandler 创建片单处理器
func NewWatchlistHandler(watchlistRepo repository.WatchlistRepository) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistRepo: watchlistRepo,
	}
}

// Add 加入片单
// @Summary 加入片单
// @Description 将目录条目加入当前用户片单，重复加入返回 409
// @Tags Watchlist
// @Accept json
// @Produce json
// @Param body body dto.AddWatchlistRequest true "目录条目快照"
// @Success 201 {object} dto.Response[dto.WatchlistItemResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/watchlist [post]
func (h *WatchlistHandler) Add(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	var req dto.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	existing, err := h.watchlistRepo.GetByCatalogItem(ctx, userID, req.CatalogID, req.MediaType)
	if err != nil {
		logger.Error(ctx, "failed to check watchlist item", err)
		dto.InternalError(c, "failed to add watchlist item")
		return
	}
	if existing != nil {
		dto.Conflict(c, "item already in watchlist")
		return
	}

	item := entity.NewWatchlistItem(userID, entity.CatalogItem{
		ID:         req.CatalogID,
		MediaType:  req.MediaType,
		Title:      req.Title,
		PosterPath: req.PosterPath,
		GenreIDs:   req.GenreIDs,
	})

	if err := h.watchlistRepo.Create(ctx, item); err != nil {
		logger.Error(ctx, "failed to create watchlist item", err)
		dto.InternalError(c, "failed to add watchlist item")
		return
	}

	dto.Created(c, dto.ToWatchlistItemResponse(item))
}

// List 获取片单列表
// @Summary 获取片单列表
// @Description 分页获取当前用户片单，支持按状态与媒体类型过滤
// @Tags Watchlist
// @Accept json
// @Produce json
// @Param status query string false "观看状态" Enums(want, watching, watched)
// @Param media_type query string false "媒体类型" Enums(movie, tv)
// @Success 200 {object} dto.Response[dto.WatchlistResponse]
// @Router /v1/watchlist [get]
func (h *WatchlistHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	pageReq := dto.BindPage(c)

	filter := repository.WatchlistFilter{}
	if status := entity.WatchStatus(c.Query("status")); status != "" {
		if !status.IsValid() {
			dto.BadRequest(c, "invalid status filter")
			return
		}
		filter.Status = status
	}
	if mediaType := entity.MediaType(c.Query("media_type")); mediaType != "" {
		if mediaType != entity.MediaTypeMovie && mediaType != entity.MediaTypeTV {
			dto.BadRequest(c, "invalid media_type filter")
			return
		}
		filter.MediaType = mediaType
	}

	result, err := h.watchlistRepo.ListByUser(ctx, userID, filter, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list watchlist", err)
		dto.InternalError(c, "failed to list watchlist")
		return
	}

	resp := dto.ToWatchlistResponse(result.Items)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, resp, meta)
}

// Get 获取单个片单条目
// @Summary 获取片单条目
// @Tags Watchlist
// @Produce json
// @Param id path string true "条目 ID"
// @Success 200 {object} dto.Response[dto.WatchlistItemResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/watchlist/{id} [get]
func (h *WatchlistHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	item, err := h.watchlistRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error(ctx, "failed to get watchlist item", err)
		dto.InternalError(c, "failed to get watchlist item")
		return
	}
	if item == nil || item.UserID != userID {
		dto.NotFound(c, "watchlist item not found")
		return
	}

	dto.Success(c, dto.ToWatchlistItemResponse(item))
}

// Update 更新片单条目
// @Summary 更新片单条目
// @Description 修改观看状态、评分或备注
// @Tags Watchlist
// @Accept json
// @Produce json
// @Param id path string true "条目 ID"
// @Param body body dto.UpdateWatchlistRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.WatchlistItemResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/watchlist/{id} [put]
func (h *WatchlistHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	var req dto.UpdateWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	item, err := h.watchlistRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error(ctx, "failed to get watchlist item", err)
		dto.InternalError(c, "failed to update watchlist item")
		return
	}
	if item == nil || item.UserID != userID {
		dto.NotFound(c, "watchlist item not found")
		return
	}

	req.ApplyToItem(item)

	if err := h.watchlistRepo.Update(ctx, item); err != nil {
		logger.Error(ctx, "failed to update watchlist item", err)
		dto.InternalError(c, "failed to update watchlist item")
		return
	}

	dto.Success(c, dto.ToWatchlistItemResponse(item))
}

// Remove 移出片单
// @Summary 移出片单
// @Tags Watchlist
// @Produce json
// @Param id path string true "条目 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/watchlist/{id} [delete]
func (h *WatchlistHandler) Remove(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	item, err := h.watchlistRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error(ctx, "failed to get watchlist item", err)
		dto.InternalError(c, "failed to remove watchlist item")
		return
	}
	if item == nil || item.UserID != userID {
		dto.NotFound(c, "watchlist item not found")
		return
	}

	if err := h.watchlistRepo.Delete(ctx, item.ID); err != nil {
		logger.Error(ctx, "failed to delete watchlist item", err)
		dto.InternalError(c, "failed to remove watchlist item")
		return
	}

	dto.NoContent(c)
}
