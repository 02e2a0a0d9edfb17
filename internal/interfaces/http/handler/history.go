// Package handler 提供 HTTP 请求处理器
package handler

import (
	"streamguide-api/internal/domain/repository"
	"streamguide-api/internal/interfaces/http/dto"
	"streamguide-api/internal/interfaces/http/middleware"
	"streamguide-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HistoryHandler 检索历史处理器
type HistoryHandler struct {
	recordRepo repository.SearchRecordRepository
}

// NewHistoryHandler 创建检索历史处理器
func NewHistoryHandler(recordRepo repository.SearchRecordRepository) *HistoryHandler {
	return &HistoryHandler{
		recordRepo: recordRepo,
	}
}

// List 获取检索历史
// @Summary 获取检索历史
// @Description 分页获取当前用户检索历史，按时间倒序
// @Tags History
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.SearchHistoryResponse]
// @Router /v1/search/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	pageReq := dto.BindPage(c)

	result, err := h.recordRepo.ListByUser(ctx, userID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list search history", err)
		dto.InternalError(c, "failed to list search history")
		return
	}

	resp := dto.ToSearchHistoryResponse(result.Items)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, resp, meta)
}

// Delete 删除单条检索记录
// @Summary 删除单条检索记录
// @Tags History
// @Produce json
// @Param id path string true "记录 ID"
// @Success 204
// @Router /v1/search/history/{id} [delete]
func (h *HistoryHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	if err := h.recordRepo.Delete(ctx, userID, c.Param("id")); err != nil {
		logger.Error(ctx, "failed to delete search record", err)
		dto.InternalError(c, "failed to delete search record")
		return
	}

	dto.NoContent(c)
}

// Clear 清空检索历史
// @Summary 清空当前用户检索历史
// @Tags History
// @Produce json
// @Success 204
// @Router /v1/search/history [delete]
func (h *HistoryHandler) Clear(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	if err := h.recordRepo.DeleteByUser(ctx, userID); err != nil {
		logger.Error(ctx, "failed to clear search history", err)
		dto.InternalError(c, "failed to clear search history")
		return
	}

	dto.NoContent(c)
}
