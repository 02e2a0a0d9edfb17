// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strconv"

	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/infrastructure/catalog"
	"streamguide-api/internal/interfaces/http/dto"
	"streamguide-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CatalogHandler 目录直通处理器
// 趋势榜、类型表与详情页不经过检索管线，直接代理目录 API（带缓存）
type CatalogHandler struct {
	catalogClient *catalog.Client
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(catalogClient *catalog.Client) *CatalogHandler {
	return &CatalogHandler{
		catalogClient: catalogClient,
	}
}

// Trending 获取趋势榜
// @Summary 获取趋势榜
// @Tags Catalog
// @Produce json
// @Param window query string false "时间窗口" Enums(day, week) default(day)
// @Success 200 {object} dto.Response[dto.TrendingResponse]
// @Router /v1/catalog/trending [get]
func (h *CatalogHandler) Trending(c *gin.Context) {
	ctx := c.Request.Context()

	window := c.DefaultQuery("window", "day")
	if window != "day" && window != "week" {
		dto.BadRequest(c, "window must be day or week")
		return
	}

	items, err := h.catalogClient.Trending(ctx, window)
	if err != nil {
		logger.Error(ctx, "failed to get trending", err)
		dto.ServiceUnavailable(c, "catalog temporarily unavailable")
		return
	}

	dto.Success(c, &dto.TrendingResponse{
		Window: window,
		Items:  dto.ToCatalogItemDTOs(items),
	})
}

// Genres 获取电影类型表
// @Summary 获取电影类型表
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.Response[dto.GenreListResponse]
// @Router /v1/catalog/genres [get]
func (h *CatalogHandler) Genres(c *gin.Context) {
	ctx := c.Request.Context()

	genres, err := h.catalogClient.MovieGenres(ctx)
	if err != nil {
		logger.Error(ctx, "failed to get genres", err)
		dto.ServiceUnavailable(c, "catalog temporarily unavailable")
		return
	}

	dto.Success(c, &dto.GenreListResponse{Genres: dto.ToGenreDTOs(genres)})
}

// Detail 获取条目详情
// @Summary 获取条目详情
// @Tags Catalog
// @Produce json
// @Param media_type path string true "媒体类型" Enums(movie, tv)
// @Param id path int true "条目 ID"
// @Success 200 {object} dto.Response[dto.CatalogItemDTO]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/catalog/{media_type}/{id} [get]
func (h *CatalogHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		dto.BadRequest(c, "invalid catalog id")
		return
	}

	var item *entity.CatalogItem
	switch entity.MediaType(c.Param("media_type")) {
	case entity.MediaTypeMovie:
		item, err = h.catalogClient.MovieDetail(ctx, id)
	case entity.MediaTypeTV:
		item, err = h.catalogClient.TVDetail(ctx, id)
	default:
		dto.BadRequest(c, "media_type must be movie or tv")
		return
	}

	if err != nil {
		logger.Error(ctx, "failed to get catalog detail", err)
		dto.ServiceUnavailable(c, "catalog temporarily unavailable")
		return
	}
	if item == nil {
		dto.NotFound(c, "catalog item not found")
		return
	}

	dto.Success(c, dto.ToCatalogItemDTO(item))
}
