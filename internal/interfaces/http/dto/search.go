// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"streamguide-api/internal/application/search"
	"streamguide-api/internal/domain/entity"
)

// SearchRequest 智能检索请求
type SearchRequest struct {
	Query string `json:"query" binding:"required,max=512"`
	// MaxResults 返回结果上限，0 表示使用服务端默认值
	MaxResults int `json:"max_results" binding:"omitempty,min=1"`
	// IncludePeople 是否允许人物结果
	IncludePeople bool `json:"include_people"`
}

// SearchQueryRequest 查询参数形式的检索请求（GET /v1/search）
type SearchQueryRequest struct {
	Query         string `form:"q" binding:"required,max=512"`
	MaxResults    int    `form:"max_results" binding:"omitempty,min=1"`
	IncludePeople bool   `form:"include_people"`
}

// SearchResponse 智能检索响应
type SearchResponse struct {
	Query               string              `json:"query"`
	Interpretation      string              `json:"interpretation,omitempty"`
	Results             []*CatalogItemDTO   `json:"results"`
	TotalResults        int                 `json:"total_results"`
	Confidence          float64             `json:"confidence"`
	Intent              entity.SearchIntent `json:"intent"`
	StrategyDescription string              `json:"strategy_description"`
	AIPowered           bool                `json:"ai_powered"`
	Suggestions         []string            `json:"suggestions,omitempty"`
}

// ToSearchResponse 检索结果转换为响应
func ToSearchResponse(r *search.Result) *SearchResponse {
	if r == nil {
		return nil
	}
	return &SearchResponse{
		Query:               r.Query,
		Interpretation:      r.Interpretation,
		Results:             ToCatalogItemDTOs(r.Results),
		TotalResults:        len(r.Results),
		Confidence:          r.Confidence,
		Intent:              r.Intent,
		StrategyDescription: r.StrategyDescription,
		AIPowered:           r.AIPowered,
		Suggestions:         r.Suggestions,
	}
}
