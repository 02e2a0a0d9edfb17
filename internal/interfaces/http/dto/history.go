// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"streamguide-api/internal/domain/entity"
)

// SearchRecordResponse 检索历史条目响应
type SearchRecordResponse struct {
	ID          string              `json:"id"`
	Query       string              `json:"query"`
	Intent      entity.SearchIntent `json:"intent"`
	Confidence  float64             `json:"confidence"`
	ResultCount int                 `json:"result_count"`
	AIPowered   bool                `json:"ai_powered"`
	CreatedAt   time.Time           `json:"created_at"`
}

// SearchHistoryResponse 检索历史列表响应
type SearchHistoryResponse struct {
	Items []*SearchRecordResponse `json:"items"`
}

// ToSearchRecordResponse 实体转换为响应
func ToSearchRecordResponse(r *entity.SearchRecord) *SearchRecordResponse {
	if r == nil {
		return nil
	}
	return &SearchRecordResponse{
		ID:          r.ID,
		Query:       r.Query,
		Intent:      r.Intent,
		Confidence:  r.Confidence,
		ResultCount: r.ResultCount,
		AIPowered:   r.AIPowered,
		CreatedAt:   r.CreatedAt,
	}
}

// ToSearchHistoryResponse 实体列表转换为响应
func ToSearchHistoryResponse(records []*entity.SearchRecord) *SearchHistoryResponse {
	resp := &SearchHistoryResponse{Items: make([]*SearchRecordResponse, len(records))}
	for i, r := range records {
		resp.Items[i] = ToSearchRecordResponse(r)
	}
	return resp
}
