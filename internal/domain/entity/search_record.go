// Package entity 定义领域实体
package entity

import "time"

// SearchRecord 检索历史记录，由 history-worker 异步落库
type SearchRecord struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Query       string       `json:"query"`
	Intent      SearchIntent `json:"intent"`
	Confidence  float64      `json:"confidence"`
	ResultCount int          `json:"result_count"`
	AIPowered   bool         `json:"ai_powered"`
	CreatedAt   time.Time    `json:"created_at"`
}
