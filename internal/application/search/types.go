// Package search 实现智能检索管线：查询分析、多策略并行检索、结果合并排序与检索洞察
package search

import (
	"context"

	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/infrastructure/catalog"
)

// CatalogClient 检索策略对目录 API 的最小依赖（port）
type CatalogClient interface {
	SearchMulti(ctx context.Context, query string, page int) ([]entity.CatalogItem, error)
	SearchPerson(ctx context.Context, query string, page int) ([]entity.CatalogItem, error)
	DiscoverMovie(ctx context.Context, opts catalog.DiscoverOptions) ([]entity.CatalogItem, error)
	DiscoverTV(ctx context.Context, opts catalog.DiscoverOptions) ([]entity.CatalogItem, error)
	PersonCombinedCredits(ctx context.Context, personID int64) ([]entity.CatalogItem, error)
}

// Options 单次检索选项
type Options struct {
	// IncludePersonContent 允许人物结果与人物策略
	IncludePersonContent bool `json:"include_person_content"`
	// MaxResults 返回结果上限，0 表示使用默认值
	MaxResults int `json:"max_results"`
}

// Result 检索结果
type Result struct {
	Query               string               `json:"query"`
	Interpretation      string               `json:"interpretation"`
	Results             []entity.CatalogItem `json:"results"`
	Confidence          float64              `json:"confidence"`
	StrategyDescription string               `json:"strategy_description"`
	AIPowered           bool                 `json:"ai_powered"`
	Suggestions         []string             `json:"suggestions,omitempty"`
	Intent              entity.SearchIntent  `json:"intent"`
}

// StrategyResult 单个策略的贡献，合并阶段按固定优先级顺序处理
type StrategyResult struct {
	Strategy entity.SearchStrategy
	Items    []entity.CatalogItem
}

// 策略基础权重，下标与 entity.StrategyPriority 对应
var strategyWeights = map[entity.SearchStrategy]float64{
	entity.StrategyText:    1.0,
	entity.StrategyPerson:  0.8,
	entity.StrategyEntity:  0.9,
	entity.StrategyMood:    0.6,
	entity.StrategyKeyword: 0.4,
}

// 意图对特定策略的权重覆盖
const (
	moodIntentWeight  = 1.2
	actorIntentWeight = 1.3
)

// crossStrategyBoost 跨策略重复命中的边际加成系数
const crossStrategyBoost = 0.5

// 启发式分析的置信度常量
// 手调值，作为配置常量对待而非算法不变量
const (
	confidenceMoodMatch  = 0.8
	confidencePersonName = 0.7
	confidenceKnownFirst = 0.8
	confidenceGenreWord  = 0.7
	confidenceYearMatch  = 0.9
	confidenceFallback   = 0.3
)

// moodGenres 心情词到目录类型 ID 的固定映射（TMDB genre IDs）
var moodGenres = map[string][]int64{
	"funny":     {35},        // comedy
	"happy":     {35, 10751}, // comedy, family
	"sad":       {18},        // drama
	"scary":     {27, 53},    // horror, thriller
	"romantic":  {10749},     // romance
	"exciting":  {28, 12},    // action, adventure
	"thrilling": {53},        // thriller
	"relaxing":  {10751, 16}, // family, animation
	"epic":      {12, 14},    // adventure, fantasy
	"dark":      {80, 9648},  // crime, mystery
}

// genreIDs 类型词到目录类型 ID 的固定映射
var genreIDs = map[string]int64{
	"action":          28,
	"adventure":       12,
	"animation":       16,
	"comedy":          35,
	"crime":           80,
	"documentary":     99,
	"drama":           18,
	"family":          10751,
	"fantasy":         14,
	"history":         36,
	"horror":          27,
	"music":           10402,
	"mystery":         9648,
	"romance":         10749,
	"sci-fi":          878,
	"science fiction": 878,
	"thriller":        53,
	"war":             10752,
	"western":         37,
}
