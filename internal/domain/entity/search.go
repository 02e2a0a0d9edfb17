// Package entity 定义领域实体
package entity

// SearchIntent 查询意图
type SearchIntent string

const (
	IntentSpecificTitle SearchIntent = "specific_title"
	IntentActorSearch   SearchIntent = "actor_search"
	IntentGenreSearch   SearchIntent = "genre_search"
	IntentMoodSearch    SearchIntent = "mood_search"
	IntentGeneral       SearchIntent = "general"
)

// QueryComplexity 查询复杂度
type QueryComplexity string

const (
	ComplexitySimple   QueryComplexity = "simple"
	ComplexityModerate QueryComplexity = "moderate"
	ComplexityComplex  QueryComplexity = "complex"
)

// EntityKind 查询实体类别，封闭集合
type EntityKind string

const (
	EntityKindPerson EntityKind = "person"
	EntityKindGenre  EntityKind = "genre"
	EntityKindMood   EntityKind = "mood"
	EntityKindYear   EntityKind = "year"
)

// QueryEntity 从查询中识别出的实体
// Kind 决定 Value 的解释方式：person/genre/mood 为名称，year 为四位年份
type QueryEntity struct {
	Kind       EntityKind `json:"kind"`
	Value      string     `json:"value"`
	Confidence float64    `json:"confidence"`
}

// QueryAnalysis 查询分析结果，一次检索内的瞬态值，不持久化
type QueryAnalysis struct {
	Query      string          `json:"query"`
	Intent     SearchIntent    `json:"intent"`
	Entities   []QueryEntity   `json:"entities"`
	Mood       string          `json:"mood,omitempty"`
	Complexity QueryComplexity `json:"complexity"`
	Confidence float64         `json:"confidence"`
	// AIPowered 标记分析是否来自 LLM 路径
	AIPowered bool `json:"ai_powered"`
}

// SearchStrategy 检索策略标识
type SearchStrategy string

const (
	StrategyText    SearchStrategy = "text"
	StrategyPerson  SearchStrategy = "person"
	StrategyEntity  SearchStrategy = "entity"
	StrategyMood    SearchStrategy = "mood"
	StrategyKeyword SearchStrategy = "keyword"
)

// StrategyPriority 策略的固定优先级顺序，合并阶段按此顺序处理
// 保证相同输入下结果确定
var StrategyPriority = []SearchStrategy{
	StrategyText,
	StrategyPerson,
	StrategyEntity,
	StrategyMood,
	StrategyKeyword,
}

// ScoredResult 带权重分的检索结果，一次检索内的瞬态值
type ScoredResult struct {
	Item CatalogItem `json:"item"`
	// Score 合并后的综合分
	Score float64 `json:"score"`
	// Sources 贡献过该条目的策略，按固定优先级顺序
	Sources []SearchStrategy `json:"sources"`
}
