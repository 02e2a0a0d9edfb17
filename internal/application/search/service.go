package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"streamguide-api/internal/config"
	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/infrastructure/messaging"
	"streamguide-api/pkg/logger"
	"streamguide-api/pkg/metrics"
)

var tracer = otel.Tracer("application/search")

// emptyResultMaxConfidence 零结果时置信度上限，避免空结果配高置信度误导调用方
const emptyResultMaxConfidence = 0.5

// ResultCache 整体检索结果缓存需要的最小能力，由 redis.Cache 满足
// singleflight 语义：并发同 key 未命中时只有一个 loader 执行
type ResultCache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
}

// HistoryPublisher 检索历史事件投递，由 messaging.Producer 满足
type HistoryPublisher interface {
	PublishSearchEvent(ctx context.Context, event *messaging.SearchEventMessage) (string, error)
}

// Service 检索服务门面：分析 → 多策略执行 → 合并排序 → 洞察生成
// 整条管线对调用方只在目录 API 全量失败等极端情况下返回错误，
// LLM 失败、单策略失败、洞察失败都在内部降级
type Service struct {
	analyzer *Analyzer
	executor *Executor
	insight  *InsightGenerator
	cache    ResultCache
	producer HistoryPublisher
	cfg      config.SearchConfig
}

// NewService 创建检索服务
// cache 与 producer 允许为 nil，分别禁用结果缓存与历史事件投递
func NewService(
	analyzer *Analyzer,
	executor *Executor,
	insight *InsightGenerator,
	cache ResultCache,
	producer HistoryPublisher,
	cfg config.SearchConfig,
) *Service {
	if cfg.DefaultMaxResults <= 0 {
		cfg.DefaultMaxResults = 20
	}
	if cfg.MaxResultsCap <= 0 {
		cfg.MaxResultsCap = 50
	}
	return &Service{
		analyzer: analyzer,
		executor: executor,
		insight:  insight,
		cache:    cache,
		producer: producer,
		cfg:      cfg,
	}
}

// Search 执行一次智能检索
// userID 仅用于历史事件投递，允许为空（匿名检索不记历史）
func (s *Service) Search(ctx context.Context, userID, query string, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "SearchService.Search")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return &Result{
			Query:               "",
			Results:             []entity.CatalogItem{},
			Confidence:          0,
			StrategyDescription: "basic search",
			Intent:              entity.IntentGeneral,
		}, nil
	}

	opts.MaxResults = s.normalizeMaxResults(opts.MaxResults)
	span.SetAttributes(
		attribute.String("search.query", query),
		attribute.Int("search.max_results", opts.MaxResults),
	)

	result, fromCache := s.resolve(ctx, query, opts)
	if fromCache {
		metrics.SearchCacheHits.WithLabelValues("hit").Inc()
	} else {
		metrics.SearchCacheHits.WithLabelValues("miss").Inc()
	}

	span.SetAttributes(
		attribute.String("search.intent", string(result.Intent)),
		attribute.Int("search.result_count", len(result.Results)),
		attribute.Bool("search.ai_powered", result.AIPowered),
		attribute.Bool("search.from_cache", fromCache),
	)

	// 历史事件按用户投递，与结果是否来自缓存无关
	s.publishHistory(ctx, userID, result)

	return result, nil
}

// resolve 通过缓存解析检索结果，未命中时执行管线
// 返回结果与是否来自缓存；缓存层故障时直接执行管线
func (s *Service) resolve(ctx context.Context, query string, opts Options) (*Result, bool) {
	if s.cache == nil || s.cfg.ResultCacheTTL <= 0 {
		return s.runInstrumented(ctx, query, opts), false
	}

	executed := false
	data, err := s.cache.GetOrLoadSafe(ctx, cacheKey(query, opts), s.cfg.ResultCacheTTL, func() (interface{}, error) {
		executed = true
		return s.runInstrumented(ctx, query, opts), nil
	})
	if err == nil && len(data) > 0 {
		var result Result
		if jerr := json.Unmarshal(data, &result); jerr == nil {
			return &result, !executed
		}
	}
	if err != nil {
		logger.Debug(ctx, "search result cache lookup failed", "error", err.Error())
	}

	return s.runInstrumented(ctx, query, opts), false
}

// runInstrumented 执行管线并记录管线级指标
// 指标只统计真实执行，缓存命中不计入
func (s *Service) runInstrumented(ctx context.Context, query string, opts Options) *Result {
	start := time.Now()
	result := s.run(ctx, query, opts)

	metrics.SearchTotal.WithLabelValues(string(result.Intent), fmt.Sprintf("%t", result.AIPowered)).Inc()
	metrics.SearchDuration.WithLabelValues(string(result.Intent)).Observe(time.Since(start).Seconds())
	metrics.SearchResultCount.WithLabelValues(string(result.Intent)).Observe(float64(len(result.Results)))

	return result
}

// run 执行管线主体，永不返回错误
func (s *Service) run(ctx context.Context, query string, opts Options) *Result {
	analysis := s.analyzer.Analyze(ctx, query)
	contributions := s.executor.Execute(ctx, analysis, opts)
	scored := Merge(contributions, analysis, opts.MaxResults)
	items := Items(scored)

	confidence := analysis.Confidence
	if len(items) == 0 && confidence > emptyResultMaxConfidence {
		confidence = emptyResultMaxConfidence
	}

	result := &Result{
		Query:               query,
		Results:             items,
		Confidence:          confidence,
		StrategyDescription: describeStrategies(contributions),
		AIPowered:           analysis.AIPowered,
		Intent:              analysis.Intent,
	}

	if s.cfg.InsightEnabled && s.insight != nil {
		insight := s.insight.Generate(ctx, analysis, items)
		result.Interpretation = insight.Explanation
		result.Suggestions = insight.Suggestions
	}

	return result
}

func (s *Service) normalizeMaxResults(requested int) int {
	if requested <= 0 {
		return s.cfg.DefaultMaxResults
	}
	if requested > s.cfg.MaxResultsCap {
		return s.cfg.MaxResultsCap
	}
	return requested
}

// describeStrategies 描述参与本次检索的策略组合
func describeStrategies(contributions []StrategyResult) string {
	if len(contributions) == 0 {
		return "basic search"
	}
	names := make([]string, 0, len(contributions))
	for _, c := range contributions {
		names = append(names, string(c.Strategy))
	}
	return "multi-strategy search (" + strings.Join(names, " + ") + ")"
}

// cacheKey 归一化查询 + 选项的哈希键
func cacheKey(query string, opts Options) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%t",
		strings.ToLower(query), opts.MaxResults, opts.IncludePersonContent)))
	return "search:result:" + hex.EncodeToString(sum[:16])
}

// publishHistory 投递检索历史事件，失败只记日志
func (s *Service) publishHistory(ctx context.Context, userID string, result *Result) {
	if s.producer == nil || userID == "" {
		return
	}
	event := &messaging.SearchEventMessage{
		UserID:      userID,
		Query:       result.Query,
		Intent:      string(result.Intent),
		Confidence:  result.Confidence,
		ResultCount: len(result.Results),
		AIPowered:   result.AIPowered,
		SearchedAt:  time.Now().Unix(),
	}
	if _, err := s.producer.PublishSearchEvent(ctx, event); err != nil {
		logger.Warn(ctx, "search history publish failed", "user_id", userID, "error", err.Error())
	}
}
