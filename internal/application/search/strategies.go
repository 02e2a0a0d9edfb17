package search

import (
	"context"
	"strings"
	"sync"

	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/infrastructure/catalog"
	"streamguide-api/pkg/logger"
	"streamguide-api/pkg/metrics"
)

// Executor 策略执行器
// 所有策略并发执行，fire-all/wait-all；单个策略失败视为空贡献，从不中断整体检索
type Executor struct {
	catalog             CatalogClient
	minEntityConfidence float64
}

// NewExecutor 创建策略执行器
func NewExecutor(client CatalogClient, minEntityConfidence float64) *Executor {
	if minEntityConfidence <= 0 {
		minEntityConfidence = 0.5
	}
	return &Executor{
		catalog:             client,
		minEntityConfidence: minEntityConfidence,
	}
}

// Execute 并发执行所有适用策略
// 返回值按 entity.StrategyPriority 固定顺序排列，与完成顺序无关，保证合并结果确定
func (e *Executor) Execute(ctx context.Context, analysis *entity.QueryAnalysis, opts Options) []StrategyResult {
	type runner func(context.Context) ([]entity.CatalogItem, error)

	runners := map[entity.SearchStrategy]runner{
		entity.StrategyText: func(ctx context.Context) ([]entity.CatalogItem, error) {
			return e.runText(ctx, analysis.Query, opts)
		},
		entity.StrategyEntity: func(ctx context.Context) ([]entity.CatalogItem, error) {
			return e.runEntities(ctx, analysis)
		},
		entity.StrategyMood: func(ctx context.Context) ([]entity.CatalogItem, error) {
			return e.runMood(ctx, analysis)
		},
		entity.StrategyKeyword: func(ctx context.Context) ([]entity.CatalogItem, error) {
			return e.runKeywords(ctx, analysis.Query)
		},
	}
	if opts.IncludePersonContent {
		runners[entity.StrategyPerson] = func(ctx context.Context) ([]entity.CatalogItem, error) {
			return e.runPerson(ctx, analysis.Query)
		}
	}

	collected := make([][]entity.CatalogItem, len(entity.StrategyPriority))

	var wg sync.WaitGroup
	for i, strategy := range entity.StrategyPriority {
		run, ok := runners[strategy]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(slot int, strategy entity.SearchStrategy, run runner) {
			defer wg.Done()
			items, err := run(ctx)
			if err != nil {
				metrics.SearchStrategyErrors.WithLabelValues(string(strategy)).Inc()
				logger.Debug(ctx, "search strategy failed", "strategy", strategy, "error", err.Error())
				return
			}
			metrics.SearchStrategyResults.WithLabelValues(string(strategy)).Add(float64(len(items)))
			collected[slot] = items
		}(i, strategy, run)
	}
	wg.Wait()

	results := make([]StrategyResult, 0, len(entity.StrategyPriority))
	for i, strategy := range entity.StrategyPriority {
		if len(collected[i]) == 0 {
			continue
		}
		results = append(results, StrategyResult{Strategy: strategy, Items: collected[i]})
	}
	return results
}

// runText 基础全文检索
func (e *Executor) runText(ctx context.Context, query string, opts Options) ([]entity.CatalogItem, error) {
	items, err := e.catalog.SearchMulti(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if opts.IncludePersonContent {
		return items, nil
	}
	filtered := make([]entity.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.MediaType != entity.MediaTypePerson {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// runPerson 人物检索并展开代表作
func (e *Executor) runPerson(ctx context.Context, query string) ([]entity.CatalogItem, error) {
	persons, err := e.catalog.SearchPerson(ctx, query, 1)
	if err != nil {
		return nil, err
	}

	var items []entity.CatalogItem
	for _, person := range persons {
		items = append(items, person)
		items = append(items, person.KnownFor...)
	}
	return items, nil
}

// runEntities 按高置信度实体派发检索
// 实体类别是封闭集合，新增类别时此 switch 必须同步扩展
func (e *Executor) runEntities(ctx context.Context, analysis *entity.QueryAnalysis) ([]entity.CatalogItem, error) {
	var items []entity.CatalogItem
	var firstErr error

	for _, ent := range analysis.Entities {
		if ent.Confidence < e.minEntityConfidence {
			continue
		}

		var (
			found []entity.CatalogItem
			err   error
		)
		switch ent.Kind {
		case entity.EntityKindPerson:
			found, err = e.personCredits(ctx, ent.Value)
		case entity.EntityKindGenre:
			if id, ok := genreIDs[strings.ToLower(ent.Value)]; ok {
				found, err = e.catalog.DiscoverMovie(ctx, catalog.DiscoverOptions{GenreIDs: []int64{id}})
			}
		case entity.EntityKindYear:
			year := parseYear(ent.Value)
			if year > 0 {
				found, err = e.catalog.DiscoverMovie(ctx, catalog.DiscoverOptions{Year: year})
			}
		case entity.EntityKindMood:
			// 心情实体由 mood 策略独立处理
		}

		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		items = append(items, found...)
	}

	if len(items) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return items, nil
}

// personCredits 人名 → 人物检索取首个 → 合并作品列表
func (e *Executor) personCredits(ctx context.Context, name string) ([]entity.CatalogItem, error) {
	persons, err := e.catalog.SearchPerson(ctx, name, 1)
	if err != nil {
		return nil, err
	}
	if len(persons) == 0 {
		return nil, nil
	}
	return e.catalog.PersonCombinedCredits(ctx, persons[0].ID)
}

// runMood 心情词经固定映射表转为类型发现
func (e *Executor) runMood(ctx context.Context, analysis *entity.QueryAnalysis) ([]entity.CatalogItem, error) {
	if analysis.Mood == "" {
		return nil, nil
	}
	ids, ok := moodGenres[analysis.Mood]
	if !ok {
		return nil, nil
	}

	movies, err := e.catalog.DiscoverMovie(ctx, catalog.DiscoverOptions{GenreIDs: ids})
	if err != nil {
		return nil, err
	}
	shows, err := e.catalog.DiscoverTV(ctx, catalog.DiscoverOptions{GenreIDs: ids})
	if err != nil {
		// 电影结果已拿到，剧集失败不拖垮整个策略
		return movies, nil
	}
	return append(movies, shows...), nil
}

// runKeywords 关键词兜底：长于 3 个字符的词逐个检索
func (e *Executor) runKeywords(ctx context.Context, query string) ([]entity.CatalogItem, error) {
	var keywords []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		tok = strings.Trim(tok, ",.!?\"'")
		if len(tok) > 3 && !stopwords[tok] {
			keywords = append(keywords, tok)
		}
		if len(keywords) == 3 {
			break
		}
	}
	if len(keywords) == 0 {
		return nil, nil
	}

	var items []entity.CatalogItem
	var firstErr error
	for _, kw := range keywords {
		found, err := e.catalog.SearchMulti(ctx, kw, 1)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		items = append(items, found...)
	}

	if len(items) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return items, nil
}

func parseYear(s string) int {
	year := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	if year < 1900 || year > 2100 {
		return 0
	}
	return year
}
