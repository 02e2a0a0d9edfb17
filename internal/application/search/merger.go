package search

import (
	"sort"

	"streamguide-api/internal/domain/entity"
)

// identity 去重键 (id, mediaType)
type identity struct {
	id        int64
	mediaType entity.MediaType
}

// Merge 合并多策略结果：位置分 × 策略权重，跨策略重复命中加成，降序截断
//
// 处理顺序严格遵循 entity.StrategyPriority，与策略完成顺序无关；
// 首次出现的策略权重全额计入，后续策略按 crossStrategyBoost 系数累加。
// 分数相同时按热度降序，再按 (id, mediaType) 升序，保证输出完全确定。
func Merge(results []StrategyResult, analysis *entity.QueryAnalysis, maxResults int) []entity.ScoredResult {
	if maxResults <= 0 {
		maxResults = 20
	}

	weights := effectiveWeights(analysis)

	merged := make(map[identity]*entity.ScoredResult)
	var order []identity

	for _, sr := range results {
		weight := weights[sr.Strategy]
		total := len(sr.Items)
		for position, item := range sr.Items {
			positionScore := 1 - float64(position)/float64(total)
			if positionScore < 0 {
				positionScore = 0
			}
			weightedScore := positionScore * weight

			key := identity{id: item.ID, mediaType: item.MediaType}
			if existing, ok := merged[key]; ok {
				// 跨策略一致性加成，边际递减
				existing.Score += crossStrategyBoost * weightedScore
				existing.Sources = appendSource(existing.Sources, sr.Strategy)
				continue
			}

			merged[key] = &entity.ScoredResult{
				Item:    item,
				Score:   weightedScore,
				Sources: []entity.SearchStrategy{sr.Strategy},
			}
			order = append(order, key)
		}
	}

	scored := make([]entity.ScoredResult, 0, len(order))
	for _, key := range order {
		scored = append(scored, *merged[key])
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Item.Popularity != b.Item.Popularity {
			return a.Item.Popularity > b.Item.Popularity
		}
		if a.Item.ID != b.Item.ID {
			return a.Item.ID < b.Item.ID
		}
		return a.Item.MediaType < b.Item.MediaType
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

// effectiveWeights 基础权重叠加意图覆盖
func effectiveWeights(analysis *entity.QueryAnalysis) map[entity.SearchStrategy]float64 {
	weights := make(map[entity.SearchStrategy]float64, len(strategyWeights))
	for strategy, w := range strategyWeights {
		weights[strategy] = w
	}

	if analysis == nil {
		return weights
	}
	switch analysis.Intent {
	case entity.IntentMoodSearch:
		weights[entity.StrategyMood] = moodIntentWeight
	case entity.IntentActorSearch:
		weights[entity.StrategyPerson] = actorIntentWeight
	}
	return weights
}

// appendSource 去重追加来源策略
func appendSource(sources []entity.SearchStrategy, s entity.SearchStrategy) []entity.SearchStrategy {
	for _, existing := range sources {
		if existing == s {
			return sources
		}
	}
	return append(sources, s)
}

// Items 取合并结果中的条目列表
func Items(scored []entity.ScoredResult) []entity.CatalogItem {
	items := make([]entity.CatalogItem, 0, len(scored))
	for _, s := range scored {
		items = append(items, s.Item)
	}
	return items
}
