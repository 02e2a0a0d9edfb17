package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamguide-api/internal/domain/entity"
)

func movie(id int64, popularity float64) entity.CatalogItem {
	return entity.CatalogItem{ID: id, MediaType: entity.MediaTypeMovie, Popularity: popularity}
}

func TestMergeDeduplicates(t *testing.T) {
	results := []StrategyResult{
		{Strategy: entity.StrategyText, Items: []entity.CatalogItem{movie(1, 10), movie(2, 5)}},
		{Strategy: entity.StrategyKeyword, Items: []entity.CatalogItem{movie(1, 10), movie(3, 1)}},
	}

	merged := Merge(results, nil, 20)

	require.Len(t, merged, 3)
	seen := map[int64]bool{}
	for _, r := range merged {
		assert.False(t, seen[r.Item.ID], "item %d appears twice", r.Item.ID)
		seen[r.Item.ID] = true
	}
}

func TestMergeCrossStrategyOrder(t *testing.T) {
	// 同一条目在 text 与 keyword 首位：text 全额权重 + keyword 半额加成
	results := []StrategyResult{
		{Strategy: entity.StrategyText, Items: []entity.CatalogItem{movie(1, 10)}},
		{Strategy: entity.StrategyKeyword, Items: []entity.CatalogItem{movie(1, 10)}},
	}

	merged := Merge(results, nil, 20)

	require.Len(t, merged, 1)
	assert.InDelta(t, 1.0+0.5*0.4, merged[0].Score, 1e-9)
	assert.Equal(t, []entity.SearchStrategy{entity.StrategyText, entity.StrategyKeyword}, merged[0].Sources)
}

func TestMergeCrossStrategyBoostOutranks(t *testing.T) {
	// 双策略命中的条目应排在单策略同位条目之前
	results := []StrategyResult{
		{Strategy: entity.StrategyText, Items: []entity.CatalogItem{movie(1, 10), movie(2, 99)}},
		{Strategy: entity.StrategyMood, Items: []entity.CatalogItem{movie(2, 99)}},
	}

	merged := Merge(results, nil, 20)

	require.Len(t, merged, 2)
	// movie 2: text 位置分 0.5 × 1.0 + mood 加成 0.5 × (1.0 × 0.6) = 0.8
	// movie 1: text 位置分 1.0 × 1.0 = 1.0
	assert.Equal(t, int64(1), merged[0].Item.ID)
	assert.Equal(t, int64(2), merged[1].Item.ID)
	assert.InDelta(t, 0.8, merged[1].Score, 1e-9)
}

func TestMergeIntentOverridesWeights(t *testing.T) {
	results := []StrategyResult{
		{Strategy: entity.StrategyText, Items: []entity.CatalogItem{movie(1, 1)}},
		{Strategy: entity.StrategyMood, Items: []entity.CatalogItem{movie(2, 1)}},
	}
	analysis := &entity.QueryAnalysis{Intent: entity.IntentMoodSearch}

	merged := Merge(results, analysis, 20)

	require.Len(t, merged, 2)
	// mood 意图下 mood 权重 1.2 > text 1.0
	assert.Equal(t, int64(2), merged[0].Item.ID)
	assert.InDelta(t, 1.2, merged[0].Score, 1e-9)
}

func TestMergeDeterministic(t *testing.T) {
	// 多条目跨策略混合，重复执行输出必须完全一致
	results := []StrategyResult{
		{Strategy: entity.StrategyText, Items: []entity.CatalogItem{
			movie(3, 5), movie(1, 5),
			{ID: 1, MediaType: entity.MediaTypeTV, Popularity: 5},
		}},
		{Strategy: entity.StrategyMood, Items: []entity.CatalogItem{movie(9, 2), movie(3, 5)}},
		{Strategy: entity.StrategyKeyword, Items: []entity.CatalogItem{movie(1, 5), movie(9, 2)}},
	}

	first := Merge(results, nil, 20)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Merge(results, nil, 20))
	}
	require.Len(t, first, 4)
}

func TestMergePositionScoreDecays(t *testing.T) {
	items := []entity.CatalogItem{movie(1, 0), movie(2, 0), movie(3, 0), movie(4, 0)}
	merged := Merge([]StrategyResult{{Strategy: entity.StrategyText, Items: items}}, nil, 20)

	require.Len(t, merged, 4)
	for i := 1; i < len(merged); i++ {
		assert.Less(t, merged[i].Score, merged[i-1].Score)
	}
	assert.InDelta(t, 1.0, merged[0].Score, 1e-9)
	assert.InDelta(t, 0.25, merged[3].Score, 1e-9)
}

func TestMergeTruncatesToMax(t *testing.T) {
	var items []entity.CatalogItem
	for i := int64(1); i <= 30; i++ {
		items = append(items, movie(i, 0))
	}

	merged := Merge([]StrategyResult{{Strategy: entity.StrategyText, Items: items}}, nil, 5)
	assert.Len(t, merged, 5)

	// maxResults ≤ 0 回退默认 20
	merged = Merge([]StrategyResult{{Strategy: entity.StrategyText, Items: items}}, nil, 0)
	assert.Len(t, merged, 20)
}

func TestItems(t *testing.T) {
	scored := []entity.ScoredResult{
		{Item: movie(1, 0), Score: 1},
		{Item: movie(2, 0), Score: 0.5},
	}
	items := Items(scored)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(2), items[1].ID)
}
