package search

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamguide-api/internal/config"
	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/infrastructure/messaging"
)

// memoryResultCache 进程内 ResultCache，计数 loader 的真实执行次数
type memoryResultCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	loads   int
}

func newMemoryResultCache() *memoryResultCache {
	return &memoryResultCache{entries: make(map[string][]byte)}
}

func (c *memoryResultCache) GetOrLoadSafe(_ context.Context, key string, _ time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, ok := c.entries[key]; ok {
		return data, nil
	}
	c.loads++
	value, err := loader()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	c.entries[key] = data
	return data, nil
}

// recordingPublisher 收集投递的历史事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []*messaging.SearchEventMessage
}

func (p *recordingPublisher) PublishSearchEvent(_ context.Context, event *messaging.SearchEventMessage) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return "1-0", nil
}

func (p *recordingPublisher) recorded() []*messaging.SearchEventMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*messaging.SearchEventMessage(nil), p.events...)
}

func newTestService(fake *fakeCatalog, cfg config.SearchConfig) *Service {
	return newTestServiceWithInfra(fake, cfg, nil, nil)
}

func newTestServiceWithInfra(fake *fakeCatalog, cfg config.SearchConfig, cache ResultCache, producer HistoryPublisher) *Service {
	return NewService(
		heuristicAnalyzer(),
		NewExecutor(fake, 0.5),
		NewInsightGenerator(nil, nil, nil),
		cache,
		producer,
		cfg,
	)
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := newTestService(&fakeCatalog{}, config.SearchConfig{})

	result, err := svc.Search(context.Background(), "", "   ", Options{})

	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.Zero(t, result.Confidence)
	assert.Equal(t, entity.IntentGeneral, result.Intent)
}

func TestSearchEndToEnd(t *testing.T) {
	fake := &fakeCatalog{
		multiResults: map[string][]entity.CatalogItem{
			"funny movies": {movie(1, 10), movie(2, 5)},
			"funny":        {movie(1, 10)},
		},
		discoverMovie: []entity.CatalogItem{movie(3, 8)},
	}
	svc := newTestService(fake, config.SearchConfig{InsightEnabled: true})

	result, err := svc.Search(context.Background(), "user-1", "funny movies", Options{})

	require.NoError(t, err)
	assert.Equal(t, entity.IntentMoodSearch, result.Intent)
	assert.False(t, result.AIPowered)
	assert.NotEmpty(t, result.Results)
	assert.Contains(t, result.StrategyDescription, "text")
	assert.NotEmpty(t, result.Interpretation)

	// 去重后的条目唯一
	seen := map[int64]bool{}
	for _, item := range result.Results {
		assert.False(t, seen[item.ID])
		seen[item.ID] = true
	}
}

func TestSearchCapsMaxResults(t *testing.T) {
	var items []entity.CatalogItem
	for i := int64(1); i <= 40; i++ {
		items = append(items, movie(i, float64(i)))
	}
	fake := &fakeCatalog{
		multiResults: map[string][]entity.CatalogItem{"star wars saga": items},
	}
	svc := newTestService(fake, config.SearchConfig{DefaultMaxResults: 20, MaxResultsCap: 5})

	result, err := svc.Search(context.Background(), "", "star wars saga", Options{MaxResults: 100})

	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Results), 5)
}

func TestSearchCacheHitStillPublishesHistory(t *testing.T) {
	fake := &fakeCatalog{
		multiResults: map[string][]entity.CatalogItem{
			"funny movies": {movie(1, 10), movie(2, 5)},
		},
		discoverMovie: []entity.CatalogItem{movie(3, 8)},
	}
	cache := newMemoryResultCache()
	publisher := &recordingPublisher{}
	svc := newTestServiceWithInfra(fake, config.SearchConfig{ResultCacheTTL: time.Minute}, cache, publisher)

	first, err := svc.Search(context.Background(), "user-a", "funny movies", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, first.Results)
	assert.Equal(t, 1, cache.loads)

	// 第二个用户命中缓存：管线不重跑，但历史事件仍按本次用户投递
	second, err := svc.Search(context.Background(), "user-b", "funny movies", Options{})
	require.NoError(t, err)
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, 1, cache.loads)

	events := publisher.recorded()
	require.Len(t, events, 2)
	assert.Equal(t, "user-a", events[0].UserID)
	assert.Equal(t, "user-b", events[1].UserID)
	assert.Equal(t, "funny movies", events[1].Query)
	assert.Equal(t, len(second.Results), events[1].ResultCount)
}

func TestSearchCacheHitAnonymousSkipsHistory(t *testing.T) {
	fake := &fakeCatalog{
		multiResults: map[string][]entity.CatalogItem{
			"funny movies": {movie(1, 10)},
		},
	}
	cache := newMemoryResultCache()
	publisher := &recordingPublisher{}
	svc := newTestServiceWithInfra(fake, config.SearchConfig{ResultCacheTTL: time.Minute}, cache, publisher)

	_, err := svc.Search(context.Background(), "user-a", "funny movies", Options{})
	require.NoError(t, err)

	// 匿名命中缓存不投递事件
	_, err = svc.Search(context.Background(), "", "funny movies", Options{})
	require.NoError(t, err)

	events := publisher.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "user-a", events[0].UserID)
}

func TestSearchCacheDisabledAlwaysRunsPipeline(t *testing.T) {
	fake := &fakeCatalog{
		multiResults: map[string][]entity.CatalogItem{
			"funny movies": {movie(1, 10)},
		},
	}
	cache := newMemoryResultCache()
	// TTL 为零视为禁用缓存
	svc := newTestServiceWithInfra(fake, config.SearchConfig{}, cache, nil)

	_, err := svc.Search(context.Background(), "", "funny movies", Options{})
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), "", "funny movies", Options{})
	require.NoError(t, err)

	assert.Zero(t, cache.loads)
	assert.Empty(t, cache.entries)
}

func TestSearchEmptyResultsLowersConfidence(t *testing.T) {
	// 年份实体置信度 0.9，但零结果时压到上限以下
	svc := newTestService(&fakeCatalog{}, config.SearchConfig{})

	result, err := svc.Search(context.Background(), "", "movies from 2020", Options{})

	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.LessOrEqual(t, result.Confidence, emptyResultMaxConfidence)
	assert.Equal(t, "basic search", result.StrategyDescription)
}
