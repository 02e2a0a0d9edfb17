package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/infrastructure/catalog"
)

// fakeCatalog 可编程目录客户端，记录调用过的查询
type fakeCatalog struct {
	mu sync.Mutex

	multiResults  map[string][]entity.CatalogItem
	personResults map[string][]entity.CatalogItem
	discoverMovie []entity.CatalogItem
	discoverTV    []entity.CatalogItem
	credits       map[int64][]entity.CatalogItem
	multiErr      error
	discoverErr   error

	multiQueries    []string
	discoverOptions []catalog.DiscoverOptions
}

func (f *fakeCatalog) SearchMulti(_ context.Context, query string, _ int) ([]entity.CatalogItem, error) {
	f.mu.Lock()
	f.multiQueries = append(f.multiQueries, query)
	f.mu.Unlock()
	if f.multiErr != nil {
		return nil, f.multiErr
	}
	return f.multiResults[query], nil
}

func (f *fakeCatalog) SearchPerson(_ context.Context, query string, _ int) ([]entity.CatalogItem, error) {
	return f.personResults[query], nil
}

func (f *fakeCatalog) DiscoverMovie(_ context.Context, opts catalog.DiscoverOptions) ([]entity.CatalogItem, error) {
	f.mu.Lock()
	f.discoverOptions = append(f.discoverOptions, opts)
	f.mu.Unlock()
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	return f.discoverMovie, nil
}

func (f *fakeCatalog) DiscoverTV(_ context.Context, _ catalog.DiscoverOptions) ([]entity.CatalogItem, error) {
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	return f.discoverTV, nil
}

func (f *fakeCatalog) PersonCombinedCredits(_ context.Context, personID int64) ([]entity.CatalogItem, error) {
	return f.credits[personID], nil
}

func person(id int64, name string, knownFor ...entity.CatalogItem) entity.CatalogItem {
	return entity.CatalogItem{ID: id, MediaType: entity.MediaTypePerson, Title: name, KnownFor: knownFor}
}

func strategyByName(t *testing.T, results []StrategyResult, s entity.SearchStrategy) StrategyResult {
	t.Helper()
	for _, r := range results {
		if r.Strategy == s {
			return r
		}
	}
	t.Fatalf("strategy %s missing from results", s)
	return StrategyResult{}
}

func TestExecuteTextFiltersPersons(t *testing.T) {
	fake := &fakeCatalog{
		multiResults: map[string][]entity.CatalogItem{
			"hanks": {movie(1, 10), person(2, "Tom Hanks"), movie(3, 5)},
		},
	}
	executor := NewExecutor(fake, 0.5)
	analysis := &entity.QueryAnalysis{Query: "hanks", Intent: entity.IntentGeneral}

	results := executor.Execute(context.Background(), analysis, Options{})

	text := strategyByName(t, results, entity.StrategyText)
	require.Len(t, text.Items, 2)
	for _, item := range text.Items {
		assert.NotEqual(t, entity.MediaTypePerson, item.MediaType)
	}
}

func TestExecutePersonStrategyRequiresOptIn(t *testing.T) {
	fake := &fakeCatalog{
		multiResults: map[string][]entity.CatalogItem{"tom hanks": {movie(1, 10)}},
		personResults: map[string][]entity.CatalogItem{
			"tom hanks": {person(100, "Tom Hanks", movie(7, 50), movie(8, 40))},
		},
	}
	executor := NewExecutor(fake, 0.5)
	analysis := &entity.QueryAnalysis{Query: "tom hanks", Intent: entity.IntentActorSearch}

	results := executor.Execute(context.Background(), analysis, Options{})
	for _, r := range results {
		assert.NotEqual(t, entity.StrategyPerson, r.Strategy)
	}

	results = executor.Execute(context.Background(), analysis, Options{IncludePersonContent: true})
	personRes := strategyByName(t, results, entity.StrategyPerson)
	// 人物本体 + 两部代表作
	require.Len(t, personRes.Items, 3)
	assert.Equal(t, int64(100), personRes.Items[0].ID)
	assert.Equal(t, int64(7), personRes.Items[1].ID)
}

func TestExecuteEntityStrategy(t *testing.T) {
	fake := &fakeCatalog{
		personResults: map[string][]entity.CatalogItem{"tom hanks": {person(100, "Tom Hanks")}},
		credits:       map[int64][]entity.CatalogItem{100: {movie(7, 50)}},
		discoverMovie: []entity.CatalogItem{movie(20, 30)},
	}
	executor := NewExecutor(fake, 0.5)
	analysis := &entity.QueryAnalysis{
		Query:  "tom hanks comedy",
		Intent: entity.IntentActorSearch,
		Entities: []entity.QueryEntity{
			{Kind: entity.EntityKindPerson, Value: "tom hanks", Confidence: 0.8},
			{Kind: entity.EntityKindGenre, Value: "comedy", Confidence: 0.7},
			{Kind: entity.EntityKindGenre, Value: "comedy", Confidence: 0.2}, // 低于门槛，忽略
		},
	}

	results := executor.Execute(context.Background(), analysis, Options{})

	entityRes := strategyByName(t, results, entity.StrategyEntity)
	require.Len(t, entityRes.Items, 2)
	assert.Equal(t, int64(7), entityRes.Items[0].ID)
	assert.Equal(t, int64(20), entityRes.Items[1].ID)

	require.Len(t, fake.discoverOptions, 1)
	assert.Equal(t, []int64{35}, fake.discoverOptions[0].GenreIDs)
}

func TestExecuteMoodStrategy(t *testing.T) {
	fake := &fakeCatalog{
		discoverMovie: []entity.CatalogItem{movie(1, 10)},
		discoverTV:    []entity.CatalogItem{{ID: 2, MediaType: entity.MediaTypeTV}},
	}
	executor := NewExecutor(fake, 0.5)
	analysis := &entity.QueryAnalysis{Query: "something funny", Intent: entity.IntentMoodSearch, Mood: "funny"}

	results := executor.Execute(context.Background(), analysis, Options{})

	moodRes := strategyByName(t, results, entity.StrategyMood)
	require.Len(t, moodRes.Items, 2)
	assert.Equal(t, entity.MediaTypeMovie, moodRes.Items[0].MediaType)
	assert.Equal(t, entity.MediaTypeTV, moodRes.Items[1].MediaType)
}

func TestExecuteKeywordStrategySkipsStopwords(t *testing.T) {
	fake := &fakeCatalog{
		multiResults: map[string][]entity.CatalogItem{
			"space": {movie(1, 10)},
			"crew":  {movie(2, 5)},
		},
	}
	executor := NewExecutor(fake, 0.5)
	analysis := &entity.QueryAnalysis{Query: "best space crew movies", Intent: entity.IntentGeneral}

	executor.Execute(context.Background(), analysis, Options{})

	// "best" 与 "movies" 是停用词，"crew" 刚好 4 字符
	assert.Contains(t, fake.multiQueries, "space")
	assert.Contains(t, fake.multiQueries, "crew")
	assert.NotContains(t, fake.multiQueries, "best")
}

func TestExecuteStrategyErrorsSwallowed(t *testing.T) {
	fake := &fakeCatalog{
		multiErr:    errors.New("upstream down"),
		discoverErr: errors.New("upstream down"),
	}
	executor := NewExecutor(fake, 0.5)
	analysis := &entity.QueryAnalysis{Query: "funny movies", Intent: entity.IntentMoodSearch, Mood: "funny"}

	results := executor.Execute(context.Background(), analysis, Options{})

	// 所有策略失败，贡献为空但不 panic 不报错
	assert.Empty(t, results)
}

func TestExecuteResultsFollowPriorityOrder(t *testing.T) {
	fake := &fakeCatalog{
		multiResults: map[string][]entity.CatalogItem{
			"funny movies": {movie(1, 10)},
			"funny":        {movie(3, 1)},
		},
		discoverMovie: []entity.CatalogItem{movie(2, 5)},
	}
	executor := NewExecutor(fake, 0.5)
	analysis := &entity.QueryAnalysis{Query: "funny movies", Intent: entity.IntentMoodSearch, Mood: "funny"}

	for i := 0; i < 10; i++ {
		results := executor.Execute(context.Background(), analysis, Options{})
		require.NotEmpty(t, results)

		positions := map[entity.SearchStrategy]int{}
		for idx, r := range results {
			positions[r.Strategy] = idx
		}
		text, hasText := positions[entity.StrategyText]
		mood, hasMood := positions[entity.StrategyMood]
		kw, hasKW := positions[entity.StrategyKeyword]
		require.True(t, hasText && hasMood && hasKW)
		assert.Less(t, text, mood)
		assert.Less(t, mood, kw)
	}
}
