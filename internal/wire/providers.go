// Package wire 提供依赖注入配置
package wire

import (
	"streamguide-api/internal/application/search"
	"streamguide-api/internal/config"
	"streamguide-api/internal/infrastructure/catalog"
	"streamguide-api/internal/infrastructure/messaging"
	"streamguide-api/internal/infrastructure/persistence/postgres"
	"streamguide-api/internal/infrastructure/persistence/redis"
	"streamguide-api/internal/workflow/port"
	workflowprompt "streamguide-api/internal/workflow/prompt"
)

// DataLayer 数据层依赖容器
type DataLayer struct {
	// PostgreSQL
	PgClient         *postgres.Client
	TxManager        *postgres.TxManager
	UserRepo         *postgres.UserRepository
	WatchlistRepo    *postgres.WatchlistRepository
	SearchRecordRepo *postgres.SearchRecordRepository

	// Redis
	RedisClient *redis.Client
	Cache       *redis.Cache
	RateLimiter *redis.RateLimiter

	// Messaging
	Producer *messaging.Producer
}

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient         *postgres.Client
	TxManager        *postgres.TxManager
	UserRepo         *postgres.UserRepository
	WatchlistRepo    *postgres.WatchlistRepository
	SearchRecordRepo *postgres.SearchRecordRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideCatalogClient 提供目录 API 客户端
func ProvideCatalogClient(cfg *config.Config, cache *redis.Cache) *catalog.Client {
	return catalog.NewClient(&cfg.Catalog, cache)
}

// ProvideSearchAnalyzer 提供查询分析器
func ProvideSearchAnalyzer(factory port.ChatModelFactory, prompts *workflowprompt.Registry, cfg *config.Config) *search.Analyzer {
	return search.NewAnalyzer(factory, prompts, &cfg.LLM)
}

// ProvideSearchExecutor 提供策略执行器
func ProvideSearchExecutor(client search.CatalogClient, cfg *config.Config) *search.Executor {
	return search.NewExecutor(client, cfg.Search.MinEntityConfidence)
}

// ProvideInsightGenerator 提供洞察生成器
func ProvideInsightGenerator(factory port.ChatModelFactory, prompts *workflowprompt.Registry, cfg *config.Config) *search.InsightGenerator {
	return search.NewInsightGenerator(factory, prompts, &cfg.LLM)
}

// ProvideSearchService 提供检索服务
func ProvideSearchService(
	analyzer *search.Analyzer,
	executor *search.Executor,
	insight *search.InsightGenerator,
	cache *redis.Cache,
	producer *messaging.Producer,
	cfg *config.Config,
) *search.Service {
	return search.NewService(analyzer, executor, insight, cache, producer, cfg.Search)
}

// ProvideJWTConfig 提供 JWT 配置
func ProvideJWTConfig(cfg *config.Config) config.JWTConfig {
	return cfg.Security.JWT
}
