//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"streamguide-api/internal/application/search"
	"streamguide-api/internal/config"
	"streamguide-api/internal/domain/repository"
	"streamguide-api/internal/infrastructure/catalog"
	"streamguide-api/internal/infrastructure/llm"
	"streamguide-api/internal/infrastructure/persistence/postgres"
	"streamguide-api/internal/infrastructure/persistence/redis"
	"streamguide-api/internal/interfaces/http/handler"
	"streamguide-api/internal/interfaces/http/middleware"
	"streamguide-api/internal/interfaces/http/router"
	"streamguide-api/internal/workflow/port"
	workflowprompt "streamguide-api/internal/workflow/prompt"
)

// InitializeDataLayer 初始化数据层
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		wire.Struct(new(DataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		CatalogSet,
		SearchSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewWatchlistRepository,
	postgres.NewSearchRecordRepository,
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
)

// CatalogSet 目录 API 客户端提供者集合
var CatalogSet = wire.NewSet(
	ProvideCatalogClient,
	wire.Bind(new(search.CatalogClient), new(*catalog.Client)),
)

// SearchSet 检索管线提供者集合
var SearchSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(port.ChatModelFactory), new(*llm.EinoFactory)),
	workflowprompt.NewRegistry,
	ProvideSearchAnalyzer,
	ProvideSearchExecutor,
	ProvideInsightGenerator,
	ProvideSearchService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideJWTConfig,
	handler.NewHealthHandler,
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewSearchHandler,
	handler.NewWatchlistHandler,
	handler.NewHistoryHandler,
	handler.NewCatalogHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	// 接口绑定
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.WatchlistRepository), new(*postgres.WatchlistRepository)),
	wire.Bind(new(repository.SearchRecordRepository), new(*postgres.SearchRecordRepository)),
)
