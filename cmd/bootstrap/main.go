// Package main 数据库初始化工具：执行迁移并创建初始管理员账户
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"streamguide-api/internal/config"
	"streamguide-api/internal/domain/entity"
	"streamguide-api/internal/infrastructure/persistence/postgres"
	"streamguide-api/internal/wire"
	"streamguide-api/pkg/logger"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// 初始化 PostgreSQL 数据层
	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "初始化数据层失败", err)
		os.Exit(1)
	}
	defer cleanup()

	// 执行数据库迁移
	logger.Info(ctx, "开始执行数据库迁移")
	if err := postgres.AutoMigrate(dataLayer.PgClient.DB()); err != nil {
		logger.Error(ctx, "数据库迁移失败", err)
		os.Exit(1)
	}
	logger.Info(ctx, "数据库迁移完成")

	// 创建初始管理员账户
	if err := seedAdmin(ctx, dataLayer); err != nil {
		logger.Error(ctx, "创建管理员账户失败", err)
		os.Exit(1)
	}

	logger.Info(ctx, "初始化完成")
}

// seedAdmin 创建初始管理员账户（已存在则跳过）
func seedAdmin(ctx context.Context, dataLayer *wire.PostgresOnlyDataLayer) error {
	adminEmail := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@streamguide.local"
	}
	adminPassword := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	exists, err := dataLayer.UserRepo.ExistsByEmail(ctx, adminEmail)
	if err != nil {
		return fmt.Errorf("检查管理员账户: %w", err)
	}
	if exists {
		logger.Info(ctx, "管理员账户已存在，跳过创建", "email", adminEmail)
		return nil
	}

	admin := entity.NewUser(adminEmail, "System Admin")
	admin.Role = entity.UserRoleAdmin
	if err := admin.SetPassword(adminPassword); err != nil {
		return fmt.Errorf("设置管理员密码: %w", err)
	}

	if err := dataLayer.UserRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("创建管理员账户: %w", err)
	}

	logger.Info(ctx, "管理员账户创建成功", "email", adminEmail, "user_id", admin.ID)
	return nil
}
