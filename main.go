package main

import (
	"flag"
	"log"

	"tla_backend/internal/app"
	"tla_backend/internal/config"
	"tla_backend/pkg/configwatcher"
	"tla_backend/pkg/database"
	"tla_backend/pkg/logger"

	"go.uber.org/zap"
)

// @title TLA API
// @version 1.0
// @description 三字母缩略词记忆训练平台后端接口
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	migrate := flag.Bool("migrate", false, "运行数据库迁移并写入种子数据")
	migrateOnly := flag.Bool("migrate-only", false, "仅执行迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)

	if cfg.ForceMigrate {
		if err := database.Migrate(application.DB); err != nil {
			logger.Log.Fatal("Database migration failed", zap.Error(err))
		}
		database.SeedDefaults(application.DB)
		logger.Log.Info("Database migration completed")
	}

	if cfg.MigrateOnly {
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if c, ok := newCfg.(*config.Config); ok {
			application.ApplyConfig(c)
		}
	})

	application.Run()
}
