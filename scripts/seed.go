// 手动触发数据库迁移与种子数据写入脚本
//
// 主应用通过 -migrate 参数也能完成同样的事，此脚本用于
// 不启动 HTTP 服务的场景，例如 CI 初始化或新环境首次部署。
//
// 用法: go run scripts/seed.go
package main

import (
	"log"
	"os"

	"tla_backend/internal/config"
	"tla_backend/pkg/database"
	"tla_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	database.SeedDefaults(db)

	log.Println("迁移与种子数据写入完成")
}
