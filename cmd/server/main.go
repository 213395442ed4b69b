package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/plantlog/internal/config"
	"github.com/plantlog/internal/db"
	"github.com/plantlog/internal/handler"
	"github.com/plantlog/internal/router"
)

func main() {
	// .env 不存在时忽略，环境变量直接生效
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 首次启动时按配置引导超级管理员
	if err := db.EnsureSuperuser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure superuser: %v", err)
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, cfg)
	r := router.SetupRouter(api, cfg.AllowedOrigins)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
