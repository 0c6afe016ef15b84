/**
 * 应用:服务端应用组装
 * @author: sun977
 * @date: 2025.11.20
 * @description: 加载配置、初始化日志与连接、装配路由,并负责资源释放
 * @func:
 * 1.NewApp 创建应用实例
 * 2.GetConfig/GetRouter 访问器
 * 3.Close 释放连接和配置监听
 */
package server

import (
	"fmt"

	approuter "menuguard/internal/app/server/router"
	"menuguard/internal/config"
	"menuguard/internal/pkg/database"
	"menuguard/internal/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App 应用程序结构体
type App struct {
	config      *config.Config
	router      *approuter.Router
	db          *gorm.DB
	redisClient *redis.Client
}

// NewApp 创建新的应用程序实例
// 配置路径和环境为空时按默认规则读取(MENUGUARD_CONFIG_PATH / MENUGUARD_ENV)
func NewApp(configPath, env string) (*App, error) {
	// 1) 加载配置
	cfg, err := config.LoadConfig(configPath, env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 2) 初始化日志
	if _, err := logger.InitLogger(&cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	// 3) 建立数据库连接
	db, err := database.NewMySQLConnection(&cfg.Database.MySQL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mysql: %w", err)
	}

	redisClient, err := database.NewRedisConnection(&cfg.Database.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	// 4) 启动配置热加载监听
	if err := config.StartConfigWatcher(configPath, env); err != nil {
		logger.LogSystemEvent("config", "watcher_start_failed", err.Error(), logrus.WarnLevel, nil)
	} else {
		_ = config.AddConfigReloadCallback(config.LogConfigReloadCallback)
		_ = config.AddConfigReloadCallback(config.SecurityConfigReloadCallback)
	}

	// 5) 装配路由
	r := approuter.NewRouter(db, redisClient, cfg)
	r.SetupRoutes()

	logger.LogSystemEvent("app", "initialized", "application initialized", logrus.InfoLevel, map[string]interface{}{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	return &App{
		config:      cfg,
		router:      r,
		db:          db,
		redisClient: redisClient,
	}, nil
}

// GetConfig 获取配置实例
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetRouter 获取路由器实例
func (a *App) GetRouter() *approuter.Router {
	return a.router
}

// Close 释放应用持有的资源
func (a *App) Close() error {
	_ = config.StopConfigWatcher()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close redis: %w", err)
		}
	}

	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql db: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close mysql: %w", err)
		}
	}

	return nil
}
