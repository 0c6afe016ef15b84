/**
 * 路由:路由管理器
 * @author: sun977
 * @date: 2025.11.20
 * @description: 路由管理器,包含Router结构体、NewRouter函数和SetupRoutes主函数
 * @func:
 */
package router

import (
	"menuguard/internal/app/server/middleware"
	"menuguard/internal/app/server/setup"
	"menuguard/internal/config"
	"menuguard/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Router 路由管理器
type Router struct {
	config            *config.Config
	engine            *gin.Engine
	db                *gorm.DB
	redisClient       *redis.Client
	middlewareManager *middleware.MiddlewareManager
	authModule        *setup.AuthModule
	adminModule       *setup.AdminModule
}

// NewRouter 创建路由管理器实例
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Router {
	// 模块装配(控制器是服务集合,先初始化服务,然后服务装填成控制器)
	authModule := setup.BuildAuthModule(db, redisClient, cfg)
	adminModule := setup.BuildAdminModule(db, authModule.PasswordManager)

	// 中间件管理器
	middlewareManager := middleware.NewMiddlewareManager(authModule.JWTManager, &cfg.Security)

	// 创建Gin引擎
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	return &Router{
		config:            cfg,
		engine:            engine,
		db:                db,
		redisClient:       redisClient,
		middlewareManager: middlewareManager,
		authModule:        authModule,
		adminModule:       adminModule,
	}
}

// SetupRoutes 设置全局中间件和路由
func (r *Router) SetupRoutes() {
	// 1) 先注册全局中间件; 2) 再注册各模块路由
	r.registerGlobalMiddleware()
	r.registerRoutes()
}

// GetEngine 获取Gin引擎实例
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// registerGlobalMiddleware 注册全局中间件
// 将全局中间件的挂载集中在一个方法中,便于统一管理与测试
func (r *Router) registerGlobalMiddleware() {
	// 系统恢复中间件,防止 panic 直接导致进程崩溃
	r.engine.Use(gin.Recovery())

	// 请求ID中间件
	r.engine.Use(r.middlewareManager.GinRequestIDMiddleware())
	// CORS 中间件
	r.engine.Use(r.middlewareManager.GinCORSMiddleware())
	// 安全响应头中间件
	r.engine.Use(r.middlewareManager.GinSecurityHeadersMiddleware())
	// 统一日志中间件
	r.engine.Use(r.middlewareManager.GinLoggingMiddleware())
	// 限流中间件
	r.engine.Use(r.middlewareManager.GinRateLimitMiddleware())

	logger.WithFields(map[string]interface{}{
		"path":      "router_manager.registerGlobalMiddleware",
		"operation": "register_global_middleware",
		"func_name": "router.registerGlobalMiddleware",
	}).Info("全局中间件注册完成")
}

// registerRoutes 注册路由
// 中间件注册和各模块路由注册分离,便于维护
func (r *Router) registerRoutes() {
	api := r.engine.Group("/api")

	// 认证路由(两段式登录和菜单解析)
	r.setupAuthRoutes(api)
	// 管理路由(用户/角色/菜单,需要访问令牌)
	r.setupAdminRoutes(api)
	// 健康检查路由
	r.setupHealthRoutes(api)

	logger.WithFields(map[string]interface{}{
		"path":      "router_manager.registerRoutes",
		"operation": "register_routes",
		"func_name": "router.registerRoutes",
	}).Info("路由注册完成")
}
