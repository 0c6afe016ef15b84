/**
 * 初始化:认证模块
 * @author: sun977
 * @date: 2025.11.20
 * @description: 认证模块初始化,装配JWT/密码工具、登录防护和会话服务
 */
package setup

import (
	"menuguard/internal/config"
	authHandler "menuguard/internal/handler/auth"
	authPkg "menuguard/internal/pkg/auth"
	"menuguard/internal/pkg/logger"
	redisRepo "menuguard/internal/repo/redis"
	mysqlRepo "menuguard/internal/repository/mysql"
	authService "menuguard/internal/service/auth"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// BuildAuthModule 构建认证模块
// 责任边界:
// - 初始化认证相关的工具与服务(JWTManager/PasswordManager/LoginGuard/SessionService)
// - 初始化登录处理器,供 router_manager 进行路由与中间件装配
// - setup 层仅负责依赖装配,不在此处编写业务逻辑
func BuildAuthModule(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *AuthModule {
	logger.WithFields(map[string]interface{}{
		"path":      "setup.auth",
		"operation": "build_module",
		"func_name": "setup.BuildAuthModule",
	}).Info("开始构建认证模块")

	// 1) 工具包初始化
	jwtManager := authPkg.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.TokenExpire)
	passwordManager := authPkg.NewPasswordManager(authPkg.DefaultPasswordConfig)

	// 2) 仓库初始化
	userRepo := mysqlRepo.NewUserRepository(db)
	roleRepo := mysqlRepo.NewRoleRepository(db)
	menuRepo := mysqlRepo.NewMenuRepository(db)
	guardRepo := redisRepo.NewLoginGuardRepository(redisClient)

	// 3) 服务初始化
	sessionService := authService.NewSessionService(
		userRepo,
		roleRepo,
		menuRepo,
		guardRepo,
		jwtManager,
		passwordManager,
		cfg.Security.LoginGuard,
	)

	// 4) 处理器初始化
	loginHandler := authHandler.NewLoginHandler(sessionService)

	logger.WithFields(map[string]interface{}{
		"path":      "setup.auth",
		"operation": "build_module",
		"func_name": "setup.BuildAuthModule",
	}).Info("认证模块构建完成")

	return &AuthModule{
		LoginHandler:    loginHandler,
		SessionService:  sessionService,
		JWTManager:      jwtManager,
		PasswordManager: passwordManager,
	}
}
