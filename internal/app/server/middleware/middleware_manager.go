package middleware

import (
	"sync"

	"menuguard/internal/config"
	"menuguard/internal/pkg/auth"
)

// MiddlewareManager 中间件管理器
// 负责管理所有Gin框架的中间件,提供统一的中间件接口
type MiddlewareManager struct {
	jwtManager      *auth.JWTManager       // JWT管理器,用于令牌验证
	securityConfig  *config.SecurityConfig // 安全配置,用于中间件配置
	rateLimiter     RateLimiter
	rateLimiterOnce sync.Once
}

// NewMiddlewareManager 创建中间件管理器
func NewMiddlewareManager(jwtManager *auth.JWTManager, securityConfig *config.SecurityConfig) *MiddlewareManager {
	return &MiddlewareManager{
		jwtManager:     jwtManager,
		securityConfig: securityConfig,
	}
}
