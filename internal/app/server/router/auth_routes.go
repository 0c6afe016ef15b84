/**
 * 路由:认证路由
 * @author: sun977
 * @date: 2025.11.20
 * @description: 两段式登录和菜单解析路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupAuthRoutes 设置认证路由
// 登录走严格限流; 角色选择需要身份令牌; 菜单解析需要访问令牌
func (r *Router) setupAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")

	// 凭据登录(公开,严格限流)
	auth.POST("/login",
		r.middlewareManager.GinAuthRateLimitMiddleware(),
		r.authModule.LoginHandler.Login,
	)

	// 角色选择(需要第一步签发的身份令牌)
	auth.POST("/login/role",
		r.middlewareManager.GinIdentityAuthMiddleware(),
		r.authModule.LoginHandler.LoginRole,
	)

	// 菜单解析(需要第二步签发的访问令牌)
	auth.GET("/menu",
		r.middlewareManager.GinAccessAuthMiddleware(),
		r.authModule.LoginHandler.Menu,
	)
}
