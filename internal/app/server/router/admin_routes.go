/**
 * 路由:管理路由
 * @author: sun977
 * @date: 2025.11.20
 * @description: 用户/角色/菜单管理路由,全部需要携带角色的访问令牌
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupAdminRoutes 设置管理路由
func (r *Router) setupAdminRoutes(api *gin.RouterGroup) {
	// 用户管理
	user := api.Group("/user")
	user.Use(r.middlewareManager.GinAccessAuthMiddleware())
	{
		user.POST("", r.adminModule.UserHandler.CreateUser)
		user.GET("", r.adminModule.UserHandler.ListUsers)
		user.GET("/:id", r.adminModule.UserHandler.GetUser)
		user.GET("/u/:username", r.adminModule.UserHandler.GetUserByUsername)
		user.GET("/:id/role", r.adminModule.UserHandler.GetUserRoles)
		user.PUT("/:id", r.adminModule.UserHandler.UpdateUser)
		user.DELETE("/:id", r.adminModule.UserHandler.DeleteUser)
	}

	// 角色管理
	role := api.Group("/role")
	role.Use(r.middlewareManager.GinAccessAuthMiddleware())
	{
		role.POST("", r.adminModule.RoleHandler.CreateRole)
		role.GET("", r.adminModule.RoleHandler.ListRoles)
		role.GET("/:id", r.adminModule.RoleHandler.GetRole)
		role.GET("/code/:code", r.adminModule.RoleHandler.GetRoleByCode)
		role.GET("/:id/menu", r.adminModule.RoleHandler.GetRoleMenus)
		role.PUT("/:id", r.adminModule.RoleHandler.UpdateRole)
		role.DELETE("/:id", r.adminModule.RoleHandler.DeleteRole)
	}

	// 菜单管理
	menu := api.Group("/menu")
	menu.Use(r.middlewareManager.GinAccessAuthMiddleware())
	{
		menu.POST("", r.adminModule.MenuHandler.CreateMenu)
		menu.GET("", r.adminModule.MenuHandler.ListMenus)
		menu.GET("/:id", r.adminModule.MenuHandler.GetMenu)
		menu.GET("/code/:code", r.adminModule.MenuHandler.GetMenuByCode)
		menu.PUT("/:id", r.adminModule.MenuHandler.UpdateMenu)
		menu.DELETE("/:id", r.adminModule.MenuHandler.DeleteMenu)
	}
}
