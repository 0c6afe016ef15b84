/**
 * 初始化:模块聚合类型
 * @author: sun977
 * @date: 2025.11.20
 * @description: setup 层各模块的聚合输出结构
 */
package setup

import (
	authHandler "menuguard/internal/handler/auth"
	systemHandler "menuguard/internal/handler/system"
	authPkg "menuguard/internal/pkg/auth"
	authService "menuguard/internal/service/auth"
)

// AuthModule 认证模块聚合输出
type AuthModule struct {
	LoginHandler    *authHandler.LoginHandler
	SessionService  *authService.SessionService
	JWTManager      *authPkg.JWTManager
	PasswordManager *authPkg.PasswordManager
}

// AdminModule 管理模块聚合输出
type AdminModule struct {
	UserHandler *systemHandler.UserHandler
	RoleHandler *systemHandler.RoleHandler
	MenuHandler *systemHandler.MenuHandler

	UserService *authService.UserService
	RoleService *authService.RoleService
	MenuService *authService.MenuService
}
