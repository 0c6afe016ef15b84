/**
 * 初始化:管理模块
 * @author: sun977
 * @date: 2025.11.20
 * @description: 用户/角色/菜单管理模块初始化
 */
package setup

import (
	systemHandler "menuguard/internal/handler/system"
	authPkg "menuguard/internal/pkg/auth"
	"menuguard/internal/pkg/logger"
	mysqlRepo "menuguard/internal/repository/mysql"
	authService "menuguard/internal/service/auth"

	"gorm.io/gorm"
)

// BuildAdminModule 构建管理模块
// 遵循 Handler → Service → Repository 的层级装配
func BuildAdminModule(db *gorm.DB, passwordManager *authPkg.PasswordManager) *AdminModule {
	logger.WithFields(map[string]interface{}{
		"path":      "setup.admin",
		"operation": "build_module",
		"func_name": "setup.BuildAdminModule",
	}).Info("开始构建管理模块")

	// 1. Repository 初始化
	userRepo := mysqlRepo.NewUserRepository(db)
	roleRepo := mysqlRepo.NewRoleRepository(db)
	menuRepo := mysqlRepo.NewMenuRepository(db)

	// 2. Service 初始化
	userService := authService.NewUserService(userRepo, roleRepo, passwordManager)
	roleService := authService.NewRoleService(roleRepo, menuRepo)
	menuService := authService.NewMenuService(menuRepo)

	// 3. Handler 初始化
	userHandler := systemHandler.NewUserHandler(userService)
	roleHandler := systemHandler.NewRoleHandler(roleService)
	menuHandler := systemHandler.NewMenuHandler(menuService)

	logger.WithFields(map[string]interface{}{
		"path":      "setup.admin",
		"operation": "build_module",
		"func_name": "setup.BuildAdminModule",
	}).Info("管理模块构建完成")

	return &AdminModule{
		UserHandler: userHandler,
		RoleHandler: roleHandler,
		MenuHandler: menuHandler,
		UserService: userService,
		RoleService: roleService,
		MenuService: menuService,
	}
}
