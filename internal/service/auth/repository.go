/**
 * 服务层:仓库接口定义
 * @author: sun977
 * @date: 2025.11.20
 * @description: 服务层依赖的数据访问接口,按消费方定义便于测试时注入桩实现
 * @func: UserRepository / RoleRepository / MenuRepository / LoginGuard 接口
 */
package auth

import (
	"context"
	"time"

	"menuguard/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User, roleIDs []uint) error
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User, toAdd, toRemove []uint) error
	SoftDeleteUser(ctx context.Context, id uint) error
	UsernameExists(ctx context.Context, username string, excludeID uint) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID uint) (bool, error)
	GetUserRoleIDs(ctx context.Context, userID uint) ([]uint, error)
	GetRolesByUserID(ctx context.Context, userID uint) ([]*model.Role, error)
}

// RoleRepository 角色数据访问接口
type RoleRepository interface {
	CreateRole(ctx context.Context, role *model.Role, grants []*model.RoleMenu) error
	GetRoleByID(ctx context.Context, id uint) (*model.Role, error)
	GetRoleByCode(ctx context.Context, code string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]*model.Role, error)
	UpdateRole(ctx context.Context, role *model.Role, toAdd []*model.RoleMenu, toRemove []uint) error
	SoftDeleteRole(ctx context.Context, id uint) error
	RoleCodeExists(ctx context.Context, code string, excludeID uint) (bool, error)
	ExistsActiveRoleForUser(ctx context.Context, userID, roleID uint) (bool, error)
	GetRoleMenus(ctx context.Context, roleID uint) ([]*model.RoleMenu, error)
	GetRoleMenuViews(ctx context.Context, roleID uint) ([]*model.RoleMenuView, error)
}

// MenuRepository 菜单数据访问接口
type MenuRepository interface {
	CreateMenu(ctx context.Context, menu *model.Menu) error
	GetMenuByID(ctx context.Context, id uint) (*model.Menu, error)
	GetMenuByCode(ctx context.Context, code string) (*model.Menu, error)
	ListMenus(ctx context.Context) ([]*model.Menu, error)
	GetMenusByIDs(ctx context.Context, ids []uint) ([]*model.Menu, error)
	UpdateMenu(ctx context.Context, menu *model.Menu) error
	SoftDeleteMenu(ctx context.Context, id uint) error
	MenuCodeExists(ctx context.Context, code string, excludeID uint) (bool, error)
	ResolveAuthorizedMenus(ctx context.Context, userID, roleID uint) ([]*model.Menu, error)
}

// LoginGuard 登录失败计数接口
// 按用户名和客户端IP维度累计失败次数,超过阈值后在窗口期内拒绝登录
type LoginGuard interface {
	IncrFailure(ctx context.Context, username, clientIP string, window time.Duration) (int64, error)
	GetFailureCount(ctx context.Context, username, clientIP string) (int64, error)
	ResetFailures(ctx context.Context, username, clientIP string) error
}
