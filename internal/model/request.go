/**
 * 模型:请求模型
 * @author: sun977
 * @date: 2025.11.20
 * @description: HTTP请求参数结构体定义,指针字段用于区分"未提供"和"零值"
 * @func: 登录和用户/角色/菜单增删改查的请求结构体
 */
package model

// LoginRequest 登录请求(第一步,凭据校验)
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"` // 用户名
	Password string `json:"password" binding:"required" example:"pw123"` // 密码
}

// RoleLoginRequest 角色选择请求(第二步,携带身份令牌)
type RoleLoginRequest struct {
	RoleID uint `json:"roleId" binding:"required" example:"1"` // 选择的角色ID
}

// MenuGrantSpec 菜单授权项
// 用于角色创建/更新时声明期望的菜单授权集合
type MenuGrantSpec struct {
	MenuID      uint `json:"menu_id" binding:"required"` // 菜单ID
	GrantCreate bool `json:"grant_create"`               // 创建授权
	GrantUpdate bool `json:"grant_update"`               // 更新授权
	GrantDelete bool `json:"grant_delete"`               // 删除授权
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"` // 用户名
	Email    string `json:"email" binding:"required,email"`           // 邮箱
	Password string `json:"password" binding:"required,min=6"`        // 明文密码，服务层哈希后存储
	Fullname string `json:"fullname" binding:"max=100"`               // 全名
	IsActive *bool  `json:"is_active"`                                // 是否启用，不传默认启用
	RoleIDs  []uint `json:"role_ids"`                                 // 初始角色ID列表
}

// UpdateUserRequest 更新用户请求
// 指针字段为 nil 表示不修改该字段; RoleIDs 为 nil 表示不调整角色关联
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"` // 用户名
	Email    *string `json:"email" binding:"omitempty,email"`           // 邮箱
	Password *string `json:"password" binding:"omitempty,min=6"`        // 新密码
	Fullname *string `json:"fullname" binding:"omitempty,max=100"`      // 全名
	IsActive *bool   `json:"is_active"`                                 // 是否启用
	RoleIDs  []uint  `json:"role_ids"`                                  // 期望的角色ID全集，空切片表示清空
}

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Code        string          `json:"code" binding:"required,max=50"`  // 角色代码
	Name        string          `json:"name" binding:"required,max=100"` // 角色名称
	Description string          `json:"description" binding:"max=255"`   // 角色描述
	IsActive    *bool           `json:"is_active"`                       // 是否启用，不传默认启用
	Menus       []MenuGrantSpec `json:"menus"`                           // 初始菜单授权列表
}

// UpdateRoleRequest 更新角色请求
// Menus 为 nil 表示不调整菜单授权
type UpdateRoleRequest struct {
	Code        *string         `json:"code" binding:"omitempty,max=50"`          // 角色代码
	Name        *string         `json:"name" binding:"omitempty,max=100"`         // 角色名称
	Description *string         `json:"description" binding:"omitempty,max=255"` // 角色描述
	IsActive    *bool           `json:"is_active"`                                // 是否启用
	Menus       []MenuGrantSpec `json:"menus"`                                    // 期望的菜单授权全集，空切片表示清空
}

// CreateMenuRequest 创建菜单请求
type CreateMenuRequest struct {
	Code         string `json:"code" binding:"required,max=50"`   // 菜单代码
	Title        string `json:"title" binding:"required,max=100"` // 菜单标题
	Path         string `json:"path" binding:"max=255"`           // 路由路径
	ParentMenuID *uint  `json:"parent_menu_id"`                   // 父菜单ID，可为空
	IsActive     *bool  `json:"is_active"`                        // 是否启用，不传默认启用
}

// UpdateMenuRequest 更新菜单请求
type UpdateMenuRequest struct {
	Code         *string `json:"code" binding:"omitempty,max=50"`   // 菜单代码
	Title        *string `json:"title" binding:"omitempty,max=100"` // 菜单标题
	Path         *string `json:"path" binding:"omitempty,max=255"`  // 路由路径
	ParentMenuID *uint   `json:"parent_menu_id"`                    // 父菜单ID
	ClearParent  bool    `json:"clear_parent"`                      // 置为顶级菜单
	IsActive     *bool   `json:"is_active"`                         // 是否启用
}
