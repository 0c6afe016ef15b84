/**
 * 模型:响应模型
 * @author: sun977
 * @date: 2025.11.20
 * @description: 统一响应结构和对外视图结构,视图剥离密码哈希和软删除等内部字段
 * @func: APIResponse 和各实体视图及其转换函数
 */
package model

import (
	"time"
)

// APIResponse 统一API响应结构
// 所有接口返回 {status: bool, message: string, data?: any}
type APIResponse struct {
	Status  bool        `json:"status"`         // 处理结果
	Message string      `json:"message"`        // 结果消息
	Data    interface{} `json:"data,omitempty"` // 业务数据，失败时省略
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *APIResponse {
	return &APIResponse{
		Status:  true,
		Message: "OK",
		Data:    data,
	}
}

// NewErrorResponse 创建失败响应
func NewErrorResponse(message string) *APIResponse {
	return &APIResponse{
		Status:  false,
		Message: message,
	}
}

// TokenResponse 令牌响应
type TokenResponse struct {
	Token string `json:"token"` // 签发的JWT令牌
}

// UserView 用户对外视图
type UserView struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Fullname  string      `json:"fullname"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Roles     []*RoleView `json:"roles,omitempty"` // 用户持有的角色
}

// RoleView 角色对外视图
type RoleView struct {
	ID          uint      `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MenuView 菜单对外视图
type MenuView struct {
	ID           uint      `json:"id"`
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	Path         string    `json:"path,omitempty"`
	ParentMenuID *uint     `json:"parent_menu_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleMenuView 角色菜单授权对外视图
// 菜单信息加授权标记,用于角色授权管理页面
type RoleMenuView struct {
	MenuID      uint   `json:"menu_id"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	GrantCreate bool   `json:"grant_create"`
	GrantUpdate bool   `json:"grant_update"`
	GrantDelete bool   `json:"grant_delete"`
	IsActive    bool   `json:"is_active"`
}

// NewUserView 将用户实体转换为对外视图
func NewUserView(user *User) *UserView {
	if user == nil {
		return nil
	}
	view := &UserView{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Fullname:  user.Fullname,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	for _, role := range user.Roles {
		view.Roles = append(view.Roles, NewRoleView(role))
	}
	return view
}

// NewUserViews 批量转换用户视图
func NewUserViews(users []*User) []*UserView {
	views := make([]*UserView, 0, len(users))
	for _, user := range users {
		views = append(views, NewUserView(user))
	}
	return views
}

// NewRoleView 将角色实体转换为对外视图
func NewRoleView(role *Role) *RoleView {
	if role == nil {
		return nil
	}
	return &RoleView{
		ID:          role.ID,
		Code:        role.Code,
		Name:        role.Name,
		Description: role.Description,
		IsActive:    role.IsActive,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

// NewRoleViews 批量转换角色视图
func NewRoleViews(roles []*Role) []*RoleView {
	views := make([]*RoleView, 0, len(roles))
	for _, role := range roles {
		views = append(views, NewRoleView(role))
	}
	return views
}

// NewMenuView 将菜单实体转换为对外视图
func NewMenuView(menu *Menu) *MenuView {
	if menu == nil {
		return nil
	}
	return &MenuView{
		ID:           menu.ID,
		Code:         menu.Code,
		Title:        menu.Title,
		Path:         menu.Path,
		ParentMenuID: menu.ParentMenuID,
		IsActive:     menu.IsActive,
		CreatedAt:    menu.CreatedAt,
		UpdatedAt:    menu.UpdatedAt,
	}
}

// NewMenuViews 批量转换菜单视图
func NewMenuViews(menus []*Menu) []*MenuView {
	views := make([]*MenuView, 0, len(menus))
	for _, menu := range menus {
		views = append(views, NewMenuView(menu))
	}
	return views
}
