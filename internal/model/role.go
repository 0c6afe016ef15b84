/**
 * 模型:角色模型
 * @author: sun977
 * @date: 2025.11.20
 * @description: 角色数据模型,包含角色基本信息和菜单授权关联
 * @func: Role/RoleMenu 结构体及相关方法
 */
package model

import (
	"time"
)

// Role 角色模型
type Role struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`                                  // 角色唯一标识ID，主键自增
	Code        string     `json:"code" gorm:"uniqueIndex;not null;size:50" validate:"required,max=50"` // 角色代码，唯一索引
	Name        string     `json:"name" gorm:"not null;size:100" validate:"required,max=100"`           // 角色名称
	Description string     `json:"description" gorm:"size:255"`                                         // 角色描述，可为空
	IsActive    bool       `json:"is_active" gorm:"not null;default:true;comment:是否启用"`                 // 启用标记，禁用角色不可被选择
	IsDeleted   bool       `json:"-" gorm:"not null;default:false;index;comment:软删除标记"`                 // 软删除标记
	CreatedAt   time.Time  `json:"created_at"`                                                          // 创建时间，自动管理
	UpdatedAt   time.Time  `json:"updated_at"`                                                          // 更新时间，自动管理
	DeletedAt   *time.Time `json:"-"`                                                                   // 软删除时间，可为空

	// 关联关系
	Menus []*Menu `json:"menus,omitempty" gorm:"many2many:role_menus;"` // 角色授权的菜单，多对多关系
}

// RoleMenu 角色菜单授权关联表
// 与 UserRole 不同,授权记录自身可软删除,并携带三个独立的操作授权标记
// (RoleID, MenuID) 由联合唯一索引兜底,调和算法依赖这一集合语义
type RoleMenu struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`                            // 授权记录ID，主键自增
	RoleID      uint       `json:"role_id" gorm:"not null;uniqueIndex:uk_role_menu;comment:角色ID"` // 角色ID，联合唯一索引
	MenuID      uint       `json:"menu_id" gorm:"not null;uniqueIndex:uk_role_menu;comment:菜单ID"` // 菜单ID，联合唯一索引
	GrantCreate bool       `json:"grant_create" gorm:"not null;default:false;comment:创建授权"`       // 创建授权标记
	GrantUpdate bool       `json:"grant_update" gorm:"not null;default:false;comment:更新授权"`       // 更新授权标记
	GrantDelete bool       `json:"grant_delete" gorm:"not null;default:false;comment:删除授权"`       // 删除授权标记
	IsActive    bool       `json:"is_active" gorm:"not null;default:true;comment:是否启用"`           // 启用标记，停用的授权不参与菜单解析
	IsDeleted   bool       `json:"-" gorm:"not null;default:false;index;comment:软删除标记"`           // 软删除标记
	CreatedAt   time.Time  `json:"created_at"`                                                    // 创建时间，自动管理
	UpdatedAt   time.Time  `json:"updated_at"`                                                    // 更新时间，自动管理
	DeletedAt   *time.Time `json:"-"`                                                             // 软删除时间，可为空
}

// TableName 指定角色表名
func (Role) TableName() string {
	return "roles"
}

// TableName 指定角色菜单关联表名
func (RoleMenu) TableName() string {
	return "role_menus"
}
