/**
 * 模型:菜单模型
 * @author: sun977
 * @date: 2025.11.20
 * @description: 菜单数据模型,通过 ParentMenuID 外键形成树形结构
 * @func: Menu 结构体及相关方法
 */
package model

import (
	"time"
)

// Menu 菜单模型
// 树形结构只存整数外键,不在内存中持有父子引用
// 父菜单必须存在且未删除,更新父菜单时会做环检测
type Menu struct {
	ID           uint       `json:"id" gorm:"primaryKey;autoIncrement"`                                  // 菜单唯一标识ID，主键自增
	Code         string     `json:"code" gorm:"uniqueIndex;not null;size:50" validate:"required,max=50"` // 菜单代码，唯一索引
	Title        string     `json:"title" gorm:"not null;size:100" validate:"required,max=100"`          // 菜单标题
	Path         string     `json:"path" gorm:"size:255"`                                                // 前端路由路径，可为空
	ParentMenuID *uint      `json:"parent_menu_id" gorm:"index;comment:父菜单ID"`                           // 父菜单ID，可为空，自引用外键
	IsActive     bool       `json:"is_active" gorm:"not null;default:true;comment:是否启用"`                 // 启用标记，停用菜单不参与菜单解析
	IsDeleted    bool       `json:"-" gorm:"not null;default:false;index;comment:软删除标记"`                 // 软删除标记
	CreatedAt    time.Time  `json:"created_at"`                                                          // 创建时间，自动管理
	UpdatedAt    time.Time  `json:"updated_at"`                                                          // 更新时间，自动管理
	DeletedAt    *time.Time `json:"-"`                                                                   // 软删除时间，可为空
}

// TableName 指定菜单表名
func (Menu) TableName() string {
	return "menus"
}
