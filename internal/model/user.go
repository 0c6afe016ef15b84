/**
 * 模型:用户模型
 * @author: sun977
 * @date: 2025.11.20
 * @description: 用户数据模型,包含用户基本信息、启用/软删除标记和角色关联
 * @func: User/UserRole 结构体及相关方法
 */
package model

import (
	"time"
)

// User 用户模型
// 唯一约束由数据库层的唯一索引兜底,服务层的重复检查只是为了返回友好错误
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey;autoIncrement"`                                            // 用户唯一标识ID，主键自增
	Username     string     `json:"username" gorm:"uniqueIndex;not null;size:50" validate:"required,min=3,max=50"` // 用户名，唯一索引
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:100" validate:"required,email"`          // 邮箱地址，唯一索引
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null;size:255"`                               // 密码哈希，不在JSON中返回
	Fullname     string     `json:"fullname" gorm:"size:100"`                                                      // 用户全名
	IsActive     bool       `json:"is_active" gorm:"not null;default:true;comment:是否启用"`                           // 启用标记，禁用用户无法登录
	IsDeleted    bool       `json:"-" gorm:"not null;default:false;index;comment:软删除标记"`                           // 软删除标记，不在JSON中返回
	CreatedAt    time.Time  `json:"created_at"`                                                                    // 创建时间，自动管理
	UpdatedAt    time.Time  `json:"updated_at"`                                                                    // 更新时间，自动管理
	DeletedAt    *time.Time `json:"-"`                                                                             // 软删除时间，可为空

	// 关联关系
	Roles []*Role `json:"roles,omitempty" gorm:"many2many:user_roles;"` // 用户角色，多对多关系
}

// UserRole 用户角色关联表
// 关联只有存在/不存在两种状态,解除关联时物理删除
type UserRole struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"` // 用户ID，联合主键
	RoleID    uint      `json:"role_id" gorm:"primaryKey"` // 角色ID，联合主键
	CreatedAt time.Time `json:"created_at"`                // 关联创建时间
}

// TableName 指定用户表名
func (User) TableName() string {
	return "users"
}

// TableName 指定用户角色关联表名
func (UserRole) TableName() string {
	return "user_roles"
}
