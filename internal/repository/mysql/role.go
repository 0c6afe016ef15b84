/**
 * 角色仓库层:角色数据访问
 * @author: sun977
 * @date: 2025.11.20
 * @description: 角色和角色菜单授权数据访问
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"menuguard/internal/model"
	"menuguard/internal/pkg/logger"

	"gorm.io/gorm"
)

// RoleRepository 角色仓库结构体
// 负责角色及角色菜单授权的数据访问，不包含业务逻辑
type RoleRepository struct {
	db *gorm.DB // 数据库连接
}

// NewRoleRepository 创建角色仓库实例
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{
		db: db,
	}
}

// CreateRole 创建角色及初始菜单授权
// 角色行和授权行在同一个事务中写入,部分失败整体回滚
func (r *RoleRepository) CreateRole(ctx context.Context, role *model.Role, grants []*model.RoleMenu) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}
		for _, grant := range grants {
			grant.RoleID = role.ID
			if err := tx.Create(grant).Error; err != nil {
				return fmt.Errorf("failed to create role menu grant: %w", err)
			}
		}
		return nil
	})
}

// GetRoleByID 根据ID获取未删除的角色
func (r *RoleRepository) GetRoleByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		// 记录数据库错误日志
		logger.LogError(err, "", id, "", "role_get", "GET", map[string]interface{}{
			"operation": "get_role_by_id",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &role, nil
}

// GetRoleByCode 根据代码获取未删除的角色
func (r *RoleRepository) GetRoleByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_deleted = ?", code, false).
		First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		logger.LogError(err, "", 0, "", "role_get", "GET", map[string]interface{}{
			"operation": "get_role_by_code",
			"code":      code,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &role, nil
}

// ListRoles 获取全部未删除的角色
func (r *RoleRepository) ListRoles(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Find(&roles).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "role_list", "GET", map[string]interface{}{
			"operation": "list_roles",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return roles, nil
}

// UpdateRole 更新角色信息及菜单授权增删
// 字段更新和授权调整在同一个事务中执行,先软删除移除项再写入新增项
func (r *RoleRepository) UpdateRole(ctx context.Context, role *model.Role, toAdd []*model.RoleMenu, toRemove []uint) error {
	role.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(role).Error; err != nil {
			return fmt.Errorf("failed to save role: %w", err)
		}
		return applyRoleMenuDelta(tx, role.ID, toAdd, toRemove)
	})
	if err != nil {
		logger.LogError(err, "", role.ID, "", "role_update", "PUT", map[string]interface{}{
			"operation": "update_role",
			"code":      role.Code,
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return nil
}

// SoftDeleteRole 软删除角色
func (r *RoleRepository) SoftDeleteRole(ctx context.Context, id uint) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Role{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		logger.LogError(result.Error, "", id, "", "role_delete", "DELETE", map[string]interface{}{
			"operation": "soft_delete_role",
			"timestamp": logger.NowFormatted(),
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RoleCodeExists 检查角色代码是否已被占用
// 包含软删除行,唯一性覆盖全部历史记录
func (r *RoleRepository) RoleCodeExists(ctx context.Context, code string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&model.Role{}).
		Where("code = ?", code)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check role code existence: %w", err)
	}
	return count > 0, nil
}

// ExistsActiveRoleForUser 检查角色是否可被指定用户选择
// 角色必须启用且未删除,并且 user_roles 中存在该用户与角色的关联行
func (r *RoleRepository) ExistsActiveRoleForUser(ctx context.Context, userID, roleID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("roles").
		Joins("INNER JOIN user_roles ON user_roles.role_id = roles.id AND user_roles.user_id = ?", userID).
		Where("roles.id = ? AND roles.is_active = ? AND roles.is_deleted = ?", roleID, true, false).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role for user: %w", err)
	}
	return count > 0, nil
}

// GetRoleMenus 获取角色当前有效的菜单授权行
// 调和算法的 current 输入,只含未软删除的授权
func (r *RoleRepository) GetRoleMenus(ctx context.Context, roleID uint) ([]*model.RoleMenu, error) {
	var grants []*model.RoleMenu
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND is_deleted = ?", roleID, false).
		Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get role menus: %w", err)
	}
	return grants, nil
}

// GetRoleMenuViews 获取角色授权的菜单及授权标记
// 角色授权管理视图使用,菜单本身需未删除
func (r *RoleRepository) GetRoleMenuViews(ctx context.Context, roleID uint) ([]*model.RoleMenuView, error) {
	var views []*model.RoleMenuView
	err := r.db.WithContext(ctx).
		Table("role_menus").
		Select("role_menus.menu_id, menus.code, menus.title, role_menus.grant_create, role_menus.grant_update, role_menus.grant_delete, role_menus.is_active").
		Joins("INNER JOIN menus ON menus.id = role_menus.menu_id AND menus.is_deleted = ?", false).
		Where("role_menus.role_id = ? AND role_menus.is_deleted = ?", roleID, false).
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get role menu views: %w", err)
	}
	return views, nil
}

// applyRoleMenuDelta 在给定事务内应用角色菜单授权增删
// 先软删除移除项再写入新增项
// (role_id, menu_id) 上有联合唯一索引,曾被软删除的授权重新加入时原行复活并覆盖授权标记
func applyRoleMenuDelta(tx *gorm.DB, roleID uint, toAdd []*model.RoleMenu, toRemove []uint) error {
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return nil
	}
	now := time.Now()
	if len(toRemove) > 0 {
		if err := tx.Model(&model.RoleMenu{}).
			Where("role_id = ? AND menu_id IN ? AND is_deleted = ?", roleID, toRemove, false).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"deleted_at": now,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to remove role menu grants: %w", err)
		}
	}
	for _, grant := range toAdd {
		grant.RoleID = roleID

		// 同一 (role_id, menu_id) 的软删除行存在时复活该行
		var existing model.RoleMenu
		err := tx.Where("role_id = ? AND menu_id = ?", roleID, grant.MenuID).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(grant).Error; err != nil {
				return fmt.Errorf("failed to add role menu grant %d: %w", grant.MenuID, err)
			}
		case err != nil:
			return fmt.Errorf("failed to probe role menu grant %d: %w", grant.MenuID, err)
		default:
			if err := tx.Model(&model.RoleMenu{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"grant_create": grant.GrantCreate,
					"grant_update": grant.GrantUpdate,
					"grant_delete": grant.GrantDelete,
					"is_active":    true,
					"is_deleted":   false,
					"deleted_at":   nil,
					"updated_at":   now,
				}).Error; err != nil {
				return fmt.Errorf("failed to restore role menu grant %d: %w", grant.MenuID, err)
			}
		}
	}
	return nil
}
