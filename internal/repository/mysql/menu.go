/**
 * 菜单仓库层:菜单数据访问
 * @author: sun977
 * @date: 2025.11.20
 * @description: 菜单数据访问,包含授权菜单解析的多表联查
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package mysql

import (
	"context"
	"fmt"
	"time"

	"menuguard/internal/model"
	"menuguard/internal/pkg/logger"

	"gorm.io/gorm"
)

// MenuRepository 菜单仓库结构体
type MenuRepository struct {
	db *gorm.DB // 数据库连接
}

// NewMenuRepository 创建菜单仓库实例
func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{
		db: db,
	}
}

// CreateMenu 创建菜单（纯数据访问）
func (r *MenuRepository) CreateMenu(ctx context.Context, menu *model.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

// GetMenuByID 根据ID获取未删除的菜单
func (r *MenuRepository) GetMenuByID(ctx context.Context, id uint) (*model.Menu, error) {
	var menu model.Menu
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&menu).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		// 记录数据库错误日志
		logger.LogError(err, "", id, "", "menu_get", "GET", map[string]interface{}{
			"operation": "get_menu_by_id",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &menu, nil
}

// GetMenuByCode 根据代码获取未删除的菜单
func (r *MenuRepository) GetMenuByCode(ctx context.Context, code string) (*model.Menu, error) {
	var menu model.Menu
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_deleted = ?", code, false).
		First(&menu).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		logger.LogError(err, "", 0, "", "menu_get", "GET", map[string]interface{}{
			"operation": "get_menu_by_code",
			"code":      code,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &menu, nil
}

// ListMenus 获取全部未删除的菜单
func (r *MenuRepository) ListMenus(ctx context.Context) ([]*model.Menu, error) {
	var menus []*model.Menu
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Find(&menus).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "menu_list", "GET", map[string]interface{}{
			"operation": "list_menus",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return menus, nil
}

// GetMenusByIDs 按ID集合获取未删除的菜单
// 调和算法校验授权目标存在性时使用
func (r *MenuRepository) GetMenusByIDs(ctx context.Context, ids []uint) ([]*model.Menu, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var menus []*model.Menu
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&menus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get menus by ids: %w", err)
	}
	return menus, nil
}

// UpdateMenu 更新菜单信息
func (r *MenuRepository) UpdateMenu(ctx context.Context, menu *model.Menu) error {
	menu.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(menu).Error
	if err != nil {
		logger.LogError(err, "", menu.ID, "", "menu_update", "PUT", map[string]interface{}{
			"operation": "update_menu",
			"code":      menu.Code,
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return nil
}

// SoftDeleteMenu 软删除菜单
func (r *MenuRepository) SoftDeleteMenu(ctx context.Context, id uint) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Menu{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		logger.LogError(result.Error, "", id, "", "menu_delete", "DELETE", map[string]interface{}{
			"operation": "soft_delete_menu",
			"timestamp": logger.NowFormatted(),
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MenuCodeExists 检查菜单代码是否已被占用
// 包含软删除行,唯一性覆盖全部历史记录
func (r *MenuRepository) MenuCodeExists(ctx context.Context, code string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&model.Menu{}).
		Where("code = ?", code)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check menu code existence: %w", err)
	}
	return count > 0, nil
}

// ResolveAuthorizedMenus 解析用户以指定角色可见的菜单
// 授权表达为一次显式四跳联查: menus -> role_menus -> roles -> user_roles -> users
// 每一跳都过滤启用和未删除,任何一跳断开该菜单即不可见
// 每次受保护请求都会执行本查询,不做缓存,授权变更即时生效
func (r *MenuRepository) ResolveAuthorizedMenus(ctx context.Context, userID, roleID uint) ([]*model.Menu, error) {
	var menus []*model.Menu
	err := r.db.WithContext(ctx).
		Table("menus").
		Select("DISTINCT menus.*").
		Joins("INNER JOIN role_menus ON role_menus.menu_id = menus.id AND role_menus.role_id = ? AND role_menus.is_active = ? AND role_menus.is_deleted = ?", roleID, true, false).
		Joins("INNER JOIN roles ON roles.id = role_menus.role_id AND roles.is_active = ? AND roles.is_deleted = ?", true, false).
		Joins("INNER JOIN user_roles ON user_roles.role_id = roles.id AND user_roles.user_id = ?", userID).
		Joins("INNER JOIN users ON users.id = user_roles.user_id AND users.is_active = ? AND users.is_deleted = ?", true, false).
		Where("menus.is_active = ? AND menus.is_deleted = ?", true, false).
		Find(&menus).Error
	if err != nil {
		logger.LogError(err, "", userID, "", "menu_resolve", "GET", map[string]interface{}{
			"operation": "resolve_authorized_menus",
			"role_id":   roleID,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return menus, nil
}
