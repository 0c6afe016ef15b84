/**
 * 用户仓库层:用户数据访问
 * @author: sun977
 * @date: 2025.11.20
 * @description: 用户数据访问
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

// UserRepository 用户仓库结构体
// 负责处理用户相关的数据访问，不包含业务逻辑
type UserRepository struct {
	db *gorm.DB // 数据库连接
}

// NewUserRepository 创建用户仓库实例
// 注入数据库连接，专注于数据访问操作
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser 创建用户及初始角色关联（纯数据访问）
// 用户行和 user_roles 行在同一个事务中写入,部分失败整体回滚
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User, roleIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		for _, roleID := range roleIDs {
			link := &model.UserRole{
				UserID:    user.ID,
				RoleID:    roleID,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(link).Error; err != nil {
				return fmt.Errorf("failed to link role %d: %w", roleID, err)
			}
		}
		return nil
	})
}

// GetUserByID 根据ID获取未删除的用户
func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		// 记录数据库错误日志
		logger.LogError(err, "", id, "", "user_get", "GET", map[string]interface{}{
			"operation": "get_user_by_id",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername 根据用户名获取未删除的用户
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND is_deleted = ?", username, false).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		// 记录数据库错误日志
		logger.LogError(err, "", 0, "", "user_get", "GET", map[string]interface{}{
			"operation": "get_user_by_username",
			"username":  username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return &user, nil
}

// ListUsers 获取全部未删除的用户
func (r *UserRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Find(&users).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "user_list", "GET", map[string]interface{}{
			"operation": "list_users",
			"timestamp": logger.NowFormatted(),
		})
		return nil, err
	}
	return users, nil
}

// UpdateUser 更新用户信息及角色关联增删
// 字段更新和关联调整在同一个事务中执行,先删后增,UserRole 是硬删除
func (r *UserRepository) UpdateUser(ctx context.Context, user *model.User, toAdd, toRemove []uint) error {
	user.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		if len(toRemove) > 0 {
			if err := tx.Where("user_id = ? AND role_id IN ?", user.ID, toRemove).
				Delete(&model.UserRole{}).Error; err != nil {
				return fmt.Errorf("failed to remove user roles: %w", err)
			}
		}
		for _, roleID := range toAdd {
			link := &model.UserRole{
				UserID:    user.ID,
				RoleID:    roleID,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(link).Error; err != nil {
				return fmt.Errorf("failed to add user role %d: %w", roleID, err)
			}
		}
		return nil
	})
	if err != nil {
		// 记录更新失败日志
		logger.LogError(err, "", user.ID, "", "user_update", "PUT", map[string]interface{}{
			"operation": "update_user",
			"username":  user.Username,
			"timestamp": logger.NowFormatted(),
		})
		return err
	}
	return nil
}

// SoftDeleteUser 软删除用户并回收其角色成员关系
// 用户行标记 is_deleted,user_roles 行物理删除,同一事务执行
func (r *UserRepository) SoftDeleteUser(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&model.User{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"deleted_at": now,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("user_id = ?", id).Delete(&model.UserRole{}).Error
	})
	if err != nil && err != gorm.ErrRecordNotFound {
		logger.LogError(err, "", id, "", "user_delete", "DELETE", map[string]interface{}{
			"operation": "soft_delete_user",
			"timestamp": logger.NowFormatted(),
		})
	}
	return err
}

// UsernameExists 检查用户名是否已被占用
// 包含软删除行,唯一性覆盖全部历史记录
func (r *UserRepository) UsernameExists(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

// EmailExists 检查邮箱是否已被占用
// 包含软删除行,唯一性覆盖全部历史记录
func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// GetUserRoleIDs 获取用户当前持有的角色ID集合
// 调和算法的 current 输入
func (r *UserRepository) GetUserRoleIDs(ctx context.Context, userID uint) ([]uint, error) {
	var roleIDs []uint
	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role_id", &roleIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user role ids: %w", err)
	}
	return roleIDs, nil
}

// GetRolesByUserID 获取用户持有的未删除角色
func (r *UserRepository) GetRolesByUserID(ctx context.Context, userID uint) ([]*model.Role, error) {
	var roles []*model.Role
	err := r.db.WithContext(ctx).
		Table("roles").
		Joins("INNER JOIN user_roles ON user_roles.role_id = roles.id AND user_roles.user_id = ?", userID).
		Where("roles.is_deleted = ?", false).
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get roles by user id: %w", err)
	}
	return roles, nil
}

