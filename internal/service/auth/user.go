/**
 * 服务层:用户管理
 * @author: sun977
 * @date: 2025.11.20
 * @description: 用户增删改查业务逻辑,先完成全部校验再落库
 * @func:
 * 1.创建用户(含初始角色关联)
 * 2.查询用户
 * 3.更新用户(含角色关联对账)
 * 4.软删除用户
 */
package auth

import (
	"context"
	"errors"
	"fmt"

	"menuguard/internal/model"
	"menuguard/internal/model/system"
	"menuguard/internal/pkg/auth"
	"menuguard/internal/pkg/logger"

	"gorm.io/gorm"
)

// UserService 用户服务
type UserService struct {
	userRepo        UserRepository        // 用户数据仓库
	roleRepo        RoleRepository        // 角色数据仓库
	passwordManager *auth.PasswordManager // 密码管理器
}

// NewUserService 创建用户服务实例
func NewUserService(userRepo UserRepository, roleRepo RoleRepository, passwordManager *auth.PasswordManager) *UserService {
	return &UserService{
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		passwordManager: passwordManager,
	}
}

// CreateUser 创建用户
// 用户名和邮箱全表唯一(包含软删除行),引用的角色必须全部存在
func (s *UserService) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.UserView, error) {
	if req == nil {
		return nil, system.NewValidationError("request body is required")
	}

	if err := s.checkUserUnique(ctx, req.Username, req.Email, 0, "user_create", "POST"); err != nil {
		return nil, err
	}

	roleIDs := dedupeIDs(req.RoleIDs)
	if err := s.validateRolesExist(ctx, roleIDs); err != nil {
		return nil, err
	}

	hash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Fullname:     req.Fullname,
		IsActive:     true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.CreateUser(ctx, user, roleIDs); err != nil {
		logger.LogError(err, "", 0, "", "user_create", "POST", map[string]interface{}{
			"operation": "create_user",
			"username":  req.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.LogBusinessOperation("user_create", user.ID, user.Username, "", "", "success", "user created", map[string]interface{}{
		"role_ids": roleIDs,
	})
	return model.NewUserView(user), nil
}

// GetUserByID 按ID查询用户
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*model.UserView, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, system.ErrNotFound
	}
	return model.NewUserView(user), nil
}

// GetUserByUsername 按用户名查询用户
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*model.UserView, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, system.ErrNotFound
	}
	return model.NewUserView(user), nil
}

// ListUsers 查询用户列表
func (s *UserService) ListUsers(ctx context.Context) ([]*model.UserView, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return model.NewUserViews(users), nil
}

// GetUserRoles 查询用户关联的角色列表
func (s *UserService) GetUserRoles(ctx context.Context, id uint) ([]*model.RoleView, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, system.ErrNotFound
	}
	roles, err := s.userRepo.GetRolesByUserID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	return model.NewRoleViews(roles), nil
}

// UpdateUser 更新用户
// 指针字段为 nil 的不改, RoleIDs 非 nil 时按期望全集对账角色关联
func (s *UserService) UpdateUser(ctx context.Context, id uint, req *model.UpdateUserRequest) (*model.UserView, error) {
	if req == nil {
		return nil, system.NewValidationError("request body is required")
	}

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, system.ErrNotFound
	}

	username := user.Username
	email := user.Email
	if req.Username != nil {
		username = *req.Username
	}
	if req.Email != nil {
		email = *req.Email
	}
	if username != user.Username {
		if err := s.checkUsernameUnique(ctx, username, id, "user_update", "PUT"); err != nil {
			return nil, err
		}
	}
	if email != user.Email {
		if err := s.checkEmailUnique(ctx, email, id, "user_update", "PUT"); err != nil {
			return nil, err
		}
	}

	var toAdd, toRemove []uint
	if req.RoleIDs != nil {
		desired := dedupeIDs(req.RoleIDs)
		if err := s.validateRolesExist(ctx, desired); err != nil {
			return nil, err
		}
		current, err := s.userRepo.GetUserRoleIDs(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get user role ids: %w", err)
		}
		toAdd, toRemove = ReconcileKeys(desired, current)
	}

	user.Username = username
	user.Email = email
	if req.Fullname != nil {
		user.Fullname = *req.Fullname
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := s.passwordManager.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.UpdateUser(ctx, user, toAdd, toRemove); err != nil {
		logger.LogError(err, "", id, "", "user_update", "PUT", map[string]interface{}{
			"operation": "update_user",
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	logger.LogBusinessOperation("user_update", id, user.Username, "", "", "success", "user updated", map[string]interface{}{
		"roles_added":   toAdd,
		"roles_removed": toRemove,
	})
	return model.NewUserView(user), nil
}

// DeleteUser 软删除用户
// 用户行打删除标记,角色关联行随事务一并清理
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	err := s.userRepo.SoftDeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return system.ErrNotFound
		}
		logger.LogError(err, "", id, "", "user_delete", "DELETE", map[string]interface{}{
			"operation": "delete_user",
			"timestamp": logger.NowFormatted(),
		})
		return fmt.Errorf("failed to delete user: %w", err)
	}
	logger.LogBusinessOperation("user_delete", id, "", "", "", "success", "user deleted", nil)
	return nil
}

// checkUserUnique 依次校验用户名和邮箱唯一性
// 逐字段检查,冲突错误点名具体字段
func (s *UserService) checkUserUnique(ctx context.Context, username, email string, excludeID uint, operation, method string) error {
	if err := s.checkUsernameUnique(ctx, username, excludeID, operation, method); err != nil {
		return err
	}
	return s.checkEmailUnique(ctx, email, excludeID, operation, method)
}

// checkUsernameUnique 校验用户名未被占用(包含软删除行)
func (s *UserService) checkUsernameUnique(ctx context.Context, username string, excludeID uint, operation, method string) error {
	exists, err := s.userRepo.UsernameExists(ctx, username, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		dupErr := system.NewDuplicateKeyError("username")
		logger.LogBusinessError(dupErr, "", excludeID, "", operation, method, map[string]interface{}{
			"username": username,
		})
		return dupErr
	}
	return nil
}

// checkEmailUnique 校验邮箱未被占用(包含软删除行)
func (s *UserService) checkEmailUnique(ctx context.Context, email string, excludeID uint, operation, method string) error {
	exists, err := s.userRepo.EmailExists(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		dupErr := system.NewDuplicateKeyError("email")
		logger.LogBusinessError(dupErr, "", excludeID, "", operation, method, map[string]interface{}{
			"email": email,
		})
		return dupErr
	}
	return nil
}

// validateRolesExist 校验角色ID全部存在且未删除
// 任何一个缺失都整体拒绝,不做部分写入
func (s *UserService) validateRolesExist(ctx context.Context, roleIDs []uint) error {
	for _, roleID := range roleIDs {
		role, err := s.roleRepo.GetRoleByID(ctx, roleID)
		if err != nil {
			return fmt.Errorf("failed to get role %d: %w", roleID, err)
		}
		if role == nil {
			logger.LogBusinessError(system.ErrReferenceNotFound, "", 0, "", "user_role_check", "", map[string]interface{}{
				"role_id": roleID,
			})
			return system.ErrReferenceNotFound
		}
	}
	return nil
}

// dedupeIDs 去重并保持原始顺序
func dedupeIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
