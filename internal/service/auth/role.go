/**
 * 服务层:角色管理
 * @author: sun977
 * @date: 2025.11.20
 * @description: 角色增删改查业务逻辑,菜单授权按期望全集对账
 * @func:
 * 1.创建角色(含初始菜单授权)
 * 2.查询角色
 * 3.更新角色(含菜单授权对账)
 * 4.软删除角色
 */
package auth

import (
	"context"
	"errors"
	"fmt"

	"menuguard/internal/model"
	"menuguard/internal/model/system"
	"menuguard/internal/pkg/logger"

	"gorm.io/gorm"
)

// RoleService 角色服务
type RoleService struct {
	roleRepo RoleRepository // 角色数据仓库
	menuRepo MenuRepository // 菜单数据仓库
}

// NewRoleService 创建角色服务实例
func NewRoleService(roleRepo RoleRepository, menuRepo MenuRepository) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		menuRepo: menuRepo,
	}
}

// CreateRole 创建角色
// 角色代码全表唯一(包含软删除行),引用的菜单必须全部存在
func (s *RoleService) CreateRole(ctx context.Context, req *model.CreateRoleRequest) (*model.RoleView, error) {
	if req == nil {
		return nil, system.NewValidationError("request body is required")
	}

	exists, err := s.roleRepo.RoleCodeExists(ctx, req.Code, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check role code: %w", err)
	}
	if exists {
		dupErr := system.NewDuplicateKeyError("code")
		logger.LogBusinessError(dupErr, "", 0, "", "role_create", "POST", map[string]interface{}{
			"code": req.Code,
		})
		return nil, dupErr
	}

	if err := s.validateMenusExist(ctx, menuIDsOf(req.Menus)); err != nil {
		return nil, err
	}

	role := &model.Role{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		role.IsActive = *req.IsActive
	}

	// 空的当前集合,对账结果即全部新增
	grants, _ := ReconcileGrants(req.Menus, nil)
	if err := s.roleRepo.CreateRole(ctx, role, grants); err != nil {
		logger.LogError(err, "", 0, "", "role_create", "POST", map[string]interface{}{
			"operation": "create_role",
			"code":      req.Code,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	logger.LogBusinessOperation("role_create", 0, "", "", "", "success", "role created", map[string]interface{}{
		"role_id": role.ID,
		"code":    role.Code,
	})
	return model.NewRoleView(role), nil
}

// GetRoleByID 按ID查询角色
func (s *RoleService) GetRoleByID(ctx context.Context, id uint) (*model.RoleView, error) {
	role, err := s.roleRepo.GetRoleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, system.ErrNotFound
	}
	return model.NewRoleView(role), nil
}

// GetRoleByCode 按角色代码查询角色
func (s *RoleService) GetRoleByCode(ctx context.Context, code string) (*model.RoleView, error) {
	role, err := s.roleRepo.GetRoleByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, system.ErrNotFound
	}
	return model.NewRoleView(role), nil
}

// ListRoles 查询角色列表
func (s *RoleService) ListRoles(ctx context.Context) ([]*model.RoleView, error) {
	roles, err := s.roleRepo.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return model.NewRoleViews(roles), nil
}

// GetRoleMenus 查询角色当前的菜单授权列表
func (s *RoleService) GetRoleMenus(ctx context.Context, id uint) ([]*model.RoleMenuView, error) {
	role, err := s.roleRepo.GetRoleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, system.ErrNotFound
	}
	views, err := s.roleRepo.GetRoleMenuViews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get role menus: %w", err)
	}
	return views, nil
}

// UpdateRole 更新角色
// Menus 非 nil 时按期望全集对账,保留行的授权标记不做原地更新
func (s *RoleService) UpdateRole(ctx context.Context, id uint, req *model.UpdateRoleRequest) (*model.RoleView, error) {
	if req == nil {
		return nil, system.NewValidationError("request body is required")
	}

	role, err := s.roleRepo.GetRoleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, system.ErrNotFound
	}

	if req.Code != nil && *req.Code != role.Code {
		exists, err := s.roleRepo.RoleCodeExists(ctx, *req.Code, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check role code: %w", err)
		}
		if exists {
			dupErr := system.NewDuplicateKeyError("code")
			logger.LogBusinessError(dupErr, "", 0, "", "role_update", "PUT", map[string]interface{}{
				"code": *req.Code,
			})
			return nil, dupErr
		}
		role.Code = *req.Code
	}

	var toAdd []*model.RoleMenu
	var toRemove []uint
	if req.Menus != nil {
		if err := s.validateMenusExist(ctx, menuIDsOf(req.Menus)); err != nil {
			return nil, err
		}
		current, err := s.roleRepo.GetRoleMenus(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get role menus: %w", err)
		}
		toAdd, toRemove = ReconcileGrants(req.Menus, current)
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.IsActive != nil {
		role.IsActive = *req.IsActive
	}

	if err := s.roleRepo.UpdateRole(ctx, role, toAdd, toRemove); err != nil {
		logger.LogError(err, "", 0, "", "role_update", "PUT", map[string]interface{}{
			"operation": "update_role",
			"role_id":   id,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	logger.LogBusinessOperation("role_update", 0, "", "", "", "success", "role updated", map[string]interface{}{
		"role_id":       id,
		"menus_added":   len(toAdd),
		"menus_removed": toRemove,
	})
	return model.NewRoleView(role), nil
}

// DeleteRole 软删除角色
// 授权行保留,菜单解析查询按角色删除标记过滤
func (s *RoleService) DeleteRole(ctx context.Context, id uint) error {
	err := s.roleRepo.SoftDeleteRole(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return system.ErrNotFound
		}
		logger.LogError(err, "", 0, "", "role_delete", "DELETE", map[string]interface{}{
			"operation": "delete_role",
			"role_id":   id,
			"timestamp": logger.NowFormatted(),
		})
		return fmt.Errorf("failed to delete role: %w", err)
	}
	logger.LogBusinessOperation("role_delete", 0, "", "", "", "success", "role deleted", map[string]interface{}{
		"role_id": id,
	})
	return nil
}

// validateMenusExist 校验菜单ID全部存在且未删除
// 任何一个缺失都整体拒绝,不做部分写入
func (s *RoleService) validateMenusExist(ctx context.Context, menuIDs []uint) error {
	if len(menuIDs) == 0 {
		return nil
	}
	menus, err := s.menuRepo.GetMenusByIDs(ctx, menuIDs)
	if err != nil {
		return fmt.Errorf("failed to get menus: %w", err)
	}
	if len(menus) != len(menuIDs) {
		found := make(map[uint]struct{}, len(menus))
		for _, m := range menus {
			found[m.ID] = struct{}{}
		}
		missing := make([]uint, 0)
		for _, id := range menuIDs {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		logger.LogBusinessError(system.ErrReferenceNotFound, "", 0, "", "role_menu_check", "", map[string]interface{}{
			"missing_menu_ids": missing,
		})
		return system.ErrReferenceNotFound
	}
	return nil
}

// menuIDsOf 提取去重后的菜单ID列表
func menuIDsOf(specs []model.MenuGrantSpec) []uint {
	ids := make([]uint, 0, len(specs))
	for _, spec := range specs {
		ids = append(ids, spec.MenuID)
	}
	return dedupeIDs(ids)
}
