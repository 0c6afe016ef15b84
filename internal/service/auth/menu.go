/**
 * 服务层:菜单管理
 * @author: sun977
 * @date: 2025.11.20
 * @description: 菜单增删改查业务逻辑,父子层级校验防止成环
 * @func:
 * 1.创建菜单(父菜单存在性校验)
 * 2.查询菜单
 * 3.更新菜单(父菜单调整和环检测)
 * 4.软删除菜单
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

// MenuService 菜单服务
type MenuService struct {
	menuRepo MenuRepository // 菜单数据仓库
}

// NewMenuService 创建菜单服务实例
func NewMenuService(menuRepo MenuRepository) *MenuService {
	return &MenuService{
		menuRepo: menuRepo,
	}
}

// CreateMenu 创建菜单
// 菜单代码全表唯一(包含软删除行),父菜单必须存在
func (s *MenuService) CreateMenu(ctx context.Context, req *model.CreateMenuRequest) (*model.MenuView, error) {
	if req == nil {
		return nil, system.NewValidationError("request body is required")
	}

	exists, err := s.menuRepo.MenuCodeExists(ctx, req.Code, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check menu code: %w", err)
	}
	if exists {
		dupErr := system.NewDuplicateKeyError("code")
		logger.LogBusinessError(dupErr, "", 0, "", "menu_create", "POST", map[string]interface{}{
			"code": req.Code,
		})
		return nil, dupErr
	}

	if req.ParentMenuID != nil {
		parent, err := s.menuRepo.GetMenuByID(ctx, *req.ParentMenuID)
		if err != nil {
			return nil, fmt.Errorf("failed to get parent menu: %w", err)
		}
		if parent == nil {
			logger.LogBusinessError(system.ErrReferenceNotFound, "", 0, "", "menu_create", "POST", map[string]interface{}{
				"parent_menu_id": *req.ParentMenuID,
			})
			return nil, system.ErrReferenceNotFound
		}
	}

	menu := &model.Menu{
		Code:         req.Code,
		Title:        req.Title,
		Path:         req.Path,
		ParentMenuID: req.ParentMenuID,
		IsActive:     true,
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}

	if err := s.menuRepo.CreateMenu(ctx, menu); err != nil {
		logger.LogError(err, "", 0, "", "menu_create", "POST", map[string]interface{}{
			"operation": "create_menu",
			"code":      req.Code,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to create menu: %w", err)
	}

	logger.LogBusinessOperation("menu_create", 0, "", "", "", "success", "menu created", map[string]interface{}{
		"menu_id": menu.ID,
		"code":    menu.Code,
	})
	return model.NewMenuView(menu), nil
}

// GetMenuByID 按ID查询菜单
func (s *MenuService) GetMenuByID(ctx context.Context, id uint) (*model.MenuView, error) {
	menu, err := s.menuRepo.GetMenuByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	if menu == nil {
		return nil, system.ErrNotFound
	}
	return model.NewMenuView(menu), nil
}

// GetMenuByCode 按菜单代码查询菜单
func (s *MenuService) GetMenuByCode(ctx context.Context, code string) (*model.MenuView, error) {
	menu, err := s.menuRepo.GetMenuByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	if menu == nil {
		return nil, system.ErrNotFound
	}
	return model.NewMenuView(menu), nil
}

// ListMenus 查询菜单列表
func (s *MenuService) ListMenus(ctx context.Context) ([]*model.MenuView, error) {
	menus, err := s.menuRepo.ListMenus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	return model.NewMenuViews(menus), nil
}

// UpdateMenu 更新菜单
// ClearParent 为 true 时置为顶级菜单,调整父菜单时检查层级不成环
func (s *MenuService) UpdateMenu(ctx context.Context, id uint, req *model.UpdateMenuRequest) (*model.MenuView, error) {
	if req == nil {
		return nil, system.NewValidationError("request body is required")
	}

	menu, err := s.menuRepo.GetMenuByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	if menu == nil {
		return nil, system.ErrNotFound
	}

	if req.Code != nil && *req.Code != menu.Code {
		exists, err := s.menuRepo.MenuCodeExists(ctx, *req.Code, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check menu code: %w", err)
		}
		if exists {
			dupErr := system.NewDuplicateKeyError("code")
			logger.LogBusinessError(dupErr, "", 0, "", "menu_update", "PUT", map[string]interface{}{
				"code": *req.Code,
			})
			return nil, dupErr
		}
		menu.Code = *req.Code
	}

	switch {
	case req.ClearParent:
		menu.ParentMenuID = nil
	case req.ParentMenuID != nil:
		if err := s.checkParentChain(ctx, id, *req.ParentMenuID); err != nil {
			return nil, err
		}
		menu.ParentMenuID = req.ParentMenuID
	}

	if req.Title != nil {
		menu.Title = *req.Title
	}
	if req.Path != nil {
		menu.Path = *req.Path
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}

	if err := s.menuRepo.UpdateMenu(ctx, menu); err != nil {
		logger.LogError(err, "", 0, "", "menu_update", "PUT", map[string]interface{}{
			"operation": "update_menu",
			"menu_id":   id,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to update menu: %w", err)
	}

	logger.LogBusinessOperation("menu_update", 0, "", "", "", "success", "menu updated", map[string]interface{}{
		"menu_id": id,
	})
	return model.NewMenuView(menu), nil
}

// DeleteMenu 软删除菜单
// 子菜单保留父引用,解析查询按删除标记过滤
func (s *MenuService) DeleteMenu(ctx context.Context, id uint) error {
	err := s.menuRepo.SoftDeleteMenu(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return system.ErrNotFound
		}
		logger.LogError(err, "", 0, "", "menu_delete", "DELETE", map[string]interface{}{
			"operation": "delete_menu",
			"menu_id":   id,
			"timestamp": logger.NowFormatted(),
		})
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	logger.LogBusinessOperation("menu_delete", 0, "", "", "", "success", "menu deleted", map[string]interface{}{
		"menu_id": id,
	})
	return nil
}

// checkParentChain 校验新父菜单存在且沿父链向上走不会回到自身
func (s *MenuService) checkParentChain(ctx context.Context, menuID, parentID uint) error {
	if parentID == menuID {
		return system.ErrMenuCycle
	}
	// 沿父链向上遍历,步数上限防御脏数据中已有的环
	cursor := parentID
	for depth := 0; depth < 64; depth++ {
		parent, err := s.menuRepo.GetMenuByID(ctx, cursor)
		if err != nil {
			return fmt.Errorf("failed to get menu %d: %w", cursor, err)
		}
		if parent == nil {
			// 链首个节点必须存在,更深层的断链按到顶处理
			if cursor == parentID {
				logger.LogBusinessError(system.ErrReferenceNotFound, "", 0, "", "menu_parent_check", "", map[string]interface{}{
					"parent_menu_id": parentID,
				})
				return system.ErrReferenceNotFound
			}
			return nil
		}
		if parent.ParentMenuID == nil {
			return nil
		}
		if *parent.ParentMenuID == menuID {
			logger.LogBusinessError(system.ErrMenuCycle, "", 0, "", "menu_parent_check", "", map[string]interface{}{
				"menu_id":        menuID,
				"parent_menu_id": parentID,
			})
			return system.ErrMenuCycle
		}
		cursor = *parent.ParentMenuID
	}
	return system.ErrMenuCycle
}
