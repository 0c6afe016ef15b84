package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"menuguard/internal/model"
	"menuguard/internal/model/system"
)

func newMenuFixture(t *testing.T) (*MenuService, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewMenuService(repo), repo
}

func TestMenuServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("创建顶级菜单", func(t *testing.T) {
		service, _ := newMenuFixture(t)
		view, err := service.CreateMenu(ctx, &model.CreateMenuRequest{
			Code:  "dashboard",
			Title: "工作台",
			Path:  "/dashboard",
		})
		if err != nil {
			t.Fatalf("create menu failed: %v", err)
		}
		if view.ParentMenuID != nil || !view.IsActive {
			t.Fatalf("unexpected menu view: %+v", view)
		}
	})

	t.Run("创建子菜单", func(t *testing.T) {
		service, repo := newMenuFixture(t)
		parent := repo.seedMenu("system", "系统管理", nil, true)

		view, err := service.CreateMenu(ctx, &model.CreateMenuRequest{
			Code:         "system_user",
			Title:        "用户管理",
			ParentMenuID: &parent.ID,
		})
		if err != nil {
			t.Fatalf("create menu failed: %v", err)
		}
		if view.ParentMenuID == nil || *view.ParentMenuID != parent.ID {
			t.Fatalf("parent reference mismatch: %+v", view)
		}
	})

	t.Run("父菜单不存在拒绝", func(t *testing.T) {
		service, _ := newMenuFixture(t)
		parentID := uint(999)
		_, err := service.CreateMenu(ctx, &model.CreateMenuRequest{
			Code:         "orphan",
			Title:        "孤儿菜单",
			ParentMenuID: &parentID,
		})
		if !errors.Is(err, system.ErrReferenceNotFound) {
			t.Fatalf("expected ErrReferenceNotFound, got %v", err)
		}
	})

	t.Run("菜单代码重复拒绝", func(t *testing.T) {
		service, repo := newMenuFixture(t)
		repo.seedMenu("dashboard", "工作台", nil, true)

		_, err := service.CreateMenu(ctx, &model.CreateMenuRequest{Code: "dashboard", Title: "副本"})
		if !errors.Is(err, system.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
		if !strings.Contains(err.Error(), "code") {
			t.Fatalf("error should name the conflicting field: %q", err.Error())
		}
	})
}

func TestMenuServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("调整父菜单", func(t *testing.T) {
		service, repo := newMenuFixture(t)
		parent := repo.seedMenu("system", "系统管理", nil, true)
		menu := repo.seedMenu("system_user", "用户管理", nil, true)

		view, err := service.UpdateMenu(ctx, menu.ID, &model.UpdateMenuRequest{ParentMenuID: &parent.ID})
		if err != nil {
			t.Fatalf("update menu failed: %v", err)
		}
		if view.ParentMenuID == nil || *view.ParentMenuID != parent.ID {
			t.Fatalf("parent not updated: %+v", view)
		}
	})

	t.Run("ClearParent置为顶级", func(t *testing.T) {
		service, repo := newMenuFixture(t)
		parent := repo.seedMenu("system", "系统管理", nil, true)
		menu := repo.seedMenu("system_user", "用户管理", &parent.ID, true)

		view, err := service.UpdateMenu(ctx, menu.ID, &model.UpdateMenuRequest{ClearParent: true})
		if err != nil {
			t.Fatalf("update menu failed: %v", err)
		}
		if view.ParentMenuID != nil {
			t.Fatalf("parent should be cleared: %+v", view)
		}
	})

	t.Run("自引用成环拒绝", func(t *testing.T) {
		service, repo := newMenuFixture(t)
		menu := repo.seedMenu("system", "系统管理", nil, true)

		_, err := service.UpdateMenu(ctx, menu.ID, &model.UpdateMenuRequest{ParentMenuID: &menu.ID})
		if !errors.Is(err, system.ErrMenuCycle) {
			t.Fatalf("expected ErrMenuCycle, got %v", err)
		}
	})

	t.Run("挂到自己的后代下成环拒绝", func(t *testing.T) {
		service, repo := newMenuFixture(t)
		// root -> child -> grandchild,再把 root 挂到 grandchild 下
		root := repo.seedMenu("root", "根", nil, true)
		child := repo.seedMenu("child", "子", &root.ID, true)
		grandchild := repo.seedMenu("grandchild", "孙", &child.ID, true)

		_, err := service.UpdateMenu(ctx, root.ID, &model.UpdateMenuRequest{ParentMenuID: &grandchild.ID})
		if !errors.Is(err, system.ErrMenuCycle) {
			t.Fatalf("expected ErrMenuCycle, got %v", err)
		}
	})

	t.Run("新父菜单不存在拒绝", func(t *testing.T) {
		service, repo := newMenuFixture(t)
		menu := repo.seedMenu("system", "系统管理", nil, true)

		parentID := uint(999)
		_, err := service.UpdateMenu(ctx, menu.ID, &model.UpdateMenuRequest{ParentMenuID: &parentID})
		if !errors.Is(err, system.ErrReferenceNotFound) {
			t.Fatalf("expected ErrReferenceNotFound, got %v", err)
		}
	})

	t.Run("改代码撞重复拒绝", func(t *testing.T) {
		service, repo := newMenuFixture(t)
		repo.seedMenu("taken", "占用", nil, true)
		menu := repo.seedMenu("dashboard", "工作台", nil, true)

		code := "taken"
		_, err := service.UpdateMenu(ctx, menu.ID, &model.UpdateMenuRequest{Code: &code})
		if !errors.Is(err, system.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
		if !strings.Contains(err.Error(), "code") {
			t.Fatalf("error should name conflicting field, got %v", err)
		}
	})
}

func TestMenuServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("软删除后不可再查到", func(t *testing.T) {
		service, repo := newMenuFixture(t)
		menu := repo.seedMenu("dashboard", "工作台", nil, true)

		if err := service.DeleteMenu(ctx, menu.ID); err != nil {
			t.Fatalf("delete menu failed: %v", err)
		}
		if _, err := service.GetMenuByID(ctx, menu.ID); !errors.Is(err, system.ErrNotFound) {
			t.Fatalf("deleted menu still visible: %v", err)
		}
	})

	t.Run("删除不存在的菜单", func(t *testing.T) {
		service, _ := newMenuFixture(t)
		if err := service.DeleteMenu(ctx, 42); !errors.Is(err, system.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
