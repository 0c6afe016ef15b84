package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"menuguard/internal/model"
	"menuguard/internal/model/system"
	authpkg "menuguard/internal/pkg/auth"
)

func newUserFixture(t *testing.T) (*UserService, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	service := NewUserService(repo, repo, authpkg.NewPasswordManager(testPasswordConfig))
	return service, repo
}

func TestUserServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("创建成功并关联角色", func(t *testing.T) {
		service, repo := newUserFixture(t)
		role := repo.seedRole("admin", "管理员", true)

		view, err := service.CreateUser(ctx, &model.CreateUserRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "pw123456",
			Fullname: "Alice",
			RoleIDs:  []uint{role.ID, role.ID}, // 重复ID应被去重
		})
		if err != nil {
			t.Fatalf("create user failed: %v", err)
		}
		if !view.IsActive {
			t.Fatal("user should default to active")
		}
		roleIDs, _ := repo.GetUserRoleIDs(ctx, view.ID)
		if len(roleIDs) != 1 || roleIDs[0] != role.ID {
			t.Fatalf("expected single role association, got %v", roleIDs)
		}
		// 密码必须以哈希形式存储
		stored := repo.users[view.ID]
		if stored.PasswordHash == "pw123456" || stored.PasswordHash == "" {
			t.Fatal("password must be hashed before storage")
		}
	})

	t.Run("用户名重复拒绝且点名字段", func(t *testing.T) {
		service, repo := newUserFixture(t)
		repo.seedUser("alice", "alice@example.com", "hash", true)

		_, err := service.CreateUser(ctx, &model.CreateUserRequest{
			Username: "alice",
			Email:    "other@example.com",
			Password: "pw123456",
		})
		if !errors.Is(err, system.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
		if !strings.Contains(err.Error(), "username") {
			t.Fatalf("error should name the conflicting field: %q", err.Error())
		}
	})

	t.Run("邮箱重复拒绝且点名字段", func(t *testing.T) {
		service, repo := newUserFixture(t)
		repo.seedUser("alice", "alice@example.com", "hash", true)

		_, err := service.CreateUser(ctx, &model.CreateUserRequest{
			Username: "bob",
			Email:    "alice@example.com",
			Password: "pw123456",
		})
		if !errors.Is(err, system.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
		if !strings.Contains(err.Error(), "email") {
			t.Fatalf("error should name the conflicting field: %q", err.Error())
		}
	})

	t.Run("引用不存在的角色整体拒绝", func(t *testing.T) {
		service, repo := newUserFixture(t)
		role := repo.seedRole("admin", "管理员", true)

		_, err := service.CreateUser(ctx, &model.CreateUserRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "pw123456",
			RoleIDs:  []uint{role.ID, 999},
		})
		if !errors.Is(err, system.ErrReferenceNotFound) {
			t.Fatalf("expected ErrReferenceNotFound, got %v", err)
		}
		if len(repo.users) != 0 {
			t.Fatal("no partial write allowed on validation failure")
		}
	})
}

func TestUserServiceQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("按ID与用户名查询", func(t *testing.T) {
		service, repo := newUserFixture(t)
		user := repo.seedUser("alice", "alice@example.com", "hash", true)

		byID, err := service.GetUserByID(ctx, user.ID)
		if err != nil || byID.Username != "alice" {
			t.Fatalf("get by id failed: %v %+v", err, byID)
		}
		byName, err := service.GetUserByUsername(ctx, "alice")
		if err != nil || byName.ID != user.ID {
			t.Fatalf("get by username failed: %v %+v", err, byName)
		}
	})

	t.Run("不存在返回未找到", func(t *testing.T) {
		service, _ := newUserFixture(t)
		if _, err := service.GetUserByID(ctx, 42); !errors.Is(err, system.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("查询用户角色列表", func(t *testing.T) {
		service, repo := newUserFixture(t)
		role := repo.seedRole("admin", "管理员", true)
		user := repo.seedUser("alice", "alice@example.com", "hash", true, role.ID)

		roles, err := service.GetUserRoles(ctx, user.ID)
		if err != nil || len(roles) != 1 || roles[0].Code != "admin" {
			t.Fatalf("get user roles failed: %v %+v", err, roles)
		}
	})
}

func TestUserServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("角色关联按期望全集对账", func(t *testing.T) {
		service, repo := newUserFixture(t)
		keep := repo.seedRole("admin", "管理员", true)
		drop := repo.seedRole("ops", "运维", true)
		add := repo.seedRole("viewer", "只读", true)
		user := repo.seedUser("alice", "alice@example.com", "hash", true, keep.ID, drop.ID)

		_, err := service.UpdateUser(ctx, user.ID, &model.UpdateUserRequest{
			RoleIDs: []uint{keep.ID, add.ID},
		})
		if err != nil {
			t.Fatalf("update user failed: %v", err)
		}
		roleIDs, _ := repo.GetUserRoleIDs(ctx, user.ID)
		if len(roleIDs) != 2 {
			t.Fatalf("expected 2 roles after reconcile, got %v", roleIDs)
		}
		got := map[uint]bool{}
		for _, id := range roleIDs {
			got[id] = true
		}
		if !got[keep.ID] || !got[add.ID] || got[drop.ID] {
			t.Fatalf("reconcile result mismatch: %v", roleIDs)
		}
	})

	t.Run("未提供的字段保持不变", func(t *testing.T) {
		service, repo := newUserFixture(t)
		user := repo.seedUser("alice", "alice@example.com", "hash", true)
		user.Fullname = "Alice"

		fullname := "Alice Zhang"
		view, err := service.UpdateUser(ctx, user.ID, &model.UpdateUserRequest{Fullname: &fullname})
		if err != nil {
			t.Fatalf("update user failed: %v", err)
		}
		if view.Username != "alice" || view.Email != "alice@example.com" || view.Fullname != "Alice Zhang" {
			t.Fatalf("unexpected view after partial update: %+v", view)
		}
	})

	t.Run("改名撞重复拒绝", func(t *testing.T) {
		service, repo := newUserFixture(t)
		repo.seedUser("taken", "taken@example.com", "hash", true)
		user := repo.seedUser("alice", "alice@example.com", "hash", true)

		username := "taken"
		_, err := service.UpdateUser(ctx, user.ID, &model.UpdateUserRequest{Username: &username})
		if !errors.Is(err, system.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
		if !strings.Contains(err.Error(), "username") {
			t.Fatalf("error should name the conflicting field: %q", err.Error())
		}
	})

	t.Run("改邮箱撞重复拒绝且点名字段", func(t *testing.T) {
		service, repo := newUserFixture(t)
		repo.seedUser("taken", "taken@example.com", "hash", true)
		user := repo.seedUser("alice", "alice@example.com", "hash", true)

		email := "taken@example.com"
		_, err := service.UpdateUser(ctx, user.ID, &model.UpdateUserRequest{Email: &email})
		if !errors.Is(err, system.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
		if !strings.Contains(err.Error(), "email") {
			t.Fatalf("error should name the conflicting field: %q", err.Error())
		}
	})

	t.Run("更新不存在的用户", func(t *testing.T) {
		service, _ := newUserFixture(t)
		_, err := service.UpdateUser(ctx, 42, &model.UpdateUserRequest{})
		if !errors.Is(err, system.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUserServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("软删除后不可再查到", func(t *testing.T) {
		service, repo := newUserFixture(t)
		role := repo.seedRole("admin", "管理员", true)
		user := repo.seedUser("alice", "alice@example.com", "hash", true, role.ID)

		if err := service.DeleteUser(ctx, user.ID); err != nil {
			t.Fatalf("delete user failed: %v", err)
		}
		if _, err := service.GetUserByID(ctx, user.ID); !errors.Is(err, system.ErrNotFound) {
			t.Fatalf("deleted user still visible: %v", err)
		}
		// 角色关联随删除一并清理
		roleIDs, _ := repo.GetUserRoleIDs(ctx, user.ID)
		if len(roleIDs) != 0 {
			t.Fatalf("role associations should be removed, got %v", roleIDs)
		}
	})

	t.Run("删除不存在的用户", func(t *testing.T) {
		service, _ := newUserFixture(t)
		if err := service.DeleteUser(ctx, 42); !errors.Is(err, system.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
