package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"menuguard/internal/config"
	"menuguard/internal/model"
	"menuguard/internal/model/system"
	authpkg "menuguard/internal/pkg/auth"
)

// testPasswordConfig 低成本参数,只为测试加速,不用于生产
var testPasswordConfig = &authpkg.PasswordConfig{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newSessionFixture(t *testing.T, guardCfg config.LoginGuardConfig) (*SessionService, *fakeRepo, *authpkg.JWTManager) {
	t.Helper()
	repo := newFakeRepo()
	jwtManager := authpkg.NewJWTManager("session-test-secret-0123456789abcdef", time.Hour)
	passwordManager := authpkg.NewPasswordManager(testPasswordConfig)
	service := NewSessionService(repo, repo, repo, repo, jwtManager, passwordManager, guardCfg)
	return service, repo, jwtManager
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := authpkg.NewPasswordManager(testPasswordConfig).HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestSessionLogin(t *testing.T) {
	guardCfg := config.LoginGuardConfig{Enabled: true, MaxAttempts: 3, LockWindow: time.Minute}
	ctx := context.Background()

	t.Run("凭据正确签发身份令牌", func(t *testing.T) {
		service, repo, jwtManager := newSessionFixture(t, guardCfg)
		repo.seedUser("alice", "alice@example.com", mustHash(t, "pw123456"), true)

		resp, err := service.Login(ctx, &model.LoginRequest{Username: "alice", Password: "pw123456"}, "10.0.0.1")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		claims, err := jwtManager.ValidateIdentityToken(resp.Token)
		if err != nil {
			t.Fatalf("issued token invalid: %v", err)
		}
		if claims.UserID == 0 {
			t.Fatal("identity claims missing user id")
		}
	})

	t.Run("用户不存在与密码错误返回同一错误", func(t *testing.T) {
		service, repo, _ := newSessionFixture(t, guardCfg)
		repo.seedUser("alice", "alice@example.com", mustHash(t, "pw123456"), true)

		_, errUnknown := service.Login(ctx, &model.LoginRequest{Username: "nobody", Password: "x12345"}, "10.0.0.1")
		_, errWrongPw := service.Login(ctx, &model.LoginRequest{Username: "alice", Password: "wrong123"}, "10.0.0.1")
		if !errors.Is(errUnknown, system.ErrInvalidCredentials) {
			t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", errUnknown)
		}
		if !errors.Is(errWrongPw, system.ErrInvalidCredentials) {
			t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
		}
	})

	t.Run("禁用用户拒绝登录", func(t *testing.T) {
		service, repo, _ := newSessionFixture(t, guardCfg)
		repo.seedUser("bob", "bob@example.com", mustHash(t, "pw123456"), false)

		_, err := service.Login(ctx, &model.LoginRequest{Username: "bob", Password: "pw123456"}, "10.0.0.1")
		if !errors.Is(err, system.ErrAccountInactive) {
			t.Fatalf("expected ErrAccountInactive, got %v", err)
		}
	})

	t.Run("缺少用户名或密码直接拒绝", func(t *testing.T) {
		service, _, _ := newSessionFixture(t, guardCfg)
		_, err := service.Login(ctx, &model.LoginRequest{Username: "alice"}, "10.0.0.1")
		if !system.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("连续失败超限后锁定", func(t *testing.T) {
		service, repo, _ := newSessionFixture(t, guardCfg)
		repo.seedUser("alice", "alice@example.com", mustHash(t, "pw123456"), true)

		for i := 0; i < guardCfg.MaxAttempts; i++ {
			service.Login(ctx, &model.LoginRequest{Username: "alice", Password: "wrong123"}, "10.0.0.1")
		}
		// 锁定后正确密码也被拒绝
		_, err := service.Login(ctx, &model.LoginRequest{Username: "alice", Password: "pw123456"}, "10.0.0.1")
		if !system.IsValidationError(err) {
			t.Fatalf("expected lockout rejection, got %v", err)
		}
		// 换一个IP不受影响
		if _, err := service.Login(ctx, &model.LoginRequest{Username: "alice", Password: "pw123456"}, "10.0.0.2"); err != nil {
			t.Fatalf("lockout must be per username+ip, got %v", err)
		}
	})

	t.Run("登录成功后清空失败计数", func(t *testing.T) {
		service, repo, _ := newSessionFixture(t, guardCfg)
		repo.seedUser("alice", "alice@example.com", mustHash(t, "pw123456"), true)

		service.Login(ctx, &model.LoginRequest{Username: "alice", Password: "wrong123"}, "10.0.0.1")
		if _, err := service.Login(ctx, &model.LoginRequest{Username: "alice", Password: "pw123456"}, "10.0.0.1"); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if count, _ := repo.GetFailureCount(ctx, "alice", "10.0.0.1"); count != 0 {
			t.Fatalf("failure counter should be reset, got %d", count)
		}
	})

	t.Run("计数存储故障不阻断登录", func(t *testing.T) {
		service, repo, _ := newSessionFixture(t, guardCfg)
		repo.seedUser("alice", "alice@example.com", mustHash(t, "pw123456"), true)
		repo.guardErr = errors.New("redis: connection refused")

		if _, err := service.Login(ctx, &model.LoginRequest{Username: "alice", Password: "pw123456"}, "10.0.0.1"); err != nil {
			t.Fatalf("guard failure must not block login, got %v", err)
		}
	})
}

func TestSessionLoginRole(t *testing.T) {
	guardCfg := config.LoginGuardConfig{Enabled: false}
	ctx := context.Background()

	t.Run("持有角色签发访问令牌", func(t *testing.T) {
		service, repo, jwtManager := newSessionFixture(t, guardCfg)
		role := repo.seedRole("admin", "管理员", true)
		user := repo.seedUser("alice", "alice@example.com", mustHash(t, "pw123456"), true, role.ID)

		resp, err := service.LoginRole(ctx, user.ID, &model.RoleLoginRequest{RoleID: role.ID}, "10.0.0.1")
		if err != nil {
			t.Fatalf("role login failed: %v", err)
		}
		claims, err := jwtManager.ValidateAccessToken(resp.Token)
		if err != nil {
			t.Fatalf("issued token invalid: %v", err)
		}
		if claims.RoleID == nil || *claims.RoleID != role.ID {
			t.Fatalf("access claims role mismatch: %+v", claims)
		}
	})

	t.Run("未持有的角色拒绝", func(t *testing.T) {
		service, repo, _ := newSessionFixture(t, guardCfg)
		role := repo.seedRole("admin", "管理员", true)
		other := repo.seedRole("viewer", "只读", true)
		user := repo.seedUser("alice", "alice@example.com", mustHash(t, "pw123456"), true, role.ID)

		_, err := service.LoginRole(ctx, user.ID, &model.RoleLoginRequest{RoleID: other.ID}, "10.0.0.1")
		if !errors.Is(err, system.ErrInvalidRole) {
			t.Fatalf("expected ErrInvalidRole, got %v", err)
		}
	})

	t.Run("停用角色拒绝", func(t *testing.T) {
		service, repo, _ := newSessionFixture(t, guardCfg)
		role := repo.seedRole("admin", "管理员", false)
		user := repo.seedUser("alice", "alice@example.com", mustHash(t, "pw123456"), true, role.ID)

		_, err := service.LoginRole(ctx, user.ID, &model.RoleLoginRequest{RoleID: role.ID}, "10.0.0.1")
		if !errors.Is(err, system.ErrInvalidRole) {
			t.Fatalf("expected ErrInvalidRole, got %v", err)
		}
	})

	t.Run("缺少角色ID拒绝", func(t *testing.T) {
		service, _, _ := newSessionFixture(t, guardCfg)
		_, err := service.LoginRole(ctx, 1, &model.RoleLoginRequest{}, "10.0.0.1")
		if !system.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestSessionResolveMenus(t *testing.T) {
	guardCfg := config.LoginGuardConfig{Enabled: false}
	ctx := context.Background()

	t.Run("只返回四环全部有效的菜单", func(t *testing.T) {
		service, repo, _ := newSessionFixture(t, guardCfg)
		role := repo.seedRole("admin", "管理员", true)
		user := repo.seedUser("alice", "alice@example.com", mustHash(t, "pw123456"), true, role.ID)

		visible := repo.seedMenu("dashboard", "工作台", nil, true)
		inactiveMenu := repo.seedMenu("reports", "报表", nil, false)
		ungranted := repo.seedMenu("settings", "设置", nil, true)
		inactiveGrant := repo.seedMenu("audit", "审计", nil, true)

		// 另一个角色独享的授权不能串到当前角色
		otherRole := repo.seedRole("ops", "运维", true)
		otherMenu := repo.seedMenu("deploy", "发布", nil, true)

		repo.seedGrant(role.ID, visible.ID, true, false, false, true)
		repo.seedGrant(role.ID, inactiveMenu.ID, false, false, false, true)
		repo.seedGrant(role.ID, inactiveGrant.ID, false, false, false, false)
		repo.seedGrant(otherRole.ID, otherMenu.ID, true, true, true, true)
		_ = ungranted

		views, err := service.ResolveMenus(ctx, user.ID, role.ID)
		if err != nil {
			t.Fatalf("resolve menus failed: %v", err)
		}
		if len(views) != 1 || views[0].Code != "dashboard" {
			t.Fatalf("expected only dashboard, got %+v", views)
		}
		for _, v := range views {
			if v.Code == "deploy" {
				t.Fatalf("menu granted to another role leaked into result: %+v", views)
			}
		}
	})

	t.Run("角色停用后菜单立即为空", func(t *testing.T) {
		service, repo, _ := newSessionFixture(t, guardCfg)
		role := repo.seedRole("admin", "管理员", true)
		user := repo.seedUser("alice", "alice@example.com", mustHash(t, "pw123456"), true, role.ID)
		menu := repo.seedMenu("dashboard", "工作台", nil, true)
		repo.seedGrant(role.ID, menu.ID, false, false, false, true)

		role.IsActive = false
		views, err := service.ResolveMenus(ctx, user.ID, role.ID)
		if err != nil {
			t.Fatalf("resolve menus failed: %v", err)
		}
		if len(views) != 0 {
			t.Fatalf("expected no menus for inactive role, got %+v", views)
		}
	})
}
