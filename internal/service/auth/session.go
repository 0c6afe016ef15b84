/**
 * 服务层:会话与登录
 * @author: sun977
 * @date: 2025.11.20
 * @description: 两段式登录业务逻辑,凭据校验换身份令牌,角色选择换访问令牌
 * @func:
 * 1.Login 凭据校验,签发身份令牌
 * 2.LoginRole 角色归属校验,签发访问令牌
 * 3.ResolveMenus 解析当前用户角色可见菜单
 */
package auth

import (
	"context"
	"fmt"

	"menuguard/internal/config"
	"menuguard/internal/model"
	"menuguard/internal/model/system"
	"menuguard/internal/pkg/auth"
	"menuguard/internal/pkg/logger"
)

// SessionService 会话服务
// 不在服务端保存会话状态,令牌本身即凭据
type SessionService struct {
	userRepo        UserRepository          // 用户数据仓库
	roleRepo        RoleRepository          // 角色数据仓库
	menuRepo        MenuRepository          // 菜单数据仓库
	guard           LoginGuard              // 登录失败计数
	jwtManager      *auth.JWTManager        // JWT管理器
	passwordManager *auth.PasswordManager   // 密码管理器
	guardConfig     config.LoginGuardConfig // 登录防护配置
}

// NewSessionService 创建会话服务实例
func NewSessionService(
	userRepo UserRepository,
	roleRepo RoleRepository,
	menuRepo MenuRepository,
	guard LoginGuard,
	jwtManager *auth.JWTManager,
	passwordManager *auth.PasswordManager,
	guardConfig config.LoginGuardConfig,
) *SessionService {
	return &SessionService{
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		menuRepo:        menuRepo,
		guard:           guard,
		jwtManager:      jwtManager,
		passwordManager: passwordManager,
		guardConfig:     guardConfig,
	}
}

// Login 登录第一步,凭据校验
// 校验通过签发身份令牌,令牌只携带用户ID,不携带角色
// 用户不存在和密码错误返回同一个错误,不暴露账号是否存在
func (s *SessionService) Login(ctx context.Context, req *model.LoginRequest, clientIP string) (*model.TokenResponse, error) {
	if req == nil || req.Username == "" || req.Password == "" {
		return nil, system.NewValidationError("username and password are required")
	}

	// 失败次数超限时在窗口期内直接拒绝
	if locked, err := s.isLocked(ctx, req.Username, clientIP); err != nil {
		return nil, err
	} else if locked {
		logger.LogWarn("login rejected by guard", "", 0, clientIP, "user_login", "POST", map[string]interface{}{
			"username": req.Username,
		})
		return nil, system.NewValidationError("Too many failed login attempts")
	}

	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		logger.LogError(err, "", 0, clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "get_user",
			"username":  req.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		s.recordFailure(ctx, req.Username, clientIP)
		return nil, system.ErrInvalidCredentials
	}

	ok, err := s.passwordManager.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		logger.LogError(err, "", user.ID, clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "verify_password",
			"username":  req.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.recordFailure(ctx, req.Username, clientIP)
		logger.LogBusinessError(system.ErrInvalidCredentials, "", user.ID, clientIP, "user_login", "POST", map[string]interface{}{
			"username": req.Username,
		})
		return nil, system.ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.LogBusinessError(system.ErrAccountInactive, "", user.ID, clientIP, "user_login", "POST", map[string]interface{}{
			"username": req.Username,
		})
		return nil, system.ErrAccountInactive
	}

	// 登录成功清空失败计数
	if s.guardConfig.Enabled {
		if err := s.guard.ResetFailures(ctx, req.Username, clientIP); err != nil {
			logger.LogWarn("failed to reset login failure counter", "", user.ID, clientIP, "user_login", "POST", map[string]interface{}{
				"username": req.Username,
				"error":    err.Error(),
			})
		}
	}

	token, err := s.jwtManager.GenerateIdentityToken(user.ID)
	if err != nil {
		logger.LogError(err, "", user.ID, clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "generate_identity_token",
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to generate identity token: %w", err)
	}

	logger.LogBusinessOperation("user_login", user.ID, user.Username, clientIP, "", "success", "identity token issued", map[string]interface{}{
		"username": user.Username,
	})
	return &model.TokenResponse{Token: token}, nil
}

// LoginRole 登录第二步,角色选择
// 校验用户与所选角色之间存在有效关联后签发携带角色的访问令牌
func (s *SessionService) LoginRole(ctx context.Context, userID uint, req *model.RoleLoginRequest, clientIP string) (*model.TokenResponse, error) {
	if req == nil || req.RoleID == 0 {
		return nil, system.NewFieldError("roleId", "roleId is required")
	}

	exists, err := s.roleRepo.ExistsActiveRoleForUser(ctx, userID, req.RoleID)
	if err != nil {
		logger.LogError(err, "", userID, clientIP, "role_login", "POST", map[string]interface{}{
			"operation": "check_user_role",
			"role_id":   req.RoleID,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to check user role: %w", err)
	}
	if !exists {
		logger.LogBusinessError(system.ErrInvalidRole, "", userID, clientIP, "role_login", "POST", map[string]interface{}{
			"role_id": req.RoleID,
		})
		return nil, system.ErrInvalidRole
	}

	token, err := s.jwtManager.GenerateAccessToken(userID, req.RoleID)
	if err != nil {
		logger.LogError(err, "", userID, clientIP, "role_login", "POST", map[string]interface{}{
			"operation": "generate_access_token",
			"role_id":   req.RoleID,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	logger.LogBusinessOperation("role_login", userID, "", clientIP, "", "success", "access token issued", map[string]interface{}{
		"role_id": req.RoleID,
	})
	return &model.TokenResponse{Token: token}, nil
}

// ResolveMenus 解析当前用户在当前角色下可见的菜单列表
// 每次实时查库,用户、角色、授权、菜单任何一环失效立即生效,不走缓存
func (s *SessionService) ResolveMenus(ctx context.Context, userID, roleID uint) ([]*model.MenuView, error) {
	menus, err := s.menuRepo.ResolveAuthorizedMenus(ctx, userID, roleID)
	if err != nil {
		logger.LogError(err, "", userID, "", "resolve_menus", "GET", map[string]interface{}{
			"operation": "resolve_authorized_menus",
			"role_id":   roleID,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to resolve menus: %w", err)
	}
	return model.NewMenuViews(menus), nil
}

// isLocked 检查登录失败次数是否超限
func (s *SessionService) isLocked(ctx context.Context, username, clientIP string) (bool, error) {
	if !s.guardConfig.Enabled {
		return false, nil
	}
	count, err := s.guard.GetFailureCount(ctx, username, clientIP)
	if err != nil {
		// Redis故障不阻断登录
		logger.LogWarn("failed to get login failure counter", "", 0, clientIP, "user_login", "POST", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		return false, nil
	}
	return count >= int64(s.guardConfig.MaxAttempts), nil
}

// recordFailure 累计一次登录失败
func (s *SessionService) recordFailure(ctx context.Context, username, clientIP string) {
	if !s.guardConfig.Enabled {
		return
	}
	if _, err := s.guard.IncrFailure(ctx, username, clientIP, s.guardConfig.LockWindow); err != nil {
		logger.LogWarn("failed to record login failure", "", 0, clientIP, "user_login", "POST", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
	}
}
