package system

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"menuguard/internal/model"
	authpkg "menuguard/internal/pkg/auth"
	authsvc "menuguard/internal/service/auth"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// memUserRepo 内存版用户仓库, failing 置位后所有方法返回存储错误
type memUserRepo struct {
	users   map[uint]*model.User
	roles   map[uint][]uint
	nextID  uint
	failing bool
}

var errStorage = errors.New("storage unavailable")

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]*model.User), roles: make(map[uint][]uint)}
}

func (r *memUserRepo) CreateUser(ctx context.Context, user *model.User, roleIDs []uint) error {
	if r.failing {
		return errStorage
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	r.roles[user.ID] = roleIDs
	return nil
}

func (r *memUserRepo) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if r.failing {
		return nil, errStorage
	}
	user, ok := r.users[id]
	if !ok || user.IsDeleted {
		return nil, nil
	}
	return user, nil
}

func (r *memUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if r.failing {
		return nil, errStorage
	}
	for _, user := range r.users {
		if user.Username == username && !user.IsDeleted {
			return user, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) ListUsers(ctx context.Context) ([]*model.User, error) {
	if r.failing {
		return nil, errStorage
	}
	out := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		if !user.IsDeleted {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *memUserRepo) UpdateUser(ctx context.Context, user *model.User, toAdd, toRemove []uint) error {
	if r.failing {
		return errStorage
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) SoftDeleteUser(ctx context.Context, id uint) error {
	if r.failing {
		return errStorage
	}
	user, ok := r.users[id]
	if !ok || user.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	user.IsDeleted = true
	return nil
}

func (r *memUserRepo) UsernameExists(ctx context.Context, username string, excludeID uint) (bool, error) {
	if r.failing {
		return false, errStorage
	}
	for _, user := range r.users {
		if user.ID != excludeID && user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) EmailExists(ctx context.Context, email string, excludeID uint) (bool, error) {
	if r.failing {
		return false, errStorage
	}
	for _, user := range r.users {
		if user.ID != excludeID && user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) GetUserRoleIDs(ctx context.Context, userID uint) ([]uint, error) {
	if r.failing {
		return nil, errStorage
	}
	return r.roles[userID], nil
}

func (r *memUserRepo) GetRolesByUserID(ctx context.Context, userID uint) ([]*model.Role, error) {
	if r.failing {
		return nil, errStorage
	}
	return nil, nil
}

// stubRoleRepo 空角色仓库,用户测试不涉及角色校验
type stubRoleRepo struct{}

func (stubRoleRepo) CreateRole(ctx context.Context, role *model.Role, grants []*model.RoleMenu) error {
	return nil
}
func (stubRoleRepo) GetRoleByID(ctx context.Context, id uint) (*model.Role, error) { return nil, nil }
func (stubRoleRepo) GetRoleByCode(ctx context.Context, code string) (*model.Role, error) {
	return nil, nil
}
func (stubRoleRepo) ListRoles(ctx context.Context) ([]*model.Role, error) { return nil, nil }
func (stubRoleRepo) UpdateRole(ctx context.Context, role *model.Role, toAdd []*model.RoleMenu, toRemove []uint) error {
	return nil
}
func (stubRoleRepo) SoftDeleteRole(ctx context.Context, id uint) error { return nil }
func (stubRoleRepo) RoleCodeExists(ctx context.Context, code string, excludeID uint) (bool, error) {
	return false, nil
}
func (stubRoleRepo) ExistsActiveRoleForUser(ctx context.Context, userID, roleID uint) (bool, error) {
	return false, nil
}
func (stubRoleRepo) GetRoleMenus(ctx context.Context, roleID uint) ([]*model.RoleMenu, error) {
	return nil, nil
}
func (stubRoleRepo) GetRoleMenuViews(ctx context.Context, roleID uint) ([]*model.RoleMenuView, error) {
	return nil, nil
}

var handlerTestPasswordConfig = &authpkg.PasswordConfig{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newUserTestRouter(t *testing.T) (*gin.Engine, *memUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemUserRepo()
	service := authsvc.NewUserService(repo, stubRoleRepo{}, authpkg.NewPasswordManager(handlerTestPasswordConfig))
	handler := NewUserHandler(service)

	engine := gin.New()
	group := engine.Group("/api/user")
	group.POST("", handler.CreateUser)
	group.GET("", handler.ListUsers)
	group.GET("/:id", handler.GetUser)
	group.DELETE("/:id", handler.DeleteUser)
	return engine, repo
}

func postJSON(engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) *model.APIResponse {
	t.Helper()
	var resp model.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return &resp
}

func TestUserHandlerCreate(t *testing.T) {
	t.Run("创建成功返回201且不回传密码", func(t *testing.T) {
		engine, _ := newUserTestRouter(t)
		w := postJSON(engine, "/api/user", map[string]interface{}{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "pw123456",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		resp := decodeResponse(t, w)
		if !resp.Status {
			t.Fatalf("expected success response: %+v", resp)
		}
		data, ok := resp.Data.(map[string]interface{})
		if !ok {
			t.Fatalf("unexpected data payload: %+v", resp.Data)
		}
		if data["username"] != "alice" {
			t.Fatalf("unexpected username: %v", data["username"])
		}
		for _, forbidden := range []string{"password", "password_hash"} {
			if _, present := data[forbidden]; present {
				t.Fatalf("response must not expose %s", forbidden)
			}
		}
	})

	t.Run("重复用户名返回400", func(t *testing.T) {
		engine, _ := newUserTestRouter(t)
		body := map[string]interface{}{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "pw123456",
		}
		postJSON(engine, "/api/user", body)
		w := postJSON(engine, "/api/user", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		resp := decodeResponse(t, w)
		if resp.Status || resp.Message == "" {
			t.Fatalf("expected error message, got %+v", resp)
		}
		// 错误消息点名冲突字段
		if !strings.Contains(resp.Message, "username") {
			t.Fatalf("message should name the conflicting field: %q", resp.Message)
		}
	})

	t.Run("缺少必填字段返回400", func(t *testing.T) {
		engine, _ := newUserTestRouter(t)
		w := postJSON(engine, "/api/user", map[string]interface{}{"username": "alice"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestUserHandlerGet(t *testing.T) {
	t.Run("非数字ID返回400", func(t *testing.T) {
		engine, _ := newUserTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/user/abc", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("不存在的用户返回400业务错误", func(t *testing.T) {
		engine, _ := newUserTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/user/42", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("存储故障返回500兜底消息", func(t *testing.T) {
		engine, repo := newUserTestRouter(t)
		repo.failing = true
		req := httptest.NewRequest(http.MethodGet, "/api/user/42", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		resp := decodeResponse(t, w)
		if resp.Message != "Internal server error." {
			t.Fatalf("internal errors must not leak details: %q", resp.Message)
		}
	})
}

func TestUserHandlerDelete(t *testing.T) {
	engine, _ := newUserTestRouter(t)
	postJSON(engine, "/api/user", map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "pw123456",
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/user/1", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// 重复删除返回业务错误
	req = httptest.NewRequest(http.MethodDelete, "/api/user/1", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on second delete, got %d", w.Code)
	}
}
