package auth

import (
	"context"
	"time"

	"menuguard/internal/model"

	"gorm.io/gorm"
)

// fakeRepo 内存版仓库实现,同时充当用户/角色/菜单仓库和登录防护计数器
type fakeRepo struct {
	users     map[uint]*model.User
	roles     map[uint]*model.Role
	menus     map[uint]*model.Menu
	userRoles map[uint][]uint            // userID -> roleIDs
	grants    map[uint][]*model.RoleMenu // roleID -> 授权行
	failures  map[string]int64
	guardErr  error // 非 nil 时所有计数操作返回该错误
	nextID    uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     make(map[uint]*model.User),
		roles:     make(map[uint]*model.Role),
		menus:     make(map[uint]*model.Menu),
		userRoles: make(map[uint][]uint),
		grants:    make(map[uint][]*model.RoleMenu),
		failures:  make(map[string]int64),
	}
}

func (f *fakeRepo) allocID() uint {
	f.nextID++
	return f.nextID
}

// --- UserRepository ---

func (f *fakeRepo) CreateUser(ctx context.Context, user *model.User, roleIDs []uint) error {
	user.ID = f.allocID()
	f.users[user.ID] = user
	f.userRoles[user.ID] = append([]uint(nil), roleIDs...)
	return nil
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok || user.IsDeleted {
		return nil, nil
	}
	return user, nil
}

func (f *fakeRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username && !user.IsDeleted {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListUsers(ctx context.Context) ([]*model.User, error) {
	out := make([]*model.User, 0, len(f.users))
	for _, user := range f.users {
		if !user.IsDeleted {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateUser(ctx context.Context, user *model.User, toAdd, toRemove []uint) error {
	f.users[user.ID] = user
	current := f.userRoles[user.ID]
	removeSet := make(map[uint]struct{}, len(toRemove))
	for _, id := range toRemove {
		removeSet[id] = struct{}{}
	}
	next := make([]uint, 0, len(current)+len(toAdd))
	for _, id := range current {
		if _, ok := removeSet[id]; !ok {
			next = append(next, id)
		}
	}
	next = append(next, toAdd...)
	f.userRoles[user.ID] = next
	return nil
}

func (f *fakeRepo) SoftDeleteUser(ctx context.Context, id uint) error {
	user, ok := f.users[id]
	if !ok || user.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	user.IsDeleted = true
	delete(f.userRoles, id)
	return nil
}

func (f *fakeRepo) UsernameExists(ctx context.Context, username string, excludeID uint) (bool, error) {
	// 唯一性检查包含软删除行
	for _, user := range f.users {
		if user.ID != excludeID && user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) EmailExists(ctx context.Context, email string, excludeID uint) (bool, error) {
	for _, user := range f.users {
		if user.ID != excludeID && user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) GetUserRoleIDs(ctx context.Context, userID uint) ([]uint, error) {
	return append([]uint(nil), f.userRoles[userID]...), nil
}

func (f *fakeRepo) GetRolesByUserID(ctx context.Context, userID uint) ([]*model.Role, error) {
	out := make([]*model.Role, 0)
	for _, roleID := range f.userRoles[userID] {
		if role, ok := f.roles[roleID]; ok && !role.IsDeleted {
			out = append(out, role)
		}
	}
	return out, nil
}

// --- RoleRepository ---

func (f *fakeRepo) CreateRole(ctx context.Context, role *model.Role, grants []*model.RoleMenu) error {
	role.ID = f.allocID()
	f.roles[role.ID] = role
	for _, grant := range grants {
		grant.RoleID = role.ID
		grant.ID = f.allocID()
		f.grants[role.ID] = append(f.grants[role.ID], grant)
	}
	return nil
}

func (f *fakeRepo) GetRoleByID(ctx context.Context, id uint) (*model.Role, error) {
	role, ok := f.roles[id]
	if !ok || role.IsDeleted {
		return nil, nil
	}
	return role, nil
}

func (f *fakeRepo) GetRoleByCode(ctx context.Context, code string) (*model.Role, error) {
	for _, role := range f.roles {
		if role.Code == code && !role.IsDeleted {
			return role, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListRoles(ctx context.Context) ([]*model.Role, error) {
	out := make([]*model.Role, 0, len(f.roles))
	for _, role := range f.roles {
		if !role.IsDeleted {
			out = append(out, role)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateRole(ctx context.Context, role *model.Role, toAdd []*model.RoleMenu, toRemove []uint) error {
	f.roles[role.ID] = role
	removeSet := make(map[uint]struct{}, len(toRemove))
	for _, menuID := range toRemove {
		removeSet[menuID] = struct{}{}
	}
	next := make([]*model.RoleMenu, 0, len(f.grants[role.ID])+len(toAdd))
	for _, grant := range f.grants[role.ID] {
		if _, ok := removeSet[grant.MenuID]; !ok {
			next = append(next, grant)
		}
	}
	for _, grant := range toAdd {
		grant.RoleID = role.ID
		grant.ID = f.allocID()
		next = append(next, grant)
	}
	f.grants[role.ID] = next
	return nil
}

func (f *fakeRepo) SoftDeleteRole(ctx context.Context, id uint) error {
	role, ok := f.roles[id]
	if !ok || role.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	role.IsDeleted = true
	return nil
}

func (f *fakeRepo) RoleCodeExists(ctx context.Context, code string, excludeID uint) (bool, error) {
	for _, role := range f.roles {
		if role.ID != excludeID && role.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ExistsActiveRoleForUser(ctx context.Context, userID, roleID uint) (bool, error) {
	role, ok := f.roles[roleID]
	if !ok || role.IsDeleted || !role.IsActive {
		return false, nil
	}
	for _, id := range f.userRoles[userID] {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) GetRoleMenus(ctx context.Context, roleID uint) ([]*model.RoleMenu, error) {
	out := make([]*model.RoleMenu, 0)
	for _, grant := range f.grants[roleID] {
		if !grant.IsDeleted {
			out = append(out, grant)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetRoleMenuViews(ctx context.Context, roleID uint) ([]*model.RoleMenuView, error) {
	out := make([]*model.RoleMenuView, 0)
	for _, grant := range f.grants[roleID] {
		if grant.IsDeleted {
			continue
		}
		menu, ok := f.menus[grant.MenuID]
		if !ok || menu.IsDeleted {
			continue
		}
		out = append(out, &model.RoleMenuView{
			MenuID:      menu.ID,
			Code:        menu.Code,
			Title:       menu.Title,
			GrantCreate: grant.GrantCreate,
			GrantUpdate: grant.GrantUpdate,
			GrantDelete: grant.GrantDelete,
			IsActive:    grant.IsActive,
		})
	}
	return out, nil
}

// --- MenuRepository ---

func (f *fakeRepo) CreateMenu(ctx context.Context, menu *model.Menu) error {
	menu.ID = f.allocID()
	f.menus[menu.ID] = menu
	return nil
}

func (f *fakeRepo) GetMenuByID(ctx context.Context, id uint) (*model.Menu, error) {
	menu, ok := f.menus[id]
	if !ok || menu.IsDeleted {
		return nil, nil
	}
	return menu, nil
}

func (f *fakeRepo) GetMenuByCode(ctx context.Context, code string) (*model.Menu, error) {
	for _, menu := range f.menus {
		if menu.Code == code && !menu.IsDeleted {
			return menu, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListMenus(ctx context.Context) ([]*model.Menu, error) {
	out := make([]*model.Menu, 0, len(f.menus))
	for _, menu := range f.menus {
		if !menu.IsDeleted {
			out = append(out, menu)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetMenusByIDs(ctx context.Context, ids []uint) ([]*model.Menu, error) {
	out := make([]*model.Menu, 0, len(ids))
	for _, id := range ids {
		if menu, ok := f.menus[id]; ok && !menu.IsDeleted {
			out = append(out, menu)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateMenu(ctx context.Context, menu *model.Menu) error {
	f.menus[menu.ID] = menu
	return nil
}

func (f *fakeRepo) SoftDeleteMenu(ctx context.Context, id uint) error {
	menu, ok := f.menus[id]
	if !ok || menu.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	menu.IsDeleted = true
	return nil
}

func (f *fakeRepo) MenuCodeExists(ctx context.Context, code string, excludeID uint) (bool, error) {
	for _, menu := range f.menus {
		if menu.ID != excludeID && menu.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ResolveAuthorizedMenus(ctx context.Context, userID, roleID uint) ([]*model.Menu, error) {
	user, ok := f.users[userID]
	if !ok || user.IsDeleted || !user.IsActive {
		return nil, nil
	}
	role, ok := f.roles[roleID]
	if !ok || role.IsDeleted || !role.IsActive {
		return nil, nil
	}
	held := false
	for _, id := range f.userRoles[userID] {
		if id == roleID {
			held = true
			break
		}
	}
	if !held {
		return nil, nil
	}
	out := make([]*model.Menu, 0)
	for _, grant := range f.grants[roleID] {
		if grant.IsDeleted || !grant.IsActive {
			continue
		}
		menu, ok := f.menus[grant.MenuID]
		if !ok || menu.IsDeleted || !menu.IsActive {
			continue
		}
		out = append(out, menu)
	}
	return out, nil
}

// --- LoginGuard ---

func (f *fakeRepo) IncrFailure(ctx context.Context, username, clientIP string, window time.Duration) (int64, error) {
	if f.guardErr != nil {
		return 0, f.guardErr
	}
	key := username + "|" + clientIP
	f.failures[key]++
	return f.failures[key], nil
}

func (f *fakeRepo) GetFailureCount(ctx context.Context, username, clientIP string) (int64, error) {
	if f.guardErr != nil {
		return 0, f.guardErr
	}
	return f.failures[username+"|"+clientIP], nil
}

func (f *fakeRepo) ResetFailures(ctx context.Context, username, clientIP string) error {
	if f.guardErr != nil {
		return f.guardErr
	}
	delete(f.failures, username+"|"+clientIP)
	return nil
}

// seedUser 插入一个用户并关联角色
func (f *fakeRepo) seedUser(username, email, passwordHash string, active bool, roleIDs ...uint) *model.User {
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     active,
	}
	user.ID = f.allocID()
	f.users[user.ID] = user
	f.userRoles[user.ID] = append([]uint(nil), roleIDs...)
	return user
}

// seedRole 插入一个角色
func (f *fakeRepo) seedRole(code, name string, active bool) *model.Role {
	role := &model.Role{Code: code, Name: name, IsActive: active}
	role.ID = f.allocID()
	f.roles[role.ID] = role
	return role
}

// seedMenu 插入一个菜单
func (f *fakeRepo) seedMenu(code, title string, parentID *uint, active bool) *model.Menu {
	menu := &model.Menu{Code: code, Title: title, ParentMenuID: parentID, IsActive: active}
	menu.ID = f.allocID()
	f.menus[menu.ID] = menu
	return menu
}

// seedGrant 插入一条角色菜单授权
func (f *fakeRepo) seedGrant(roleID, menuID uint, create, update, del, active bool) *model.RoleMenu {
	grant := &model.RoleMenu{
		RoleID:      roleID,
		MenuID:      menuID,
		GrantCreate: create,
		GrantUpdate: update,
		GrantDelete: del,
		IsActive:    active,
	}
	grant.ID = f.allocID()
	f.grants[roleID] = append(f.grants[roleID], grant)
	return grant
}
