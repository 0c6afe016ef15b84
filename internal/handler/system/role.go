/**
 * 处理器层:角色管理接口
 * @author: sun977
 * @date: 2025.11.20
 * @description: 角色增删改查和菜单授权查询HTTP接口
 * @func:
 * 1.创建角色
 * 2.获取角色列表/单个角色
 * 3.按角色代码查询角色
 * 4.查询角色菜单授权
 * 5.更新角色
 * 6.删除角色
 */
package system

import (
	"net/http"

	"menuguard/internal/model"
	"menuguard/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// RoleHandler 角色管理处理器
type RoleHandler struct {
	roleService *auth.RoleService
}

// NewRoleHandler 创建角色管理处理器
func NewRoleHandler(roleService *auth.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

// CreateRole 创建角色
// POST /api/role
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req model.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}

	view, err := h.roleService.CreateRole(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse(view))
}

// ListRoles 获取角色列表
// GET /api/role
func (h *RoleHandler) ListRoles(c *gin.Context) {
	views, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(views))
}

// GetRole 获取单个角色
// GET /api/role/:id
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.roleService.GetRoleByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(view))
}

// GetRoleByCode 按角色代码查询角色
// GET /api/role/code/:code
func (h *RoleHandler) GetRoleByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("invalid code parameter"))
		return
	}

	view, err := h.roleService.GetRoleByCode(c.Request.Context(), code)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(view))
}

// GetRoleMenus 查询角色当前的菜单授权
// GET /api/role/:id/menu
func (h *RoleHandler) GetRoleMenus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	views, err := h.roleService.GetRoleMenus(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(views))
}

// UpdateRole 更新角色
// PUT /api/role/:id
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}

	view, err := h.roleService.UpdateRole(c.Request.Context(), id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(view))
}

// DeleteRole 删除角色
// DELETE /api/role/:id
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(nil))
}
