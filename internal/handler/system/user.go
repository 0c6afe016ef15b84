/**
 * 处理器层:用户管理接口
 * @author: sun977
 * @date: 2025.11.20
 * @description: 用户增删改查HTTP接口
 * @func:
 * 1.创建用户
 * 2.获取用户列表/单个用户
 * 3.按用户名查询用户
 * 4.查询用户角色
 * 5.更新用户
 * 6.删除用户
 */
package system

import (
	"net/http"

	"menuguard/internal/model"
	"menuguard/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户管理处理器
type UserHandler struct {
	userService *auth.UserService
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(userService *auth.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUser 创建用户
// POST /api/user
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}

	view, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse(view))
}

// ListUsers 获取用户列表
// GET /api/user
func (h *UserHandler) ListUsers(c *gin.Context) {
	views, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(views))
}

// GetUser 获取单个用户
// GET /api/user/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(view))
}

// GetUserByUsername 按用户名查询用户
// GET /api/user/u/:username
func (h *UserHandler) GetUserByUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("invalid username parameter"))
		return
	}

	view, err := h.userService.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(view))
}

// GetUserRoles 查询用户关联的角色列表
// GET /api/user/:id/role
func (h *UserHandler) GetUserRoles(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	views, err := h.userService.GetUserRoles(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(views))
}

// UpdateUser 更新用户
// PUT /api/user/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}

	view, err := h.userService.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(view))
}

// DeleteUser 删除用户
// DELETE /api/user/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(nil))
}
