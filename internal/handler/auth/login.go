/**
 * 处理器层:登录与菜单接口
 * @author: sun977
 * @date: 2025.11.20
 * @description: 两段式登录和菜单解析的HTTP接口
 * @func:
 * 1.Login 凭据登录,返回身份令牌
 * 2.LoginRole 角色选择,返回访问令牌
 * 3.Menu 返回当前用户角色下的可见菜单
 */
package auth

import (
	"net/http"

	"menuguard/internal/model"
	"menuguard/internal/model/system"
	"menuguard/internal/pkg/utils"
	"menuguard/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// LoginHandler 登录接口处理器
type LoginHandler struct {
	sessionService *auth.SessionService
}

// NewLoginHandler 创建登录处理器实例
func NewLoginHandler(sessionService *auth.SessionService) *LoginHandler {
	return &LoginHandler{
		sessionService: sessionService,
	}
}

// Login 凭据登录接口
// POST /api/auth/login
func (h *LoginHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("username and password are required"))
		return
	}

	resp, err := h.sessionService.Login(c.Request.Context(), &req, utils.GetClientIP(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// LoginRole 角色选择接口
// POST /api/auth/login/role 需要身份令牌,用户ID由中间件写入上下文
func (h *LoginHandler) LoginRole(c *gin.Context) {
	userID, ok := utils.GetCurrentUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("authorization required"))
		return
	}

	var req model.RoleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("roleId is required"))
		return
	}

	resp, err := h.sessionService.LoginRole(c.Request.Context(), userID, &req, utils.GetClientIP(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// Menu 菜单解析接口
// GET /api/auth/menu 需要访问令牌,用户ID和角色ID由中间件写入上下文
func (h *LoginHandler) Menu(c *gin.Context) {
	userID, ok := utils.GetCurrentUserIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("authorization required"))
		return
	}
	roleID, ok := utils.GetCurrentRoleIDFromGinContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(system.ErrMissingRole.Error()))
		return
	}

	menus, err := h.sessionService.ResolveMenus(c.Request.Context(), userID, roleID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(menus))
}

// writeServiceError 将服务层错误映射为HTTP响应
// 业务错误返回400并透出错误消息,其余错误统一返回500兜底消息
func writeServiceError(c *gin.Context, err error) {
	if system.IsBusinessError(err) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusInternalServerError, model.NewErrorResponse(system.ErrInternal.Error()))
}
