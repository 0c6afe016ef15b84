/**
 * 处理器层:菜单管理接口
 * @author: sun977
 * @date: 2025.11.20
 * @description: 菜单增删改查HTTP接口
 * @func:
 * 1.创建菜单
 * 2.获取菜单列表/单个菜单
 * 3.按菜单代码查询菜单
 * 4.更新菜单
 * 5.删除菜单
 */
package system

import (
	"net/http"

	"menuguard/internal/model"
	"menuguard/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// MenuHandler 菜单管理处理器
type MenuHandler struct {
	menuService *auth.MenuService
}

// NewMenuHandler 创建菜单管理处理器
func NewMenuHandler(menuService *auth.MenuService) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
	}
}

// CreateMenu 创建菜单
// POST /api/menu
func (h *MenuHandler) CreateMenu(c *gin.Context) {
	var req model.CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}

	view, err := h.menuService.CreateMenu(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse(view))
}

// ListMenus 获取菜单列表
// GET /api/menu
func (h *MenuHandler) ListMenus(c *gin.Context) {
	views, err := h.menuService.ListMenus(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(views))
}

// GetMenu 获取单个菜单
// GET /api/menu/:id
func (h *MenuHandler) GetMenu(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.menuService.GetMenuByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(view))
}

// GetMenuByCode 按菜单代码查询菜单
// GET /api/menu/code/:code
func (h *MenuHandler) GetMenuByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("invalid code parameter"))
		return
	}

	view, err := h.menuService.GetMenuByCode(c.Request.Context(), code)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(view))
}

// UpdateMenu 更新菜单
// PUT /api/menu/:id
func (h *MenuHandler) UpdateMenu(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}

	view, err := h.menuService.UpdateMenu(c.Request.Context(), id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(view))
}

// DeleteMenu 删除菜单
// DELETE /api/menu/:id
func (h *MenuHandler) DeleteMenu(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteMenu(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(nil))
}
