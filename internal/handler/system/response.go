/**
 * 处理器层:公共响应辅助
 * @author: sun977
 * @date: 2025.11.20
 * @description: 管理接口共用的错误映射和路径参数解析
 * @func: writeServiceError / parseIDParam
 */
package system

import (
	"net/http"
	"strconv"

	"menuguard/internal/model"
	sysmodel "menuguard/internal/model/system"

	"github.com/gin-gonic/gin"
)

// writeServiceError 将服务层错误映射为HTTP响应
// 业务错误返回400并透出错误消息,其余错误统一返回500兜底消息
func writeServiceError(c *gin.Context, err error) {
	if sysmodel.IsBusinessError(err) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusInternalServerError, model.NewErrorResponse(sysmodel.ErrInternal.Error()))
}

// parseIDParam 解析路径中的数字ID参数
// 解析失败时已写入400响应,调用方直接返回即可
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}
