/*
 * @author: sun977
 * @date: 2025.11.20
 * @description: 通用的工具包，Gin上下文身份提取与请求ID生成
 * @func: GetCurrentUserIDFromGinContext / GetCurrentRoleIDFromGinContext / GenerateUUID
 */

package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKey 类型用于标准上下文键的定义，避免使用裸字符串造成键冲突
type ContextKey string

// GetCurrentUserIDFromGinContext 从 Gin 上下文中提取当前用户ID
// user_id 由JWT认证中间件写入Gin上下文
func GetCurrentUserIDFromGinContext(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("user_id"); ok {
		if id, ok2 := v.(uint); ok2 {
			return id, true
		}
	}
	return 0, false
}

// GetCurrentRoleIDFromGinContext 从 Gin 上下文中提取当前角色ID
// role_id 由访问令牌认证中间件写入Gin上下文
func GetCurrentRoleIDFromGinContext(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("role_id"); ok {
		if id, ok2 := v.(uint); ok2 {
			return id, true
		}
	}
	return 0, false
}

// GenerateUUID 生成UUID字符串
// 用于请求ID等需要全局唯一标识的场景
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
