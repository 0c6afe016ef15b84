/**
 * 中间件:认证相关中间件
 * @author: sun977
 * @date: 2025.11.20
 * @description: 定义认证相关中间件
 * @func:
 *   - GinIdentityAuthMiddleware: 身份令牌认证中间件(登录第一步之后,选角色之前)
 *   - GinAccessAuthMiddleware: 访问令牌认证中间件(携带角色声明)
 *   - extractTokenFromGinHeader: 从Gin请求头中提取JWT令牌
 */
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"menuguard/internal/model"
	"menuguard/internal/model/system"
	"menuguard/internal/pkg/auth"
	"menuguard/internal/pkg/logger"
	"menuguard/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GinIdentityAuthMiddleware 身份令牌认证中间件
// 验证请求头中的身份令牌,把用户ID写入Gin上下文
// 授权头缺失或格式错误返回401,令牌本身无效返回400
func (m *MiddlewareManager) GinIdentityAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.GetClientIP(c)
		requestID := c.GetHeader("X-Request-ID")

		token, err := m.extractTokenFromGinHeader(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, model.NewErrorResponse("missing or invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ValidateIdentityToken(token)
		if err != nil {
			// 签名错误、过期、格式错误统一折叠为无效令牌
			logger.LogBusinessError(system.ErrInvalidToken, requestID, 0, clientIP, "identity_token_validation", c.Request.Method, map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			c.JSON(http.StatusBadRequest, model.NewErrorResponse(system.ErrInvalidToken.Error()))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// GinAccessAuthMiddleware 访问令牌认证中间件
// 验证请求头中的访问令牌,把用户ID和角色ID写入Gin上下文
// 身份令牌没有角色声明,用在这里会因缺少角色被拒绝
func (m *MiddlewareManager) GinAccessAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.GetClientIP(c)
		requestID := c.GetHeader("X-Request-ID")

		token, err := m.extractTokenFromGinHeader(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, model.NewErrorResponse("missing or invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ValidateAccessToken(token)
		if err != nil {
			logger.LogBusinessError(system.ErrInvalidToken, requestID, 0, clientIP, "access_token_validation", c.Request.Method, map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			c.JSON(http.StatusBadRequest, model.NewErrorResponse(system.ErrInvalidToken.Error()))
			c.Abort()
			return
		}

		if claims.RoleID == nil {
			logger.LogBusinessError(system.ErrMissingRole, requestID, claims.UserID, clientIP, "access_token_validation", c.Request.Method, map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			c.JSON(http.StatusBadRequest, model.NewErrorResponse(system.ErrMissingRole.Error()))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role_id", *claims.RoleID)
		c.Next()
	}
}

// extractTokenFromGinHeader 从请求头提取Bearer令牌
func (m *MiddlewareManager) extractTokenFromGinHeader(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header required")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("invalid authorization header format")
	}
	token := auth.ExtractTokenFromHeader(authHeader)
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
