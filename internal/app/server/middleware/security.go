/**
 * 中间件:安全中间件
 * @author: sun977
 * @date: 2025.11.20
 * @description: 定义安全中间件
 * @func:
 *   - GinCORSMiddleware CORS跨域资源共享中间件,处理跨域请求,设置必要的CORS头部信息
 *   - GinSecurityHeadersMiddleware 安全头部中间件,设置必要的安全头部信息,防止常见的安全漏洞
 *   - GinRequestIDMiddleware 请求ID中间件,为每个请求添加唯一的请求ID,方便日志跟踪和调试
 */
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"menuguard/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GinCORSMiddleware CORS跨域资源共享中间件
// 处理跨域请求,设置必要的CORS头部信息,具体策略来自安全配置
func (m *MiddlewareManager) GinCORSMiddleware() gin.HandlerFunc {
	cors := m.securityConfig.CORS

	return func(c *gin.Context) {
		if !cors.Enabled {
			c.Next()
			return
		}

		origin := c.Request.Header.Get("Origin")

		switch {
		case cors.AllowAllOrigins:
			if origin != "" {
				c.Header("Access-Control-Allow-Origin", origin)
			} else {
				c.Header("Access-Control-Allow-Origin", "*")
			}
		case origin != "" && containsOrigin(cors.AllowOrigins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
		}

		if len(cors.AllowMethods) > 0 {
			c.Header("Access-Control-Allow-Methods", strings.Join(cors.AllowMethods, ", "))
		}
		if len(cors.AllowHeaders) > 0 {
			c.Header("Access-Control-Allow-Headers", strings.Join(cors.AllowHeaders, ", "))
		}
		if len(cors.ExposeHeaders) > 0 {
			c.Header("Access-Control-Expose-Headers", strings.Join(cors.ExposeHeaders, ", "))
		}
		if cors.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if cors.MaxAge > 0 {
			c.Header("Access-Control-Max-Age", fmt.Sprintf("%d", int(cors.MaxAge.Seconds())))
		}

		// 处理预检请求(OPTIONS方法)
		if c.Request.Method == http.MethodOptions {
			logrus.WithFields(logrus.Fields{
				"path":      c.Request.URL.Path,
				"operation": "cors_preflight",
				"func_name": "middleware.security.GinCORSMiddleware",
				"origin":    origin,
			}).Debug("Handling CORS preflight request")

			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// GinSecurityHeadersMiddleware 安全头中间件
// 添加各种安全相关的HTTP头部,提高应用安全性
func (m *MiddlewareManager) GinSecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// X-Content-Type-Options: 防止MIME类型嗅探攻击
		c.Header("X-Content-Type-Options", "nosniff")

		// X-Frame-Options: 防止点击劫持攻击
		c.Header("X-Frame-Options", "DENY")

		// X-XSS-Protection: 启用浏览器XSS过滤器
		c.Header("X-XSS-Protection", "1; mode=block")

		// Referrer-Policy: 控制Referer头的发送策略
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Strict-Transport-Security: 强制HTTPS(仅在HTTPS环境下设置)
		if c.Request.TLS != nil || c.Request.Header.Get("X-Forwarded-Proto") == "https" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		// Server: 隐藏服务器信息
		c.Header("Server", "MenuGuard")

		c.Next()
	}
}

// GinRequestIDMiddleware 请求ID中间件
// 为每个请求生成唯一ID,便于日志追踪和问题排查
func (m *MiddlewareManager) GinRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 检查是否已有请求ID(可能来自负载均衡器或代理)
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID, _ = utils.GenerateUUID()
		}

		// 设置请求ID到上下文中
		c.Set("request_id", requestID)

		// 设置响应头
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

// containsOrigin 检查来源是否在允许列表中
func containsOrigin(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == origin || a == "*" {
			return true
		}
	}
	return false
}
