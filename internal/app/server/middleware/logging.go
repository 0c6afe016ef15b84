/**
 * 中间件:日志相关中间件
 * @author: sun977
 * @date: 2025.11.20
 * @description: 定义日志中间件
 * @func:
 *   - GinLoggingMiddleware Gin日志中间件[同时把客户端IP存储到Gin上下文和标准上下文,供后续使用]
 */
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"menuguard/internal/pkg/logger"
	"menuguard/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GinLoggingMiddleware Gin日志中间件
// 记录所有HTTP请求的访问日志和错误日志
// 使用方式: router.Use(middlewareManager.GinLoggingMiddleware())
func (m *MiddlewareManager) GinLoggingMiddleware() gin.HandlerFunc {
	logCfg := m.securityConfig.Logging
	skip := make(map[string]struct{}, len(logCfg.SkipPaths))
	for _, p := range logCfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		// 提取并格式化客户端IP
		clientIP := utils.GetClientIP(c)
		requestID := c.GetHeader("X-Request-ID")
		userAgent := c.GetHeader("User-Agent")

		// 存储到Gin上下文
		c.Set("client_ip", clientIP)

		// 存储到标准上下文,服务层以下统一从标准上下文取IP
		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyClientIP, clientIP)
		c.Request = c.Request.WithContext(ctx)

		// 处理请求
		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		if _, ok := skip[c.Request.URL.Path]; ok {
			return
		}
		if !logCfg.EnableRequestLog && statusCode < 400 {
			return
		}

		// 获取用户信息(如果已认证)
		userID := uint(0)
		if id, ok := utils.GetCurrentUserIDFromGinContext(c); ok {
			userID = id
		}

		// 慢请求单独告警
		if logCfg.SlowRequestThreshold > 0 && duration > logCfg.SlowRequestThreshold {
			logger.LogWarn("slow request", requestID, userID, clientIP, c.Request.URL.Path, c.Request.Method, map[string]interface{}{
				"duration":  duration.Milliseconds(),
				"threshold": logCfg.SlowRequestThreshold.Milliseconds(),
			})
		}

		logger.LogBusinessOperation("http_request", userID, "", clientIP, requestID, "success", "API Request", map[string]interface{}{
			"operation":     "http_request",
			"method":        c.Request.Method,
			"url":           c.Request.URL.String(),
			"status_code":   statusCode,
			"duration":      duration.Milliseconds(),
			"client_ip":     clientIP,
			"user_agent":    userAgent,
			"X-Request-ID":  requestID,
			"request_size":  c.Request.ContentLength,
			"response_size": int64(c.Writer.Size()),
			"timestamp":     logger.NowFormatted(),
		})

		// 错误状态码追加一条错误日志
		if statusCode >= 400 {
			errorMsg := http.StatusText(statusCode)
			if ginErrors := c.Errors; len(ginErrors) > 0 {
				errorMsg = ginErrors.String()
			}

			logger.LogError(fmt.Errorf("HTTP %d: %s", statusCode, errorMsg), requestID, userID, clientIP, "http_request", c.Request.Method, map[string]interface{}{
				"operation":    "http_request",
				"method":       c.Request.Method,
				"url":          c.Request.URL.String(),
				"status_code":  statusCode,
				"client_ip":    clientIP,
				"user_agent":   userAgent,
				"X-Request-ID": requestID,
				"timestamp":    logger.NowFormatted(),
			})
		}
	}
}
