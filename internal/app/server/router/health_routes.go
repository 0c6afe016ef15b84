/**
 * 路由:健康检查路由
 * @author: sun977
 * @date: 2025.11.20
 * @description: 包含健康检查路由
 * @func:
 */
package router

import (
	"net/http"

	"menuguard/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// setupHealthRoutes 设置健康检查路由
func (r *Router) setupHealthRoutes(api *gin.RouterGroup) {
	// 健康检查
	api.GET("/health", r.healthCheck)
	// 就绪检查
	api.GET("/ready", r.readinessCheck)
	// 存活检查
	api.GET("/live", r.livenessCheck)
}

// healthCheck 健康检查处理器
func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": logger.NowFormatted(),
	})
}

// readinessCheck 就绪检查处理器
// 检查MySQL和Redis连接是否就绪
func (r *Router) readinessCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if r.db != nil {
		sqlDB, err := r.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "not ready",
				"component": "mysql",
				"timestamp": logger.NowFormatted(),
			})
			return
		}
	}

	if r.redisClient != nil {
		if err := r.redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "not ready",
				"component": "redis",
				"timestamp": logger.NowFormatted(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": logger.NowFormatted(),
	})
}

// livenessCheck 存活检查处理器
func (r *Router) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": logger.NowFormatted(),
	})
}
