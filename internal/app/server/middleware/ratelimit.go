/**
 * 中间件:限流器中间件
 * @author: sun977
 * @date: 2025.11.20
 * @description: 定义限流器中间件
 * @func:
 *   - GinRateLimitMiddleware 默认限流器中间件[根据客户端IP进行限流,策略来自安全配置]
 *   - GinAuthRateLimitMiddleware 认证接口限流器[针对登录接口的专用限流,限制更严格]
 */
package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"menuguard/internal/model"
	"menuguard/internal/pkg/logger"
	"menuguard/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(key string) bool
	Reset(key string)
}

// TokenBucketLimiter 令牌桶限流器
type TokenBucketLimiter struct {
	buckets map[string]*TokenBucket
	mutex   sync.RWMutex
	rate    int           // 每秒生成的令牌数
	burst   int           // 桶的容量
	cleanup time.Duration // 清理间隔
}

// TokenBucket 令牌桶
type TokenBucket struct {
	tokens   int       // 当前令牌数
	capacity int       // 桶容量
	rate     int       // 令牌生成速率(每秒)
	lastTime time.Time // 上次更新时间
	mutex    sync.Mutex
}

// NewTokenBucketLimiter 创建新的令牌桶限流器
func NewTokenBucketLimiter(rate, burst int, cleanup time.Duration) *TokenBucketLimiter {
	limiter := &TokenBucketLimiter{
		buckets: make(map[string]*TokenBucket),
		rate:    rate,
		burst:   burst,
		cleanup: cleanup,
	}

	// 启动清理协程
	go limiter.cleanupExpiredBuckets()

	return limiter
}

// Allow 检查是否允许请求
func (tbl *TokenBucketLimiter) Allow(key string) bool {
	tbl.mutex.Lock()
	bucket, exists := tbl.buckets[key]
	if !exists {
		bucket = &TokenBucket{
			tokens:   tbl.burst,
			capacity: tbl.burst,
			rate:     tbl.rate,
			lastTime: time.Now(),
		}
		tbl.buckets[key] = bucket
	}
	tbl.mutex.Unlock()

	return bucket.consume()
}

// Reset 重置指定key的限流状态
func (tbl *TokenBucketLimiter) Reset(key string) {
	tbl.mutex.Lock()
	delete(tbl.buckets, key)
	tbl.mutex.Unlock()
}

// consume 消费一个令牌
func (tb *TokenBucket) consume() bool {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastTime).Seconds()

	// 按流逝时间补充令牌
	newTokens := int(elapsed * float64(tb.rate))
	tb.tokens += newTokens
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}

	tb.lastTime = now

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// cleanupExpiredBuckets 清理过期的令牌桶
func (tbl *TokenBucketLimiter) cleanupExpiredBuckets() {
	ticker := time.NewTicker(tbl.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		tbl.mutex.Lock()
		now := time.Now()
		for key, bucket := range tbl.buckets {
			bucket.mutex.Lock()
			// 桶超过清理间隔时间没有使用则删除
			if now.Sub(bucket.lastTime) > tbl.cleanup {
				delete(tbl.buckets, key)
			}
			bucket.mutex.Unlock()
		}
		tbl.mutex.Unlock()
	}
}

// GinRateLimitMiddleware 默认限流中间件
// 使用配置文件中的限流策略,按客户端IP限流
func (m *MiddlewareManager) GinRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.securityConfig.RateLimit.Enabled {
			c.Next()
			return
		}

		if m.shouldSkipRateLimit(c) {
			c.Next()
			return
		}

		clientIP := utils.GetClientIP(c)

		if !m.getRateLimiter().Allow(clientIP) {
			logger.LogWarn("Rate limit exceeded for client", "", 0, clientIP, c.Request.URL.Path, c.Request.Method, map[string]interface{}{
				"operation": "rate_limit_exceeded",
				"func_name": "middleware.ratelimit.GinRateLimitMiddleware",
				"method":    c.Request.Method,
			})

			statusCode := m.securityConfig.RateLimit.StatusCode
			if statusCode == 0 {
				statusCode = http.StatusTooManyRequests
			}
			message := m.securityConfig.RateLimit.Message
			if message == "" {
				message = "Too many requests, please try again later"
			}
			c.JSON(statusCode, model.NewErrorResponse(message))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GinAuthRateLimitMiddleware 认证接口限流中间件
// 针对登录接口的严格限流,IP+路径作为限流key
func (m *MiddlewareManager) GinAuthRateLimitMiddleware() gin.HandlerFunc {
	// 认证专用限流器:每秒2个请求,突发5个
	limiter := NewTokenBucketLimiter(2, 5, 10*time.Minute)

	return func(c *gin.Context) {
		clientIP := utils.GetClientIP(c)
		key := fmt.Sprintf("%s:%s", clientIP, c.Request.URL.Path)

		if !limiter.Allow(key) {
			logger.LogWarn("Authentication rate limit exceeded", "", 0, clientIP, c.Request.URL.Path, c.Request.Method, map[string]interface{}{
				"operation": "auth_rate_limit_exceeded",
				"func_name": "middleware.ratelimit.GinAuthRateLimitMiddleware",
				"method":    c.Request.Method,
			})

			c.JSON(http.StatusTooManyRequests, model.NewErrorResponse("Too many authentication attempts, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// shouldSkipRateLimit 检查是否应该跳过限流
func (m *MiddlewareManager) shouldSkipRateLimit(c *gin.Context) bool {
	path := c.Request.URL.Path
	for _, skipPath := range m.securityConfig.RateLimit.SkipPaths {
		if path == skipPath {
			return true
		}
	}
	return false
}

// getRateLimiter 根据配置获取限流器
// 限流器进程内只创建一次,所有请求共享同一组令牌桶
func (m *MiddlewareManager) getRateLimiter() RateLimiter {
	m.rateLimiterOnce.Do(func() {
		cfg := &m.securityConfig.RateLimit

		windowSize, err := time.ParseDuration(cfg.WindowSize)
		if err != nil {
			windowSize = 15 * time.Minute
		}

		// 目前只有令牌桶一种策略
		m.rateLimiter = NewTokenBucketLimiter(
			cfg.RequestsPerSecond,
			cfg.BurstSize,
			windowSize,
		)
	})
	return m.rateLimiter
}
