/*
 * @author: sun977
 * @date: 2025.11.20
 * @description: 客户端IP提取与标准化，登录风控和限流按IP维度计数，要求同一客户端得到稳定的IP表示
 * @func: GetClientIP / GetClientIPFromContext / NormalizeIP
 */

package utils

import (
	"context"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyClientIP 标准上下文中存储客户端IP的统一键
const ContextKeyClientIP ContextKey = "client_ip"

// GetClientIP 从 Gin 请求中提取客户端IP
// 优先级: X-Forwarded-For 首个地址 > X-Real-IP > RemoteAddr
func GetClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return NormalizeIP(forwarded)
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return NormalizeIP(realIP)
	}
	return NormalizeIP(c.Request.RemoteAddr)
}

// GetClientIPFromContext 从标准上下文读取客户端IP（统一键）
// 适用范围：service 层以下获取当前 clientIP 使用
// 来源：clientIP 最初是logging中间件写入标准上下文 GinLoggingMiddleware() 中
// 说明：
// - 使用 ContextKeyClientIP 作为唯一键，保证读写一致，跨包可用
// - 如果不存在或类型不匹配，返回空字符串
func GetClientIPFromContext(ctx context.Context) string {
	v := ctx.Value(ContextKeyClientIP)
	if ip, ok := v.(string); ok {
		return ip
	}
	return ""
}

// NormalizeIP 把同一客户端的各种写法归一到同一个串
// 登录失败计数和IP限流都以返回值为键，归一不稳会导致计数分裂
// - host:port 去掉端口
// - X-Forwarded-For 列表取第一跳
// - IPv4-mapped IPv6 (::ffff:192.0.2.1) 还原成纯 IPv4
// - 解析失败时原样返回，交给调用方记日志
func NormalizeIP(input string) string {
	if input == "" {
		return ""
	}

	ip := strings.TrimSpace(strings.Split(input, ",")[0])

	if h, _, err := net.SplitHostPort(ip); err == nil {
		ip = h
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip
	}

	if v4 := parsed.To4(); v4 != nil {
		return v4.String()
	}

	return parsed.String()
}
