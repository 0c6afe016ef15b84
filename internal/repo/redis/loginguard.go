/**
 * 仓库层:登录防护数据访问
 * @author: sun977
 * @date: 2025.11.20
 * @description: 登录失败计数存储(Redis存储,适合多实例部署)
 * @func:单纯数据访问,不应该包含业务逻辑
 * @note: 计数按 用户名+客户端IP 组合维护,窗口到期自动清零
 */
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// LoginGuardRepository 登录失败计数存储库
type LoginGuardRepository struct {
	client *redis.Client
}

// NewLoginGuardRepository 创建登录防护存储库实例
func NewLoginGuardRepository(client *redis.Client) *LoginGuardRepository {
	return &LoginGuardRepository{
		client: client,
	}
}

// IncrFailure 登录失败计数加一并返回当前值
// 首次失败时设置窗口过期时间,窗口内计数累积
func (r *LoginGuardRepository) IncrFailure(ctx context.Context, username, clientIP string, window time.Duration) (int64, error) {
	key := r.failureKey(username, clientIP)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to incr login failure: %w", err)
	}

	// 首次计数时设置过期,避免计数永久残留
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("failed to set failure window: %w", err)
		}
	}

	return count, nil
}

// GetFailureCount 获取当前窗口内的失败次数
func (r *LoginGuardRepository) GetFailureCount(ctx context.Context, username, clientIP string) (int64, error) {
	key := r.failureKey(username, clientIP)

	count, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get login failure count: %w", err)
	}

	return count, nil
}

// ResetFailures 清除失败计数
// 登录成功后调用
func (r *LoginGuardRepository) ResetFailures(ctx context.Context, username, clientIP string) error {
	key := r.failureKey(username, clientIP)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}

	return nil
}

// failureKey 生成失败计数键[KEY:login:fail:{username}:{clientIP}]
func (r *LoginGuardRepository) failureKey(username, clientIP string) string {
	return fmt.Sprintf("login:fail:%s:%s", username, clientIP)
}
