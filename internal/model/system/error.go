/**
 * 模型:错误定义
 * @author: sun977
 * @date: 2025.11.20
 * @description: 业务错误常量和错误类型定义,服务层统一返回这些错误,由处理器层映射为HTTP状态码
 * @func: 各种错误常量和ValidationError结构体
 */
package system

import (
	"errors"
	"fmt"
)

// 业务错误
// 处理器层识别这些错误并返回400,未识别的错误统一返回500
var (
	// 认证错误
	ErrInvalidCredentials = errors.New("Invalid username / password")
	ErrAccountInactive    = errors.New("User not active")
	ErrInvalidToken       = errors.New("Invalid token")
	ErrMissingRole        = errors.New("Token does not carry a role")
	ErrInvalidRole        = errors.New("Invalid role")

	// 数据错误
	ErrNotFound          = errors.New("Record not found")
	ErrDuplicateKey      = errors.New("Duplicate key")
	ErrReferenceNotFound = errors.New("Referenced record not found")
	ErrMenuCycle         = errors.New("Menu parent forms a cycle")

	// 兜底错误
	ErrInternal = errors.New("Internal server error.")
)

// NewDuplicateKeyError 创建点名冲突字段的重复键错误
// errors.Is(err, ErrDuplicateKey) 仍然成立,错误消息告知客户端是哪个字段冲突
func NewDuplicateKeyError(field string) error {
	return fmt.Errorf("%w: %s already exists", ErrDuplicateKey, field)
}

// IsBusinessError 检查错误是否属于业务错误
// 用于处理器层区分400和500
func IsBusinessError(err error) bool {
	for _, target := range []error{
		ErrInvalidCredentials,
		ErrAccountInactive,
		ErrInvalidToken,
		ErrMissingRole,
		ErrInvalidRole,
		ErrNotFound,
		ErrDuplicateKey,
		ErrReferenceNotFound,
		ErrMenuCycle,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return IsValidationError(err)
}

// ValidationError 验证错误结构体
type ValidationError struct {
	Field   string `json:"field"`   // 字段名
	Message string `json:"message"` // 错误消息
}

// NewValidationError 创建验证错误
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		Message: message,
	}
}

// NewFieldError 创建带字段名的验证错误
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError 检查是否为验证错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
