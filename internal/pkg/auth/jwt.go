/**
 * 工具类:JWT工具
 * @author: sun977
 * @date: 2025.11.20
 * @description: JWT工具类,两段式令牌
 * @func:
 * 	1.签发身份令牌(仅user_id,凭据校验通过后获得)
 * 	2.签发访问令牌(user_id+role_id,选择角色后获得)
 * 	3.验证两类令牌
 */

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // 引入jwt包
)

// IdentityClaims 身份令牌声明
// 只证明"是谁",还未绑定角色
type IdentityClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// AccessClaims 访问令牌声明
// 证明"是谁"且"以哪个角色访问",受保护接口都要求这类令牌
type AccessClaims struct {
	UserID uint  `json:"user_id"`
	RoleID *uint `json:"role_id,omitempty"` // 指针用于区分"缺少角色声明"和"角色ID为0"
	jwt.RegisteredClaims
}

// JWTManager JWT管理器
// 无状态设计,不维护服务端吊销列表,过期是唯一的失效机制
type JWTManager struct {
	secretKey []byte
	tokenTTL  time.Duration
}

// NewJWTManager 创建JWT管理器
func NewJWTManager(secretKey string, tokenTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}
}

// GenerateIdentityToken 生成身份令牌
func (j *JWTManager) GenerateIdentityToken(userID uint) (string, error) {
	now := time.Now()
	claims := &IdentityClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "menuguard",
			Audience:  []string{"menuguard-identity"},
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        generateJTI(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// GenerateAccessToken 生成访问令牌
func (j *JWTManager) GenerateAccessToken(userID, roleID uint) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID: userID,
		RoleID: &roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "menuguard",
			Audience:  []string{"menuguard-access"},
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        generateJTI(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ValidateIdentityToken 验证身份令牌
// 签名错误、过期、格式错误统一返回错误,由上层折叠为无效令牌
func (j *JWTManager) ValidateIdentityToken(tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*IdentityClaims); ok && token.Valid {
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			return nil, errors.New("token has expired")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ValidateAccessToken 验证访问令牌
// 角色声明缺失由调用方检查 RoleID 是否为 nil
func (j *JWTManager) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AccessClaims); ok && token.Valid {
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			return nil, errors.New("token has expired")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ExtractTokenFromHeader 从Authorization头中提取令牌
func ExtractTokenFromHeader(authHeader string) string {
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}

// generateJTI 生成JWT ID
func generateJTI() string {
	// 使用纳秒级时间戳确保唯一性
	now := time.Now()
	return now.Format("20060102150405") + "-" + fmt.Sprintf("%09d", now.Nanosecond())
}
