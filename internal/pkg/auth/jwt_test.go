package auth

import (
	"testing"
	"time"
)

func TestIdentityTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("jwt-test-secret-0123456789abcdefghij", time.Hour)

	token, err := manager.GenerateIdentityToken(42)
	if err != nil {
		t.Fatalf("generate identity token: %v", err)
	}

	claims, err := manager.ValidateIdentityToken(token)
	if err != nil {
		t.Fatalf("validate identity token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id mismatch: %d", claims.UserID)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("jwt-test-secret-0123456789abcdefghij", time.Hour)

	token, err := manager.GenerateAccessToken(42, 7)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id mismatch: %d", claims.UserID)
	}
	if claims.RoleID == nil || *claims.RoleID != 7 {
		t.Fatalf("role id mismatch: %v", claims.RoleID)
	}
}

func TestIdentityTokenLacksRoleClaim(t *testing.T) {
	// 身份令牌按访问令牌解析时签名有效,但角色声明必须为空
	// 受保护接口据此拒绝未完成角色选择的令牌
	manager := NewJWTManager("jwt-test-secret-0123456789abcdefghij", time.Hour)

	token, err := manager.GenerateIdentityToken(42)
	if err != nil {
		t.Fatalf("generate identity token: %v", err)
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("parse as access token: %v", err)
	}
	if claims.RoleID != nil {
		t.Fatalf("identity token must not carry a role, got %v", *claims.RoleID)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewJWTManager("jwt-test-secret-0123456789abcdefghij", time.Hour)
	verifier := NewJWTManager("another-secret-entirely-0123456789ab", time.Hour)

	token, err := issuer.GenerateIdentityToken(1)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := verifier.ValidateIdentityToken(token); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestTokenExpired(t *testing.T) {
	manager := NewJWTManager("jwt-test-secret-0123456789abcdefghij", -time.Minute)

	token, err := manager.GenerateAccessToken(1, 2)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := manager.ValidateAccessToken(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestTokenGarbage(t *testing.T) {
	manager := NewJWTManager("jwt-test-secret-0123456789abcdefghij", time.Hour)
	if _, err := manager.ValidateIdentityToken("not.a.token"); err == nil {
		t.Fatal("malformed token must be rejected")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc.def.ghi", ""},
		{"Basic abc", ""},
		{"", ""},
		{"Bearer ", ""},
	}
	for _, tc := range cases {
		if got := ExtractTokenFromHeader(tc.header); got != tc.want {
			t.Errorf("ExtractTokenFromHeader(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
