package jwt

import (
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, claims jwtv5.Claims) string {
	t.Helper()
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-secret-key-for-unit-testing-2026"))
	if err != nil {
		t.Fatalf("签发测试 Token 失败: %v", err)
	}
	return s
}

func TestInspect_Valid(t *testing.T) {
	tok := signTestToken(t, Claims{
		UserID: "uid-1",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := NewInspector(0).Inspect(tok)
	if err != nil {
		t.Fatalf("Inspect 应成功: %v", err)
	}
	if claims.UID() != "uid-1" {
		t.Errorf("期望 UID=uid-1，实际=%s", claims.UID())
	}
}

func TestInspect_FallbackToSub(t *testing.T) {
	tok := signTestToken(t, jwtv5.RegisteredClaims{
		Subject:   "firebase-uid",
		ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
	})

	claims, err := NewInspector(0).Inspect(tok)
	if err != nil {
		t.Fatalf("Inspect 应成功: %v", err)
	}
	if claims.UID() != "firebase-uid" {
		t.Errorf("期望回退到 sub，实际=%s", claims.UID())
	}
}

func TestInspect_Expired(t *testing.T) {
	tok := signTestToken(t, Claims{
		UserID: "uid-1",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := NewInspector(30 * time.Second).Inspect(tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestInspect_WithinLeeway(t *testing.T) {
	tok := signTestToken(t, Claims{
		UserID: "uid-1",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(-10 * time.Second)),
		},
	})

	if _, err := NewInspector(time.Minute).Inspect(tok); err != nil {
		t.Errorf("容差范围内不应判定过期: %v", err)
	}
}

func TestInspect_Garbage(t *testing.T) {
	_, err := NewInspector(0).Inspect("not-a-jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestInspect_MissingSubject(t *testing.T) {
	tok := signTestToken(t, jwtv5.RegisteredClaims{
		ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := NewInspector(0).Inspect(tok)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("缺少 subject 应判定无效，实际: %v", err)
	}
}
