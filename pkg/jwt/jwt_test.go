package jwt

import (
	"errors"
	"testing"
	"time"

	"nexus-lab/backend/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: time.Hour,
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateToken("user-1", "teacher")
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("期望 UserID=user-1，实际=%s", claims.UserID)
	}
	if claims.Role != "teacher" {
		t.Errorf("期望 Role=teacher，实际=%s", claims.Role)
	}
	if claims.Issuer != "nexus-lab" {
		t.Errorf("期望 Issuer=nexus-lab，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}

	// 检查过期时间约为 1h
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 59*time.Minute || ttl > 61*time.Minute {
		t.Errorf("TTL 期望约1h，实际=%v", ttl)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: -time.Minute,
	})

	token, err := m.GenerateToken("user-1", "admin")
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	token, err := m.GenerateToken("user-1", "admin")
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	other := NewManager(&config.AuthConfig{
		JWTSecret:      "a-completely-different-secret-key",
		AccessTokenTTL: time.Hour,
	})
	if _, err := other.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager()
	if _, err := m.ParseToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}
