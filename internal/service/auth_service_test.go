package service

import (
	"errors"
	"strings"
	"testing"
)

func TestLoginAndValidate(t *testing.T) {
	svc := NewAuthService()

	resp, err := svc.Login("admin", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !strings.HasPrefix(resp.OperatorID, "op_") {
		t.Errorf("OperatorID = %q", resp.OperatorID)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}

	claims, err := svc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.OperatorID != resp.OperatorID {
		t.Errorf("claims operator = %q, want %q", claims.OperatorID, resp.OperatorID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService()
	tests := []struct{ username, password string }{
		{"admin", "wrong"},
		{"intruder", "password123"},
		{"", ""},
	}
	for _, tt := range tests {
		if _, err := svc.Login(tt.username, tt.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) err = %v, want ErrInvalidCredentials", tt.username, tt.password, err)
		}
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService()
	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("ValidateToken(%q) err = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	issuer := &AuthService{
		operatorUsername: "admin",
		operatorPassword: "password123",
		jwtSecret:        []byte("a-different-secret"),
	}
	resp, err := issuer.Login("admin", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := NewAuthService().ValidateToken(resp.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign-signed token accepted: %v", err)
	}
}
