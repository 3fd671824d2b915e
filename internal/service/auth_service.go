package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles operator authentication. Candidates are anonymous;
// only the operator dashboard (reports, insight feed) needs a token.
type AuthService struct {
	operatorUsername string
	operatorPassword string
	jwtSecret        []byte
}

// NewAuthService creates a new auth service from environment credentials.
func NewAuthService() *AuthService {
	username := os.Getenv("OPERATOR_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("OPERATOR_PASSWORD")
	if password == "" {
		password = "password123"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		operatorUsername: username,
		operatorPassword: password,
		jwtSecret:        []byte(secret),
	}
}

// Login validates credentials and returns a signed operator token.
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.operatorUsername || password != s.operatorPassword {
		return nil, ErrInvalidCredentials
	}

	operatorID := "op_" + uuid.New().String()[:8]

	claims := &model.OperatorClaims{
		OperatorID: operatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:      tokenString,
		OperatorID: operatorID,
	}, nil
}

// ValidateToken validates an operator JWT and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*model.OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.OperatorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
