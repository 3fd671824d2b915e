package model

import "github.com/golang-jwt/jwt/v5"

// OperatorClaims is the JWT payload for operator (observer) access.
type OperatorClaims struct {
	OperatorID string `json:"operatorId"`
	jwt.RegisteredClaims
}

// LoginRequest is the operator login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful operator login.
type LoginResponse struct {
	Token      string `json:"token"`
	OperatorID string `json:"operatorId"`
}
