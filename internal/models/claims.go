package models

import "github.com/golang-jwt/jwt"

// Claims carried by admin dashboard tokens.
type Claims struct {
	jwt.StandardClaims
	Role string `json:"role"`
}
