package tokens

import "github.com/golang-jwt/jwt/v5"

const (
	SubjectAccess  = "accessApi"
	SubjectRefresh = "refreshToken"
)

type AccessClaims struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}
