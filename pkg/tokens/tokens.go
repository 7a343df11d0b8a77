package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Service signs and verifies the two token kinds with independent
// secrets, so a leaked access secret cannot forge refresh tokens.
type Service struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (s *Service) IssueAccessToken(userID uint, role string) (string, time.Time, error) {
	exp := time.Now().Add(s.AccessTTL)
	claims := AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   SubjectAccess,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.AccessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *Service) IssueRefreshToken(userID uint) (string, time.Time, error) {
	exp := time.Now().Add(s.RefreshTTL)
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   SubjectRefresh,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.RefreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *Service) VerifyAccessToken(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := parse(raw, &claims, s.AccessSecret); err != nil {
		return nil, err
	}
	if claims.Subject != SubjectAccess {
		return nil, fmt.Errorf("%w: unexpected subject %q", ErrTokenInvalid, claims.Subject)
	}
	return &claims, nil
}

func (s *Service) VerifyRefreshToken(raw string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := parse(raw, &claims, s.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.Subject != SubjectRefresh {
		return nil, fmt.Errorf("%w: unexpected subject %q", ErrTokenInvalid, claims.Subject)
	}
	return &claims, nil
}

func parse(raw string, claims jwt.Claims, secret []byte) error {
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !tkn.Valid {
		return ErrTokenInvalid
	}
	return nil
}
