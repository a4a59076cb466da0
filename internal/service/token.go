package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/academic-hub/academic-hub-back/internal/config"
)

type (
	Token struct {
		secret []byte
		ttl    time.Duration
	}

	sessionClaims struct {
		UserID uint64 `json:"uid"`
		jwt.RegisteredClaims
	}
)

func NewToken(cfg *config.Config) *Token {
	return &Token{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.JWTExpireDays) * 24 * time.Hour,
	}
}

func (s *Token) Issue(userID uint64) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify distinguishes expired from otherwise-invalid tokens; the HTTP
// layer collapses both to the same 401.
func (s *Token) Verify(tokenStr string) (uint64, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return 0, ErrTokenInvalid
	}
	return claims.UserID, nil
}
