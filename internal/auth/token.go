package auth

import (
	"errors"
	"time"

	"authportal/config"
	"authportal/model"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of the session cookie: the authenticated
// principal plus the standard expiry/issuance metadata.
type SessionClaims struct {
	model.Principal
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a session token for the principal. The
// lifetime comes from config.
func GenerateSessionToken(p model.Principal) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Principal: p,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(config.GlobalConfig.Session.Expire) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.GlobalConfig.Session.Secret))
}

// ParseSessionToken validates signature and expiry and returns the
// embedded claims.
func ParseSessionToken(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.GlobalConfig.Session.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
