package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long an issued access token stays valid.
const TokenTTL = time.Hour

// Claims is the identity carried by an access token: the subject's user id
// and role label. Tokens are self-contained and never stored server-side.
type Claims struct {
	UserID   uint   `json:"user_id"`
	RoleName string `json:"role_name"`
	jwt.RegisteredClaims
}

// GenerateToken signs a new HS256 access token for the given identity.
func GenerateToken(secret string, userID uint, roleName string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		RoleName: roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token's signature, algorithm and expiry, and
// returns the embedded claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}
