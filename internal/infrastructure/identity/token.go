package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signToken issues an HS256 JWT binding the session id to the account id.
func (b *Backend) signToken(sessionID, accountID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"sub": accountID,
		"exp": expiresAt.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(b.jwtSecret))
}

// parseToken validates the signature and expiry and extracts the session and
// account ids.
func (b *Backend) parseToken(raw string) (sessionID, accountID string, err error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(b.jwtSecret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse token: %w", err)
	}
	if !tkn.Valid {
		return "", "", jwt.ErrTokenUnverifiable
	}

	sessionID, _ = claims["sid"].(string)
	accountID, _ = claims["sub"].(string)
	if sessionID == "" || accountID == "" {
		return "", "", fmt.Errorf("parse token: missing session claims")
	}
	return sessionID, accountID, nil
}
