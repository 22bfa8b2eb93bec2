package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const resetTokenAudience = "password-reset"

// ResetClaims represents the claims of a signed password reset token.
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ResetTokenIssuer signs and checks password reset tokens. A valid signature only proves the
// token was minted here; redemption is still decided by the persisted token row.
type ResetTokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewResetTokenIssuer creates an issuer with the given HMAC secret.
func NewResetTokenIssuer(secret string) *ResetTokenIssuer {
	return &ResetTokenIssuer{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue signs a new token for email valid for ttl. Every token carries a random ID so two
// tokens for the same email never collide.
func (s *ResetTokenIssuer) Issue(email string, ttl time.Duration) (token string, expiresAt time.Time, err error) {
	now := s.now()
	expiresAt = now.Add(ttl)
	claims := &ResetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{resetTokenAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return token, expiresAt, err
}

// Parse validates the signature, audience and expiry of a token and returns its claims.
func (s *ResetTokenIssuer) Parse(tokenString string) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !claims.VerifyAudience(resetTokenAudience, true) {
		return nil, errors.New("invalid token audience")
	}
	return claims, nil
}
