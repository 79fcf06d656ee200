package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// IDTokenClaims is the payload of an ID token. Custom claims are flattened
// into the top level of the token.
type IDTokenClaims struct {
	Email string `json:"email"`
	models.CustomClaims
	jwt.RegisteredClaims
}

// TokenSigner mints and verifies HS256 ID tokens. Providers embed it.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenSigner(secret string, ttl time.Duration) *TokenSigner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenSigner) MintIDToken(_ context.Context, user *User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, errors.New("identity: nil user")
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := IDTokenClaims{
		Email:        user.Email,
		CustomClaims: user.Claims,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign id token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *TokenSigner) VerifyIDToken(_ context.Context, raw string) (*IDTokenClaims, error) {
	claims := &IDTokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ClaimsFromMap decodes the claims of a token that was parsed into
// jwt.MapClaims (the bearer middleware does this).
func ClaimsFromMap(m jwt.MapClaims) (uid, email string, claims models.CustomClaims) {
	uid, _ = m["sub"].(string)
	email, _ = m["email"].(string)
	claims.Admin, _ = m["admin"].(bool)
	claims.Clinic, _ = m["clinic"].(bool)
	claims.ClinicID, _ = m["clinicId"].(string)
	claims.Patient, _ = m["patient"].(bool)
	return uid, email, claims
}
