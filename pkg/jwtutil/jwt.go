package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/paulo1403/ehr-solutions-renewed/pkg/config"
)

var cfg *config.JWTConfig

// Claims is the identity payload embedded in every session token. The same
// claims go into both the access and the refresh token; only the signing
// secret and validity window differ.
type Claims struct {
	UserID   string `json:"userId"`
	ClinicID string `json:"clinicId"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Initialize wires the signing configuration. Must be called once at startup
// before any token is issued or verified; config.Load has already rejected
// empty secrets, this guards direct misuse.
func Initialize(c *config.JWTConfig) error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("jwtutil: signing secrets are not configured")
	}
	cfg = c
	return nil
}

// GenerateAccessToken signs the claims with the access secret (24h window).
func GenerateAccessToken(userID, clinicID, role, email string) (string, error) {
	return generate(userID, clinicID, role, email, []byte(cfg.AccessSecret), cfg.AccessTTL)
}

// GenerateRefreshToken signs the same claims with the refresh secret
// (7-day window).
func GenerateRefreshToken(userID, clinicID, role, email string) (string, error) {
	return generate(userID, clinicID, role, email, []byte(cfg.RefreshSecret), cfg.RefreshTTL)
}

func generate(userID, clinicID, role, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		ClinicID: clinicID,
		Role:     role,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccessToken checks signature and expiry against the access secret.
// Returns nil on any failure: malformed token, wrong signature, or elapsed
// expiry are deliberately indistinguishable to the caller.
func VerifyAccessToken(tokenString string) *Claims {
	return verify(tokenString, []byte(cfg.AccessSecret))
}

// VerifyRefreshToken checks signature and expiry against the refresh secret.
// Same nil-on-failure contract as VerifyAccessToken.
func VerifyRefreshToken(tokenString string) *Claims {
	return verify(tokenString, []byte(cfg.RefreshSecret))
}

func verify(tokenString string, secret []byte) *Claims {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil
	}
	return claims
}
