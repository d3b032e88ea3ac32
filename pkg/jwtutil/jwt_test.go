package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/paulo1403/ehr-solutions-renewed/pkg/config"
)

func initTestConfig(t *testing.T) *config.JWTConfig {
	t.Helper()
	cfg := &config.JWTConfig{
		AccessSecret:  "access-secret-for-unit-tests-only",
		RefreshSecret: "refresh-secret-for-unit-tests-only",
		AccessTTL:     24 * time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	}
	if err := Initialize(cfg); err != nil {
		t.Fatalf("failed to initialize jwtutil: %v", err)
	}
	return cfg
}

// signTestToken builds a token outside the package API so tests can control
// expiry and signing key.
func signTestToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestInitialize_RequiresSecrets(t *testing.T) {
	err := Initialize(&config.JWTConfig{AccessSecret: "", RefreshSecret: "x"})
	if err == nil {
		t.Error("expected error for empty access secret")
	}
	err = Initialize(&config.JWTConfig{AccessSecret: "x", RefreshSecret: ""})
	if err == nil {
		t.Error("expected error for empty refresh secret")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateAccessToken("user-1", "clinic-1", "DOCTOR", "doc@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := VerifyAccessToken(token)
	if claims == nil {
		t.Fatal("expected claims for a freshly issued token")
	}
	if claims.UserID != "user-1" {
		t.Errorf("expected userId user-1, got %s", claims.UserID)
	}
	if claims.ClinicID != "clinic-1" {
		t.Errorf("expected clinicId clinic-1, got %s", claims.ClinicID)
	}
	if claims.Role != "DOCTOR" {
		t.Errorf("expected role DOCTOR, got %s", claims.Role)
	}
	if claims.Email != "doc@x.com" {
		t.Errorf("expected email doc@x.com, got %s", claims.Email)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateRefreshToken("user-1", "clinic-1", "NURSE", "rn@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := VerifyRefreshToken(token)
	if claims == nil {
		t.Fatal("expected claims for a freshly issued refresh token")
	}
	if claims.Role != "NURSE" {
		t.Errorf("expected role NURSE, got %s", claims.Role)
	}
}

func TestSecretsDoNotCrossVerify(t *testing.T) {
	initTestConfig(t)

	access, err := GenerateAccessToken("user-1", "clinic-1", "DOCTOR", "doc@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	refresh, err := GenerateRefreshToken("user-1", "clinic-1", "DOCTOR", "doc@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if VerifyRefreshToken(access) != nil {
		t.Error("access token must not verify against the refresh secret")
	}
	if VerifyAccessToken(refresh) != nil {
		t.Error("refresh token must not verify against the access secret")
	}
}

// Expired, forged, and malformed tokens must all collapse to the same nil:
// the caller only learns "unauthenticated", never why.
func TestVerifyFailuresAreIndistinguishable(t *testing.T) {
	cfg := initTestConfig(t)

	expired := signTestToken(t, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}, cfg.AccessSecret)

	wrongKey := signTestToken(t, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, "some-other-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", wrongKey},
		{"malformed", "not.a.token"},
		{"garbage", "zzzz"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if claims := VerifyAccessToken(tt.token); claims != nil {
				t.Errorf("expected nil claims, got %+v", claims)
			}
		})
	}
}

func TestVerifyRejectsNonHMACAlgorithm(t *testing.T) {
	initTestConfig(t)

	// alg "none" token with a valid-looking payload
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign none-alg token: %v", err)
	}

	if claims := VerifyAccessToken(signed); claims != nil {
		t.Error("token with alg=none must not verify")
	}
}
