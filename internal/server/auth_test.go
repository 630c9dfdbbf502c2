package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gravitas-games/hexext/internal/config"
)

// newTestValidator writes a fresh public key to disk and returns a
// validator for it together with the matching private key.
func newTestValidator(t *testing.T) (*JWTValidator, *ecdsa.PrivateKey) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	keyPath := filepath.Join(t.TempDir(), "jwt.pub")
	data := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	if err := os.WriteFile(keyPath, data, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	v, err := NewJWTValidator(config.JWTConfig{Issuer: "hexq-auth", PublicKeyPath: keyPath}, nil)
	if err != nil {
		t.Fatalf("NewJWTValidator: %v", err)
	}
	return v, priv
}

func signToken(t *testing.T, priv *ecdsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(priv)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func validClaims(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "hexq-auth",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestValidateToken(t *testing.T) {
	v, priv := newTestValidator(t)
	ctx := context.Background()
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tok := signToken(t, priv, validClaims("scout-7"))
	sub, err := v.ValidateToken(ctx, tok)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if sub != "scout-7" {
		t.Errorf("subject = %q", sub)
	}

	cases := map[string]jwt.RegisteredClaims{
		"wrong issuer": {Subject: "scout-7", Issuer: "elsewhere", ExpiresAt: exp},
		"expired":      {Subject: "scout-7", Issuer: "hexq-auth", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		"no subject":   {Issuer: "hexq-auth", ExpiresAt: exp},
	}
	for name, claims := range cases {
		if _, err := v.ValidateToken(ctx, signToken(t, priv, claims)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	other, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	forged := signToken(t, other, jwt.RegisteredClaims{Subject: "scout-7", Issuer: "hexq-auth", ExpiresAt: exp})
	if _, err := v.ValidateToken(ctx, forged); err == nil {
		t.Errorf("token signed by another key accepted")
	}
}

func TestNewJWTValidatorMissingKey(t *testing.T) {
	_, err := NewJWTValidator(config.JWTConfig{PublicKeyPath: filepath.Join(t.TempDir(), "absent.pem")}, nil)
	if err == nil {
		t.Fatal("expected error for missing key file")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Sec-WebSocket-Protocol", "access_token, abc")
	if got := extractTokenFromHeader(r); got != "abc" {
		t.Errorf("protocol header: got %q", got)
	}

	r = httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Bearer def")
	if got := extractTokenFromHeader(r); got != "def" {
		t.Errorf("authorization header: got %q", got)
	}

	r = httptest.NewRequest("GET", "/ws?token=ghi", nil)
	if got := extractTokenFromHeader(r); got != "ghi" {
		t.Errorf("query parameter: got %q", got)
	}
}
