package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gravitas-games/hexext/internal/cache"
	"github.com/gravitas-games/hexext/internal/config"
)

// ErrMissingSubject is returned for tokens without a sub claim.
var ErrMissingSubject = errors.New("token has no subject")

// JWTValidator handles JWT token validation
type JWTValidator struct {
	config    config.JWTConfig
	publicKey *ecdsa.PublicKey
	keyMu     sync.RWMutex
	cache     *cache.Cache
}

// NewJWTValidator creates a validator using the PEM public key at
// cfg.PublicKeyPath. Revoked subjects are looked up in c when it is non-nil.
func NewJWTValidator(cfg config.JWTConfig, c *cache.Cache) (*JWTValidator, error) {
	v := &JWTValidator{config: cfg, cache: c}
	if err := v.ReloadPublicKey(); err != nil {
		return nil, fmt.Errorf("failed to load public key: %w", err)
	}
	log.Println("JWT validator initialized")
	return v, nil
}

// ReloadPublicKey reads the public key file again
func (v *JWTValidator) ReloadPublicKey() error {
	keyData, err := os.ReadFile(v.config.PublicKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read public key: %w", err)
	}
	key, err := parseECDSAPublicKey(keyData)
	if err != nil {
		return err
	}

	v.keyMu.Lock()
	v.publicKey = key
	v.keyMu.Unlock()

	log.Printf("Public key loaded from %s", v.config.PublicKeyPath)
	return nil
}

func parseECDSAPublicKey(keyData []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(keyData)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	pubKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	ecdsaKey, ok := pubKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not ECDSA")
	}
	return ecdsaKey, nil
}

// ValidateToken validates a JWT token and returns its subject
func (v *JWTValidator) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"ES256", "ES384", "ES512"})}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		v.keyMu.RLock()
		defer v.keyMu.RUnlock()
		return v.publicKey, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}

	banned, err := v.cache.Blacklisted(ctx, claims.Subject)
	if err != nil {
		// Don't fail authentication if Redis is down
		log.Printf("Warning: Failed to check blacklist: %v", err)
	} else if banned {
		return "", fmt.Errorf("token subject %s is blacklisted", claims.Subject)
	}

	return claims.Subject, nil
}

// extractTokenFromHeader extracts JWT token from WebSocket connection header
func extractTokenFromHeader(r *http.Request) string {
	// Sec-WebSocket-Protocol: "access_token, <token>"
	if protocols := r.Header.Get("Sec-WebSocket-Protocol"); protocols != "" {
		parts := strings.Split(protocols, ",")
		if len(parts) == 2 && strings.TrimSpace(parts[0]) == "access_token" {
			return strings.TrimSpace(parts[1])
		}
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	// Query parameter (less secure, but supported)
	return r.URL.Query().Get("token")
}
