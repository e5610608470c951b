package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

const defaultLeeway = 30 * time.Second

var ErrMissingEmail = errors.New("token email missing")

// Config selects the signing key. Exactly one of Secret (HS256) or
// PublicKeyPEM (RS256) must be set.
type Config struct {
	Secret       string
	PublicKeyPEM string
	Issuer       string
	Audience     string
	Leeway       time.Duration
}

// Claims are the identity claims issued by the sign-in provider.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Verifier validates bearer tokens and turns them into identities.
type Verifier struct {
	key     any
	methods []string
	opts    []jwt.ParserOption
}

func NewVerifier(cfg Config) (*Verifier, error) {
	secret := strings.TrimSpace(cfg.Secret)
	pemKey := strings.TrimSpace(cfg.PublicKeyPEM)

	v := &Verifier{}
	switch {
	case secret != "" && pemKey != "":
		return nil, errors.New("token verifier takes either a secret or a public key, not both")
	case secret != "":
		v.key = []byte(secret)
		v.methods = []string{jwt.SigningMethodHS256.Alg()}
	case pemKey != "":
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
		if err != nil {
			return nil, fmt.Errorf("parse token public key: %w", err)
		}
		v.key = pub
		v.methods = []string{jwt.SigningMethodRS256.Alg()}
	default:
		return nil, errors.New("token verifier requires a secret or a public key")
	}

	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}
	v.opts = []jwt.ParserOption{
		jwt.WithValidMethods(v.methods),
		jwt.WithLeeway(leeway),
		jwt.WithExpirationRequired(),
	}
	if iss := strings.TrimSpace(cfg.Issuer); iss != "" {
		v.opts = append(v.opts, jwt.WithIssuer(iss))
	}
	if aud := strings.TrimSpace(cfg.Audience); aud != "" {
		v.opts = append(v.opts, jwt.WithAudience(aud))
	}
	return v, nil
}

// Verify validates the token and returns the identity it proves.
func (v *Verifier) Verify(token string) (entity.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, v.opts...)
	if err != nil {
		return entity.Identity{}, fmt.Errorf("token validation failed: %w", err)
	}
	if !parsed.Valid {
		return entity.Identity{}, errors.New("invalid token")
	}

	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return entity.Identity{}, ErrMissingEmail
	}
	return entity.Identity{
		Subject: claims.Subject,
		Email:   email,
		Name:    strings.TrimSpace(claims.Name),
	}, nil
}

// IsRSA reports whether the verifier expects RS256 tokens.
func (v *Verifier) IsRSA() bool {
	_, ok := v.key.(*rsa.PublicKey)
	return ok
}
