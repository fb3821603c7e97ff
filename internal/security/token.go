package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Issuer is the iss claim on every token this service mints.
	Issuer = "campushire-api"
	// UserAudience scopes student session tokens.
	UserAudience = "campushire-client"
	// AdminAudience scopes admin session tokens.
	AdminAudience = "campushire-admin"
)

// Claims is the decoded payload of a session token.
type Claims struct {
	Subject   string
	UserID    uint
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 session tokens for one audience.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenIssuer returns an issuer for audience with the given lifetime.
func NewTokenIssuer(secret, audience string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   Issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock replaces the issuer's clock. Used by tests to mint and decode
// tokens at fixed instants.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

// TTL returns the lifetime given to new tokens.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue mints a token for subject (the account email) and userID.
func (t *TokenIssuer) Issue(subject string, userID uint) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("token secret not configured")
	}

	now := t.now()
	claims := jwt.MapClaims{
		"sub":     subject,
		"user_id": userID,
		"iss":     t.issuer,
		"aud":     t.audience,
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
		"exp":     now.Add(t.ttl).Unix(),
		"jti":     uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies token and returns its claims. Any failure, including a
// bad signature, a non-HS256 algorithm, a foreign issuer or audience, and
// expiry, yields (nil, false).
func (t *TokenIssuer) Decode(token string) (*Claims, bool) {
	if token == "" || len(t.secret) == 0 {
		return nil, false
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, false
	}
	rawID, ok := mc["user_id"].(float64)
	if !ok || rawID <= 0 || rawID != float64(uint(rawID)) {
		return nil, false
	}

	claims := &Claims{Subject: sub, UserID: uint(rawID)}
	claims.ID, _ = mc["jti"].(string)
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, true
}

// DecodeID adapts Decode to the middleware token decoder signature.
func (t *TokenIssuer) DecodeID(token string) (uint, bool) {
	claims, ok := t.Decode(token)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}
