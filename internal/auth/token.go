package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// ErrUnauthenticated is returned for every token that cannot be resolved to an
// identity. Callers must not be told which check failed.
var ErrUnauthenticated = errors.New("could not validate credentials")

// Identity is the caller resolved from a valid token.
type Identity struct {
	Subject string `json:"username"`
	ID      uint   `json:"id"`
	Role    string `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Roles known to the service. Role is free-form in storage; only RoleAdmin
// grants extra access.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims is the claim set carried by an access token.
type Claims struct {
	UserID *uint  `json:"id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.StandardClaims
}

// TokenConfig configures a TokenManager.
type TokenConfig struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
}

// TokenManager issues and resolves HMAC-signed access tokens.
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenManager creates a TokenManager. Only HMAC algorithms are accepted.
func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	return &TokenManager{
		secret: []byte(cfg.Secret),
		method: method,
		ttl:    cfg.TTL,
		now:    time.Now,
		parser: &jwt.Parser{
			ValidMethods: []string{method.Alg()},
			// Expiry is checked against the manager's clock in Resolve.
			SkipClaimsValidation: true,
		},
	}, nil
}

// WithClock returns a copy of m that reads the current time from now.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

// TTL is the default token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the given identity that expires ttl from now.
func (m *TokenManager) Issue(subject string, id uint, role string, ttl time.Duration) (string, error) {
	now := m.now()
	userID := id
	claims := Claims{
		UserID: &userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Resolve verifies tokenString and returns the identity it carries. Any
// failure (bad signature, wrong algorithm, missing claims, expiry) yields
// ErrUnauthenticated; the returned error wraps the underlying reason so it can
// be logged, but only ErrUnauthenticated should reach a client.
func (m *TokenManager) Resolve(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("%w: invalid signature", ErrUnauthenticated)
	}
	if claims.Subject == "" || claims.UserID == nil {
		return Identity{}, fmt.Errorf("%w: missing subject or id claim", ErrUnauthenticated)
	}
	if claims.ExpiresAt == 0 {
		return Identity{}, fmt.Errorf("%w: missing expiry", ErrUnauthenticated)
	}
	if m.now().Unix() >= claims.ExpiresAt {
		return Identity{}, fmt.Errorf("%w: token expired", ErrUnauthenticated)
	}

	return Identity{
		Subject: claims.Subject,
		ID:      *claims.UserID,
		Role:    claims.Role,
	}, nil
}
