package interfaces

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yair/showfinder/pkg/config"
	"github.com/yair/showfinder/pkg/domain"
)

const sessionIssuer = "showfinder"

type SessionClaims struct {
	// OpenGate marks sessions issued while no server password was configured.
	OpenGate bool `json:"open_gate,omitempty"`
	jwt.RegisteredClaims
}

// AccessGate checks the access password and issues signed session tokens.
// Without a configured password any non-empty password is accepted.
type AccessGate struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAccessGate(cfg config.AccessConfig) (*AccessGate, error) {
	gate := &AccessGate{
		ttl: cfg.SessionTTL(),
		now: time.Now,
	}
	if gate.ttl <= 0 {
		gate.ttl = 12 * time.Hour
	}

	switch {
	case cfg.PasswordHash != "":
		if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
			return nil, fmt.Errorf("invalid password hash: %w", err)
		}
		gate.passwordHash = []byte(cfg.PasswordHash)
	case cfg.Password != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		gate.passwordHash = hash
	}

	if cfg.SessionSecret != "" {
		gate.secret = []byte(cfg.SessionSecret)
	} else {
		// Sessions then do not survive a restart.
		gate.secret = []byte(uuid.NewString() + uuid.NewString())
	}

	return gate, nil
}

// Open reports whether no server password is configured.
func (g *AccessGate) Open() bool {
	return g.passwordHash == nil
}

// Login checks password and returns a session token with its expiry.
func (g *AccessGate) Login(password string) (string, time.Time, error) {
	if g.Open() {
		if strings.TrimSpace(password) == "" {
			return "", time.Time{}, domain.ErrInvalidPassword
		}
	} else if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, domain.ErrInvalidPassword
	}

	now := g.now()
	expires := now.Add(g.ttl)
	claims := SessionClaims{
		OpenGate: g.Open(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}

	return token, expires, nil
}

// Verify parses a session token and returns its claims.
func (g *AccessGate) Verify(token string) (*SessionClaims, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !parsed.Valid {
		return nil, errors.Join(domain.ErrUnauthorized, err)
	}

	return claims, nil
}
