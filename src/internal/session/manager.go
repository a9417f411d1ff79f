package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired session token")
	ErrSessionRevoked = errors.New("session has ended")
)

type Claims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

// Manager issues signed session tokens and tracks which of them are still live.
// A token is accepted only while its id is present in the registry, so Revoke
// ends a session before the token itself expires.
type Manager struct {
	secret []byte
	ttl    time.Duration
	active *cache.Cache
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		active: cache.New(ttl, 2*ttl),
		now:    time.Now,
	}
}

type Session struct {
	ID        string
	Username  string
	Token     string
	ExpiresAt time.Time
}

func (m *Manager) Issue(username string) (Session, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)
	id := uuid.New().String()

	claims := &Claims{
		Username: username,
		StandardClaims: jwt.StandardClaims{
			Id:        id,
			Subject:   username,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session token: %w", err)
	}

	m.active.Set(id, username, m.ttl)
	logger.Info("session issued", logger.Fields{
		"username":  username,
		"sessionId": id,
	})

	return Session{ID: id, Username: username, Token: signed, ExpiresAt: expiresAt}, nil
}

// Parse validates the signature, expiry and registry entry of a bearer token.
func (m *Manager) Parse(token string) (*Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	owner, ok := m.active.Get(claims.Id)
	if !ok {
		return nil, ErrSessionRevoked
	}
	if owner.(string) != claims.Username {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) Revoke(sessionID string) {
	m.active.Delete(sessionID)
	logger.Info("session revoked", logger.Fields{
		"sessionId": sessionID,
	})
}

// ActiveCount reports live sessions, expired entries excluded.
func (m *Manager) ActiveCount() int {
	m.active.DeleteExpired()
	return m.active.ItemCount()
}
