package auth

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionCookie is the cookie name carrying the session token.
const SessionCookie = "cp_session"

// ErrNoSession is returned when a token is missing, malformed, expired, or
// its server-side session has been revoked.
var ErrNoSession = errors.New("no valid session")

// SessionStore keeps the server-side half of each session so logout actually
// invalidates tokens.
type SessionStore interface {
	Put(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (int64, error)
	Delete(ctx context.Context, sessionID string) error
}

// Claims is the JWT payload carried in the session cookie. ID (jti) names the
// server-side session entry.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and resolves cookie session tokens. Tokens are HS256 JWTs;
// a token only resolves while its session entry is still present in the store.
type Manager struct {
	store  SessionStore
	secret string
	issuer string
	ttl    time.Duration
}

// NewManager creates a session manager.
func NewManager(store SessionStore, secret, issuer string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{store: store, secret: secret, issuer: issuer, ttl: ttl}
}

// Issue establishes a session for the user and returns the signed token for
// the cookie.
func (m *Manager) Issue(ctx context.Context, userID int64, role string) (string, error) {
	sessionID := uuid.NewString()
	now := time.Now()

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secret))
	if err != nil {
		return "", err
	}
	if err := m.store.Put(ctx, sessionID, userID, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve validates a token and returns the user id it authenticates.
// Fails with ErrNoSession when the signature, issuer, or expiry is invalid or
// the session has been revoked.
func (m *Manager) Resolve(ctx context.Context, token string) (int64, error) {
	claims, err := m.parse(token)
	if err != nil {
		return 0, ErrNoSession
	}
	userID, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		return 0, ErrNoSession
	}
	if sub, perr := strconv.ParseInt(claims.Subject, 10, 64); perr != nil || sub != userID {
		return 0, ErrNoSession
	}
	return userID, nil
}

// Revoke destroys the session behind a token. Unparseable tokens are ignored
// so logout stays idempotent.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.ID)
}

func (m *Manager) parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if m.issuer != "" && claims.Issuer != m.issuer {
		return nil, errors.New("issuer mismatch")
	}
	if claims.ID == "" {
		return nil, errors.New("missing session id")
	}
	return claims, nil
}

// RedisSessions stores sessions in redis with the TTL enforced server-side.
type RedisSessions struct {
	client *redis.Client
	prefix string
}

// NewRedisSessions creates a redis-backed session store.
func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client, prefix: "classpulse:session:"}
}

// Put stores a session.
func (s *RedisSessions) Put(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+sessionID, userID, ttl).Err()
}

// Get returns the user id for a live session.
func (s *RedisSessions) Get(ctx context.Context, sessionID string) (int64, error) {
	val, err := s.client.Get(ctx, s.prefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoSession
		}
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// Delete removes a session.
func (s *RedisSessions) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}

// MemorySessions is a map-backed session store for dev and testing.
type MemorySessions struct {
	mu    sync.Mutex
	state map[string]memorySession
}

type memorySession struct {
	userID  int64
	expires time.Time
}

// NewMemorySessions creates an in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{state: make(map[string]memorySession)}
}

// Put stores a session.
func (s *MemorySessions) Put(_ context.Context, sessionID string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[sessionID] = memorySession{userID: userID, expires: time.Now().Add(ttl)}
	return nil
}

// Get returns the user id for a live session.
func (s *MemorySessions) Get(_ context.Context, sessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.state[sessionID]
	if !ok {
		return 0, ErrNoSession
	}
	if time.Now().After(sess.expires) {
		delete(s.state, sessionID)
		return 0, ErrNoSession
	}
	return sess.userID, nil
}

// Delete removes a session.
func (s *MemorySessions) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state, sessionID)
	return nil
}
