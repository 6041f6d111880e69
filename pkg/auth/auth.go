package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	RoleAdmin     = "admin"
	RoleLibrarian = "librarian"
	RoleStudent   = "student"
)

type Config struct {
	Secret   string        `yaml:"secret" envconfig:"AUTH_SECRET" required:"true"`
	TokenTTL time.Duration `yaml:"tokenTTL" envconfig:"AUTH_TOKEN_TTL" default:"24h"`
}

type Claims struct {
	Profile struct {
		UserID int    `json:"user_id"`
		Role   string `json:"role"`
	} `json:"profile"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID    int
	Role      string
	SessionID string
}

func (i Identity) IsStaff() bool {
	return IsStaff(i.Role)
}

func IsStaff(role string) bool {
	return role == RoleAdmin || role == RoleLibrarian
}

type Token struct {
	Value     string
	SessionID uuid.UUID
	ExpiresAt time.Time
}

type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenManager(cfg Config) *TokenManager {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{key: []byte(cfg.Secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 token whose jti is a fresh session id.
func (m *TokenManager) Issue(userID int, role string) (Token, error) {
	sid := uuid.New()
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	claims.Profile.UserID = userID
	claims.Profile.Role = role

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return Token{}, errors.Wrap(err, "sign token")
	}
	return Token{Value: signed, SessionID: sid, ExpiresAt: expiresAt}, nil
}

func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return nil, errors.New("invalid token id")
	}
	return claims, nil
}

type ctxKey struct{}

func SetAuthContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
