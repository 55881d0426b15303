package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/tonkonan/materrax/internal/models"
)

// DefaultExpiration is the fixed lifetime of every issued token.
const DefaultExpiration = 7 * 24 * time.Hour

const issuer = "materrax"

var ErrInvalidToken = errors.New("invalid token")

type Manager struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

type Claims struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() models.Identity {
	return models.Identity{ID: c.ID, Email: c.Email, Role: c.Role}
}

func NewManager(secret string, expiration time.Duration) *Manager {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}

	return &Manager{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken signs the identity with HS256. The returned claims carry the
// token id and expiry for session bookkeeping.
func (m *Manager) GenerateToken(identity models.Identity) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		ID:    identity.ID,
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, claims, nil
}

func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func (m *Manager) GetExpiration() time.Duration {
	return m.expiration
}
