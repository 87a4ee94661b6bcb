package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims embeds the registered claims and adds the authenticated user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// TokenManager issues and validates HS256 bearer tokens. The secret and TTL
// are injected at construction, there is no process-wide signing state.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	clock  Clock
}

func NewTokenManager(secret string, ttl time.Duration, clock Clock) *TokenManager {
	if clock == nil {
		clock = SystemClock()
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, clock: clock}
}

func (m *TokenManager) Generate(userID int64) (string, error) {
	now := m.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
	})
	return token.SignedString(m.secret)
}

// Parse verifies the signature and time claims and returns the embedded user
// id. Expiry is reported as ErrTokenExpired, every other failure (bad
// signature, wrong algorithm, malformed payload) as ErrTokenInvalid.
func (m *TokenManager) Parse(tokenString string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock.Now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == 0 {
		return 0, ErrTokenInvalid
	}
	return claims.UserID, nil
}
