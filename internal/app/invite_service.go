package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// InviteService mints and checks signed room invite tokens. A token is
// bound to one room and expires after the configured TTL.
type InviteService struct {
	secret string
	issuer string
	ttl    time.Duration
}

func NewInviteService(secret, issuer string, ttl time.Duration) *InviteService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &InviteService{secret: secret, issuer: issuer, ttl: ttl}
}

func (s *InviteService) GenerateToken(roomCode string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("invite service is nil")
	}
	if roomCode == "" {
		return "", fmt.Errorf("room code is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("invite config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"exp":  time.Now().Add(s.ttl).Unix(),
		"room": roomCode,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// ValidateToken verifies the signature and expiry and returns the room
// code the token grants entry to.
func (s *InviteService) ValidateToken(tokenString string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("invite service is nil")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid invite token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid invite token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invite token carries no claims")
	}
	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return "", fmt.Errorf("invite token issued by %q, want %q", iss, s.issuer)
	}
	room, ok := claims["room"].(string)
	if !ok || room == "" {
		return "", fmt.Errorf("invite token names no room")
	}
	return room, nil
}
