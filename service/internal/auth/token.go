// internal/auth/token.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "hanabi"

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid seat token")

// Seat is the identity a verified token grants: one player in one game.
type Seat struct {
	GameID   uuid.UUID
	PlayerID uuid.UUID
	Admin    bool
}

// seatClaims is the JWT payload of a seat token.
type seatClaims struct {
	jwt.RegisteredClaims
	GameID string `json:"game_id"`
	Admin  bool   `json:"admin,omitempty"`
}

// Issuer signs and verifies seat tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	Now    func() time.Time // Clock used for issuing and expiry; defaults to time.Now.
}

// NewIssuer creates an Issuer. The secret must not be empty.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, Now: time.Now}, nil
}

// Issue returns a signed token for the given seat.
func (i *Issuer) Issue(seat Seat) (string, error) {
	now := i.Now().UTC()
	claims := seatClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   seat.PlayerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
		GameID: seat.GameID.String(),
		Admin:  seat.Admin,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign seat token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer and expiry of token and returns its seat.
func (i *Issuer) Verify(token string) (Seat, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Seat{}, fmt.Errorf("%w: token is required", ErrInvalidToken)
	}

	var claims seatClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.Now),
	)
	if err != nil {
		return Seat{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	gameID, err := uuid.Parse(claims.GameID)
	if err != nil {
		return Seat{}, fmt.Errorf("%w: bad game id", ErrInvalidToken)
	}
	playerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Seat{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return Seat{GameID: gameID, PlayerID: playerID, Admin: claims.Admin}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
