package link

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GintGld/media-engine/internal/service"
)

// Signer issues and verifies share tokens for merged videos.
// Tokens are HS256-signed and carry the merged video id and
// the issuance timestamp; validity is re-derived from the
// signature and elapsed time alone, no server-side state.
type Signer struct {
	secret []byte
}

func New(secret []byte) *Signer {
	return &Signer{
		secret: secret,
	}
}

// Issue signs a token for the merged video. The issuance
// timestamp is captured here, not recomputed at verification.
func (s *Signer) Issue(mergedID uuid.UUID, ttl time.Duration) (string, error) {
	const op = "Signer.Issue"

	now := time.Now()

	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["mid"] = mergedID.String()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return tokenString, nil
}

// Validate checks the token signature (constant-time HMAC
// compare inside the jwt library) and its age against maxAge.
// Returns ErrTokenTampered for any signature or shape problem
// and ErrTokenExpired for an outdated one; the two must be
// collapsed into one generic message at the HTTP boundary.
func (s *Signer) Validate(tokenString string, maxAge time.Duration) (uuid.UUID, error) {
	const op = "Signer.Validate"

	token, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, service.ErrTokenExpired)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, service.ErrTokenTampered)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("%s: %w", op, service.ErrTokenTampered)
	}

	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, service.ErrTokenTampered)
	}

	if time.Since(issuedAt.Time) > maxAge {
		return uuid.Nil, fmt.Errorf("%s: %w", op, service.ErrTokenExpired)
	}

	mid, ok := claims["mid"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("%s: %w", op, service.ErrTokenTampered)
	}

	id, err := uuid.Parse(mid)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, service.ErrTokenTampered)
	}

	return id, nil
}
