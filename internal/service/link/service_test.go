package link

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/media-engine/internal/service"
)

var secret = []byte("test-secret")

func TestIssueValidateRoundTrip(t *testing.T) {
	signer := New(secret)
	id := uuid.New()

	token, err := signer.Issue(id, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := signer.Validate(token, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestValidateExpiredTTL(t *testing.T) {
	signer := New(secret)

	token, err := signer.Issue(uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = signer.Validate(token, time.Hour)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestValidateExpiredMaxAge(t *testing.T) {
	signer := New(secret)
	id := uuid.New()

	// token issued 10 minutes ago with a generous exp,
	// so only the max-age check can reject it
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["mid"] = id.String()
	claims["iat"] = time.Now().Add(-10 * time.Minute).Unix()
	claims["exp"] = time.Now().Add(time.Hour).Unix()

	tokenString, err := token.SignedString(secret)
	require.NoError(t, err)

	_, err = signer.Validate(tokenString, 5*time.Minute)
	assert.ErrorIs(t, err, service.ErrTokenExpired)

	got, err := signer.Validate(tokenString, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestValidateTamperedSignature(t *testing.T) {
	signer := New(secret)

	token, err := signer.Issue(uuid.New(), -time.Minute)
	require.NoError(t, err)

	// flip the first byte of the signature segment; the token
	// is also expired, but tampering must win over expiry
	flipped := []byte(token)
	pos := strings.LastIndexByte(token, '.') + 1
	if flipped[pos] == 'A' {
		flipped[pos] = 'z'
	} else {
		flipped[pos] = 'A'
	}

	_, err = signer.Validate(string(flipped), time.Hour)
	assert.ErrorIs(t, err, service.ErrTokenTampered)
	assert.NotErrorIs(t, err, service.ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	signer := New(secret)
	other := New([]byte("other-secret"))

	token, err := other.Issue(uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = signer.Validate(token, time.Hour)
	assert.ErrorIs(t, err, service.ErrTokenTampered)
}

func TestValidateGarbage(t *testing.T) {
	signer := New(secret)

	testCases := []struct {
		desc  string
		token string
	}{
		{desc: "empty", token: ""},
		{desc: "not a jwt", token: "definitely-not-a-token"},
		{desc: "missing signature", token: "eyJhbGciOiJIUzI1NiJ9.eyJtaWQiOiJ4In0."},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			_, err := signer.Validate(tC.token, time.Hour)
			assert.ErrorIs(t, err, service.ErrTokenTampered)
		})
	}
}

func TestValidateMissingMid(t *testing.T) {
	signer := New(secret)

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(time.Hour).Unix()

	tokenString, err := token.SignedString(secret)
	require.NoError(t, err)

	_, err = signer.Validate(tokenString, time.Hour)
	assert.ErrorIs(t, err, service.ErrTokenTampered)
}
