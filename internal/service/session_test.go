package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techincepto/portal-backend/internal/model"
)

func testPrincipal() model.AdminPrincipal {
	return model.AdminPrincipal{AdminID: "adm-1", Role: model.RoleAdmin, Username: "root"}
}

func TestSessionCodec_RoundTrip(t *testing.T) {
	clock := newFakeClock()
	codec := NewSessionCodec("secret", 24*time.Hour).WithClock(clock.Now)

	token, err := codec.Issue(testPrincipal())
	require.NoError(t, err)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testPrincipal(), *got)
}

func TestSessionCodec_Expired(t *testing.T) {
	clock := newFakeClock()
	codec := NewSessionCodec("secret", time.Hour).WithClock(clock.Now)

	token, err := codec.Issue(testPrincipal())
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSessionCodec_ForgedSignature(t *testing.T) {
	clock := newFakeClock()
	token, err := NewSessionCodec("other-secret", time.Hour).WithClock(clock.Now).Issue(testPrincipal())
	require.NoError(t, err)

	_, err = NewSessionCodec("secret", time.Hour).WithClock(clock.Now).Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestSessionCodec_RejectsNoneAlgorithm(t *testing.T) {
	clock := newFakeClock()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour))},
		AdminID:          "adm-1",
		Role:             model.RoleAdmin,
		Username:         "root",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSessionCodec("secret", time.Hour).WithClock(clock.Now).Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestSessionCodec_Garbage(t *testing.T) {
	codec := NewSessionCodec("secret", time.Hour)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := codec.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", tok)
	}
}
