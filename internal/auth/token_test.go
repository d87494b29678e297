package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCodec(t *testing.T) (*Codec, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c, err := NewCodec(testSecret, WithClock(clk.Now))
	require.NoError(t, err)
	return c, clk
}

func TestNewCodec_RequiresSecret(t *testing.T) {
	_, err := NewCodec(nil)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestCodec_RoundTrip(t *testing.T) {
	c, clk := newTestCodec(t)

	cases := []struct{ userID, email string }{
		{"c1f0a7e2-1111-4d7e-9b38-6a1f2f0c0001", "admin@yasargranit.com"},
		{"42", "Büşra.Öztürk@örnek.com.tr"},
		{"x", ""},
	}
	for _, tc := range cases {
		token, err := c.Issue(tc.userID, tc.email)
		require.NoError(t, err)

		claims, ok := c.Verify(token)
		require.True(t, ok)
		assert.Equal(t, tc.userID, claims.UserID)
		assert.Equal(t, tc.email, claims.Email)
		assert.NotEmpty(t, claims.TokenID)
		assert.WithinDuration(t, clk.Now(), claims.IssuedAt, 0)
		assert.WithinDuration(t, clk.Now().Add(TokenTTL), claims.ExpiresAt, 0)
	}
}

func TestCodec_Expiry(t *testing.T) {
	c, clk := newTestCodec(t)
	token, err := c.Issue("u1", "a@b.c")
	require.NoError(t, err)

	clk.Advance(TokenTTL - time.Second)
	_, ok := c.Verify(token)
	assert.True(t, ok, "token must verify before expiration")

	clk.Advance(time.Second)
	_, ok = c.Verify(token)
	assert.False(t, ok, "token must not verify at the expiration instant")

	clk.Advance(time.Hour)
	_, ok = c.Verify(token)
	assert.False(t, ok)
}

func TestCodec_WrongSecret(t *testing.T) {
	c, clk := newTestCodec(t)
	other, err := NewCodec([]byte("another-secret-another-secret-xx"), WithClock(clk.Now))
	require.NoError(t, err)

	token, err := other.Issue("u1", "a@b.c")
	require.NoError(t, err)

	_, ok := c.Verify(token)
	assert.False(t, ok)
}

func TestCodec_TamperedToken(t *testing.T) {
	c, _ := newTestCodec(t)
	token, err := c.Issue("u1", "a@b.c")
	require.NoError(t, err)

	for i := range len(token) {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]
		_, ok := c.Verify(tampered)
		assert.Falsef(t, ok, "tampered byte %d accepted", i)
	}
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	c, clk := newTestCodec(t)
	claims := tokenClaims{
		UserID: "u1",
		Email:  "a@b.c",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(clk.Now()),
			ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
		},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, ok := c.Verify(none)
	assert.False(t, ok, "alg=none must be rejected")

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)
	_, ok = c.Verify(hs512)
	assert.False(t, ok, "only HS256 is accepted")
}

func TestCodec_RejectsMissingExpiry(t *testing.T) {
	c, _ := newTestCodec(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{UserID: "u1"}).SignedString(testSecret)
	require.NoError(t, err)

	_, ok := c.Verify(token)
	assert.False(t, ok)
}

func TestCodec_Malformed(t *testing.T) {
	c, _ := newTestCodec(t)
	for _, s := range []string{"", "abc", "a.b.c", strings.Repeat(".", 5)} {
		_, ok := c.Verify(s)
		assert.Falsef(t, ok, "malformed token %q accepted", s)
	}
}
