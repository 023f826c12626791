package tokens

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-access-key")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(testSecret, WithClock(fixedClock(now)))

	in := Claims{Username: "mario", Email: "mario@ezwallet.io", ID: "42", Role: "Regular"}
	token, err := codec.Sign(in, AccessTTL)
	require.NoError(t, err)

	out, err := codec.Verify(token)
	require.NoError(t, err)
	assert.True(t, in.SameIdentity(out))
	assert.Equal(t, "42", out.ID)
	require.NotNil(t, out.IssuedAt)
	require.NotNil(t, out.ExpiresAt)
	assert.True(t, now.Equal(out.IssuedAt.Time))
	assert.True(t, now.Add(AccessTTL).Equal(out.ExpiresAt.Time))
}

func TestCodec_Expired(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signer := NewCodec(testSecret, WithClock(fixedClock(issued)))
	token, err := signer.Sign(Claims{Username: "u", Email: "u@x.io", Role: "Regular"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{name: "one second before exp", now: issued.Add(time.Hour - time.Second)},
		{name: "exactly at exp", now: issued.Add(time.Hour), wantErr: ErrExpired},
		{name: "long after exp", now: issued.Add(48 * time.Hour), wantErr: ErrExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := NewCodec(testSecret, WithClock(fixedClock(tt.now)))
			_, err := verifier.Verify(token)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCodec_Invalid(t *testing.T) {
	t.Parallel()

	codec := NewCodec(testSecret)
	valid, err := codec.Sign(Claims{Username: "u", Email: "u@x.io", Role: "Regular"}, time.Hour)
	require.NoError(t, err)

	otherKey, err := NewCodec([]byte("another-key")).Sign(Claims{Username: "u", Email: "u@x.io", Role: "Regular"}, time.Hour)
	require.NoError(t, err)

	expiredOtherKey, err := NewCodec([]byte("another-key")).Sign(Claims{Username: "u", Email: "u@x.io", Role: "Regular"}, -time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "u"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "u", Email: "u@x.io", Role: "Regular"}).SignedString(testSecret)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	for name, token := range map[string]string{
		"garbage":               "not-a-jwt",
		"empty":                 "",
		"wrong key":             otherKey,
		"expired and wrong key": expiredOtherKey,
		"alg none":              none,
		"missing exp":           noExp,
		"tampered payload":      tampered,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Verify(token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.NotErrorIs(t, err, ErrExpired)
		})
	}
}

func TestReason(t *testing.T) {
	t.Parallel()

	claims := Claims{Username: "u", Email: "u@x.io", Role: "Regular"}
	codec := NewCodec(testSecret)
	expired, err := codec.Sign(claims, -time.Hour)
	require.NoError(t, err)
	otherKey, err := NewCodec([]byte("another-key")).Sign(claims, time.Hour)
	require.NoError(t, err)
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"expired", expired, ReasonExpired},
		{"garbage", "not-a-jwt", ReasonMalformed},
		{"wrong key", otherKey, ReasonSignatureInvalid},
		{"missing exp", noExp, ReasonClaimMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			require.Error(t, err)
			assert.Equal(t, tt.want, Reason(err))
		})
	}
	assert.Equal(t, ReasonInvalid, Reason(errors.New("boom")))
}

func TestClaims_Helpers(t *testing.T) {
	t.Parallel()

	a := Claims{Username: "u", Email: "u@x.io", Role: "Regular", ID: "1"}
	assert.True(t, a.Complete())
	assert.False(t, (&Claims{Username: "u", Role: "Regular"}).Complete())

	b := a.Identity()
	assert.True(t, a.SameIdentity(&b))
	b.Role = "Admin"
	assert.False(t, a.SameIdentity(&b))
	assert.Nil(t, b.ExpiresAt)
}
