package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ezwallet/pkg/tokens"
)

var secret = []byte("engine-test-key")

var (
	mario = tokens.Claims{Username: "mario", Email: "mario@ezwallet.io", ID: "1", Role: "Regular"}
	admin = tokens.Claims{Username: "boss", Email: "boss@ezwallet.io", ID: "2", Role: RoleAdmin}
)

type fixture struct {
	now    time.Time
	engine *Engine
}

func newFixture() *fixture {
	f := &fixture{now: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)}
	f.engine = NewEngine(tokens.NewCodec(secret, tokens.WithClock(func() time.Time { return f.now })))
	return f
}

// sign issues a token at now+offset so it can be made expired relative to f.now.
func (f *fixture) sign(t *testing.T, c tokens.Claims, issuedOffset, ttl time.Duration) string {
	t.Helper()
	codec := tokens.NewCodec(secret, tokens.WithClock(func() time.Time { return f.now.Add(issuedOffset) }))
	tok, err := codec.Sign(c, ttl)
	require.NoError(t, err)
	return tok
}

func (f *fixture) pair(t *testing.T, c tokens.Claims) (string, string) {
	return f.sign(t, c, 0, tokens.AccessTTL), f.sign(t, c, 0, tokens.RefreshTTL)
}

func TestVerify_MissingTokens(t *testing.T) {
	t.Parallel()
	f := newFixture()
	access, refresh := f.pair(t, mario)

	for _, tc := range []struct{ access, refresh string }{
		{"", ""},
		{access, ""},
		{"", refresh},
	} {
		res := f.engine.Verify(tc.access, tc.refresh, Simple{})
		assert.False(t, res.Authorized)
		assert.Equal(t, CauseNoSession, res.Cause)
		assert.Nil(t, res.Claims)
		assert.Nil(t, res.Renewal)
	}
}

func TestVerify_Simple(t *testing.T) {
	t.Parallel()
	f := newFixture()
	access, refresh := f.pair(t, mario)

	res := f.engine.Verify(access, refresh, Simple{})
	assert.True(t, res.Authorized)
	assert.Equal(t, CauseAuthorized, res.Cause)
	assert.Nil(t, res.Renewal)
	require.NotNil(t, res.Claims)
	assert.Equal(t, "mario", res.Claims.Username)
}

func TestVerify_Idempotent(t *testing.T) {
	t.Parallel()
	f := newFixture()
	access, refresh := f.pair(t, mario)

	first := f.engine.Verify(access, refresh, User{Username: "mario"})
	second := f.engine.Verify(access, refresh, User{Username: "mario"})
	assert.Equal(t, first, second)
}

func TestVerify_Capabilities(t *testing.T) {
	t.Parallel()
	f := newFixture()
	marioAccess, marioRefresh := f.pair(t, mario)
	adminAccess, adminRefresh := f.pair(t, admin)

	tests := []struct {
		name    string
		access  string
		refresh string
		cap     Capability
		wantOK  bool
		wantWhy string
	}{
		{"user owner", marioAccess, marioRefresh, User{Username: "mario"}, true, CauseAuthorized},
		{"user other", marioAccess, marioRefresh, User{Username: "luigi"}, false, CauseNotOwner},
		{"user case sensitive", marioAccess, marioRefresh, User{Username: "Mario"}, false, CauseNotOwner},
		{"admin ok", adminAccess, adminRefresh, Admin{}, true, CauseAuthorized},
		{"admin denied", marioAccess, marioRefresh, Admin{}, false, CauseNotAdmin},
		{"group member", marioAccess, marioRefresh, Group{Emails: []string{"x@y.io", "mario@ezwallet.io"}}, true, CauseAuthorized},
		{"group outsider", marioAccess, marioRefresh, Group{Emails: []string{"x@y.io"}}, false, CauseNotInGroup},
		{"group empty", marioAccess, marioRefresh, Group{}, false, CauseNotInGroup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.engine.Verify(tt.access, tt.refresh, tt.cap)
			assert.Equal(t, tt.wantOK, res.Authorized)
			assert.Equal(t, tt.wantWhy, res.Cause)
			assert.NotNil(t, res.Claims)
		})
	}
}

func TestVerifyAny(t *testing.T) {
	t.Parallel()
	f := newFixture()
	marioAccess, marioRefresh := f.pair(t, mario)
	adminAccess, adminRefresh := f.pair(t, admin)

	res := f.engine.VerifyAny(adminAccess, adminRefresh, User{Username: "mario"}, Admin{})
	assert.True(t, res.Authorized)

	res = f.engine.VerifyAny(marioAccess, marioRefresh, User{Username: "mario"}, Admin{})
	assert.True(t, res.Authorized)

	res = f.engine.VerifyAny(marioAccess, marioRefresh, User{Username: "luigi"}, Admin{})
	assert.False(t, res.Authorized)
	assert.Equal(t, CauseNotAdmin, res.Cause)

	res = f.engine.VerifyAny(marioAccess, marioRefresh)
	assert.True(t, res.Authorized)
}

func TestVerify_InvalidTokens(t *testing.T) {
	t.Parallel()
	f := newFixture()
	access, refresh := f.pair(t, mario)

	forged, err := tokens.NewCodec([]byte("other")).Sign(mario, time.Hour)
	require.NoError(t, err)

	res := f.engine.Verify("garbage", refresh, Simple{})
	assert.Equal(t, tokens.ReasonMalformed, res.Cause)

	res = f.engine.Verify(forged, refresh, Simple{})
	assert.Equal(t, tokens.ReasonSignatureInvalid, res.Cause)

	res = f.engine.Verify(access, forged, Simple{})
	assert.Equal(t, tokens.ReasonSignatureInvalid, res.Cause)

	res = f.engine.Verify(access, "garbage", Simple{})
	assert.Equal(t, tokens.ReasonMalformed, res.Cause)
	assert.False(t, res.Authorized)
}

func TestVerify_RefreshExpiredWithValidAccess(t *testing.T) {
	t.Parallel()
	f := newFixture()
	access := f.sign(t, mario, 0, tokens.AccessTTL)
	refresh := f.sign(t, mario, -8*24*time.Hour, tokens.RefreshTTL)

	res := f.engine.Verify(access, refresh, Simple{})
	assert.False(t, res.Authorized)
	assert.Equal(t, CauseLoginAgain, res.Cause)
}

func TestVerify_Incomplete(t *testing.T) {
	t.Parallel()
	f := newFixture()
	partial := tokens.Claims{Username: "mario", Email: "mario@ezwallet.io"}
	access, refresh := f.pair(t, partial)
	_, fullRefresh := f.pair(t, mario)

	res := f.engine.Verify(access, refresh, Simple{})
	assert.Equal(t, CauseIncomplete, res.Cause)

	res = f.engine.Verify(access, fullRefresh, Simple{})
	assert.Equal(t, CauseIncomplete, res.Cause)

	fullAccess, _ := f.pair(t, mario)
	res = f.engine.Verify(fullAccess, refresh, Simple{})
	assert.Equal(t, CauseIncomplete, res.Cause)
}

func TestVerify_Mismatch(t *testing.T) {
	t.Parallel()
	f := newFixture()
	marioAccess, _ := f.pair(t, mario)
	_, adminRefresh := f.pair(t, admin)

	res := f.engine.Verify(marioAccess, adminRefresh, Simple{})
	assert.False(t, res.Authorized)
	assert.Equal(t, CauseMismatch, res.Cause)
	assert.Nil(t, res.Claims)

	promoted := mario
	promoted.Role = RoleAdmin
	_, promotedRefresh := f.pair(t, promoted)
	res = f.engine.Verify(marioAccess, promotedRefresh, Admin{})
	assert.Equal(t, CauseMismatch, res.Cause)
}

func TestVerify_Renewal(t *testing.T) {
	t.Parallel()
	f := newFixture()
	expiredAccess := f.sign(t, mario, -2*time.Hour, tokens.AccessTTL)
	refresh := f.sign(t, mario, -2*time.Hour, tokens.RefreshTTL)

	res := f.engine.Verify(expiredAccess, refresh, User{Username: "mario"})
	require.True(t, res.Authorized)
	require.NotNil(t, res.Renewal)
	assert.Equal(t, RenewalMessage, res.Renewal.Message)

	renewed, err := tokens.NewCodec(secret, tokens.WithClock(func() time.Time { return f.now })).Verify(res.Renewal.AccessToken)
	require.NoError(t, err)
	assert.True(t, renewed.SameIdentity(&mario))
	assert.Equal(t, "1", renewed.ID)
	assert.True(t, f.now.Add(tokens.AccessTTL).Equal(renewed.ExpiresAt.Time))

	res = f.engine.Verify(res.Renewal.AccessToken, refresh, User{Username: "mario"})
	assert.True(t, res.Authorized)
	assert.Nil(t, res.Renewal)
}

func TestVerify_RenewalUsesRefreshIdentity(t *testing.T) {
	t.Parallel()
	f := newFixture()
	expiredAccess := f.sign(t, admin, -2*time.Hour, tokens.AccessTTL)
	refresh := f.sign(t, mario, 0, tokens.RefreshTTL)

	res := f.engine.Verify(expiredAccess, refresh, Admin{})
	assert.False(t, res.Authorized)
	assert.Equal(t, CauseNotAdmin, res.Cause)
	require.NotNil(t, res.Claims)
	assert.Equal(t, "mario", res.Claims.Username)
	assert.NotNil(t, res.Renewal)
}

func TestVerify_RenewalFailures(t *testing.T) {
	t.Parallel()
	f := newFixture()
	expiredAccess := f.sign(t, mario, -2*time.Hour, tokens.AccessTTL)
	expiredRefresh := f.sign(t, mario, -8*24*time.Hour, tokens.RefreshTTL)
	partialRefresh := f.sign(t, tokens.Claims{Username: "mario", Role: "Regular"}, 0, tokens.RefreshTTL)

	res := f.engine.Verify(expiredAccess, expiredRefresh, Simple{})
	assert.Equal(t, CauseLoginAgain, res.Cause)
	assert.Nil(t, res.Renewal)

	res = f.engine.Verify(expiredAccess, "garbage", Simple{})
	assert.Equal(t, tokens.ReasonMalformed, res.Cause)

	res = f.engine.Verify(expiredAccess, partialRefresh, Simple{})
	assert.Equal(t, CauseIncomplete, res.Cause)
	assert.Nil(t, res.Renewal)
}
