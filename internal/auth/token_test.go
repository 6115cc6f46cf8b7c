package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
)

func newTestCodec(t *testing.T, opts ...Option) *Codec {
	t.Helper()
	c, err := NewCodec([]byte("super-secret"), 15*time.Minute, 7*24*time.Hour, opts...)
	require.NoError(t, err)
	return c
}

func TestNewCodec_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewCodec(nil, time.Minute, time.Hour)
	require.Error(t, err)

	_, err = NewCodec([]byte("k"), 0, time.Hour)
	require.Error(t, err)

	_, err = NewCodec([]byte("k"), time.Minute, -time.Hour)
	require.Error(t, err)
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)

	tok, err := c.IssueAccess("alice", 42)
	require.NoError(t, err)

	claims, err := c.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username())
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, KindAccess, claims.Kind)
	require.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestVerify_ExpiredWithSimulatedClock(t *testing.T) {
	t.Parallel()

	issued := time.Now()
	current := issued
	c := newTestCodec(t, WithClock(func() time.Time { return current }))

	tok, err := c.IssueAccess("alice", 42)
	require.NoError(t, err)

	// Still valid just before expiry.
	current = issued.Add(15*time.Minute - time.Second)
	_, err = c.Verify(tok)
	require.NoError(t, err)

	// Expired once the TTL has elapsed.
	current = issued.Add(15*time.Minute + time.Second)
	_, err = c.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_TamperedAnyByte(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)

	tok, err := c.IssueAccess("alice", 42)
	require.NoError(t, err)

	// Flipping any single byte must never yield a valid token.
	for i := 0; i < len(tok); i++ {
		mutated := []byte(tok)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		_, err := c.Verify(string(mutated))
		if err == nil {
			t.Fatalf("tampered token at byte %d verified successfully", i)
		}
		if !errors.Is(err, common.ErrInvalidToken) && !errors.Is(err, common.ErrTokenExpired) {
			t.Fatalf("unexpected error for tampered token: %v", err)
		}
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)
	other, err := NewCodec([]byte("other-secret"), 15*time.Minute, time.Hour)
	require.NoError(t, err)

	tok, err := c.IssueAccess("alice", 42)
	require.NoError(t, err)

	_, err = other.Verify(tok)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)

	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		_, err := c.Verify(tok)
		require.ErrorIs(t, err, common.ErrInvalidToken)
	}
}

func TestVerifyKind_Mismatch(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)

	refresh, err := c.IssueRefresh("alice", 42)
	require.NoError(t, err)
	access, err := c.IssueAccess("alice", 42)
	require.NoError(t, err)

	_, err = c.VerifyKind(refresh, KindAccess)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = c.VerifyKind(access, KindRefresh)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	claims, err := c.VerifyKind(access, KindAccess)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
}
