package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthType_IsValid(t *testing.T) {
	assert.True(t, AuthTypeAnonymous.IsValid())
	assert.True(t, AuthTypeBasic.IsValid())
	assert.True(t, AuthTypeToken.IsValid())
	assert.False(t, AuthType("oauth").IsValid())
	assert.False(t, AuthType("").IsValid())
}

func TestNewTokenAuth_TrimsToken(t *testing.T) {
	auth := NewTokenAuth("coding.net", "  abc123\n", false)

	tok, ok := auth.Token()
	require.True(t, ok)
	assert.Equal(t, "abc123", tok.Token)
	assert.Equal(t, AuthTypeToken, auth.Type())
	assert.False(t, auth.UseProxy())

	_, ok = auth.Basic()
	assert.False(t, ok)
}

func TestNewAnonymousAuth(t *testing.T) {
	auth := NewAnonymousAuth("coding.net")

	assert.Equal(t, AuthTypeAnonymous, auth.Type())
	assert.Equal(t, "coding.net", auth.Host())
	assert.True(t, auth.UseProxy())
	assert.Empty(t, auth.Login())
	assert.Empty(t, auth.SessionID())
}

func TestAuthData_CopyWithStepUpCode(t *testing.T) {
	t.Run("basic credentials get a new value with the code", func(t *testing.T) {
		orig := NewBasicAuth("coding.net", "u", "p", true)

		next, err := orig.CopyWithStepUpCode("123456")
		require.NoError(t, err)

		assert.NotSame(t, orig, next)
		assert.Equal(t, "123456", next.StepUpCode())
		assert.Equal(t, "u", next.Login())
		assert.Equal(t, "coding.net", next.Host())
		assert.Empty(t, orig.StepUpCode(), "original must stay untouched")
	})

	t.Run("token credentials are rejected", func(t *testing.T) {
		orig := NewTokenAuth("coding.net", "t", true)

		next, err := orig.CopyWithStepUpCode("123456")
		assert.ErrorIs(t, err, ErrStepUpUnsupported)
		assert.Nil(t, next)
	})

	t.Run("anonymous credentials are rejected", func(t *testing.T) {
		_, err := NewAnonymousAuth("coding.net").CopyWithStepUpCode("1")
		assert.ErrorIs(t, err, ErrStepUpUnsupported)
	})
}

func TestAuthData_WithSessionID(t *testing.T) {
	t.Run("basic credentials carry the session forward", func(t *testing.T) {
		orig := NewBasicAuth("coding.net", "u", "p", true)

		next := orig.WithSessionID("sid-1")
		assert.NotSame(t, orig, next)
		assert.Equal(t, "sid-1", next.SessionID())
		assert.Empty(t, orig.SessionID())

		withCode, err := next.CopyWithStepUpCode("42")
		require.NoError(t, err)
		assert.Equal(t, "sid-1", withCode.SessionID())
	})

	t.Run("same session returns the same value", func(t *testing.T) {
		orig := NewBasicAuth("coding.net", "u", "p", true).WithSessionID("sid")
		assert.Same(t, orig, orig.WithSessionID("sid"))
	})

	t.Run("token credentials are unchanged", func(t *testing.T) {
		orig := NewTokenAuth("coding.net", "t", true)
		assert.Same(t, orig, orig.WithSessionID("sid"))
	})
}

func TestAuthData_WithHost(t *testing.T) {
	orig := NewBasicAuth("coding.net", "u", "p", true)
	moved := orig.WithHost("e.coding.net")

	assert.Equal(t, "e.coding.net", moved.Host())
	assert.Equal(t, "coding.net", orig.Host())
	assert.Equal(t, "u", moved.Login())
}

func TestAuthData_Masked(t *testing.T) {
	basic := NewBasicAuth("coding.net", "alice", "supersecretpassword", true)
	assert.NotContains(t, basic.Masked(), "supersecretpassword")
	assert.Contains(t, basic.Masked(), "alice")

	token := NewTokenAuth("coding.net", "0123456789abcdef", true)
	assert.NotContains(t, token.Masked(), "0123456789abcdef")
	assert.Contains(t, token.Masked(), "cdef")

	assert.Contains(t, NewAnonymousAuth("coding.net").Masked(), "anonymous")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "(empty)", MaskSecret(""))
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "****6789", MaskSecret("0123456789"))
}
