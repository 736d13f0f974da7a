package codingnet

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", PasswordHash(""))
	assert.Equal(t, "5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8", PasswordHash("password"))
	assert.Equal(t, PasswordHash("secret"), PasswordHash("secret"))

	hex40 := regexp.MustCompile(`^[0-9a-f]{40}$`)
	for _, pw := range []string{"", "a", "pässwörd", "\x00\x01"} {
		assert.Regexp(t, hex40, PasswordHash(pw))
	}
}

func TestEncodeQuery(t *testing.T) {
	t.Run("login", func(t *testing.T) {
		q, err := EncodeQuery(loginQuery{Account: "alice", Password: "abc"})
		require.NoError(t, err)
		assert.Equal(t, "account=alice&password=abc&remember_me=false", q)
	})

	t.Run("step-up", func(t *testing.T) {
		q, err := EncodeQuery(stepUpQuery{Code: "123 456"})
		require.NoError(t, err)
		assert.Equal(t, "code=123+456", q)
	})

	t.Run("not a struct", func(t *testing.T) {
		_, err := EncodeQuery("nope")
		assert.Error(t, err)
	})
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "/user", withQuery("/user", ""))
	assert.Equal(t, "/user?a=b", withQuery("/user", "a=b"))
}
