package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "coding.net", s.Host)
	assert.Equal(t, AuthTypeAnonymous, s.AuthType)
	assert.Equal(t, 5000, s.TimeoutMillis)
	assert.Equal(t, DefaultMaxAttempts, s.MaxAttempts)
	assert.True(t, s.UseProxy)
	assert.False(t, s.SavePassword)
}

func TestSettings_Timeout(t *testing.T) {
	t.Run("configured value", func(t *testing.T) {
		s := Settings{TimeoutMillis: 1500}
		assert.Equal(t, 1500*time.Millisecond, s.Timeout())
	})

	t.Run("zero falls back to default", func(t *testing.T) {
		assert.Equal(t, 5*time.Second, Settings{}.Timeout())
	})

	t.Run("negative falls back to default", func(t *testing.T) {
		assert.Equal(t, 5*time.Second, Settings{TimeoutMillis: -1}.Timeout())
	})
}

func TestSettings_HostOrDefault(t *testing.T) {
	assert.Equal(t, "coding.net", Settings{}.HostOrDefault())
	assert.Equal(t, "e.coding.net", Settings{Host: "e.coding.net"}.HostOrDefault())
}
