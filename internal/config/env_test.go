package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envSample struct {
	Name    string        `env:"SAMPLE_NAME"`
	Port    int           `env:"SAMPLE_PORT"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT"`
	Debug   bool          `env:"SAMPLE_DEBUG"`
	Origins []string      `env:"SAMPLE_ORIGINS"`
	Nested  struct {
		Ratio float64 `env:"SAMPLE_RATIO"`
	}
	Untagged string
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "joblink")
	t.Setenv("SAMPLE_PORT", "8081")
	t.Setenv("SAMPLE_TIMEOUT", "3s")
	t.Setenv("SAMPLE_DEBUG", "true")
	t.Setenv("SAMPLE_ORIGINS", "http://a, ,http://b")
	t.Setenv("SAMPLE_RATIO", "0.5")

	s := envSample{Untagged: "kept"}
	require.NoError(t, applyEnvOverrides(&s))

	assert.Equal(t, "joblink", s.Name)
	assert.Equal(t, 8081, s.Port)
	assert.Equal(t, 3*time.Second, s.Timeout)
	assert.True(t, s.Debug)
	assert.Equal(t, []string{"http://a", "http://b"}, s.Origins)
	assert.Equal(t, 0.5, s.Nested.Ratio)
	assert.Equal(t, "kept", s.Untagged)
}

func TestApplyEnvOverrides_InvalidValue(t *testing.T) {
	t.Setenv("SAMPLE_PORT", "eighty")

	var s envSample
	err := applyEnvOverrides(&s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAMPLE_PORT")
}
