package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, 5*time.Second, s.RefreshInterval)
	assert.Equal(t, 45*time.Second, s.CommandTimeout)
	assert.Equal(t, 3, s.EvictionMisses)
	assert.Empty(t, s.Project)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"project: acme\nregion: us-east1\nrefresh_interval: 10s\neviction_misses: 5\n",
	), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", s.Project)
	assert.Equal(t, "us-east1", s.Region)
	assert.Equal(t, 10*time.Second, s.RefreshInterval)
	assert.Equal(t, 5, s.EvictionMisses)
	// Unspecified keys keep their defaults.
	assert.Equal(t, 45*time.Second, s.CommandTimeout)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project: [oops\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestOverrides(t *testing.T) {
	s := Default().
		WithProject("acme").
		WithRegion("europe-west4").
		WithRefreshInterval(30 * time.Second)
	assert.Equal(t, "acme", s.Project)
	assert.Equal(t, "europe-west4", s.Region)
	assert.Equal(t, 30*time.Second, s.RefreshInterval)

	// Zero-valued overrides leave the settings untouched.
	s = s.WithProject("").WithRegion("").WithRefreshInterval(0)
	assert.Equal(t, "acme", s.Project)
	assert.Equal(t, "europe-west4", s.Region)
	assert.Equal(t, 30*time.Second, s.RefreshInterval)
}

func TestValidate(t *testing.T) {
	valid := Default().WithProject("acme")
	require.NoError(t, valid.Validate())

	cases := []struct {
		name  string
		apply func(Settings) Settings
	}{
		{"missing project", func(s Settings) Settings { s.Project = ""; return s }},
		{"zero refresh", func(s Settings) Settings { s.RefreshInterval = 0; return s }},
		{"zero timeout", func(s Settings) Settings { s.CommandTimeout = 0; return s }},
		{"zero evictions", func(s Settings) Settings { s.EvictionMisses = 0; return s }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.apply(valid).Validate())
		})
	}
}
