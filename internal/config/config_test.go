package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyinglimao/zkenc/internal/config"
)

func TestLoadWritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), c)

	reloaded, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, c, reloaded)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c := &config.Config{Curve: "bls12-381", LogLevel: "debug", LogFile: "zkenc.log", MaxRetries: 4}
	require.NoError(t, config.Save(c, path))

	got, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestValidateRejectsUnknownCurve(t *testing.T) {
	c := config.Default()
	c.Curve = "secp256k1"
	require.Error(t, c.Validate())
}

func TestValidateRejectsNonPositiveMaxRetries(t *testing.T) {
	c := config.Default()
	c.MaxRetries = 0
	require.Error(t, c.Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}
