package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	require.Equal(t, ":3010", cfg.Addr)
	require.False(t, cfg.Debug)
	require.Equal(t, time.Minute, cfg.SweepInterval)
	require.Equal(t, 10*time.Minute, cfg.RoomRetention)
	require.Nil(t, cfg.TLS)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("DEBUG", "1")
	t.Setenv("SAFECHAT_SWEEP_INTERVAL", "30s")
	t.Setenv("SAFECHAT_ROOM_RETENTION", "2m")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	require.Equal(t, ":8088", cfg.Addr)
	require.True(t, cfg.Debug)
	require.Equal(t, 30*time.Second, cfg.SweepInterval)
	require.Equal(t, 2*time.Minute, cfg.RoomRetention)
}

func TestLoadOverrides(t *testing.T) {
	addr := ":9999"
	debug := true
	cfg, err := Load(Overrides{Addr: &addr, Debug: &debug})
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Addr)
	require.True(t, cfg.Debug)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("SAFECHAT_SWEEP_INTERVAL", "soon")
	_, err := Load(Overrides{})
	require.Error(t, err)
}

func TestLoadRejectsHalfTLS(t *testing.T) {
	t.Setenv("SAFECHAT_TLS_CERT", "/tmp/cert.pem")
	_, err := Load(Overrides{})
	require.Error(t, err)
}
