// Package config loads relay server configuration from environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address for the HTTP(S) server.
	Addr string
	// Debug enables verbose logging and gin debug mode.
	Debug bool
	// AllowedOrigins is the CORS allow-list.
	AllowedOrigins []string
	// SweepInterval is the cadence of the room lifecycle sweeper.
	SweepInterval time.Duration
	// RoomRetention is how long an empty room survives before the sweeper
	// reaps it.
	RoomRetention time.Duration
	// TLS holds HTTPS configuration. If nil, the server runs in plain HTTP mode.
	TLS *TLSConfig
}

// TLSConfig holds file paths for serving HTTPS directly from the server.
type TLSConfig struct {
	// CertFile is a PEM-encoded certificate chain.
	CertFile string
	// KeyFile is a PEM-encoded private key.
	KeyFile string
}

// Overrides optionally overrides values from environment variables.
//
// A nil pointer means "use the environment/default value".
type Overrides struct {
	Addr          *string
	Debug         *bool
	SweepInterval *time.Duration
	RoomRetention *time.Duration
	TLS           *TLSConfig
}

// Load loads server configuration from environment variables and applies any
// explicit overrides.
func Load(overrides Overrides) (*Config, error) {
	port := 3010
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	addr := fmt.Sprintf(":%d", port)
	if overrides.Addr != nil {
		addr = *overrides.Addr
	}

	debug := false
	if debugStr := os.Getenv("DEBUG"); debugStr == "true" || debugStr == "1" {
		debug = true
	}
	if overrides.Debug != nil {
		debug = *overrides.Debug
	}

	sweepInterval, err := durationEnv("SAFECHAT_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	if overrides.SweepInterval != nil {
		sweepInterval = *overrides.SweepInterval
	}

	roomRetention, err := durationEnv("SAFECHAT_ROOM_RETENTION", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	if overrides.RoomRetention != nil {
		roomRetention = *overrides.RoomRetention
	}

	tls := overrides.TLS
	if tls == nil {
		cert := os.Getenv("SAFECHAT_TLS_CERT")
		key := os.Getenv("SAFECHAT_TLS_KEY")
		if cert != "" && key != "" {
			tls = &TLSConfig{CertFile: cert, KeyFile: key}
		} else if cert != "" || key != "" {
			return nil, fmt.Errorf("SAFECHAT_TLS_CERT and SAFECHAT_TLS_KEY must be set together")
		}
	}

	return &Config{
		Addr:           addr,
		Debug:          debug,
		AllowedOrigins: []string{"*"}, // For self-hosted, allow all origins
		SweepInterval:  sweepInterval,
		RoomRetention:  roomRetention,
		TLS:            tls,
	}, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return d, nil
}
