/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{port: 8080, rateLimit: 5, rateBurst: 10}
	}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "tls pair", mutate: func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }},
		{name: "cert without key", mutate: func(c *Config) { c.tlsCert = "cert.pem" }, wantErr: "tls-key"},
		{name: "key without cert", mutate: func(c *Config) { c.tlsKey = "key.pem" }, wantErr: "tls-cert"},
		{name: "port zero", mutate: func(c *Config) { c.port = 0 }, wantErr: "invalid port"},
		{name: "port too high", mutate: func(c *Config) { c.port = 65536 }, wantErr: "invalid port"},
		{name: "zero rate", mutate: func(c *Config) { c.rateLimit = 0 }, wantErr: "invalid rate limit"},
		{name: "zero burst", mutate: func(c *Config) { c.rateBurst = 0 }, wantErr: "invalid rate burst"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)

			err := cfg.validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}

func TestNewCmdDefaults(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, "0.0.0.0", cfg.bind)
	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, 5.0, cfg.rateLimit)
	assert.Equal(t, 10, cfg.rateBurst)
	assert.Empty(t, cfg.words)
	assert.False(t, cfg.verbose)
}

func TestNewCmdEnvironment(t *testing.T) {
	t.Setenv("IMPOSTOR_PORT", "9090")
	t.Setenv("IMPOSTOR_RATE_BURST", "3")
	t.Setenv("IMPOSTOR_WORDS", "/tmp/words.txt")
	t.Setenv("IMPOSTOR_VERBOSE", "true")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 9090, cfg.port)
	assert.Equal(t, 3, cfg.rateBurst)
	assert.Equal(t, "/tmp/words.txt", cfg.words)
	assert.True(t, cfg.verbose)
}

func TestNewCmdFlags(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)

	require.NoError(t, cmd.ParseFlags([]string{"-p", "7000", "--rate_limit", "2.5", "--prefix", "/game"}))

	assert.Equal(t, 7000, cfg.port)
	assert.Equal(t, 2.5, cfg.rateLimit)
	assert.Equal(t, "/game", cfg.prefix)
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	cfg := &Config{}
	cfg.log = newLogger(cfg, &buf)
	logf(cfg, "START: quiet")
	assert.Empty(t, buf.String(), "info is hidden without --verbose")

	cfg.verbose = true
	cfg.log = newLogger(cfg, &buf)
	logf(cfg, "START: loud %d", 1)
	assert.Contains(t, buf.String(), "START: loud 1")
}
