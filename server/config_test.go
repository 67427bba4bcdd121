package server

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func splitHostPort(addr string) (string, int, error) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(p)
	return host, port, err
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8090, cfg.Port)
	assert.Equal(t, 150, cfg.WriteTimeout)
	assert.Equal(t, int64(25*1024*1024), cfg.MaxBodyBytes())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"port too high", Config{Port: 70000}},
		{"negative read timeout", Config{ReadTimeout: -1}},
		{"negative write timeout", Config{WriteTimeout: -1}},
		{"negative idle timeout", Config{IdleTimeout: -1}},
		{"bad body size", Config{MaxBodySize: "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 7},
		{"512", 512},
		{"2KB", 2048},
		{"10mb", 10 * 1024 * 1024},
		{" 1GB ", 1024 * 1024 * 1024},
		{"abc", 7},
		{"-5MB", 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSize(tt.in, 7), tt.in)
	}
}
