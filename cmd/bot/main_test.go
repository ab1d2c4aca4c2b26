package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/villani/menubot/internal/errors"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "clean shutdown", err: nil, want: 0},
		{name: "store unreachable", err: apperrors.NewConnectionError("failed to connect", cause), want: 1},
		{name: "invalid config", err: apperrors.NewConfigError("configuration validation failed", cause), want: 1},
		{name: "session stopped", err: apperrors.NewTransportError("bot stopped", cause), want: 2},
		{name: "unclassified", err: cause, want: 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), tt.name)
	}
}

func TestRootCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()

	configFlag := cmd.Flags().Lookup("config")
	if assert.NotNil(t, configFlag) {
		assert.Equal(t, "./config.yaml", configFlag.DefValue)
		assert.Equal(t, "c", configFlag.Shorthand)
	}
	envFlag := cmd.Flags().Lookup("env-file")
	if assert.NotNil(t, envFlag) {
		assert.Equal(t, ".env", envFlag.DefValue)
	}
}
