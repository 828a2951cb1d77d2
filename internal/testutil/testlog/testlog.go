package testlog

import (
	"testing"

	"github.com/danmuck/txdecode/internal/logging"
	"github.com/rs/zerolog"
)

// Start configures test logging and returns a logger bound to t's output.
func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	cfg := logging.ConfigureTests()
	cfg.NoColor = true
	logger := logging.New(zerolog.NewTestWriter(t), "test", cfg)
	logger.Debug().Str("test", t.Name()).Msg("start")
	return logger
}
