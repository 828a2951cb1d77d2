package observability

import (
	"io"
	"os"

	"github.com/danmuck/txdecode/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger builds the runtime console logger on stderr and installs it as
// the zerolog/log global.
func InitLogger(app string, cfg logging.Config) zerolog.Logger {
	return InitLoggerTo(os.Stderr, app, cfg)
}

func InitLoggerTo(w io.Writer, app string, cfg logging.Config) zerolog.Logger {
	logger := logging.New(w, app, cfg)
	log.Logger = logger
	return logger
}
