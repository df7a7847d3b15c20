package cli

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/storeflow/internal/config"
	"github.com/fjglira/storeflow/internal/domain"
)

// configureLogger applies the logging section. --verbose wins over the
// configured level.
func configureLogger(l *logrus.Logger, lc config.LoggingConfig, verbose bool) error {
	level := logrus.InfoLevel
	if lc.Level != "" {
		parsed, err := logrus.ParseLevel(lc.Level)
		if err != nil {
			return domain.NewError("config", "", 0, "invalid logging.level", err)
		}
		level = parsed
	}
	if verbose {
		level = logrus.DebugLevel
	}
	l.SetLevel(level)

	switch lc.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return domain.NewErrorWithSuggestion("config", lc.File, 0,
				"failed to open log file",
				"check that the directory exists or unset logging.file",
				err)
		}
		l.SetOutput(f)
	}
	return nil
}
