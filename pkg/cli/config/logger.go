package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level  string
	Format string
	Output string
}

// Flags returns CLI flags for Logger configuration
func (l *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Category:    "Logging",
			Value:       "info",
			Sources:     cli.EnvVars("BUDDYGUARD_LOG_LEVEL"),
			Destination: &l.Level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json, auto)",
			Category:    "Logging",
			Value:       "auto",
			Sources:     cli.EnvVars("BUDDYGUARD_LOG_FORMAT"),
			Destination: &l.Format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log destination (stdout, stderr)",
			Category:    "Logging",
			Value:       "stdout",
			Sources:     cli.EnvVars("BUDDYGUARD_LOG_OUTPUT"),
			Destination: &l.Output,
		},
	}
}

// Configure builds the logger described by the flags
func (l *Logger) Configure() (*slog.Logger, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	format, err := logging.ParseFormat(l.Format)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid log format")
	}

	return logging.NewLoggerWithFormat(logging.ParseLogLevel(l.Level), l.writer(), format), nil
}

func (l *Logger) writer() io.Writer {
	if strings.EqualFold(l.Output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

// LogValue returns structured log value
func (l Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", l.Level),
		slog.String("format", l.Format),
		slog.String("output", l.Output),
	)
}

// Validate validates the logger configuration
func (l *Logger) Validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return goerr.New("invalid log level", goerr.V("level", l.Level))
	}

	switch strings.ToLower(l.Output) {
	case "stdout", "stderr", "":
	default:
		return goerr.New("invalid log output", goerr.V("output", l.Output))
	}

	return nil
}
