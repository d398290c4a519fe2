package config

import (
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr             string
	LivenessInterval time.Duration
	ShutdownTimeout  time.Duration
	SessionIdle      time.Duration
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("BUDDYGUARD_ADDR"),
			Destination: &s.Addr,
		},
		&cli.DurationFlag{
			Name:        "liveness-interval",
			Usage:       "Interval between store reachability probes",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("BUDDYGUARD_LIVENESS_INTERVAL"),
			Destination: &s.LivenessInterval,
		},
		&cli.DurationFlag{
			Name:        "shutdown-timeout",
			Usage:       "Grace period for in-flight requests and background work on shutdown",
			Value:       10 * time.Second,
			Sources:     cli.EnvVars("BUDDYGUARD_SHUTDOWN_TIMEOUT"),
			Destination: &s.ShutdownTimeout,
		},
		&cli.DurationFlag{
			Name:        "session-idle-timeout",
			Usage:       "Unused sessions and their cached incidents are discarded after this period",
			Value:       30 * time.Minute,
			Sources:     cli.EnvVars("BUDDYGUARD_SESSION_IDLE_TIMEOUT"),
			Destination: &s.SessionIdle,
		},
	}
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Duration("liveness_interval", s.LivenessInterval),
		slog.Duration("shutdown_timeout", s.ShutdownTimeout),
		slog.Duration("session_idle_timeout", s.SessionIdle),
	)
}
