package config

import (
	"log/slog"

	slackSvc "github.com/secmon-lab/buddyguard/pkg/service/slack"
	"github.com/secmon-lab/buddyguard/pkg/service/metrics"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack configuration
type Slack struct {
	OAuthToken string
	ChannelID  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token used to announce new reports",
			Category:    "Slack",
			Sources:     cli.EnvVars("BUDDYGUARD_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID that receives new report announcements",
			Category:    "Slack",
			Sources:     cli.EnvVars("BUDDYGUARD_SLACK_CHANNEL"),
			Destination: &s.ChannelID,
		},
	}
}

// ConfigureOptional creates the Slack notifier if configured, returns nil if not
func (s *Slack) ConfigureOptional(logger *slog.Logger, m *metrics.Service) *slackSvc.Service {
	if !s.IsConfigured() {
		logger.Info("Slack not configured, new reports will not be announced")
		return nil
	}

	logger.Info("Configuring Slack notifier", slog.String("channel", s.ChannelID))
	return slackSvc.New(s.OAuthToken, s.ChannelID, slackSvc.WithMetrics(m))
}

// IsConfigured checks if both token and channel are set
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.ChannelID != ""
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channel", s.ChannelID),
	)
}
