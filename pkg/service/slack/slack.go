package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/service/metrics"
	"github.com/slack-go/slack"
)

// Service posts new-incident announcements to a staff channel
type Service struct {
	client    *slack.Client
	channelID string
	apiURL    string
	metrics   *metrics.Service
	builder   *BlockBuilder
}

// Option configures Service
type Option func(*Service)

// WithAPIURL points the client at a different Slack API endpoint
func WithAPIURL(url string) Option {
	return func(s *Service) {
		s.apiURL = url
	}
}

// WithMetrics records notification results
func WithMetrics(m *metrics.Service) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates a new Slack notifier
func New(token, channelID string, opts ...Option) *Service {
	s := &Service{
		channelID: channelID,
		builder:   NewBlockBuilder(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var clientOpts []slack.Option
	if s.apiURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(s.apiURL))
	}
	s.client = slack.New(token, clientOpts...)
	return s
}

// NotifyIncident posts a summary of the incident. The student's name is never sent.
func (s *Service) NotifyIncident(ctx context.Context, incident *model.Incident) error {
	if incident == nil {
		return goerr.New("incident is nil")
	}

	blocks := s.builder.BuildIncidentBlocks(incident)
	_, _, err := s.client.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(s.builder.FallbackText(incident), false),
	)
	s.metrics.RecordNotification(err)
	if err != nil {
		return goerr.Wrap(err, "failed to post message to Slack",
			goerr.V("channel_id", s.channelID),
			goerr.V("incident_id", incident.ID))
	}

	return nil
}
