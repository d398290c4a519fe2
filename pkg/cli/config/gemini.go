package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/service/classifier"
	"github.com/secmon-lab/buddyguard/pkg/service/metrics"
	"github.com/urfave/cli/v3"
)

// Gemini holds Gemini configuration
type Gemini struct {
	Project  string
	Location string
	Model    string
	Timeout  time.Duration
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "GCP project ID for Gemini",
			Category:    "Gemini",
			Sources:     cli.EnvVars("BUDDYGUARD_GEMINI_PROJECT"),
			Destination: &g.Project,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Gemini location",
			Category:    "Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("BUDDYGUARD_GEMINI_LOCATION"),
			Destination: &g.Location,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Category:    "Gemini",
			Value:       "gemini-2.5-flash",
			Sources:     cli.EnvVars("BUDDYGUARD_GEMINI_MODEL"),
			Destination: &g.Model,
		},
		&cli.DurationFlag{
			Name:        "classifier-timeout",
			Usage:       "Deadline for a single classification request",
			Category:    "Gemini",
			Value:       classifier.DefaultTimeout,
			Sources:     cli.EnvVars("BUDDYGUARD_CLASSIFIER_TIMEOUT"),
			Destination: &g.Timeout,
		},
	}
}

// Configure creates a gollem LLM client backed by Gemini
func (g *Gemini) Configure(ctx context.Context) (gollem.LLMClient, error) {
	client, err := gemini.New(ctx, g.Project, g.Location, gemini.WithModel(g.Model))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("project", g.Project),
			goerr.V("location", g.Location))
	}
	return client, nil
}

// ConfigureClassifier creates the advisory classifier if Gemini is configured.
// It returns nil when Gemini is not configured or the client cannot be created;
// the application runs without suggestions in that case.
func (g *Gemini) ConfigureClassifier(ctx context.Context, logger *slog.Logger, m *metrics.Service) *classifier.Service {
	if !g.IsConfigured() {
		logger.Info("Gemini not configured, classification suggestions are disabled")
		return nil
	}

	logger.Info("Configuring Gemini LLM",
		slog.String("projectID", g.Project),
		slog.String("location", g.Location),
		slog.String("model", g.Model),
	)

	client, err := g.Configure(ctx)
	if err != nil {
		logger.Warn("Failed to create Gemini client", slog.Any("error", err))
		return nil
	}

	return classifier.New(client,
		classifier.WithTimeout(g.Timeout),
		classifier.WithMetrics(m),
	)
}

// IsConfigured checks if Gemini is properly configured
func (g *Gemini) IsConfigured() bool {
	return g.Project != ""
}

// LogValue returns structured log value
func (g Gemini) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project", g.Project),
		slog.String("location", g.Location),
		slog.String("model", g.Model),
		slog.Duration("timeout", g.Timeout),
	)
}
