package classifier

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/secmon-lab/buddyguard/pkg/service/metrics"
)

// Error tags for categorization
var (
	ErrTagInvalidJSON     = goerr.NewTag("invalid_json")
	ErrTagMissingField    = goerr.NewTag("missing_field")
	ErrTagEmptyResponse   = goerr.NewTag("empty_response")
	ErrTagTemplateFailure = goerr.NewTag("template_failure")
)

// DefaultTimeout bounds a single classification request
const DefaultTimeout = 15 * time.Second

//go:embed templates/*.md
var templateFS embed.FS

var promptTemplate = template.Must(template.ParseFS(templateFS, "templates/classify.md"))

type promptData struct {
	Description string
	Categories  []types.IncidentType
}

// Service asks an LLM for an advisory category and severity
type Service struct {
	llmClient gollem.LLMClient
	metrics   *metrics.Service
	timeout   time.Duration
}

// Option configures Service
type Option func(*Service)

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMetrics records outcomes on the given metrics service
func WithMetrics(m *metrics.Service) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates a new classifier. A nil client yields a classifier that never suggests.
func New(llmClient gollem.LLMClient, opts ...Option) *Service {
	s := &Service{
		llmClient: llmClient,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classify returns a suggestion, or nil when the description is too short,
// no model is configured, or anything goes wrong.
func (s *Service) Classify(ctx context.Context, description string) *model.Suggestion {
	description = strings.TrimSpace(description)
	if s == nil || s.llmClient == nil || !model.IsAnalyzable(description) {
		s.record(metrics.OutcomeSkipped)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	suggestion, err := s.Analyze(ctx, description)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		s.record(outcome)
		ctxlog.From(ctx).Warn("Advisory classification unavailable",
			"error", err,
			"outcome", outcome,
		)
		return nil
	}

	s.record(metrics.OutcomeOK)
	return suggestion
}

// Analyze performs one LLM request and validates the response
func (s *Service) Analyze(ctx context.Context, description string) (*model.Suggestion, error) {
	prompt, err := renderPrompt(description)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render classification prompt",
			goerr.T(ErrTagTemplateFailure))
	}

	session, err := s.llmClient.NewSession(ctx, gollem.WithSessionContentType(gollem.ContentTypeJSON))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	response, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate LLM response")
	}

	if len(response.Texts) == 0 || response.Texts[0] == "" {
		return nil, goerr.New("empty response from LLM",
			goerr.T(ErrTagEmptyResponse))
	}

	var raw struct {
		SuggestedType string `json:"suggestedType"`
		Severity      string `json:"severity"`
		Reasoning     string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(response.Texts[0]), &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response as JSON",
			goerr.V("response", response.Texts[0]),
			goerr.T(ErrTagInvalidJSON))
	}

	if strings.TrimSpace(raw.SuggestedType) == "" {
		return nil, goerr.New("LLM response missing suggestedType",
			goerr.T(ErrTagMissingField),
			goerr.V("field", "suggestedType"))
	}

	return &model.Suggestion{
		SuggestedType: strings.TrimSpace(raw.SuggestedType),
		Severity:      types.NormalizeSeverity(raw.Severity),
		Reasoning:     strings.TrimSpace(raw.Reasoning),
	}, nil
}

func (s *Service) record(outcome string) {
	if s == nil {
		return
	}
	s.metrics.RecordClassifier(outcome)
}

func renderPrompt(description string) (string, error) {
	var buf bytes.Buffer
	data := promptData{
		Description: description,
		Categories:  types.AllIncidentTypes,
	}
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute classification template")
	}
	return buf.String(), nil
}
