package interfaces

import (
	"context"

	"github.com/secmon-lab/buddyguard/pkg/domain/model"
)

// Classifier suggests a category and severity for a report description.
// It returns nil when no suggestion is available; failures are never surfaced.
type Classifier interface {
	Classify(ctx context.Context, description string) *model.Suggestion
}
