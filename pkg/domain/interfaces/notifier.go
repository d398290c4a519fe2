package interfaces

import (
	"context"

	"github.com/secmon-lab/buddyguard/pkg/domain/model"
)

// Notifier announces newly submitted incidents to staff
type Notifier interface {
	NotifyIncident(ctx context.Context, incident *model.Incident) error
}
