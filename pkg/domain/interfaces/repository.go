package interfaces

import (
	"context"

	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	// Incident operations
	ListIncidents(ctx context.Context) ([]*model.Incident, error)
	InsertIncident(ctx context.Context, incident *model.Incident) (*model.Incident, error)
	UpdateIncident(ctx context.Context, id types.IncidentID, patch model.IncidentPatch) error

	// Profile operations
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
	InsertProfile(ctx context.Context, profile *model.Profile) error
	SetProfileActive(ctx context.Context, id types.ProfileID, active bool) error
	DeleteProfile(ctx context.Context, id types.ProfileID) error

	// Ping performs a minimal read to check that the store is reachable
	Ping(ctx context.Context) error

	// Close closes the repository connection
	Close() error
}
