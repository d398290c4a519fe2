package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu        sync.RWMutex
	incidents []*model.Incident
	profiles  map[types.ProfileID]*model.Profile
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		profiles: make(map[types.ProfileID]*model.Profile),
	}
}

// ListIncidents returns copies of all incidents, newest date first
func (m *Memory) ListIncidents(ctx context.Context) ([]*model.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Incident, 0, len(m.incidents))
	for _, inc := range m.incidents {
		result = append(result, inc.Clone())
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})

	return result, nil
}

// InsertIncident stores a copy of the incident under a fresh ID
func (m *Memory) InsertIncident(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	if incident == nil {
		return nil, goerr.New("incident is nil")
	}

	stored := incident.Clone()
	stored.ID = types.NewIncidentID()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.incidents = append(m.incidents, stored)
	return stored.Clone(), nil
}

// UpdateIncident applies the patch to the stored incident
func (m *Memory) UpdateIncident(ctx context.Context, id types.IncidentID, patch model.IncidentPatch) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid incident ID")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, inc := range m.incidents {
		if inc.ID == id {
			patch.ApplyTo(inc)
			return nil
		}
	}

	return goerr.Wrap(model.ErrIncidentNotFound, "failed to update incident",
		goerr.T(model.ErrTagNotFound),
		goerr.V("incident_id", id))
}

// ListProfiles returns copies of all profiles ordered by name
func (m *Memory) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		pCopy := *p
		result = append(result, &pCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// InsertProfile stores a copy of the profile
func (m *Memory) InsertProfile(ctx context.Context, profile *model.Profile) error {
	if profile == nil {
		return goerr.New("profile is nil")
	}
	if err := profile.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid profile ID")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pCopy := *profile
	m.profiles[profile.ID] = &pCopy
	return nil
}

// SetProfileActive changes the active flag of a profile
func (m *Memory) SetProfileActive(ctx context.Context, id types.ProfileID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.profiles[id]
	if !exists {
		return goerr.Wrap(model.ErrProfileNotFound, "failed to update profile",
			goerr.T(model.ErrTagNotFound),
			goerr.V("profile_id", id))
	}
	p.Active = active
	return nil
}

// DeleteProfile removes a profile
func (m *Memory) DeleteProfile(ctx context.Context, id types.ProfileID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.profiles[id]; !exists {
		return goerr.Wrap(model.ErrProfileNotFound, "failed to delete profile",
			goerr.T(model.ErrTagNotFound),
			goerr.V("profile_id", id))
	}
	delete(m.profiles, id)
	return nil
}

// Ping always succeeds for the memory repository
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for memory repository
func (m *Memory) Close() error {
	return nil
}
