package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

// SeedResult counts the records written by Seed
type SeedResult struct {
	Incidents int
	Profiles  int
}

// Seed writes the sample set into an empty store. Incidents are only written
// when the store holds none; profiles whose ID already exists are skipped.
func Seed(ctx context.Context, repo interfaces.Repository, data *model.FallbackData) (*SeedResult, error) {
	logger := ctxlog.From(ctx)
	result := &SeedResult{}

	existing, err := repo.ListIncidents(ctx)
	if err != nil {
		return nil, storeError(err, "failed to read incidents before seeding")
	}

	if len(existing) > 0 {
		logger.Info("Store already holds incidents, skipping sample incidents", "count", len(existing))
	} else {
		for _, inc := range data.CloneIncidents() {
			stored, err := repo.InsertIncident(ctx, inc)
			if err != nil {
				return result, storeError(err, "failed to seed incident")
			}
			logger.Debug("Seeded incident", "incident_id", stored.ID, "incident_type", stored.IncidentType)
			result.Incidents++
		}
	}

	profiles, err := repo.ListProfiles(ctx)
	if err != nil {
		return result, storeError(err, "failed to read profiles before seeding")
	}
	known := make(map[types.ProfileID]bool, len(profiles))
	for _, p := range profiles {
		known[p.ID] = true
	}

	for _, p := range data.CloneProfiles() {
		if known[p.ID] {
			continue
		}
		if err := repo.InsertProfile(ctx, p); err != nil {
			return result, storeError(err, "failed to seed profile")
		}
		result.Profiles++
	}

	logger.Info("Seeding finished", "incidents", result.Incidents, "profiles", result.Profiles)
	return result, nil
}
