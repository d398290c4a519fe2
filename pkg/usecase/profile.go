package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/policy"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/secmon-lab/buddyguard/pkg/service/metrics"
)

// ProfileList is the result of a staff directory read
type ProfileList struct {
	Profiles []*model.Profile `json:"profiles"`
	Source   types.DataSource `json:"source"`
}

// ProfileUseCase manages staff profiles. Every operation is Admin-only.
type ProfileUseCase struct {
	repo     interfaces.Repository
	fallback *model.FallbackData
	metrics  *metrics.Service
}

// NewProfileUseCase creates a new ProfileUseCase instance
func NewProfileUseCase(repo interfaces.Repository, fallback *model.FallbackData, m *metrics.Service) *ProfileUseCase {
	if fallback == nil {
		fallback = model.DefaultFallbackData()
	}
	return &ProfileUseCase{
		repo:     repo,
		fallback: fallback,
		metrics:  m,
	}
}

// List returns staff profiles ordered by name, or the sample profiles if the store cannot be read
func (uc *ProfileUseCase) List(ctx context.Context, role types.Role) (*ProfileList, error) {
	if !policy.CanManageProfiles(role) {
		return nil, forbidden("role cannot manage staff profiles", role)
	}

	profiles, err := uc.repo.ListProfiles(ctx)
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to read profiles from store, serving sample profiles", "error", err)
		uc.metrics.RecordFallbackRead("profiles", string(types.DataSourceFallback))
		return &ProfileList{Profiles: uc.fallback.CloneProfiles(), Source: types.DataSourceFallback}, nil
	}

	return &ProfileList{Profiles: profiles, Source: types.DataSourceStore}, nil
}

// Create adds an active staff profile
func (uc *ProfileUseCase) Create(ctx context.Context, role types.Role, draft model.ProfileDraft) (*model.Profile, error) {
	if !policy.CanManageProfiles(role) {
		return nil, forbidden("role cannot manage staff profiles", role)
	}

	profile, err := model.NewProfile(draft)
	if err != nil {
		return nil, err
	}

	err = uc.repo.InsertProfile(ctx, profile)
	uc.metrics.RecordStoreWrite("insert_profile", err)
	if err != nil {
		return nil, storeError(err, "failed to save profile")
	}

	ctxlog.From(ctx).Info("Staff profile created", "profile_id", profile.ID, "role", profile.Role)
	return profile, nil
}

// ToggleActive flips the active flag and returns the updated profile
func (uc *ProfileUseCase) ToggleActive(ctx context.Context, role types.Role, id types.ProfileID) (*model.Profile, error) {
	if !policy.CanManageProfiles(role) {
		return nil, forbidden("role cannot manage staff profiles", role)
	}

	profiles, err := uc.repo.ListProfiles(ctx)
	if err != nil {
		return nil, storeError(err, "failed to read profiles")
	}

	var target *model.Profile
	for _, p := range profiles {
		if p.ID == id {
			target = p
			break
		}
	}
	if target == nil {
		return nil, goerr.Wrap(model.ErrProfileNotFound, "failed to toggle profile",
			goerr.T(model.ErrTagNotFound),
			goerr.V("profile_id", id))
	}

	err = uc.repo.SetProfileActive(ctx, id, !target.Active)
	uc.metrics.RecordStoreWrite("update_profile", err)
	if err != nil {
		return nil, storeError(err, "failed to update profile", goerr.V("profile_id", id))
	}

	target.Active = !target.Active
	return target, nil
}

// Delete removes a profile permanently
func (uc *ProfileUseCase) Delete(ctx context.Context, role types.Role, id types.ProfileID) error {
	if !policy.CanManageProfiles(role) {
		return forbidden("role cannot manage staff profiles", role)
	}

	err := uc.repo.DeleteProfile(ctx, id)
	uc.metrics.RecordStoreWrite("delete_profile", err)
	if err != nil {
		return storeError(err, "failed to delete profile", goerr.V("profile_id", id))
	}

	ctxlog.From(ctx).Info("Staff profile deleted", "profile_id", id)
	return nil
}
