package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	incidentsCollection = "incidents"
	profilesCollection  = "profiles"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on invalid project or missing permissions
	_, err = client.Collection(incidentsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// ListIncidents lists all incidents, newest date first
func (f *Firestore) ListIncidents(ctx context.Context) ([]*model.Incident, error) {
	iter := f.client.Collection(incidentsCollection).
		OrderBy("date", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	incidents := []*model.Incident{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate incidents")
		}

		var rec incidentRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, goerr.Wrap(err, "failed to decode incident", goerr.V("doc_id", doc.Ref.ID))
		}
		if rec.ID == "" {
			rec.ID = doc.Ref.ID
		}
		incidents = append(incidents, rec.toModel())
	}

	return incidents, nil
}

// InsertIncident stores the incident under a fresh ID and returns the stored copy
func (f *Firestore) InsertIncident(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	if incident == nil {
		return nil, goerr.New("incident is nil")
	}

	stored := incident.Clone()
	stored.ID = types.NewIncidentID()

	_, err := f.client.Collection(incidentsCollection).Doc(stored.ID.String()).
		Create(ctx, newIncidentRecord(stored))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert incident to firestore",
			goerr.V("incident_id", stored.ID))
	}

	return stored, nil
}

// UpdateIncident writes only the fields present in the patch
func (f *Firestore) UpdateIncident(ctx context.Context, id types.IncidentID, patch model.IncidentPatch) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid incident ID")
	}

	fields := patchFields(patch)
	if len(fields) == 0 {
		return nil
	}

	updates := make([]firestore.Update, 0, len(fields))
	for _, fv := range fields {
		updates = append(updates, firestore.Update{Path: fv.name, Value: fv.value})
	}

	_, err := f.client.Collection(incidentsCollection).Doc(id.String()).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrIncidentNotFound, "failed to update incident",
				goerr.T(model.ErrTagNotFound),
				goerr.V("incident_id", id))
		}
		return goerr.Wrap(err, "failed to update incident in firestore", goerr.V("incident_id", id))
	}

	return nil
}

// ListProfiles lists staff profiles ordered by name
func (f *Firestore) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	iter := f.client.Collection(profilesCollection).
		OrderBy("name", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	profiles := []*model.Profile{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate profiles")
		}

		var profile model.Profile
		if err := doc.DataTo(&profile); err != nil {
			return nil, goerr.Wrap(err, "failed to decode profile", goerr.V("doc_id", doc.Ref.ID))
		}
		profiles = append(profiles, &profile)
	}

	return profiles, nil
}

// InsertProfile stores a profile
func (f *Firestore) InsertProfile(ctx context.Context, profile *model.Profile) error {
	if profile == nil {
		return goerr.New("profile is nil")
	}
	if err := profile.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid profile ID")
	}

	_, err := f.client.Collection(profilesCollection).Doc(profile.ID.String()).Set(ctx, profile)
	if err != nil {
		return goerr.Wrap(err, "failed to save profile to firestore", goerr.V("profile_id", profile.ID))
	}

	return nil
}

// SetProfileActive changes the active flag of a profile
func (f *Firestore) SetProfileActive(ctx context.Context, id types.ProfileID, active bool) error {
	_, err := f.client.Collection(profilesCollection).Doc(id.String()).Update(ctx, []firestore.Update{
		{Path: "active", Value: active},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrProfileNotFound, "failed to update profile",
				goerr.T(model.ErrTagNotFound),
				goerr.V("profile_id", id))
		}
		return goerr.Wrap(err, "failed to update profile in firestore", goerr.V("profile_id", id))
	}

	return nil
}

// DeleteProfile removes a profile
func (f *Firestore) DeleteProfile(ctx context.Context, id types.ProfileID) error {
	ref := f.client.Collection(profilesCollection).Doc(id.String())
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrProfileNotFound, "failed to delete profile",
				goerr.T(model.ErrTagNotFound),
				goerr.V("profile_id", id))
		}
		return goerr.Wrap(err, "failed to delete profile from firestore", goerr.V("profile_id", id))
	}

	return nil
}

// Ping reads at most one incident document
func (f *Firestore) Ping(ctx context.Context) error {
	iter := f.client.Collection(incidentsCollection).Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return goerr.Wrap(err, "failed to ping firestore")
	}
	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
