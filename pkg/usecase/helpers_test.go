package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/secmon-lab/buddyguard/pkg/repository"
)

var errStoreDown = errors.New("store unavailable")

// faultyRepo wraps the memory repository and can be told to fail reads or writes
type faultyRepo struct {
	interfaces.Repository

	failReads  atomic.Bool
	failWrites atomic.Bool
	updates    atomic.Int32
	pings      atomic.Int32
}

func newFaultyRepo() *faultyRepo {
	return &faultyRepo{Repository: repository.NewMemory()}
}

func (r *faultyRepo) ListIncidents(ctx context.Context) ([]*model.Incident, error) {
	if r.failReads.Load() {
		return nil, errStoreDown
	}
	return r.Repository.ListIncidents(ctx)
}

func (r *faultyRepo) InsertIncident(ctx context.Context, inc *model.Incident) (*model.Incident, error) {
	if r.failWrites.Load() {
		return nil, errStoreDown
	}
	return r.Repository.InsertIncident(ctx, inc)
}

func (r *faultyRepo) UpdateIncident(ctx context.Context, id types.IncidentID, patch model.IncidentPatch) error {
	r.updates.Add(1)
	if r.failWrites.Load() {
		return errStoreDown
	}
	return r.Repository.UpdateIncident(ctx, id, patch)
}

func (r *faultyRepo) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	if r.failReads.Load() {
		return nil, errStoreDown
	}
	return r.Repository.ListProfiles(ctx)
}

func (r *faultyRepo) InsertProfile(ctx context.Context, p *model.Profile) error {
	if r.failWrites.Load() {
		return errStoreDown
	}
	return r.Repository.InsertProfile(ctx, p)
}

func (r *faultyRepo) Ping(ctx context.Context) error {
	r.pings.Add(1)
	if r.failReads.Load() {
		return errStoreDown
	}
	return nil
}

// stubClassifier returns a fixed suggestion and counts calls
type stubClassifier struct {
	mu          sync.Mutex
	suggestion  *model.Suggestion
	invocations []string
}

func (c *stubClassifier) Classify(ctx context.Context, description string) *model.Suggestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invocations = append(c.invocations, description)
	return c.suggestion
}

func (c *stubClassifier) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.invocations)
}

// stubNotifier records announced incidents
type stubNotifier struct {
	mu        sync.Mutex
	announced []*model.Incident
}

func (n *stubNotifier) NotifyIncident(ctx context.Context, inc *model.Incident) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.announced = append(n.announced, inc)
	return nil
}

func seedIncident(t *testing.T, repo interfaces.Repository, name, date string) *model.Incident {
	t.Helper()
	inc, err := repo.InsertIncident(context.Background(), &model.Incident{
		StudentName:  name,
		GradeSection: "Grade 7 - B",
		IncidentType: types.IncidentTypeOther,
		Description:  name + " incident",
		Date:         date,
		Status:       types.IncidentStatusNew,
		Severity:     types.SeverityMedium,
		ReportedBy:   types.RoleTeacher,
	})
	gt.NoError(t, err).Required()
	return inc
}

func newSession(t *testing.T, role types.Role) *model.Session {
	t.Helper()
	s, err := model.NewSession(role)
	gt.NoError(t, err).Required()
	return s
}
