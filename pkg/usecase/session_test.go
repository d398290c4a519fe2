package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/secmon-lab/buddyguard/pkg/usecase"
)

func TestSessionUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewSessionUseCase(usecase.WorkflowDeps{Repo: newFaultyRepo()})

	teacher, err := uc.Open(ctx, types.RoleTeacher)
	gt.NoError(t, err).Required()
	admin, err := uc.Open(ctx, types.RoleAdmin)
	gt.NoError(t, err).Required()
	gt.NotEqual(t, teacher.Session.ID, admin.Session.ID)
	gt.Equal(t, uc.Count(), 2)

	got, err := uc.Get(teacher.Session.ID)
	gt.NoError(t, err).Required()
	gt.Equal(t, got.Workflow.Role(), types.RoleTeacher)
	gt.True(t, got.Workflow == teacher.Workflow)

	gt.NoError(t, uc.Close(ctx, teacher.Session.ID))
	_, err = uc.Get(teacher.Session.ID)
	gt.True(t, goerr.HasTag(err, model.ErrTagNotFound))
	gt.True(t, goerr.HasTag(uc.Close(ctx, teacher.Session.ID), model.ErrTagNotFound))
	gt.Equal(t, uc.Count(), 1)

	_, err = uc.Open(ctx, "Principal")
	gt.True(t, goerr.HasTag(err, model.ErrTagValidation))
}

func TestSessionsDoNotShareCache(t *testing.T) {
	ctx := context.Background()
	repo := newFaultyRepo()
	seeded := seedIncident(t, repo, "A", "2025-03-01")
	uc := usecase.NewSessionUseCase(usecase.WorkflowDeps{Repo: repo})

	first, err := uc.Open(ctx, types.RoleAdmin)
	gt.NoError(t, err).Required()
	second, err := uc.Open(ctx, types.RoleAdmin)
	gt.NoError(t, err).Required()

	_, err = first.Workflow.List(ctx, model.IncidentFilter{})
	gt.NoError(t, err).Required()
	gt.V(t, first.Workflow.Cached(seeded.ID)).NotNil()
	gt.V(t, second.Workflow.Cached(seeded.ID)).Nil()
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSessionIdleEviction(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	uc := usecase.NewSessionUseCase(usecase.WorkflowDeps{Repo: newFaultyRepo()},
		usecase.WithIdleTimeout(10*time.Minute),
		usecase.WithClock(clock.Now),
	)

	busy, err := uc.Open(ctx, types.RoleTeacher)
	gt.NoError(t, err).Required()
	idle, err := uc.Open(ctx, types.RoleGuidance)
	gt.NoError(t, err).Required()

	clock.Advance(6 * time.Minute)
	_, err = uc.Get(busy.Session.ID)
	gt.NoError(t, err).Required()

	clock.Advance(6 * time.Minute)

	t.Run("idle session is gone", func(t *testing.T) {
		_, err := uc.Get(idle.Session.ID)
		gt.True(t, goerr.HasTag(err, model.ErrTagNotFound))
	})

	t.Run("used session survives", func(t *testing.T) {
		_, err := uc.Get(busy.Session.ID)
		gt.NoError(t, err)
	})

	t.Run("opening sweeps idle sessions", func(t *testing.T) {
		clock.Advance(11 * time.Minute)
		_, err := uc.Open(ctx, types.RoleAdmin)
		gt.NoError(t, err).Required()
		gt.Equal(t, uc.Count(), 1)
	})
}
