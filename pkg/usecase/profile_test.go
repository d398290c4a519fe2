package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/secmon-lab/buddyguard/pkg/usecase"
)

func TestProfileUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("admin lifecycle", func(t *testing.T) {
		uc := usecase.NewProfileUseCase(newFaultyRepo(), nil, nil)

		created, err := uc.Create(ctx, types.RoleAdmin, model.ProfileDraft{Name: "Ms. Reyes", Role: types.RoleTeacher})
		gt.NoError(t, err).Required()
		gt.True(t, created.Active)

		_, err = uc.Create(ctx, types.RoleAdmin, model.ProfileDraft{Name: "Dr. Cruz", Role: types.RoleGuidance})
		gt.NoError(t, err).Required()

		list, err := uc.List(ctx, types.RoleAdmin)
		gt.NoError(t, err).Required()
		gt.Equal(t, list.Source, types.DataSourceStore)
		gt.A(t, list.Profiles).Length(2)
		gt.Equal(t, list.Profiles[0].Name, "Dr. Cruz")

		toggled, err := uc.ToggleActive(ctx, types.RoleAdmin, created.ID)
		gt.NoError(t, err).Required()
		gt.False(t, toggled.Active)

		toggled, err = uc.ToggleActive(ctx, types.RoleAdmin, created.ID)
		gt.NoError(t, err).Required()
		gt.True(t, toggled.Active)

		gt.NoError(t, uc.Delete(ctx, types.RoleAdmin, created.ID))
		list, err = uc.List(ctx, types.RoleAdmin)
		gt.NoError(t, err).Required()
		gt.A(t, list.Profiles).Length(1)

		err = uc.Delete(ctx, types.RoleAdmin, created.ID)
		gt.True(t, goerr.HasTag(err, model.ErrTagNotFound))
	})

	t.Run("other roles are rejected", func(t *testing.T) {
		uc := usecase.NewProfileUseCase(newFaultyRepo(), nil, nil)
		for _, role := range []types.Role{types.RoleTeacher, types.RoleGuidance, types.RoleAnonymous} {
			_, err := uc.List(ctx, role)
			gt.True(t, goerr.HasTag(err, model.ErrTagForbidden))
			_, err = uc.Create(ctx, role, model.ProfileDraft{Name: "X", Role: types.RoleTeacher})
			gt.True(t, goerr.HasTag(err, model.ErrTagForbidden))
			_, err = uc.ToggleActive(ctx, role, "u1")
			gt.True(t, goerr.HasTag(err, model.ErrTagForbidden))
			gt.True(t, goerr.HasTag(uc.Delete(ctx, role, "u1"), model.ErrTagForbidden))
		}
	})

	t.Run("read failure serves sample profiles", func(t *testing.T) {
		repo := newFaultyRepo()
		repo.failReads.Store(true)
		uc := usecase.NewProfileUseCase(repo, nil, nil)

		list, err := uc.List(ctx, types.RoleAdmin)
		gt.NoError(t, err).Required()
		gt.Equal(t, list.Source, types.DataSourceFallback)
		gt.A(t, list.Profiles).Length(3)
	})

	t.Run("write failure is transient", func(t *testing.T) {
		repo := newFaultyRepo()
		repo.failWrites.Store(true)
		uc := usecase.NewProfileUseCase(repo, nil, nil)

		_, err := uc.Create(ctx, types.RoleAdmin, model.ProfileDraft{Name: "X", Role: types.RoleTeacher})
		gt.True(t, goerr.HasTag(err, model.ErrTagTransientStore))
	})

	t.Run("invalid draft", func(t *testing.T) {
		uc := usecase.NewProfileUseCase(newFaultyRepo(), nil, nil)
		_, err := uc.Create(ctx, types.RoleAdmin, model.ProfileDraft{Name: "X", Role: types.RoleAnonymous})
		gt.True(t, goerr.HasTag(err, model.ErrTagValidation))
	})

	t.Run("toggle unknown profile", func(t *testing.T) {
		uc := usecase.NewProfileUseCase(newFaultyRepo(), nil, nil)
		_, err := uc.ToggleActive(ctx, types.RoleAdmin, "missing")
		gt.True(t, goerr.HasTag(err, model.ErrTagNotFound))
	})
}
