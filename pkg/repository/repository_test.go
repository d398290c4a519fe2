package repository_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/secmon-lab/buddyguard/pkg/repository"
)

func newTestIncident(name, date string) *model.Incident {
	return &model.Incident{
		StudentName:  name,
		GradeSection: "Grade 9 - B",
		IncidentType: types.IncidentTypeVandalism,
		Description:  "Wrote on the classroom wall.",
		Date:         date,
		Status:       types.IncidentStatusNew,
		Severity:     types.SeverityMedium,
		ReportedBy:   types.RoleTeacher,
	}
}

func findIncident(list []*model.Incident, id types.IncidentID) *model.Incident {
	for _, inc := range list {
		if inc.ID == id {
			return inc
		}
	}
	return nil
}

func testRepository(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("InsertIncident", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		name := fmt.Sprintf("Student %d", time.Now().UnixNano())
		input := newTestIncident(name, "2025-03-01")

		stored, err := repo.InsertIncident(ctx, input)
		gt.NoError(t, err).Required()
		gt.NoError(t, stored.ID.Validate())
		gt.Equal(t, input.ID, types.IncidentID("")) // input is not mutated

		list, err := repo.ListIncidents(ctx)
		gt.NoError(t, err).Required()
		found := findIncident(list, stored.ID)
		gt.V(t, found).NotNil()
		gt.Equal(t, found.StudentName, name)
		gt.Equal(t, found.GradeSection, "Grade 9 - B")
		gt.Equal(t, found.IncidentType, types.IncidentTypeVandalism)
		gt.Equal(t, found.Date, "2025-03-01")
		gt.Equal(t, found.Status, types.IncidentStatusNew)
		gt.Equal(t, found.ReportedBy, types.RoleTeacher)
		gt.Equal(t, found.AdminNotes, "")
	})

	t.Run("ListIncidents ordered by date desc", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		older, err := repo.InsertIncident(ctx, newTestIncident("Older", "2001-01-01"))
		gt.NoError(t, err).Required()
		newer, err := repo.InsertIncident(ctx, newTestIncident("Newer", "2001-01-02"))
		gt.NoError(t, err).Required()

		list, err := repo.ListIncidents(ctx)
		gt.NoError(t, err).Required()

		olderIdx, newerIdx := -1, -1
		for i, inc := range list {
			switch inc.ID {
			case older.ID:
				olderIdx = i
			case newer.ID:
				newerIdx = i
			}
		}
		gt.True(t, newerIdx >= 0)
		gt.True(t, olderIdx > newerIdx)
	})

	t.Run("UpdateIncident", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		stored, err := repo.InsertIncident(ctx, newTestIncident("Patched", "2025-03-02"))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.UpdateIncident(ctx, stored.ID, model.StatusPatch(types.IncidentStatusActionTaken)))
		patch, err := model.NotePatch(types.NoteFieldTeacherRemarks, "Parents informed")
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.UpdateIncident(ctx, stored.ID, patch))

		list, err := repo.ListIncidents(ctx)
		gt.NoError(t, err).Required()
		found := findIncident(list, stored.ID)
		gt.V(t, found).NotNil()
		gt.Equal(t, found.Status, types.IncidentStatusActionTaken)
		gt.Equal(t, found.TeacherRemarks, "Parents informed")
		gt.Equal(t, found.AdminNotes, "")
		gt.Equal(t, found.GuidanceNotes, "")
	})

	t.Run("UpdateIncident_NotFound", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		err := repo.UpdateIncident(ctx, types.NewIncidentID(), model.StatusPatch(types.IncidentStatusResolved))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagNotFound))
	})

	t.Run("Profiles", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		suffix := time.Now().UnixNano()
		p1 := &model.Profile{ID: types.NewProfileID(), Name: fmt.Sprintf("B Teacher %d", suffix), Role: types.RoleTeacher, Active: true}
		p2 := &model.Profile{ID: types.NewProfileID(), Name: fmt.Sprintf("A Counselor %d", suffix), Role: types.RoleGuidance, Active: true}
		gt.NoError(t, repo.InsertProfile(ctx, p1))
		gt.NoError(t, repo.InsertProfile(ctx, p2))

		profiles, err := repo.ListProfiles(ctx)
		gt.NoError(t, err).Required()
		idx := map[types.ProfileID]int{}
		for i, p := range profiles {
			idx[p.ID] = i
		}
		gt.True(t, idx[p2.ID] < idx[p1.ID])

		gt.NoError(t, repo.SetProfileActive(ctx, p1.ID, false))
		profiles, err = repo.ListProfiles(ctx)
		gt.NoError(t, err).Required()
		for _, p := range profiles {
			if p.ID == p1.ID {
				gt.False(t, p.Active)
			}
		}

		gt.NoError(t, repo.DeleteProfile(ctx, p1.ID))
		profiles, err = repo.ListProfiles(ctx)
		gt.NoError(t, err).Required()
		for _, p := range profiles {
			gt.NotEqual(t, p.ID, p1.ID)
		}

		err = repo.DeleteProfile(ctx, p1.ID)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagNotFound))
	})

	t.Run("Ping", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()
		gt.NoError(t, repo.Ping(context.Background()))
	})
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		return repository.NewMemory()
	})
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	stored, err := repo.InsertIncident(ctx, newTestIncident("Copy", "2025-01-01"))
	gt.NoError(t, err).Required()
	stored.Status = types.IncidentStatusResolved

	list, err := repo.ListIncidents(ctx)
	gt.NoError(t, err).Required()
	gt.Equal(t, list[0].Status, types.IncidentStatusNew)
	gt.True(t, errors.Is(repo.UpdateIncident(ctx, "missing", model.IncidentPatch{}), model.ErrIncidentNotFound))
}

func TestFirestoreRepository(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE")

	if projectID == "" || databaseID == "" {
		t.Skip("Skipping Firestore test: TEST_FIRESTORE_PROJECT and TEST_FIRESTORE_DATABASE must be set")
	}

	testRepository(t, func(t *testing.T) interfaces.Repository {
		ctx := context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		ctx = ctxlog.With(ctx, logger)

		repo, err := repository.NewFirestore(ctx, projectID, databaseID)
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("Skipping Postgres test: TEST_POSTGRES_DSN must be set")
	}

	testRepository(t, func(t *testing.T) interfaces.Repository {
		repo, err := repository.NewPostgres(context.Background(), dsn)
		gt.NoError(t, err).Required()
		return repo
	})
}
