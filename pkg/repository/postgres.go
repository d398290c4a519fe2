package repository

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

//go:embed schema.sql
var postgresSchema string

const selectIncidentsQuery = `SELECT id, student_name, grade_section, incident_type, description,
       to_char(date, 'YYYY-MM-DD') AS date, status, severity, reported_by,
       admin_notes, teacher_remarks, guidance_notes
	FROM incidents ORDER BY date DESC, created_at ASC`

const insertIncidentQuery = `INSERT INTO incidents
	(id, student_name, grade_section, incident_type, description, date, status, severity, reported_by, admin_notes, teacher_remarks, guidance_notes)
	VALUES (:id, :student_name, :grade_section, :incident_type, :description, :date, :status, :severity, :reported_by, :admin_notes, :teacher_remarks, :guidance_notes)`

// Postgres implements Repository interface with PostgreSQL
type Postgres struct {
	db *sqlx.DB
}

// PostgresOption configures the connection pool
type PostgresOption func(db *sqlx.DB)

// WithMaxOpenConns limits open connections
func WithMaxOpenConns(n int) PostgresOption {
	return func(db *sqlx.DB) {
		if n > 0 {
			db.SetMaxOpenConns(n)
		}
	}
}

// NewPostgres opens a PostgreSQL connection, verifies it and ensures the schema exists
func NewPostgres(ctx context.Context, dsn string, opts ...PostgresOption) (interfaces.Repository, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open postgres connection")
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)
	for _, opt := range opts {
		opt(db)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to connect to postgres")
	}

	repo := NewPostgresWithDB(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	ctxlog.From(ctx).Info("Postgres repository initialized successfully")
	return repo, nil
}

// NewPostgresWithDB wraps an existing connection
func NewPostgresWithDB(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates tables that do not exist yet
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, postgresSchema); err != nil {
		return goerr.Wrap(err, "failed to apply postgres schema")
	}
	return nil
}

// ListIncidents lists all incidents, newest date first
func (p *Postgres) ListIncidents(ctx context.Context) ([]*model.Incident, error) {
	var records []incidentRecord
	if err := p.db.SelectContext(ctx, &records, selectIncidentsQuery); err != nil {
		return nil, goerr.Wrap(err, "failed to select incidents")
	}

	incidents := make([]*model.Incident, 0, len(records))
	for i := range records {
		incidents = append(incidents, records[i].toModel())
	}
	return incidents, nil
}

// InsertIncident stores the incident under a fresh ID and returns the stored copy
func (p *Postgres) InsertIncident(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	if incident == nil {
		return nil, goerr.New("incident is nil")
	}

	stored := incident.Clone()
	stored.ID = types.NewIncidentID()

	if _, err := p.db.NamedExecContext(ctx, insertIncidentQuery, newIncidentRecord(stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to insert incident", goerr.V("incident_id", stored.ID))
	}
	return stored, nil
}

// UpdateIncident writes only the columns present in the patch
func (p *Postgres) UpdateIncident(ctx context.Context, id types.IncidentID, patch model.IncidentPatch) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid incident ID")
	}

	fields := patchFields(patch)
	if len(fields) == 0 {
		return nil
	}

	sets := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	for _, fv := range fields {
		args = append(args, fv.value)
		sets = append(sets, fmt.Sprintf("%s = $%d", fv.name, len(args)))
	}
	args = append(args, id.String())
	query := fmt.Sprintf("UPDATE incidents SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return goerr.Wrap(err, "failed to update incident", goerr.V("incident_id", id))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return goerr.Wrap(model.ErrIncidentNotFound, "failed to update incident",
			goerr.T(model.ErrTagNotFound),
			goerr.V("incident_id", id))
	}
	return nil
}

// ListProfiles lists staff profiles ordered by name
func (p *Postgres) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	profiles := []*model.Profile{}
	if err := p.db.SelectContext(ctx, &profiles, `SELECT id, name, role, active FROM profiles ORDER BY name ASC`); err != nil {
		return nil, goerr.Wrap(err, "failed to select profiles")
	}
	return profiles, nil
}

// InsertProfile stores a profile
func (p *Postgres) InsertProfile(ctx context.Context, profile *model.Profile) error {
	if profile == nil {
		return goerr.New("profile is nil")
	}
	if err := profile.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid profile ID")
	}

	const query = `INSERT INTO profiles (id, name, role, active) VALUES (:id, :name, :role, :active)`
	if _, err := p.db.NamedExecContext(ctx, query, profile); err != nil {
		return goerr.Wrap(err, "failed to insert profile", goerr.V("profile_id", profile.ID))
	}
	return nil
}

// SetProfileActive changes the active flag of a profile
func (p *Postgres) SetProfileActive(ctx context.Context, id types.ProfileID, active bool) error {
	res, err := p.db.ExecContext(ctx, `UPDATE profiles SET active = $1 WHERE id = $2`, active, id.String())
	if err != nil {
		return goerr.Wrap(err, "failed to update profile", goerr.V("profile_id", id))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return goerr.Wrap(model.ErrProfileNotFound, "failed to update profile",
			goerr.T(model.ErrTagNotFound),
			goerr.V("profile_id", id))
	}
	return nil
}

// DeleteProfile removes a profile
func (p *Postgres) DeleteProfile(ctx context.Context, id types.ProfileID) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id.String())
	if err != nil {
		return goerr.Wrap(err, "failed to delete profile", goerr.V("profile_id", id))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return goerr.Wrap(model.ErrProfileNotFound, "failed to delete profile",
			goerr.T(model.ErrTagNotFound),
			goerr.V("profile_id", id))
	}
	return nil
}

// Ping reads at most one incident row
func (p *Postgres) Ping(ctx context.Context) error {
	var n int
	if err := p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM (SELECT 1 FROM incidents LIMIT 1) AS probe`); err != nil {
		return goerr.Wrap(err, "failed to ping postgres")
	}
	return nil
}

// Close closes the database connection
func (p *Postgres) Close() error {
	return p.db.Close()
}
