package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/policy"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/secmon-lab/buddyguard/pkg/service/metrics"
	"github.com/secmon-lab/buddyguard/pkg/utils/async"
)

// WorkflowDeps are the collaborators shared by every session's workflow
type WorkflowDeps struct {
	Repo       interfaces.Repository
	Classifier interfaces.Classifier // optional
	Notifier   interfaces.Notifier   // optional
	Metrics    *metrics.Service      // optional
	Fallback   *model.FallbackData   // defaults to model.DefaultFallbackData()
	Tracker    *async.Tracker        // background work; a private tracker is used when nil
}

// Workflow holds one session's cached view of the incidents and performs
// role-checked operations on them. The cache only changes after the store
// acknowledges a write.
type Workflow struct {
	session *model.Session
	deps    WorkflowDeps

	mu         sync.Mutex
	cache      []*model.Incident
	confirmed  bool
	advisories map[types.IncidentID]*model.Suggestion
}

// NewWorkflow creates a workflow bound to the session's role
func NewWorkflow(session *model.Session, deps WorkflowDeps) *Workflow {
	if deps.Fallback == nil {
		deps.Fallback = model.DefaultFallbackData()
	}
	if deps.Tracker == nil {
		deps.Tracker = &async.Tracker{}
	}

	return &Workflow{
		session:    session,
		deps:       deps,
		advisories: make(map[types.IncidentID]*model.Suggestion),
	}
}

// Role returns the role of the owning session
func (w *Workflow) Role() types.Role {
	return w.session.Role
}

// List refreshes the cache from the store and returns the filtered incidents,
// newest first. Read failures never surface: the confirmed cache is served if
// there is one, otherwise the fallback sample set.
func (w *Workflow) List(ctx context.Context, filter model.IncidentFilter) (*model.IncidentList, error) {
	if !policy.CanViewIncidents(w.Role()) {
		return nil, forbidden("role cannot view the safety log", w.Role())
	}

	source := types.DataSourceStore
	incidents, err := w.deps.Repo.ListIncidents(ctx)

	w.mu.Lock()
	if err == nil {
		w.cache = cloneIncidents(incidents)
		w.confirmed = true
		incidents = cloneIncidents(w.cache)
	} else if w.confirmed {
		source = types.DataSourceCache
		incidents = cloneIncidents(w.cache)
	} else {
		source = types.DataSourceFallback
		incidents = w.deps.Fallback.CloneIncidents()
	}
	w.mu.Unlock()

	if err != nil {
		ctxlog.From(ctx).Warn("Failed to read incidents from store, serving local data",
			"error", err,
			"source", source,
			"role", w.Role(),
		)
		w.deps.Metrics.RecordFallbackRead("incidents", string(source))
	}

	result := make([]*model.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if filter.Matches(inc) {
			result = append(result, inc)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})

	return &model.IncidentList{Incidents: result, Source: source}, nil
}

// Create validates and persists a new report filed by the session's role
func (w *Workflow) Create(ctx context.Context, draft *model.Draft) (*model.Incident, error) {
	incident, err := model.NewIncident(draft, w.Role())
	if err != nil {
		return nil, err
	}

	stored, err := w.deps.Repo.InsertIncident(ctx, incident)
	w.deps.Metrics.RecordStoreWrite("insert_incident", err)
	if err != nil {
		return nil, storeError(err, "failed to save incident", goerr.V("role", w.Role()))
	}

	w.mu.Lock()
	w.cache = append(w.cache, stored.Clone())
	w.mu.Unlock()

	ctxlog.From(ctx).Info("Incident submitted",
		"incident_id", stored.ID,
		"incident_type", stored.IncidentType,
		"severity", stored.Severity,
		"reported_by", stored.ReportedBy,
	)

	if draft.Accepted == nil && model.IsAnalyzable(stored.Description) && w.deps.Classifier != nil {
		id, description := stored.ID, stored.Description
		w.deps.Tracker.Go(ctx, func(ctx context.Context) error {
			if s := w.deps.Classifier.Classify(ctx, description); s != nil {
				w.mu.Lock()
				w.advisories[id] = s
				w.mu.Unlock()
			}
			return nil
		})
	}

	if w.deps.Notifier != nil {
		announced := stored.Clone()
		w.deps.Tracker.Go(ctx, func(ctx context.Context) error {
			return w.deps.Notifier.NotifyIncident(ctx, announced)
		})
	}

	return stored.Clone(), nil
}

// Transition moves an incident to a new status if the role permits it
func (w *Workflow) Transition(ctx context.Context, id types.IncidentID, status types.IncidentStatus) error {
	if !status.IsValid() {
		return goerr.New("unknown status", goerr.T(model.ErrTagValidation), goerr.V("status", status))
	}

	var from types.IncidentStatus
	w.mu.Lock()
	if inc := w.find(id); inc != nil {
		from = inc.Status
	}
	w.mu.Unlock()

	if !policy.CanTransition(w.Role(), from, status) {
		return goerr.New("role cannot set this status",
			goerr.T(model.ErrTagForbidden),
			goerr.V("role", w.Role()),
			goerr.V("status", status))
	}

	return w.update(ctx, id, model.StatusPatch(status), "update_status")
}

// SaveNote writes the note field owned by the session's role
func (w *Workflow) SaveNote(ctx context.Context, id types.IncidentID, text string) error {
	patch, err := model.NotePatch(policy.NoteFieldFor(w.Role()), text)
	if err != nil {
		return goerr.Wrap(err, "role owns no note field",
			goerr.T(model.ErrTagNoWritableField),
			goerr.V("role", w.Role()))
	}

	return w.update(ctx, id, patch, "save_note")
}

// Advisory returns the background suggestion for an incident created in this session
func (w *Workflow) Advisory(id types.IncidentID) (*model.Suggestion, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.advisories[id]
	return s, ok
}

// Cached returns a copy of the cached incident, if any
func (w *Workflow) Cached(id types.IncidentID) *model.Incident {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.find(id).Clone()
}

func (w *Workflow) update(ctx context.Context, id types.IncidentID, patch model.IncidentPatch, op string) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid incident ID", goerr.T(model.ErrTagValidation))
	}

	err := w.deps.Repo.UpdateIncident(ctx, id, patch)
	w.deps.Metrics.RecordStoreWrite(op, err)
	if err != nil {
		return storeError(err, "failed to update incident",
			goerr.V("incident_id", id),
			goerr.V("role", w.Role()))
	}

	w.mu.Lock()
	if inc := w.find(id); inc != nil {
		patch.ApplyTo(inc)
	}
	w.mu.Unlock()

	return nil
}

// find must be called with mu held
func (w *Workflow) find(id types.IncidentID) *model.Incident {
	for _, inc := range w.cache {
		if inc.ID == id {
			return inc
		}
	}
	return nil
}

func cloneIncidents(src []*model.Incident) []*model.Incident {
	dst := make([]*model.Incident, 0, len(src))
	for _, inc := range src {
		dst = append(dst, inc.Clone())
	}
	return dst
}
