package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/policy"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/secmon-lab/buddyguard/pkg/usecase"
)

type handler struct {
	uc *UseCases
}

// sessionView tells the client what the session's role may see and do
type sessionView struct {
	Session     *model.Session         `json:"session"`
	Nav         []types.Destination    `json:"nav"`
	Panels      []types.Panel          `json:"panels"`
	NoteField   types.NoteField        `json:"noteField"`
	Transitions []types.IncidentStatus `json:"transitions"`
}

func newSessionView(active *usecase.ActiveSession) sessionView {
	role := active.Session.Role
	return sessionView{
		Session:     active.Session,
		Nav:         policy.VisibleNav(role),
		Panels:      policy.VisiblePanels(role),
		NoteField:   policy.NoteFieldFor(role),
		Transitions: policy.AllowedTransitions(role),
	}
}

type openSessionRequest struct {
	Role types.Role `json:"role"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

type noteRequest struct {
	Text string `json:"text"`
}

type classifyRequest struct {
	Description string `json:"description"`
}

type suggestionResponse struct {
	Suggestion *model.Suggestion `json:"suggestion"`
}

func (h *handler) getLiveness(w http.ResponseWriter, r *http.Request) {
	if h.uc.liveness == nil {
		writeJSON(w, r, http.StatusOK, usecase.LivenessStatus{})
		return
	}
	writeJSON(w, r, http.StatusOK, h.uc.liveness.Status())
}

func (h *handler) openSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	active, err := h.uc.sessions.Open(r.Context(), req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newSessionView(active))
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, newSessionView(sessionFrom(r.Context())))
}

func (h *handler) closeSession(w http.ResponseWriter, r *http.Request) {
	active := sessionFrom(r.Context())
	if err := h.uc.sessions.Close(r.Context(), active.Session.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listIncidents(w http.ResponseWriter, r *http.Request) {
	filter := model.IncidentFilter{
		Query: r.URL.Query().Get("q"),
		Type:  types.IncidentType(r.URL.Query().Get("type")),
	}

	list, err := sessionFrom(r.Context()).Workflow.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (h *handler) createIncident(w http.ResponseWriter, r *http.Request) {
	var draft model.Draft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}

	incident, err := sessionFrom(r.Context()).Workflow.Create(r.Context(), &draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, incident)
}

func (h *handler) transitionIncident(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id := types.IncidentID(chi.URLParam(r, "id"))
	workflow := sessionFrom(r.Context()).Workflow
	if err := workflow.Transition(r.Context(), id, types.IncidentStatus(req.Status)); err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, workflow, id)
}

func (h *handler) saveNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id := types.IncidentID(chi.URLParam(r, "id"))
	workflow := sessionFrom(r.Context()).Workflow
	if err := workflow.SaveNote(r.Context(), id, req.Text); err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, workflow, id)
}

// writeCached replies with the session's view of an updated incident, or 204
// when the session has not loaded that incident yet.
func writeCached(w http.ResponseWriter, r *http.Request, workflow *usecase.Workflow, id types.IncidentID) {
	incident := workflow.Cached(id)
	if incident == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, http.StatusOK, incident)
}

func (h *handler) getAdvisory(w http.ResponseWriter, r *http.Request) {
	id := types.IncidentID(chi.URLParam(r, "id"))
	s, _ := sessionFrom(r.Context()).Workflow.Advisory(id)
	writeJSON(w, r, http.StatusOK, suggestionResponse{Suggestion: s})
}

// classify is the on-demand "analyze" action of the report form. A missing
// classifier or a failed call yields a null suggestion, never an error.
func (h *handler) classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var s *model.Suggestion
	if h.uc.classifier != nil {
		s = h.uc.classifier.Classify(r.Context(), req.Description)
	}
	writeJSON(w, r, http.StatusOK, suggestionResponse{Suggestion: s})
}

func (h *handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	role := sessionFrom(r.Context()).Session.Role
	stats, err := h.uc.dashboard.Stats(r.Context(), role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (h *handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	role := sessionFrom(r.Context()).Session.Role
	list, err := h.uc.profiles.List(r.Context(), role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (h *handler) createProfile(w http.ResponseWriter, r *http.Request) {
	var draft model.ProfileDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}

	role := sessionFrom(r.Context()).Session.Role
	profile, err := h.uc.profiles.Create(r.Context(), role, draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, profile)
}

func (h *handler) toggleProfile(w http.ResponseWriter, r *http.Request) {
	role := sessionFrom(r.Context()).Session.Role
	id := types.ProfileID(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, r, goerr.New("profile ID is required", goerr.T(model.ErrTagValidation)))
		return
	}

	profile, err := h.uc.profiles.ToggleActive(r.Context(), role, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (h *handler) deleteProfile(w http.ResponseWriter, r *http.Request) {
	role := sessionFrom(r.Context()).Session.Role
	id := types.ProfileID(chi.URLParam(r, "id"))

	if err := h.uc.profiles.Delete(r.Context(), role, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
