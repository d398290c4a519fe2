package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/utils/apperr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apperr.Handle(r.Context(), err)
	writeMessage(w, r, apperr.StatusCode(err), apperr.UserMessage(err))
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body", goerr.T(model.ErrTagValidation))
	}
	return nil
}
