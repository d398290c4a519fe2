package apperr

import (
	"context"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
)

// StoreUnavailableMessage is shown when a write cannot reach the data store
const StoreUnavailableMessage = "The incident data store is temporarily unavailable. Please try again."

// StatusCode maps a tagged error to an HTTP status
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case goerr.HasTag(err, model.ErrTagValidation):
		return http.StatusBadRequest
	case goerr.HasTag(err, model.ErrTagForbidden), goerr.HasTag(err, model.ErrTagNoWritableField):
		return http.StatusForbidden
	case goerr.HasTag(err, model.ErrTagNotFound):
		return http.StatusNotFound
	case goerr.HasTag(err, model.ErrTagTransientStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the text that may be shown to the requester
func UserMessage(err error) string {
	switch StatusCode(err) {
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusForbidden:
		return "this action is not available for your role"
	case http.StatusNotFound:
		return "not found"
	case http.StatusServiceUnavailable:
		return StoreUnavailableMessage
	default:
		return "internal server error"
	}
}

// Handle logs the error. Client errors are logged at warn level.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	logger := ctxlog.From(ctx)
	if StatusCode(err) < http.StatusInternalServerError {
		logger.Warn("request rejected", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}
