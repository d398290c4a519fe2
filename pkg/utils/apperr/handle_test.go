package apperr_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/utils/apperr"
)

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", goerr.New("bad", goerr.T(model.ErrTagValidation)), http.StatusBadRequest},
		{"forbidden", goerr.New("no", goerr.T(model.ErrTagForbidden)), http.StatusForbidden},
		{"no writable field", goerr.New("no", goerr.T(model.ErrTagNoWritableField)), http.StatusForbidden},
		{"not found", goerr.Wrap(model.ErrIncidentNotFound, "x", goerr.T(model.ErrTagNotFound)), http.StatusNotFound},
		{"transient", goerr.Wrap(errors.New("timeout"), "x", goerr.T(model.ErrTagTransientStore)), http.StatusServiceUnavailable},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, apperr.StatusCode(tc.err), tc.want)
		})
	}
}

func TestUserMessage(t *testing.T) {
	gt.Equal(t,
		apperr.UserMessage(goerr.New("required field is missing", goerr.T(model.ErrTagValidation))),
		"required field is missing")
	gt.S(t, apperr.UserMessage(goerr.New("x", goerr.T(model.ErrTagTransientStore)))).Contains("data store")
	gt.Equal(t, apperr.UserMessage(errors.New("secret detail")), "internal server error")
}

func TestHandle(t *testing.T) {
	apperr.Handle(context.Background(), nil)
	apperr.Handle(context.Background(), goerr.New("x", goerr.T(model.ErrTagForbidden)))
	apperr.Handle(context.Background(), errors.New("boom"))
}
