package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

// storeError wraps a repository failure. Missing records stay NotFound; every
// other failure is treated as a transient store problem.
func storeError(err error, msg string, opts ...goerr.Option) error {
	if goerr.HasTag(err, model.ErrTagNotFound) {
		return goerr.Wrap(err, msg, append(opts, goerr.T(model.ErrTagNotFound))...)
	}
	return goerr.Wrap(err, msg, append(opts, goerr.T(model.ErrTagTransientStore))...)
}

func forbidden(msg string, role types.Role) error {
	return goerr.New(msg, goerr.T(model.ErrTagForbidden), goerr.V("role", role))
}
