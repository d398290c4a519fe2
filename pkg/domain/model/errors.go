package model

import "github.com/m-mizutani/goerr/v2"

// Error tags used to classify failures across layers
var (
	ErrTagValidation      = goerr.NewTag("validation")
	ErrTagForbidden       = goerr.NewTag("forbidden")
	ErrTagNoWritableField = goerr.NewTag("no_writable_field")
	ErrTagTransientStore  = goerr.NewTag("transient_store")
	ErrTagNotFound        = goerr.NewTag("not_found")
)

// Sentinel errors for domain operations
var (
	ErrIncidentNotFound = goerr.New("incident not found", goerr.T(ErrTagNotFound))
	ErrProfileNotFound  = goerr.New("profile not found", goerr.T(ErrTagNotFound))
	ErrSessionNotFound  = goerr.New("session not found", goerr.T(ErrTagNotFound))
)
