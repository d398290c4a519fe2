package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

// Profile represents a staff member. Anonymous is never a persisted role.
type Profile struct {
	ID     types.ProfileID `json:"id" yaml:"id" firestore:"id" db:"id"`
	Name   string          `json:"name" yaml:"name" firestore:"name" db:"name"`
	Role   types.Role      `json:"role" yaml:"role" firestore:"role" db:"role"`
	Active bool            `json:"active" yaml:"active" firestore:"active" db:"active"`
}

// ProfileDraft is the payload for creating a staff profile
type ProfileDraft struct {
	Name string     `json:"name" validate:"required"`
	Role types.Role `json:"role" validate:"required"`
}

// NewProfile validates the draft and builds an active profile with a fresh ID
func NewProfile(d ProfileDraft) (*Profile, error) {
	d.Name = strings.TrimSpace(d.Name)
	if err := validate.Struct(d); err != nil {
		return nil, goerr.New("required field is missing",
			goerr.T(ErrTagValidation),
			goerr.V("detail", err.Error()))
	}
	if !d.Role.IsStaff() {
		return nil, goerr.New("profile role must be a staff role",
			goerr.T(ErrTagValidation),
			goerr.V("role", d.Role))
	}

	return &Profile{
		ID:     types.NewProfileID(),
		Name:   d.Name,
		Role:   d.Role,
		Active: true,
	}, nil
}
