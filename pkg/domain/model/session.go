package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

// Session is one role selection. The role is fixed for the session's lifetime.
type Session struct {
	ID        types.SessionID `json:"id"`
	Role      types.Role      `json:"role"`
	StartedAt time.Time       `json:"startedAt"`
}

// NewSession creates a Session for the given role
func NewSession(role types.Role) (*Session, error) {
	if !role.IsValid() {
		return nil, goerr.New("invalid role", goerr.T(ErrTagValidation), goerr.V("role", role))
	}

	id, err := types.NewSessionID()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate session ID")
	}

	return &Session{
		ID:        id,
		Role:      role,
		StartedAt: time.Now(),
	}, nil
}
