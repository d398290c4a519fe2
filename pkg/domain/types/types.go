package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// IncidentID represents an incident identifier
type IncidentID string

// String returns the string representation
func (id IncidentID) String() string {
	return string(id)
}

// Validate checks if the incident ID is valid (non-empty)
func (id IncidentID) Validate() error {
	if id == "" {
		return goerr.New("incident ID is empty")
	}
	return nil
}

// NewIncidentID creates a new IncidentID
func NewIncidentID() IncidentID {
	return IncidentID(uuid.New().String())
}

// ProfileID represents a staff profile identifier
type ProfileID string

// String returns the string representation
func (id ProfileID) String() string {
	return string(id)
}

// Validate checks if the profile ID is valid (non-empty)
func (id ProfileID) Validate() error {
	if id == "" {
		return goerr.New("profile ID is empty")
	}
	return nil
}

// NewProfileID creates a new ProfileID
func NewProfileID() ProfileID {
	return ProfileID(uuid.New().String())
}

// SessionID represents a session identifier
type SessionID string

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// NewSessionID creates a new SessionID using UUID v7
func NewSessionID() (SessionID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return SessionID(id.String()), nil
}

// DataSource tells where a read result came from
type DataSource string

const (
	DataSourceStore    DataSource = "store"
	DataSourceCache    DataSource = "cache"
	DataSourceFallback DataSource = "fallback"
)
