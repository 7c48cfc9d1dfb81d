// Package session keeps analyses for a limited time behind opaque handles.
// Every read slides the expiry forward; expired sessions are never returned.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/sentinel/internal/model"
)

var (
	// ErrNotFound is returned for unknown, deleted or expired handles
	ErrNotFound = errors.New("session not found")
	// ErrNoData is returned when a live session has no analysis yet
	ErrNoData = errors.New("session has no analysis")
)

const (
	DefaultTTL             = 30 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// Info describes a session without its analysis
type Info struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	HasData   bool      `json:"has_data"`
}

// Store persists analyses behind session handles
type Store interface {
	// Create opens an empty session and returns its handle
	Create() (string, error)
	// Put stores the analysis and refreshes the expiry
	Put(id string, analysis *model.DocumentAnalysis) error
	// Get returns the analysis and refreshes the expiry
	Get(id string) (*model.DocumentAnalysis, error)
	// Delete removes the session; unknown handles are not an error
	Delete(id string) error
	// Info returns session metadata without refreshing the expiry
	Info(id string) (Info, error)
	// Count returns the number of live sessions
	Count() int
	Close() error
}

// New opens the store named by cfg.Backend
func New(cfg model.SessionConfig) (Store, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryStore(ttl, interval), nil
	case "sqlite":
		s, err := NewSQLiteStore(cfg.DBPath, ttl)
		if err != nil {
			return nil, err
		}
		s.StartJanitor(interval)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session backend: %s (supported: memory, sqlite)", cfg.Backend)
	}
}
