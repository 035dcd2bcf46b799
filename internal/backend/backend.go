// Package backend selects and constructs the ledger storage backend. One
// backend is chosen at startup from configuration; no code path talks to
// more than one backend within a logical operation.
package backend

import (
	"context"

	"kotsuhi/internal/ledger"
)

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result contains the backend instance and an optional cleanup function.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*Result, error)
}

// Config holds what backend construction needs.
type Config struct {
	Type Type

	// File backend
	RecordsFile string
	RateFile    string

	// SQLite backend
	SQLiteDBPath string

	// The sheets backend reads its own GOOGLE_* environment variables;
	// nothing extra is carried here.
}

// Type names a storage backend.
type Type string

const (
	FileBackend   Type = "file"
	SheetsBackend Type = "sheets"
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SheetsBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
