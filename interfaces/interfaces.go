// Package interfaces defines the core abstractions of the interactions API
// to keep the engine, storage, loading and scheduling layers independently
// testable.
package interfaces

import (
	"time"

	"github.com/medsafe/interactions-api/catalog"
	"github.com/medsafe/interactions-api/catalog/entities"
)

// DataStore is the contract for catalog snapshot storage. Implementations
// expose a read-only catalog shared across concurrent requests and replace
// it atomically on reload; readers never observe a partially-built catalog.
type DataStore interface {
	// GetCatalog returns the current catalog snapshot, or nil before the
	// first successful load.
	GetCatalog() *catalog.Catalog
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	SetServerStartTime(t time.Time)

	// UpdateCatalog swaps in a fully-built snapshot.
	UpdateCatalog(c *catalog.Catalog)
	// BeginUpdate returns false when another update is already running.
	BeginUpdate() bool
	EndUpdate()
}

// Loader is the contract for reading the raw dataset records from their
// source. Load returns everything needed to validate and build a catalog.
type Loader interface {
	Load() ([]entities.Drug, []entities.InteractionRecord, []entities.DosageBand, []entities.Contraindication, error)
}

// Scheduler manages the initial catalog load and periodic reloads.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker reports system health derived from catalog state.
type HealthChecker interface {
	// HealthCheck returns the status label, response payload and the HTTP
	// status code the /health endpoint should answer with.
	HealthCheck() (status string, data map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reload time.
	CalculateNextUpdate() time.Time
}

// DataValidator is the contract for integrity checks on a parsed dataset
// and for sanity checks on request input.
type DataValidator interface {
	// ValidateDataset performs the load-time integrity checks: duplicate
	// records, dangling identifiers, overlapping dosage bands.
	ValidateDataset(drugs []entities.Drug, records []entities.InteractionRecord, bands []entities.DosageBand, contras []entities.Contraindication) error

	// ValidateMention checks a single user-supplied drug mention.
	ValidateMention(input string) error
}
