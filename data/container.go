// Package data provides the process-wide catalog snapshot container.
// The container holds the current immutable catalog behind an atomic
// reference so reloads swap the whole snapshot with zero downtime and
// concurrent readers need no locking.
package data

import (
	"sync/atomic"
	"time"

	"github.com/medsafe/interactions-api/catalog"
	"github.com/medsafe/interactions-api/interfaces"
)

// Compile-time check to ensure Container implements DataStore
var _ interfaces.DataStore = (*Container)(nil)

// Container holds the catalog snapshot and update bookkeeping.
type Container struct {
	catalog         atomic.Pointer[catalog.Catalog]
	lastUpdated     atomic.Value // time.Time
	serverStartTime atomic.Value // time.Time
	updating        atomic.Bool
}

// NewContainer creates an empty container. GetCatalog returns nil until
// the first UpdateCatalog, which callers treat as "not loaded yet".
func NewContainer() *Container {
	c := &Container{}
	c.lastUpdated.Store(time.Time{})
	c.serverStartTime.Store(time.Time{})
	return c
}

// GetCatalog returns the current catalog snapshot, or nil before the
// first successful load.
func (c *Container) GetCatalog() *catalog.Catalog {
	return c.catalog.Load()
}

// GetLastUpdated returns the timestamp of the last snapshot swap.
func (c *Container) GetLastUpdated() time.Time {
	if v := c.lastUpdated.Load(); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// IsUpdating reports whether a reload is currently in progress.
func (c *Container) IsUpdating() bool {
	return c.updating.Load()
}

// SetServerStartTime records process start for uptime reporting.
func (c *Container) SetServerStartTime(t time.Time) {
	c.serverStartTime.Store(t)
}

// GetServerStartTime returns the recorded process start time.
func (c *Container) GetServerStartTime() time.Time {
	if v := c.serverStartTime.Load(); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// UpdateCatalog atomically replaces the catalog snapshot.
func (c *Container) UpdateCatalog(snapshot *catalog.Catalog) {
	c.catalog.Store(snapshot)
	c.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a reload. Returns false when another
// reload is already running.
func (c *Container) BeginUpdate() bool {
	return c.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a reload.
func (c *Container) EndUpdate() {
	c.updating.Store(false)
}
