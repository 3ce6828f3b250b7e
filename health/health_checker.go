// Package health derives service health from catalog state: whether a
// snapshot is loaded, how stale it is and whether a reload is running.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/medsafe/interactions-api/interfaces"
)

// Compile-time check to ensure Checker implements HealthChecker
var _ interfaces.HealthChecker = (*Checker)(nil)

// Checker implements the interfaces.HealthChecker contract.
type Checker struct {
	dataStore interfaces.DataStore
}

// NewChecker creates a health checker reading from the given store.
func NewChecker(dataStore interfaces.DataStore) *Checker {
	return &Checker{dataStore: dataStore}
}

// HealthCheck returns the health status for the /health endpoint.
// No catalog means unhealthy; a catalog older than two reload periods
// means degraded.
func (h *Checker) HealthCheck() (string, map[string]any, int) {
	cat := h.dataStore.GetCatalog()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()
	dataAge := time.Since(lastUpdate)

	var status string
	var httpStatus int
	switch {
	case cat == nil || cat.DrugCount() == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case dataAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK
	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data := map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"is_updating":    isUpdating,
		"next_update":    h.CalculateNextUpdate().Format(time.RFC3339),
	}
	if cat != nil {
		data["drugs"] = cat.DrugCount()
		data["interactions"] = cat.InteractionCount()
	} else {
		data["drugs"] = 0
		data["interactions"] = 0
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next scheduled reload time. Reloads run
// daily at 06:00 local time.
func (h *Checker) CalculateNextUpdate() time.Time {
	now := time.Now()
	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	if now.Before(sixAM) {
		return sixAM
	}
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 6, 0, 0, 0, tomorrow.Location())
}
