// Package scheduler manages the catalog lifecycle: the initial fail-fast
// load at startup and cron-based dataset reloads that build a fresh
// catalog and swap it atomically into the data container.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/medsafe/interactions-api/catalog"
	"github.com/medsafe/interactions-api/interfaces"
	"github.com/medsafe/interactions-api/logging"
	"github.com/medsafe/interactions-api/metrics"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler coordinates loader, validator and data store.
type Scheduler struct {
	dataStore interfaces.DataStore
	loader    interfaces.Loader
	validator interfaces.DataValidator
	scheduler *gocron.Scheduler
}

// NewScheduler creates a scheduler with injected dependencies.
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.Loader, validator interfaces.DataValidator) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		loader:    loader,
		validator: validator,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial catalog load and schedules daily reloads.
// A failed initial load is fatal: the service must not start without a
// valid catalog.
func (s *Scheduler) Start() error {
	if err := s.Reload(); err != nil {
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.Reload(); err != nil {
			// Reload failures never touch the current snapshot; the
			// service keeps serving the previous catalog.
			logging.Error("Catalog reload failed, keeping previous snapshot", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule catalog reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startStalenessWatchdog()

	return nil
}

// Stop stops the reload schedule.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Reload loads, validates, builds and swaps in a new catalog snapshot.
func (s *Scheduler) Reload() error {
	if !s.dataStore.BeginUpdate() {
		logging.Info("Catalog update already in progress, skipping")
		return nil
	}
	defer s.dataStore.EndUpdate()

	start := time.Now()

	drugs, records, bands, contras, err := s.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	if err := s.validator.ValidateDataset(drugs, records, bands, contras); err != nil {
		return fmt.Errorf("dataset integrity check failed: %w", err)
	}

	snapshot, err := catalog.Build(drugs, records, bands, contras)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	s.dataStore.UpdateCatalog(snapshot)
	metrics.CatalogDrugs.Set(float64(snapshot.DrugCount()))
	metrics.CatalogInteractions.Set(float64(snapshot.InteractionCount()))

	logging.Info("Catalog updated",
		"duration", time.Since(start).String(),
		"drugs", snapshot.DrugCount(),
		"interactions", snapshot.InteractionCount(),
	)

	return nil
}

// startStalenessWatchdog warns when the snapshot has not been replaced
// for more than a full reload period plus slack.
func (s *Scheduler) startStalenessWatchdog() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if time.Since(s.dataStore.GetLastUpdated()) > 25*time.Hour {
				logging.Warn("Catalog has not been updated in over 25 hours")
			}
		}
	}()
}
