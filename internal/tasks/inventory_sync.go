// internal/tasks/inventory_sync.go
package tasks

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/services"
)

// InventorySyncTask refreshes the catalog from the supplier on a schedule
// so size availability tracks the supplier warehouse overnight.
type InventorySyncTask struct {
	catalogService *services.CatalogService
	schedule       string
	cron           *cron.Cron
}

func NewInventorySyncTask(catalogService *services.CatalogService, cfg *config.Config) *InventorySyncTask {
	return &InventorySyncTask{
		catalogService: catalogService,
		schedule:       cfg.Sync.Schedule,
		cron:           cron.New(cron.WithSeconds()),
	}
}

func (t *InventorySyncTask) Start() error {
	_, err := t.cron.AddFunc(t.schedule, t.runSync)
	if err != nil {
		return err
	}

	t.cron.Start()
	logrus.WithField("schedule", t.schedule).Info("Inventory sync task started")
	return nil
}

func (t *InventorySyncTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	logrus.Info("Inventory sync task stopped")
}

func (t *InventorySyncTask) runSync() {
	logrus.Info("Starting scheduled supplier inventory sync")

	summary, err := t.catalogService.SyncAllProducts()
	if err != nil {
		logrus.WithError(err).Error("Scheduled supplier sync failed")
		return
	}

	logrus.WithFields(logrus.Fields{
		"added":     summary.Added,
		"updated":   summary.Updated,
		"not_found": summary.NotFound,
		"errors":    summary.Errors,
	}).Info("Scheduled supplier sync completed")
}
