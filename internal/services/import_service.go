// internal/services/import_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/contmarket/catalog-backend/internal/importer"
	"github.com/contmarket/catalog-backend/internal/models"
)

var (
	ErrImportInProgress = errors.New("another import is already in progress")
	ErrEmptyImport      = errors.New("import file contains no importable rows")
)

// ImportService runs catalog reconciliation imports: parse, reconcile,
// ledger. One run at a time; a second concurrent import fails fast instead
// of interleaving photo writes on the same containers.
type ImportService struct {
	db      *gorm.DB
	storage *StorageService
	running atomic.Bool
	log     *logrus.Entry
}

type ImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

func NewImportService(db *gorm.DB, storage *StorageService) *ImportService {
	return &ImportService{
		db:      db,
		storage: storage,
		log:     logrus.WithField("component", "import_service"),
	}
}

// Import ingests one uploaded file. Parse and validation failures abort
// before any write; failures during reconciliation finalize the ledger row
// as failed and surface only a generic error, the detail stays in the
// ledger and the log.
func (s *ImportService) Import(ctx context.Context, fileContent, filename string, adminID *uuid.UUID) (*ImportResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrImportInProgress
	}
	defer s.running.Store(false)

	candidates, err := importer.Parse(fileContent, filename)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		// A run with zero candidates would deactivate the entire catalog.
		return nil, ErrEmptyImport
	}

	record := &models.ImportRecord{
		AdminUserID: adminID,
		Filename:    filename,
		Status:      models.ImportStatusProcessing,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create import record: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"filename":   filename,
		"candidates": len(candidates),
		"import_id":  record.ID,
	}).Info("import started")

	reconciler := importer.NewReconciler(&gormStore{db: s.db}, s.storage)
	summary, runErr := reconciler.Run(ctx, candidates)
	if runErr != nil {
		s.log.WithError(runErr).WithField("import_id", record.ID).Error("import failed")
		s.finalize(record.ID, map[string]interface{}{
			"status":        models.ImportStatusFailed,
			"error_message": runErr.Error(),
		})
		return nil, errors.New("import failed")
	}

	now := time.Now()
	s.finalize(record.ID, map[string]interface{}{
		"status":               models.ImportStatusCompleted,
		"containers_processed": summary.Processed,
		"containers_added":     summary.Added,
		"containers_updated":   summary.Updated,
		"containers_removed":   summary.Removed,
		"processed_ids":        pq.StringArray(summary.ExternalIDs),
		"completed_at":         &now,
	})

	s.log.WithFields(logrus.Fields{
		"import_id": record.ID,
		"added":     summary.Added,
		"updated":   summary.Updated,
		"removed":   summary.Removed,
	}).Info("import completed")

	return &ImportResult{
		Added:   summary.Added,
		Updated: summary.Updated,
		Total:   summary.Processed,
	}, nil
}

func (s *ImportService) finalize(id uuid.UUID, updates map[string]interface{}) {
	if err := s.db.Model(&models.ImportRecord{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		s.log.WithError(err).WithField("import_id", id).Error("failed to finalize import record")
	}
}

// History returns ledger rows, most recent first.
func (s *ImportService) History(limit int) ([]models.ImportRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var records []models.ImportRecord
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch import history: %w", err)
	}
	return records, nil
}

// gormStore adapts the catalog tables to the reconciler's Store interface.
type gormStore struct {
	db *gorm.DB
}

func (g *gormStore) ContainerByExternalID(externalID string) (*models.Container, error) {
	var container models.Container
	err := g.db.Where("external_id = ?", externalID).First(&container).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &container, nil
}

func (g *gormStore) CreateContainer(container *models.Container) error {
	return g.db.Create(container).Error
}

func (g *gormStore) UpdateContainer(id uuid.UUID, updates map[string]interface{}) error {
	return g.db.Model(&models.Container{}).Where("id = ?", id).Updates(updates).Error
}

func (g *gormStore) PhotosForContainer(containerID uuid.UUID) ([]models.ContainerPhoto, error) {
	var photos []models.ContainerPhoto
	err := g.db.Where("container_id = ?", containerID).
		Order("display_order").Find(&photos).Error
	return photos, err
}

func (g *gormStore) CreatePhoto(photo *models.ContainerPhoto) error {
	return g.db.Create(photo).Error
}

func (g *gormStore) DeletePhoto(id uuid.UUID) error {
	return g.db.Delete(&models.ContainerPhoto{}, "id = ?", id).Error
}

func (g *gormStore) DeactivateContainersNotIn(externalIDs []string) (int64, error) {
	query := g.db.Model(&models.Container{}).Where("is_active = ?", true)
	if len(externalIDs) > 0 {
		query = query.Where("external_id NOT IN ?", externalIDs)
	}
	result := query.Update("is_active", false)
	return result.RowsAffected, result.Error
}
