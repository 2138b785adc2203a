// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/contmarket/catalog-backend/internal/models"
	"github.com/contmarket/catalog-backend/internal/utils"
)

var (
	ErrContainerNotFound = errors.New("container not found")
	ErrPhotoNotFound     = errors.New("photo not found")
)

type CatalogService struct {
	db      *gorm.DB
	storage *StorageService
}

type ContainerSearchParams struct {
	utils.PaginationParams
	Size      string            `json:"size,omitempty"`
	Condition *models.Condition `json:"condition,omitempty"`
	PriceFrom *decimal.Decimal  `json:"price_from,omitempty"`
	PriceTo   *decimal.Decimal  `json:"price_to,omitempty"`
}

type UpdateContainerRequest struct {
	Name        string           `json:"name,omitempty" validate:"omitempty,max=128"`
	Size        string           `json:"size,omitempty" validate:"omitempty,max=64"`
	Condition   models.Condition `json:"condition,omitempty" validate:"omitempty,oneof=new used"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description *string          `json:"description,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// ContainerListItem is a catalog card: the container plus its resolved main
// photo.
type ContainerListItem struct {
	models.Container
	MainPhoto *string `json:"main_photo"`
}

func NewCatalogService(db *gorm.DB, storage *StorageService) *CatalogService {
	return &CatalogService{
		db:      db,
		storage: storage,
	}
}

// ListActive returns active containers for the public catalog, with filters
// and the main photo resolved per container.
func (s *CatalogService) ListActive(params ContainerSearchParams) ([]ContainerListItem, int64, error) {
	query := s.db.Model(&models.Container{}).Where("is_active = ?", true)

	if params.Size != "" {
		query = query.Where("LOWER(size) LIKE ?", "%"+strings.ToLower(params.Size)+"%")
	}
	if params.Condition != nil {
		query = query.Where("condition = ?", *params.Condition)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(external_id) LIKE ?", searchTerm, searchTerm)
	}
	if params.PriceFrom != nil {
		query = query.Where("price >= ?", *params.PriceFrom)
	}
	if params.PriceTo != nil {
		query = query.Where("price <= ?", *params.PriceTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count containers: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "size"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var containers []models.Container
	if err := query.Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order")
	}).Find(&containers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch containers: %w", err)
	}

	items := make([]ContainerListItem, 0, len(containers))
	for _, container := range containers {
		item := ContainerListItem{Container: container}
		if photo := mainPhoto(container.Photos); photo != nil {
			url := photo.URL
			item.MainPhoto = &url
		}
		item.Photos = nil
		items = append(items, item)
	}
	return items, total, nil
}

// ListAll returns every container including deactivated ones, photos
// preloaded. Admin read path.
func (s *CatalogService) ListAll(params utils.PaginationParams) ([]models.Container, int64, error) {
	query := s.db.Model(&models.Container{})

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(external_id) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count containers: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "external_id"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var containers []models.Container
	if err := query.Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order")
	}).Find(&containers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch containers: %w", err)
	}
	return containers, total, nil
}

// GetContainer loads one container with ordered photos. Inactive containers
// are only visible when includeInactive is set (admin read path).
func (s *CatalogService) GetContainer(id uuid.UUID, includeInactive bool) (*models.Container, error) {
	var container models.Container
	query := s.db.Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order")
	})
	if err := query.First(&container, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContainerNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !container.IsActive && !includeInactive {
		return nil, ErrContainerNotFound
	}
	return &container, nil
}

// Sizes returns the distinct sizes of active containers, sorted.
func (s *CatalogService) Sizes() ([]string, error) {
	var sizes []string
	if err := s.db.Model(&models.Container{}).
		Where("is_active = ?", true).
		Distinct("size").Pluck("size", &sizes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sizes: %w", err)
	}
	sort.Strings(sizes)
	return sizes, nil
}

// UpdateContainer applies an admin edit of scalar fields and the active flag.
func (s *CatalogService) UpdateContainer(id uuid.UUID, req *UpdateContainerRequest) (*models.Container, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	container, err := s.GetContainer(id, true)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Size != "" {
		updates["size"] = req.Size
	}
	if req.Condition != "" {
		updates["condition"] = req.Condition
	}
	if req.Price != nil {
		updates["price"] = req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(container).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update container: %w", err)
		}
	}

	return s.GetContainer(id, true)
}

// DeleteContainer hard-deletes a container and its photos. This is the
// explicit admin capability; the importer only ever deactivates.
func (s *CatalogService) DeleteContainer(id uuid.UUID) error {
	container, err := s.GetContainer(id, true)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ContainerPhoto{}, "container_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete photos: %w", err)
		}
		if err := tx.Delete(&models.Container{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete container: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, photo := range container.Photos {
		if err := s.storage.Delete(photo.URL); err != nil {
			logrus.WithError(err).WithField("photo_id", photo.ID).Warn("failed to delete photo blob")
		}
	}
	return nil
}

// DeleteAllContainers wipes the catalog.
func (s *CatalogService) DeleteAllContainers() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ContainerPhoto{}).Error; err != nil {
			return fmt.Errorf("failed to delete photos: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.Container{}).Error; err != nil {
			return fmt.Errorf("failed to delete containers: %w", err)
		}
		return nil
	})
}

// UpdatePhotoOrder moves one photo to the given display order.
func (s *CatalogService) UpdatePhotoOrder(photoID uuid.UUID, order int) error {
	result := s.db.Model(&models.ContainerPhoto{}).
		Where("id = ?", photoID).
		Update("display_order", order)
	if result.Error != nil {
		return fmt.Errorf("failed to update photo order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPhotoNotFound
	}
	return nil
}

// SetMainPhoto flags one photo as main and unflags the container's others.
func (s *CatalogService) SetMainPhoto(containerID, photoID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var photo models.ContainerPhoto
		if err := tx.First(&photo, "id = ? AND container_id = ?", photoID, containerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPhotoNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}
		if err := tx.Model(&models.ContainerPhoto{}).
			Where("container_id = ?", containerID).
			Update("is_main", false).Error; err != nil {
			return fmt.Errorf("failed to clear main photo: %w", err)
		}
		if err := tx.Model(&models.ContainerPhoto{}).
			Where("id = ?", photoID).
			Update("is_main", true).Error; err != nil {
			return fmt.Errorf("failed to set main photo: %w", err)
		}
		return nil
	})
}

// ReorderPhotos rewrites the display order of a container's photos to match
// the given id sequence. Ids not in the sequence keep their relative order
// after the listed ones.
func (s *CatalogService) ReorderPhotos(containerID uuid.UUID, photoIDs []uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var photos []models.ContainerPhoto
		if err := tx.Where("container_id = ?", containerID).
			Order("display_order").Find(&photos).Error; err != nil {
			return fmt.Errorf("failed to load photos: %w", err)
		}

		byID := make(map[uuid.UUID]*models.ContainerPhoto, len(photos))
		for i := range photos {
			byID[photos[i].ID] = &photos[i]
		}

		order := 0
		seen := make(map[uuid.UUID]bool, len(photoIDs))
		for _, id := range photoIDs {
			photo, ok := byID[id]
			if !ok {
				return ErrPhotoNotFound
			}
			order++
			seen[id] = true
			if err := tx.Model(&models.ContainerPhoto{}).
				Where("id = ?", photo.ID).
				Update("display_order", order).Error; err != nil {
				return fmt.Errorf("failed to reorder photo: %w", err)
			}
		}
		for i := range photos {
			if seen[photos[i].ID] {
				continue
			}
			order++
			if err := tx.Model(&models.ContainerPhoto{}).
				Where("id = ?", photos[i].ID).
				Update("display_order", order).Error; err != nil {
				return fmt.Errorf("failed to reorder photo: %w", err)
			}
		}
		return nil
	})
}

// DeletePhoto removes one photo row and its stored blob.
func (s *CatalogService) DeletePhoto(photoID uuid.UUID) error {
	var photo models.ContainerPhoto
	if err := s.db.First(&photo, "id = ?", photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&models.ContainerPhoto{}, "id = ?", photoID).Error; err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if err := s.storage.Delete(photo.URL); err != nil {
		// Row is gone; an orphaned blob is tolerable.
		logrus.WithError(err).WithField("photo_id", photoID).Warn("failed to delete photo blob")
	}
	return nil
}

// mainPhoto picks the flagged main photo, falling back to the lowest display
// order.
func mainPhoto(photos []models.ContainerPhoto) *models.ContainerPhoto {
	if len(photos) == 0 {
		return nil
	}
	best := &photos[0]
	for i := range photos {
		if photos[i].IsMain {
			return &photos[i]
		}
		if photos[i].DisplayOrder < best.DisplayOrder {
			best = &photos[i]
		}
	}
	return best
}
