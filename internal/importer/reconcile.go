// internal/importer/reconcile.go
package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/contmarket/catalog-backend/internal/models"
)

// Store is the slice of catalog persistence the reconciler needs.
type Store interface {
	ContainerByExternalID(externalID string) (*models.Container, error) // nil, nil when absent
	CreateContainer(container *models.Container) error
	UpdateContainer(id uuid.UUID, updates map[string]interface{}) error
	PhotosForContainer(containerID uuid.UUID) ([]models.ContainerPhoto, error)
	CreatePhoto(photo *models.ContainerPhoto) error
	DeletePhoto(id uuid.UUID) error
	DeactivateContainersNotIn(externalIDs []string) (int64, error)
}

// BlobStore downloads a remote photo and returns the stored reference. The
// reference must be stable for a given source URL, otherwise the photo diff
// would re-add every photo on every run.
type BlobStore interface {
	StoreFromURL(ctx context.Context, remoteURL string) (string, error)
}

type Summary struct {
	Processed int
	Added     int
	Updated   int
	Removed   int
	// External ids of all processed candidates, in input order.
	ExternalIDs []string
}

// Reconciler applies extracted candidates to the catalog: inserts, scalar
// updates, additive photo diffs and deactivation of entries missing from the
// import. It is dialect-agnostic and side-effect-free on construction.
type Reconciler struct {
	store Store
	blobs BlobStore
	log   *logrus.Entry
}

func NewReconciler(store Store, blobs BlobStore) *Reconciler {
	return &Reconciler{
		store: store,
		blobs: blobs,
		log:   logrus.WithField("component", "importer"),
	}
}

// Run processes candidates sequentially. Each candidate's writes form a unit
// but the run as a whole is not atomic: a failure leaves earlier candidates
// committed and the caller records the run as failed.
func (r *Reconciler) Run(ctx context.Context, candidates []Candidate) (Summary, error) {
	summary := Summary{Processed: len(candidates)}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("import aborted: %w", err)
		}
		summary.ExternalIDs = append(summary.ExternalIDs, candidate.ExternalID)

		existing, err := r.store.ContainerByExternalID(candidate.ExternalID)
		if err != nil {
			return summary, fmt.Errorf("lookup %s: %w", candidate.ExternalID, err)
		}

		if existing == nil {
			if err := r.createContainer(ctx, candidate); err != nil {
				return summary, err
			}
			summary.Added++
		} else {
			if err := r.updateContainer(ctx, candidate, existing); err != nil {
				return summary, err
			}
			summary.Updated++
		}
	}

	// Everything not re-seen in this run goes invisible, never away.
	removed, err := r.store.DeactivateContainersNotIn(summary.ExternalIDs)
	if err != nil {
		return summary, fmt.Errorf("deactivate missing containers: %w", err)
	}
	summary.Removed = int(removed)

	return summary, nil
}

func (r *Reconciler) createContainer(ctx context.Context, candidate Candidate) error {
	container := &models.Container{
		ExternalID:  candidate.ExternalID,
		Name:        candidate.Name,
		Size:        candidate.Size,
		Condition:   candidate.Condition,
		Price:       candidate.Price,
		Description: candidate.Description,
		IsActive:    true,
	}
	if err := r.store.CreateContainer(container); err != nil {
		return fmt.Errorf("create %s: %w", candidate.ExternalID, err)
	}

	order := 0
	for i, remoteURL := range candidate.PhotoURLs {
		storedURL, ok := r.fetchPhoto(ctx, candidate.ExternalID, remoteURL)
		if !ok {
			continue
		}
		order++
		photo := &models.ContainerPhoto{
			ContainerID:  container.ID,
			URL:          storedURL,
			OriginalURL:  remoteURL,
			DisplayOrder: order,
			IsMain:       i == 0 && order == 1,
		}
		if err := r.store.CreatePhoto(photo); err != nil {
			return fmt.Errorf("create photo for %s: %w", candidate.ExternalID, err)
		}
	}

	r.log.WithField("external_id", candidate.ExternalID).Info("container created")
	return nil
}

func (r *Reconciler) updateContainer(ctx context.Context, candidate Candidate, existing *models.Container) error {
	// Scalar fields follow the file unconditionally; a re-seen container is
	// always reactivated.
	updates := map[string]interface{}{
		"name":        candidate.Name,
		"size":        candidate.Size,
		"condition":   candidate.Condition,
		"price":       candidate.Price,
		"description": candidate.Description,
		"is_active":   true,
	}
	if err := r.store.UpdateContainer(existing.ID, updates); err != nil {
		return fmt.Errorf("update %s: %w", candidate.ExternalID, err)
	}

	existingPhotos, err := r.store.PhotosForContainer(existing.ID)
	if err != nil {
		return fmt.Errorf("load photos for %s: %w", candidate.ExternalID, err)
	}

	// A photo is the same photo when its stored blob reference matches, or
	// when it was originally downloaded from the same source URL. The latter
	// lets an unchanged re-import keep photos without re-downloading.
	existingByURL := make(map[string]*models.ContainerPhoto, len(existingPhotos))
	existingBySource := make(map[string]*models.ContainerPhoto, len(existingPhotos))
	maxOrder := 0
	for i := range existingPhotos {
		photo := &existingPhotos[i]
		existingByURL[photo.URL] = photo
		if photo.OriginalURL != "" {
			existingBySource[photo.OriginalURL] = photo
		}
		if photo.DisplayOrder > maxOrder {
			maxOrder = photo.DisplayOrder
		}
	}

	// Additive diff: new URLs append after the current maximum order and
	// never become main; photos present in both sides stay untouched.
	keep := make(map[uuid.UUID]bool, len(existingPhotos))
	added := make(map[string]bool, len(candidate.PhotoURLs))
	nextOrder := maxOrder
	for _, remoteURL := range candidate.PhotoURLs {
		if photo, ok := existingBySource[remoteURL]; ok {
			keep[photo.ID] = true
			continue
		}
		storedURL, ok := r.fetchPhoto(ctx, candidate.ExternalID, remoteURL)
		if !ok {
			continue
		}
		if photo, ok := existingByURL[storedURL]; ok {
			keep[photo.ID] = true
			continue
		}
		if added[storedURL] {
			continue
		}
		added[storedURL] = true

		nextOrder++
		photo := &models.ContainerPhoto{
			ContainerID:  existing.ID,
			URL:          storedURL,
			OriginalURL:  remoteURL,
			DisplayOrder: nextOrder,
			IsMain:       false,
		}
		if err := r.store.CreatePhoto(photo); err != nil {
			return fmt.Errorf("create photo for %s: %w", candidate.ExternalID, err)
		}
	}

	// Stored photos absent from the import are removed.
	for _, photo := range existingPhotos {
		if !keep[photo.ID] {
			if err := r.store.DeletePhoto(photo.ID); err != nil {
				return fmt.Errorf("delete photo for %s: %w", candidate.ExternalID, err)
			}
		}
	}

	r.log.WithField("external_id", candidate.ExternalID).Info("container updated")
	return nil
}

// fetchPhoto downloads one photo. A failed download skips that URL instead of
// failing the run; the container is still processed with the photos that did
// resolve.
func (r *Reconciler) fetchPhoto(ctx context.Context, externalID, remoteURL string) (string, bool) {
	storedURL, err := r.blobs.StoreFromURL(ctx, remoteURL)
	if err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"external_id": externalID,
			"url":         remoteURL,
		}).Warn("photo download failed, skipping url")
		return "", false
	}
	return storedURL, true
}
