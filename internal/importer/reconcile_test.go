// internal/importer/reconcile_test.go
package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contmarket/catalog-backend/internal/models"
)

// memStore is an in-memory Store for reconciliation tests.
type memStore struct {
	containers map[string]*models.Container
	photos     map[uuid.UUID]*models.ContainerPhoto
}

func newMemStore() *memStore {
	return &memStore{
		containers: make(map[string]*models.Container),
		photos:     make(map[uuid.UUID]*models.ContainerPhoto),
	}
}

func (m *memStore) ContainerByExternalID(externalID string) (*models.Container, error) {
	if container, ok := m.containers[externalID]; ok {
		return container, nil
	}
	return nil, nil
}

func (m *memStore) CreateContainer(container *models.Container) error {
	container.ID = uuid.New()
	m.containers[container.ExternalID] = container
	return nil
}

func (m *memStore) UpdateContainer(id uuid.UUID, updates map[string]interface{}) error {
	for _, container := range m.containers {
		if container.ID != id {
			continue
		}
		if name, ok := updates["name"].(string); ok {
			container.Name = name
		}
		if size, ok := updates["size"].(string); ok {
			container.Size = size
		}
		if condition, ok := updates["condition"].(models.Condition); ok {
			container.Condition = condition
		}
		if active, ok := updates["is_active"].(bool); ok {
			container.IsActive = active
		}
		return nil
	}
	return errors.New("container not found")
}

func (m *memStore) PhotosForContainer(containerID uuid.UUID) ([]models.ContainerPhoto, error) {
	var result []models.ContainerPhoto
	for _, photo := range m.photos {
		if photo.ContainerID == containerID {
			result = append(result, *photo)
		}
	}
	return result, nil
}

func (m *memStore) CreatePhoto(photo *models.ContainerPhoto) error {
	photo.ID = uuid.New()
	copied := *photo
	m.photos[photo.ID] = &copied
	return nil
}

func (m *memStore) DeletePhoto(id uuid.UUID) error {
	delete(m.photos, id)
	return nil
}

func (m *memStore) DeactivateContainersNotIn(externalIDs []string) (int64, error) {
	seen := make(map[string]bool, len(externalIDs))
	for _, id := range externalIDs {
		seen[id] = true
	}
	var removed int64
	for externalID, container := range m.containers {
		if container.IsActive && !seen[externalID] {
			container.IsActive = false
			removed++
		}
	}
	return removed, nil
}

func (m *memStore) photosOf(externalID string) []models.ContainerPhoto {
	container := m.containers[externalID]
	if container == nil {
		return nil
	}
	photos, _ := m.PhotosForContainer(container.ID)
	return photos
}

// memBlobs maps every URL to a deterministic stored reference and counts
// downloads.
type memBlobs struct {
	calls int
	fail  map[string]bool
}

func (b *memBlobs) StoreFromURL(_ context.Context, remoteURL string) (string, error) {
	b.calls++
	if b.fail[remoteURL] {
		return "", errors.New("download failed")
	}
	return "/uploads/" + remoteURL[len("https://"):], nil
}

func TestReconcilerCreatesContainers(t *testing.T) {
	store := newMemStore()
	blobs := &memBlobs{}
	r := NewReconciler(store, blobs)

	summary, err := r.Run(context.Background(), []Candidate{
		{ExternalID: "A", Name: "Первый", Size: "20 фут", Condition: models.ConditionUsed,
			PhotoURLs: []string{"https://img/a1.jpg", "https://img/a2.jpg"}},
		{ExternalID: "B", Name: "Второй", Size: "40 фут", Condition: models.ConditionNew},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.Added)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 0, summary.Removed)
	assert.Equal(t, []string{"A", "B"}, summary.ExternalIDs)

	require.True(t, store.containers["A"].IsActive)
	photos := store.photosOf("A")
	require.Len(t, photos, 2)

	var mainCount int
	for _, photo := range photos {
		if photo.IsMain {
			mainCount++
			assert.Equal(t, 1, photo.DisplayOrder)
			assert.Equal(t, "https://img/a1.jpg", photo.OriginalURL)
		}
	}
	assert.Equal(t, 1, mainCount)
}

func TestReconcilerReimportIsIdempotent(t *testing.T) {
	store := newMemStore()
	blobs := &memBlobs{}
	r := NewReconciler(store, blobs)

	candidates := []Candidate{
		{ExternalID: "A", Name: "Первый", Size: "20 фут",
			PhotoURLs: []string{"https://img/a1.jpg", "https://img/a2.jpg"}},
	}

	_, err := r.Run(context.Background(), candidates)
	require.NoError(t, err)
	firstRunCalls := blobs.calls

	summary, err := r.Run(context.Background(), candidates)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Added)
	assert.Len(t, store.photosOf("A"), 2)
	// Known source URLs are matched against stored photos, not re-downloaded.
	assert.Equal(t, firstRunCalls, blobs.calls)
}

func TestReconcilerPhotoDiff(t *testing.T) {
	store := newMemStore()
	blobs := &memBlobs{}
	r := NewReconciler(store, blobs)

	_, err := r.Run(context.Background(), []Candidate{
		{ExternalID: "A", Name: "Первый", Size: "20 фут",
			PhotoURLs: []string{"https://img/p1.jpg", "https://img/p2.jpg"}},
	})
	require.NoError(t, err)

	// p2 replaced by p3: p1 stays untouched and main, p3 appends after the
	// old maximum order, p2 is deleted.
	_, err = r.Run(context.Background(), []Candidate{
		{ExternalID: "A", Name: "Первый", Size: "20 фут",
			PhotoURLs: []string{"https://img/p1.jpg", "https://img/p3.jpg"}},
	})
	require.NoError(t, err)

	photos := store.photosOf("A")
	require.Len(t, photos, 2)

	bysource := make(map[string]models.ContainerPhoto)
	for _, photo := range photos {
		bysource[photo.OriginalURL] = photo
	}

	p1, ok := bysource["https://img/p1.jpg"]
	require.True(t, ok)
	assert.True(t, p1.IsMain)
	assert.Equal(t, 1, p1.DisplayOrder)

	p3, ok := bysource["https://img/p3.jpg"]
	require.True(t, ok)
	assert.False(t, p3.IsMain)
	assert.Equal(t, 3, p3.DisplayOrder)

	_, ok = bysource["https://img/p2.jpg"]
	assert.False(t, ok)
}

func TestReconcilerDeactivatesAndReactivates(t *testing.T) {
	store := newMemStore()
	blobs := &memBlobs{}
	r := NewReconciler(store, blobs)

	_, err := r.Run(context.Background(), []Candidate{
		{ExternalID: "A", Name: "Первый", Size: "20 фут"},
		{ExternalID: "B", Name: "Второй", Size: "40 фут"},
	})
	require.NoError(t, err)

	// B missing from the next file: deactivated, not deleted.
	summary, err := r.Run(context.Background(), []Candidate{
		{ExternalID: "A", Name: "Первый", Size: "20 фут"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Removed)
	assert.False(t, store.containers["B"].IsActive)
	assert.True(t, store.containers["A"].IsActive)

	// B reappears: the same row comes back to life.
	summary, err = r.Run(context.Background(), []Candidate{
		{ExternalID: "A", Name: "Первый", Size: "20 фут"},
		{ExternalID: "B", Name: "Второй", Size: "40 фут"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 0, summary.Added)
	assert.True(t, store.containers["B"].IsActive)
}

func TestReconcilerSkipsFailedDownloads(t *testing.T) {
	store := newMemStore()
	blobs := &memBlobs{fail: map[string]bool{"https://img/broken.jpg": true}}
	r := NewReconciler(store, blobs)

	summary, err := r.Run(context.Background(), []Candidate{
		{ExternalID: "A", Name: "Первый", Size: "20 фут",
			PhotoURLs: []string{"https://img/broken.jpg", "https://img/ok.jpg"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Added)

	photos := store.photosOf("A")
	require.Len(t, photos, 1)
	assert.Equal(t, "https://img/ok.jpg", photos[0].OriginalURL)
	// The first listed URL failed, so nothing carries the main flag and
	// consumers fall back to the lowest display order.
	assert.False(t, photos[0].IsMain)
	assert.Equal(t, 1, photos[0].DisplayOrder)
}

func TestReconcilerKeepsPhotoWhenRedownloadFails(t *testing.T) {
	store := newMemStore()
	blobs := &memBlobs{}
	r := NewReconciler(store, blobs)

	candidates := []Candidate{
		{ExternalID: "A", Name: "Первый", Size: "20 фут",
			PhotoURLs: []string{"https://img/p1.jpg"}},
	}
	_, err := r.Run(context.Background(), candidates)
	require.NoError(t, err)

	// The source goes down between runs. The stored photo is matched by its
	// source URL and survives without a download attempt.
	blobs.fail = map[string]bool{"https://img/p1.jpg": true}
	_, err = r.Run(context.Background(), candidates)
	require.NoError(t, err)

	photos := store.photosOf("A")
	require.Len(t, photos, 1)
	assert.Equal(t, "https://img/p1.jpg", photos[0].OriginalURL)
}

func TestReconcilerAbortsOnCancelledContext(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, &memBlobs{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, []Candidate{{ExternalID: "A", Name: "x", Size: "20 фут"}})
	assert.Error(t, err)
	assert.Empty(t, store.containers)
}
