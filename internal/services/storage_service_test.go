// internal/services/storage_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhotoFilenameIsStable(t *testing.T) {
	a := photoFilename("https://cdn.example.com/photos/container.jpg")
	b := photoFilename("https://cdn.example.com/photos/container.jpg")
	assert.Equal(t, a, b)

	other := photoFilename("https://cdn.example.com/photos/other.jpg")
	assert.NotEqual(t, a, other)
}

func TestPhotoFilenameExtension(t *testing.T) {
	assert.True(t, strings.HasSuffix(photoFilename("https://x/y.png"), ".png"))
	assert.True(t, strings.HasSuffix(photoFilename("https://x/y.webp"), ".webp"))

	// No extension or a query-string monster falls back to .jpg
	assert.True(t, strings.HasSuffix(photoFilename("https://x/y"), ".jpg"))
	assert.True(t, strings.HasSuffix(photoFilename("https://x/y.somethinglong"), ".jpg"))
}
