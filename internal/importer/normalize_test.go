// internal/importer/normalize_test.go
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contmarket/catalog-backend/internal/models"
)

func TestNormalizeCondition(t *testing.T) {
	tests := []struct {
		raw      string
		expected models.Condition
	}{
		{"Новый", models.ConditionNew},
		{"новый контейнер", models.ConditionNew},
		{"NEW", models.ConditionNew},
		{"Б/У", models.ConditionUsed},
		{"б/у", models.ConditionUsed},
		{"used", models.ConditionUsed},
		{"", models.ConditionUsed},
		{"что угодно", models.ConditionUsed},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCondition(tt.raw))
		})
	}
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"ruble sign and spaces", "70 000.00 ₽", "70000"},
		{"comma decimal separator", "85 000,00", "85000"},
		{"html nbsp entities", "12&nbsp;500 руб.", "12500"},
		{"non-breaking spaces", "1 250 000", "1250000"},
		{"plain integer", "99000", "99000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := NormalizePrice(tt.raw)
			require.NotNil(t, price)
			assert.Equal(t, tt.expected, price.String())
		})
	}
}

func TestNormalizePriceOnRequest(t *testing.T) {
	for _, raw := range []string{"", "   ", "договорная", "по запросу"} {
		assert.Nil(t, NormalizePrice(raw), "raw=%q", raw)
	}
}

func TestSplitPhotoURLs(t *testing.T) {
	urls := SplitPhotoURLs("https://cdn.example.com/a.jpg, //cdn.example.com/b.jpg, not-a-url")
	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
	}, urls)
}

func TestSplitPhotoURLsEmpty(t *testing.T) {
	assert.Empty(t, SplitPhotoURLs(""))
}

func TestNormalizeHeaderToken(t *testing.T) {
	assert.Equal(t, "класссостояние", NormalizeHeaderToken("Класс / Состояние"))
	assert.Equal(t, "типконтейнера", NormalizeHeaderToken("Тип контейнера"))
	assert.Equal(t, "id", NormalizeHeaderToken(" ID\t"))
}
