// internal/importer/columns_test.go
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumnsRussianHeader(t *testing.T) {
	header := []string{
		"ID", "Название", "Фото", "Рекомендованная цена продажи",
		"Тип контейнера", "Класс качества",
	}

	columns, err := ResolveColumns(header)
	require.NoError(t, err)

	assert.Equal(t, 0, columns.Index(FieldExternalID))
	assert.Equal(t, 1, columns.Index(FieldName))
	assert.Equal(t, 2, columns.Index(FieldPhotos))
	assert.Equal(t, 3, columns.Index(FieldPrice))
	assert.Equal(t, 4, columns.Index(FieldSize))
	assert.Equal(t, 5, columns.Index(FieldCondition))
	assert.Equal(t, -1, columns.Index(FieldInventory))
}

func TestResolveColumnsEnglishHeader(t *testing.T) {
	header := []string{"SKU", "Name", "Price", "Container type", "Condition", "Images", "Stock"}

	columns, err := ResolveColumns(header)
	require.NoError(t, err)

	assert.Equal(t, 0, columns.Index(FieldExternalID))
	assert.Equal(t, 1, columns.Index(FieldName))
	assert.Equal(t, 2, columns.Index(FieldPrice))
	assert.Equal(t, 3, columns.Index(FieldSize))
	assert.Equal(t, 4, columns.Index(FieldCondition))
	assert.Equal(t, 5, columns.Index(FieldPhotos))
	assert.Equal(t, 6, columns.Index(FieldInventory))
}

func TestResolveColumnsEachFieldClaimsOneColumn(t *testing.T) {
	// Two plausible price columns: the first one wins, the second stays
	// unclaimed rather than overwriting.
	header := []string{"Артикул", "Цена", "Розничная цена"}

	columns, err := ResolveColumns(header)
	require.NoError(t, err)

	assert.Equal(t, 0, columns.Index(FieldExternalID))
	assert.Equal(t, 1, columns.Index(FieldPrice))
}

func TestResolveColumnsMissingID(t *testing.T) {
	_, err := ResolveColumns([]string{"Название", "Цена", "Фото"})
	assert.ErrorIs(t, err, ErrNoIDColumn)
}

func TestResolveColumnsSubstringBothWays(t *testing.T) {
	// "Рекомендованная цена продажи" contains the token "цена"; the short
	// header "ид" matches its token exactly.
	columns, err := ResolveColumns([]string{"ид", "Рекомендованная цена продажи"})
	require.NoError(t, err)

	assert.Equal(t, 0, columns.Index(FieldExternalID))
	assert.Equal(t, 1, columns.Index(FieldPrice))
}
