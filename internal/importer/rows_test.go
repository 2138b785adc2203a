// internal/importer/rows_test.go
package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contmarket/catalog-backend/internal/models"
)

func TestParseDelimited(t *testing.T) {
	content := "\ufeff" + strings.Join([]string{
		"ID;Название;Фото;Рекомендованная цена продажи;Тип контейнера;Класс качества",
		"FONU11320953;Контейнер 20 фут б/у;https://cdn.example.com/1.jpg, https://cdn.example.com/2.jpg;70 000.00 ₽;20 фут;Б/У",
		"",
		"TCLU7305143;;;;;",
		";без артикула;;;;",
	}, "\n")

	candidates, err := Parse(content, "report.csv")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, "FONU11320953", first.ExternalID)
	assert.Equal(t, "Контейнер 20 фут б/у", first.Name)
	assert.Equal(t, "20 фут", first.Size)
	assert.Equal(t, models.ConditionUsed, first.Condition)
	require.NotNil(t, first.Price)
	assert.Equal(t, "70000", first.Price.String())
	assert.Equal(t, []string{
		"https://cdn.example.com/1.jpg",
		"https://cdn.example.com/2.jpg",
	}, first.PhotoURLs)

	// Row with only an id falls back to the generated name and default size.
	second := candidates[1]
	assert.Equal(t, "TCLU7305143", second.ExternalID)
	assert.Equal(t, "Контейнер TCLU7305143", second.Name)
	assert.Equal(t, "20 фут", second.Size)
	assert.Nil(t, second.Price)
	assert.Empty(t, second.PhotoURLs)
}

func TestParseDelimitedInventoryFilter(t *testing.T) {
	content := strings.Join([]string{
		"ID;Название;Доступный остаток",
		"A1;Первый;1",
		"A2;Второй;0",
		"A3;Третий;много",
		"A4;Четвёртый;1",
	}, "\n")

	candidates, err := Parse(content, "stock.csv")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "A1", candidates[0].ExternalID)
	assert.Equal(t, "A4", candidates[1].ExternalID)
}

func TestParseDelimitedNoDataRows(t *testing.T) {
	_, err := Parse("ID;Название", "empty.csv")
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestParseDelimitedMissingIDColumn(t *testing.T) {
	_, err := Parse("Название;Цена\nКонтейнер;100", "noid.csv")
	assert.ErrorIs(t, err, ErrNoIDColumn)
}

func TestParseTable(t *testing.T) {
	content := `<html><body><table>
<tr><td>Товар</td><td>Название</td><td>Цена</td><td>Состояние</td></tr>
<tr><td>X1</td><td>Контейнер сорок футов</td><td>85 000,00</td><td>Новый</td></tr>
<tr><td></td><td>без артикула</td><td>1</td><td></td></tr>
</table></body></html>`

	candidates, err := Parse(content, "report.xls")
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	candidate := candidates[0]
	assert.Equal(t, "X1", candidate.ExternalID)
	assert.Equal(t, "Контейнер сорок футов", candidate.Name)
	assert.Equal(t, models.ConditionNew, candidate.Condition)
	require.NotNil(t, candidate.Price)
	assert.Equal(t, "85000", candidate.Price.String())
}

func TestParseTableSkipsMarkupCells(t *testing.T) {
	// Malformed exports sometimes leak escaped markup into cells; such rows
	// are dropped instead of producing garbage entries.
	content := `<table>
<tr><td>Товар</td><td>Название</td></tr>
<tr><td>&lt;style&gt;td {}&lt;/style&gt;</td><td>мусор</td></tr>
<tr><td>OK1</td><td>Нормальный</td></tr>
</table>`

	candidates, err := Parse(content, "report.xlsx")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "OK1", candidates[0].ExternalID)
}

func TestParseDispatchByExtension(t *testing.T) {
	// The same ;-content under a .csv name parses, under .xls it is treated
	// as an HTML table and finds no rows.
	content := "ID;Название\nZ9;Контейнер"

	candidates, err := Parse(content, "file.csv")
	require.NoError(t, err)
	assert.Len(t, candidates, 1)

	_, err = Parse(content, "file.xls")
	assert.ErrorIs(t, err, ErrNoDataRows)
}
