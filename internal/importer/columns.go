// internal/importer/columns.go
package importer

import (
	"errors"
	"strings"
)

// Field identifies a semantic column slot in an import file.
type Field string

const (
	FieldExternalID  Field = "external_id"
	FieldName        Field = "name"
	FieldPhotos      Field = "photos"
	FieldPrice       Field = "price"
	FieldSize        Field = "size"
	FieldCondition   Field = "condition"
	FieldDescription Field = "description"
	FieldInventory   Field = "inventory"
)

// ErrNoIDColumn is returned when the header row has no resolvable
// identifier column. The import fails as a whole in that case.
var ErrNoIDColumn = errors.New("identifier column not found in header row")

type fieldSpec struct {
	field  Field
	tokens []string
}

// Ordered vocabulary: first matching field wins, both across fields for one
// header cell and across cells for one field. A map would make matching
// depend on iteration order, so this stays a slice.
var fieldSpecs = []fieldSpec{
	{FieldExternalID, []string{"товар", "артикул", "id", "ид", "sku"}},
	{FieldName, []string{"название", "наименование", "имя", "name", "product", "title"}},
	{FieldPhotos, []string{"картинки", "галерея", "фото", "картинкигалереи", "photos", "gallery", "images", "photo", "image", "ссылка", "url"}},
	{FieldPrice, []string{"цена", "розничнаяцена", "стоимость", "price", "retailprice", "cost"}},
	{FieldSize, []string{"тип", "типконтейнера", "размер", "type", "containertype", "size"}},
	{FieldCondition, []string{"класс", "состояние", "качество", "класссостояние", "класскачества", "condition", "quality"}},
	{FieldDescription, []string{"описание", "детальноеописание", "description", "detaileddescription"}},
	{FieldInventory, []string{"доступныйостаток", "остаток", "наличие", "доступность", "inventory", "stock", "available"}},
}

// ColumnMap maps semantic fields to header column indices.
type ColumnMap map[Field]int

// Index returns the column index for a field, or -1 when the file has no
// such column.
func (m ColumnMap) Index(f Field) int {
	if idx, ok := m[f]; ok {
		return idx
	}
	return -1
}

// ResolveColumns matches a header row against the field vocabulary. Each
// header cell claims at most one field and each field at most one column.
// Only the identifier column is mandatory.
func ResolveColumns(header []string) (ColumnMap, error) {
	columns := make(ColumnMap)

	for idx, cell := range header {
		normalized := NormalizeHeaderToken(cell)
		if normalized == "" {
			continue
		}
		for _, spec := range fieldSpecs {
			if _, taken := columns[spec.field]; taken {
				continue
			}
			if matchesField(normalized, spec.tokens) {
				columns[spec.field] = idx
				break
			}
		}
	}

	if _, ok := columns[FieldExternalID]; !ok {
		return nil, ErrNoIDColumn
	}
	return columns, nil
}

// A header matches when it contains a vocabulary token or a token contains
// the header, so "рекомендованнаяценапродажи" still resolves to the price
// slot via "цена".
func matchesField(normalized string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(normalized, token) || strings.Contains(token, normalized) {
			return true
		}
	}
	return false
}
