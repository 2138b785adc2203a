// internal/importer/rows.go
package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/contmarket/catalog-backend/internal/models"
)

// Candidate is one extracted catalog entry, the shared output shape of both
// input dialects. Reconciliation never sees the file format.
type Candidate struct {
	ExternalID  string
	Name        string
	Size        string
	Condition   models.Condition
	Price       *decimal.Decimal
	Description string
	PhotoURLs   []string
}

// Row-level fallbacks for files that omit optional columns.
const (
	defaultSize       = "20 фут"
	defaultNamePrefix = "Контейнер "
)

var ErrNoDataRows = errors.New("file must contain a header row and at least one data row")

// Parse extracts candidates from raw file content. Files named .xls/.xlsx
// are staff-report exports that actually hold an HTML table; anything else
// is parsed as ;-delimited text.
func Parse(fileContent, filename string) ([]Candidate, error) {
	lowered := strings.ToLower(filename)
	if strings.HasSuffix(lowered, ".xls") || strings.HasSuffix(lowered, ".xlsx") {
		return parseTable(fileContent)
	}
	return parseDelimited(fileContent)
}

// parseDelimited handles the ;-separated text dialect: optional BOM, header
// on line 0, one row per line, blank lines ignored.
func parseDelimited(fileContent string) ([]Candidate, error) {
	cleaned := strings.TrimPrefix(fileContent, "\ufeff")

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, ErrNoDataRows
	}

	header := strings.Split(lines[0], ";")
	columns, err := ResolveColumns(header)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, line := range lines[1:] {
		cells := strings.Split(line, ";")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		if candidate, ok := buildCandidate(columns, func(idx int) string {
			if idx < 0 || idx >= len(cells) {
				return ""
			}
			return cells[idx]
		}); ok {
			candidates = append(candidates, candidate)
		}
	}
	return candidates, nil
}

// parseTable handles the HTML-table dialect: first <tr> is the header,
// subsequent <tr> are data rows.
func parseTable(fileContent string) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fileContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html table: %w", err)
	}

	rows := doc.Find("table tr")
	if rows.Length() < 2 {
		return nil, ErrNoDataRows
	}

	var header []string
	rows.First().Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		header = append(header, cell.Text())
	})
	columns, err := ResolveColumns(header)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		candidate, ok := buildCandidate(columns, func(idx int) string {
			if idx < 0 || idx >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(idx).Text())
		})
		if ok {
			candidates = append(candidates, candidate)
		}
	})
	return candidates, nil
}

// buildCandidate maps resolved columns onto one row. It reports false for
// rows that are skipped: empty identifier, markup leaked into the identifier
// cell, or an inventory column present with a value other than 1.
func buildCandidate(columns ColumnMap, cell func(int) string) (Candidate, bool) {
	externalID := cell(columns.Index(FieldExternalID))
	if externalID == "" || looksLikeMarkup(externalID) {
		return Candidate{}, false
	}

	// The inventory column is optional; when absent everything is imported.
	if idx := columns.Index(FieldInventory); idx >= 0 {
		stock, err := strconv.Atoi(cell(idx))
		if err != nil || stock != 1 {
			return Candidate{}, false
		}
	}

	name := cell(columns.Index(FieldName))
	if name == "" {
		name = defaultNamePrefix + externalID
	}
	if looksLikeMarkup(name) {
		return Candidate{}, false
	}

	size := cell(columns.Index(FieldSize))
	if size == "" {
		size = defaultSize
	}

	return Candidate{
		ExternalID:  externalID,
		Name:        name,
		Size:        size,
		Condition:   NormalizeCondition(cell(columns.Index(FieldCondition))),
		Price:       NormalizePrice(cell(columns.Index(FieldPrice))),
		Description: cell(columns.Index(FieldDescription)),
		PhotoURLs:   SplitPhotoURLs(cell(columns.Index(FieldPhotos))),
	}, true
}

// looksLikeMarkup guards against malformed nested markup leaking into a data
// cell of the table dialect.
func looksLikeMarkup(s string) bool {
	lowered := strings.ToLower(s)
	if strings.HasPrefix(lowered, "<") {
		return true
	}
	for _, tag := range []string{"</", "<html", "<head", "<body", "<style"} {
		if strings.Contains(lowered, tag) {
			return true
		}
	}
	return false
}
