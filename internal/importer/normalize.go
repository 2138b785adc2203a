// internal/importer/normalize.go
package importer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/contmarket/catalog-backend/internal/models"
)

// NormalizeCondition classifies a raw condition cell. Anything that does not
// read as "new" (Russian or English) is used; there is no unknown state.
func NormalizeCondition(raw string) models.Condition {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(lowered, "нов") || strings.Contains(lowered, "new") {
		return models.ConditionNew
	}
	return models.ConditionUsed
}

var priceReplacer = strings.NewReplacer(
	"&nbsp;", "",
	" ", "",
	"\u00a0", "", // non-breaking space
	"\u202f", "", // narrow non-breaking space
	"\t", "",
	"\u20bd", "", // ruble sign
	"&#8381;", "",
	"руб.", "",
	",", ".",
)

// NormalizePrice parses a locale-formatted price cell ("70 000.00 ₽",
// "85 000,00") into a decimal. A nil result is a valid domain state meaning
// "price on request", not an error.
func NormalizePrice(raw string) *decimal.Decimal {
	cleaned := priceReplacer.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	return &price
}

// SplitPhotoURLs splits a multi-valued photo cell on ", ", keeps http and
// protocol-relative tokens, and rewrites "//host/..." to https. Order is
// preserved; it becomes the initial display order.
func SplitPhotoURLs(raw string) []string {
	var urls []string
	for _, token := range strings.Split(raw, ", ") {
		token = strings.TrimSpace(token)
		switch {
		case strings.HasPrefix(token, "http"):
			urls = append(urls, token)
		case strings.HasPrefix(token, "//"):
			urls = append(urls, "https:"+token)
		}
	}
	return urls
}

var headerReplacer = strings.NewReplacer(
	" ", "",
	"\t", "",
	"\n", "",
	"\r", "",
	"\u00a0", "",
	"/", "",
	"-", "",
)

// NormalizeHeaderToken lowercases a header cell and strips whitespace,
// slashes and dashes so that "Класс / Состояние" and "класссостояние"
// compare equal.
func NormalizeHeaderToken(raw string) string {
	return headerReplacer.Replace(strings.ToLower(raw))
}
