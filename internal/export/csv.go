package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"philcali.me/catalog/internal/data"
)

var HEADER = []string{"wix_product_url", "Name", "created_date", "slug"}

func _field(item data.Item, name string) string {
	value, ok := item[name]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// WriteCSV writes one row per item that has a product page URL and reports
// how many were written and skipped.
func WriteCSV(w io.Writer, items []data.Item) (written int, skipped int, err error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(HEADER); err != nil {
		return 0, 0, err
	}
	for _, item := range items {
		productURL := _field(item, "productPageUrl")
		if productURL == "" {
			skipped++
			continue
		}
		if err := writer.Write([]string{
			productURL,
			_field(item, "name"),
			_field(item, "createdDate"),
			_field(item, "slug"),
		}); err != nil {
			return written, skipped, err
		}
		written++
	}
	writer.Flush()
	return written, skipped, writer.Error()
}
