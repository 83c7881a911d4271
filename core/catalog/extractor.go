package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// pdfSuffix marks identifiers whose asset is a downloadable PDF.
const pdfSuffix = "_PDF"

// resultGrid mirrors the fixed nested shape of the catalog payload:
// an object holding a list of rows, each row a list of string fields.
// Only the first field of each row is consumed.
type resultGrid struct {
	Rows [][]string `json:"Data"`
}

// Extract parses the catalog payload and returns the PDF-eligible
// document identifiers in row order.
//
// An unparseable top-level payload yields ErrParse with an empty list.
// A missing or malformed data.Data path yields an empty list without an
// error. Duplicates are preserved: the grid documents no uniqueness
// guarantee, and the downloader's skip-on-exists guard makes repeated
// identifiers harmless.
func Extract(payload string) ([]string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var grid resultGrid
	if raw, ok := top["data"]; ok {
		// Rows that don't fit the list-of-string-lists shape are treated
		// the same as an absent path.
		if err := json.Unmarshal(raw, &grid); err != nil {
			return nil, nil
		}
	}

	var ids []string
	for _, row := range grid.Rows {
		if len(row) == 0 {
			continue
		}
		if id := row[0]; strings.HasSuffix(id, pdfSuffix) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
