// Package csvframe decodes the sales CSV into a raw domain.Frame.
package csvframe

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/sales_dashboard/internal/apperrors"
	"github.com/SscSPs/sales_dashboard/internal/core/domain"
)

const utf8BOM = "\ufeff"

// Decode reads a UTF-8 CSV with a header row. Header names and cells are trimmed.
// An empty input yields a frame with no columns, which fails column validation.
func Decode(r io.Reader, sourceID string) (*domain.Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.NewFrame(nil, nil), nil
	}
	if err != nil {
		return nil, unreadable(sourceID, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		columns[i] = strings.TrimSpace(h)
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, unreadable(sourceID, err)
		}
		if isBlank(rec) {
			continue
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		records = append(records, rec)
	}

	return domain.NewFrame(columns, records), nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func unreadable(sourceID string, cause error) error {
	de := apperrors.NewDataError(apperrors.KindSourceNotFound,
		"The data file %s could not be read as CSV", sourceID)
	de.Err = fmt.Errorf("decode csv: %w", cause)
	return de
}
