// Package csvfile reads the wide-format AERONET export from a local CSV file.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/atmosdata/aeronet-dw-etl/internal/domain"
)

// Reader extracts a domain.Table from a CSV file on disk.
// It implements pipeline.Extractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the given CSV path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Extract reads the whole file into memory: the first row becomes the column
// header, the rest become uninterpreted string cells. Ragged rows are
// tolerated (AERONET exports occasionally vary in trailing columns); the
// normalizer treats short rows as missing values.
func (r *Reader) Extract(ctx context.Context) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open source csv: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("read source csv %s: %w", r.path, err)
	}
	if len(rows) == 0 {
		return domain.Table{}, fmt.Errorf("source csv %s is empty", r.path)
	}

	r.logger.Debug("source csv read", "path", r.path, "rows", len(rows)-1)
	return domain.Table{Columns: rows[0], Rows: rows[1:]}, nil
}
