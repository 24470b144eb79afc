// internal/dataset/dataset.go
package dataset

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/pkg/errors"

	"github.com/unclebandit/bulkmailer-backend/internal/model"
)

// New assembles a Dataset and resolves its email column: the caller-named
// column when given, otherwise the first column whose name contains "email"
// (case-insensitive).
func New(columns []string, rows []model.Record, emailColumn string) (*model.Dataset, error) {
	if len(columns) == 0 {
		return nil, errors.New("dataset has no columns")
	}
	resolved, err := resolveEmailColumn(columns, emailColumn)
	if err != nil {
		return nil, err
	}
	return &model.Dataset{Columns: columns, Rows: rows, EmailColumn: resolved}, nil
}

// FromCSV parses recipient CSV bytes. The first record is the header; every
// cell is kept as a string.
func FromCSV(data []byte, emailColumn string) (*model.Dataset, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse recipient csv")
	}
	if len(records) == 0 {
		return nil, errors.New("recipient csv is empty")
	}

	columns := make([]string, len(records[0]))
	for i, c := range records[0] {
		columns[i] = strings.TrimSpace(c)
	}

	rows := make([]model.Record, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(model.Record, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return New(columns, rows, emailColumn)
}

func resolveEmailColumn(columns []string, preferred string) (string, error) {
	if preferred != "" {
		for _, c := range columns {
			if c == preferred {
				return c, nil
			}
		}
		return "", errors.Errorf("email column %q not found in dataset", preferred)
	}
	for _, c := range columns {
		if strings.Contains(strings.ToLower(c), "email") {
			return c, nil
		}
	}
	return "", errors.New("no email column found in dataset")
}
