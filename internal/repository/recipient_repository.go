// internal/repository/recipient_repository.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/unclebandit/bulkmailer-backend/internal/dataset"
	"github.com/unclebandit/bulkmailer-backend/internal/model"
)

// RecipientRepositoryInterface defines what the worker needs from a
// recipient source.
type RecipientRepositoryInterface interface {
	LoadDataset(table, emailColumn string) (*model.Dataset, error)
}

// RecipientRepository reads recipient rows out of Postgres. Column names of
// the table become dataset columns, so any recipient schema works, same as
// a CSV upload.
type RecipientRepository struct {
	DB *sql.DB
}

// LoadDataset reads every row of the given table into a Dataset. NULL cells
// become empty strings and resolve to the fallback marker downstream.
func (r *RecipientRepository) LoadDataset(table, emailColumn string) (*model.Dataset, error) {
	rows, err := r.DB.Query(fmt.Sprintf("SELECT * FROM %s", pq.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := []model.Record{}
	for rows.Next() {
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(model.Record, len(columns))
		for i, col := range columns {
			rec[col] = cellString(cells[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dataset.New(columns, records, emailColumn)
}

// cellString flattens whatever the driver returned into the string form the
// merge fields expect. NULL becomes "" (and later the fallback marker).
func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(c)
	case string:
		return c
	case time.Time:
		return c.Format(time.RFC3339)
	default:
		return fmt.Sprint(c)
	}
}

var _ RecipientRepositoryInterface = (*RecipientRepository)(nil)
