// internal/report/report.go
package report

import (
	"encoding/csv"
	"io"

	"github.com/unclebandit/bulkmailer-backend/internal/model"
)

// WriteCSV writes the two-column delivery report: a header row followed by
// one email,status row per recipient, in original dataset order.
func WriteCSV(w io.Writer, batch *model.DeliveryBatch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "status"}); err != nil {
		return err
	}
	for _, r := range batch.Results {
		if err := cw.Write([]string{r.Email, r.Status}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
