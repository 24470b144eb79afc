package report_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/bulkmailer-backend/internal/model"
	"github.com/unclebandit/bulkmailer-backend/internal/report"
)

func TestWriteCSV(t *testing.T) {
	batch := &model.DeliveryBatch{Results: []model.DeliveryResult{
		model.SentResult("alice@example.com"),
		model.FailedResult("bob@example.com", fmt.Errorf("mailbox full")),
		model.SentResult("carol@example.com"),
	}}

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, batch))

	assert.Equal(t,
		"email,status\n"+
			"alice@example.com,Sent\n"+
			"bob@example.com,Failed: mailbox full\n"+
			"carol@example.com,Sent\n",
		buf.String())
}

func TestWriteCSVEmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, &model.DeliveryBatch{}))
	assert.Equal(t, "email,status\n", buf.String())
}
