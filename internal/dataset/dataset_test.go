package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/bulkmailer-backend/internal/dataset"
	"github.com/unclebandit/bulkmailer-backend/internal/model"
)

func TestFromCSV(t *testing.T) {
	csvData := []byte("Name, Email ,Amount\nAlice,alice@example.com,100\nBob,bob@example.com,50\n")

	ds, err := dataset.FromCSV(csvData, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Email", "Amount"}, ds.Columns)
	assert.Equal(t, "Email", ds.EmailColumn)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, model.Record{"Name": "Alice", "Email": "alice@example.com", "Amount": "100"}, ds.Rows[0])
	assert.Equal(t, "bob@example.com", ds.Rows[1]["Email"])
}

func TestFromCSVEmpty(t *testing.T) {
	_, err := dataset.FromCSV(nil, "")
	assert.Error(t, err)
}

func TestFromCSVMalformed(t *testing.T) {
	_, err := dataset.FromCSV([]byte("a,b\n\"unterminated"), "")
	assert.Error(t, err)
}

func TestNewEmailColumnDetection(t *testing.T) {
	rows := []model.Record{}

	t.Run("case-insensitive substring match", func(t *testing.T) {
		ds, err := dataset.New([]string{"Name", "Customer_EMAIL", "Amount"}, rows, "")
		require.NoError(t, err)
		assert.Equal(t, "Customer_EMAIL", ds.EmailColumn)
	})

	t.Run("first match wins", func(t *testing.T) {
		ds, err := dataset.New([]string{"email_home", "email_work"}, rows, "")
		require.NoError(t, err)
		assert.Equal(t, "email_home", ds.EmailColumn)
	})

	t.Run("explicit column is honored", func(t *testing.T) {
		ds, err := dataset.New([]string{"email_home", "email_work"}, rows, "email_work")
		require.NoError(t, err)
		assert.Equal(t, "email_work", ds.EmailColumn)
	})

	t.Run("explicit column must exist", func(t *testing.T) {
		_, err := dataset.New([]string{"Name", "Email"}, rows, "Address")
		assert.Error(t, err)
	})

	t.Run("no email column anywhere", func(t *testing.T) {
		_, err := dataset.New([]string{"Name", "Amount"}, rows, "")
		assert.Error(t, err)
	})

	t.Run("no columns", func(t *testing.T) {
		_, err := dataset.New(nil, rows, "")
		assert.Error(t, err)
	})
}

func TestHasColumn(t *testing.T) {
	ds := &model.Dataset{Columns: []string{"Name", "Email"}}
	assert.True(t, ds.HasColumn("Name"))
	assert.False(t, ds.HasColumn("Amount"))
}
