package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/bulkmailer-backend/internal/model"
	"github.com/unclebandit/bulkmailer-backend/internal/service"
)

func TestResolveFields(t *testing.T) {
	placeholders := []string{"Name", "Amount"}

	t.Run("resolves row values", func(t *testing.T) {
		fields := service.ResolveFields(model.Record{"Name": "Alice", "Amount": "100"}, placeholders, nil)
		assert.Equal(t, map[string]string{"Name": "Alice", "Amount": "100"}, fields)
	})

	t.Run("missing and null-like values fall back", func(t *testing.T) {
		for _, row := range []model.Record{
			{"Name": "Alice"},
			{"Name": "Alice", "Amount": ""},
			{"Name": "Alice", "Amount": "   "},
			{"Name": "Alice", "Amount": "nan"},
			{"Name": "Alice", "Amount": "NaN"},
			{"Name": "Alice", "Amount": "null"},
		} {
			fields := service.ResolveFields(row, placeholders, nil)
			assert.Equal(t, service.NotProvided, fields["Amount"])
		}
	})

	t.Run("extra fields merge in", func(t *testing.T) {
		fields := service.ResolveFields(model.Record{"Name": "Alice", "Amount": "100"}, placeholders,
			map[string]string{"Company": "Acme"})
		assert.Equal(t, "Acme", fields["Company"])
	})

	t.Run("extra fields never clobber declared placeholders", func(t *testing.T) {
		fields := service.ResolveFields(model.Record{"Name": "Alice", "Amount": "100"}, placeholders,
			map[string]string{"Amount": "999"})
		assert.Equal(t, "100", fields["Amount"])
	})
}

func TestResolveAddress(t *testing.T) {
	assert.Equal(t, "alice@example.com",
		service.ResolveAddress(model.Record{"Email": " alice@example.com "}, "Email"))
	assert.Empty(t, service.ResolveAddress(model.Record{"Email": ""}, "Email"))
	assert.Empty(t, service.ResolveAddress(model.Record{"Email": "nan"}, "Email"))
	assert.Empty(t, service.ResolveAddress(model.Record{}, "Email"))
}
