package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/bulkmailer-backend/internal/errors"
	"github.com/unclebandit/bulkmailer-backend/internal/service"
)

func TestExtractPlaceholders(t *testing.T) {
	t.Run("distinct names in order", func(t *testing.T) {
		names := service.ExtractPlaceholders("Hi {Name}, you owe {Amount}. Bye {Name}!")
		assert.Equal(t, []string{"Name", "Amount"}, names)
	})

	t.Run("empty template", func(t *testing.T) {
		assert.Empty(t, service.ExtractPlaceholders(""))
	})

	t.Run("no placeholders", func(t *testing.T) {
		assert.Empty(t, service.ExtractPlaceholders("plain text, no tokens"))
	})
}

func TestValidatePlaceholders(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		err := service.ValidatePlaceholders([]string{"Name"}, []string{"Name", "Email"})
		assert.NoError(t, err)
	})

	t.Run("reports missing set", func(t *testing.T) {
		err := service.ValidatePlaceholders([]string{"Name", "Amount"}, []string{"Name", "Email"})
		require.Error(t, err)

		var missing *appErrors.MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"Amount"}, missing.Missing)
	})
}

func TestRenderTemplate(t *testing.T) {
	t.Run("substitutes values", func(t *testing.T) {
		out, err := service.RenderTemplate("{Name} owes {Amount}", map[string]string{
			"Name":   "Alice",
			"Amount": "100",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice owes 100", out)
	})

	t.Run("normalizes literal newlines and trims", func(t *testing.T) {
		out, err := service.RenderTemplate(`  Hello {Name}\nRegards  `, map[string]string{"Name": "Bob"})
		require.NoError(t, err)
		assert.Equal(t, "Hello Bob\nRegards", out)
	})

	t.Run("rendering leaves no placeholders behind", func(t *testing.T) {
		template := "Dear {Name}, {Amount} is due on {Due}"
		fields := map[string]string{"Name": "Alice", "Amount": "100", "Due": "Friday"}
		out, err := service.RenderTemplate(template, fields)
		require.NoError(t, err)
		assert.Empty(t, service.ExtractPlaceholders(out))
	})

	t.Run("invalid utf8 surfaces as render error", func(t *testing.T) {
		_, err := service.RenderTemplate("Hi {Name}", map[string]string{"Name": "\xff\xfe"})
		require.Error(t, err)

		var renderErr *appErrors.RenderError
		assert.ErrorAs(t, err, &renderErr)
	})
}
