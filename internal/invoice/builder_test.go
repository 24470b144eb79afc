package invoice

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/bulkmailer-backend/internal/model"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func TestBuildProducesPDF(t *testing.T) {
	doc, err := Build([]Field{{Name: "Name", Value: "Bob"}, {Name: "Amount", Value: "50"}}, model.Branding{
		CompanyName:    "Acme Ltd",
		CompanyAddress: "123 Some Street",
		CompanyEmail:   "billing@acme.test",
		CompanyMobile:  "+254700000000",
		FooterNote:     "Thank you for your payment.",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestBuildWithImages(t *testing.T) {
	img := tinyPNG(t)
	doc, err := Build([]Field{{Name: "Name", Value: "Alice"}}, model.Branding{
		Logo:      img,
		Signature: img,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestBuildSurvivesUnsupportedRunes(t *testing.T) {
	doc, err := Build([]Field{{Name: "Note", Value: "金額 ₹100 — overdue"}}, model.Branding{})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestBuildEmptyFieldsStillHasDisclaimer(t *testing.T) {
	doc, err := Build(nil, model.Branding{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestContactLine(t *testing.T) {
	assert.Equal(t, "Email: a@b.c  Phone: 123", contactLine(model.Branding{CompanyEmail: "a@b.c", CompanyMobile: "123"}))
	assert.Equal(t, "Email: a@b.c", contactLine(model.Branding{CompanyEmail: "a@b.c"}))
	assert.Equal(t, "Phone: 123", contactLine(model.Branding{CompanyMobile: "123"}))
	assert.Empty(t, contactLine(model.Branding{}))
}

func TestImageType(t *testing.T) {
	assert.Equal(t, "PNG", imageType(tinyPNG(t)))
	assert.Equal(t, "JPG", imageType([]byte{0xff, 0xd8, 0xff}))
	assert.Equal(t, "GIF", imageType([]byte("GIF89a")))
}
