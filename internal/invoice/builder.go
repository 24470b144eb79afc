// internal/invoice/builder.go
package invoice

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	appErrors "github.com/unclebandit/bulkmailer-backend/internal/errors"
	"github.com/unclebandit/bulkmailer-backend/internal/model"
)

const disclaimer = "This is a system-generated receipt and does not require a physical signature."

const (
	keyColWidth = 60.0
	valColWidth = 120.0
	rowHeight   = 8.0
)

// Field is one Field/Value row of the invoice table.
type Field struct {
	Name  string
	Value string
}

// Build renders the selected fields plus branding into a single PDF, A4
// portrait, paginating automatically if the table overflows. It is a pure
// function of its inputs; image bytes are registered from in-memory readers
// and nothing touches the filesystem. Values outside the PDF text encoding
// degrade to a replacement character instead of aborting generation.
func Build(fields []Field, branding model.Branding) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if len(branding.Logo) > 0 {
		placeImage(pdf, "logo", branding.Logo, 10, 8, 33)
	}

	title := branding.CompanyName
	if title == "" {
		title = "Payment Invoice"
	}
	pdf.SetFont("Arial", "", 14)
	pdf.CellFormat(200, 10, tr(title), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	if branding.CompanyAddress != "" {
		pdf.MultiCell(0, 6, tr(branding.CompanyAddress), "", "C", false)
	}
	if contact := contactLine(branding); contact != "" {
		pdf.CellFormat(200, 6, tr(contact), "", 1, "C", false, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(keyColWidth, rowHeight, "Field", "1", 0, "", false, 0, "")
	pdf.CellFormat(valColWidth, rowHeight, "Value", "1", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, f := range fields {
		pdf.CellFormat(keyColWidth, rowHeight, tr(f.Name), "1", 0, "", false, 0, "")
		pdf.CellFormat(valColWidth, rowHeight, tr(f.Value), "1", 1, "", false, 0, "")
	}
	pdf.Ln(10)

	if len(branding.Signature) > 0 {
		placeImage(pdf, "signature", branding.Signature, 150, pdf.GetY(), 40)
		pdf.Ln(25)
	}

	pdf.SetFont("Arial", "I", 9)
	if branding.FooterNote != "" {
		pdf.MultiCell(0, 10, tr(branding.FooterNote), "", "C", false)
	}
	pdf.MultiCell(0, 10, disclaimer, "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, appErrors.NewDocumentError(err)
	}
	return buf.Bytes(), nil
}

// contactLine combines email and phone into one line when either is present.
func contactLine(b model.Branding) string {
	line := ""
	if b.CompanyEmail != "" {
		line += fmt.Sprintf("Email: %s  ", b.CompanyEmail)
	}
	if b.CompanyMobile != "" {
		line += fmt.Sprintf("Phone: %s", b.CompanyMobile)
	}
	return strings.TrimSpace(line)
}

func placeImage(pdf *fpdf.Fpdf, name string, data []byte, x, y, w float64) {
	opts := fpdf.ImageOptions{ImageType: imageType(data)}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, x, y, w, 0, false, opts, 0, "")
}

func imageType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG")):
		return "PNG"
	case bytes.HasPrefix(data, []byte("\xff\xd8")):
		return "JPG"
	case bytes.HasPrefix(data, []byte("GIF8")):
		return "GIF"
	}
	return "PNG"
}
