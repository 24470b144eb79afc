// internal/model/invoice.go
package model

// Branding holds the assets and text rendered around the invoice table.
// Logo and Signature are raw image bytes (PNG or JPEG), kept in memory.
type Branding struct {
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	CompanyEmail   string `json:"company_email"`
	CompanyMobile  string `json:"company_mobile"`
	FooterNote     string `json:"footer_note"`
	Logo           []byte `json:"logo,omitempty"`
	Signature      []byte `json:"signature,omitempty"`
}

// InvoiceSpec selects which merged fields appear in the generated invoice,
// in order, plus the branding to render around them.
type InvoiceSpec struct {
	Fields   []string `json:"fields"`
	Branding Branding `json:"branding"`
}
