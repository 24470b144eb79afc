// internal/model/message.go
package model

// Attachment is a named blob attached to an outgoing message.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"data"`
}

// Message is one fully assembled outgoing email.
type Message struct {
	From        string
	To          string
	Subject     string
	Body        string
	HTML        bool
	Attachments []Attachment
}

// SenderIdentity authenticates the SMTP session. AppPassword is a
// per-application credential, not the account's primary password.
type SenderIdentity struct {
	Email       string
	AppPassword string
	Host        string
	Port        int
}

// BatchSpec is the caller-owned run context for one delivery batch.
// Exactly one of Invoice and CustomInvoice may be set; when both are nil
// no invoice is attached.
type BatchSpec struct {
	Template    string            `json:"template"`
	HTMLBody    bool              `json:"html"`
	Subject     string            `json:"subject"`
	EmailColumn string            `json:"email_column,omitempty"`
	ExtraFields map[string]string `json:"extra_fields,omitempty"`

	Invoice          *InvoiceSpec `json:"invoice,omitempty"`
	CustomInvoice    *Attachment  `json:"custom_invoice,omitempty"`
	StaticAttachment *Attachment  `json:"attachment,omitempty"`

	// ScheduleAt defers the batch until this wall-clock time ("15:04").
	// Empty means send immediately.
	ScheduleAt string `json:"schedule_at,omitempty"`
}
