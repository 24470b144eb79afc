// internal/service/delivery_service.go
package service

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/bulkmailer-backend/internal/invoice"
	"github.com/unclebandit/bulkmailer-backend/internal/model"
)

// MailSession is the transport surface the orchestrator drives: opened once
// per batch, used by every row, closed once at the end.
type MailSession interface {
	Send(msg *model.Message) error
	Close() error
}

// SessionFactory opens an authenticated session for a sender identity.
type SessionFactory func(identity model.SenderIdentity) (MailSession, error)

type DeliveryService struct {
	OpenSession SessionFactory
	Logger      logrus.FieldLogger
}

func NewDeliveryService(open SessionFactory, logger logrus.FieldLogger) *DeliveryService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DeliveryService{OpenSession: open, Logger: logger}
}

// Run delivers one batch sequentially: validate placeholders up front, open
// the transport session, then resolve, render, assemble and submit one
// message per dataset row, in row order. Row-level failures are folded into
// the report and never abort the batch; only the pre-flight validation and
// the initial connection may fail the run, and then with zero results.
func (s *DeliveryService) Run(ds *model.Dataset, spec *model.BatchSpec, sender model.SenderIdentity) (*model.DeliveryBatch, error) {
	if spec.Invoice != nil && spec.CustomInvoice != nil {
		return nil, errors.New("generated and custom invoice are mutually exclusive")
	}

	placeholders := ExtractPlaceholders(spec.Template)
	if err := ValidatePlaceholders(placeholders, ds.Columns); err != nil {
		return nil, err
	}

	session, err := s.OpenSession(sender)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.Logger.WithError(err).Warn("closing mail session")
		}
	}()

	total := len(ds.Rows)
	batch := &model.DeliveryBatch{Results: make([]model.DeliveryResult, 0, total)}
	for i, row := range ds.Rows {
		result := s.deliverRow(session, row, i, placeholders, ds.EmailColumn, spec, sender)
		batch.Results = append(batch.Results, result)
		s.Logger.WithFields(logrus.Fields{
			"done":   i + 1,
			"total":  total,
			"email":  result.Email,
			"status": result.Status,
		}).Info("processed recipient")
	}
	return batch, nil
}

func (s *DeliveryService) deliverRow(session MailSession, row model.Record, idx int, placeholders []string, emailColumn string, spec *model.BatchSpec, sender model.SenderIdentity) model.DeliveryResult {
	address := ResolveAddress(row, emailColumn)
	fields := ResolveFields(row, placeholders, spec.ExtraFields)

	body, err := RenderTemplate(spec.Template, fields)
	if err != nil {
		return model.FailedResult(address, err)
	}
	if address == "" {
		return model.FailedResult("", errors.New("recipient address is missing"))
	}

	msg := &model.Message{
		From:    sender.Email,
		To:      address,
		Subject: spec.Subject,
		Body:    body,
		HTML:    spec.HTMLBody,
	}
	if spec.StaticAttachment != nil {
		msg.Attachments = append(msg.Attachments, *spec.StaticAttachment)
	}
	switch {
	case spec.CustomInvoice != nil:
		msg.Attachments = append(msg.Attachments, *spec.CustomInvoice)
	case spec.Invoice != nil:
		doc, err := invoice.Build(SelectInvoiceFields(fields, spec.Invoice.Fields), spec.Invoice.Branding)
		if err != nil {
			return model.FailedResult(address, err)
		}
		msg.Attachments = append(msg.Attachments, model.Attachment{
			Filename:    invoiceFilename(fields, idx),
			ContentType: "application/pdf",
			Data:        doc,
		})
	}

	if err := session.Send(msg); err != nil {
		return model.FailedResult(address, err)
	}
	return model.SentResult(address)
}

// SelectInvoiceFields filters the merged fields down to the invoice-field
// selection, preserving the caller-provided order. Names missing from the
// merged map are skipped.
func SelectInvoiceFields(fields map[string]string, selection []string) []invoice.Field {
	out := make([]invoice.Field, 0, len(selection))
	for _, name := range selection {
		if v, ok := fields[name]; ok {
			out = append(out, invoice.Field{Name: name, Value: v})
		}
	}
	return out
}

func invoiceFilename(fields map[string]string, idx int) string {
	name := fields["Name"]
	if name == "" || name == NotProvided {
		name = "invoice"
	}
	return fmt.Sprintf("%s_%d.pdf", name, idx)
}
