// cmd/sender/main.go
//
// One-shot batch sender: reads the template and recipient CSV from disk,
// personalizes and delivers one email per row, then writes the email,status
// report CSV. SMTP credentials come from the environment (or a .env file):
// SMTP_HOST, SMTP_PORT, SENDER_EMAIL, SENDER_APP_PASSWORD.
package main

import (
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/bulkmailer-backend/internal/dataset"
	"github.com/unclebandit/bulkmailer-backend/internal/mailer"
	"github.com/unclebandit/bulkmailer-backend/internal/model"
	"github.com/unclebandit/bulkmailer-backend/internal/report"
	"github.com/unclebandit/bulkmailer-backend/internal/service"
)

// extraFields collects repeatable -extra Name=Value flags.
type extraFields map[string]string

func (e extraFields) String() string { return fmt.Sprint(map[string]string(e)) }

func (e extraFields) Set(v string) error {
	name, value, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected Name=Value, got %q", v)
	}
	e[name] = value
	return nil
}

func main() {
	var (
		templatePath  = flag.String("template", "", "path to the email template (required)")
		csvPath       = flag.String("csv", "", "path to the recipient CSV (required)")
		htmlBody      = flag.Bool("html", false, "send the template as HTML instead of plain text")
		subject       = flag.String("subject", "Payment Reminder", "email subject line")
		emailColumn   = flag.String("email-column", "", "recipient email column (default: first column containing \"email\")")
		attachPath    = flag.String("attachment", "", "optional static attachment sent to every recipient")
		customInvoice = flag.String("custom-invoice", "", "fixed invoice PDF attached as-is (disables invoice generation)")
		invoiceFields = flag.String("invoice-fields", "", "comma-separated fields to include in the generated invoice")
		companyName   = flag.String("company-name", "", "invoice company name")
		companyAddr   = flag.String("company-address", "", "invoice company address")
		companyEmail  = flag.String("company-email", "", "invoice contact email")
		companyMobile = flag.String("company-mobile", "", "invoice contact phone")
		footerNote    = flag.String("footer-note", "", "invoice footer note")
		logoPath      = flag.String("logo", "", "invoice logo image (png/jpg)")
		signaturePath = flag.String("signature", "", "invoice signature image (png/jpg)")
		scheduleAt    = flag.String("schedule", "", "defer sending until this wall-clock time, e.g. 22:30")
		outPath       = flag.String("out", "email_status.csv", "path of the report CSV")
	)
	extra := extraFields{}
	flag.Var(extra, "extra", "extra merge field as Name=Value (repeatable)")
	flag.Parse()

	logger := logrus.StandardLogger()

	if *templatePath == "" || *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *customInvoice != "" && *invoiceFields != "" {
		logger.Fatal("-custom-invoice and -invoice-fields are mutually exclusive")
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, relying on OS environment variables")
	}
	sender := model.SenderIdentity{
		Email:       os.Getenv("SENDER_EMAIL"),
		AppPassword: os.Getenv("SENDER_APP_PASSWORD"),
		Host:        envOr("SMTP_HOST", "smtp.gmail.com"),
		Port:        envInt("SMTP_PORT", 587),
	}
	if sender.Email == "" || sender.AppPassword == "" {
		logger.Fatal("SENDER_EMAIL and SENDER_APP_PASSWORD must be set")
	}

	templateText, err := os.ReadFile(*templatePath)
	if err != nil {
		logger.Fatal("failed to read template: ", err)
	}
	csvBytes, err := os.ReadFile(*csvPath)
	if err != nil {
		logger.Fatal("failed to read recipient csv: ", err)
	}
	ds, err := dataset.FromCSV(csvBytes, *emailColumn)
	if err != nil {
		logger.Fatal("failed to load recipient dataset: ", err)
	}

	spec := &model.BatchSpec{
		Template:    string(templateText),
		HTMLBody:    *htmlBody,
		Subject:     *subject,
		EmailColumn: ds.EmailColumn,
		ExtraFields: extra,
		ScheduleAt:  *scheduleAt,
	}
	if *attachPath != "" {
		spec.StaticAttachment = mustLoadAttachment(logger, *attachPath)
	}
	if *customInvoice != "" {
		spec.CustomInvoice = mustLoadAttachment(logger, *customInvoice)
	} else if *invoiceFields != "" {
		spec.Invoice = &model.InvoiceSpec{
			Fields: splitFields(*invoiceFields),
			Branding: model.Branding{
				CompanyName:    *companyName,
				CompanyAddress: *companyAddr,
				CompanyEmail:   *companyEmail,
				CompanyMobile:  *companyMobile,
				FooterNote:     *footerNote,
				Logo:           mustLoadBytes(logger, *logoPath),
				Signature:      mustLoadBytes(logger, *signaturePath),
			},
		}
	}

	gate, err := service.NewScheduleGate(spec.ScheduleAt)
	if err != nil {
		logger.Fatal(err)
	}
	for {
		state, remaining := gate.Evaluate(time.Now())
		if state == service.GateArmed {
			break
		}
		logger.WithFields(logrus.Fields{
			"target":    gate.Target().Format(time.Kitchen),
			"remaining": remaining.Round(time.Second),
		}).Info("waiting for scheduled send time")
		if remaining > 30*time.Second {
			remaining = 30 * time.Second
		}
		time.Sleep(remaining)
	}

	delivery := service.NewDeliveryService(func(id model.SenderIdentity) (service.MailSession, error) {
		return mailer.Dial(id)
	}, logger)

	batch, err := delivery.Run(ds, spec, sender)
	if err != nil {
		logger.Fatal("batch aborted: ", err)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		logger.Fatal("failed to create report file: ", err)
	}
	defer out.Close()
	if err := report.WriteCSV(out, batch); err != nil {
		logger.Fatal("failed to write report: ", err)
	}

	sent, failed := batch.Counts()
	logger.WithFields(logrus.Fields{"sent": sent, "failed": failed, "report": *outPath}).Info("all emails processed")
	if failed > 0 {
		os.Exit(1)
	}
}

func splitFields(s string) []string {
	parts := strings.Split(s, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

func mustLoadAttachment(logger logrus.FieldLogger, path string) *model.Attachment {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("failed to read attachment: ", err)
	}
	return &model.Attachment{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}
}

func mustLoadBytes(logger logrus.FieldLogger, path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("failed to read image: ", err)
	}
	return data
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
