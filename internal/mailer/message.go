// internal/mailer/message.go
package mailer

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/unclebandit/bulkmailer-backend/internal/model"
)

// BuildMIME assembles the wire form of a message: plain headers and a bare
// body when there are no attachments, otherwise multipart/mixed with a body
// part followed by base64 attachment parts.
func BuildMIME(msg *model.Message) []byte {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	b.WriteString("MIME-Version: 1.0\r\n")

	bodyType := "text/plain"
	if msg.HTML {
		bodyType = "text/html"
	}

	if len(msg.Attachments) == 0 {
		b.WriteString(fmt.Sprintf("Content-Type: %s; charset=UTF-8\r\n\r\n", bodyType))
		b.WriteString(msg.Body)
		b.WriteString("\r\n")
		return []byte(b.String())
	}

	boundary := randomBoundary("mixed")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary))
	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString(fmt.Sprintf("Content-Type: %s; charset=UTF-8\r\n\r\n", bodyType))
	b.WriteString(msg.Body)
	b.WriteString("\r\n\r\n")
	for _, att := range msg.Attachments {
		writeAttachmentPart(&b, att, boundary)
	}
	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(b.String())
}

func writeAttachmentPart(b *strings.Builder, att model.Attachment, boundary string) {
	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString(fmt.Sprintf("Content-Type: %s\r\n", contentType))
	b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", att.Filename))
	b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")

	encoded := base64.StdEncoding.EncodeToString(att.Data)
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		b.WriteString(encoded[i:end])
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
}

func randomBoundary(prefix string) string {
	var buf [12]byte
	rand.Read(buf[:])
	return prefix + "-" + hex.EncodeToString(buf[:])
}
