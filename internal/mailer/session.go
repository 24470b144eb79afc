// internal/mailer/session.go
package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	appErrors "github.com/unclebandit/bulkmailer-backend/internal/errors"
	"github.com/unclebandit/bulkmailer-backend/internal/model"
)

// Session is one authenticated SMTP submission connection, shared by every
// send of a batch. It must not be used after Close.
type Session struct {
	client *smtp.Client
	closed bool
}

// Dial opens the submission connection, upgrades it with STARTTLS and
// authenticates with the sender identity. Any failure here is fatal to the
// whole batch and is reported as a ConnectionError.
func Dial(identity model.SenderIdentity) (*Session, error) {
	addr := fmt.Sprintf("%s:%d", identity.Host, identity.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, appErrors.NewConnectionError(err)
	}
	if err := client.StartTLS(&tls.Config{ServerName: identity.Host}); err != nil {
		client.Close()
		return nil, appErrors.NewConnectionError(err)
	}
	auth := smtp.PlainAuth("", identity.Email, identity.AppPassword, identity.Host)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return nil, appErrors.NewConnectionError(err)
	}
	return &Session{client: client}, nil
}

// Send submits one message over the session. A failure only affects this
// message; the session is reset best-effort so the next send can proceed.
func (s *Session) Send(msg *model.Message) error {
	if err := s.send(msg); err != nil {
		s.client.Reset()
		return appErrors.NewSubmissionError(err)
	}
	return nil
}

func (s *Session) send(msg *model.Message) error {
	if err := s.client.Mail(msg.From); err != nil {
		return err
	}
	if err := s.client.Rcpt(msg.To); err != nil {
		return err
	}
	w, err := s.client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(BuildMIME(msg)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Close quits the session. Best-effort: a close failure does not invalidate
// results already recorded by the caller.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.client.Quit()
}
