package smtp

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Client sends finished archives by mail.
type Client struct {
	dialer *gomail.Dialer
	from   string
	to     []string
	domain string
}

// NewClient creates a Client sending from the given address to every recipient.
func NewClient(dialer *gomail.Dialer, from, domain string, to ...string) *Client {
	return &Client{dialer: dialer, from: from, to: to, domain: domain}
}

// Message builds the mail carrying the archive at path.
func (c *Client) Message(path, caption string) *gomail.Message {
	msg := gomail.NewMessage()

	msg.SetHeader("Message-ID", generateMessageID(c.domain))
	msg.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", c.to...)
	msg.SetHeader("Subject", fmt.Sprintf("QR codes: %s", filepath.Base(path)))
	msg.SetBody("text/plain", caption)
	msg.Attach(path)
	return msg
}

// SendArchive mails the archive at path with caption as the body.
func (c *Client) SendArchive(ctx context.Context, path, caption string) error {
	if len(c.to) == 0 {
		return fmt.Errorf("smtp: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.dialer.DialAndSend(c.Message(path, caption)); err != nil {
		return fmt.Errorf("smtp: send %s: %w", filepath.Base(path), err)
	}
	return nil
}

func generateMessageID(domain string) string {
	uniqueID := uuid.New().String()
	return fmt.Sprintf("<%s@%s>", uniqueID, domain)
}
