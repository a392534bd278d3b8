package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Message is one rendered email. HTML, ReplyTo and Tag are optional.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
	// Tag groups messages in Mailgun analytics, usually the template name.
	Tag string
}

// Mailgun sends messages through one Mailgun domain.
type Mailgun struct {
	client  *mg.MailgunImpl
	Sender  string
	Timeout time.Duration
}

// NewMailgun builds a sender. apiBase selects the region, e.g. mg.APIBaseEU;
// empty keeps the US default.
func NewMailgun(domain, apiKey, sender, apiBase string) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if apiBase != "" {
		client.SetAPIBase(apiBase)
	}
	return &Mailgun{client: client, Sender: sender, Timeout: 10 * time.Second}
}

func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	out := m.client.NewMessage(m.Sender, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		out.SetHtml(msg.HTML)
	}
	if msg.ReplyTo != "" {
		out.AddHeader("Reply-To", msg.ReplyTo)
	}
	if msg.Tag != "" {
		if err := out.AddTag(msg.Tag); err != nil {
			return err
		}
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, _, err := m.client.Send(c, out)
	return err
}
