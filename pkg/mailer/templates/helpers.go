package templates

import (
	"context"
	"strings"
	"time"
)

// Brand carries the sender identity shared by every email.
type Brand struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	City           string
	LogoURL        string
	SupportURL     string
	PrivacyURL     string
	UnsubscribeURL string
	DashboardURL   string
}

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}
func WithSummary(s map[string]string) Option {
	return func(d *EmailData) { d.Summary = s }
}

func setLocation(d *EmailData, loc string) {
	if s := strings.TrimSpace(loc); s != "" {
		d.Location = s
	}
}

func WithLocation(loc string) Option {
	return func(d *EmailData) { setLocation(d, loc) }
}

func WithGeoFromIP(ctx context.Context, r GeoResolver, ip string) Option {
	return func(d *EmailData) {
		if r == nil || strings.TrimSpace(ip) == "" {
			return
		}
		if g, err := r.Lookup(ctx, ip); err == nil {
			setLocation(d, FormatGeo(g))
		}
	}
}

// NewBaseEmailData fills the brand fields, then applies opts.
func NewBaseEmailData(b Brand, typ string, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName:    b.CompanyName,
		CompanyAddress: b.CompanyAddress,
		AppName:        b.AppName,
		City:           b.City,

		LogoURL:        b.LogoURL,
		SupportURL:     b.SupportURL,
		PrivacyURL:     b.PrivacyURL,
		UnsubscribeURL: b.UnsubscribeURL,
		DashboardURL:   b.DashboardURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewProfileCreatedData(b Brand, name, email string, summary map[string]string, opts ...Option) map[string]any {
	opts = append([]Option{WithSummary(summary)}, opts...)
	d := NewBaseEmailData(b, ProfileCreated, name, email, email, opts...)
	return ToMap(d)
}

// NewContactInquiryData addresses the inquiry to recipient (the support inbox)
// while Name/Email identify the visitor who wrote it.
func NewContactInquiryData(b Brand, name, email, recipient, subject, message string, opts ...Option) map[string]any {
	d := NewBaseEmailData(b, ContactInquiry, name, email, recipient, opts...)
	d.Subject = subject
	d.Message = message
	return ToMap(d)
}
