package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/internal/domain/entity"
	"github.com/oksasatya/smart-living/pkg/mailer"
	mailtpl "github.com/oksasatya/smart-living/pkg/mailer/templates"
)

var (
	ErrMailDisabled   = errors.New("email sending disabled")
	ErrNoContactInbox = errors.New("contact inbox not configured")
)

// JobPublisher puts one JSON message on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// MailService turns product events into queued email jobs. Delivery happens
// in the email worker.
type MailService struct {
	Publisher    JobPublisher
	Brand        mailtpl.Brand
	ContactInbox string
	Enabled      bool
	Logger       *logrus.Logger
	Now          func() time.Time
}

func NewMailService(pub JobPublisher, brand mailtpl.Brand, contactInbox string, enabled bool, logger *logrus.Logger) *MailService {
	return &MailService{
		Publisher:    pub,
		Brand:        brand,
		ContactInbox: contactInbox,
		Enabled:      enabled && pub != nil,
		Logger:       logger,
		Now:          time.Now,
	}
}

// ProfileCompleted queues the welcome email. Profiles without an address are skipped.
func (s *MailService) ProfileCompleted(ctx context.Context, owner string, p entity.Profile) error {
	if !s.Enabled {
		return nil
	}
	if strings.TrimSpace(p.Email) == "" {
		return nil
	}
	job := mailer.EmailJob{
		To:       p.Email,
		Template: mailtpl.ProfileCreated,
		Data:     mailtpl.NewProfileCreatedData(s.Brand, p.FirstName(), p.Email, profileSummary(p), mailtpl.WithTime(s.Now())),
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("owner", owner).Debug("welcome email queued")
	}
	return nil
}

func profileSummary(p entity.Profile) map[string]string {
	out := map[string]string{
		"Household size": strconv.Itoa(p.HouseholdSize),
		"Children":       strconv.Itoa(p.Children),
		"Annual income":  numberPrinter.Sprintf("$%d", p.Income),
	}
	if len(p.SchoolNeeds) > 0 {
		out["School needs"] = strings.Join(p.SchoolNeeds, ", ")
	}
	for _, o := range entity.EducationOptions {
		if o.Value == p.Education {
			out["Education"] = o.Label
		}
	}
	return out
}

// ContactMessage is a visitor inquiry from the contact form.
type ContactMessage struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	IP        string
	UserAgent string
}

// Contact queues an inquiry to the support inbox with Reply-To set to the visitor.
func (s *MailService) Contact(ctx context.Context, m ContactMessage) error {
	if !s.Enabled {
		return ErrMailDisabled
	}
	if s.ContactInbox == "" {
		return ErrNoContactInbox
	}
	job := mailer.EmailJob{
		To:       s.ContactInbox,
		ReplyTo:  m.Email,
		Template: mailtpl.ContactInquiry,
		Data: mailtpl.NewContactInquiryData(s.Brand, m.Name, m.Email, s.ContactInbox, m.Subject, m.Message,
			mailtpl.WithTime(s.Now()), mailtpl.WithIP(m.IP), mailtpl.WithUserAgent(m.UserAgent)),
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("failed to publish contact inquiry")
		}
		return err
	}
	return nil
}
