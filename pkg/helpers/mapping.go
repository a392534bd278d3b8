package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/smart-living/pkg/mailer"
	mailtpl "github.com/oksasatya/smart-living/pkg/mailer/templates"
)

// SubjectFor is used when a raw job carries no subject of its own.
func SubjectFor(template string) string {
	switch strings.ToLower(template) {
	case mailtpl.ProfileCreated:
		return "Your neighborhood profile is ready"
	case mailtpl.ContactInquiry:
		return "New contact inquiry"
	default:
		return "Notification"
	}
}

// EnsureRecipientAndEmail fills Email/RecipientEmail from To when a producer
// left them out.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
