package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/smart-living/pkg/helpers"
	"github.com/oksasatya/smart-living/pkg/mailer"
	mailtpl "github.com/oksasatya/smart-living/pkg/mailer/templates"
)

// errPermanent marks jobs that will never succeed and must not be requeued.
var errPermanent = errors.New("permanent job failure")

type sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// renderJob turns a queued job into a ready-to-send message.
func renderJob(ctx context.Context, job *mailer.EmailJob, resolver mailtpl.GeoResolver) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", fmt.Errorf("%w: job has no recipient", errPermanent)
	}
	helpers.EnsureRecipientAndEmail(job)
	helpers.LocalizeTimesIfPossible(ctx, resolver, job.Data)

	if job.Template == "" {
		subject = job.Subject
		if subject == "" {
			subject = helpers.SubjectFor("")
		}
		return subject, job.Text, job.HTML, nil
	}
	if !mailtpl.Known(job.Template) {
		return "", "", "", fmt.Errorf("%w: unknown template %q", errPermanent, job.Template)
	}
	subject, text, html, err = mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: render %s: %w", errPermanent, job.Template, err)
	}
	if subject == "" {
		subject = helpers.SubjectFor(job.Template)
	}
	return subject, text, html, nil
}

func processJob(ctx context.Context, job mailer.EmailJob, resolver mailtpl.GeoResolver, s sender) error {
	subject, text, html, err := renderJob(ctx, &job, resolver)
	if err != nil {
		return err
	}
	return s.Send(ctx, mailer.Message{
		To:      job.To,
		ReplyTo: job.ReplyTo,
		Subject: subject,
		Text:    text,
		HTML:    html,
		Tag:     job.Template,
	})
}
