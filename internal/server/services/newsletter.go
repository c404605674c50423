package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/newsletter/internal/email"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/metrics"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/subscriptions"
	"github.com/microcosm-cc/bluemonday"
)

// Issue is one newsletter edition to publish.
type Issue struct {
	Title    string
	HTMLBody string
	TextBody string
}

// PublishReport summarizes a publication run.
type PublishReport struct {
	Delivered int
	Failed    int
}

// NewsletterService publishes issues to confirmed subscribers.
type NewsletterService struct {
	repo      subscriptions.Repository
	sender    EmailSender
	metrics   metrics.Recorder
	logger    logging.Logger
	sanitizer *bluemonday.Policy
}

func NewNewsletterService(repo subscriptions.Repository, sender EmailSender, m metrics.Recorder, logger logging.Logger) *NewsletterService {
	return &NewsletterService{
		repo:    repo,
		sender:  sender,
		metrics: m,
		logger:  logger,
		// UGCPolicy keeps formatting tags and links but strips scripts
		// and event handlers from the submitted HTML body.
		sanitizer: bluemonday.UGCPolicy(),
	}
}

var errEmptyIssue = errors.New("newsletter issue needs a title and a body")

// PublishIssue delivers the issue to every currently confirmed subscriber.
// Per-recipient failures are counted and logged but do not abort the run;
// delivery is at-least-once per recipient with no ordering guarantee. An
// error is returned only when no subscriber list could be read or the issue
// is empty.
func (s *NewsletterService) PublishIssue(ctx context.Context, issue Issue) (*PublishReport, error) {
	if strings.TrimSpace(issue.Title) == "" ||
		(strings.TrimSpace(issue.HTMLBody) == "" && strings.TrimSpace(issue.TextBody) == "") {
		return nil, errEmptyIssue
	}

	htmlBody := s.sanitizer.Sanitize(issue.HTMLBody)

	emails, err := s.repo.GetConfirmedSubscribersEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing confirmed subscribers: %w", err)
	}

	report := &PublishReport{}
	for _, to := range emails {
		msg := email.Email{
			To:       to,
			Subject:  issue.Title,
			HTMLBody: htmlBody,
			TextBody: issue.TextBody,
		}

		if err := s.sender.SendEmail(ctx, msg); err != nil {
			report.Failed++
			s.metrics.RecordEmailFailure()
			s.logger.Error(ctx, "newsletter delivery failed for subscriber", "error", err)
			continue
		}
		report.Delivered++
		s.metrics.RecordEmailSent()
	}

	s.logger.Info(ctx, "newsletter issue published",
		"title", issue.Title, "delivered", report.Delivered, "failed", report.Failed)

	return report, nil
}
