package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ErrNoRecipient is returned when a notice has no address to go to.
var ErrNoRecipient = errors.New("notify: no recipient")

// ResendNotifier sends plan-ready emails through Resend.
type ResendNotifier struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

// NewResendNotifier creates a notifier for apiKey. baseURL overrides the API endpoint when set.
func NewResendNotifier(apiKey, from, baseURL string, logger *zap.Logger) (*ResendNotifier, error) {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = u
	}
	return &ResendNotifier{client: client, from: from, logger: logger}, nil
}

func (n *ResendNotifier) NotifyPlanReady(ctx context.Context, msg PlanReady) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{msg.To},
		Subject: fmt.Sprintf("Your plan %q is ready", msg.PlanName),
		Html:    planReadyHTML(msg),
		Tags:    []resend.Tag{{Name: "category", Value: "plan_ready"}},
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	n.logger.Info("plan-ready email sent", zap.String("email_id", sent.Id), zap.String("plan_id", msg.PlanID))
	return nil
}

func planReadyHTML(msg PlanReady) string {
	name := msg.Name
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
	<h2>Hi %s, your plan is ready</h2>
	<p><strong>%s</strong> is now your active plan. Open your profile to see the full schedule and meals.</p>`,
		html.EscapeString(name), html.EscapeString(msg.PlanName))
	if msg.ExportURL != "" {
		body += fmt.Sprintf(`
	<p><a href="%s">Download a copy</a> (the link expires soon).</p>`, html.EscapeString(msg.ExportURL))
	}
	return body + "\n</div>"
}
