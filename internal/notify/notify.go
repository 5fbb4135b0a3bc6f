// Package notify tells users that a new plan is ready.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// PlanReady describes a freshly saved plan.
type PlanReady struct {
	To        string // Recipient email
	Name      string // Recipient display name
	PlanID    string
	PlanName  string
	ExportURL string // Optional download link
}

// Notifier delivers plan-ready notices.
type Notifier interface {
	NotifyPlanReady(ctx context.Context, msg PlanReady) error
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier returns a Notifier that only logs. Used when no email provider is configured.
func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) NotifyPlanReady(_ context.Context, msg PlanReady) error {
	n.logger.Info("plan ready",
		zap.String("to", msg.To),
		zap.String("plan_id", msg.PlanID),
		zap.String("plan_name", msg.PlanName))
	return nil
}
