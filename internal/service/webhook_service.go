package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"coresync/coach/internal/metrics"
	"coresync/coach/internal/repository"
	"coresync/coach/internal/webhook"
)

// Webhook outcome labels.
const (
	webhookSynced    = "synced"
	webhookIgnored   = "ignored"
	webhookDuplicate = "duplicate"
	webhookFailed    = "failed"
)

// WebhookService mirrors identity-provider users into the store.
type WebhookService interface {
	// HandleClerkEvent verifies a delivery and syncs the user it describes.
	HandleClerkEvent(ctx context.Context, headers http.Header, body []byte) error
}

type webhookService struct {
	verifier    *webhook.Verifier
	users       repository.UserRepository
	deliveries  repository.DeliveryStore // Optional
	deliveryTTL time.Duration
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewWebhookService creates a new instance of webhookService. deliveries may be nil.
func NewWebhookService(
	verifier *webhook.Verifier,
	users repository.UserRepository,
	deliveries repository.DeliveryStore,
	deliveryTTL time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) WebhookService {
	return &webhookService{
		verifier:    verifier,
		users:       users,
		deliveries:  deliveries,
		deliveryTTL: deliveryTTL,
		metrics:     m,
		logger:      logger,
	}
}

func (s *webhookService) HandleClerkEvent(ctx context.Context, headers http.Header, body []byte) error {
	// 1. Verify the envelope; the secret is checked first
	evt, err := s.verifier.Verify(headers, body)
	switch {
	case errors.Is(err, webhook.ErrNoSecret):
		return newError(ErrMisconfigured, "CLERK_WEBHOOK_SECRET is not set", err)
	case errors.Is(err, webhook.ErrMissingHeaders):
		return newError(ErrInvalidSignature, "No svix headers found", err)
	case err != nil:
		s.logger.Warn("error verifying webhook", zap.Error(err))
		return newError(ErrInvalidSignature, "Error occurred", err)
	}

	// 2. Other event kinds are accepted and ignored
	if !evt.IsUserSync() {
		s.metrics.WebhookEvents.WithLabelValues(evt.Type, webhookIgnored).Inc()
		return nil
	}

	// 3. Skip replays of a delivery we already processed
	if !s.claimDelivery(ctx, evt.DeliveryID) {
		s.metrics.WebhookEvents.WithLabelValues(evt.Type, webhookDuplicate).Inc()
		s.logger.Info("duplicate webhook delivery ignored", zap.String("svix_id", evt.DeliveryID))
		return nil
	}

	// 4. Sync
	user, err := evt.User()
	if err != nil {
		s.releaseDelivery(ctx, evt.DeliveryID)
		s.metrics.WebhookEvents.WithLabelValues(evt.Type, webhookFailed).Inc()
		return newError(ErrInvalidSignature, "Error occurred", err)
	}
	if err := s.users.SyncUser(ctx, webhook.SyncParams(user)); err != nil {
		s.releaseDelivery(ctx, evt.DeliveryID)
		s.metrics.WebhookEvents.WithLabelValues(evt.Type, webhookFailed).Inc()
		s.logger.Error("failed to sync user", zap.String("clerk_id", user.ID), zap.Error(err))
		return newError(ErrPersistence, "Error syncing user", err)
	}

	s.metrics.WebhookEvents.WithLabelValues(evt.Type, webhookSynced).Inc()
	s.logger.Info("user synced", zap.String("type", evt.Type), zap.String("clerk_id", user.ID))
	return nil
}

// claimDelivery reports whether the delivery should be processed. Store errors never block it.
func (s *webhookService) claimDelivery(ctx context.Context, id string) bool {
	if s.deliveries == nil || id == "" {
		return true
	}
	first, err := s.deliveries.MarkDelivered(ctx, id, s.deliveryTTL)
	if err != nil {
		s.logger.Warn("delivery store unavailable", zap.String("svix_id", id), zap.Error(err))
		return true
	}
	return first
}

func (s *webhookService) releaseDelivery(ctx context.Context, id string) {
	if s.deliveries == nil || id == "" {
		return
	}
	if err := s.deliveries.Release(ctx, id); err != nil {
		s.logger.Warn("failed to release delivery", zap.String("svix_id", id), zap.Error(err))
	}
}
