// Package notify delivers incident lifecycle events to an operator-configured
// webhook, typically a messaging bridge at the municipal operations center.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mdrrmo/respond/internal/shared/config"
)

// Webhook posts event payloads to a single configured endpoint
type Webhook struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// New builds a webhook notifier. Returns nil when notifications are
// disabled, callers treat a nil notifier as a no-op.
func New(cfg config.NotifyConfig, logger *zap.Logger) *Webhook {
	if !cfg.Enabled || cfg.WebhookURL == "" {
		return nil
	}

	client := resty.New().
		SetTimeout(time.Duration(cfg.TimeoutSec) * time.Second).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "respond-notifier/1.0")

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &Webhook{
		client: client,
		url:    cfg.WebhookURL,
		logger: logger,
	}
}

type payload struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Send posts one event to the webhook. Delivery is best effort, retries
// are handled by the underlying client.
func (w *Webhook) Send(ctx context.Context, event string, data any) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(payload{
			Event:     event,
			Timestamp: time.Now().UTC(),
			Data:      data,
		}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	w.logger.Debug("webhook delivered",
		zap.String("event", event),
		zap.Int("status", resp.StatusCode()))
	return nil
}
