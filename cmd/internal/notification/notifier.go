package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
	"tenantnotes/cmd/internal/domain/events"
	"tenantnotes/cmd/internal/infrastructure/aws/websocket"
	"tenantnotes/cmd/internal/metrics"
	"tenantnotes/cmd/internal/utils"
)

// Notifier delivers an event to every live session of one user.
// Delivery is best effort and never persisted.
type Notifier interface {
	Notify(ctx context.Context, userID string, evt events.SocketEvent) error
}

// LogNotifier only records that a notification would have been sent.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, userID string, evt events.SocketEvent) error {
	log.Infof("notification %s for user %s", evt.GetType(), userID)
	return nil
}

type ConnectionStore interface {
	FindByUserID(ctx context.Context, userID string, now int64) ([]string, error)
	Delete(ctx context.Context, connID string) error
}

// GatewayNotifier pushes events through the websocket gateway to the
// connections the user registered.
type GatewayNotifier struct {
	conns   ConnectionStore
	gateway websocket.GatewayClient
	metrics *metrics.DomainMetrics
}

func NewGatewayNotifier(conns ConnectionStore, gateway websocket.GatewayClient, m *metrics.DomainMetrics) *GatewayNotifier {
	return &GatewayNotifier{conns: conns, gateway: gateway, metrics: m}
}

func (g *GatewayNotifier) Notify(ctx context.Context, userID string, evt events.SocketEvent) error {
	ids, err := g.conns.FindByUserID(ctx, userID, utils.NowUTC())
	if err != nil {
		return fmt.Errorf("fetch connections for user %s: %w", userID, err)
	}

	envelope := events.Envelope(evt)
	var errs []error
	for _, connID := range ids {
		err = g.gateway.PostToConnection(ctx, connID, envelope)
		switch {
		case errors.Is(err, websocket.ErrGone):
			// The client went away without a disconnect call
			if derr := g.conns.Delete(ctx, connID); derr != nil {
				log.Warnf("failed to drop gone connection %s: %v", connID, derr)
			}

		case err != nil:
			errs = append(errs, err)
		}
		g.metrics.Notification(string(evt.GetType()), err == nil)
	}
	return errors.Join(errs...)
}
