package service

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/domain/events"
	"tenantnotes/cmd/internal/infrastructure/aws/websocket"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

type ConnectionRepository interface {
	Save(ctx context.Context, conn *entity.Connection) error
	FindByID(ctx context.Context, connID string) (*entity.Connection, error)
	Delete(ctx context.Context, connID string) error
	DeleteForUser(ctx context.Context, connID, userID string) error
	FindByUserID(ctx context.Context, userID string, now int64) ([]string, error)
	FindExpired(ctx context.Context, now int64) ([]*entity.Connection, error)
}

// WebSocketService keeps track of the gateway connections opened by
// authenticated users. Gateway may be nil when no gateway is configured.
type WebSocketService struct {
	ConnRepo ConnectionRepository
	Gateway  websocket.GatewayClient
}

func NewWebSocketService(repo ConnectionRepository, gateway websocket.GatewayClient) *WebSocketService {
	return &WebSocketService{
		ConnRepo: repo,
		Gateway:  gateway,
	}
}

// RegisterConnection binds 'connID' to the caller until their token expires.
// A connection already bound to another user is never taken over.
func (s *WebSocketService) RegisterConnection(ctx context.Context, actor *entity.Identity, connID string, expiresAt time.Time) apierror.ErrorResponse {
	now := utils.NowUTC()
	if !expiresAt.After(time.UnixMilli(now)) {
		return apierror.UnauthorizedError
	}

	existing, err := s.ConnRepo.FindByID(ctx, connID)
	if err != nil {
		log.Errorf("failed to fetch connection %s: %v", connID, err)
		return apierror.InternalServerError
	}

	if existing != nil && existing.UserID != actor.UserID {
		return apierror.NewForbidden("Connection is bound to another user")
	}

	conn := &entity.Connection{
		ConnectionID: connID,
		UserID:       actor.UserID,
		TenantID:     actor.TenantID,
		ExpiresAt:    expiresAt.UnixMilli(),
		CreatedAt:    now,
	}

	if err := s.ConnRepo.Save(ctx, conn); err != nil {
		log.Errorf("failed to save connection: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *WebSocketService) RemoveConnection(ctx context.Context, connectionID string) {
	// We don't return error here because if it fails, it's not the client's fault
	if err := s.ConnRepo.Delete(ctx, connectionID); err != nil {
		log.Warnf("failed to remove connection %s: %v", connectionID, err)
	}
}

// RemoveUserConnection drops 'connectionID' only if the caller registered it.
func (s *WebSocketService) RemoveUserConnection(ctx context.Context, actor *entity.Identity, connectionID string) {
	if err := s.ConnRepo.DeleteForUser(ctx, connectionID, actor.UserID); err != nil {
		log.Warnf("failed to remove connection %s: %v", connectionID, err)
	}
}

// ExpireConnections tells every client whose session ran out, closes its
// connection and forgets it. It returns how many connections were dropped.
func (s *WebSocketService) ExpireConnections(ctx context.Context) int {
	conns, err := s.ConnRepo.FindExpired(ctx, utils.NowUTC())
	if err != nil {
		log.Errorf("failed to fetch expired connections: %v", err)
		return 0
	}

	envelope := events.Envelope(&events.SessionExpired{})
	for _, conn := range conns {
		if s.Gateway != nil {
			// Notify Client (So they know NOT to try reconnecting)
			_ = s.Gateway.PostToConnection(ctx, conn.ConnectionID, envelope)
			_ = s.Gateway.DeleteConnection(ctx, conn.ConnectionID)
		}

		if err = s.ConnRepo.Delete(ctx, conn.ConnectionID); err != nil {
			log.Warnf("failed to remove expired connection %s: %v", conn.ConnectionID, err)
		}
	}
	return len(conns)
}
