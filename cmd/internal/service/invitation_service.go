package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/domain/events"
	"tenantnotes/cmd/internal/domain/policy"
	"tenantnotes/cmd/internal/notification"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

const (
	ActionAccept  = "accept"
	ActionDecline = "decline"

	pendingInvitationID      = "pending-upgrade"
	pendingInvitationMessage = "Your admin suggests upgrading to Pro for unlimited notes!"
)

type TenantUpgrader interface {
	UpgradeOwnTenant(ctx context.Context, actor *entity.Identity) (*contract.TenantSummary, apierror.ErrorResponse)
}

// InvitationResult is the outcome of answering an upgrade invitation.
type InvitationResult struct {
	Message string
	Tenant  *contract.TenantSummary
}

// DefaultInvitationService handles upgrade invitations. Invitations are not
// stored: sending one only notifies the target, and the pending list is
// derived from the tenant's current plan.
type DefaultInvitationService struct {
	UserRepo   UserRepository
	TenantRepo TenantRepository
	Upgrader   TenantUpgrader
	Notifier   notification.Notifier
	Validate   *validator.Validate
	Policy     *policy.InvitationPolicy
}

func NewInvitationService(
	userRepo UserRepository,
	tenantRepo TenantRepository,
	upgrader TenantUpgrader,
	notifier notification.Notifier,
	validate *validator.Validate,
) *DefaultInvitationService {
	return &DefaultInvitationService{
		UserRepo:   userRepo,
		TenantRepo: tenantRepo,
		Upgrader:   upgrader,
		Notifier:   notifier,
		Validate:   validate,
		Policy:     policy.NewInvitationPolicy(),
	}
}

func (s *DefaultInvitationService) SendInvitation(ctx context.Context, actor *entity.Identity, targetID string, req *contract.SendInvitationRequest) (*contract.InvitationResponse, apierror.ErrorResponse) {
	if err := s.Policy.CanSend(actor); err != nil {
		return nil, err
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	target, err := s.UserRepo.FindByID(ctx, targetID)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", targetID, err)
		return nil, apierror.InternalServerError
	}

	if perr := s.Policy.CanSendTo(actor, target); perr != nil {
		return nil, perr
	}

	message := req.Message
	if message == "" {
		message = contract.DefaultInvitationMessage
	}

	invitation := &contract.InvitationResponse{
		ID:         "inv_" + uuid.NewString(),
		TargetUser: target.Email,
		Message:    message,
		SentAt:     utils.FormatEpoch(utils.NowUTC()),
	}

	go s.deliver(target.ID, &events.UpgradeInvitation{
		InvitationResponse: invitation,
		FromUser:           actor.Email,
	})
	return invitation, nil
}

// GetInvitations lists what the caller could act on: a single upgrade
// suggestion while their tenant is on the free plan, nothing otherwise.
func (s *DefaultInvitationService) GetInvitations(ctx context.Context, actor *entity.Identity) ([]*contract.PendingInvitation, apierror.ErrorResponse) {
	if err := policy.RequireIdentity(actor); err != nil {
		return nil, err
	}

	tenant, err := s.TenantRepo.FindByID(ctx, actor.TenantID)
	if err != nil {
		log.Errorf("failed to fetch tenant %s: %v", actor.TenantID, err)
		return nil, apierror.InternalServerError
	}

	invitations := []*contract.PendingInvitation{}
	if tenant == nil || tenant.Subscription != entity.SubscriptionFree {
		return invitations, nil
	}

	admin, err := s.UserRepo.FindFirstAdmin(ctx, tenant.ID)
	if err != nil {
		log.Errorf("failed to fetch admin of tenant %s: %v", tenant.ID, err)
		return nil, apierror.InternalServerError
	}

	pending := &contract.PendingInvitation{
		ID:        pendingInvitationID,
		Message:   pendingInvitationMessage,
		CreatedAt: utils.FormatEpoch(tenant.CreatedAt),
		Status:    "pending",
	}
	if admin != nil {
		pending.FromUser = &contract.InvitationSender{Email: admin.Email}
	}
	return append(invitations, pending), nil
}

func (s *DefaultInvitationService) RespondInvitation(ctx context.Context, actor *entity.Identity, req *contract.RespondInvitationRequest) (*InvitationResult, apierror.ErrorResponse) {
	if err := policy.RequireIdentity(actor); err != nil {
		return nil, err
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	if req.Action == ActionDecline {
		return &InvitationResult{Message: "Upgrade invitation declined"}, nil
	}

	if err := s.Policy.CanAccept(actor); err != nil {
		return nil, err
	}

	tenant, apierr := s.Upgrader.UpgradeOwnTenant(ctx, actor)
	if apierr != nil {
		return nil, apierr
	}
	return &InvitationResult{Message: "Subscription upgraded successfully!", Tenant: tenant}, nil
}

// deliver never fails the request: the invitation is already answered.
func (s *DefaultInvitationService) deliver(userID string, evt events.SocketEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.Notifier.Notify(ctx, userID, evt); err != nil {
		log.Warnf("failed to deliver upgrade invitation to user %s: %v", userID, err)
	}
}

