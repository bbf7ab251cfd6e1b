package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"tenantnotes/cmd/internal/auth"
	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/metrics"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

type TokenIssuer interface {
	Issue(identity *entity.Identity) (string, time.Time, error)
	TTL() time.Duration
}

type DefaultAuthService struct {
	UserRepo UserRepository
	Tokens   TokenIssuer
	Validate *validator.Validate
	Metrics  *metrics.DomainMetrics
}

func NewAuthService(userRepo UserRepository, tokens TokenIssuer, validate *validator.Validate, m *metrics.DomainMetrics) *DefaultAuthService {
	return &DefaultAuthService{
		UserRepo: userRepo,
		Tokens:   tokens,
		Validate: validate,
		Metrics:  m,
	}
}

// Login exchanges credentials for a session token. An unknown email and a
// wrong password produce the same error and cost the same bcrypt work.
func (a *DefaultAuthService) Login(ctx context.Context, req *contract.LoginRequest) (*contract.LoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = utils.NormalizeEmail(req.Email)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	user, err := a.UserRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to fetch user for login: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		auth.BurnPasswordCheck(req.Password)
		a.Metrics.Login(false)
		return nil, apierror.InvalidCredentialsError
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		a.Metrics.Login(false)
		return nil, apierror.InvalidCredentialsError
	}

	if user.Tenant == nil {
		log.Errorf("user %s has no tenant loaded", user.ID)
		return nil, apierror.InternalServerError
	}

	identity := &entity.Identity{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		TenantID:   user.TenantID,
		TenantSlug: user.Tenant.Slug,
	}

	token, _, err := a.Tokens.Issue(identity)
	if err != nil {
		log.Errorf("failed to issue token for user %s: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	a.Metrics.Login(true)
	return &contract.LoginResponse{
		User: &contract.SessionUser{
			ID:    user.ID,
			Email: user.Email,
			Role:  string(user.Role),
			Tenant: &contract.TenantSummary{
				ID:           user.Tenant.ID,
				Slug:         user.Tenant.Slug,
				Name:         user.Tenant.Name,
				Subscription: string(user.Tenant.Subscription),
			},
		},
		Token: token,
	}, nil
}

// TokenTTL is how long the cookie set on login should live.
func (a *DefaultAuthService) TokenTTL() time.Duration {
	return a.Tokens.TTL()
}

// Me describes the caller from their token alone.
func (a *DefaultAuthService) Me(actor *entity.Identity) *contract.SessionUser {
	return &contract.SessionUser{
		ID:    actor.UserID,
		Email: actor.Email,
		Role:  string(actor.Role),
		Tenant: &contract.TenantSummary{
			ID:   actor.TenantID,
			Slug: actor.TenantSlug,
		},
	}
}
