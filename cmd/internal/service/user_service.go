package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
	"tenantnotes/cmd/internal/auth"
	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/domain/policy"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

type UserRepository interface {
	FindAllByTenant(ctx context.Context, tenantID string) ([]*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindFirstAdmin(ctx context.Context, tenantID string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *entity.User) error
	UpdateRole(ctx context.Context, user *entity.User, role entity.Role, now int64) error
	Delete(ctx context.Context, user *entity.User) error
}

type DefaultUserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Policy   *policy.UserPolicy
}

func NewUserService(userRepo UserRepository, validate *validator.Validate) *DefaultUserService {
	return &DefaultUserService{
		UserRepo: userRepo,
		Validate: validate,
		Policy:   policy.NewUserPolicy(),
	}
}

func (s *DefaultUserService) GetUsers(ctx context.Context, actor *entity.Identity) ([]*contract.UserResponse, apierror.ErrorResponse) {
	if err := s.Policy.CanListUsers(actor); err != nil {
		return nil, err
	}

	users, err := s.UserRepo.FindAllByTenant(ctx, actor.TenantID)
	if err != nil {
		log.Errorf("failed to fetch users of tenant %s: %v", actor.TenantID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

// CreateUser adds a user to the caller's tenant. The tenant always comes
// from the caller, never from the request.
func (s *DefaultUserService) CreateUser(ctx context.Context, actor *entity.Identity, req *contract.CreateUserRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	if err := s.Policy.CanCreateUser(actor); err != nil {
		return nil, err
	}

	utils.Sanitize(req)
	req.Email = utils.NormalizeEmail(req.Email)
	if req.Role == "" {
		req.Role = string(entity.RoleMember)
	}

	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	exists, err := s.UserRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to check email availability: %v", err)
		return nil, apierror.InternalServerError
	}

	if exists {
		return nil, apierror.UserAlreadyExistsError
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         entity.Role(req.Role),
		TenantID:     actor.TenantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.UserRepo.Create(ctx, user)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierror.UserAlreadyExistsError
	}

	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

func (s *DefaultUserService) UpdateUser(ctx context.Context, actor *entity.Identity, targetID string, req *contract.UpdateUserRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	if err := s.Policy.CanChangeRole(actor, targetID); err != nil {
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

	updater := &userUpdater{actor: actor, target: target, policy: s.Policy}
	updater.setRole(entity.Role(req.Role))
	if updater.err != nil {
		return nil, updater.err
	}

	if updater.dirty {
		err = s.UserRepo.UpdateRole(ctx, target, updater.role, utils.NowUTC())
		if err != nil {
			log.Errorf("failed to update role of user %s: %v", target.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toUserResponse(target), nil
}

// DeleteUser removes the target and all of their notes.
func (s *DefaultUserService) DeleteUser(ctx context.Context, actor *entity.Identity, targetID string) apierror.ErrorResponse {
	if err := s.Policy.CanDelete(actor, targetID); err != nil {
		return err
	}

	target, err := s.UserRepo.FindByID(ctx, targetID)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", targetID, err)
		return apierror.InternalServerError
	}

	if perr := s.Policy.CanDeleteTarget(actor, target); perr != nil {
		return perr
	}

	if err = s.UserRepo.Delete(ctx, target); err != nil {
		log.Errorf("failed to delete user %s: %v", target.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
	}
}
