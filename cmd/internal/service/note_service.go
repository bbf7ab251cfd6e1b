package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/database/repository"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/domain/events"
	"tenantnotes/cmd/internal/domain/policy"
	"tenantnotes/cmd/internal/metrics"
	"tenantnotes/cmd/internal/notification"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

const notifyTimeout = 5 * time.Second

type NoteRepository interface {
	FindAllByOwner(ctx context.Context, tenantID, userID string) ([]*entity.Note, error)
	FindByID(ctx context.Context, id string) (*entity.Note, error)
	CountByOwner(ctx context.Context, tenantID, userID string) (int64, error)
	CreateWithinQuota(ctx context.Context, note *entity.Note, check repository.QuotaCheck) error
	Save(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, note *entity.Note) error
}

// quotaRejection carries a policy refusal out of the create transaction.
type quotaRejection struct {
	resp apierror.ErrorResponse
}

func (q *quotaRejection) Error() string {
	return "note quota rejected"
}

type DefaultNoteService struct {
	NoteRepo NoteRepository
	Quota    *policy.QuotaPolicy
	Notifier notification.Notifier
	Validate *validator.Validate
	Policy   *policy.NotePolicy
	Metrics  *metrics.DomainMetrics
}

func NewNoteService(
	noteRepo NoteRepository,
	quota *policy.QuotaPolicy,
	notifier notification.Notifier,
	validate *validator.Validate,
	m *metrics.DomainMetrics,
) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo: noteRepo,
		Quota:    quota,
		Notifier: notifier,
		Validate: validate,
		Policy:   policy.NewNotePolicy(),
		Metrics:  m,
	}
}

// GetNotes lists the caller's own notes. Other users' notes are never
// listed, not even for admins.
func (n *DefaultNoteService) GetNotes(ctx context.Context, actor *entity.Identity) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	if err := policy.RequireIdentity(actor); err != nil {
		return nil, err
	}

	notes, err := n.NoteRepo.FindAllByOwner(ctx, actor.TenantID, actor.UserID)
	if err != nil {
		log.Errorf("failed to fetch notes: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note)
	}
	return resp, nil
}

func (n *DefaultNoteService) GetNoteByID(ctx context.Context, actor *entity.Identity, noteID string) (*contract.NoteResponse, apierror.ErrorResponse) {
	if err := policy.RequireIdentity(actor); err != nil {
		return nil, err
	}

	note, apierr := n.findNote(ctx, noteID)
	if apierr != nil {
		return nil, apierr
	}

	if err := n.Policy.CanSee(note, actor); err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) CreateNote(ctx context.Context, actor *entity.Identity, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	if err := policy.RequireIdentity(actor); err != nil {
		return nil, err
	}

	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	now := utils.NowUTC()
	note := &entity.Note{
		Title:     req.Title,
		Content:   req.Content,
		UserID:    actor.UserID,
		TenantID:  actor.TenantID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := n.NoteRepo.CreateWithinQuota(ctx, note, func(tenant *entity.Tenant, owned int64) error {
		if rejection := n.Quota.Check(tenant, owned); rejection != nil {
			return &quotaRejection{resp: rejection}
		}
		return nil
	})

	var rejected *quotaRejection
	switch {
	case errors.As(err, &rejected):
		if rejected.resp.Kind() == apierror.KindQuotaExceeded {
			n.Metrics.QuotaRejected()
		}
		return nil, rejected.resp

	case errors.Is(err, repository.ErrTenantNotFound):
		return nil, apierror.TenantNotFoundError

	case errors.Is(err, repository.ErrOwnerNotFound):
		// The token outlived the account
		return nil, apierror.UserNotFoundError

	case err != nil:
		log.Errorf("failed to create note: %v", err)
		return nil, apierror.InternalServerError
	}

	note.User = &entity.User{ID: actor.UserID, Email: actor.Email}
	resp := toNoteResponse(note)
	go n.dispatch(actor.UserID, &events.NoteCreated{NoteResponse: resp})
	return resp, nil
}

func (n *DefaultNoteService) UpdateNote(ctx context.Context, actor *entity.Identity, noteID string, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	if err := policy.RequireIdentity(actor); err != nil {
		return nil, err
	}

	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, apierr := n.findNote(ctx, noteID)
	if apierr != nil {
		return nil, apierr
	}

	if err := n.Policy.CanUpdate(note, actor); err != nil {
		return nil, err
	}

	note.Title = req.Title
	note.Content = req.Content
	note.UpdatedAt = utils.NowUTC()
	if err := n.NoteRepo.Save(ctx, note); err != nil {
		log.Errorf("failed to update note %s: %v", note.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := toNoteResponse(note)
	go n.dispatch(actor.UserID, &events.NoteUpdated{NoteResponse: resp})
	return resp, nil
}

func (n *DefaultNoteService) DeleteNote(ctx context.Context, actor *entity.Identity, noteID string) apierror.ErrorResponse {
	if err := policy.RequireIdentity(actor); err != nil {
		return err
	}

	note, apierr := n.findNote(ctx, noteID)
	if apierr != nil {
		return apierr
	}

	if err := n.Policy.CanDelete(note, actor); err != nil {
		return err
	}

	if err := n.NoteRepo.Delete(ctx, note); err != nil {
		log.Errorf("failed to delete note %s: %v", note.ID, err)
		return apierror.InternalServerError
	}

	go n.dispatch(actor.UserID, &events.NoteDeleted{NoteID: note.ID})
	return nil
}

func (n *DefaultNoteService) findNote(ctx context.Context, noteID string) (*entity.Note, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(ctx, noteID)
	if err != nil {
		log.Errorf("failed to fetch note %s: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NoteNotFoundError
	}
	return note, nil
}

// dispatch runs detached from the request, which may be gone by now.
func (n *DefaultNoteService) dispatch(userID string, evt events.SocketEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := n.Notifier.Notify(ctx, userID, evt); err != nil {
		log.Warnf("failed to deliver %s to user %s: %v", evt.GetType(), userID, err)
	}
}

func toNoteResponse(note *entity.Note) *contract.NoteResponse {
	resp := &contract.NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		UserID:    note.UserID,
		TenantID:  note.TenantID,
		CreatedAt: utils.FormatEpoch(note.CreatedAt),
		UpdatedAt: utils.FormatEpoch(note.UpdatedAt),
	}

	if note.User != nil {
		resp.OwnerEmail = note.User.Email
	}
	return resp
}
