package policy

import (
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils/apierror"
)

// NotePolicy encapsulates all business rules for note manipulation.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
//
// Notes are private to their owner: tenant-mates, admins included, get the
// same NotFound a missing id would produce.
type NotePolicy struct{}

func NewNotePolicy() *NotePolicy {
	return &NotePolicy{}
}

func (p *NotePolicy) CanSee(note *entity.Note, actor *entity.Identity) apierror.ErrorResponse {
	if err := RequireIdentity(actor); err != nil {
		return err
	}

	if note == nil ||
		note.TenantID != actor.TenantID ||
		note.UserID != actor.UserID {
		return apierror.NoteNotFoundError
	}
	return nil
}

func (p *NotePolicy) CanUpdate(note *entity.Note, actor *entity.Identity) apierror.ErrorResponse {
	return p.CanSee(note, actor)
}

func (p *NotePolicy) CanDelete(note *entity.Note, actor *entity.Identity) apierror.ErrorResponse {
	return p.CanSee(note, actor)
}

// RequireIdentity rejects anonymous callers.
func RequireIdentity(actor *entity.Identity) apierror.ErrorResponse {
	if actor == nil || actor.UserID == "" || actor.TenantID == "" {
		return apierror.UnauthorizedError
	}
	return nil
}

// RequireAdmin rejects anonymous callers and non-admins.
func RequireAdmin(actor *entity.Identity, msg string) apierror.ErrorResponse {
	if err := RequireIdentity(actor); err != nil {
		return err
	}

	if !actor.IsAdmin() {
		return apierror.NewForbidden(msg)
	}
	return nil
}
