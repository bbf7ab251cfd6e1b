package events

import "tenantnotes/cmd/internal/contract"

type SocketEvent interface {
	GetType() contract.EventType
}

// Envelope wraps an event the way clients expect to receive it.
func Envelope(evt SocketEvent) *contract.OutgoingSocketMessage {
	return &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}
}

type SessionExpired struct{}

func (*SessionExpired) GetType() contract.EventType {
	return contract.EventSessionExpired
}

type NoteCreated struct {
	*contract.NoteResponse
}

func (e *NoteCreated) GetType() contract.EventType {
	return contract.EventNoteCreated
}

type NoteUpdated struct {
	*contract.NoteResponse
}

func (e *NoteUpdated) GetType() contract.EventType {
	return contract.EventNoteUpdated
}

type NoteDeleted struct {
	NoteID string `json:"id"`
}

func (e *NoteDeleted) GetType() contract.EventType {
	return contract.EventNoteDeleted
}

type UpgradeInvitation struct {
	*contract.InvitationResponse
	FromUser string `json:"from_user"`
}

func (e *UpgradeInvitation) GetType() contract.EventType {
	return contract.EventUpgradeInvitation
}
