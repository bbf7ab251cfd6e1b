package contract

type EventType string

const (
	EventSessionExpired EventType = "SESSION_EXPIRED"

	EventNoteCreated EventType = "NOTE_CREATED"
	EventNoteUpdated EventType = "NOTE_UPDATED"
	EventNoteDeleted EventType = "NOTE_DELETED"

	EventUpgradeInvitation EventType = "UPGRADE_INVITATION"
)

// OutgoingSocketMessage is what we send to the Client
type OutgoingSocketMessage struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}
