package contract

const DefaultInvitationMessage = "The admin has invited you to consider upgrading to Pro for unlimited notes!"

type SendInvitationRequest struct {
	Message string `json:"message" validate:"max=500"`
}

type InvitationResponse struct {
	ID         string `json:"id"`
	TargetUser string `json:"target_user"`
	Message    string `json:"message"`
	SentAt     string `json:"sent_at"`
}

type InvitationSender struct {
	Email string `json:"email"`
}

type PendingInvitation struct {
	ID        string            `json:"id"`
	Message   string            `json:"message"`
	FromUser  *InvitationSender `json:"from_user"`
	CreatedAt string            `json:"created_at"`
	Status    string            `json:"status"`
}

type RespondInvitationRequest struct {
	InvitationID string `json:"invitation_id" validate:"required,max=64,nospaces"`
	Action       string `json:"action" validate:"required,oneof=accept decline"`
}
