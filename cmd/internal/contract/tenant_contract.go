package contract

type TenantSummary struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name,omitempty"`
	Subscription string `json:"subscription,omitempty"`
}

// TenantResponse is the tenant as seen by one of its users. The quota
// fields describe the caller's own allowance.
type TenantResponse struct {
	ID            string `json:"id"`
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	Subscription  string `json:"subscription"`
	NoteCount     int64  `json:"note_count"`
	UserNoteCount int64  `json:"user_note_count"`
	NoteLimit     *int   `json:"note_limit"`
	IsAtLimit     bool   `json:"is_at_limit"`
}

type UpdateTenantRequest struct {
	Subscription string `json:"subscription" validate:"required,oneof=free pro"`
}
