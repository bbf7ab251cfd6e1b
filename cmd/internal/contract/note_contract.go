package contract

type NoteResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	UserID     string `json:"user_id"`
	OwnerEmail string `json:"owner_email,omitempty"`
	TenantID   string `json:"tenant_id"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type NoteRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=100000"`
}
