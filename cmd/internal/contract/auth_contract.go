package contract

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginResponse struct {
	User  *SessionUser `json:"user"`
	Token string       `json:"token"`
}

// SessionUser is what the caller's token says about them.
type SessionUser struct {
	ID     string         `json:"id"`
	Email  string         `json:"email"`
	Role   string         `json:"role"`
	Tenant *TenantSummary `json:"tenant"`
}
