package contract

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Role     string `json:"role" validate:"omitempty,oneof=admin member"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateUserRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
