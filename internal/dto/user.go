package dto

// CreateUserRequest registers an account.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"max=72"`
	Type     string `json:"type" validate:"required"`
}
