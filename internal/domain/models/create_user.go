package model

type CreateUserDTO struct {
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name,omitempty"`
}
