package dto

type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string              `json:"token"`
	User  UserProfileResponse `json:"user"`
}

type UserProfileResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type UserProfileWithRoles struct {
	UserProfileResponse
	Roles []string `json:"roles"`
}

// AuthResponse is the verified access-token identity stored in fiber locals.
type AuthResponse struct {
	UserID uint     `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	Iat    int64    `json:"iat"`
	Expiry int64    `json:"expiry"`
}
