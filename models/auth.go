package models

// Credentials is the body of register and login requests.
type Credentials struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email,omitempty"`
}

// ChangePasswordRequest is the body of a password change request.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Session is the outcome of a successful register or login: the account and
// an access token bound to a server-side session.
type Session struct {
	User  User
	Token Token
}
