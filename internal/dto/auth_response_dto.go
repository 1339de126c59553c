package dto

// LoginResponse carries the issued access token and the user profile.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
