package user

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	UserID string `json:"user_id" validate:"required,path_segment"`
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	UserID string
}
