package dto

// MessageResponse is the body of every static status endpoint
type MessageResponse struct {
	Message string `json:"message"`
}
