package utils

// ErrorResponse is the body of a failed request. Error carries the detail,
// which is replaced by a generic text for internal failures.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

const internalErrorDetail = "internal error"

// NewErrorResponse hides err's text when status is a server error.
func NewErrorResponse(status int, message string, err error) ErrorResponse {
	detail := internalErrorDetail
	if status < 500 && err != nil {
		detail = err.Error()
	}
	return ErrorResponse{Status: status, Message: message, Error: detail}
}
