package dto

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool       `json:"success"`
	Error   *ErrorInfo `json:"error"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	// MissingFields lists required provider settings absent when enabling.
	MissingFields []string `json:"missingFields,omitempty"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// NewMissingFieldsResponse creates the error response for an incomplete provider
func NewMissingFieldsResponse(message, requestID string, missing []string) ErrorResponse {
	resp := NewErrorResponse(ErrCodeMissingConfigFields, message, requestID)
	resp.Error.MissingFields = missing
	return resp
}
