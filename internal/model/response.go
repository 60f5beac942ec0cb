package model

// Every endpoint answers with one of two envelopes:
//
//	success: {"success": true,  "data": <payload>}
//	error:   {"success": false, "error": "<code>", "message": "<text>"}

// SuccessResponse wraps a payload for successful requests.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse carries a machine-readable code and a human-readable message.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// OK builds a success envelope.
func OK(data any) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}

// Err builds an error envelope.
func Err(code, message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: code, Message: message}
}
