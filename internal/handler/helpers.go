package handler

// ErrorResponse is the JSON error body returned by all endpoints
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

func stringPtr(s string) *string {
	return &s
}
