package dto

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

// StepResponse is returned by wizard step endpoints. A failed step still
// carries the session so partial artifacts from earlier steps stay
// visible, and the error is shown inline for retry.
type StepResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type SessionTokenResponse struct {
	Token   string `json:"token"`
	Session any    `json:"session"`
}
