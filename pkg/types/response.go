package types

// RequestIDHeader carries the per-request id set by the API middleware. Error
// bodies repeat it so a console user can quote it when reporting a failure.
const RequestIDHeader = "X-Request-ID"

// SuccessEnvelope wraps every 2xx JSON body of the dashboard API.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the body of every non-2xx response. Retryable tells the console
// whether to offer its "Reintentar" action.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
