package types

// QueryRequest is the payload accepted by POST /api/query.
type QueryRequest struct {
	// Text forwarded to the model as-is. A missing field is treated as "".
	// example: Why is the sky blue?
	Input string `json:"input" example:"Why is the sky blue?"`
}

// QueryResponse wraps the raw model output returned by POST /api/query.
type QueryResponse struct {
	// Completion text produced by the model.
	// example: Rayleigh scattering makes shorter wavelengths dominate.
	Response string `json:"response" example:"Rayleigh scattering makes shorter wavelengths dominate."`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
