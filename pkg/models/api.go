package models

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// GenerateResponse is returned by the generation endpoint
type GenerateResponse struct {
	GeneratedMessage string `json:"generatedMessage"`
}

// RefineRequest asks for a follow-up rewrite of a generated message
type RefineRequest struct {
	OriginalMessage string `json:"originalMessage" validate:"required,max=16384"`
	UserFollowUp    string `json:"userFollowUp" validate:"required,max=8192"`
	Tone            string `json:"tone" validate:"required"`
	Context         string `json:"context" validate:"required"`
}

// RefineResponse is returned by the refinement endpoint
type RefineResponse struct {
	RefinedMessage string `json:"refinedMessage"`
}

// ToneInfo describes one registry entry for clients
type ToneInfo struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	HasInstructions bool   `json:"hasInstructions"`
}

// TonesResponse lists the enumerations accepted by the generation endpoint
type TonesResponse struct {
	Tones         []ToneInfo `json:"tones"`
	DefaultTone   string     `json:"defaultTone"`
	Contexts      []string   `json:"contexts"`
	OutputFormats []string   `json:"outputFormats"`
	OutputLengths []string   `json:"outputLengths"`
}

// HealthResponse is returned by /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// SuccessResponse is a generic acknowledgement
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
