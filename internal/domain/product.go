package domain

// GenerationRequest is the validated input for a product copy generation.
type GenerationRequest struct {
	ImageURL  string   `json:"imageUrl"`
	Languages []string `json:"languages"`
	Model     string   `json:"model"`
	Length    string   `json:"length"`
	Tone      string   `json:"tone"`

	// Provider forces a specific upstream provider. Set by legacy routes only.
	Provider string `json:"-"`
}

// Description is the product copy for a single language.
type Description struct {
	Language    string `json:"language"`
	Description string `json:"description"`
}

// GenerationResult is the canonical response shape: one product name per
// requested language plus the ordered descriptions.
type GenerationResult struct {
	ProductNames map[string]string `json:"productNames"`
	Descriptions []Description     `json:"descriptions"`
}

// ReplaceBackgroundRequest is the body accepted by the background relay.
type ReplaceBackgroundRequest struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

// ReplaceBackgroundResult mirrors the response the web UI expects.
type ReplaceBackgroundResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}
