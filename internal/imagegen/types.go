package imagegen

// ResponseFormat selects how the provider returns image data.
type ResponseFormat string

const (
	ResponseFormatB64 ResponseFormat = "b64_json"
	ResponseFormatURL ResponseFormat = "url"
)

// GenerateRequest describes one image generation call.
type GenerateRequest struct {
	Prompt         string
	Model          string
	Size           string
	Quality        string
	ResponseFormat ResponseFormat
}

// GeneratedImage is the output of one generation call. Exactly one of
// B64JSON and URL is populated, depending on the requested response format.
type GeneratedImage struct {
	B64JSON       string `json:"b64_json,omitempty"`
	URL           string `json:"url,omitempty"`
	RevisedPrompt string `json:"revised_prompt"`
	Style         string `json:"style,omitempty"`
	Size          string `json:"size,omitempty"`
	Quality       string `json:"quality,omitempty"`
}

// Variation is one generated variation of a scene.
type Variation struct {
	Image         string `json:"image"`
	Prompt        string `json:"prompt"`
	VariationType string `json:"variation_type"`
	Style         string `json:"style"`
	RevisedPrompt string `json:"revised_prompt"`
}
