package biz

import "time"

// GenerateImageRequest carries one generation request into the use case.
type GenerateImageRequest struct {
	Prompt  string
	Model   string
	Size    string
	Quality string
	Style   string
	Save    bool
}

// GenerateImageResult is the outcome of a single generation.
type GenerateImageResult struct {
	Image          string
	RevisedPrompt  string
	OriginalPrompt string
	EnhancedPrompt string
	Style          string
	Size           string
	Quality        string
	RecordID       string
}

// ScriptSegment is one timed segment of a narration script.
type ScriptSegment struct {
	Timestamp string
	Text      string
}

// SegmentImage is the image generated for one segment.
type SegmentImage struct {
	Image         string  `json:"image"`
	Source        string  `json:"source"`
	RevisedPrompt string  `json:"revised_prompt"`
	Style         string  `json:"style"`
	CostEstimate  float64 `json:"cost_estimate"`
}

// EnrichedSegment is a script segment after batch processing. Exactly one
// of GeneratedImage and GenerationError is set.
type EnrichedSegment struct {
	Timestamp       string        `json:"timestamp"`
	Text            string        `json:"text"`
	GeneratedImage  *SegmentImage `json:"generated_image,omitempty"`
	GenerationError string        `json:"generation_error,omitempty"`
}

// ProcessScriptRequest carries a script batch into the use case.
type ProcessScriptRequest struct {
	Segments []ScriptSegment
	Style    string
	Save     bool
	ScriptID string
}

// ProcessScriptResult summarizes a processed script batch.
type ProcessScriptResult struct {
	EnrichedSegments     []EnrichedSegment
	TotalProcessed       int
	TotalImagesGenerated int
	CollectionID         string
}

// GeneratedImageRecord is the persisted record of one generation. ImageRef
// holds only a truncated prefix of the payload; ObjectKey points at the
// archived full payload when archiving is enabled.
type GeneratedImageRecord struct {
	ID             string
	Prompt         string
	EnhancedPrompt string
	RevisedPrompt  string
	Style          string
	Size           string
	Quality        string
	Model          string
	ImageRef       string
	ObjectKey      string
	CreatedAt      time.Time
}

// SegmentSummary is the persisted per-segment summary of a script batch.
type SegmentSummary struct {
	Timestamp     string `json:"timestamp"`
	Text          string `json:"text"`
	HasImage      bool   `json:"has_image"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// ScriptCollection is the persisted record of one processed script batch.
type ScriptCollection struct {
	ID            string
	ScriptID      string
	Style         string
	CreatedAt     time.Time
	TotalSegments int
	Segments      []SegmentSummary
}

// ImageStatus is the queryable summary of a script collection.
type ImageStatus struct {
	ScriptID           string `json:"script_id"`
	CreatedAt          string `json:"created_at"`
	TotalSegments      int    `json:"total_segments"`
	SegmentsWithImages int    `json:"segments_with_images"`
	Style              string `json:"style"`
}
