package imagegen

import "fmt"

// styleModifiers maps a style tag to the descriptive phrase appended to
// prompts. Unknown tags fall back to the cinematic phrase.
var styleModifiers = map[string]string{
	"cinematic":   "cinematic lighting, professional photography, film-like quality",
	"documentary": "documentary style, realistic, natural lighting, authentic",
	"cartoon":     "illustrated style, vibrant colors, cartoon-like, animated",
	"minimalist":  "clean, minimal, simple composition, elegant",
}

// variationModifiers is the fixed, ordered list of camera/composition
// phrases used for scene variations. An array, so len stays a constant
// expression.
var variationModifiers = [5]string{
	"close-up perspective, detailed",
	"wide angle view, environmental context",
	"medium shot, balanced composition",
	"artistic angle, creative perspective",
	"professional lighting, studio quality",
}

// MaxVariations is the upper bound on variations per scene.
const MaxVariations = len(variationModifiers)

// StyleModifier resolves a style tag to its descriptive phrase.
func StyleModifier(style string) string {
	if modifier, ok := styleModifiers[style]; ok {
		return modifier
	}
	return styleModifiers["cinematic"]
}

// EnhancePrompt appends the style phrase and quality suffix to a prompt.
// The exact punctuation is part of the contract.
func EnhancePrompt(prompt string, style string) string {
	return fmt.Sprintf("%s, %s, high quality", prompt, StyleModifier(style))
}

// VariationPrompt builds the prompt for the i-th variation of a scene.
func VariationPrompt(scene string, i int, style string) string {
	return fmt.Sprintf("%s, %s, %s style", scene, variationModifiers[i], style)
}

// VariationModifiers returns the ordered modifier list.
func VariationModifiers() []string {
	out := make([]string, len(variationModifiers))
	copy(out, variationModifiers[:])
	return out
}
