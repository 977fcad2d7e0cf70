package prompt

// Field bounds, counted in Unicode code points.
const (
	MaxBrandNameLength       = 120
	MaxTaglineLength         = 200
	MaxDescriptionLength     = 800
	MaxTargetAudienceLength  = 400
	MaxFormattingNotesLength = 400
	MaxBriefLength           = 2000
	MaxAdditionalContext     = 2000
	MaxVoiceListEntries      = 30
	MinEmojiLevel            = 0
	MaxEmojiLevel            = 5
)

// BrandVoice shapes word choice through tone and keyword lists.
type BrandVoice struct {
	Tone     Tone     `json:"tone" yaml:"tone" jsonschema:"enum=professional,enum=friendly,enum=playful,enum=bold,enum=luxurious,enum=minimalist,enum=other,default=professional"`
	Keywords []string `json:"keywords" yaml:"keywords" jsonschema:"maxItems=30"`
	Avoid    []string `json:"avoid" yaml:"avoid" jsonschema:"maxItems=30"`
}

// BrandSettings describes the brand the content is written for.
type BrandSettings struct {
	BrandName      string     `json:"brand_name" yaml:"brand_name" jsonschema:"required,minLength=1,maxLength=120"`
	Tagline        *string    `json:"tagline" yaml:"tagline" jsonschema:"nullable,maxLength=200"`
	Description    *string    `json:"description" yaml:"description" jsonschema:"nullable,maxLength=800"`
	TargetAudience *string    `json:"target_audience" yaml:"target_audience" jsonschema:"nullable,maxLength=400"`
	Voice          BrandVoice `json:"voice" yaml:"voice"`
}

// StyleSettings are output preferences applied regardless of brand.
type StyleSettings struct {
	Length          LengthPreference `json:"length" yaml:"length" jsonschema:"enum=short,enum=medium,enum=long,default=medium"`
	IncludeHashtags bool             `json:"include_hashtags" yaml:"include_hashtags" jsonschema:"default=true"`
	EmojiLevel      int              `json:"emoji_level" yaml:"emoji_level" jsonschema:"minimum=0,maximum=5,default=0"`
	FormattingNotes *string          `json:"formatting_notes" yaml:"formatting_notes" jsonschema:"nullable,maxLength=400"`
}

// GenerateRequest is a validated prompt generation request.
//
// Values are produced by Validate and are not mutated afterwards.
type GenerateRequest struct {
	Orientation       Orientation   `json:"orientation" yaml:"orientation" jsonschema:"required,enum=post,enum=ad,enum=email,enum=landing_page,enum=other"`
	Platform          Platform      `json:"platform" yaml:"platform" jsonschema:"required,enum=instagram,enum=tiktok,enum=facebook,enum=linkedin,enum=x,enum=youtube,enum=blog,enum=website,enum=other"`
	Brief             string        `json:"brief" yaml:"brief" jsonschema:"required,minLength=1,maxLength=2000"`
	Brand             BrandSettings `json:"brand" yaml:"brand" jsonschema:"required"`
	Style             StyleSettings `json:"style" yaml:"style"`
	AdditionalContext *string       `json:"additional_context" yaml:"additional_context" jsonschema:"nullable,maxLength=2000"`
}

// Metadata is a flat, normalized echo of key request fields.
type Metadata map[string]any

// GenerateResponse carries the composed prompt and its metadata.
type GenerateResponse struct {
	Prompt   string   `json:"prompt" yaml:"prompt"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}

// DefaultBrandVoice returns the voice used when none is supplied.
func DefaultBrandVoice() BrandVoice {
	return BrandVoice{
		Tone:     ToneProfessional,
		Keywords: []string{},
		Avoid:    []string{},
	}
}

// DefaultBrandSettings returns the brand settings offered to new clients.
func DefaultBrandSettings() BrandSettings {
	return BrandSettings{
		BrandName: "Your Brand",
		Voice:     DefaultBrandVoice(),
	}
}

// DefaultStyleSettings returns the style used when none is supplied.
func DefaultStyleSettings() StyleSettings {
	return StyleSettings{
		Length:          LengthMedium,
		IncludeHashtags: true,
		EmojiLevel:      0,
	}
}
