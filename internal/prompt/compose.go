package prompt

import (
	"fmt"
	"strings"
)

const (
	persona       = "You are a world-class brand copywriter and prompt engineer."
	notApplicable = "N/A"
)

var orientationNotes = map[Orientation]string{
	OrientationPost:        "Create a social post draft.",
	OrientationAd:          "Create ad-focused copy (attention, offer, CTA) and include 2-3 variants.",
	OrientationEmail:       "Create an email draft with subject lines and a clear CTA.",
	OrientationLandingPage: "Create landing-page copy with hero, benefits, social proof ideas, and CTA.",
	OrientationOther:       "Create content appropriate to the intent described.",
}

var platformNotes = map[Platform]string{
	PlatformInstagram: "Optimize for Instagram: strong hook, short paragraphs, optional hashtags.",
	PlatformTikTok:    "Optimize for TikTok: punchy, conversational, high-energy; include on-screen text suggestions if useful.",
	PlatformFacebook:  "Optimize for Facebook: clear value proposition, friendly tone, encourage comments/shares when relevant.",
	PlatformLinkedIn:  "Optimize for LinkedIn: professional, credible, insight-driven; avoid slang.",
	PlatformX:         "Optimize for X: concise, bold, high signal; consider a short thread if needed.",
	PlatformYouTube:   "Optimize for YouTube: include a title + hook; structure for spoken delivery if applicable.",
	PlatformBlog:      "Optimize for blog: outline-first, SEO-aware headings, clear structure.",
	PlatformWebsite:   "Optimize for web/landing: benefits-first, scannable sections, clear CTA.",
	PlatformOther:     "Optimize for the specified platform context.",
}

var lengthClauses = map[LengthPreference]string{
	LengthShort:  "Keep it concise.",
	LengthMedium: "Keep it moderately detailed.",
	LengthLong:   "Make it thorough and detailed.",
}

var outputRequirements = []string{
	"- Output only the final content (no analysis).",
	"- Ensure the content is on-brand and platform-appropriate.",
	"- Provide 1 primary version, plus variants if the orientation suggests it (e.g., ads).",
}

// Metadata keys returned alongside every prompt.
const (
	MetaOrientation     = "orientation"
	MetaPlatform        = "platform"
	MetaBrandName       = "brand_name"
	MetaTone            = "tone"
	MetaLength          = "length"
	MetaIncludeHashtags = "include_hashtags"
	MetaEmojiLevel      = "emoji_level"
)

// OrientationNote returns the task sentence for o, falling back to the
// "other" sentence for unknown values.
func OrientationNote(o Orientation) string {
	if note, ok := orientationNotes[o]; ok {
		return note
	}
	return orientationNotes[OrientationOther]
}

// PlatformNote returns the platform sentence for p, falling back to the
// "other" sentence for unknown values.
func PlatformNote(p Platform) string {
	if note, ok := platformNotes[p]; ok {
		return note
	}
	return platformNotes[PlatformOther]
}

// Compose renders a validated request into prompt text and metadata.
// It has no side effects; equal requests yield identical output.
func Compose(req *GenerateRequest) (string, Metadata) {
	brand := req.Brand
	voice := brand.Voice
	style := req.Style

	lines := []string{
		persona,
		"",
		"## Task",
		OrientationNote(req.Orientation),
		PlatformNote(req.Platform),
		"",
		"## Brand",
		"Brand name: " + brand.BrandName,
		"Tagline: " + orNA(brand.Tagline),
		"Description/positioning: " + orNA(brand.Description),
		"Target audience: " + orNA(brand.TargetAudience),
		"",
		"## Voice & Constraints",
		"Tone: " + string(voice.Tone),
		"Include/Emphasize keywords: " + joinOrNA(voice.Keywords),
		"Avoid: " + joinOrNA(voice.Avoid),
		"",
		"## Style",
		fmt.Sprintf("Length: %s (%s)", style.Length, lengthClauses[style.Length]),
		emojiInstruction(style.EmojiLevel),
		hashtagInstruction(style.IncludeHashtags),
		"Formatting notes: " + orNA(style.FormattingNotes),
		"",
		"## User Brief",
		strings.TrimSpace(req.Brief),
		"",
		"## Additional Context",
		strings.TrimSpace(orNA(req.AdditionalContext)),
		"",
		"## Output Requirements",
	}
	lines = append(lines, outputRequirements...)

	return joinNonEmpty(lines), buildMetadata(req)
}

// Generate composes req into a response value.
func Generate(req *GenerateRequest) GenerateResponse {
	text, meta := Compose(req)
	return GenerateResponse{Prompt: text, Metadata: meta}
}

func buildMetadata(req *GenerateRequest) Metadata {
	return Metadata{
		MetaOrientation:     string(req.Orientation),
		MetaPlatform:        string(req.Platform),
		MetaBrandName:       req.Brand.BrandName,
		MetaTone:            string(req.Brand.Voice.Tone),
		MetaLength:          string(req.Style.Length),
		MetaIncludeHashtags: req.Style.IncludeHashtags,
		MetaEmojiLevel:      req.Style.EmojiLevel,
	}
}

func emojiInstruction(level int) string {
	if level == 0 {
		return "Do not use emojis."
	}
	return fmt.Sprintf("Use emojis sparingly at level %d/5.", level)
}

func hashtagInstruction(include bool) string {
	if include {
		return "Include relevant hashtags at the end."
	}
	return "Do not include hashtags."
}

// orNA treats both absent and empty values as missing.
func orNA(value *string) string {
	if value == nil || *value == "" {
		return notApplicable
	}
	return *value
}

func joinOrNA(items []string) string {
	if len(items) == 0 {
		return notApplicable
	}
	return strings.Join(items, ", ")
}

// joinNonEmpty drops whitespace-only lines before joining, so the output has
// no blank lines at all.
func joinNonEmpty(lines []string) string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
