package prompt

import (
	"strings"

	"github.com/invopop/jsonschema"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// APIVersion is the version advertised to extension clients.
const APIVersion = "0.2.0"

// Option is a key/label pair used to populate UI dropdowns.
type Option struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// PublicConfig lists the supported options for each enumerated field.
type PublicConfig struct {
	Orientations      []Option `json:"orientations" yaml:"orientations"`
	Platforms         []Option `json:"platforms" yaml:"platforms"`
	Tones             []Option `json:"tones" yaml:"tones"`
	LengthPreferences []Option `json:"length_preferences" yaml:"length_preferences"`
	Version           string   `json:"version" yaml:"version"`
	DocsURL           *string  `json:"docs_url" yaml:"docs_url"`
}

// DefaultSettings are the brand and style values a fresh client starts with.
type DefaultSettings struct {
	Brand BrandSettings `json:"brand" yaml:"brand"`
	Style StyleSettings `json:"style" yaml:"style"`
}

// Computed once; cases.Caser is not safe for concurrent use, so labels are
// never derived per request.
var (
	orientationOptions = buildOptions(orientations)
	platformOptions    = buildOptions(platforms)
	toneOptions        = buildOptions(tones)
	lengthOptions      = buildOptions(lengthPreferences)
)

func buildOptions[T ~string](values []T) []Option {
	caser := cases.Title(language.Und)
	out := make([]Option, len(values))
	for i, v := range values {
		key := string(v)
		out[i] = Option{Key: key, Label: caser.String(strings.ReplaceAll(key, "_", " "))}
	}
	return out
}

// OptionLabel returns the human label for an enum key.
func OptionLabel(key string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(key, "_", " "))
}

// Options returns the public option lists. docsURL is omitted when empty.
func Options(docsURL string) PublicConfig {
	cfg := PublicConfig{
		Orientations:      append([]Option(nil), orientationOptions...),
		Platforms:         append([]Option(nil), platformOptions...),
		Tones:             append([]Option(nil), toneOptions...),
		LengthPreferences: append([]Option(nil), lengthOptions...),
		Version:           APIVersion,
	}
	if url := strings.TrimSpace(docsURL); url != "" {
		cfg.DocsURL = &url
	}
	return cfg
}

// Defaults returns the settings used to initialize a client UI.
func Defaults() DefaultSettings {
	return DefaultSettings{
		Brand: DefaultBrandSettings(),
		Style: DefaultStyleSettings(),
	}
}

// RequestSchema reflects the JSON Schema of a generate request. Validate
// enforces this same document, so unknown keys are allowed and optional
// strings accept null.
func RequestSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
	}
	s := r.Reflect(new(GenerateRequest))
	s.Title = "PromptGenerateRequest"
	s.Description = "Request body for generating a prompt."
	return s
}
