package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/brandprompt/brandprompt/internal/prompt"
)

func optionsTable(cfg prompt.PublicConfig) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Key", "Label"})

	groups := []struct {
		field   string
		options []prompt.Option
	}{
		{"orientation", cfg.Orientations},
		{"platform", cfg.Platforms},
		{"brand.voice.tone", cfg.Tones},
		{"style.length", cfg.LengthPreferences},
	}
	for i, g := range groups {
		for _, opt := range g.options {
			t.AppendRow(table.Row{g.field, opt.Key, opt.Label})
		}
		if i < len(groups)-1 {
			t.AppendSeparator()
		}
	}

	footer := "API version " + cfg.Version
	if cfg.DocsURL != nil {
		footer += ", docs " + *cfg.DocsURL
	}
	t.AppendFooter(table.Row{"", "", footer})

	return t.Render()
}

func validationTable(verr *prompt.ValidationError) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Type", "Message"})

	for _, fe := range verr.Errors {
		field := fe.Field
		if field == "" {
			field = "(document)"
		}
		t.AppendRow(table.Row{field, fe.Type, fe.Message})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d error(s)", len(verr.Errors))})

	return t.Render()
}
