// Package report renders analysis results for people and machines.
package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/resume"
	"github.com/spigell/resume-analyzer/internal/suggestions"
)

// Format selects the report layout.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON}

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"candidate": candidate,
	"score":     formatScore,
	"plain":     plain,
	"list":      list,
}).ParseFS(templateFS, "templates/*.tmpl"))

// ParseFormat accepts a format name case-insensitively; "md" is an alias of markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format %q, expected one of %v", s, Formats)
	}
}

// Render writes res to w in the given format.
func Render(w io.Writer, format Format, res *analysis.Result) error {
	if res == nil {
		return fmt.Errorf("nothing to render")
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	case FormatText:
		return templates.ExecuteTemplate(w, "text.tmpl", res)
	case FormatMarkdown:
		return templates.ExecuteTemplate(w, "markdown.tmpl", res)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// RenderBatch writes several results. JSON output is a single array; other
// formats separate results with a rule.
func RenderBatch(w io.Writer, format Format, results []*analysis.Result) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(results)
	}

	for i, res := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n---\n\n"); err != nil {
				return err
			}
		}
		if err := Render(w, format, res); err != nil {
			return err
		}
	}
	return nil
}

func candidate(r *resume.Record) string {
	if r == nil || r.Name == "" {
		return "N/A"
	}
	return r.Name
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// plain drops Markdown emphasis for the text report.
func plain(s suggestions.Suggestion) string {
	line := strings.ReplaceAll(s.String(), "**", "")
	return strings.TrimSpace(strings.ReplaceAll(line, "•", "-"))
}

func list(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}
