// Package report renders an evaluated assessment for download. Renderers
// only read the assessment; they never recompute it.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/CloudAssess/internal/scoring"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or its common aliases. Empty means markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/markdown; charset=utf-8"
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "md"
	}
}

func Render(w io.Writer, a scoring.Assessment, f Format) error {
	switch f {
	case FormatMarkdown:
		return WriteMarkdown(w, a)
	case FormatCSV:
		return WriteCSV(w, a)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}
	return fmt.Errorf("unknown report format %q", f)
}

// WriteMarkdown writes the overall score, a category table and the
// recommendations, weakest category first.
func WriteMarkdown(w io.Writer, a scoring.Assessment) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Cloud Assessment Report\n\n")
	if a.CatalogVersion != "" {
		fmt.Fprintf(&b, "Catalog version: %s\n\n", a.CatalogVersion)
	}
	fmt.Fprintf(&b, "## Overall Score: %d%%\n\n**%s**\n\n", round(a.OverallPercentage), a.OverallStatus.Label())
	fmt.Fprintf(&b, "Answered %d of %d questions.\n\n", a.Answered, a.TotalQuestions)

	if len(a.Categories) == 0 {
		fmt.Fprintf(&b, "No categories to report.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "## Categories\n\n")
	fmt.Fprintf(&b, "| Category | Score | Percentage | Status |\n")
	fmt.Fprintf(&b, "|---|---|---|---|\n")
	for _, c := range a.Categories {
		fmt.Fprintf(&b, "| %s | %d / %d | %d%% | %s |\n", tableCell(c.Category), c.Score, c.MaxScore, round(c.Percentage), c.Status)
	}

	byName := make(map[string]scoring.CategoryResult, len(a.Categories))
	for _, c := range a.Categories {
		byName[c.Category] = c
	}
	fmt.Fprintf(&b, "\n## Recommendations\n")
	for _, name := range a.Priorities {
		c := byName[name]
		fmt.Fprintf(&b, "\n### %s (%s)\n\n", c.Category, c.Status)
		for _, r := range c.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCSV writes one row per category in catalog order.
func WriteCSV(w io.Writer, a scoring.Assessment) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Category", "Score", "Max Score", "Percentage", "Status", "Recommendations"})
	for _, c := range a.Categories {
		_ = cw.Write([]string{
			c.Category,
			strconv.Itoa(c.Score),
			strconv.Itoa(c.MaxScore),
			strconv.FormatFloat(c.Percentage, 'f', 1, 64),
			string(c.Status),
			strings.Join(c.Recommendations, "; "),
		})
	}
	_ = cw.Write([]string{"Overall", "", "", strconv.FormatFloat(a.OverallPercentage, 'f', 1, 64), string(a.OverallStatus), ""})
	cw.Flush()
	return cw.Error()
}

// tableCell escapes pipes so a cell cannot split a Markdown table row.
func tableCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func round(v float64) int {
	return int(math.Round(v))
}
