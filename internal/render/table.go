// Package render turns allocations into the markdown and HTML shown on the form.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/epeers/portfoliobuilder/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// WeightColumn is the header of the weight column
const WeightColumn = "Weight (%)"

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// WeightsMarkdown renders the allocation as a two-column markdown table indexed by ticker
func WeightsMarkdown(a *models.Allocation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "| Ticker | %s |\n", WeightColumn)
	sb.WriteString("|:--|--:|\n")
	for _, w := range a.Weights {
		fmt.Fprintf(&sb, "| %s | %s |\n", w.Ticker, w.Percent.StringFixed(2))
	}
	return sb.String()
}

// WeightsHTML renders the allocation table as HTML
func WeightsHTML(a *models.Allocation) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(WeightsMarkdown(a)), &buf); err != nil {
		return "", fmt.Errorf("failed to render weights table: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// SelectedText is the text echoed under the selector
func SelectedText(risk string) string {
	return "You selected: " + risk
}
