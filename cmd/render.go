package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"

	"captioncraft/internal/app/model"
	"captioncraft/internal/caption"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(72)
)

func renderSummary(w io.Writer, summary model.ContentSummary) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(summary.MainIdea)
	b.WriteString("\n")
	for _, point := range summary.BulletPoints {
		b.WriteString("\n• " + point)
	}
	if len(summary.Keywords) > 0 {
		b.WriteString("\n\n" + mutedStyle.Render("Keywords: "+strings.Join(summary.Keywords, ", ")))
	}
	fmt.Fprintln(w, cardStyle.Render(b.String()))
}

func renderCaption(w io.Writer, index int, result model.CaptionResult, platform model.Platform) {
	var b strings.Builder
	b.WriteString(infoStyle.Render(fmt.Sprintf("Caption %d", index+1)))
	b.WriteString("\n\n")
	b.WriteString(caption.CanvasText(result, platform))
	if result.CTA != "" {
		b.WriteString("\n\n" + mutedStyle.Render("CTA: "+result.CTA))
	}
	fmt.Fprintln(w, cardStyle.Render(b.String()))
}

func renderCaptions(w io.Writer, results []model.CaptionResult, platform model.Platform) {
	for i, r := range results {
		renderCaption(w, i, r, platform)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
