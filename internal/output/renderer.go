package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quakeboard/api/internal/business/quakes"
	"github.com/quakeboard/api/pkg/model"
	"github.com/quakeboard/api/pkg/util"
)

// Renderer writes CLI results to an output stream.
type Renderer interface {
	RenderList(items []model.Feature, total int) error
	RenderStats(stats quakes.Statistics) error
	RenderTheme(theme string) error
}

// New picks a renderer by format name ("text" or "json").
func New(format string, w io.Writer) (Renderer, error) {
	if w == nil {
		w = os.Stdout
	}
	switch strings.ToLower(format) {
	case "", "text":
		return &TextRenderer{w: w}, nil
	case "json":
		return &JSONRenderer{enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleLow      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleModerate = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleHigh     = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	styleCritical = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true)
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleHeader = lipgloss.NewStyle().Bold(true).Underline(true)
)

// TextRenderer prints results to the terminal with severity-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) RenderList(items []model.Feature, total int) error {
	for _, f := range items {
		ts := f.OccurredTime().Format("2006-01-02 15:04")
		mag := fmt.Sprintf("M%-4s", util.MagnitudeText(f.Magnitude))
		line := fmt.Sprintf("%s %s %s %s",
			styleMuted.Render(ts),
			styleSeverity(quakes.SeverityOf(f.Magnitude)).Render(mag),
			f.Place,
			styleMuted.Render(fmt.Sprintf("(%.1f km)", f.DepthKm)),
		)
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.w, styleMuted.Render(fmt.Sprintf("Showing %d of %d earthquakes", len(items), total)))
	return err
}

func (r *TextRenderer) RenderStats(s quakes.Statistics) error {
	lines := []string{
		styleHeader.Render("Earthquake statistics"),
		fmt.Sprintf("Total events:      %d", s.TotalCount),
		fmt.Sprintf("Highest magnitude: %s", styleSeverity(quakes.SeverityOf(s.HighestMagnitude)).Render(util.MagnitudeText(s.HighestMagnitude))),
		fmt.Sprintf("Lowest magnitude:  %s", util.MagnitudeText(s.LowestMagnitude)),
		fmt.Sprintf("Average magnitude: %.2f", s.AverageMagnitude),
		fmt.Sprintf("Unique regions:    %d", s.UniqueRegions),
		fmt.Sprintf("Micro / Minor / Moderate / Strong: %d / %d / %d / %d",
			s.Buckets.Micro, s.Buckets.Minor, s.Buckets.Moderate, s.Buckets.Strong),
	}
	if s.TotalCount > 0 {
		lines = append(lines, fmt.Sprintf("Last event:        %dh %dm ago", s.HoursSinceLast, s.MinutesSinceLast))
	}
	_, err := fmt.Fprintln(r.w, strings.Join(lines, "\n"))
	return err
}

func (r *TextRenderer) RenderTheme(theme string) error {
	_, err := fmt.Fprintln(r.w, theme)
	return err
}

func styleSeverity(s quakes.Severity) lipgloss.Style {
	switch s {
	case quakes.SeverityCritical:
		return styleCritical
	case quakes.SeverityHigh:
		return styleHigh
	case quakes.SeverityModerate:
		return styleModerate
	default:
		return styleLow
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each result as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

func (r *JSONRenderer) RenderList(items []model.Feature, total int) error {
	return r.enc.Encode(struct {
		VisibleCount int             `json:"visibleCount"`
		TotalCount   int             `json:"totalCount"`
		Items        []model.Feature `json:"items"`
	}{len(items), total, items})
}

func (r *JSONRenderer) RenderStats(s quakes.Statistics) error {
	return r.enc.Encode(s)
}

func (r *JSONRenderer) RenderTheme(theme string) error {
	return r.enc.Encode(map[string]string{"theme": theme})
}
