// Package report renders build results for the operator and writes the build manifest.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/ui/output"
	"go.trai.ch/bale/internal/ui/style"
)

// Stage is one line of the stage overview.
type Stage struct {
	Name     string
	Status   domain.StageStatus
	Duration time.Duration
}

// Summary is everything the report shows about one build.
type Summary struct {
	Code      domain.Code
	Platform  domain.Platform
	OutputDir string
	Stages    []Stage
	Bundles   []domain.BundleResult
}

// Renderer draws summaries with lipgloss.
type Renderer struct {
	w io.Writer
	r *lipgloss.Renderer
}

// New creates a Renderer on w using the environment's color profile.
func New(w io.Writer) *Renderer {
	return NewWithProfile(w, output.ColorProfile())
}

// NewWithProfile creates a Renderer on w with a fixed color profile.
func NewWithProfile(w io.Writer, profile termenv.Profile) *Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return &Renderer{w: w, r: r}
}

// Render writes the stage overview, the bundle table and the final verdict.
func (rd *Renderer) Render(s Summary) error {
	var b strings.Builder

	title := rd.r.NewStyle().Bold(true).Foreground(style.Iris)
	faint := rd.r.NewStyle().Foreground(style.Slate)

	b.WriteString(title.Render("STAGES") + "\n")
	nameWidth := 0
	for _, st := range s.Stages {
		nameWidth = max(nameWidth, lipgloss.Width(st.Name))
	}
	for _, st := range s.Stages {
		icon, iconStyle := rd.stageIcon(st.Status)
		name := rd.r.NewStyle().Width(nameWidth + 2).Render(st.Name)
		b.WriteString("  " + iconStyle.Render(icon) + " " + name + faint.Render(stageDetail(st)) + "\n")
	}

	if len(s.Bundles) > 0 {
		b.WriteString("\n" + title.Render("BUNDLES") + "\n")
		bundles := slices.Clone(s.Bundles)
		slices.SortFunc(bundles, func(a, b domain.BundleResult) int { return strings.Compare(a.Bundle, b.Bundle) })
		bundleWidth := 0
		for _, br := range bundles {
			bundleWidth = max(bundleWidth, lipgloss.Width(br.Bundle))
		}
		for _, br := range bundles {
			name := rd.r.NewStyle().Width(bundleWidth + 2).Render(br.Bundle)
			detail := fmt.Sprintf("crc %08x  %d files", br.CRC, len(br.Files))
			if n := len(br.Dependencies); n > 0 {
				detail += fmt.Sprintf("  %d deps", n)
			}
			b.WriteString("  " + name + faint.Render(detail) + "\n")
		}
	}

	b.WriteString("\n" + rd.verdict(s) + "\n")
	_, err := io.WriteString(rd.w, b.String())
	return err
}

func (rd *Renderer) stageIcon(status domain.StageStatus) (string, lipgloss.Style) {
	switch status {
	case domain.StageStatusCompleted:
		return style.Check, rd.r.NewStyle().Foreground(style.Green)
	case domain.StageStatusCached:
		return style.Tilde, rd.r.NewStyle().Foreground(style.Slate)
	case domain.StageStatusFailed:
		return style.Cross, rd.r.NewStyle().Foreground(style.Red)
	case domain.StageStatusCanceled:
		return style.Warning, rd.r.NewStyle().Foreground(style.Yellow)
	case domain.StageStatusRunning:
		return style.Dot, rd.r.NewStyle().Foreground(style.Iris)
	default:
		return style.Circle, rd.r.NewStyle().Foreground(style.Slate)
	}
}

func stageDetail(st Stage) string {
	switch st.Status {
	case domain.StageStatusSkipped, domain.StageStatusCached, domain.StageStatusCanceled:
		return string(st.Status)
	default:
		return st.Duration.Round(time.Millisecond).String()
	}
}

func (rd *Renderer) verdict(s Summary) string {
	switch s.Code {
	case domain.CodeSuccess, domain.CodeSuccessCached:
		msg := fmt.Sprintf("%s Built %d bundles for %s", style.Check, len(s.Bundles), s.Platform)
		if s.Code == domain.CodeSuccessCached {
			msg += " (cached)"
		}
		if s.OutputDir != "" {
			msg += " into " + filepath.Clean(s.OutputDir)
		}
		return rd.r.NewStyle().Bold(true).Foreground(style.Green).Render(msg)
	case domain.CodeCanceled, domain.CodeUnsavedChanges:
		return rd.r.NewStyle().Bold(true).Foreground(style.Yellow).Render(style.Warning + " Build " + s.Code.String())
	default:
		return rd.r.NewStyle().Bold(true).Foreground(style.Red).Render(style.Cross + " Build failed")
	}
}
