package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fluxsim/internal/config"
	"github.com/san-kum/fluxsim/internal/viz"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.started {
		return "\n  starting…"
	}

	body := m.canvas.String()
	if m.Panel {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.viewPanel())
	}
	return m.viewHeader() + "\n" + body + "\n" + m.viewFooter()
}

func (m *Model) viewHeader() string {
	label := m.Skin.Label(m.Loop.Mode())
	mode := lipgloss.NewStyle().Bold(true).Foreground(m.Skin.Accent).
		Render(strings.TrimSpace(label.Icon + " " + label.Name))

	fps := viz.FPSStyle(m.Loop.FPS(), m.fpsGoal).Render(fmt.Sprintf("%d fps", m.Loop.FPS()))
	status := viz.StatusRunning.Render("●")
	if m.Paused {
		status = viz.StatusPaused.Render("○ paused")
	}

	parts := []string{
		viz.GradientText(m.Skin.Title, m.Skin.Primary, m.Skin.Secondary),
		mode,
		fps,
		lipgloss.NewStyle().Foreground(m.Skin.Muted).Render(fmt.Sprintf("n=%d", m.Loop.Population()+m.Loop.GlyphCount())),
		status,
	}
	if label.Description != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(m.Skin.Muted).Italic(true).Render(label.Description))
	}
	return " " + strings.Join(parts, "  ")
}

func (m *Model) viewFooter() string {
	keys := "1-6 mode  tab next  click emit  s settings  t skin  space pause  r reseed  q quit"
	if m.Panel {
		keys = "↑↓ slider  ←→ adjust  s close  q quit"
	}
	return " " + viz.KeyHint.Render(keys)
}

func (m *Model) viewPanel() string {
	inner := panelCols - 4
	title := lipgloss.NewStyle().Bold(true).Foreground(m.Skin.Primary)
	text := lipgloss.NewStyle().Foreground(m.Skin.Text)
	muted := lipgloss.NewStyle().Foreground(m.Skin.Muted)

	var b strings.Builder
	b.WriteString(title.Render("settings") + "\n")
	b.WriteString(viz.Separator(inner) + "\n")

	for i, sl := range config.Sliders {
		cursor := "  "
		name := muted.Render(fmt.Sprintf("%-6s", sl.Name))
		if i == m.Slider {
			cursor = title.Render("▸ ")
			name = text.Render(fmt.Sprintf("%-6s", sl.Name))
		}
		v := m.Settings.Value(i)
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, name, text.Render(formatValue(v, sl.Step))))
		b.WriteString("  " + viz.Bar(v, sl.Min, sl.Max, inner-2, m.Skin.Accent) + "\n")
	}

	b.WriteString(viz.Separator(inner) + "\n")
	b.WriteString(m.viewFPSGraph(inner))

	return lipgloss.NewStyle().
		Border(m.Skin.PanelBorder).
		BorderForeground(m.Skin.Secondary).
		Padding(0, 1).
		Width(panelCols - 2).
		Render(b.String())
}

func (m *Model) viewFPSGraph(width int) string {
	if len(m.fpsHist) < 2 {
		return viz.Subtle.Render("fps: sampling…")
	}
	return asciigraph.Plot(m.fpsHist,
		asciigraph.Height(4),
		asciigraph.Width(width-8),
		asciigraph.Caption("fps"),
	)
}

func formatValue(v, step float64) string {
	switch {
	case step >= 1:
		return fmt.Sprintf("%.0f", v)
	case step >= 0.1:
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
