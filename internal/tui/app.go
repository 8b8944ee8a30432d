// Package tui is the terminal host: a bubbletea program that owns a
// half-block canvas, forwards mouse input to the loop and renders a HUD.
package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/fluxsim/internal/config"
	"github.com/san-kum/fluxsim/internal/control"
	"github.com/san-kum/fluxsim/internal/engine"
	"github.com/san-kum/fluxsim/internal/skin"
	"github.com/san-kum/fluxsim/internal/viz"
)

const (
	headerRows = 1
	footerRows = 1
	panelCols  = 34
	fpsHistory = 60
)

type Options struct {
	control.Options
	Scale float64 // logical units per dot
	FPS   int
}

type tickMsg time.Time

// Model is the bubbletea model. It is used through a pointer so the loop's
// FPS callback can write back into it.
type Model struct {
	*control.Session
	canvas *viz.Canvas
	log    *slog.Logger

	target   time.Duration
	fpsGoal  int
	fpsHist  []float64
	width    int
	height   int
	started  bool
	quitting bool
}

func New(opts Options) *Model {
	if opts.Scale <= 0 {
		opts.Scale = config.DefaultScale
	}
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultTUIFPS
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	m := &Model{
		log:     opts.Logger,
		target:  time.Second / time.Duration(opts.FPS),
		fpsGoal: opts.FPS,
	}
	m.Session = control.NewSession(opts.Options, engine.WithFPSHandler(m.onFPS))
	m.canvas = viz.NewCanvas(0, 0, opts.Scale, m.Skin.Theme.Background)
	m.OnSkin = func(s skin.Skin) { m.canvas.SetBackground(s.Theme.Background) }
	return m
}

// Run starts the program on the alternate screen with full mouse tracking.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err := p.Run()
	m.log.Info("terminal host exited", "stats", m.Loop.Stats())
	return err
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.target, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.layout()

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tickMsg:
		m.Frame(time.Time(msg))
		if m.Loop.Running() {
			return m, m.tick()
		}
		return m, nil
	}
	return m, nil
}

// layout sizes the canvas to the terminal minus HUD rows and the settings
// panel. The first layout starts the loop and the tick chain.
func (m *Model) layout() tea.Cmd {
	cols := m.width
	if m.Panel {
		cols -= panelCols
	}
	rows := m.height - headerRows - footerRows
	cols, rows = max(cols, 1), max(rows, 1)

	if !m.started {
		m.canvas.ResizeCells(cols, rows)
		if err := m.Loop.Start(m.canvas); err != nil {
			m.log.Error("loop start failed", "err", err)
			return tea.Quit
		}
		m.started = true
		m.log.Info("terminal host started", "skin", m.Skin.Name, "mode", m.Loop.Mode(), "cols", cols, "rows", rows)
		return m.tick()
	}

	m.canvas.ResizeCells(cols, rows)
	w, h := m.canvas.Size()
	m.Loop.Resize(w, h)
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X, msg.Y-headerRows
	if row < 0 || row >= m.canvas.Rows || col < 0 || col >= m.canvas.Cols {
		return
	}
	x, y := m.canvas.CellToLogical(col, row)

	switch msg.Action {
	case tea.MouseActionMotion:
		m.Pointer(x, y)
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.Press(x, y)
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch k := msg.String(); k {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		m.Loop.Stop()
		return tea.Quit
	case "1", "2", "3", "4", "5", "6":
		m.SelectMode(int(k[0] - '1'))
	case "tab":
		m.NextMode()
	case "r":
		m.Reseed()
	case " ", "space":
		m.TogglePause()
	case "t":
		m.CycleSkin()
	case "s":
		m.TogglePanel()
		return m.layout()
	case "up", "k":
		m.MoveSlider(-1)
	case "down", "j":
		m.MoveSlider(1)
	case "left", "h":
		m.Nudge(-1)
	case "right", "l":
		m.Nudge(1)
	}
	return nil
}

func (m *Model) onFPS(n int) {
	m.fpsHist = append(m.fpsHist, float64(n))
	if len(m.fpsHist) > fpsHistory {
		m.fpsHist = m.fpsHist[len(m.fpsHist)-fpsHistory:]
	}
}
