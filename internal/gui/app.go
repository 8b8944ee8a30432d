// Package gui is the native window host, built on raylib.
package gui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	raygui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/fluxsim/internal/config"
	"github.com/san-kum/fluxsim/internal/control"
	"github.com/san-kum/fluxsim/internal/engine"
	"github.com/san-kum/fluxsim/internal/skin"
)

type Options struct {
	control.Options
	Width    int
	Height   int
	FPS      int
	FontPath string // optional font with katakana for rain glyphs
}

type App struct {
	*control.Session
	surface *textureSurface
	log     *slog.Logger

	lastMouse rl.Vector2
	showHUD   bool
	fpsHist   []float64
}

var modeKeys = []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive, rl.KeySix}

// Run opens the window and blocks until it is closed, q is pressed or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = config.DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = config.DefaultHeight
	}
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultGUIFPS
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), "fluxsim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)

	a := &App{log: opts.Logger, showHUD: true}
	a.Session = control.NewSession(opts.Options, engine.WithFPSHandler(a.onFPS))
	a.surface = newTextureSurface(int32(opts.Width), int32(opts.Height), a.Skin.Theme.Background, opts.FontPath)
	defer a.surface.unload()
	a.OnSkin = func(s skin.Skin) { a.surface.setBackground(s.Theme.Background) }

	if err := a.Loop.Start(a.surface); err != nil {
		return err
	}
	defer a.Loop.Stop()
	a.log.Info("window host started", "skin", a.Skin.Name, "mode", a.Loop.Mode(), "width", opts.Width, "height", opts.Height)

	for a.Loop.Running() && !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		a.update()
		a.draw()
	}
	a.log.Info("window host exited", "stats", a.Loop.Stats())
	return nil
}

func (a *App) update() {
	if rl.IsWindowResized() {
		a.Loop.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	}

	a.handleKeys()

	pos := rl.GetMousePosition()
	if pos != a.lastMouse {
		a.Pointer(float64(pos.X), float64(pos.Y))
		a.lastMouse = pos
	}
	// clicks on the settings panel belong to its sliders
	onPanel := a.Panel && rl.CheckCollisionPointRec(pos, panelRect())
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !onPanel {
		a.Press(float64(pos.X), float64(pos.Y))
	}

	rl.BeginTextureMode(a.surface.target)
	a.Frame(time.Now())
	a.surface.endFrame()
	rl.EndTextureMode()
}

func (a *App) handleKeys() {
	for i, k := range modeKeys {
		if rl.IsKeyPressed(k) {
			a.SelectMode(i)
		}
	}
	switch {
	case rl.IsKeyPressed(rl.KeyQ), rl.IsKeyPressed(rl.KeyEscape):
		a.Loop.Stop()
	case rl.IsKeyPressed(rl.KeyTab):
		a.NextMode()
	case rl.IsKeyPressed(rl.KeyR):
		a.Reseed()
	case rl.IsKeyPressed(rl.KeySpace):
		a.TogglePause()
	case rl.IsKeyPressed(rl.KeyT):
		a.CycleSkin()
	case rl.IsKeyPressed(rl.KeyS):
		a.TogglePanel()
	case rl.IsKeyPressed(rl.KeyH):
		a.showHUD = !a.showHUD
	case rl.IsKeyPressed(rl.KeyUp):
		a.MoveSlider(-1)
	case rl.IsKeyPressed(rl.KeyDown):
		a.MoveSlider(1)
	case rl.IsKeyPressed(rl.KeyLeft):
		a.Nudge(-1)
	case rl.IsKeyPressed(rl.KeyRight):
		a.Nudge(1)
	}
}

func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(a.surface.bg)

	// render textures are stored upside down
	src := rl.NewRectangle(0, 0, float32(a.surface.w), -float32(a.surface.h))
	rl.DrawTextureRec(a.surface.target.Texture, src, rl.NewVector2(0, 0), rl.White)

	if a.showHUD {
		a.drawHUD()
	}
	rl.EndDrawing()
}

func (a *App) drawHUD() {
	c := a.surface.colors
	primary := c.get(string(a.Skin.Primary))
	muted := c.get(string(a.Skin.Muted))
	accent := c.get(string(a.Skin.Accent))
	text := c.get(string(a.Skin.Text))
	h := int32(rl.GetScreenHeight())

	rl.DrawText(a.Skin.Title, 24, 20, 24, primary)
	label := a.Skin.Label(a.Loop.Mode())
	rl.DrawText(":: "+label.Name, 24, 50, 18, accent)
	if label.Description != "" {
		rl.DrawText(label.Description, 24, 72, 14, muted)
	}

	status := fmt.Sprintf("%d FPS  n=%d", a.Loop.FPS(), a.Loop.Population()+a.Loop.GlyphCount())
	if a.Paused {
		status += "  PAUSED"
	}
	rl.DrawText(status, 24, h-30, 14, text)
	rl.DrawText("[1-6] MODE  [TAB] NEXT  [S] SETTINGS  [T] SKIN  [SPACE] PAUSE  [R] RESEED  [H] HUD  [Q] QUIT",
		220, h-30, 14, muted)

	a.drawFPSGraph(24, h-100, 180, 50, accent)

	if a.Panel {
		a.drawPanel(primary, muted, accent, text)
	}
}

const (
	panelWidth = 264
	sliderGap  = 44
)

func panelRect() rl.Rectangle {
	x := float32(rl.GetScreenWidth()) - panelWidth - 16
	return rl.NewRectangle(x, 10, panelWidth, float32(len(config.Sliders)*sliderGap+40))
}

func (a *App) drawPanel(primary, muted, accent, text rl.Color) {
	r := panelRect()
	rl.DrawRectangleRec(r, rl.Fade(rl.Black, 0.6))
	x, y := r.X+12, r.Y+10
	rl.DrawText("SETTINGS", int32(x), int32(y), 18, primary)
	y += 30

	for i, sl := range config.Sliders {
		col := muted
		if i == a.Slider {
			col = text
			rl.DrawRectangle(int32(x)-6, int32(y), 3, 34, accent)
		}
		v := a.Settings.Value(i)
		rl.DrawText(fmt.Sprintf("%-6s %g", sl.Name, v), int32(x), int32(y), 14, col)

		bounds := rl.NewRectangle(x, y+18, panelWidth-24, 12)
		next := raygui.SliderBar(bounds, "", "", float32(v), float32(sl.Min), float32(sl.Max))
		if next != float32(v) {
			a.SetSlider(i, float64(next))
		}
		y += sliderGap
	}
}

func (a *App) drawFPSGraph(x, y, w, h int32, col rl.Color) {
	if len(a.fpsHist) < 2 {
		return
	}
	hi := 1.0
	for _, v := range a.fpsHist {
		hi = max(hi, v)
	}
	points := make([]rl.Vector2, len(a.fpsHist))
	for i, v := range a.fpsHist {
		px := float32(x) + float32(i)/float32(len(a.fpsHist)-1)*float32(w)
		py := float32(y+h) - float32(v/hi)*float32(h)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, col)
}

func (a *App) onFPS(n int) {
	a.fpsHist = append(a.fpsHist, float64(n))
	if len(a.fpsHist) > 120 {
		a.fpsHist = a.fpsHist[len(a.fpsHist)-120:]
	}
}
