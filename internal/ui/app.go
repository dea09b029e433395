package ui

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/RetroCodeRamen/smsemu/internal/sms"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	screenW = 256
	screenH = 192
	// NTSC frame rate: CPU clock over total cycles per frame.
	framesPerSecond = 3579545.0 / (228.0 * 262.0)
)

// CPU is the sms.CPU interface the host loop hands to RunFrame.
type CPU = sms.CPU

// App drives a System through ebiten's game loop: pace whole frames with
// a time accumulator, forward keyboard state to the joypad, and blit the
// VDP framebuffer. No audio, save states, or menu overlay.
type App struct {
	cfg Config
	sys *sms.System
	cpu CPU

	tex *ebiten.Image
	rgb []byte

	paused   bool
	lastTime time.Time
	frameAcc float64
}

// NewApp wires an App over an already-constructed system and CPU.
func NewApp(cfg Config, sys *sms.System, cpu CPU) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(screenW*cfg.Scale, screenH*cfg.Scale)
	return &App{
		cfg:      cfg,
		sys:      sys,
		cpu:      cpu,
		rgb:      make([]byte, screenW*screenH*4),
		lastTime: time.Now(),
	}
}

// Run starts the ebiten game loop.
func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		_ = a.saveScreenshot()
	}

	jp := a.sys.Bus.Joypad()
	jp.SetUp(ebiten.IsKeyPressed(ebiten.KeyUp))
	jp.SetDown(ebiten.IsKeyPressed(ebiten.KeyDown))
	jp.SetLeft(ebiten.IsKeyPressed(ebiten.KeyLeft))
	jp.SetRight(ebiten.IsKeyPressed(ebiten.KeyRight))
	jp.SetButton1(ebiten.IsKeyPressed(ebiten.KeyZ))
	jp.SetButton2(ebiten.IsKeyPressed(ebiten.KeyX))

	if a.paused {
		a.lastTime = time.Now()
		a.frameAcc = 0
		return nil
	}

	now := time.Now()
	dt := now.Sub(a.lastTime).Seconds()
	if dt < 0 {
		dt = 0
	}
	a.lastTime = now
	a.frameAcc += dt * framesPerSecond

	steps := 0
	for a.frameAcc >= 1.0 && steps < 4 { // cap: avoid spiral of death on a stall
		a.sys.RunFrame(a.cpu)
		a.frameAcc -= 1.0
		steps++
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(screenW, screenH)
	}
	fb := a.sys.Framebuffer()
	for i, px := range fb {
		a.rgb[i*4+0] = byte(px >> 16)
		a.rgb[i*4+1] = byte(px >> 8)
		a.rgb[i*4+2] = byte(px)
		a.rgb[i*4+3] = byte(px >> 24)
	}
	a.tex.WritePixels(a.rgb)
	screen.DrawImage(a.tex, nil)

	if a.paused {
		ebitenutil.DebugPrintAt(screen, "paused", 4, 4)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return screenW, screenH }

func (a *App) saveScreenshot() error {
	fb := a.sys.Framebuffer()
	img := &image.RGBA{
		Pix:    make([]byte, len(fb)*4),
		Stride: 4 * screenW,
		Rect:   image.Rect(0, 0, screenW, screenH),
	}
	for i, px := range fb {
		img.Pix[i*4+0] = byte(px >> 16)
		img.Pix[i*4+1] = byte(px >> 8)
		img.Pix[i*4+2] = byte(px)
		img.Pix[i*4+3] = byte(px >> 24)
	}
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
