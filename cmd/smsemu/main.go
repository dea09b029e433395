package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/RetroCodeRamen/smsemu/internal/sms"
	"github.com/RetroCodeRamen/smsemu/internal/ui"
)

type cliFlags struct {
	ROMPath string
	Scale   int
	Title   string
	Trace   bool

	Headless bool
	Frames   int
	PNGOut   string
	Expect   string
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.sms)")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "smsemu", "window title")
	flag.BoolVar(&f.Trace, "trace", false, "write a frame trace to trace.log")

	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write the last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()

	if f.ROMPath == "" && flag.NArg() > 0 {
		f.ROMPath = flag.Arg(0)
	}
	return f
}

func runHeadless(sys *sms.System, cpu *z80Adapter, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		sys.RunFrame(cpu)
	}
	dur := time.Since(start)

	fb := framebufferRGBA(sys.Framebuffer())
	crc := crc32.ChecksumIEEE(fb)
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := saveFramePNG(fb, 256, 192, pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

// framebufferRGBA converts the VDP's packed ARGB frame into row-major RGBA
// bytes suitable for image.RGBA / checksumming.
func framebufferRGBA(fb []uint32) []byte {
	out := make([]byte, len(fb)*4)
	for i, px := range fb {
		out[i*4+0] = byte(px >> 16)
		out[i*4+1] = byte(px >> 8)
		out[i*4+2] = byte(px)
		out[i*4+3] = byte(px >> 24)
	}
	return out
}

func saveFramePNG(pix []byte, w, h int, path string) error {
	img := &image.RGBA{
		Pix:    pix,
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func main() {
	f := parseFlags()
	if f.ROMPath == "" {
		log.Fatal("a ROM path is required (-rom or positional argument)")
	}
	rom, err := os.ReadFile(f.ROMPath)
	if err != nil {
		log.Fatalf("read %s: %v", f.ROMPath, err)
	}

	sys := sms.NewSystem(rom)
	log.Printf("ROM: %s crc32=%08x", f.ROMPath, sys.Bus.Mapper().CRC32())

	if f.Trace {
		tr, err := sms.NewFileTracer("trace.log")
		if err != nil {
			log.Fatalf("open trace.log: %v", err)
		}
		defer tr.Close()
		sys.Scheduler.SetTracer(tr)
	}

	cpu := newZ80Adapter(sys.Bus)

	if f.Headless {
		if err := runHeadless(sys, cpu, f.Frames, f.PNGOut, f.Expect); err != nil {
			log.Fatal(err)
		}
		return
	}

	uiCfg := ui.Config{Title: f.Title, Scale: f.Scale}
	app := ui.NewApp(uiCfg, sys, cpu)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
