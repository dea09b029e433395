package sms

import (
	"fmt"
	"io"
	"os"
)

// Tracer receives a diagnostic line once per traced frame. The scheduler
// calls Frame only for the first 10 frames and every 60th frame after,
// mirroring the original implementation's frame-count gate.
type Tracer interface {
	Frame(frameNumber int, pc uint16, reg0, reg1 byte, vblank, lineInterrupt bool, hCounter byte)
}

// FileTracer appends one line per traced frame to an underlying file,
// grounded in the original implementation's trace.log writer.
type FileTracer struct {
	w io.WriteCloser
}

// NewFileTracer opens (creating or truncating) path for trace output.
func NewFileTracer(path string) (*FileTracer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sms: open trace file: %w", err)
	}
	return &FileTracer{w: f}, nil
}

// Frame implements Tracer.
func (t *FileTracer) Frame(frameNumber int, pc uint16, reg0, reg1 byte, vblank, lineInterrupt bool, hCounter byte) {
	fmt.Fprintf(t.w, "frame=%d pc=%#04x reg0=%#02x reg1=%#02x vblank=%t lineirq=%t hcounter=%#02x\n",
		frameNumber, pc, reg0, reg1, vblank, lineInterrupt, hCounter)
}

// Close closes the underlying file.
func (t *FileTracer) Close() error { return t.w.Close() }
