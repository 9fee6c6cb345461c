// Package diag provides small diagnostic helpers layered on top of a
// running machine: a clipboard register dump for bug reports, and a
// frame-time plot for spotting pacing regressions, backed by
// golang.design/x/clipboard and gonum.org/v1/plot.
package diag

import (
	"fmt"
	"time"

	"golang.design/x/clipboard"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RegisterDumper is the subset of machine.Machine needed to format a
// register snapshot, kept minimal to avoid an import cycle with the
// machine package.
type RegisterDumper interface {
	DumpRegisters() string
}

// CopyRegisterDump formats a register snapshot and copies it to the system
// clipboard for pasting into a bug report.
func CopyRegisterDump(m RegisterDumper) error {
	if err := clipboard.Init(); err != nil {
		return fmt.Errorf("diag: clipboard unavailable: %w", err)
	}
	clipboard.Write(clipboard.FmtText, []byte(m.DumpRegisters()))
	return nil
}

// FrameTimer accumulates per-frame wall-clock durations for later plotting.
type FrameTimer struct {
	samples []time.Duration
	last    time.Time
}

// NewFrameTimer returns an empty FrameTimer.
func NewFrameTimer() *FrameTimer { return &FrameTimer{} }

// Mark records the duration since the previous Mark call as one frame.
func (f *FrameTimer) Mark() {
	now := time.Now()
	if !f.last.IsZero() {
		f.samples = append(f.samples, now.Sub(f.last))
	}
	f.last = now
}

// SavePlot renders the recorded frame durations to a PNG at path.
func (f *FrameTimer) SavePlot(path string) error {
	p := plot.New()
	p.Title.Text = "frame time"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "ms"

	pts := make(plotter.XYs, len(f.samples))
	for i, d := range f.samples {
		pts[i].X = float64(i)
		pts[i].Y = float64(d.Microseconds()) / 1000.0
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("diag: building plot: %w", err)
	}
	p.Add(line)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("diag: saving plot: %w", err)
	}
	return nil
}
