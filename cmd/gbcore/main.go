package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sqweek/dialog"
	"github.com/urfave/cli"

	"github.com/tmillward/gbcore/internal/boot"
	"github.com/tmillward/gbcore/internal/joypad"
	"github.com/tmillward/gbcore/internal/machine"
	"github.com/tmillward/gbcore/internal/ppu"
	"github.com/tmillward/gbcore/internal/romfile"
	"github.com/tmillward/gbcore/pkg/display/fyne"
	"github.com/tmillward/gbcore/pkg/display/sdl2"
	"github.com/tmillward/gbcore/pkg/display/term"
	"github.com/tmillward/gbcore/pkg/display/web"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbcore"
	app.Usage = "gbcore [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to the ROM file (.gb/.gbc/.zip/.7z)"},
		cli.StringFlag{Name: "boot-rom", Usage: "path to an optional DMG boot ROM image"},
		cli.StringFlag{Name: "backend", Usage: "display backend: term, sdl2, fyne, web", Value: "term"},
		cli.BoolFlag{Name: "headless", Usage: "force the terminal backend regardless of --backend"},
		cli.IntFlag{Name: "scale", Usage: "integer window scale for the sdl2/fyne backends", Value: 3},
		cli.StringFlag{Name: "web-addr", Usage: "listen address for the web backend", Value: ":8080"},
		cli.BoolFlag{Name: "debug", Usage: "enable debug-level logging and per-instruction trace"},
		cli.IntFlag{Name: "debug-limit", Usage: "halt after N instructions (0 disables the limit)"},
		cli.DurationFlag{Name: "save-every", Usage: "battery save interval (0 disables periodic saves)", Value: 30 * time.Second},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("gbcore: fatal error")
	}
}

// display bundles whatever a backend exposes beyond the mandatory
// ppu.FrameSink: input polling, teardown, and - for window-toolkit backends
// that own the main thread - a blocking run loop.
type display struct {
	sink    ppu.FrameSink
	poll    func() joypad.Button
	close   func()
	runMain func()
}

func newDisplay(name string, scale int, webAddr string, log *logrus.Entry) (*display, error) {
	switch name {
	case "term":
		b, err := term.New()
		if err != nil {
			return nil, err
		}
		return &display{sink: b, poll: b.Poll, close: b.Close}, nil
	case "sdl2":
		b, err := sdl2.New(scale)
		if err != nil {
			return nil, err
		}
		return &display{sink: b, poll: b.Poll, close: b.Close}, nil
	case "fyne":
		b := fyne.New(float64(scale))
		return &display{sink: b, runMain: b.Run}, nil
	case "web":
		b := web.New()
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", b.Handler)
		server := &http.Server{Addr: webAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("gbcore: web server exited")
			}
		}()
		return &display{sink: b, poll: b.Poll, close: func() { server.Close() }}, nil
	default:
		return nil, fmt.Errorf("gbcore: unknown backend %q", name)
	}
}

func run(c *cli.Context) error {
	log := logrus.StandardLogger()
	debug := c.Bool("debug")
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	entry := logrus.NewEntry(log)

	romPath := c.String("rom")
	if romPath == "" && c.NArg() > 0 {
		romPath = c.Args().Get(0)
	}
	if romPath == "" {
		selected, err := dialog.File().Filter("Game Boy ROM", "gb", "gbc", "zip", "7z").Load()
		if err != nil {
			return errors.New("gbcore: no ROM path given and no file selected")
		}
		romPath = selected
	}

	rom, err := romfile.Load(romPath)
	if err != nil {
		return err
	}

	opts := []machine.Option{
		machine.WithLogger(entry),
		machine.WithSaveEvery(c.Duration("save-every")),
		machine.WithBatteryStore(fileBatteryStore{dir: "."}),
	}
	if bootPath := c.String("boot-rom"); bootPath != "" {
		bootImage, err := boot.Load(bootPath)
		if err != nil {
			return err
		}
		opts = append(opts, machine.WithBootROM(bootImage))
	}

	backendName := c.String("backend")
	if c.Bool("headless") {
		backendName = "term"
	}
	dsp, err := newDisplay(backendName, c.Int("scale"), c.String("web-addr"), entry)
	if err != nil {
		return err
	}
	if dsp.close != nil {
		defer dsp.close()
	}
	opts = append(opts, machine.WithFrameSink(dsp.sink))

	m, err := machine.New(rom, opts...)
	if err != nil {
		return err
	}
	defer m.Close()

	debugLimit := c.Int("debug-limit")
	loop := func() {
		ticker := time.NewTicker(time.Second / time.Duration(machine.FramesPerSecond))
		defer ticker.Stop()
		instrCount := 0
		for range ticker.C {
			if dsp.poll != nil {
				m.SetButtonState(dsp.poll())
			}
			if debug || debugLimit > 0 {
				if runFrameTraced(m, entry, debug, &instrCount, debugLimit) {
					entry.Infof("gbcore: debug-limit of %d instructions reached, halting", debugLimit)
					return
				}
				continue
			}
			m.RunFrame()
		}
	}

	if dsp.runMain != nil {
		go loop()
		dsp.runMain()
		return nil
	}
	loop()
	return nil
}

// runFrameTraced steps one frame's worth of instructions individually
// instead of calling Machine.RunFrame, so each one can be logged and
// counted against debugLimit. It reports whether the limit was hit.
func runFrameTraced(m *machine.Machine, log *logrus.Entry, trace bool, instrCount *int, debugLimit int) bool {
	target := m.Bus.Cycles() + 70224
	for m.Bus.Cycles() < target {
		m.StepInstruction()
		*instrCount++
		if trace {
			log.Debugf("gbcore: #%d %s", *instrCount, m.DumpRegisters())
		}
		if debugLimit > 0 && *instrCount >= debugLimit {
			return true
		}
	}
	return false
}
