package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/guidoenr/hillwave/internal/app"
	"github.com/guidoenr/hillwave/internal/audio"
	"github.com/guidoenr/hillwave/internal/decode"
	"github.com/guidoenr/hillwave/internal/display"
	"github.com/guidoenr/hillwave/internal/mode"
)

func main() {
	var (
		targetFPS   = flag.Int("fps", 60, "Target frames per second")
		cellWidth   = flag.Int("cell-width", 8, "Pixels per terminal column")
		cellHeight  = flag.Int("cell-height", 16, "Pixels per terminal row")
		output      = flag.String("output", audio.OutputPortAudio, "Audio output (portaudio|oto|none)")
		deviceName  = flag.String("audio-device", "", "PortAudio input device for live sources (substring match)")
		modeName    = flag.String("mode", "random", "Overlay mode ("+strings.Join(mode.Names(), "|")+"|random)")
		palette     = flag.String("palette", "default", "Glyph palette ("+strings.Join(display.PaletteNames(), "|")+")")
		backend     = flag.String("backend", app.BackendTerminal, "Display backend (terminal|sdl)")
		noColor     = flag.Bool("no-color", false, "Disable ANSI color output")
		showStatus  = flag.Bool("status", true, "Display status bar")
		debug       = flag.Bool("debug", false, "Enable verbose logging")
		profile     = flag.Bool("profile", false, "Write per-frame timings as CSV to stderr")
		listDevs    = flag.Bool("list-audio-devices", false, "List available audio devices and exit")
		seed        = flag.Int64("seed", 0, "Seed for mode selection (0 = time based)")
		autoAdvance = flag.Bool("autoadvance", true, "Play the next source when one ends")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: hillwave [flags] [file|demo|live[:device]]...\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "supported files: %s\n\n", strings.Join(decode.Extensions(), " "))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *targetFPS <= 0 {
		log.Fatalf("fps must be positive (got %d)", *targetFPS)
	}
	if *cellWidth <= 0 || *cellHeight <= 0 {
		log.Fatalf("invalid cell size: %dx%d", *cellWidth, *cellHeight)
	}
	switch *output {
	case audio.OutputPortAudio, audio.OutputOto, audio.OutputNone:
	default:
		log.Fatalf("unknown output %q", *output)
	}
	if *modeName != "random" {
		if _, err := mode.Parse(*modeName); err != nil {
			log.Fatalf("%v", err)
		}
	}
	if *backend == app.BackendSDL && !display.SupportsSDL() {
		log.Fatalf("%v", display.ErrSDLUnavailable)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New(os.Stderr, "[hillwave] ", log.LstdFlags)
	if !*debug {
		logger.SetOutput(io.Discard)
	}

	if *listDevs {
		listDevices(logger)
		return
	}
	defer audio.Terminate()

	sources := flag.Args()
	if len(sources) == 0 {
		sources = []string{audio.SourceDemo}
	}

	var profileOut io.Writer
	if *profile {
		profileOut = os.Stderr
	}

	a, err := app.New(app.Config{
		Sources:       sources,
		AutoAdvance:   *autoAdvance,
		TargetFPS:     *targetFPS,
		Mode:          *modeName,
		Seed:          *seed,
		Output:        *output,
		DeviceName:    *deviceName,
		Backend:       *backend,
		CellWidth:     *cellWidth,
		CellHeight:    *cellHeight,
		Palette:       *palette,
		UseANSI:       !*noColor,
		ShowStatusBar: *showStatus,
		Profile:       profileOut,
		Log:           logger,
	})
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "cleanup error: %v\n", err)
		}
	}()

	if err := a.Run(ctx); err != nil {
		logger.Printf("runtime error: %v", err)
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		os.Exit(1)
	}
}

func listDevices(logger *log.Logger) {
	defer audio.Terminate()

	devices, err := audio.ListDevices()
	if err != nil {
		log.Fatalf("list devices: %v", err)
	}
	fmt.Printf("\n=== Audio Devices ===\n\n")
	for _, dev := range devices {
		markers := ""
		if dev.IsDefaultInput {
			markers += " (default input)"
		}
		if dev.IsDefaultOutput {
			markers += " (default output)"
		}
		fmt.Printf("- %s [%s] %s%s\n    inputs:%d outputs:%d sample:%.0f Hz\n",
			dev.Name, dev.HostAPI, dev.Role(), markers, dev.MaxInput, dev.MaxOutput, dev.DefaultSampleHz)
	}
	if dev, err := audio.AutoDetectDevice(); err == nil && dev != nil {
		fmt.Printf("\nlive sources capture from: %s (%.0f Hz, %d channels)\n", dev.Name, dev.DefaultSampleRate, dev.MaxInputChannels)
	} else if err != nil {
		logger.Printf("auto-detect: %v", err)
	}
}
