package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/eiannone/keyboard"

	"github.com/guidoenr/hillwave/internal/audio"
	"github.com/guidoenr/hillwave/internal/display"
	"github.com/guidoenr/hillwave/internal/mode"
	"github.com/guidoenr/hillwave/internal/params"
	"github.com/guidoenr/hillwave/internal/session"
)

// Config configures the application runtime.
type Config struct {
	Sources     []string
	AutoAdvance bool
	TargetFPS   int
	Mode        string
	Seed        int64

	Output     string
	DeviceName string
	FFTSize    int

	Backend       string
	CellWidth     int
	CellHeight    int
	Palette       string
	UseANSI       bool
	ShowStatusBar bool
	WindowWidth   int
	WindowHeight  int

	// Profile receives CSV frame timings when set.
	Profile io.Writer
	Log     *log.Logger

	// Display and Opener replace the defaults built from the fields above.
	Display session.Display
	Opener  session.Opener
	NoKeys  bool
}

// Backend names.
const (
	BackendTerminal = "terminal"
	BackendSDL      = "sdl"
)

type command int

const (
	commandNext command = iota
	commandReplay
	commandQuit
)

// App ties together the frame loop, the visualizer and keyboard input.
type App struct {
	cfg      Config
	log      *log.Logger
	loop     *session.Loop
	vis      *session.Visualizer
	display  session.Display
	terminal *display.Terminal
	window   *display.SDL
	playlist *Playlist
	cancel   context.CancelFunc
	ctx      context.Context
}

// New constructs the application using the provided configuration.
func New(cfg Config) (*App, error) {
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 60
	}
	if cfg.Log == nil {
		cfg.Log = log.New(os.Stderr, "", 0)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	selector, err := newSelector(cfg.Mode, cfg.Seed)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:      cfg,
		log:      cfg.Log,
		loop:     session.NewLoop(cfg.TargetFPS),
		playlist: NewPlaylist(cfg.Sources),
	}

	a.display = cfg.Display
	if a.display == nil {
		if err := a.openDisplay(); err != nil {
			return nil, err
		}
	}

	opener := cfg.Opener
	if opener == nil {
		audioOpener := audio.NewOpener(audio.OpenerConfig{
			Output:  cfg.Output,
			Device:  cfg.DeviceName,
			FFTSize: cfg.FFTSize,
			Seed:    cfg.Seed,
			Log:     cfg.Log,
		})
		opener = session.OpenerFunc(func(ctx context.Context, source string) (session.Pipeline, error) {
			return audioOpener.Open(ctx, source)
		})
	}

	sessCfg := session.Config{
		Params:         params.Defaults(),
		Status:         cfg.ShowStatusBar,
		Log:            cfg.Log,
		OnDisplayError: a.displayError,
	}
	if p := newProfiler(cfg.Profile); p != nil {
		sessCfg.Profiler = p
	}

	a.vis = session.NewVisualizer(a.loop, a.display, opener, selector, sessCfg)
	a.vis.OnIdle(a.sessionEnded)
	return a, nil
}

func newSelector(name string, seed int64) (*mode.Selector, error) {
	if name == "" || name == "random" {
		return mode.NewSelector(rand.NewSource(seed)), nil
	}
	m, err := mode.Parse(name)
	if err != nil {
		return nil, err
	}
	return mode.Fixed(m), nil
}

func (a *App) openDisplay() error {
	switch a.cfg.Backend {
	case "", BackendTerminal:
		a.terminal = display.NewTerminal(display.TerminalConfig{
			CellWidth:  a.cfg.CellWidth,
			CellHeight: a.cfg.CellHeight,
			Palette:    a.cfg.Palette,
			Color:      a.cfg.UseANSI,
			Status:     a.cfg.ShowStatusBar,
		})
		a.display = a.terminal
	case BackendSDL:
		w, h := a.cfg.WindowWidth, a.cfg.WindowHeight
		if w <= 0 || h <= 0 {
			w, h = 960, 540
		}
		window, err := display.NewSDL(w, h)
		if err != nil {
			return fmt.Errorf("sdl display: %w", err)
		}
		a.window = window
		a.display = window
	default:
		return fmt.Errorf("unknown backend %q", a.cfg.Backend)
	}
	return nil
}

// Run drives the visualizer until ctx is cancelled or the user quits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.ctx, a.cancel = ctx, cancel

	if a.terminal != nil {
		if err := a.terminal.Enter(); err != nil {
			return err
		}
		defer a.terminal.Leave()
	}
	if !a.cfg.NoKeys {
		a.startInputListener(ctx)
	}
	if a.window != nil {
		watch := session.NewScheduler(a.loop)
		watch.Start(func(time.Time) {
			if a.window.Quit() {
				cancel()
			}
		})
	}

	a.loop.Post(func() {
		if err := a.display.Clear(session.DefaultHint); err != nil {
			a.log.Printf("clear display: %v", err)
		}
		if a.playlist.Len() == 0 {
			a.log.Printf("no sources given, waiting")
			return
		}
		a.playNext(false)
	})

	err := a.loop.Run(ctx)
	// the loop goroutine is gone, so tearing down here cannot race a frame
	a.vis.Stop()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases held resources.
func (a *App) Close() error {
	if a.window != nil {
		return a.window.Close()
	}
	return nil
}

// playNext starts the next playable source, skipping ones that fail to open.
func (a *App) playNext(wrap bool) {
	for attempts := 0; attempts < a.playlist.Len(); attempts++ {
		source, ok := a.playlist.Next(wrap)
		if !ok {
			a.log.Printf("playlist finished")
			return
		}
		err := a.vis.Play(a.ctx, source)
		if err == nil {
			return
		}
		a.log.Printf("skipping %s: %v", source, err)
	}
}

func (a *App) sessionEnded(source string) {
	if a.cfg.AutoAdvance {
		a.playNext(false)
	}
}

func (a *App) displayError(err error) {
	if errors.Is(err, display.ErrQuit) && a.cancel != nil {
		a.cancel()
	}
}

func (a *App) handle(cmd command) {
	switch cmd {
	case commandNext:
		a.playNext(true)
	case commandReplay:
		source := a.playlist.Current()
		if source == "" {
			a.playNext(true)
			return
		}
		if err := a.vis.Play(a.ctx, source); err != nil && !errors.Is(err, session.ErrNoSource) {
			a.log.Printf("replay %s: %v", source, err)
		}
	case commandQuit:
		a.cancel()
	}
}

func commandForKey(char rune, key keyboard.Key) (command, bool) {
	switch {
	case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC:
		return commandQuit, true
	case char == 'q' || char == 'Q':
		return commandQuit, true
	case char == 'n' || char == 'N':
		return commandNext, true
	case char == 'r' || char == 'R':
		return commandReplay, true
	}
	return 0, false
}

func (a *App) startInputListener(ctx context.Context) {
	if err := keyboard.Open(); err != nil {
		a.log.Printf("keyboard input disabled: %v", err)
		return
	}

	closeOnce := &sync.Once{}
	go func() {
		<-ctx.Done()
		closeOnce.Do(func() {
			_ = keyboard.Close()
		})
	}()

	go func() {
		defer closeOnce.Do(func() {
			_ = keyboard.Close()
		})
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			cmd, ok := commandForKey(char, key)
			if !ok {
				continue
			}
			a.loop.Post(func() { a.handle(cmd) })
			if cmd == commandQuit {
				return
			}
		}
	}()
}
