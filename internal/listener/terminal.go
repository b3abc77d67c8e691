package listener

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/trialkey/internal/key"
)

// Terminal is a tcell-backed display root for running experiments in a
// terminal.
//
// Terminals do not report key releases, so the adapter synthesizes a key-up
// immediately after each key-down. Held-key suppression therefore never
// triggers under a terminal root; auto-repeat arrives as distinct presses.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	down   func(ev *key.Event)
	up     func(ev *key.Event)
	logger *zap.Logger
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithTerminalLogger sets the diagnostic logger.
func WithTerminalLogger(logger *zap.Logger) TerminalOption {
	return func(t *Terminal) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTerminal creates a terminal root. Call Init before Run and Fini when
// done.
func NewTerminal(opts ...TerminalOption) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	t := &Terminal{screen: screen, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Init prepares the underlying screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal screen: %w", err)
	}
	return nil
}

// Fini restores the terminal.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// AttachKeyHandlers implements Root.
func (t *Terminal) AttachKeyHandlers(down, up func(ev *key.Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.down = down
	t.up = up
}

// Run polls terminal events and forwards key presses to the attached
// handlers until the context is cancelled or Ctrl+C is pressed.
func (t *Terminal) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			name := KeyName(ev)
			if name == "" {
				t.logger.Debug("unmapped terminal key", zap.Int("key", int(ev.Key())))
				continue
			}
			t.deliver(name)
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventInterrupt:
			return ctx.Err()
		case nil:
			return nil
		}
	}
}

func (t *Terminal) deliver(name string) {
	t.mu.Lock()
	down, up := t.down, t.up
	t.mu.Unlock()

	if down != nil {
		down(key.NewDown(name))
	}
	// No key-release reporting in terminals; release immediately.
	if up != nil {
		up(key.NewUp(name))
	}
}

// KeyName maps a tcell key event to the browser-style key name used by
// response specifications. Unmapped keys yield "".
func KeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		return string(ev.Rune())
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyDelete:
		return "delete"
	case tcell.KeyInsert:
		return "insert"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyPgUp:
		return "pageup"
	case tcell.KeyPgDn:
		return "pagedown"
	case tcell.KeyUp:
		return "arrowup"
	case tcell.KeyDown:
		return "arrowdown"
	case tcell.KeyLeft:
		return "arrowleft"
	case tcell.KeyRight:
		return "arrowright"
	}

	if k := ev.Key(); k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return fmt.Sprintf("f%d", int(k-tcell.KeyF1)+1)
	}
	return ""
}
