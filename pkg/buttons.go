package pkg

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

const (
	BackendRPIO   = "rpio"
	BackendPeriph = "periph"
)

const (
	DefaultDebounce     = 150 * time.Millisecond
	DefaultPollInterval = 20 * time.Millisecond
)

// ButtonConfig describes one digital input.
type ButtonConfig struct {
	Pin          int
	PullUp       bool // pull-up resistor, so the button is active-low
	Debounce     time.Duration
	PollInterval time.Duration
	// Edges waits on hardware edge detection between samples when the
	// input supports it.
	Edges bool
}

// DefaultButtonConfig is an active-low button with the usual timings.
func DefaultButtonConfig(pin int) ButtonConfig {
	return ButtonConfig{
		Pin:          pin,
		PullUp:       true,
		Debounce:     DefaultDebounce,
		PollInterval: DefaultPollInterval,
	}
}

func (c ButtonConfig) ActiveLow() bool {
	return c.PullUp
}

// ActiveLevel is the level read while the button is held.
func (c ButtonConfig) ActiveLevel() gpio.Level {
	return gpio.Level(!c.ActiveLow())
}

// Input is a readable digital line.
type Input interface {
	Read() gpio.Level
}

// EdgeInput is an Input with hardware edge detection enabled.
type EdgeInput interface {
	Input
	WaitForEdge(timeout time.Duration) bool
}

var (
	rpioMu     sync.Mutex
	rpioIsOpen bool
)

func openRPIO() error {
	rpioMu.Lock()
	defer rpioMu.Unlock()
	if rpioIsOpen {
		return nil
	}
	if err := rpio.Open(); err != nil {
		return errors.Wrap(err, "rpio open")
	}
	rpioIsOpen = true
	return nil
}

type rpioInput struct {
	pin rpio.Pin
}

func (r rpioInput) Read() gpio.Level {
	return r.pin.Read() == rpio.High
}

type periphInput struct {
	p gpio.PinIn
}

func (p periphInput) Read() gpio.Level {
	return p.p.Read()
}

type periphEdgeInput struct {
	gpio.PinIn
}

// OpenInput configures pin as an input with a pull-up (pullUp) or pull-down
// resistor. With edges, the periph backend tries to enable edge detection and
// returns an EdgeInput on success; otherwise a plain Input is returned.
func OpenInput(backend string, pin int, pullUp, edges bool) (Input, error) {
	switch backend {
	case "", BackendRPIO:
		if err := openRPIO(); err != nil {
			return nil, err
		}
		p := rpio.Pin(pin)
		p.Input()
		if pullUp {
			p.PullUp()
		} else {
			p.PullDown()
		}
		return rpioInput{pin: p}, nil
	case BackendPeriph:
		if err := initHost(); err != nil {
			return nil, errors.Wrap(err, "periph host init")
		}
		p := gpioreg.ByName(gpioName(pin))
		if p == nil {
			return nil, fmt.Errorf("unknown pin %s", gpioName(pin))
		}
		pull := gpio.PullDown
		if pullUp {
			pull = gpio.PullUp
		}
		if edges {
			if err := p.In(pull, gpio.BothEdges); err == nil {
				return periphEdgeInput{p}, nil
			}
		}
		if err := p.In(pull, gpio.NoEdge); err != nil {
			return nil, errors.Wrapf(err, "configuring %s", p)
		}
		return periphInput{p: p}, nil
	}
	return nil, fmt.Errorf("unknown BTN_BACKEND %q", backend)
}

// CloseInputs releases the GPIO memory mapping, if it was opened.
func CloseInputs() error {
	rpioMu.Lock()
	defer rpioMu.Unlock()
	if !rpioIsOpen {
		return nil
	}
	rpioIsOpen = false
	return rpio.Close()
}

// InputGroup tracks goroutines reading GPIO so the mapping is released only
// after all of them have returned.
type InputGroup struct {
	wg sync.WaitGroup
}

// Go runs fn in a new goroutine.
func (g *InputGroup) Go(fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn()
	}()
}

// Close waits for every goroutine started with Go, then calls CloseInputs.
func (g *InputGroup) Close() error {
	g.wg.Wait()
	return CloseInputs()
}

// Edge is an accepted transition of a button.
type Edge int

const (
	Press Edge = iota + 1
	Release
)

func (e Edge) String() string {
	switch e {
	case Press:
		return "pressed"
	case Release:
		return "released"
	}
	return "unknown"
}

// Watcher polls an Input and calls OnPress/OnRelease on debounced
// transitions. Callback errors and panics are logged and the loop goes on.
type Watcher struct {
	OnPress   func() error
	OnRelease func() error

	cfg   ButtonConfig
	in    Input
	clock clockwork.Clock

	mu         sync.Mutex
	last       gpio.Level
	lastChange time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewWatcher samples the current level as the starting state. A nil clock
// means the wall clock.
func NewWatcher(cfg ButtonConfig, in Input, clock clockwork.Clock) *Watcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Watcher{
		cfg:        cfg,
		in:         in,
		clock:      clock,
		last:       in.Read(),
		lastChange: clock.Now(),
		stop:       make(chan struct{}),
	}
}

// Pressed reports the last accepted state.
func (w *Watcher) Pressed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last == w.cfg.ActiveLevel()
}

// Sample feeds one reading taken at now. A level that differs from the last
// accepted one is accepted only if more than the debounce time has passed
// since the previous accepted transition.
func (w *Watcher) Sample(level gpio.Level, now time.Time) (Edge, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if level == w.last || now.Sub(w.lastChange) <= w.cfg.Debounce {
		return 0, false
	}
	w.lastChange = now
	w.last = level
	if level == w.cfg.ActiveLevel() {
		return Press, true
	}
	return Release, true
}

// Run polls until ctx is done or Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.stop:
			return nil
		default:
		}
		if e, ok := w.Sample(w.in.Read(), w.clock.Now()); ok {
			w.fire(e)
		}
		w.wait(ctx)
	}
}

func (w *Watcher) wait(ctx context.Context) {
	if ei, ok := w.in.(EdgeInput); ok && w.cfg.Edges {
		ei.WaitForEdge(w.cfg.PollInterval)
		return
	}
	select {
	case <-ctx.Done():
	case <-w.stop:
	case <-w.clock.After(w.cfg.PollInterval):
	}
}

// Stop ends Run.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

func (w *Watcher) fire(e Edge) {
	cb := w.OnPress
	if e == Release {
		cb = w.OnRelease
	}
	if cb == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("GPIO%d %s callback panicked: %v", w.cfg.Pin, e, r)
		}
	}()
	if err := cb(); err != nil {
		log.Printf("GPIO%d %s callback: %v", w.cfg.Pin, e, err)
	}
}

// WatchButton opens the pin and blocks watching it until ctx is done. When
// the GPIO cannot be opened it logs and returns immediately.
func WatchButton(ctx context.Context, backend string, cfg ButtonConfig, onPress, onRelease func() error) {
	in, err := OpenInput(backend, cfg.Pin, cfg.PullUp, cfg.Edges)
	if err != nil {
		log.Printf("button GPIO%d unavailable: %v", cfg.Pin, err)
		return
	}
	w := NewWatcher(cfg, in, nil)
	w.OnPress = onPress
	w.OnRelease = onRelease
	w.Run(ctx)
}

// EventLogger prints button events the way lcd-input reports them.
type EventLogger struct {
	mu    sync.Mutex
	out   io.Writer
	clock clockwork.Clock
}

func NewEventLogger(out io.Writer, clock clockwork.Clock) *EventLogger {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &EventLogger{out: out, clock: clock}
}

// Event writes "[15:04:05.000] [input] NAME pressed" plus an optional
// suffix such as " (startup)".
func (l *EventLogger) Event(name string, e Edge, suffix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[%s] [input] %s %s%s\n", l.clock.Now().Format("15:04:05.000"), name, e, suffix)
}
