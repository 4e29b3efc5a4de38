// lcd-input logs joystick and button events of the HAT until Ctrl+C.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	lcd "github.com/pi-lcd/lcdhat/pkg"
)

func main() {
	defer lcd.Bootstrap("lcd-input").Close()

	set := lcd.LoadButtonSet(os.LookupEnv)
	buttons := set.Enabled()
	fmt.Println("[lcd-input] Using BCM pins:")
	for _, b := range buttons {
		fmt.Printf("  - %s: GPIO%d\n", b.Name, b.Pin)
	}
	fmt.Printf("[lcd-input] Active low: %v\n", set.ActiveLow)

	poll := set.Debounce
	if poll < lcd.DefaultPollInterval {
		poll = lcd.DefaultPollInterval
	}

	events := lcd.NewEventLogger(os.Stdout, nil)
	var watchers []*lcd.Watcher
	var edged, polled []lcd.Button
	for _, b := range buttons {
		cfg := lcd.ButtonConfig{
			Pin:          b.Pin,
			PullUp:       set.ActiveLow,
			Debounce:     set.Debounce,
			PollInterval: poll,
			Edges:        true,
		}
		in, err := lcd.OpenInput(set.Backend, b.Pin, cfg.PullUp, cfg.Edges)
		if err != nil {
			fmt.Printf("[lcd-input] WARNING: could not open %s (GPIO%d): %v\n", b.Name, b.Pin, err)
			continue
		}
		if _, ok := in.(lcd.EdgeInput); ok {
			edged = append(edged, b)
		} else {
			polled = append(polled, b)
		}

		w := lcd.NewWatcher(cfg, in, nil)
		name := b.Name
		w.OnPress = func() error {
			events.Event(name, lcd.Press, "")
			return nil
		}
		w.OnRelease = func() error {
			events.Event(name, lcd.Release, "")
			return nil
		}
		if w.Pressed() {
			events.Event(name, lcd.Press, " (startup)")
		}
		watchers = append(watchers, w)
	}
	if len(watchers) == 0 {
		log.Printf("no buttons could be opened")
		lcd.CloseInputs()
		os.Exit(1)
	}

	printPins("Event-driven pins:", edged)
	printPins("Polled pins (fallback):", polled)
	fmt.Println("[lcd-input] Listening for button/joystick events. Press Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var inputs lcd.InputGroup
	for _, w := range watchers {
		w := w
		inputs.Go(func() { w.Run(ctx) })
	}
	<-ctx.Done()
	fmt.Println("\n[lcd-input] Exiting on Ctrl+C")

	// edge waits return within one poll interval
	if err := inputs.Close(); err != nil {
		log.Printf("GPIO cleanup: %v", err)
	}
	fmt.Println("[lcd-input] GPIO cleaned up")
}

func printPins(title string, buttons []lcd.Button) {
	if len(buttons) == 0 {
		return
	}
	fmt.Println("[lcd-input] " + title)
	for _, b := range buttons {
		fmt.Printf("  - %s: GPIO%d\n", b.Name, b.Pin)
	}
}
