// lcd-server renders text posted over HTTP on the panel. Pressing the
// joystick centre briefly shows a random price.
package main

import (
	"context"
	"image"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	lcd "github.com/pi-lcd/lcdhat/pkg"
)

func main() {
	defer lcd.Bootstrap("lcd-server").Close()

	cfg := lcd.LoadLCDConfig(os.LookupEnv)
	srvCfg := lcd.LoadServerConfig(os.LookupEnv)
	buttons := lcd.LoadButtonSet(os.LookupEnv)
	log.Print(cfg)

	tf := lcd.DefaultTypeface()
	panel, err := lcd.OpenPanel(cfg)
	if err != nil {
		log.Printf("Could not open display, continuing without it: %v", err)
	} else {
		defer panel.Close()
		lcd.Backlight(panel, true)
		if err := lcd.Splash(panel, tf, "starting"); err != nil {
			log.Printf("splash: %v", err)
		}
	}

	size := image.Pt(cfg.Width, cfg.Height)
	if cfg.Rotation == 90 || cfg.Rotation == 270 {
		size = image.Pt(cfg.Height, cfg.Width)
	}
	srv := lcd.NewServer(panel, lcd.ServerOpts{
		Preset:   cfg.Preset,
		Size:     size,
		Typeface: tf,
		Debug:    srvCfg.Debug,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var inputs lcd.InputGroup
	if center, ok := buttons.Lookup("BTN_CENTER"); ok && panel != nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		bc := lcd.DefaultButtonConfig(center.Pin)
		bc.PullUp = buttons.ActiveLow
		inputs.Go(func() {
			lcd.WatchButton(ctx, buttons.Backend, bc, func() error {
				return srv.Overlay(lcd.RandomPrice(rng), lcd.OverlayDuration)
			}, nil)
		})
	}

	ln, err := lcd.Listen(srvCfg)
	if err != nil {
		log.Fatalf("Could not listen: %v", err)
	}
	log.Printf("Listening on %s", ln.Addr())
	serveErr := srv.Serve(ctx, ln)
	stop()
	// the watcher may still be inside an overlay; let it finish first
	if err := inputs.Close(); err != nil {
		log.Printf("GPIO cleanup: %v", err)
	}
	if serveErr != nil {
		log.Fatalf("Could not start HTTP server: %v", serveErr)
	}
	log.Print("stopped")
}
