// hello-on-center keeps the panel dark until the joystick centre is pressed,
// then shows a random price for five seconds.
package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	lcd "github.com/pi-lcd/lcdhat/pkg"
)

// The Waveshare 1.44" HAT wiring.
var hat = lcd.LCDConfig{
	Preset:              "waveshare144",
	Driver:              lcd.DriverSPI,
	Port:                0,
	CS:                  0,
	DC:                  25,
	RST:                 27,
	BL:                  24,
	Rotation:            0,
	Speed:               4000000,
	Width:               128,
	Height:              128,
	OffsetX:             2,
	OffsetY:             3,
	BacklightActiveHigh: true,
}

const centerPin = 13

func main() {
	defer lcd.Bootstrap("hello-on-center").Close()

	panel, err := lcd.OpenPanel(hat)
	if err != nil {
		log.Fatalf("display init failed: %v", err)
	}
	defer panel.Close()

	tf := lcd.DefaultTypeface()
	black := lcd.SolidFrame(panel.Bounds(), lcd.Black)
	off := func() {
		if err := lcd.Show(panel, black); err != nil {
			log.Printf("clearing screen: %v", err)
		}
		lcd.Backlight(panel, false)
	}
	off()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	onPress := func() error {
		lcd.Backlight(panel, true)
		msg := lcd.RandomPrice(rng)
		img := lcd.RenderFixedText(panel.Bounds(), msg, lcd.HelloStyle, tf, lcd.OverlayFontSize)
		err := lcd.Show(panel, img)
		time.Sleep(lcd.OverlayDuration)
		off()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Print("Ready. Press CENTER to show a price. Ctrl+C to exit.")
	// returns early when the button cannot be opened
	lcd.WatchButton(ctx, lcd.BackendRPIO, lcd.DefaultButtonConfig(centerPin), onPress, nil)

	off()
	if err := lcd.CloseInputs(); err != nil {
		log.Printf("GPIO cleanup: %v", err)
	}
	log.Print("Exiting.")
}
