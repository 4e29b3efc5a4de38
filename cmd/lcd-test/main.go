// lcd-test renders a message, yellow on black, sized to fill the panel.
package main

import (
	"log"
	"os"
	"strings"

	lcd "github.com/pi-lcd/lcdhat/pkg"
)

func main() {
	defer lcd.Bootstrap("lcd-test").Close()

	cfg := lcd.LoadLCDConfig(os.LookupEnv)
	log.Print(cfg)

	msg := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if msg == "" {
		msg = "Hej Pi!"
	}

	panel, err := lcd.OpenPanel(cfg)
	if err != nil {
		log.Printf("display init failed: %v", err)
		return
	}
	defer panel.Close()
	lcd.Backlight(panel, true)

	img := lcd.RenderText(panel.Bounds(), msg, lcd.ServerStyle, lcd.DefaultTypeface())
	if cfg.TestPattern {
		img = lcd.TestPattern(img)
	}
	if err := lcd.Show(panel, img); err != nil {
		log.Printf("draw failed: %v", err)
		return
	}
	log.Print("Frame displayed.")
}
