// lcd-ping cycles solid colours on the panel to check wiring.
package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	lcd "github.com/pi-lcd/lcdhat/pkg"
)

var palette = []struct {
	name string
	c    color.RGBA
}{
	{"black", lcd.Black},
	{"white", lcd.White},
	{"red", lcd.Red},
	{"green", lcd.Green},
	{"blue", lcd.Blue},
}

func main() {
	closer := lcd.Bootstrap("lcd-ping")
	defer closer.Close()

	cfg := lcd.LoadLCDConfig(os.LookupEnv)
	cycles := lcd.LookupInt(os.LookupEnv, "LCD_CYCLES", 2)
	delayMS := lcd.LookupInt(os.LookupEnv, "LCD_DELAY_MS", 500)
	log.Printf("%s cycles=%d delay_ms=%d", cfg, cycles, delayMS)

	panel, err := lcd.OpenPanel(cfg)
	if err != nil {
		log.Printf("ERROR: display init failed: %v", err)
		closer.Close()
		os.Exit(2)
	}
	defer panel.Close()

	lcd.Backlight(panel, true)
	log.Printf("backlight: requested ON")

	delay := time.Duration(delayMS) * time.Millisecond
	if delay < 10*time.Millisecond {
		delay = 10 * time.Millisecond
	}

	if err := lcd.Show(panel, lcd.BorderFrame(panel.Bounds())); err != nil {
		log.Printf("border frame: %v", err)
	}
	if delay < 50*time.Millisecond {
		time.Sleep(50 * time.Millisecond)
	} else {
		time.Sleep(delay)
	}

	log.Printf("starting color cycle: black, white, red, green, blue")
	for n := 1; n <= cycles; n++ {
		for i, p := range palette {
			if err := lcd.Show(panel, lcd.SolidFrame(panel.Bounds(), p.c)); err != nil {
				log.Printf("ERROR during display: %v", err)
				panel.Close()
				closer.Close()
				os.Exit(3)
			}
			log.Printf("frame %d.%d/%d.%d displayed: %s", n, i+1, cycles, len(palette), p.name)
			time.Sleep(delay)
		}
	}
	fmt.Println("done. If you saw no change: check BL wiring/polarity, try LCD_CS=1, lower LCD_SPEED, or a different LCD_ROT.")
}
