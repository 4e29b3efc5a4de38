// lcd-off blanks the panel and switches the backlight off.
package main

import (
	"log"
	"os"

	lcd "github.com/pi-lcd/lcdhat/pkg"
)

func main() {
	defer lcd.Bootstrap("lcd-off").Close()

	cfg := lcd.LoadLCDConfig(os.LookupEnv)
	panel, err := lcd.OpenPanel(cfg)
	if err != nil {
		log.Printf("display init failed: %v", err)
		return
	}
	defer panel.Close()

	if err := lcd.Show(panel, lcd.SolidFrame(panel.Bounds(), lcd.Black)); err != nil {
		log.Printf("clearing screen: %v", err)
	}
	lcd.Backlight(panel, false)
	log.Print("display off")
}
