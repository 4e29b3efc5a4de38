package pkg

import (
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/pi-lcd/lcdhat/st7735"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// ErrNoPanel is returned when drawing without an open display.
var ErrNoPanel = errors.New("no display available")

// Panel is an open LCD.
type Panel interface {
	display.Drawer
	SetBacklight(on bool) error
	Close() error
}

var (
	hostOnce sync.Once
	hostErr  error
)

func initHost() error {
	hostOnce.Do(func() {
		if _, hostErr = host.Init(); hostErr != nil {
			return
		}
		_, hostErr = driverreg.Init()
	})
	return hostErr
}

func gpioName(pin int) string {
	return fmt.Sprintf("GPIO%d", pin)
}

func pinOut(pin int) (gpio.PinOut, error) {
	if pin < 0 {
		return nil, nil
	}
	p := gpioreg.ByName(gpioName(pin))
	if p == nil {
		return nil, fmt.Errorf("unknown pin %s", gpioName(pin))
	}
	return p, nil
}

// OpenPanel opens the display described by cfg.
func OpenPanel(cfg LCDConfig) (Panel, error) {
	switch cfg.Driver {
	case "", DriverSPI:
		return openSPIPanel(cfg)
	case DriverFBTFT:
		return openFramebufferPanel(cfg)
	}
	return nil, fmt.Errorf("unknown LCD_DRIVER %q", cfg.Driver)
}

type spiPanel struct {
	*st7735.Dev
	p spi.PortCloser
}

func (s *spiPanel) Close() error {
	return s.p.Close()
}

func openSPIPanel(cfg LCDConfig) (Panel, error) {
	if err := initHost(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	p, err := spireg.Open(fmt.Sprintf("SPI%d.%d", cfg.Port, cfg.CS))
	if err != nil {
		return nil, errors.Wrap(err, "opening spi port")
	}
	dc, err := pinOut(cfg.DC)
	if err == nil && dc == nil {
		err = errors.New("LCD_DC must be set")
	}
	if err != nil {
		p.Close()
		return nil, err
	}
	rst, err := pinOut(cfg.RST)
	if err != nil {
		p.Close()
		return nil, err
	}
	bl, err := pinOut(cfg.BL)
	if err != nil {
		p.Close()
		return nil, err
	}
	opts := st7735.Opts{
		Width:               cfg.Width,
		Height:              cfg.Height,
		OffsetLeft:          cfg.OffsetX,
		OffsetTop:           cfg.OffsetY,
		Rotation:            st7735.RotationFromDegrees(cfg.Rotation),
		Invert:              cfg.Invert,
		BGR:                 true,
		BacklightActiveHigh: cfg.BacklightActiveHigh,
		Speed:               physic.Frequency(cfg.Speed) * physic.Hertz,
	}
	dev, err := st7735.New(p, dc, rst, bl, &opts)
	if err != nil {
		p.Close()
		return nil, err
	}
	return &spiPanel{Dev: dev, p: p}, nil
}

// Show draws img over the whole panel.
func Show(p Panel, img image.Image) error {
	if p == nil {
		return ErrNoPanel
	}
	return p.Draw(p.Bounds(), img, img.Bounds().Min)
}

// Backlight switches the backlight, logging instead of failing.
func Backlight(p Panel, on bool) {
	if p == nil {
		return
	}
	if err := p.SetBacklight(on); err != nil {
		log.Printf("backlight control failed: %v", err)
	}
}
