package pkg

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gonutz/framebuffer"
	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

// sysGraphics is where the kernel lists framebuffers.
var sysGraphics = "/sys/class/graphics"

// fbDevice is the part of *framebuffer.Device the panel uses.
type fbDevice interface {
	draw.Image
	Close()
}

// fbPanel draws through the fbtft kernel driver. The kernel owns SPI and
// rotation; only the backlight is driven from here.
type fbPanel struct {
	mu   sync.Mutex
	path string
	fb   fbDevice

	bl         rpio.Pin
	hasBL      bool
	activeHigh bool
}

// findFramebuffer returns the device node of the first fb_st7735* driver.
func findFramebuffer() (string, error) {
	items, err := os.ReadDir(sysGraphics)
	if err != nil {
		return "", errors.Wrap(err, "could not enumerate framebuffers")
	}
	for _, item := range items {
		if item.Name() == "fbcon" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(sysGraphics, item.Name(), "name"))
		if err != nil {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(string(data)), "fb_st7735") {
			return "/dev/" + item.Name(), nil
		}
	}
	return "", errors.New("no fb_st7735 framebuffer found")
}

func openFramebufferPanel(cfg LCDConfig) (Panel, error) {
	path := cfg.Framebuffer
	if path == "" {
		var err error
		if path, err = findFramebuffer(); err != nil {
			return nil, err
		}
	}
	fb, err := framebuffer.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	p := &fbPanel{path: path, fb: fb, activeHigh: cfg.BacklightActiveHigh}
	if cfg.BL >= 0 {
		if err := openRPIO(); err == nil {
			p.bl = rpio.Pin(cfg.BL)
			p.bl.Output()
			p.hasBL = true
		}
	}
	return p, nil
}

func (p *fbPanel) String() string {
	return fmt.Sprintf("fbtft{%s, %s}", p.path, p.fb.Bounds().Max)
}

func (p *fbPanel) ColorModel() color.Model {
	return p.fb.ColorModel()
}

func (p *fbPanel) Bounds() image.Rectangle {
	return p.fb.Bounds()
}

func (p *fbPanel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	draw.Draw(p.fb, r, src, sp, draw.Src)
	return nil
}

func (p *fbPanel) Halt() error {
	black := image.NewUniform(color.Black)
	if err := p.Draw(p.Bounds(), black, image.Point{}); err != nil {
		return err
	}
	return p.SetBacklight(false)
}

func (p *fbPanel) SetBacklight(on bool) error {
	if !p.hasBL {
		return nil
	}
	if on == p.activeHigh {
		p.bl.High()
	} else {
		p.bl.Low()
	}
	return nil
}

func (p *fbPanel) Close() error {
	p.fb.Close()
	return nil
}
