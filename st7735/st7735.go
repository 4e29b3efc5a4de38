// Package st7735 drives ST7735R/S TFT controllers over SPI using periph.io.
//
// The panel is exposed as a periph display.Drawer. Frames are kept in a
// logical buffer sized to the rotated panel, rotated in software and written
// as big-endian RGB565.
package st7735

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultOpts matches the Waveshare 1.44" HAT (128x128 window inside a
// 132x162 controller).
var DefaultOpts = Opts{
	Width:               128,
	Height:              128,
	OffsetLeft:          2,
	OffsetTop:           3,
	BGR:                 true,
	BacklightActiveHigh: true,
	Speed:               4 * physic.MegaHertz,
}

// Opts defines the options for the device.
type Opts struct {
	Width  int
	Height int
	// Panel offset inside the controller memory.
	OffsetLeft int
	OffsetTop  int

	Rotation            Rotation
	Invert              bool
	BGR                 bool
	BacklightActiveHigh bool
	Speed               physic.Frequency
}

// sleep is replaced in tests.
var sleep = time.Sleep

type command struct {
	cmd   byte
	data  []byte
	delay time.Duration
}

// Dev is an open handle to the display controller.
type Dev struct {
	mu sync.Mutex

	c         conn.Conn
	dc        gpio.PinOut
	rst       gpio.PinOut
	bl        gpio.PinOut
	maxTxSize int

	opts  Opts
	rect  image.Rectangle
	frame *image.RGBA
}

// New opens a handle to an ST7735 on the given SPI port. rst and bl may be
// nil when the lines are not wired.
func New(p spi.Port, dc, rst, bl gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("st7735: dc pin is required")
	}
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	speed := opts.Speed
	if speed == 0 {
		speed = DefaultOpts.Speed
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, errors.Wrap(err, "st7735: spi connect")
	}
	return newDev(c, dc, rst, bl, opts)
}

func newDev(c conn.Conn, dc, rst, bl gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("st7735: invalid panel size %dx%d", opts.Width, opts.Height)
	}
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096
	}

	w, h := opts.Width, opts.Height
	if opts.Rotation == ROTATION_90 || opts.Rotation == ROTATION_270 {
		w, h = h, w
	}
	d := &Dev{
		c:         c,
		dc:        dc,
		rst:       rst,
		bl:        bl,
		maxTxSize: maxTxSize,
		opts:      *opts,
		rect:      image.Rect(0, 0, w, h),
		frame:     image.NewRGBA(image.Rect(0, 0, w, h)),
	}

	if err := d.reset(); err != nil {
		return nil, err
	}
	for _, cmd := range d.initSequence() {
		if err := d.send(cmd); err != nil {
			return nil, errors.Wrapf(err, "st7735: init command 0x%02X", cmd.cmd)
		}
	}
	return d, nil
}

func (d *Dev) initSequence() []command {
	madctl := byte(MADCTL_MX | MADCTL_MY)
	if d.opts.BGR {
		madctl |= MADCTL_BGR
	}
	inv := byte(INVOFF)
	if d.opts.Invert {
		inv = INVON
	}
	x0, x1 := d.opts.OffsetLeft, d.opts.OffsetLeft+d.opts.Width-1
	y0, y1 := d.opts.OffsetTop, d.opts.OffsetTop+d.opts.Height-1

	return []command{
		{cmd: SWRESET, delay: 150 * time.Millisecond},
		{cmd: SLPOUT, delay: 500 * time.Millisecond},
		{cmd: FRMCTR1, data: []byte{0x01, 0x2C, 0x2D}},
		{cmd: FRMCTR2, data: []byte{0x01, 0x2C, 0x2D}},
		{cmd: FRMCTR3, data: []byte{0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D}},
		{cmd: INVCTR, data: []byte{0x07}},
		{cmd: PWCTR1, data: []byte{0xA2, 0x02, 0x84}},
		{cmd: PWCTR2, data: []byte{0xC5}},
		{cmd: PWCTR3, data: []byte{0x0A, 0x00}},
		{cmd: PWCTR4, data: []byte{0x8A, 0x2A}},
		{cmd: PWCTR5, data: []byte{0x8A, 0xEE}},
		{cmd: VMCTR1, data: []byte{0x0E}},
		{cmd: inv},
		{cmd: MADCTL, data: []byte{madctl}},
		{cmd: COLMOD, data: []byte{0x05}},
		{cmd: CASET, data: window(x0, x1)},
		{cmd: RASET, data: window(y0, y1)},
		{cmd: GMCTRP1, data: []byte{0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D, 0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10}},
		{cmd: GMCTRN1, data: []byte{0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D, 0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10}},
		{cmd: NORON, delay: 10 * time.Millisecond},
		{cmd: DISPON, delay: 100 * time.Millisecond},
	}
}

func window(start, end int) []byte {
	return []byte{byte(start >> 8), byte(start), byte(end >> 8), byte(end)}
}

func (d *Dev) String() string {
	return fmt.Sprintf("st7735.Dev{%s, %s, %s}", d.c, d.dc, d.rect.Max)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer. The whole frame is pushed on every call.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	draw.Draw(d.frame, r.Intersect(d.rect), src, sp, draw.Src)
	return d.flush()
}

func (d *Dev) flush() error {
	var native image.Image = d.frame
	// Rotation is counter-clockwise on the frame, which turns the glass
	// clock-wise.
	switch d.opts.Rotation {
	case ROTATION_90:
		native = imaging.Rotate90(d.frame)
	case ROTATION_180:
		native = imaging.Rotate180(d.frame)
	case ROTATION_270:
		native = imaging.Rotate270(d.frame)
	}
	if err := d.setWindow(); err != nil {
		return err
	}
	return d.sendData(toRGB565(native))
}

// Halt implements conn.Resource. It blanks the panel and enters sleep mode.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.sendCommand([]byte{DISPOFF}); err != nil {
		return err
	}
	if err := d.sendCommand([]byte{SLPIN}); err != nil {
		return err
	}
	return d.setBacklight(false)
}

// SetBacklight switches the backlight line, honouring its polarity. It is a
// no-op when no backlight pin was given.
func (d *Dev) SetBacklight(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setBacklight(on)
}

func (d *Dev) setBacklight(on bool) error {
	if d.bl == nil {
		return nil
	}
	l := gpio.Level(on)
	if !d.opts.BacklightActiveHigh {
		l = !l
	}
	return d.bl.Out(l)
}

// Invert the display colours.
func (d *Dev) Invert(invert bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.Invert = invert
	if invert {
		return d.sendCommand([]byte{INVON})
	}
	return d.sendCommand([]byte{INVOFF})
}

func (d *Dev) setWindow() error {
	x0 := d.opts.OffsetLeft
	y0 := d.opts.OffsetTop
	if err := d.send(command{cmd: CASET, data: window(x0, x0+d.opts.Width-1)}); err != nil {
		return err
	}
	if err := d.send(command{cmd: RASET, data: window(y0, y0+d.opts.Height-1)}); err != nil {
		return err
	}
	return d.sendCommand([]byte{RAMWR})
}

// RGBATo565 converts a colour to the 16 bit value used by the controller.
func RGBATo565(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	return uint16((r & 0xF800) | ((g & 0xFC00) >> 5) | ((b & 0xF800) >> 11))
}

func toRGB565(img image.Image) []byte {
	b := img.Bounds()
	out := make([]byte, b.Dx()*b.Dy()*2)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			binary.BigEndian.PutUint16(out[i:], RGBATo565(img.At(x, y)))
			i += 2
		}
	}
	return out
}

func (d *Dev) send(c command) error {
	if err := d.sendCommand([]byte{c.cmd}); err != nil {
		return err
	}
	if c.data != nil {
		if err := d.sendData(c.data); err != nil {
			return err
		}
	}
	if c.delay != 0 {
		sleep(c.delay)
	}
	return nil
}

func (d *Dev) sendCommand(c []byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	return d.c.Tx(c, nil)
}

func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) != 0 {
		chunk := data
		if len(chunk) > d.maxTxSize {
			chunk = data[:d.maxTxSize]
		}
		if err := d.c.Tx(chunk, nil); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// reset pulses the active-low reset line.
func (d *Dev) reset() error {
	if d.rst == nil {
		return nil
	}
	for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := d.rst.Out(l); err != nil {
			return errors.Wrap(err, "st7735: reset")
		}
		sleep(50 * time.Millisecond)
	}
	return nil
}
