package st7735

import (
	"image"
	"image/color"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func init() {
	sleep = func(time.Duration) {}
}

func newTestDev(t *testing.T, opts Opts) (*Dev, *conntest.Record, *gpiotest.Pin, *gpiotest.Pin) {
	t.Helper()
	rec := &conntest.Record{}
	dc := &gpiotest.Pin{N: "GPIO25", Num: 25}
	bl := &gpiotest.Pin{N: "GPIO24", Num: 24}
	d, err := newDev(rec, dc, nil, bl, &opts)
	assert.NilError(t, err)
	return d, rec, dc, bl
}

func TestInitSequence(t *testing.T) {
	_, rec, _, _ := newTestDev(t, DefaultOpts)

	assert.Assert(t, len(rec.Ops) > 2)
	assert.DeepEqual(t, rec.Ops[0].W, []byte{SWRESET})
	assert.DeepEqual(t, rec.Ops[1].W, []byte{SLPOUT})
	assert.DeepEqual(t, rec.Ops[len(rec.Ops)-1].W, []byte{DISPON})

	// The column window carries the panel offset.
	for i, op := range rec.Ops {
		if len(op.W) == 1 && op.W[0] == CASET {
			assert.DeepEqual(t, rec.Ops[i+1].W, []byte{0, 2, 0, 129})
			return
		}
	}
	t.Fatal("CASET not sent")
}

func TestInvertAndMadctl(t *testing.T) {
	opts := DefaultOpts
	opts.Invert = true
	opts.BGR = false
	_, rec, _, _ := newTestDev(t, opts)

	var sawInv, sawMadctl bool
	for i, op := range rec.Ops {
		if len(op.W) != 1 {
			continue
		}
		switch op.W[0] {
		case INVON:
			sawInv = true
		case MADCTL:
			sawMadctl = true
			assert.DeepEqual(t, rec.Ops[i+1].W, []byte{MADCTL_MX | MADCTL_MY})
		}
	}
	assert.Assert(t, sawInv)
	assert.Assert(t, sawMadctl)
}

func TestDrawSendsFullFrame(t *testing.T) {
	d, rec, dc, _ := newTestDev(t, DefaultOpts)
	rec.Ops = nil

	red := image.NewUniform(color.RGBA{255, 0, 0, 255})
	assert.NilError(t, d.Draw(d.Bounds(), red, image.Point{}))

	// CASET, data, RASET, data, RAMWR, then pixel data in chunks.
	assert.DeepEqual(t, rec.Ops[4].W, []byte{RAMWR})
	total := 0
	for _, op := range rec.Ops[5:] {
		assert.Assert(t, len(op.W) <= 4096)
		total += len(op.W)
	}
	assert.Equal(t, total, 128*128*2)
	assert.DeepEqual(t, rec.Ops[5].W[:4], []byte{0xF8, 0x00, 0xF8, 0x00})
	assert.Equal(t, dc.L, gpio.High)
}

func TestRotationSwapsBounds(t *testing.T) {
	opts := DefaultOpts
	opts.Width = 80
	opts.Height = 160
	opts.Rotation = ROTATION_90
	d, rec, _, _ := newTestDev(t, opts)
	assert.Equal(t, d.Bounds(), image.Rect(0, 0, 160, 80))

	rec.Ops = nil
	img := image.NewRGBA(d.Bounds())
	assert.NilError(t, d.Draw(d.Bounds(), img, image.Point{}))
	total := 0
	for _, op := range rec.Ops[5:] {
		total += len(op.W)
	}
	assert.Equal(t, total, 80*160*2)
}

func TestBacklightPolarity(t *testing.T) {
	d, _, _, bl := newTestDev(t, DefaultOpts)
	assert.NilError(t, d.SetBacklight(true))
	assert.Equal(t, bl.L, gpio.High)

	opts := DefaultOpts
	opts.BacklightActiveHigh = false
	d, _, _, bl = newTestDev(t, opts)
	assert.NilError(t, d.SetBacklight(true))
	assert.Equal(t, bl.L, gpio.Low)
	assert.NilError(t, d.Halt())
	assert.Equal(t, bl.L, gpio.High)
}

func TestRGBATo565(t *testing.T) {
	assert.Equal(t, RGBATo565(color.RGBA{255, 0, 0, 255}), uint16(0xF800))
	assert.Equal(t, RGBATo565(color.RGBA{0, 255, 0, 255}), uint16(0x07E0))
	assert.Equal(t, RGBATo565(color.RGBA{0, 0, 255, 255}), uint16(0x001F))
	assert.Equal(t, RGBATo565(color.White), uint16(0xFFFF))
}

func TestRotationFromDegrees(t *testing.T) {
	assert.Equal(t, RotationFromDegrees(0), NO_ROTATION)
	assert.Equal(t, RotationFromDegrees(90), ROTATION_90)
	assert.Equal(t, RotationFromDegrees(270), ROTATION_270)
	assert.Equal(t, RotationFromDegrees(-90), ROTATION_270)
	assert.Equal(t, ROTATION_180.Degrees(), 180)
}
