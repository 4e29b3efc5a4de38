package pkg

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
)

// FontCandidates are tried in order; the first that exists is used.
var FontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

const (
	minFontSize     = 6
	defaultFontSize = 12
	fitMargin       = 8
)

var (
	Black  = color.RGBA{0, 0, 0, 255}
	White  = color.RGBA{255, 255, 255, 255}
	Red    = color.RGBA{255, 0, 0, 255}
	Green  = color.RGBA{0, 255, 0, 255}
	Blue   = color.RGBA{0, 0, 255, 255}
	Yellow = color.RGBA{255, 255, 0, 255}
)

// Typeface loads font faces at arbitrary point sizes, either from a TTF file
// or from the bundled Go Mono Bold.
type Typeface struct {
	Path string
	font *opentype.Font
}

var (
	fallbackOnce sync.Once
	fallbackFont *opentype.Font
	fallbackErr  error
)

// FallbackTypeface is the embedded Go Mono Bold.
func FallbackTypeface() (*Typeface, error) {
	fallbackOnce.Do(func() {
		fallbackFont, fallbackErr = opentype.Parse(gomonobold.TTF)
	})
	if fallbackErr != nil {
		return nil, errors.Wrap(fallbackErr, "parsing fallback font")
	}
	return &Typeface{font: fallbackFont}, nil
}

// DefaultTypeface picks the first installed candidate, falling back to the
// embedded font.
func DefaultTypeface() *Typeface {
	for _, p := range FontCandidates {
		if _, err := os.Stat(p); err == nil {
			return &Typeface{Path: p}
		}
	}
	tf, err := FallbackTypeface()
	if err != nil {
		log.Printf("no usable font: %v", err)
		return &Typeface{}
	}
	return tf
}

// Face returns a face of the given point size.
func (tf *Typeface) Face(points float64) (font.Face, error) {
	switch {
	case tf.Path != "":
		return gg.LoadFontFace(tf.Path, points)
	case tf.font != nil:
		return opentype.NewFace(tf.font, &opentype.FaceOptions{
			Size:    points,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	}
	return basicfont.Face7x13, nil
}

// MeasureFunc reports the rendered width and height of a message at a point
// size.
type MeasureFunc func(size int) (w, h float64, err error)

// FitFontSize binary-searches [6, height] for the largest size whose
// measured text fits inside width-8 by height-8. When nothing fits the
// result is 12.
func FitFontSize(width, height int, measure MeasureFunc) (int, error) {
	best := defaultFontSize
	lo, hi := minFontSize, height
	for lo <= hi {
		mid := (lo + hi) / 2
		tw, th, err := measure(mid)
		if err != nil {
			return 0, err
		}
		if tw <= float64(width-fitMargin) && th <= float64(height-fitMargin) {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best, nil
}

// measureText is the size of msg laid out one line per newline.
func measureText(face font.Face, msg string) (float64, float64) {
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	return dc.MeasureMultilineString(msg, 1)
}

// ChooseFace returns the best-fit face of tf for msg in a width x height
// area. Any failure falls back to the embedded font at the default size.
func ChooseFace(tf *Typeface, msg string, width, height int) font.Face {
	size, err := FitFontSize(width, height, func(size int) (float64, float64, error) {
		face, err := tf.Face(float64(size))
		if err != nil {
			return 0, 0, err
		}
		w, h := measureText(face, msg)
		return w, h, nil
	})
	if err == nil {
		var face font.Face
		if face, err = tf.Face(float64(size)); err == nil {
			return face
		}
	}
	log.Printf("font sizing failed, using fallback: %v", err)
	if fb, err := FallbackTypeface(); err == nil {
		if face, err := fb.Face(defaultFontSize); err == nil {
			return face
		}
	}
	return basicfont.Face7x13
}

// Style is the colour scheme of a text frame. Padding draws a background box
// of that many pixels around the text.
type Style struct {
	Background color.Color
	Foreground color.Color
	Padding    int
}

var (
	// HelloStyle is black text on white.
	HelloStyle = Style{Background: White, Foreground: Black}
	// ServerStyle is yellow text on black with a 2px box.
	ServerStyle = Style{Background: Black, Foreground: Yellow, Padding: 2}
)

// RenderText draws msg centred with the best-fit size.
func RenderText(bounds image.Rectangle, msg string, style Style, tf *Typeface) image.Image {
	face := ChooseFace(tf, msg, bounds.Dx(), bounds.Dy())
	return renderWithFace(bounds, msg, style, face)
}

// RenderFixedText draws msg centred at a fixed point size.
func RenderFixedText(bounds image.Rectangle, msg string, style Style, tf *Typeface, points float64) image.Image {
	face, err := tf.Face(points)
	if err != nil {
		log.Printf("loading font at %vpt: %v", points, err)
		face = basicfont.Face7x13
	}
	return renderWithFace(bounds, msg, style, face)
}

func renderWithFace(bounds image.Rectangle, msg string, style Style, face font.Face) image.Image {
	w, h := bounds.Dx(), bounds.Dy()
	dc := gg.NewContext(w, h)
	dc.SetColor(style.Background)
	dc.Clear()
	dc.SetFontFace(face)

	tw, th := dc.MeasureMultilineString(msg, 1)
	x := math.Max(0, math.Floor((float64(w)-tw)/2))
	y := math.Max(0, math.Floor((float64(h)-th)/2))
	if style.Padding > 0 {
		p := float64(style.Padding)
		x0, y0 := math.Max(0, x-p), math.Max(0, y-p)
		x1, y1 := math.Min(float64(w), x+tw+p), math.Min(float64(h), y+th+p)
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		dc.Fill()
	}
	ascent := float64(face.Metrics().Ascent) / 64
	lines := strings.Split(msg, "\n")
	lineHeight := th / float64(len(lines))
	dc.SetColor(style.Foreground)
	for i, line := range lines {
		dc.DrawStringAnchored(line, float64(w)/2, y+ascent+float64(i)*lineHeight, 0.5, 0)
	}
	return dc.Image()
}

// SolidFrame is a frame filled with c.
func SolidFrame(bounds image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// BorderFrame is black with a 1px green outline, used to check that the
// panel offsets cover the whole glass.
func BorderFrame(bounds image.Rectangle) image.Image {
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetColor(Black)
	dc.Clear()
	dc.SetColor(Green)
	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, float64(bounds.Dx())-1, float64(bounds.Dy())-1)
	dc.Stroke()
	return dc.Image()
}

// TestPattern paints a border, six colour bars and a "TEST" label over img.
func TestPattern(img image.Image) image.Image {
	b := img.Bounds()
	dc := gg.NewContextForImage(img)
	w, h := float64(b.Dx()), float64(b.Dy())

	dc.SetColor(Green)
	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, w-1, h-1)
	dc.Stroke()

	bars := []color.Color{Red, Green, Blue, Yellow, color.RGBA{0, 255, 255, 255}, color.RGBA{255, 0, 255, 255}}
	barW := math.Max(1, math.Floor(w/6))
	for i, c := range bars {
		dc.SetColor(c)
		dc.DrawRectangle(float64(i)*barW, 0, barW, h)
		dc.Fill()
	}

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(Black)
	dc.DrawString("TEST", 2, 2+float64(basicfont.Face7x13.Metrics().Ascent)/64)
	return dc.Image()
}

// RGBAColor is the opaque colour of c.
func RGBAColor(c RGB) color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 255}
}

func drawOver(dst draw.Image, src image.Image, at image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(at)
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
}
