package pkg

import (
	"image"
	"image/color"
	_ "image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	_ "github.com/pi-lcd/lcdhat/statik"
	"github.com/pkg/errors"
	"github.com/rakyll/statik/fs"
)

// SplashImage decodes the bundled start-up image.
func SplashImage() (image.Image, error) {
	statikFS, err := fs.New()
	if err != nil {
		return nil, errors.Wrap(err, "opening embedded assets")
	}
	r, err := statikFS.Open("/splash.png")
	if err != nil {
		return nil, errors.Wrap(err, "opening splash")
	}
	defer r.Close()
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding splash")
	}
	return img, nil
}

// Splash shows the start-up image scaled to the panel with a caption at the
// bottom.
func Splash(p Panel, tf *Typeface, caption string) error {
	img, err := SplashImage()
	if err != nil {
		return err
	}
	b := p.Bounds()
	fit := imaging.Fit(img, b.Dx(), b.Dy(), imaging.Lanczos)
	frame := SolidFrame(b, Black)
	drawOver(frame, fit, image.Pt((b.Dx()-fit.Bounds().Dx())/2, (b.Dy()-fit.Bounds().Dy())/2))
	if caption == "" {
		return Show(p, frame)
	}
	dc := gg.NewContextForImage(frame)
	if face, err := tf.Face(math.Max(8, float64(b.Dy())/12)); err == nil {
		dc.SetFontFace(face)
	}
	dc.SetColor(color.RGBA{100, 100, 100, 255})
	dc.DrawStringAnchored(caption, float64(b.Dx())/2, float64(b.Dy())*0.88, 0.5, 0.5)
	return Show(p, dc.Image())
}
