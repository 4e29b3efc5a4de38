package pkg

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"gotest.tools/v3/assert"
)

// bruteForceFit is the reference answer: the largest size in [6, height] that
// fits, or 12.
func bruteForceFit(width, height int, measure MeasureFunc) int {
	best := defaultFontSize
	for size := minFontSize; size <= height; size++ {
		w, h, _ := measure(size)
		if w <= float64(width-fitMargin) && h <= float64(height-fitMargin) {
			best = size
		}
	}
	return best
}

func TestFitFontSizeMatchesLinearScan(t *testing.T) {
	for _, box := range []image.Point{{128, 128}, {160, 80}, {20, 20}, {300, 40}, {14, 14}, {8, 8}} {
		for _, aspect := range []struct{ w, h float64 }{{0.6, 1.2}, {6, 1.1}, {0.1, 0.9}, {11.5, 1.3}, {40, 1}} {
			measure := func(size int) (float64, float64, error) {
				return aspect.w * float64(size), aspect.h * float64(size), nil
			}
			got, err := FitFontSize(box.X, box.Y, measure)
			assert.NilError(t, err)
			assert.Equal(t, got, bruteForceFit(box.X, box.Y, measure), "box %v aspect %v", box, aspect)
		}
	}
}

func TestFitFontSizeNothingFits(t *testing.T) {
	got, err := FitFontSize(10, 10, func(size int) (float64, float64, error) {
		return 100, 100, nil
	})
	assert.NilError(t, err)
	assert.Equal(t, got, 12)
}

func TestFitFontSizeUsesLargestFit(t *testing.T) {
	// step function: sizes up to 40 fit
	got, err := FitFontSize(128, 128, func(size int) (float64, float64, error) {
		if size <= 40 {
			return 100, 30, nil
		}
		return 200, 60, nil
	})
	assert.NilError(t, err)
	assert.Equal(t, got, 40)
}

func TestFitFontSizeMeasureError(t *testing.T) {
	boom := errors.New("boom")
	_, err := FitFontSize(128, 128, func(int) (float64, float64, error) {
		return 0, 0, boom
	})
	assert.Equal(t, err, boom)
}

func fallbackTypeface(t *testing.T) *Typeface {
	t.Helper()
	tf, err := FallbackTypeface()
	assert.NilError(t, err)
	return tf
}

func TestChooseFaceFits(t *testing.T) {
	tf := fallbackTypeface(t)
	face := ChooseFace(tf, "Hej Pi!", 128, 128)
	w, h := measureText(face, "Hej Pi!")
	assert.Assert(t, w <= 120, "width %v", w)
	assert.Assert(t, h <= 120, "height %v", h)
	assert.Assert(t, w > 60, "width %v should use most of the panel", w)
}

func TestRenderTextStyles(t *testing.T) {
	tf := fallbackTypeface(t)
	bounds := image.Rect(0, 0, 128, 128)

	img := RenderText(bounds, "Hi", HelloStyle, tf)
	assert.Equal(t, img.Bounds(), bounds)
	assert.Equal(t, color.RGBAModel.Convert(img.At(0, 0)), color.Color(White))
	assert.Assert(t, hasColor(img, Black))

	img = RenderText(bounds, "Hi", ServerStyle, tf)
	assert.Equal(t, color.RGBAModel.Convert(img.At(0, 0)), color.Color(Black))
	assert.Assert(t, hasColor(img, Yellow))
}

func TestMeasureTextMultiline(t *testing.T) {
	face, err := fallbackTypeface(t).Face(20)
	assert.NilError(t, err)
	w1, h1 := measureText(face, "ab")
	w2, h2 := measureText(face, "ab\ncd")
	assert.Equal(t, w2, w1)
	assert.Equal(t, h2, 2*h1)
}

func TestRenderTextMultiline(t *testing.T) {
	tf := fallbackTypeface(t)
	img := RenderText(image.Rect(0, 0, 128, 128), "Hi\nthere", ServerStyle, tf).(*image.RGBA)
	top := img.SubImage(image.Rect(0, 0, 128, 64))
	bottom := img.SubImage(image.Rect(0, 64, 128, 128))
	assert.Assert(t, hasColor(top, Yellow))
	assert.Assert(t, hasColor(bottom, Yellow))
}

func TestRenderFixedText(t *testing.T) {
	tf := fallbackTypeface(t)
	img := RenderFixedText(image.Rect(0, 0, 128, 128), "123 kr", HelloStyle, tf, 32)
	assert.Assert(t, hasColor(img, Black))
}

func TestSolidAndBorderFrames(t *testing.T) {
	bounds := image.Rect(0, 0, 16, 8)
	solid := SolidFrame(bounds, Red)
	assert.Equal(t, solid.RGBAAt(15, 7), Red)

	border := BorderFrame(bounds)
	assert.Equal(t, color.RGBAModel.Convert(border.At(0, 4)), color.Color(Green))
	assert.Equal(t, color.RGBAModel.Convert(border.At(8, 4)), color.Color(Black))
}

func TestTestPattern(t *testing.T) {
	img := TestPattern(SolidFrame(image.Rect(0, 0, 120, 60), Black))
	assert.Equal(t, color.RGBAModel.Convert(img.At(10, 30)), color.Color(Red))
	assert.Equal(t, color.RGBAModel.Convert(img.At(110, 30)), color.Color(color.RGBA{255, 0, 255, 255}))
}

func hasColor(img image.Image, c color.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)) == color.Color(c) {
				return true
			}
		}
	}
	return false
}
