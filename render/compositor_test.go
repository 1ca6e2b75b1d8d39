package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestResampleSameSizeIsIdentity(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}

	dst := Resample(src, 4, 4)
	if !bytes.Equal(dst.Pix, src.Pix) {
		t.Error("same-size resample must copy pixels unchanged")
	}
}

func TestResampleUpscalesSinglePixel(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	dst := Resample(solid(1, 1, red), 8, 8)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := dst.NRGBAAt(x, y); got != red {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, red)
			}
		}
	}
}

func TestResampleSinglePixelDestination(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	want := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	src.SetNRGBA(0, 0, want)

	// a one-pixel axis always samples source index zero
	dst := Resample(src, 1, 1)
	if got := dst.NRGBAAt(0, 0); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResampleOffsetSourceRect(t *testing.T) {
	// source whose bounds do not start at the origin, as produced by
	// SubImage
	src := image.NewNRGBA(image.Rect(2, 3, 6, 7))
	want := color.NRGBA{G: 200, A: 255}
	src.SetNRGBA(2, 3, want)

	dst := Resample(src, 1, 1)
	if got := dst.NRGBAAt(0, 0); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResampleIsDeterministic(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 13, 9))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 31)
	}

	a := Resample(src, 20, 4)
	b := Resample(src, 20, 4)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("resampling the same input twice must be bit-identical")
	}
}

func TestTransparentFrameIsAllZero(t *testing.T) {
	frame := TransparentFrame(16, 9)
	for i, v := range frame.Pix {
		if v != 0 {
			t.Fatalf("byte %d is %d, want 0", i, v)
		}
	}
	if frame.Bounds().Dx() != 16 || frame.Bounds().Dy() != 9 {
		t.Errorf("unexpected bounds %v", frame.Bounds())
	}
}
