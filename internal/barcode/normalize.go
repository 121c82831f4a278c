package barcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Strategy names one preprocessing recipe applied before decoding.
type Strategy string

const (
	StrategyBasic   Strategy = "basic"
	StrategySharpen Strategy = "sharpen+normalize"
	StrategyUpscale Strategy = "upscale+sharpen"
)

// Strategies is the order in which preprocessing recipes are tried.
var Strategies = []Strategy{StrategyBasic, StrategySharpen, StrategyUpscale}

const (
	fitEdge       = 1200
	upscaleBelow  = 1000
	upscaleWidth  = 1500
	contrastGain  = 1.2
	clipFraction  = 0.01
	sharpenSoft   = 1.5
	sharpenStrong = 2.0
)

var errEmptyImage = errors.New("empty image")

// DecodeImage decodes raw bytes (JPEG, PNG, GIF, TIFF, BMP) honouring EXIF orientation.
func DecodeImage(raw []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	return img, nil
}

// Normalize produces a grayscale, contrast-normalized copy of img.
func Normalize(img image.Image, s Strategy) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errEmptyImage
	}

	switch s {
	case StrategyBasic:
		return normalizeHistogram(imaging.Grayscale(img)), nil

	case StrategySharpen:
		// Fit never enlarges.
		fitted := imaging.Fit(img, fitEdge, fitEdge, imaging.Lanczos)
		gray := imaging.Sharpen(imaging.Grayscale(fitted), sharpenSoft)

		return normalizeHistogram(gray), nil

	case StrategyUpscale:
		src := img
		if b.Dx() < upscaleBelow {
			src = imaging.Resize(img, upscaleWidth, 0, imaging.Lanczos)
		}

		gray := imaging.Sharpen(imaging.Grayscale(src), sharpenStrong)

		return linear(normalizeHistogram(gray), contrastGain), nil
	}

	return nil, fmt.Errorf("unknown strategy %q", s)
}

// normalizeHistogram stretches luminance so the 1st and 99th percentiles map
// to black and white. gray must already be grayscale (R == G == B).
func normalizeHistogram(gray *image.NRGBA) *image.NRGBA {
	var hist [256]int
	for i := 0; i < len(gray.Pix); i += 4 {
		hist[gray.Pix[i]]++
	}

	total := len(gray.Pix) / 4
	clip := int(float64(total) * clipFraction)

	lo, hi := 0, 255

	for acc := 0; lo < 255; lo++ {
		acc += hist[lo]
		if acc > clip {
			break
		}
	}

	for acc := 0; hi > 0; hi-- {
		acc += hist[hi]
		if acc > clip {
			break
		}
	}

	if hi <= lo {
		return gray
	}

	scale := 255.0 / float64(hi-lo)

	return imaging.AdjustFunc(gray, func(c color.NRGBA) color.NRGBA {
		v := clamp((float64(c.R) - float64(lo)) * scale)
		return color.NRGBA{R: v, G: v, B: v, A: c.A}
	})
}

// linear multiplies every channel by gain with no offset.
func linear(img *image.NRGBA, gain float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp(float64(c.R) * gain),
			G: clamp(float64(c.G) * gain),
			B: clamp(float64(c.B) * gain),
			A: c.A,
		}
	})
}

func clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}

	return uint8(v + 0.5)
}

// Rotation is a clockwise rotation in degrees.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate270 Rotation = 270
)

// Rotations skips 180: receipts are rarely upside-down but often sideways.
var Rotations = []Rotation{Rotate0, Rotate90, Rotate270}

func rotate(img *image.NRGBA, r Rotation) *image.NRGBA {
	switch r {
	case Rotate90:
		// imaging rotates counter-clockwise.
		return imaging.Rotate270(img)
	case Rotate270:
		return imaging.Rotate90(img)
	}

	return img
}
