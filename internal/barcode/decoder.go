package barcode

import (
	"errors"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"

	"github.com/MrJamesThe3rd/gastos/internal/barcode/pdf417"
)

// Binarizer selects how luminance is thresholded into black and white.
type Binarizer string

const (
	// BinarizerHybrid uses a local adaptive threshold.
	BinarizerHybrid Binarizer = "hybrid"
	// BinarizerGlobal uses a single threshold from the global histogram.
	BinarizerGlobal Binarizer = "global"
)

var Binarizers = []Binarizer{BinarizerHybrid, BinarizerGlobal}

// SymbolDecoder turns a prepared image into the symbol's text.
type SymbolDecoder interface {
	DecodeSymbol(img *image.NRGBA, b Binarizer) (string, error)
}

// PDF417Decoder is locked to the PDF417 format with try-harder enabled.
type PDF417Decoder struct {
	hints map[gozxing.DecodeHintType]any
}

func NewPDF417Decoder() *PDF417Decoder {
	return &PDF417Decoder{
		hints: map[gozxing.DecodeHintType]any{
			gozxing.DecodeHintType_POSSIBLE_FORMATS: []gozxing.BarcodeFormat{gozxing.BarcodeFormat_PDF_417},
			gozxing.DecodeHintType_TRY_HARDER:       true,
		},
	}
}

func (d *PDF417Decoder) DecodeSymbol(img *image.NRGBA, b Binarizer) (string, error) {
	source := luminanceSource(img)

	var binarizer gozxing.Binarizer

	switch b {
	case BinarizerHybrid:
		binarizer = gozxing.NewHybridBinarizer(source)
	case BinarizerGlobal:
		binarizer = gozxing.NewGlobalHistgramBinarizer(source)
	default:
		return "", fmt.Errorf("unknown binarizer %q", b)
	}

	bitmap, err := gozxing.NewBinaryBitmap(binarizer)
	if err != nil {
		return "", fmt.Errorf("building bitmap: %w", err)
	}

	// Readers hold no state, so parallel attempts can each use their own.
	result, err := pdf417.NewReader().Decode(bitmap, d.hints)
	if err != nil {
		return "", err
	}

	return result.GetText(), nil
}

// luminanceSource packs img as opaque ARGB pixels.
func luminanceSource(img *image.NRGBA) gozxing.LuminanceSource {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pixels := make([]int, 0, w*h)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			pixels = append(pixels, 0xff<<24|int(row[x])<<16|int(row[x+1])<<8|int(row[x+2]))
		}
	}

	return gozxing.NewRGBLuminanceSource(w, h, pixels)
}

// isExpected reports decode failures that simply mean "try the next attempt".
func isExpected(err error) bool {
	var (
		notFound gozxing.NotFoundException
		checksum gozxing.ChecksumException
		format   gozxing.FormatException
	)

	return errors.As(err, &notFound) || errors.As(err, &checksum) || errors.As(err, &format)
}
