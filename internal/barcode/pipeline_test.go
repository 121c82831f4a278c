package barcode_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/boombuler/barcode/pdf417"
	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/barcode"
	"github.com/MrJamesThe3rd/gastos/internal/dte"
)

const ted = `<TED version="1.0"><DD><RE>76123456-7</RE><TD>39</TD><F>104233</F>` +
	`<FE>2025-03-14</FE><RR>66666666-6</RR><MNT>12990</MNT></DD></TED>`

var wantRecord = &dte.Record{
	IssuerID:       "76123456-7",
	CounterpartyID: "66666666-6",
	Date:           civil.Date{Year: 2025, Month: 3, Day: 14},
	TotalAmount:    12990,
	DocumentNumber: "104233",
	DocumentType:   dte.TypeReceipt,
}

// scriptedDecoder answers each call through fn and counts calls.
type scriptedDecoder struct {
	mu    sync.Mutex
	calls int
	fn    func(call int, b barcode.Binarizer) (string, error)
}

func (d *scriptedDecoder) DecodeSymbol(_ *image.NRGBA, b barcode.Binarizer) (string, error) {
	d.mu.Lock()
	d.calls++
	call := d.calls
	d.mu.Unlock()

	return d.fn(call, b)
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func blankPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 320, 200))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	return encodePNG(t, img)
}

// renderSymbol draws text as PDF417 with a white quiet zone.
func renderSymbol(t *testing.T, text string) *image.Gray {
	t.Helper()

	const (
		module   = 2
		rowScale = 4
		quiet    = 40
	)

	code, err := pdf417.Encode(text, 2)
	require.NoError(t, err)

	b := code.Bounds()
	img := image.NewGray(image.Rect(0, 0, b.Dx()*module+2*quiet, b.Dy()*rowScale+2*quiet))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.GrayModel.Convert(code.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if c.Y >= 128 {
				continue
			}

			cell := image.Rect(quiet+x*module, quiet+y*rowScale, quiet+(x+1)*module, quiet+(y+1)*rowScale)
			draw.Draw(img, cell, image.Black, image.Point{}, draw.Src)
		}
	}

	return img
}

func TestPipeline_AttemptOrder(t *testing.T) {
	img, err := barcode.DecodeImage(blankPNG(t))
	require.NoError(t, err)

	p := barcode.NewPipeline(barcode.WithDecoder(&scriptedDecoder{}))

	var got []barcode.Attempt
	for a := range p.Attempts(img) {
		got = append(got, a)
	}

	require.Len(t, got, 18)

	i := 0

	for _, s := range []barcode.Strategy{barcode.StrategyBasic, barcode.StrategySharpen, barcode.StrategyUpscale} {
		for _, r := range []barcode.Rotation{barcode.Rotate0, barcode.Rotate90, barcode.Rotate270} {
			for _, b := range []barcode.Binarizer{barcode.BinarizerHybrid, barcode.BinarizerGlobal} {
				assert.Equal(t, s, got[i].Strategy, "attempt %d", i)
				assert.Equal(t, r, got[i].Rotation, "attempt %d", i)
				assert.Equal(t, b, got[i].Binarizer, "attempt %d", i)
				i++
			}
		}
	}
}

func TestPipeline_Decode_ShortCircuits(t *testing.T) {
	dec := &scriptedDecoder{fn: func(call int, _ barcode.Binarizer) (string, error) {
		if call < 5 {
			return "", gozxing.NewNotFoundException()
		}

		return ted, nil
	}}

	p := barcode.NewPipeline(barcode.WithDecoder(dec))

	got, err := p.Decode(context.Background(), blankPNG(t))
	require.NoError(t, err)
	assert.Equal(t, wantRecord, got)
	assert.Equal(t, 5, dec.calls)
}

func TestPipeline_Decode_ExhaustsAllAttempts(t *testing.T) {
	failures := []error{
		gozxing.NewNotFoundException(),
		gozxing.NewChecksumException(),
		gozxing.NewFormatException(),
		errors.New("unexpected"),
	}

	dec := &scriptedDecoder{fn: func(call int, _ barcode.Binarizer) (string, error) {
		return "", failures[call%len(failures)]
	}}

	p := barcode.NewPipeline(barcode.WithDecoder(dec))

	got, err := p.Decode(context.Background(), blankPNG(t))
	assert.ErrorIs(t, err, barcode.ErrNotFound)
	assert.Nil(t, got)
	assert.Equal(t, 18, dec.calls)
}

func TestPipeline_Decode_SymbolWithoutRecordContinues(t *testing.T) {
	dec := &scriptedDecoder{fn: func(call int, _ barcode.Binarizer) (string, error) {
		if call == 1 {
			return "https://example.com/not-a-ted", nil
		}

		return ted, nil
	}}

	p := barcode.NewPipeline(barcode.WithDecoder(dec))

	got, err := p.Decode(context.Background(), blankPNG(t))
	require.NoError(t, err)
	assert.Equal(t, wantRecord, got)
	assert.Equal(t, 2, dec.calls)
}

func TestPipeline_Decode_CorruptImage(t *testing.T) {
	dec := &scriptedDecoder{fn: func(int, barcode.Binarizer) (string, error) {
		return ted, nil
	}}

	p := barcode.NewPipeline(barcode.WithDecoder(dec))

	got, err := p.Decode(context.Background(), []byte("not an image"))
	assert.ErrorIs(t, err, barcode.ErrNotFound)
	assert.Nil(t, got)
	assert.Zero(t, dec.calls)
}

func TestPipeline_Decode_CancelledContext(t *testing.T) {
	dec := &scriptedDecoder{fn: func(int, barcode.Binarizer) (string, error) {
		return ted, nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := barcode.NewPipeline(barcode.WithDecoder(dec)).Decode(ctx, blankPNG(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

func TestPipeline_Decode_Parallel(t *testing.T) {
	dec := &scriptedDecoder{fn: func(_ int, b barcode.Binarizer) (string, error) {
		if b == barcode.BinarizerGlobal {
			return ted, nil
		}

		return "", gozxing.NewNotFoundException()
	}}

	p := barcode.NewPipeline(barcode.WithDecoder(dec), barcode.WithParallel(true))

	got, err := p.Decode(context.Background(), blankPNG(t))
	require.NoError(t, err)
	assert.Equal(t, wantRecord, got)
}

func TestPipeline_Decode_SyntheticSymbol(t *testing.T) {
	upright := renderSymbol(t, ted)

	tests := []struct {
		name string
		img  image.Image
	}{
		{name: "Upright", img: upright},
		{name: "TurnedLeft", img: imaging.Rotate90(upright)},
		{name: "TurnedRight", img: imaging.Rotate270(upright)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, parallel := range []bool{false, true} {
				p := barcode.NewPipeline(barcode.WithParallel(parallel))

				got, err := p.Decode(context.Background(), encodePNG(t, tt.img))
				require.NoError(t, err)
				assert.Equal(t, wantRecord, got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	small := image.NewGray(image.Rect(0, 0, 400, 300))
	for i := range small.Pix {
		small.Pix[i] = uint8(100 + i%50)
	}

	large := image.NewGray(image.Rect(0, 0, 2400, 1200))

	tests := []struct {
		name     string
		img      image.Image
		strategy barcode.Strategy
		wantW    int
		wantH    int
	}{
		{name: "BasicKeepsSize", img: small, strategy: barcode.StrategyBasic, wantW: 400, wantH: 300},
		{name: "SharpenNeverUpscales", img: small, strategy: barcode.StrategySharpen, wantW: 400, wantH: 300},
		{name: "SharpenFitsLongestEdge", img: large, strategy: barcode.StrategySharpen, wantW: 1200, wantH: 600},
		{name: "UpscaleSmall", img: small, strategy: barcode.StrategyUpscale, wantW: 1500, wantH: 1125},
		{name: "UpscaleLeavesWide", img: large, strategy: barcode.StrategyUpscale, wantW: 2400, wantH: 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := barcode.Normalize(tt.img, tt.strategy)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, got.Bounds().Dx())
			assert.Equal(t, tt.wantH, got.Bounds().Dy())
		})
	}
}

func TestNormalize_StretchesContrast(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 100))
	for i := range img.Pix {
		if i%2 == 0 {
			img.Pix[i] = 100
		} else {
			img.Pix[i] = 150
		}
	}

	got, err := barcode.Normalize(img, barcode.StrategyBasic)
	require.NoError(t, err)

	var lo, hi uint8 = 255, 0
	for i := 0; i < len(got.Pix); i += 4 {
		lo = min(lo, got.Pix[i])
		hi = max(hi, got.Pix[i])
	}

	assert.Equal(t, uint8(0), lo)
	assert.Equal(t, uint8(255), hi)
}

func TestNormalize_EmptyImage(t *testing.T) {
	_, err := barcode.Normalize(image.NewGray(image.Rect(0, 0, 0, 0)), barcode.StrategyBasic)
	assert.Error(t, err)
}
