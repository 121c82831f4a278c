// Package barcode recovers the TED record from photos of printed documents by
// searching preprocessing strategies, rotations and binarizers for a PDF417
// symbol that decodes.
package barcode

import (
	"context"
	"errors"
	"image"
	"iter"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/gastos/internal/dte"
)

// ErrNotFound means no attempt produced a complete record.
var ErrNotFound = errors.New("barcode: record not found")

// Attempt is one strategy x rotation x binarizer combination.
type Attempt struct {
	Strategy  Strategy
	Rotation  Rotation
	Binarizer Binarizer

	Run func() (*dte.Record, error)
}

type Pipeline struct {
	decoder  SymbolDecoder
	parse    func(string) (*dte.Record, error)
	parallel bool
}

type Option func(*Pipeline)

// WithDecoder replaces the PDF417 decoder.
func WithDecoder(d SymbolDecoder) Option {
	return func(p *Pipeline) { p.decoder = d }
}

// WithParallel evaluates attempts concurrently, cancelling the rest on the
// first success.
func WithParallel(parallel bool) Option {
	return func(p *Pipeline) { p.parallel = parallel }
}

func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		decoder: NewPDF417Decoder(),
		parse:   dte.Parse,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Decode returns the first record any attempt recovers from raw, or ErrNotFound.
func (p *Pipeline) Decode(ctx context.Context, raw []byte) (*dte.Record, error) {
	img, err := DecodeImage(raw)
	if err != nil {
		slog.Debug("image not decodable", "error", err)
		return nil, ErrNotFound
	}

	slog.Debug("searching for PDF417", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	if p.parallel {
		return p.firstParallel(ctx, p.Attempts(img))
	}

	return p.firstSequential(ctx, p.Attempts(img))
}

// Attempts lazily yields every combination in search order. Each strategy is
// preprocessed only when its first attempt is requested.
func (p *Pipeline) Attempts(img image.Image) iter.Seq[Attempt] {
	return func(yield func(Attempt) bool) {
		for _, s := range Strategies {
			prepared, err := Normalize(img, s)
			if err != nil {
				slog.Error("preprocessing failed", "strategy", s, "error", err)
				continue
			}

			for _, r := range Rotations {
				rotated := rotate(prepared, r)

				for _, b := range Binarizers {
					a := Attempt{Strategy: s, Rotation: r, Binarizer: b}
					a.Run = func() (*dte.Record, error) { return p.try(rotated, a) }

					if !yield(a) {
						return
					}
				}
			}
		}
	}
}

func (p *Pipeline) try(img *image.NRGBA, a Attempt) (*dte.Record, error) {
	text, err := p.decoder.DecodeSymbol(img, a.Binarizer)
	if err != nil {
		if !isExpected(err) {
			slog.Debug("decode attempt failed",
				"strategy", a.Strategy, "rotation", a.Rotation, "binarizer", a.Binarizer, "error", err)
		}

		return nil, ErrNotFound
	}

	rec, err := p.parse(text)
	if err != nil {
		slog.Debug("symbol without TED", "strategy", a.Strategy, "rotation", a.Rotation, "error", err)
		return nil, ErrNotFound
	}

	return rec, nil
}

func (p *Pipeline) firstSequential(ctx context.Context, attempts iter.Seq[Attempt]) (*dte.Record, error) {
	for a := range attempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := a.Run()
		if err != nil {
			continue
		}

		logSuccess(a)

		return rec, nil
	}

	slog.Debug("PDF417 not decoded in any attempt")

	return nil, ErrNotFound
}

var errFound = errors.New("found")

func (p *Pipeline) firstParallel(ctx context.Context, attempts iter.Seq[Attempt]) (*dte.Record, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var (
		once   sync.Once
		result *dte.Record
	)

	for a := range attempts {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			rec, err := a.Run()
			if err != nil {
				return nil
			}

			once.Do(func() {
				result = rec
				logSuccess(a)
			})

			return errFound
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errFound) {
		return nil, err
	}

	if result != nil {
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return nil, ErrNotFound
}

func logSuccess(a Attempt) {
	slog.Info("PDF417 decoded", "strategy", a.Strategy, "rotation", a.Rotation, "binarizer", a.Binarizer)
}
