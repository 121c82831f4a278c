// Package pdf417 reads PDF417 symbols from binarized images. Each scanline is
// searched for the start pattern; the codewords behind it are placed on the
// symbol grid by their row indicator, and every cell is settled by majority
// vote before Reed-Solomon correction.
package pdf417

import (
	"cmp"
	"slices"

	"github.com/makiuchi-d/gozxing"
)

const (
	maxRows    = 90
	maxCols    = 30
	maxECLevel = 8
)

// Reader implements gozxing.Reader for PDF417. Upright and upside-down
// symbols are read; sideways ones need rotating first.
type Reader struct{}

var _ gozxing.Reader = (*Reader)(nil)

func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) DecodeWithoutHints(image *gozxing.BinaryBitmap) (*gozxing.Result, error) {
	return r.Decode(image, nil)
}

// Decode scans every other pixel row, or every row with the TRY_HARDER hint.
func (r *Reader) Decode(image *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) (*gozxing.Result, error) {
	matrix, err := image.GetBlackMatrix()
	if err != nil {
		return nil, err
	}

	step := 2
	if tryHarder, _ := hints[gozxing.DecodeHintType_TRY_HARDER].(bool); tryHarder {
		step = 1
	}

	text, err := decodeLines(readLines(matrix, step))
	if err != nil {
		return nil, err
	}

	return gozxing.NewResult(text, nil, nil, gozxing.BarcodeFormat_PDF_417), nil
}

func (r *Reader) Reset() {}

// line is a rowRead placed on the symbol grid.
type line struct {
	row int
	rowRead
}

func readLines(m *gozxing.BitMatrix, step int) []line {
	w, h := m.GetWidth(), m.GetHeight()
	forward := make([]bool, w)
	backward := make([]bool, w)

	var lines []line

	for y := 0; y < h; y += step {
		for x := range w {
			forward[x] = m.Get(x, y)
			backward[w-1-x] = forward[x]
		}

		for _, bits := range [][]bool{forward, backward} {
			for _, read := range scanLine(bits) {
				row := 3*(read.values[0]/30) + read.cluster
				if row >= maxRows {
					continue
				}

				lines = append(lines, line{row: row, rowRead: read})
			}
		}
	}

	return lines
}

type votes map[int]int

func (v votes) add(k int) { v[k]++ }

// best returns the most voted key; smaller keys win ties.
func (v votes) best() (int, bool) {
	key, count := 0, 0

	for k, c := range v {
		if c > count || (c == count && k < key) {
			key, count = k, c
		}
	}

	return key, count > 0
}

// ranked lists keys by descending votes; larger keys win ties.
func (v votes) ranked() []int {
	keys := make([]int, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b int) int {
		if c := cmp.Compare(v[b], v[a]); c != 0 {
			return c
		}

		return cmp.Compare(b, a)
	})

	return keys
}

type cell struct{ row, col int }

// decodeLines settles the symbol dimensions from the row indicators, fills
// the grid and tries each plausible row count until one passes error
// correction.
//
// Row indicators carry, per cluster: (rows-1)/3, the EC level with
// (rows-1)%3, and cols-1. The left indicator of cluster 0 and the right
// indicator of cluster 1 both hold the row quotient; some encoders get the
// left one wrong, so every quotient seen is tried.
func decodeLines(lines []line) (string, error) {
	if len(lines) == 0 {
		return "", gozxing.NewNotFoundException("no PDF417 start pattern")
	}

	colVotes, ecVotes, quotientVotes, remainderVotes := votes{}, votes{}, votes{}, votes{}

	for _, l := range lines {
		left := l.values[0] % 30

		switch l.cluster {
		case 0:
			quotientVotes.add(left)
		case 1:
			ecVotes.add(left / 3)
			remainderVotes.add(left % 3)
		case 2:
			colVotes.add(left + 1)
		}

		if !l.stopSeen || len(l.values) < 2 {
			continue
		}

		colVotes.add(len(l.values) - 2)

		right := l.values[len(l.values)-1]
		if right/30 != l.values[0]/30 {
			continue
		}

		right %= 30

		switch l.cluster {
		case 0:
			colVotes.add(right + 1)
		case 1:
			quotientVotes.add(right)
		case 2:
			ecVotes.add(right / 3)
			remainderVotes.add(right % 3)
		}
	}

	delete(colVotes, 0)

	cols, ok := colVotes.best()
	if !ok || cols > maxCols {
		return "", gozxing.NewNotFoundException("column count unreadable")
	}

	ecLevel, _ := ecVotes.best()
	if ecLevel > maxECLevel {
		return "", gozxing.NewFormatException("EC level %d", ecLevel)
	}

	ecCount := 2 << ecLevel

	grid := map[cell]votes{}
	lastRow := 0

	for _, l := range lines {
		data := l.values[1:]
		if l.stopSeen && len(data) > 0 {
			data = data[:len(data)-1]
		}

		if len(data) > cols {
			data = data[:cols]
		}

		lastRow = max(lastRow, l.row)

		for col, v := range data {
			c := cell{row: l.row, col: col}
			if grid[c] == nil {
				grid[c] = votes{}
			}

			grid[c].add(v)
		}
	}

	remainder, _ := remainderVotes.best()

	var candidates []int
	for _, q := range quotientVotes.ranked() {
		candidates = append(candidates, 3*q+remainder+1)
	}

	// The length descriptor counts every data codeword, padding included.
	if first, ok := grid[cell{}].best(); ok && (first+ecCount)%cols == 0 {
		candidates = append(candidates, (first+ecCount)/cols)
	}

	candidates = append(candidates, lastRow+1)

	var lastErr error = gozxing.NewChecksumException("no row count passed error correction")

	tried := map[int]bool{}

	for _, rows := range candidates {
		if tried[rows] || rows <= lastRow || rows > maxRows {
			continue
		}

		tried[rows] = true

		text, err := decodeGrid(grid, rows, cols, ecCount)
		if err != nil {
			lastErr = err
			continue
		}

		return text, nil
	}

	return "", lastErr
}

func decodeGrid(grid map[cell]votes, rows, cols, ecCount int) (string, error) {
	codewords := make([]int, 0, rows*cols)
	erasures := 0

	for row := range rows {
		for col := range cols {
			v, ok := grid[cell{row: row, col: col}].best()
			if !ok {
				erasures++
			}

			codewords = append(codewords, v)
		}
	}

	// Erasures are corrected as unknown errors, which costs two EC codewords each.
	if 2*erasures > ecCount {
		return "", gozxing.NewChecksumException("%d of %d codewords unread", erasures, len(codewords))
	}

	if _, err := correctErrors(codewords, ecCount); err != nil {
		return "", err
	}

	n := codewords[0]
	if n < 1 || n > len(codewords)-ecCount {
		return "", gozxing.NewFormatException("length descriptor %d", n)
	}

	return decodeBitStream(codewords[:n])
}
