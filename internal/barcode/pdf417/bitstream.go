package pdf417

import (
	"math/big"

	"github.com/makiuchi-d/gozxing"
	"golang.org/x/text/encoding/charmap"
)

// Mode and control codewords.
const (
	textLatch      = 900
	byteLatch      = 901
	numericLatch   = 902
	byteShift      = 913
	macroTerminate = 922
	macroOptional  = 923
	byteLatchSix   = 924
	eciUserDefined = 925
	eciGeneral     = 926
	eciCharset     = 927
	macroBegin     = 928

	eciUTF8 = 26
)

const (
	mixedChars = "0123456789&\r\t,:#-.$/+%*=^"
	punctChars = ";<>@[\\]_`~!\r\t,:\n-.$/\"|*()?{}'"
)

type textMode int

const (
	modeAlpha textMode = iota
	modeLower
	modeMixed
	modePunct
	modeAlphaShift
	modePunctShift
)

// decodeBitStream expands the data codewords (length descriptor first) into
// text. Bytes are ISO-8859-1 unless an ECI selects UTF-8.
func decodeBitStream(codewords []int) (string, error) {
	var (
		out  []byte
		utf8 bool
		err  error
	)

	n := len(codewords)

	for i := 1; i < n; {
		switch cw := codewords[i]; cw {
		case textLatch:
			i, out = decodeText(codewords, i+1, out)
		case byteLatch, byteLatchSix:
			i, out = decodeBytes(cw, codewords, i+1, out)
		case numericLatch:
			i, out, err = decodeNumeric(codewords, i+1, out)
			if err != nil {
				return "", err
			}
		case byteShift:
			if i+1 < n {
				out = append(out, byte(codewords[i+1]))
			}

			i += 2
		case eciCharset:
			if i+1 < n {
				utf8 = codewords[i+1] == eciUTF8
			}

			i += 2
		case eciUserDefined:
			i += 2
		case eciGeneral:
			i += 3
		case macroBegin, macroOptional, macroTerminate:
			// The macro control block closes the data; segment metadata is not kept.
			i = n
		default:
			if cw > textLatch {
				return "", gozxing.NewFormatException("unknown codeword %d", cw)
			}

			i, out = decodeText(codewords, i, out)
		}
	}

	if utf8 {
		return string(out), nil
	}

	text, err := charmap.ISO8859_1.NewDecoder().Bytes(out)
	if err != nil {
		return "", gozxing.WrapFormatException(err)
	}

	return string(text), nil
}

type textValue struct {
	value int
	latch bool
	shift bool
}

// decodeText reads text compaction codewords from i and returns the index of
// the first codeword that ends the segment.
func decodeText(codewords []int, i int, out []byte) (int, []byte) {
	var values []textValue

	n := len(codewords)

loop:
	for i < n {
		switch cw := codewords[i]; {
		case cw < textLatch:
			values = append(values, textValue{value: cw / 30}, textValue{value: cw % 30})
			i++
		case cw == textLatch:
			values = append(values, textValue{latch: true})
			i++
		case cw == byteShift:
			if i+1 < n {
				values = append(values, textValue{value: codewords[i+1], shift: true})
			}

			i += 2
		default:
			break loop
		}
	}

	mode, prior := modeAlpha, modeAlpha

	for _, v := range values {
		switch {
		case v.latch:
			mode = modeAlpha
			continue
		case v.shift:
			out = append(out, byte(v.value))
			if mode == modeAlphaShift || mode == modePunctShift {
				mode = prior
			}

			continue
		}

		c := v.value

		switch mode {
		case modeAlpha:
			switch {
			case c < 26:
				out = append(out, byte('A'+c))
			case c == 26:
				out = append(out, ' ')
			case c == 27:
				mode = modeLower
			case c == 28:
				mode = modeMixed
			default:
				prior, mode = mode, modePunctShift
			}
		case modeLower:
			switch {
			case c < 26:
				out = append(out, byte('a'+c))
			case c == 26:
				out = append(out, ' ')
			case c == 27:
				prior, mode = mode, modeAlphaShift
			case c == 28:
				mode = modeMixed
			default:
				prior, mode = mode, modePunctShift
			}
		case modeMixed:
			switch {
			case c < 25:
				out = append(out, mixedChars[c])
			case c == 25:
				mode = modePunct
			case c == 26:
				out = append(out, ' ')
			case c == 27:
				mode = modeLower
			case c == 28:
				mode = modeAlpha
			default:
				prior, mode = mode, modePunctShift
			}
		case modePunct:
			if c < 29 {
				out = append(out, punctChars[c])
			} else {
				mode = modeAlpha
			}
		case modeAlphaShift:
			mode = prior

			switch {
			case c < 26:
				out = append(out, byte('A'+c))
			case c == 26:
				out = append(out, ' ')
			}
		case modePunctShift:
			mode = prior

			if c < 29 {
				out = append(out, punctChars[c])
			} else {
				mode = modeAlpha
			}
		}
	}

	return i, out
}

// decodeBytes handles byte compaction. Five codewords carry six bytes; under
// the 901 latch a trailing group shorter than that, or one not followed by
// more data, is one byte per codeword.
func decodeBytes(mode int, codewords []int, i int, out []byte) (int, []byte) {
	n := len(codewords)

	for i < n {
		j := i
		for j < n && j-i < 5 && codewords[j] < textLatch {
			j++
		}

		if j-i == 5 && (mode == byteLatchSix || (j < n && codewords[j] < textLatch)) {
			var v int64
			for _, cw := range codewords[i:j] {
				v = v*900 + int64(cw)
			}

			for k := 5; k >= 0; k-- {
				out = append(out, byte(v>>(8*k)))
			}

			i = j

			continue
		}

		for _, cw := range codewords[i:j] {
			out = append(out, byte(cw))
		}

		i = j

		if j >= n || codewords[j] >= textLatch {
			break
		}
	}

	return i, out
}

const numericGroup = 15

var nineHundred = big.NewInt(900)

// decodeNumeric reads base-900 groups of up to 15 codewords, each encoding a
// decimal string behind a leading 1.
func decodeNumeric(codewords []int, i int, out []byte) (int, []byte, error) {
	n := len(codewords)

	for i < n && codewords[i] < textLatch {
		j := i
		for j < n && j-i < numericGroup && codewords[j] < textLatch {
			j++
		}

		v := new(big.Int)
		for _, cw := range codewords[i:j] {
			v.Mul(v, nineHundred)
			v.Add(v, big.NewInt(int64(cw)))
		}

		digits := v.String()
		if digits[0] != '1' {
			return i, out, gozxing.NewFormatException("numeric group without leading 1")
		}

		out = append(out, digits[1:]...)
		i = j
	}

	return i, out, nil
}
