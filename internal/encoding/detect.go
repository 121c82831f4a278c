package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// peekSize is how much of the input is inspected before deciding on a charset.
const peekSize = 8192

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect picks a decoder for buf. A nil decoder means buf is already UTF-8.
// skip is the number of leading bytes (a UTF-8 BOM) to drop.
//
// Electronic tax documents are normally emitted as ISO-8859-1, so anything
// that is not valid UTF-8 and that chardet cannot place falls back to
// Windows-1252, a superset of Latin-1 for printable characters.
func Detect(buf []byte) (dec *encoding.Decoder, skip int) {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return nil, len(bomUTF8)
	case bytes.HasPrefix(buf, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), 0
	case bytes.HasPrefix(buf, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), 0
	case utf8.Valid(buf):
		return nil, 0
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "ISO-8859-1", "windows-1252":
			return charmap.Windows1252.NewDecoder(), 0
		case "ISO-8859-15":
			return charmap.ISO8859_15.NewDecoder(), 0
		}
	}

	return charmap.Windows1252.NewDecoder(), 0
}

// NewUTF8Reader returns a reader that yields r's content decoded to UTF-8.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, peekSize)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	dec, skip := Detect(buf)
	if skip > 0 {
		_, _ = br.Discard(skip)
	}

	if dec == nil {
		return br, nil
	}

	return transform.NewReader(br, dec), nil
}

// ReadAllUTF8 reads r to the end and returns it as a UTF-8 string.
func ReadAllUTF8(r io.Reader) (string, error) {
	utf8r, err := NewUTF8Reader(r)
	if err != nil {
		return "", err
	}

	b, err := io.ReadAll(utf8r)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}

	return string(b), nil
}
