package dte

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/MrJamesThe3rd/gastos/internal/encoding"
)

// marker opens the TED block. Decoded symbols often carry noise before it.
const marker = "<TED"

type ted struct {
	XMLName xml.Name `xml:"TED"`
	DD      struct {
		RE  string `xml:"RE"`
		TD  string `xml:"TD"`
		F   string `xml:"F"`
		FE  string `xml:"FE"`
		RR  string `xml:"RR"`
		MNT string `xml:"MNT"`
	} `xml:"DD"`
}

// Parse extracts the record from decoded symbol text. Anything short of a
// complete record yields an error wrapping ErrNotFound.
func Parse(payload string) (*Record, error) {
	start := strings.Index(payload, marker)
	if start == -1 {
		return nil, ErrNotFound
	}

	var t ted

	// Decode stops after the TED element, so trailing bytes are ignored.
	if err := xml.NewDecoder(strings.NewReader(payload[start:])).Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: decoding TED: %v", ErrNotFound, err)
	}

	return t.record()
}

// ParseDocument reads a whole document (for example a DTE XML file, usually
// ISO-8859-1) and extracts the TED it embeds.
func ParseDocument(r io.Reader) (*Record, error) {
	content, err := encoding.ReadAllUTF8(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	return Parse(content)
}

func (t *ted) record() (*Record, error) {
	dd := t.DD

	issuer := NormalizeRUT(dd.RE)
	folio := strings.TrimSpace(dd.F)

	if issuer == "" || folio == "" {
		return nil, fmt.Errorf("%w: missing issuer or folio", ErrNotFound)
	}

	docType, err := strconv.Atoi(strings.TrimSpace(dd.TD))
	if err != nil {
		return nil, fmt.Errorf("%w: document type %q", ErrNotFound, dd.TD)
	}

	date, err := civil.ParseDate(strings.TrimSpace(dd.FE))
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrNotFound, dd.FE)
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(dd.MNT), 10, 64)
	if err != nil || amount < 0 {
		return nil, fmt.Errorf("%w: amount %q", ErrNotFound, dd.MNT)
	}

	return &Record{
		IssuerID:       issuer,
		CounterpartyID: strings.TrimSpace(dd.RR),
		Date:           date,
		TotalAmount:    amount,
		DocumentNumber: folio,
		DocumentType:   DocumentType(docType),
	}, nil
}
