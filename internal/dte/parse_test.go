package dte_test

import (
	"bytes"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/dte"
)

const sampleTED = `<TED version="1.0"><DD><RE>76123456-7</RE><TD>39</TD><F>104233</F>` +
	`<FE>2025-03-14</FE><RR>66666666-6</RR><RSR>CONSUMIDOR FINAL</RSR><MNT>12990</MNT>` +
	`<IT1>PAN AMASADO</IT1><CAF version="1.0"><DA><RE>76123456-7</RE></DA></CAF>` +
	`<TSTED>2025-03-14T12:01:33</TSTED></DD><FRMT algoritmo="SHA1withRSA">aGVsbG8=</FRMT></TED>`

func TestParse(t *testing.T) {
	want := &dte.Record{
		IssuerID:       "76123456-7",
		CounterpartyID: "66666666-6",
		Date:           civil.Date{Year: 2025, Month: 3, Day: 14},
		TotalAmount:    12990,
		DocumentNumber: "104233",
		DocumentType:   dte.TypeReceipt,
	}

	tests := []struct {
		name    string
		payload string
		want    *dte.Record
	}{
		{name: "Clean", payload: sampleTED, want: want},
		{name: "LeadingNoise", payload: "\x00\x1d]L0" + sampleTED, want: want},
		{name: "TrailingNoise", payload: sampleTED + "\n\n0000", want: want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dte.Parse(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "NoMarker", payload: "https://example.com/boleta/104233"},
		{name: "Unclosed", payload: `<TED version="1.0"><DD><RE>76123456-7</RE>`},
		{name: "MissingAmount", payload: `<TED><DD><RE>1-9</RE><TD>39</TD><F>1</F><FE>2025-03-14</FE></DD></TED>`},
		{name: "NegativeAmount", payload: `<TED><DD><RE>1-9</RE><TD>39</TD><F>1</F><FE>2025-03-14</FE><MNT>-5</MNT></DD></TED>`},
		{name: "BadDate", payload: `<TED><DD><RE>1-9</RE><TD>39</TD><F>1</F><FE>14/03/2025</FE><MNT>5</MNT></DD></TED>`},
		{name: "MissingFolio", payload: `<TED><DD><RE>1-9</RE><TD>39</TD><FE>2025-03-14</FE><MNT>5</MNT></DD></TED>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dte.Parse(tt.payload)
			assert.ErrorIs(t, err, dte.ErrNotFound)
			assert.Nil(t, got)
		})
	}
}

func TestParseDocument_Latin1(t *testing.T) {
	doc := []byte(`<?xml version="1.0" encoding="ISO-8859-1"?><DTE version="1.0"><Documento ID="B104233">` +
		`<Encabezado><Emisor><RznSocEmisor>PANADER`)
	doc = append(doc, 0xCD, 'A', ' ', 0xD1, 'U', 0xD1, 'O', 'A')
	doc = append(doc, []byte(`</RznSocEmisor></Emisor></Encabezado>`+sampleTED+`</Documento></DTE>`)...)

	got, err := dte.ParseDocument(bytes.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "76123456-7", got.IssuerID)
	assert.Equal(t, int64(12990), got.TotalAmount)
	assert.Equal(t, "104233", got.DocumentNumber)
}

func TestDocumentType_String(t *testing.T) {
	assert.Equal(t, "Factura Electrónica", dte.TypeInvoice.String())
	assert.Equal(t, "Boleta Electrónica", dte.TypeReceipt.String())
	assert.Equal(t, "DTE 110", dte.DocumentType(110).String())
}

func TestNormalizeRUT(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "76123456-7", want: "76123456-7"},
		{in: "76.123.456-k", want: "76123456-K"},
		{in: " 9.876.543-2 ", want: "9876543-2"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, dte.NormalizeRUT(tt.in))
		})
	}
}
