package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// optString is a JSON string that may be null, absent or blank. Numbers are
// kept as their literal text; other JSON kinds are ignored.
type optString string

func (s *optString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch {
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}

		*s = optString(v)
	case data[0] == '-' || data[0] >= '0' && data[0] <= '9':
		*s = optString(data)
	}

	return nil
}

func (s optString) ptr() *string {
	v := strings.TrimSpace(string(s))
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}

	return &v
}

// amount accepts 12990, 12990.4, "12990" and "$12.990" (dots as thousands separators).
type amount struct {
	value *int64
}

var amountCleaner = strings.NewReplacer("$", "", " ", "", ".", "", "CLP", "", "clp", "")

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var d decimal.Decimal

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		s = strings.ReplaceAll(amountCleaner.Replace(s), ",", ".")
		if s == "" {
			return nil
		}

		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("parsing amount %q: %w", s, err)
		}

		d = parsed
	} else {
		parsed, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("parsing amount %s: %w", data, err)
		}

		d = parsed
	}

	v := d.Round(0).IntPart()
	a.value = &v

	return nil
}

// parseDate accepts a plain YYYY-MM-DD or an RFC 3339 timestamp, which is
// read in loc so late-evening purchases keep their local date.
func parseDate(s string, loc *time.Location) *civil.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		d := civil.DateOf(t.In(loc))
		return &d
	}

	if len(s) >= 10 {
		if d, err := civil.ParseDate(s[:10]); err == nil {
			return &d
		}
	}

	return nil
}
