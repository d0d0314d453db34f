package validator

import (
	"time"
)

const (
	// DateLayout is the ISO date used in pain messages.
	DateLayout = "2006-01-02"
	// CreationDateTimeLayout is the GrpHdr/CreDtTm layout without zone.
	CreationDateTimeLayout = "2006-01-02T15:04:05"
	// GermanDateLayout is the default input layout of ParseDate.
	GermanDateLayout = "02.01.2006"
)

// sanitizeLayouts are tried in order by SanitizeDate. Day first wins over
// month first, so 04.01.2016 is the 4th of January.
var sanitizeLayouts = []string{
	"02.01.2006", "02.01.06", "2.1.2006", "2.1.06",
	"01.02.2006", "01.02.06", "1.2.2006", "1.2.06",
	"2006/01/02", "06/01/02", "2006/1/2", "06/1/2",
	"2006.01.02", "06.01.02", "2006.1.2", "06.1.2",
}

// CheckDate accepts a calendar date in YYYY-MM-DD form. The input must
// survive a parse and format round trip, so 2014-02-30 is rejected.
func CheckDate(raw string) (string, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil || t.Format(DateLayout) != raw {
		return "", invalid("date", "not a YYYY-MM-DD date")
	}
	return raw, nil
}

// CheckCreationDateTime accepts YYYY-MM-DDThh:mm:ss.
func CheckCreationDateTime(raw string) (string, error) {
	t, err := time.Parse(CreationDateTimeLayout, raw)
	if err != nil || t.Format(CreationDateTimeLayout) != raw {
		return "", invalid("credttm", "not a YYYY-MM-DDThh:mm:ss timestamp")
	}
	return raw, nil
}

// SanitizeDate rewrites common European and US date notations to
// YYYY-MM-DD. Layouts in preferred (Go reference layouts) are tried before
// the built-in ones. Ambiguous input is read day first.
func SanitizeDate(raw string, preferred ...string) (string, error) {
	if d, err := CheckDate(raw); err == nil {
		return d, nil
	}
	for _, layouts := range [][]string{preferred, sanitizeLayouts} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Format(DateLayout), nil
			}
		}
	}
	return "", invalid("date", "unrecognized date notation")
}

// ParseDate reads raw in layout (GermanDateLayout when empty) and returns it
// as YYYY-MM-DD.
func ParseDate(raw, layout string) (string, error) {
	if layout == "" {
		layout = GermanDateLayout
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return "", invalid("date", "does not match layout "+layout)
	}
	return t.Format(DateLayout), nil
}
