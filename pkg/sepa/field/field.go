// Package field validates SEPA field values by field name.
//
// Each field name resolves to a Kind and every Kind has exactly one check.
// Free-text kinds additionally have a sanitizer that transliterates and
// truncates input which fails the check. Record-level helpers validate a
// whole set of fields at once and look for required keys.
package field

import (
	"strings"

	dErrors "sepacheck/pkg/domain-errors"
	"sepacheck/pkg/sepa/schema"
	"sepacheck/pkg/sepa/translit"
	"sepacheck/pkg/sepa/validator"
)

// Options parameterize Check.
type Options struct {
	Version schema.Version        `json:"version,omitempty"`
	IBAN    validator.IBANOptions `json:"iban,omitempty"`
	BIC     validator.BICOptions  `json:"bic,omitempty"`
}

type checkFunc func(v Value, opts Options) (Value, error)

type sanitizeFunc func(v Value, flags translit.Flags) (Value, error)

var handlers map[Kind]checkFunc

func init() {
	handlers = map[Kind]checkFunc{
		KindCreditorID:          textCheck(validator.CheckCreditorIdentifier),
		KindRestrictedID:        textCheck(validator.CheckRestrictedID),
		KindMandateID:           checkMandateID,
		KindInitiatingPartyID:   checkInitiatingPartyID,
		KindName:                requiredText(validator.TextLengthShort),
		KindShortID:             optionalText(validator.TextLengthVeryShort),
		KindShortText:           optionalText(validator.TextLengthShort),
		KindCreditorSchemeName:  optionalText(validator.TextLengthShort),
		KindAddressLine:         checkAddressLine,
		KindRemittanceInfo:      optionalText(validator.TextLengthLong),
		KindElectronicSignature: optionalText(validator.TextLengthSignature),
		KindIBAN: func(v Value, opts Options) (Value, error) {
			return textCheck(func(s string) (string, error) { return validator.CheckIBAN(s, opts.IBAN) })(v, opts)
		},
		KindBIC: func(v Value, opts Options) (Value, error) {
			return textCheck(func(s string) (string, error) { return validator.CheckBIC(s, opts.BIC) })(v, opts)
		},
		KindCurrency:     textCheck(validator.CheckCurrency),
		KindBoolean:      textCheck(validator.CheckBoolean),
		KindAmount:       checkAmount,
		KindSequenceType: textCheck(validator.CheckSequenceType),
		KindLocalInstrument: func(v Value, opts Options) (Value, error) {
			return textCheck(func(s string) (string, error) { return validator.CheckLocalInstrument(s, opts.Version) })(v, opts)
		},
		KindDate:            textCheck(validator.CheckDate),
		KindPurpose:         textCheck(validator.CheckPurpose),
		KindCategoryPurpose: textCheck(validator.CheckCategoryPurpose),
		KindPassThrough:     passThrough,
		KindCountry:         textCheck(validator.CheckCountryCode),
		KindPostalAddress:   checkPostalAddress,
	}
}

var sanitizers = map[Kind]sanitizeFunc{
	KindShortID:            sanitizeText(validator.TextLengthVeryShort, true),
	KindShortText:          sanitizeText(validator.TextLengthShort, true),
	KindAddressLine:        sanitizeAddressLine,
	KindName:               sanitizeText(validator.TextLengthShort, false),
	KindCreditorSchemeName: sanitizeText(validator.TextLengthShort, false),
	KindRemittanceInfo:     sanitizeText(validator.TextLengthLong, true),
}

// Check validates v as a field of kind k and returns the normalized value.
func Check(k Kind, v Value, opts Options) (Value, error) {
	h, ok := handlers[k]
	if !ok {
		return Value{}, dErrors.Newf(dErrors.CodeInvalidInput, "no check for field kind %d", int(k))
	}
	return h(v, opts)
}

// CheckName is Check for a field name.
func CheckName(name string, v Value, opts Options) (Value, error) {
	k, err := ParseKind(name)
	if err != nil {
		return Value{}, err
	}
	return Check(k, v, opts)
}

// Sanitize repairs free text so it fits kind k. Kinds without a sanitizer
// are rejected.
func Sanitize(k Kind, v Value, flags translit.Flags) (Value, error) {
	s, ok := sanitizers[k]
	if !ok {
		return Value{}, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be sanitized", k)
	}
	return s(v, flags)
}

// CheckAndSanitize returns the checked value, or the sanitized value when
// the check fails.
func CheckAndSanitize(k Kind, v Value, flags translit.Flags, opts Options) (Value, error) {
	checked, checkErr := Check(k, v, opts)
	if checkErr == nil {
		return checked, nil
	}
	if !k.Sanitizable() {
		return Value{}, checkErr
	}
	return Sanitize(k, v, flags)
}

func textCheck(fn func(string) (string, error)) checkFunc {
	return func(v Value, _ Options) (Value, error) {
		s, ok := v.scalar()
		if !ok {
			return Value{}, dErrors.Newf(dErrors.CodeInvalidInput, "expected text, got %s", v.Type())
		}
		out, err := fn(s)
		if err != nil {
			return Value{}, err
		}
		return Text(out), nil
	}
}

func optionalText(max int) checkFunc {
	return textCheck(func(s string) (string, error) {
		return validator.CheckText(s, max)
	})
}

func requiredText(max int) checkFunc {
	return textCheck(func(s string) (string, error) {
		if s == "" {
			return "", dErrors.New(dErrors.CodeInvalidInput, "text: must not be empty")
		}
		return validator.CheckText(s, max)
	})
}

// Mandate ids may contain whitespace only under pain.008.001.02 and its
// GBIC variant.
func checkMandateID(v Value, opts Options) (Value, error) {
	switch opts.Version {
	case schema.Pain00800102, schema.Pain00800102GBIC:
		return textCheck(validator.CheckRestrictedID)(v, opts)
	default:
		return textCheck(validator.CheckRestrictedIDNoSpace)(v, opts)
	}
}

func checkInitiatingPartyID(v Value, opts Options) (Value, error) {
	if opts.Version == schema.Pain00800102Austrian003 {
		return Value{}, dErrors.New(dErrors.CodeInvalidInput, "initgptyid: not supported by the Austrian 003 variant")
	}
	return requiredText(validator.TextLengthVeryShort)(v, opts)
}

func checkAddressLine(v Value, opts Options) (Value, error) {
	lines, ok := v.AsLines()
	if !ok {
		return optionalText(validator.TextLengthShort)(v, opts)
	}
	if err := checkLineCount(lines); err != nil {
		return Value{}, err
	}
	for _, l := range lines {
		if _, err := validator.CheckText(l, validator.TextLengthShort); err != nil {
			return Value{}, err
		}
	}
	return Lines(lines...), nil
}

// An address is one line of text or a list of one or two lines.
func checkLineCount(lines []string) error {
	if len(lines) == 0 || len(lines) > 2 {
		return dErrors.New(dErrors.CodeInvalidInput, "adrline: one or two lines expected")
	}
	return nil
}

func checkAmount(v Value, _ Options) (Value, error) {
	if d, ok := v.AsNumber(); ok {
		out, err := validator.CheckAmountDecimal(d)
		if err != nil {
			return Value{}, err
		}
		return Number(out), nil
	}
	s, ok := v.AsText()
	if !ok {
		return Value{}, dErrors.Newf(dErrors.CodeInvalidInput, "instdamt: expected text or number, got %s", v.Type())
	}
	out, err := validator.CheckAmount(s)
	if err != nil {
		return Value{}, err
	}
	return Number(out), nil
}

func passThrough(v Value, _ Options) (Value, error) {
	if v.IsNull() {
		return Value{}, dErrors.New(dErrors.CodeInvalidInput, "value is null")
	}
	return v, nil
}

// A postal address holds one or two of ctry and adrline, checked
// recursively. Sub-field names keep their original spelling.
func checkPostalAddress(v Value, opts Options) (Value, error) {
	group, ok := v.AsGroup()
	if !ok || len(group) == 0 || len(group) > 2 {
		return Value{}, dErrors.New(dErrors.CodeInvalidInput, "postal address: one or two of ctry, adrline expected")
	}
	out := make(map[string]Value, len(group))
	for name, sub := range group {
		var k Kind
		switch strings.ToLower(name) {
		case "ctry":
			k = KindCountry
		case "adrline":
			k = KindAddressLine
		default:
			return Value{}, dErrors.Newf(dErrors.CodeInvalidInput, "postal address: unexpected field %q", name)
		}
		checked, err := Check(k, sub, opts)
		if err != nil {
			return Value{}, err
		}
		out[name] = checked
	}
	return Group(out), nil
}

func sanitizeText(max int, allowEmpty bool) sanitizeFunc {
	return func(v Value, flags translit.Flags) (Value, error) {
		s, ok := v.scalar()
		if !ok {
			return Value{}, dErrors.Newf(dErrors.CodeInvalidInput, "expected text, got %s", v.Type())
		}
		out, err := translit.Text(s, max, allowEmpty, flags)
		if err != nil {
			return Value{}, err
		}
		return Text(out), nil
	}
}

func sanitizeAddressLine(v Value, flags translit.Flags) (Value, error) {
	lines, ok := v.AsLines()
	if !ok {
		return sanitizeText(validator.TextLengthShort, true)(v, flags)
	}
	if err := checkLineCount(lines); err != nil {
		return Value{}, err
	}
	for i, l := range lines {
		out, err := translit.Text(l, validator.TextLengthShort, true, flags)
		if err != nil {
			return Value{}, err
		}
		lines[i] = out
	}
	return Lines(lines...), nil
}
