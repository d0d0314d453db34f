package validator

import (
	"regexp"
	"sort"
	"strings"

	"sepacheck/pkg/sepa/checksum"
)

// ibanShapeSources holds the national BBAN layout for each IBAN country, i.e. the
// part following the two-letter country code.
var ibanShapeSources = map[string]string{
	"EG": `[0-9]{2}[0-9A-Z]{23}`,
	"AL": `[0-9]{10}[0-9A-Z]{16}`,
	"DZ": `[0-9]{2}[0-9A-Z]{20}`,
	"AD": `[0-9]{10}[0-9A-Z]{12}`,
	"AO": `[0-9]{2}[0-9A-Z]{21}`,
	"AZ": `[0-9]{2}[0-9A-Z]{24}`,
	"BH": `[0-9]{2}[0-9A-Z]{18}`,
	"BE": `[0-9]{14}`,
	"BJ": `[0-9]{2}[0-9A-Z]{24}`,
	"BA": `[0-9]{18}`,
	"BR": `[0-9]{2}[0-9A-Z]{25}`,
	"VG": `[0-9]{2}[0-9A-Z]{20}`,
	"BG": `[0-9]{2}[A-Z]{4}[0-9]{6}[0-9A-Z]{8}`,
	"BF": `[0-9]{2}[0-9A-Z]{23}`,
	"BI": `[0-9]{2}[0-9A-Z]{12}`,
	"CR": `[0-9]{2}[0-9A-Z]{17}`,
	"CI": `[0-9]{2}[0-9A-Z]{24}`,
	"DK": `[0-9]{16}`,
	"DE": `[0-9]{20}`,
	"DO": `[0-9]{2}[0-9A-Z]{24}`,
	"EE": `[0-9]{18}`,
	"FO": `[0-9]{16}`,
	"FI": `[0-9]{16}`,
	"FR": `[0-9]{2}[0-9A-Z]{23}`,
	"GA": `[0-9]{2}[0-9A-Z]{23}`,
	"GE": `[0-9]{2}[A-Z]{2}[0-9A-Z]{16}`,
	"GI": `[0-9]{2}[A-Z]{4}[0-9]{15}`,
	"GR": `[0-9]{9}[0-9A-Z]{16}`,
	"GL": `[0-9]{16}`,
	"GT": `[0-9]{2}[0-9A-Z]{24}`,
	"IR": `[0-9]{2}[0-9A-Z]{22}`,
	"IE": `[0-9]{2}[A-Z]{4}[0-9]{14}`,
	"IS": `[0-9]{24}`,
	"IL": `[0-9]{21}`,
	"IT": `[0-9]{2}[A-Z]{1}[0-9]{10}[0-9A-Z]{12}`,
	"JO": `[0-9]{2}[0-9A-Z]{26}`,
	"CM": `[0-9]{2}[0-9A-Z]{23}`,
	"CV": `[0-9]{2}[0-9A-Z]{21}`,
	"KZ": `[0-9]{5}[0-9A-Z]{13}`,
	"QA": `[0-9]{2}[0-9A-Z]{25}`,
	"CG": `[0-9]{2}[0-9A-Z]{23}`,
	"KS": `[0-9]{2}[0-9A-Z]{16}`,
	"HR": `[0-9]{19}`,
	"KW": `[0-9]{2}[A-Z]{4}[0-9A-Z]{22}`,
	"LV": `[0-9]{2}[A-Z]{4}[0-9A-Z]{13}`,
	"LB": `[0-9]{6}[0-9A-Z]{20}`,
	"LI": `[0-9]{7}[0-9A-Z]{12}`,
	"LT": `[0-9]{18}`,
	"LU": `[0-9]{5}[0-9A-Z]{13}`,
	"MG": `[0-9]{2}[0-9A-Z]{23}`,
	"ML": `[0-9]{2}[0-9A-Z]{24}`,
	"MT": `[0-9]{2}[A-Z]{4}[0-9]{5}[0-9A-Z]{18}`,
	"MR": `[0-9]{25}`,
	"MU": `[0-9]{2}[0-9A-Z]{23}[A-Z]{3}`,
	"MK": `[0-9]{5}[0-9A-Z]{10}[0-9]{2}`,
	"MD": `[0-9]{2}[0-9A-Z]{20}`,
	"MC": `[0-9]{12}[0-9A-Z]{11}[0-9]{2}`,
	"ME": `[0-9]{20}`,
	"MZ": `[0-9]{2}[0-9A-Z]{21}`,
	"NL": `[0-9]{2}[A-Z]{4}[0-9]{10}`,
	"NO": `[0-9]{13}`,
	"AT": `[0-9]{18}`,
	"TL": `[0-9]{2}[0-9A-Z]{16}`,
	"PK": `[0-9]{2}[0-9A-Z]{20}`,
	"PS": `[0-9]{2}[0-9A-Z]{25}`,
	"PL": `[0-9]{26}`,
	"PT": `[0-9]{23}`,
	"RO": `[0-9]{2}[A-Z]{4}[0-9A-Z]{16}`,
	"SM": `[0-9]{2}[A-Z]{1}[0-9]{10}[0-9A-Z]{12}`,
	"ST": `[0-9]{2}[0-9A-Z]{21}`,
	"SA": `[0-9]{4}[0-9A-Z]{18}`,
	"SE": `[0-9]{22}`,
	"CH": `[0-9]{2}[0-9]{5}[0-9A-Z]{12}`,
	"SN": `[0-9]{2}[0-9A-Z]{24}`,
	"RS": `[0-9]{20}`,
	"SK": `[0-9]{22}`,
	"SI": `[0-9]{17}`,
	"ES": `[0-9]{22}`,
	"CZ": `[0-9]{22}`,
	"TN": `[0-9]{22}`,
	"TR": `[0-9]{7}[0-9A-Z]{17}`,
	"HU": `[0-9]{26}`,
	"AE": `[0-9]{2}[0-9A-Z]{19}`,
	"GB": `[0-9]{2}[A-Z]{4}[0-9]{14}`,
	"CY": `[0-9]{10}[0-9A-Z]{16}`,
	"CF": `[0-9]{2}[0-9A-Z]{23}`,
}

var (
	ibanPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{1,30}$`)
	ibanShapes  = compileShapes(ibanShapeSources)
)

func compileShapes(src map[string]string) map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(src))
	for cc, shape := range src {
		out[cc] = regexp.MustCompile("^" + shape + "$")
	}
	return out
}

// eeaCountries are the European Economic Area members that take part in SEPA.
var eeaCountries = map[string]bool{
	"IS": true, "LI": true, "NO": true, "BE": true, "BG": true, "DK": true, "DE": true,
	"EE": true, "FI": true, "FR": true, "GR": true, "IE": true, "IT": true, "HR": true,
	"LV": true, "LT": true, "LU": true, "MT": true, "NL": true, "AT": true, "PL": true,
	"PT": true, "RO": true, "SE": true, "SK": true, "SI": true, "ES": true, "CZ": true,
	"HU": true, "GB": true, "CY": true,
}

// IBANOptions switch off parts of the IBAN check. The zero value checks both
// the national format and the checksum.
type IBANOptions struct {
	SkipFormat   bool `json:"skip_format,omitempty"`
	SkipChecksum bool `json:"skip_checksum,omitempty"`
}

// CheckIBAN validates an IBAN and returns it without whitespace in upper case.
// Countries without a known national layout only get the generic check.
func CheckIBAN(raw string, opts IBANOptions) (string, error) {
	iban := strings.ToUpper(stripSpace(raw))
	if !ibanPattern.MatchString(iban) {
		return "", invalid("iban", "malformed IBAN")
	}

	if !opts.SkipFormat {
		if shape, ok := ibanShapes[iban[:2]]; ok && !shape.MatchString(iban[2:]) {
			return "", invalid("iban", "IBAN does not match the national format of "+iban[:2])
		}
	}

	if !opts.SkipChecksum {
		digits, err := checksum.Expand(checksum.Rearrange(iban))
		if err != nil || !checksum.Valid(digits) {
			return "", invalid("iban", "IBAN checksum mismatch")
		}
	}
	return iban, nil
}

// CountryCodes returns every country with a known IBAN layout, sorted.
func CountryCodes() []string {
	out := make([]string, 0, len(ibanShapes))
	for cc := range ibanShapes {
		out = append(out, cc)
	}
	sort.Strings(out)
	return out
}

// CheckCountryCode accepts any country with a known IBAN layout and returns
// it in upper case.
func CheckCountryCode(raw string) (string, error) {
	cc := strings.ToUpper(raw)
	if _, ok := ibanShapes[cc]; !ok {
		return "", invalid("ctry", "unknown country code")
	}
	return cc, nil
}

// IsNationalTransaction reports whether iban1 starts with the first two
// characters of iban2, ignoring case and whitespace. Validity of either IBAN
// is not checked.
//
// An empty iban2 matches everything.
// TODO: compare both country codes once callers stop relying on the empty match.
func IsNationalTransaction(iban1, iban2 string) bool {
	a := strings.ToUpper(stripSpace(iban1))
	b := strings.ToUpper(prefix(stripSpace(iban2), 2))
	return strings.HasPrefix(a, b)
}

// IsEEATransaction reports whether both IBANs carry EEA country codes.
func IsEEATransaction(iban1, iban2 string) bool {
	a := strings.ToUpper(prefix(stripSpace(iban1), 2))
	b := strings.ToUpper(prefix(stripSpace(iban2), 2))
	return eeaCountries[a] && eeaCountries[b]
}
