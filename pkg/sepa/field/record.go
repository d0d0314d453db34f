package field

import (
	"sort"

	dErrors "sepacheck/pkg/domain-errors"
	"sepacheck/pkg/sepa/schema"
	"sepacheck/pkg/sepa/translit"
)

// Record is a set of named field values, e.g. one payment or one
// collection. Keys keep the caller's spelling; field names resolve
// case-insensitively.
type Record map[string]Value

// Lookup follows path through nested groups. A null value counts as absent.
func (r Record) Lookup(path ...string) (Value, bool) {
	if len(path) == 0 {
		return Value{}, false
	}
	v, ok := r[path[0]]
	for _, key := range path[1:] {
		if !ok {
			break
		}
		group, isGroup := v.AsGroup()
		if !isGroup {
			return Value{}, false
		}
		v, ok = group[key]
	}
	if !ok || v.IsNull() {
		return Value{}, false
	}
	return v, true
}

// Report is the outcome of checking a whole record.
type Report struct {
	// Values holds the normalized value of every field that passed.
	Values Record `json:"values"`
	// Invalid lists the keys that failed, sorted.
	Invalid []string `json:"invalid"`
}

func (r Report) Valid() bool { return len(r.Invalid) == 0 }

// CheckAndSanitizeAll runs CheckAndSanitize on every entry of rec. Each key
// is its own field name; unknown names are invalid.
func CheckAndSanitizeAll(rec Record, flags translit.Flags, opts Options) Report {
	report := Report{Values: make(Record, len(rec)), Invalid: []string{}}
	for key, v := range rec {
		k, err := ParseKind(key)
		if err == nil {
			v, err = CheckAndSanitize(k, v, flags, opts)
		}
		if err != nil {
			report.Invalid = append(report.Invalid, key)
			continue
		}
		report.Values[key] = v
	}
	sort.Strings(report.Invalid)
	return report
}

// CheckRequiredCollectionKeys returns the collection keys missing from rec
// under version v. The error is set when v has no key set.
func CheckRequiredCollectionKeys(rec Record, v schema.Version) ([]string, error) {
	keys, err := v.RequiredCollectionKeys()
	if err != nil {
		return nil, err
	}
	return missing(rec, keys), nil
}

// CheckRequiredPaymentKeys returns the payment keys missing from rec under
// version v.
func CheckRequiredPaymentKeys(rec Record, v schema.Version) ([]string, error) {
	keys, err := v.RequiredPaymentKeys()
	if err != nil {
		return nil, err
	}
	return missing(rec, keys), nil
}

func missing(rec Record, keys []string) []string {
	out := []string{}
	for _, key := range keys {
		if _, ok := rec.Lookup(key); !ok {
			out = append(out, key)
		}
	}
	return out
}

// CheckPath checks the value found at path in rec as kind k.
func CheckPath(k Kind, rec Record, path []string, opts Options) (Value, error) {
	v, err := lookupPath(rec, path)
	if err != nil {
		return Value{}, err
	}
	return Check(k, v, opts)
}

// SanitizePath sanitizes the value found at path in rec as kind k.
func SanitizePath(k Kind, rec Record, path []string, flags translit.Flags) (Value, error) {
	v, err := lookupPath(rec, path)
	if err != nil {
		return Value{}, err
	}
	return Sanitize(k, v, flags)
}

// CheckAndSanitizePath is CheckAndSanitize for the value at path in rec.
func CheckAndSanitizePath(k Kind, rec Record, path []string, flags translit.Flags, opts Options) (Value, error) {
	v, err := lookupPath(rec, path)
	if err != nil {
		return Value{}, err
	}
	return CheckAndSanitize(k, v, flags, opts)
}

func lookupPath(rec Record, path []string) (Value, error) {
	v, ok := rec.Lookup(path...)
	if !ok {
		return Value{}, dErrors.Newf(dErrors.CodeInvalidInput, "no value at %v", path)
	}
	return v, nil
}
