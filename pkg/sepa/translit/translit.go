// Package translit converts arbitrary user text into the restricted SEPA
// character set [A-Za-z0-9/-?:().,'+ ].
package translit

import (
	"strings"
	"unicode"
	"unicode/utf8"

	dErrors "sepacheck/pkg/domain-errors"
)

// Flags select alternative handling of character groups. Combine with |.
type Flags int

const (
	// AltReplacementGerman writes umlauts as two letters (Ä -> Ae, ß -> ss).
	AltReplacementGerman Flags = 1 << 0
	// NoReplacementGerman keeps Ä ä Ö ö Ü ü ß untouched. It wins over
	// AltReplacementGerman when both are set.
	NoReplacementGerman Flags = 1 << 15
)

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// ParseFlags maps configuration names to flags. Unknown names are rejected.
func ParseFlags(names ...string) (Flags, error) {
	var f Flags
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "":
		case "alt-german":
			f |= AltReplacementGerman
		case "no-german":
			f |= NoReplacementGerman
		default:
			return 0, dErrors.Newf(dErrors.CodeInvalidInput, "unknown sanitize flag %q", n)
		}
	}
	return f, nil
}

type table struct {
	replace map[rune]string
	keep    map[rune]bool
}

var (
	defaultTable   = newTable(0)
	altGermanTable = newTable(AltReplacementGerman)
	noGermanTable  = newTable(NoReplacementGerman)
)

func newTable(flags Flags) table {
	t := table{replace: make(map[rune]string, len(baseReplacements)), keep: map[rune]bool{}}
	for r, s := range baseReplacements {
		t.replace[r] = s
	}
	switch {
	case flags.Has(NoReplacementGerman):
		for _, r := range germanLetters {
			delete(t.replace, r)
			t.keep[r] = true
		}
	case flags.Has(AltReplacementGerman):
		for r, s := range altGermanReplacements {
			t.replace[r] = s
		}
	}
	return t
}

func tableFor(flags Flags) table {
	switch {
	case flags.Has(NoReplacementGerman):
		return noGermanTable
	case flags.Has(AltReplacementGerman):
		return altGermanTable
	default:
		return defaultTable
	}
}

// Allowed reports whether r belongs to the SEPA character set.
func Allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("/-?:().,'+ ", r)
}

func removed(r rune) bool {
	return r == '"' || r == '&' || r == '<' || r == '>'
}

// Replace sanitizes s for a SEPA text field. Quotes, ampersands and angle
// brackets are dropped, whitespace runs become a single space, known letters
// are transliterated and anything else becomes a dot. The result is trimmed.
// Replace(Replace(s, f), f) == Replace(s, f).
func Replace(s string, flags Flags) string {
	t := tableFor(flags)

	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if removed(r) {
			continue
		}
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false

		if rep, ok := t.replace[r]; ok {
			b.WriteString(rep)
			continue
		}
		if Allowed(r) || t.keep[r] {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('.')
	}
	return strings.Trim(b.String(), " ")
}

// Truncate cuts s to at most max characters.
func Truncate(s string, max int) string {
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// Text replaces special characters and truncates to max. An empty result is
// rejected unless allowEmpty is set.
func Text(s string, max int, allowEmpty bool, flags Flags) (string, error) {
	res := Truncate(Replace(s, flags), max)
	if res == "" && !allowEmpty {
		return "", dErrors.New(dErrors.CodeInvalidInput, "text is empty after sanitizing")
	}
	return res, nil
}
