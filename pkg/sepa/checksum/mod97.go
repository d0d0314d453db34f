// Package checksum implements the ISO/IEC 7064 MOD 97-10 check used by IBANs
// and SEPA creditor identifiers.
//
// The digit string of a long IBAN does not fit in 64 bits, so the checksum is
// accumulated digit by digit with a running reduction. Each digit is weighted
// by 10^i mod 97, where i is its distance from the last digit.
package checksum

import (
	"strings"

	dErrors "sepacheck/pkg/domain-errors"
)

// tableSize covers the longest expanded IBAN (34 characters, all letters).
const tableSize = 70

// powers[i] = 10^i mod 97.
var powers = func() [tableSize]int {
	var p [tableSize]int
	p[0] = 1
	for i := 1; i < tableSize; i++ {
		p[i] = p[i-1] * 10 % 97
	}
	return p
}()

// Mod97 returns the MOD 97-10 remainder of a decimal digit string.
// Inputs longer than the precomputed table keep extending the weight by
// multiplication, so there is no length limit.
func Mod97(digits string) (int, error) {
	if digits == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "checksum input is empty")
	}

	sum := 0
	weight := 1
	n := len(digits)
	for i := 0; i < n; i++ {
		c := digits[n-1-i]
		if c < '0' || c > '9' {
			return 0, dErrors.Newf(dErrors.CodeInvalidInput, "checksum input contains non-digit %q", c)
		}
		if i < tableSize {
			weight = powers[i]
		} else {
			weight = weight * 10 % 97
		}
		sum = (sum + weight*int(c-'0')) % 97
	}
	return sum, nil
}

// Valid reports whether digits is a decimal string whose MOD 97-10 remainder is 1.
func Valid(digits string) bool {
	sum, err := Mod97(digits)
	return err == nil && sum == 1
}

// Expand maps letters to their two-digit values (A=10 ... Z=35) and keeps
// digits. Lowercase letters are treated as uppercase. Any other character is
// rejected.
func Expand(s string) (string, error) {
	var b strings.Builder
	b.Grow(2 * len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			v := int(c-'A') + 10
			b.WriteByte(byte('0' + v/10))
			b.WriteByte(byte('0' + v%10))
		case c >= 'a' && c <= 'z':
			v := int(c-'a') + 10
			b.WriteByte(byte('0' + v/10))
			b.WriteByte(byte('0' + v%10))
		default:
			return "", dErrors.Newf(dErrors.CodeInvalidInput, "cannot expand character %q", c)
		}
	}
	return b.String(), nil
}

// Rearrange moves the first four characters to the end, the canonical IBAN
// ordering before expansion.
func Rearrange(s string) string {
	if len(s) < 4 {
		return s
	}
	return s[4:] + s[:4]
}
