package schema

import (
	dErrors "sepacheck/pkg/domain-errors"
)

// Keys are case-sensitive record keys as payment-file generators use them.
var (
	collectionKeys = map[Version][]string{
		Pain00100203:     {"pmtInfId", "dbtr", "iban", "bic"},
		Pain00100103:     {"pmtInfId", "dbtr", "iban"},
		Pain00100103GBIC: {"pmtInfId", "dbtr", "iban"},
		Pain00100103CH02: {"pmtInfId", "dbtr", "iban"},
		Pain00100303:     {"pmtInfId", "dbtr", "iban"},
		Pain00800202:     {"pmtInfId", "lclInstrm", "seqTp", "cdtr", "iban", "bic", "ci"},
		Pain00800102:     {"pmtInfId", "lclInstrm", "seqTp", "cdtr", "iban", "ci"},
		Pain00800102GBIC: {"pmtInfId", "lclInstrm", "seqTp", "cdtr", "iban", "ci"},
		Pain00800302:     {"pmtInfId", "lclInstrm", "seqTp", "cdtr", "iban", "ci"},
		Pain00800102CH03: {"pmtInfId", "lclInstrm", "seqTp", "cdtr", "iban", "lsv"},
	}

	paymentKeys = map[Version][]string{
		Pain00100203:     {"pmtId", "instdAmt", "iban", "bic", "cdtr"},
		Pain00100103:     {"pmtId", "instdAmt", "iban", "cdtr"},
		Pain00100103GBIC: {"pmtId", "instdAmt", "iban", "cdtr"},
		Pain00100103CH02: {"pmtId", "instdAmt", "iban", "cdtr"},
		Pain00100303:     {"pmtId", "instdAmt", "iban", "cdtr"},
		Pain00800202:     {"pmtId", "instdAmt", "mndtId", "dtOfSgntr", "dbtr", "iban", "bic"},
		Pain00800102:     {"pmtId", "instdAmt", "mndtId", "dtOfSgntr", "dbtr", "iban"},
		Pain00800102GBIC: {"pmtId", "instdAmt", "mndtId", "dtOfSgntr", "dbtr", "iban"},
		Pain00800302:     {"pmtId", "instdAmt", "mndtId", "dtOfSgntr", "dbtr", "iban"},
		Pain00800102CH03: {"pmtId", "instdAmt", "dbtr", "iban"},
	}
)

// RequiredCollectionKeys returns the keys a collection (payment information
// block) must carry under v. Versions without a defined set, including the
// Austrian 003 variant, are rejected.
func (v Version) RequiredCollectionKeys() ([]string, error) {
	return lookupKeys(collectionKeys, v, "collection")
}

// RequiredPaymentKeys returns the keys a single payment must carry under v.
func (v Version) RequiredPaymentKeys() ([]string, error) {
	return lookupKeys(paymentKeys, v, "payment")
}

func lookupKeys(table map[Version][]string, v Version, kind string) ([]string, error) {
	keys, ok := table[v]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "no required %s keys for schema version %q", kind, string(v))
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out, nil
}

// ContainsAllKeys reports whether every key is present in m.
func ContainsAllKeys[V any](m map[string]V, keys []string) bool {
	return len(MissingKeys(m, keys)) == 0
}

// ContainsNotAnyKey reports whether none of the keys is present in m.
func ContainsNotAnyKey[V any](m map[string]V, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return false
		}
	}
	return true
}

// MissingKeys returns the keys absent from m, in the order given.
func MissingKeys[V any](m map[string]V, keys []string) []string {
	var missing []string
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
