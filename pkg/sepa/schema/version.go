// Package schema describes the supported pain message versions and the keys
// each version requires on collection and payment records.
package schema

import (
	"strconv"
	"strings"

	dErrors "sepacheck/pkg/domain-errors"
)

// Version identifies a pain message schema variant.
// Invariant: a non-empty Version is one of the constants below.
//
// Usage: construct via ParseVersion at trust boundaries; the zero value
// VersionUnspecified means no version was given.
type Version string

const (
	VersionUnspecified Version = ""

	// Credit transfer variants.
	Pain00100103     Version = "pain.001.001.03"
	Pain00100103GBIC Version = "pain.001.001.03.gbic"
	Pain00100103CH02 Version = "pain.001.001.03.ch.02"
	Pain00100203     Version = "pain.001.002.03"
	Pain00100303     Version = "pain.001.003.03"

	// Direct debit variants.
	Pain00800102            Version = "pain.008.001.02"
	Pain00800102GBIC        Version = "pain.008.001.02.gbic"
	Pain00800102Austrian003 Version = "pain.008.001.02.austrian.003"
	Pain00800102CH03        Version = "pain.008.001.02.ch.03"
	Pain00800202            Version = "pain.008.002.02"
	Pain00800302            Version = "pain.008.003.02"
)

// TransactionType is the payment family a version belongs to.
type TransactionType string

const (
	CreditTransfer TransactionType = "credit_transfer"
	DirectDebit    TransactionType = "direct_debit"
)

type versionInfo struct {
	messageType string
	txType      TransactionType
	// numeric code used by older integrations, e.g. 800102
	code int
}

var versions = map[Version]versionInfo{
	Pain00100103:            {messageType: "pain.001.001.03", txType: CreditTransfer, code: 100103},
	Pain00100103GBIC:        {messageType: "pain.001.001.03", txType: CreditTransfer, code: 1001031},
	Pain00100103CH02:        {messageType: "pain.001.001.03", txType: CreditTransfer, code: 1001032},
	Pain00100203:            {messageType: "pain.001.002.03", txType: CreditTransfer, code: 100203},
	Pain00100303:            {messageType: "pain.001.003.03", txType: CreditTransfer, code: 100303},
	Pain00800102:            {messageType: "pain.008.001.02", txType: DirectDebit, code: 800102},
	Pain00800102GBIC:        {messageType: "pain.008.001.02", txType: DirectDebit, code: 8001021},
	Pain00800102Austrian003: {messageType: "pain.008.001.02", txType: DirectDebit, code: 8001022},
	Pain00800102CH03:        {messageType: "pain.008.001.02", txType: DirectDebit, code: 8001023},
	Pain00800202:            {messageType: "pain.008.002.02", txType: DirectDebit, code: 800202},
	Pain00800302:            {messageType: "pain.008.003.02", txType: DirectDebit, code: 800302},
}

// ordered for listings
var allVersions = []Version{
	Pain00100103, Pain00100103GBIC, Pain00100103CH02, Pain00100203, Pain00100303,
	Pain00800102, Pain00800102GBIC, Pain00800102Austrian003, Pain00800102CH03,
	Pain00800202, Pain00800302,
}

// ParseVersion accepts the canonical slug in any case, with '.', '_', '-' or
// spaces as separators ("pain.008.001.02 GBIC"), or the legacy numeric code
// ("8001021"). An empty string yields VersionUnspecified.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return VersionUnspecified, nil
	}
	norm := strings.ToLower(strings.NewReplacer("_", ".", "-", ".", " ", ".").Replace(s))
	if _, ok := versions[Version(norm)]; ok {
		return Version(norm), nil
	}
	for v, info := range versions {
		if strconv.Itoa(info.code) == s {
			return v, nil
		}
	}
	return VersionUnspecified, dErrors.Newf(dErrors.CodeInvalidInput, "unknown schema version %q", s)
}

// All returns the supported versions in a stable order.
func All() []Version {
	out := make([]Version, len(allVersions))
	copy(out, allVersions)
	return out
}

func (v Version) String() string {
	return string(v)
}

// IsValid reports whether v is a known version. VersionUnspecified is not valid.
func (v Version) IsValid() bool {
	_, ok := versions[v]
	return ok
}

// IsNil reports whether no version was given.
func (v Version) IsNil() bool {
	return v == VersionUnspecified
}

// MessageType returns the ISO 20022 message identifier, e.g. "pain.008.001.02".
func (v Version) MessageType() (string, error) {
	info, ok := versions[v]
	if !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown schema version %q", string(v))
	}
	return info.messageType, nil
}

// TransactionType returns whether v is a credit transfer or a direct debit.
func (v Version) TransactionType() (TransactionType, error) {
	info, ok := versions[v]
	if !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown schema version %q", string(v))
	}
	return info.txType, nil
}

// Code returns the legacy numeric code, or 0 for unknown versions.
func (v Version) Code() int {
	return versions[v].code
}
