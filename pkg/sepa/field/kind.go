package field

import (
	"strings"

	dErrors "sepacheck/pkg/domain-errors"
)

// Kind groups field names that share one validation rule.
type Kind int

const (
	KindUnknown Kind = iota
	KindCreditorID
	KindRestrictedID
	KindMandateID
	KindInitiatingPartyID
	KindName
	KindShortID
	KindShortText
	KindCreditorSchemeName
	KindAddressLine
	KindRemittanceInfo
	KindElectronicSignature
	KindIBAN
	KindBIC
	KindCurrency
	KindBoolean
	KindAmount
	KindSequenceType
	KindLocalInstrument
	KindDate
	KindPurpose
	KindCategoryPurpose
	KindPassThrough
	KindCountry
	KindPostalAddress
)

// kindNames lists the field names of each kind, canonical name first.
var kindNames = map[Kind][]string{
	KindCreditorID:          {"ci", "orgnlcdtrschmeid_id"},
	KindRestrictedID:        {"pmtid", "msgid", "instrid", "esr", "mmbid", "lsv", "pmtinfid"},
	KindMandateID:           {"mndtid", "orgnlmndtid"},
	KindInitiatingPartyID:   {"initgptyid"},
	KindName:                {"cdtr", "dbtr", "initgpty"},
	KindShortID:             {"orgid_id", "ultmtdbtrid"},
	KindShortText:           {"ultmtcdtr", "ultmtdbtr", "ultmtdebtr"},
	KindCreditorSchemeName:  {"orgnlcdtrschmeid_nm"},
	KindAddressLine:         {"adrline"},
	KindRemittanceInfo:      {"rmtinf"},
	KindElectronicSignature: {"elctrncsgntr"},
	KindIBAN:                {"iban", "orgnldbtracct_iban"},
	KindBIC:                 {"bic", "orgnldbtragt_bic", "orgid_bob"},
	KindCurrency:            {"ccy"},
	KindBoolean:             {"btchbookg", "amdmntind"},
	KindAmount:              {"instdamt"},
	KindSequenceType:        {"seqtp"},
	KindLocalInstrument:     {"lclinstrm"},
	KindDate:                {"reqdexctndt", "reqdcolltndt", "dtofsgntr"},
	KindPurpose:             {"purp"},
	KindCategoryPurpose:     {"ctgypurp"},
	KindPassThrough:         {"ref", "orgnldbtragt"},
	KindCountry:             {"ctry"},
	KindPostalAddress:       {"pstladr", "dbtrpstladr", "cdtrpstladr"},
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind)
	for k, names := range kindNames {
		for _, n := range names {
			m[n] = k
		}
	}
	return m
}()

// ParseKind resolves a field name, ignoring case ("IbAN", "orgnlDbtrAcct_iban").
func ParseKind(name string) (Kind, error) {
	k, ok := kindsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KindUnknown, dErrors.Newf(dErrors.CodeInvalidInput, "unknown field %q", name)
	}
	return k, nil
}

// String returns the canonical field name of k.
func (k Kind) String() string {
	if names, ok := kindNames[k]; ok {
		return names[0]
	}
	return "unknown"
}

// Names returns every field name that resolves to k.
func (k Kind) Names() []string {
	names := kindNames[k]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Sanitizable reports whether Sanitize can repair values of k.
func (k Kind) Sanitizable() bool {
	_, ok := sanitizers[k]
	return ok
}
