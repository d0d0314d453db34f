package validator

import (
	"regexp"
	"strings"

	"sepacheck/pkg/sepa/schema"
)

// Sequence types of a direct debit.
const (
	SequenceFirst     = "FRST"
	SequenceRecurring = "RCUR"
	SequenceOnce      = "OOFF"
	SequenceFinal     = "FNAL"
)

// Local instruments of a direct debit.
const (
	LocalInstrumentCore     = "CORE"
	LocalInstrumentCoreD1   = "COR1"
	LocalInstrumentB2B      = "B2B"
	LocalInstrumentSwissLSV = "LSV+"
)

var sequenceTypes = setOf(SequenceFirst, SequenceRecurring, SequenceOnce, SequenceFinal)

var localInstruments = map[schema.Version]map[string]bool{
	schema.Pain00800102:     setOf(LocalInstrumentCore, LocalInstrumentB2B),
	schema.Pain00800102GBIC: setOf(LocalInstrumentCore, LocalInstrumentB2B),
	schema.Pain00800202:     setOf(LocalInstrumentCore, LocalInstrumentB2B),
	schema.Pain00800302:     setOf(LocalInstrumentCore, LocalInstrumentCoreD1, LocalInstrumentB2B),
	schema.Pain00800102CH03: setOf(LocalInstrumentSwissLSV),
}

// ISO 20022 ExternalCategoryPurpose1Code values.
var categoryPurposes = setOf(
	"BONU", "CASH", "CBLK", "CCRD", "CORT", "DCRD", "DIVI", "EPAY",
	"FCOL", "GOVT", "HEDG", "ICCP", "IDCP", "INTC", "INTE", "LOAN",
	"OTHR", "PENS", "SALA", "SECU", "SSBE", "SUPP", "TAXS", "TRAD",
	"TREA", "VATX", "WHLD",
)

// ISO 20022 ExternalPurpose1Code values.
var purposes = setOf(
	"CBLK", "CDCB", "CDCD", "CDCS", "CDDP", "CDOC", "CDQC", "ETUP",
	"FCOL", "MTUP", "ACCT", "CASH", "COLL", "CSDB", "DEPT", "INTC",
	"LIMA", "NETT", "AGRT", "AREN", "BEXP", "BOCE", "COMC", "CPYR",
	"GDDS", "GDSV", "GSCB", "LICF", "POPE", "ROYA", "SCVE", "SUBS",
	"SUPP", "TRAD", "CHAR", "COMT", "CLPR", "DBTC", "GOVI", "HLRP",
	"INPC", "INSU", "INTE", "LBRI", "LIFI", "LOAN", "LOAR", "PENO",
	"PPTI", "RINP", "TRFD", "ADMG", "ADVA", "BLDM", "CBFF", "CBFR",
	"CCRD", "CDBL", "CFEE", "CGDD", "COST", "CPKC", "DCRD", "EDUC",
	"FAND", "FCPM", "GOVT", "ICCP", "IDCP", "IHRP", "INSM", "IVPT",
	"MSVC", "NOWS", "OFEE", "OTHR", "PADD", "PTSP", "RCKE", "RCPT",
	"REBT", "REFU", "RENT", "RIMB", "STDY", "TBIL", "TCSC", "TELI",
	"WEBI", "ANNI", "CAFI", "CFDI", "CMDT", "DERI", "DIVD", "FREX",
	"HEDG", "INVS", "PRME", "SAVG", "SECU", "SEPI", "TREA", "ANTS",
	"CVCF", "DMEQ", "DNTS", "HLTC", "HLTI", "HSPC", "ICRF", "LTCF",
	"MDCS", "VIEW", "ALLW", "ALMY", "BBSC", "BECH", "BENE", "BONU",
	"COMM", "CSLP", "GVEA", "GVEB", "GVEC", "GVED", "PAYR", "PENS",
	"PRCP", "SALA", "SSBE", "AEMP", "GFRP", "GWLT", "RHBS", "ESTX",
	"FWLV", "GSTX", "HSTX", "INTX", "NITX", "PTXP", "RDTX", "TAXS",
	"VATX", "WHLD", "TAXR", "AIRB", "BUSB", "FERB", "RLWY", "TRPT",
	"CBTV", "ELEC", "ENRG", "GASB", "NWCH", "NWCM", "OTLC", "PHON",
	"UBIL", "WTER",
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

func setOf(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

func checkCode(set map[string]bool, raw, what string) (string, error) {
	code := strings.ToUpper(raw)
	if !set[code] {
		return "", invalid(what, "unknown code")
	}
	return code, nil
}

// CheckSequenceType accepts FRST, RCUR, OOFF and FNAL in any case.
func CheckSequenceType(raw string) (string, error) {
	return checkCode(sequenceTypes, raw, "seqtp")
}

// CheckCategoryPurpose accepts an ISO 20022 category purpose code.
func CheckCategoryPurpose(raw string) (string, error) {
	return checkCode(categoryPurposes, raw, "ctgypurp")
}

// CheckPurpose accepts an ISO 20022 purpose code.
func CheckPurpose(raw string) (string, error) {
	return checkCode(purposes, raw, "purp")
}

// CheckLocalInstrument accepts the local instruments allowed under version.
// VersionUnspecified is treated as pain.008.002.02; credit transfer versions
// and the Austrian variant allow none.
func CheckLocalInstrument(raw string, version schema.Version) (string, error) {
	if version.IsNil() {
		version = schema.Pain00800202
	}
	allowed, ok := localInstruments[version]
	if !ok {
		return "", invalid("lclinstrm", "no local instruments for version "+version.String())
	}
	return checkCode(allowed, raw, "lclinstrm")
}

// CheckCurrency accepts any three letter code in any case. Whether the
// currency exists is not checked.
func CheckCurrency(raw string) (string, error) {
	ccy := strings.ToUpper(raw)
	if !currencyPattern.MatchString(ccy) {
		return "", invalid("ccy", "malformed currency code")
	}
	return ccy, nil
}
