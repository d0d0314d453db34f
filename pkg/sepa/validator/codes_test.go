package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sepacheck/pkg/sepa/schema"
)

func TestCheckSequenceType(t *testing.T) {
	for _, seq := range []string{SequenceFinal, SequenceFirst, SequenceOnce, SequenceRecurring} {
		got, err := CheckSequenceType(seq)
		require.NoError(t, err)
		assert.Equal(t, seq, got)
	}

	got, err := CheckSequenceType("rcur")
	require.NoError(t, err)
	assert.Equal(t, "RCUR", got)

	_, err = CheckSequenceType("TEST")
	assert.Error(t, err)
}

func TestCheckLocalInstrument(t *testing.T) {
	tests := []struct {
		name    string
		version schema.Version
		valid   []string
		invalid []string
	}{
		{
			name:    "unspecified defaults to pain.008.002.02",
			version: schema.VersionUnspecified,
			valid:   []string{"CORE", "b2b"},
			invalid: []string{"COR1", "LSV+"},
		},
		{
			name:    "pain.008.001.02",
			version: schema.Pain00800102,
			valid:   []string{"CORE", "B2B"},
			invalid: []string{"COR1"},
		},
		{
			name:    "pain.008.001.02 GBIC",
			version: schema.Pain00800102GBIC,
			valid:   []string{"CORE", "B2B"},
			invalid: []string{"COR1"},
		},
		{
			name:    "pain.008.003.02 allows COR1",
			version: schema.Pain00800302,
			valid:   []string{"CORE", "cor1", "B2B"},
			invalid: []string{"LSV+"},
		},
		{
			name:    "swiss variant",
			version: schema.Pain00800102CH03,
			valid:   []string{"lsv+"},
			invalid: []string{"CORE", "B2B"},
		},
		{
			name:    "austrian variant allows nothing",
			version: schema.Pain00800102Austrian003,
			invalid: []string{"CORE", "B2B"},
		},
		{
			name:    "credit transfers allow nothing",
			version: schema.Pain00100103,
			invalid: []string{"CORE"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, in := range tt.valid {
				_, err := CheckLocalInstrument(in, tt.version)
				assert.NoError(t, err, in)
			}
			for _, in := range tt.invalid {
				_, err := CheckLocalInstrument(in, tt.version)
				assert.Error(t, err, in)
			}
		})
	}
}

func TestPurposeCodes(t *testing.T) {
	got, err := CheckCategoryPurpose("sala")
	require.NoError(t, err)
	assert.Equal(t, "SALA", got)

	_, err = CheckCategoryPurpose("ELEC")
	assert.Error(t, err, "ELEC is a purpose but not a category purpose")

	got, err = CheckPurpose("elec")
	require.NoError(t, err)
	assert.Equal(t, "ELEC", got)

	_, err = CheckPurpose("XXXX")
	assert.Error(t, err)

	assert.Len(t, categoryPurposes, 27)
}

func TestCheckCurrency(t *testing.T) {
	for _, in := range []string{"EUR", "Eur", "chf"} {
		_, err := CheckCurrency(in)
		assert.NoError(t, err, in)
	}
	got, _ := CheckCurrency("Eur")
	assert.Equal(t, "EUR", got)

	for _, in := range []string{"Eu", "€", "euro", "", "E1R"} {
		_, err := CheckCurrency(in)
		assert.Error(t, err, in)
	}
}
