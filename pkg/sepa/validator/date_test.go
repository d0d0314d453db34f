package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDate(t *testing.T) {
	got, err := CheckDate("2014-10-19")
	require.NoError(t, err)
	assert.Equal(t, "2014-10-19", got)

	for _, in := range []string{"19.10.2014", "2014-02-30", "2014-1-9", "2014-10-19T00:00:00", ""} {
		_, err := CheckDate(in)
		assert.Error(t, err, in)
	}
}

func TestCheckCreationDateTime(t *testing.T) {
	got, err := CheckCreationDateTime("2014-10-19T00:36:11")
	require.NoError(t, err)
	assert.Equal(t, "2014-10-19T00:36:11", got)

	for _, in := range []string{"2014-10-19", "19.10.2014", "2014-10-19T24:00:00", "2014-10-19T00:36:11Z"} {
		_, err := CheckCreationDateTime(in)
		assert.Error(t, err, in)
	}
}

func TestSanitizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "2016-04-01", want: "2016-04-01"},
		{input: "01.04.2016", want: "2016-04-01"},
		{input: "01.04.16", want: "2016-04-01"},
		{input: "1.4.2016", want: "2016-04-01"},
		{input: "04.13.2016", want: "2016-04-13"},
		{input: "2016/04/01", want: "2016-04-01"},
		{input: "2016/4/1", want: "2016-04-01"},
		{input: "2016.04.01", want: "2016-04-01"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := SanitizeDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("preferred layouts first", func(t *testing.T) {
		got, err := SanitizeDate("04.01.2016", "01.02.2006")
		require.NoError(t, err)
		assert.Equal(t, "2016-04-01", got)
	})

	t.Run("unrecognized", func(t *testing.T) {
		_, err := SanitizeDate("some text")
		assert.Error(t, err)
	})
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("14.10.2014", "")
	require.NoError(t, err)
	assert.Equal(t, "2014-10-14", got)

	got, err = ParseDate("10 14 2014", "01 02 2006")
	require.NoError(t, err)
	assert.Equal(t, "2014-10-14", got)

	_, err = ParseDate("some text", "")
	assert.Error(t, err)

	// out of range months are rejected instead of rolled over
	_, err = ParseDate("14.13.2014", "")
	assert.Error(t, err)
}
