package translit

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sepacheck/pkg/domain-errors"
)

const allValidChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 /-?:().,'+"

func TestReplace(t *testing.T) {
	t.Run("valid characters pass through", func(t *testing.T) {
		assert.Equal(t, allValidChars, Replace(allValidChars, 0))
	})

	t.Run("every table entry is applied", func(t *testing.T) {
		input := ";[\\]^_`{|}~¿ÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔÕÖØÙÚÛÜÝÞßàáâãäåæçèéêëìíîïðñòóôõöøùúûüýþÿĀāĂăĄąĆćĈĉĊċČčĎďĐđĒēĔĕĖėĘęĚěĜĝĞğĠġĢģĤĥĦħĨĩĪīĬĭĮįİıĲĳĴĵĶķĸĹĺĻļĽľĿŀŁłŃńŅņŇňŐőŒœŔŕŖŗŘřŚśŜŝŞşŠšŢţŤťŦŧŨũŪūŬŭŮůŰűŲųŴŵŶŷŸŹźŻżŽžȘșȚțΆΈΉΊΌΎΏΐΑΒΓΔΕΖΗΘΙΚΛΜΝΞΟΠΡΣΤΥΦΧΨΩΪΫάέήίΰαβγδεζηθικλμνξοπρςστυφχψωϊϋόύώАБВГДЕЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЬЮЯабвгдежзийклмнопрстуфхцчшщъьюя€"
		want := ",(/).-'(/)-?AAAAAAACEEEEIIIIDNOOOOOOUUUUYTsaaaaaaaceeeeiiiidnoooooouuuuytyAaAaAaCcCcCcCcDdDdEeEeEeEeEeGgGgGgGgHhHhIiIiIiIiIiIiJjKk.LlLlLlLlLlNnNnNnOoOoRrRrRrSsSsSsSsTtTtTtUuUuUuUuUuUuWwYyYZzZzZzSsTtAEIIOYOiAVGDEZITHIKLMNXOPRSTYFCHPSOIYaeiiyavgdezithiklmnxoprsstyfchpsoiyoyoABVGDEZHZIYKLMNOPRSTUFHTSCHSHSHTAYYUYAabvgdezhziyklmnoprstufhtschshshtayyuyaE"
		assert.Equal(t, want, Replace(input, 0))
	})

	t.Run("unknown characters become dots", func(t *testing.T) {
		input := "[\\]^_`{|}~¡¢£¤¥¦§¨©ª«¬\u00ad®¯°±²³´µ¶·¸¹º»¼½¾¿apjmjasdsfkjh2920dsafoKLJSGFOALKJÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔÕÖ×ØÙÚÛÜÝÞßàáâãäåæçèéêëìíîïðñòóôõö÷øùúûüýþÿĀāĂăĄąĆćĈĉĊċČčĎďĐđĒēĔĕĖėĘęĚěĜĝĞğĠġĢģĤĥĦħĨĩĪīĬĭĮįİıĲĳĴĵĶķĸĹĺĻļĽľĿŀŁłŃńŅņŇňŉŊŋŌōŎŏŐőŒœŔŕŖŗŘřŚśŜŝŞşŠšŢţŤťŦŧŨũŪūŬŭŮůŰűŲųŴŵŶŷŸŹźŻżŽžſƀƁƂƃƄƅƆƇƈƉƊƋƌƍƎƏƐƑƒƓƔƕƖƗƘƙƚƛƜƝƞƟƠơƢƣƤƥƦƧƨƩƪƫƬƭƮƯưƱƲƳƴƵƶƷƸƹƺƻƼƽƾƿǀǁǂǃǄǅǆǇǈǉǊǋǌǍǎǏǐǑǒǓǔǕǖǗǘǙǚǛǜǝǞǟǠǡǢǣǤǥǦǧǨǩǪǫǬǭǮǯǰǱǲǳǴǵǶǷǸǹǺǻǼǽǾǿȀȁȂȃȄȅȆȇȈȉȊȋȌȍȎȏȐȑȒȓȔȕȖȗȘșȚțȜȝȞȟȢȣȤȥȦȧȨȩȪȫȬȭȮȯȰȱȲȳ"
		want := "(/).-'(/)-..............................?apjmjasdsfkjh2920dsafoKLJSGFOALKJAAAAAAACEEEEIIIIDNOOOOO.OUUUUYTsaaaaaaaceeeeiiiidnooooo.ouuuuytyAaAaAaCcCcCcCcDdDdEeEeEeEeEeGgGgGgGgHhHhIiIiIiIiIiIiJjKk.LlLlLlLlLlNnNnNn.......OoOoRrRrRrSsSsSsSsTtTtTtUuUuUuUuUuUuWwYyYZzZzZz.........................................................................................................................................................SsTt......................"
		assert.Equal(t, want, Replace(input, 0))
	})

	t.Run("removes quotes and markup characters", func(t *testing.T) {
		assert.Equal(t, "Mueller Sohne", Replace(`"Mueller" & <Sohne>`, 0))
	})

	t.Run("collapses and trims whitespace", func(t *testing.T) {
		assert.Equal(t, "a b c", Replace("  a \t\n b\u00a0\u2003c \r\n", 0))
	})

	t.Run("german letters", func(t *testing.T) {
		tests := []struct {
			name  string
			flags Flags
			want  string
		}{
			{name: "default", flags: 0, want: "AaOoUus"},
			{name: "alternative", flags: AltReplacementGerman, want: "AeaeOeoeUeuess"},
			{name: "untouched", flags: NoReplacementGerman, want: "ÄäÖöÜüß"},
			{name: "untouched wins", flags: NoReplacementGerman | AltReplacementGerman, want: "ÄäÖöÜüß"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, Replace("ÄäÖöÜüß", tt.flags))
			})
		}
	})
}

func TestReplaceIdempotent(t *testing.T) {
	inputs := []string{
		"",
		allValidChars,
		"  Æsop & Söhne\t<GmbH>  ",
		"Θεσσαλονίκη; Москва_1",
		"naïve café ¿qué? €100",
	}
	for _, flags := range []Flags{0, AltReplacementGerman, NoReplacementGerman} {
		for _, in := range inputs {
			once := Replace(in, flags)
			assert.Equal(t, once, Replace(once, flags), in)
		}
	}
}

func FuzzReplace(f *testing.F) {
	f.Add("Straße 12 & Co.", 0)
	f.Add("Łódź\u00a0ul. Piotrkowska", int(AltReplacementGerman))
	f.Add("\"<>&", int(NoReplacementGerman))
	f.Fuzz(func(t *testing.T, s string, rawFlags int) {
		flags := Flags(rawFlags) & (AltReplacementGerman | NoReplacementGerman)
		once := Replace(s, flags)
		if once != Replace(once, flags) {
			t.Fatalf("Replace not idempotent for %q", s)
		}
		if !flags.Has(NoReplacementGerman) {
			for _, r := range once {
				if !Allowed(r) {
					t.Fatalf("Replace(%q) produced %q", s, r)
				}
			}
		}
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "1234567", Truncate("1234567", 8))
	assert.Equal(t, "1234567", Truncate("1234567", 7))
	assert.Equal(t, "123456", Truncate("1234567", 6))
	assert.Equal(t, "", Truncate("1234567", 0))

	t.Run("counts characters not bytes", func(t *testing.T) {
		got := Truncate("ÄÖÜß", 3)
		assert.Equal(t, "ÄÖÜ", got)
		assert.True(t, utf8.ValidString(got))
	})
}

func TestText(t *testing.T) {
	t.Run("sanitizes and truncates", func(t *testing.T) {
		got, err := Text("Café René & Partner", 10, false, 0)
		require.NoError(t, err)
		assert.Equal(t, "Cafe Rene ", got)
	})

	t.Run("empty result rejected unless allowed", func(t *testing.T) {
		_, err := Text(" <&> ", 70, false, 0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

		got, err := Text(" <&> ", 70, true, 0)
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags("alt-german", " NO-GERMAN ", "")
	require.NoError(t, err)
	assert.True(t, f.Has(AltReplacementGerman))
	assert.True(t, f.Has(NoReplacementGerman))

	_, err = ParseFlags("french")
	assert.Error(t, err)
}
