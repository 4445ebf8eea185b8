package transcript

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "only whitespace", in: " \n\t  \r\n", want: ""},
		{name: "collapse run", in: "a   b", want: "a b"},
		{name: "trim", in: "  i goed to school yesterday \n", want: "i goed to school yesterday"},
		{name: "single newline kept", in: "line one\nline two", want: "line one\nline two"},
		{name: "mixed run becomes space", in: "one.\n\ntwo.\t \tthree", want: "one. two. three"},
		{name: "unicode spaces", in: "hello\u00a0\u2003world", want: "hello world"},
		{name: "non ascii text", in: "  naïve   café  ", want: "naïve café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitizeTruncates(t *testing.T) {
	long := strings.Repeat("word ", 2000)
	got := Sanitize(long)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxLength)
	assert.False(t, strings.HasSuffix(got, " "))

	multibyte := strings.Repeat("é", MaxLength+10)
	got = Sanitize(multibyte)
	assert.Equal(t, MaxLength, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))

	// a whitespace run counts as the one space it becomes
	spaced := strings.Repeat("x", MaxLength-2) + "     yz"
	assert.Equal(t, strings.Repeat("x", MaxLength-2)+" y", Sanitize(spaced))
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"a   b",
		"i goed to school yesterday",
		"  He  don't \n\n like   apples .  ",
		strings.Repeat("ab  ", 3000),
		strings.Repeat("x", MaxLength-1) + "   tail",
		"tab\tseparated\tvalues",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
		assert.LessOrEqual(t, utf8.RuneCountInString(once), MaxLength)
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(Sanitize(" \n ")))
	assert.False(t, IsEmpty(Sanitize(" hi ")))
}
