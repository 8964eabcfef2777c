package sqlout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/grantsql/internal/sqlout"
)

func TestQuote(t *testing.T) {
	type testCase struct {
		in   string
		want string
	}

	tests := []testCase{
		{in: "", want: "NULL"},
		{in: "Example Org", want: "'Example Org'"},
		{in: "America's Voice", want: "'America''s Voice'"},
		{in: `C:\grants`, want: `'C:\\grants'`},
		{in: "line one\nline two", want: `'line one\nline two'`},
		{in: `it's a \n`, want: `'it''s a \\n'`},
		{in: "Café £", want: "'Café £'"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sqlout.Quote(tt.in), "Quote(%q)", tt.in)
	}
}

var roundTrip = []string{
	"", "a", "'", "''", `\`, `\\`, "\n", `\n`, "\r\n", `'\'`,
	"O'Brien\\Sons\nLtd", "NULL", "'NULL'", "ünïcödé £€",
}

func TestUnquote_RoundTrip(t *testing.T) {
	for _, s := range roundTrip {
		got, err := sqlout.Unquote(sqlout.Quote(s))
		require.NoError(t, err, "input %q", s)
		assert.Equal(t, s, got)
	}
}

func TestUnquote_Errors(t *testing.T) {
	for _, lit := range []string{"", "abc", "'abc", `'a\'`, `'\x'`, "'it's'"} {
		_, err := sqlout.Unquote(lit)
		assert.Error(t, err, "literal %s", lit)
	}
}

func FuzzQuoteRoundTrip(f *testing.F) {
	for _, s := range roundTrip {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, s string) {
		got, err := sqlout.Unquote(sqlout.Quote(s))
		if err != nil {
			t.Fatalf("Unquote(Quote(%q)): %v", s, err)
		}

		if got != s {
			t.Fatalf("round trip of %q gave %q", s, got)
		}
	})
}
