package grant_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/grantsql/internal/grant"
	"github.com/MrJamesThe3rd/grantsql/internal/sheet"
)

const nameCol = "Grantee Name "

func nameRow(line int, name string) sheet.Row {
	return sheet.NewRow(line, []string{nameCol, "Amount Awarded"}, []string{name, ""})
}

func TestClassifier_Classify(t *testing.T) {
	type testCase struct {
		name string
		cell string
		want grant.Classification
	}

	tests := []testCase{
		{name: "Year Marker", cell: "1999 Grants", want: grant.Classification{Kind: grant.KindYear, Year: 1999}},
		{name: "Year Marker With Suffix", cell: "2014 Grants (continued)", want: grant.Classification{Kind: grant.KindYear, Year: 2014}},
		{name: "Year Marker Is Case Sensitive", cell: "1999 grants", want: grant.Classification{Kind: grant.KindData}},
		{name: "Program Marker", cell: "UK program", want: grant.Classification{Kind: grant.KindProgram, Program: "UK"}},
		{name: "Program Marker Any Case", cell: "US PROGRAM", want: grant.Classification{Kind: grant.KindProgram, Program: "US"}},
		{name: "Empty", cell: "", want: grant.Classification{Kind: grant.KindBlank}},
		{name: "Repeated Header", cell: nameCol, want: grant.Classification{Kind: grant.KindBlank}},
		{name: "Trimmed Header Is Data", cell: "Grantee Name", want: grant.Classification{Kind: grant.KindData}},
		{name: "Grantee", cell: "Example Org", want: grant.Classification{Kind: grant.KindData}},
		{name: "Year Not At Start", cell: "The 1999 Grants Fund", want: grant.Classification{Kind: grant.KindData}},
	}

	c := grant.NewClassifier(nameCol)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(nameRow(2, tt.cell)))
		})
	}
}

func TestContext_Apply(t *testing.T) {
	var ctx grant.Context

	ctx = ctx.Apply(grant.Classification{Kind: grant.KindYear, Year: 1999})
	assert.Equal(t, 1999, ctx.Year)
	assert.Empty(t, ctx.Program)

	ctx = ctx.Apply(grant.Classification{Kind: grant.KindProgram, Program: "UK"})
	assert.Equal(t, grant.Context{Year: 1999, Program: "UK"}, ctx)

	assert.Equal(t, ctx, ctx.Apply(grant.Classification{Kind: grant.KindBlank}))
	assert.Equal(t, ctx, ctx.Apply(grant.Classification{Kind: grant.KindData}))
}

func TestClassifier_Scan(t *testing.T) {
	rows := []sheet.Row{
		nameRow(2, "1999 Grants"),
		nameRow(3, "US program"),
		nameRow(4, "First Org"),
		nameRow(5, ""),
		nameRow(6, "UK program"),
		nameRow(7, "Second Org"),
		nameRow(8, "2000 Grants"),
		nameRow(9, nameCol),
		nameRow(10, "Third Org"),
	}

	c := grant.NewClassifier(nameCol)
	final, entries := c.Scan(rows, grant.Context{})

	assert.Equal(t, grant.Context{Year: 2000, Program: "UK"}, final)
	require.Len(t, entries, 3)

	// Each data row keeps the context it was listed under, not the final one.
	assert.Equal(t, 4, entries[0].Row.Line)
	assert.Equal(t, grant.Context{Year: 1999, Program: "US"}, entries[0].Context)

	assert.Equal(t, 7, entries[1].Row.Line)
	assert.Equal(t, grant.Context{Year: 1999, Program: "UK"}, entries[1].Context)

	assert.Equal(t, 10, entries[2].Row.Line)
	assert.Equal(t, grant.Context{Year: 2000, Program: "UK"}, entries[2].Context)
}

func TestClassifier_ScanMarkersOnly(t *testing.T) {
	c := grant.NewClassifier(nameCol)
	final, entries := c.Scan([]sheet.Row{nameRow(2, "2013 Grants")}, grant.Context{Program: "US"})

	assert.Empty(t, entries)
	assert.Equal(t, grant.Context{Year: 2013, Program: "US"}, final)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "year", grant.KindYear.String())
	assert.Equal(t, "program", grant.KindProgram.String())
	assert.Equal(t, "blank", grant.KindBlank.String())
	assert.Equal(t, "data", grant.KindData.String())
}

func TestClassifier_LogsMatchingPredicate(t *testing.T) {
	var buf bytes.Buffer

	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	c := grant.NewClassifier(nameCol)
	c.Classify(nameRow(2, "1999 Grants"))
	c.Classify(nameRow(3, "UK program"))
	c.Classify(nameRow(4, "Example Org"))

	out := buf.String()
	assert.Contains(t, out, "line=2 predicate=year")
	assert.Contains(t, out, "line=3 predicate=program")
	assert.NotContains(t, out, "line=4")
}
