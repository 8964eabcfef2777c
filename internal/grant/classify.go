package grant

import (
	"log/slog"
	"regexp"
	"strconv"

	"github.com/MrJamesThe3rd/grantsql/internal/sheet"
)

// Kind is what a row turned out to be.
type Kind int

const (
	KindData Kind = iota
	KindYear
	KindProgram
	KindBlank
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindYear:
		return "year"
	case KindProgram:
		return "program"
	case KindBlank:
		return "blank"
	}

	return "unknown"
}

// Classification is the result of classifying one row. Year is set for
// KindYear, Program for KindProgram.
type Classification struct {
	Kind    Kind
	Year    int
	Program string
}

// Context is the section a row is listed under. It is a plain value so a
// copy taken for a data row never changes afterwards.
type Context struct {
	Year    int // 0 until a year marker is seen
	Program string
}

// Apply returns the context that follows a row of the given classification.
func (c Context) Apply(cl Classification) Context {
	switch cl.Kind {
	case KindYear:
		c.Year = cl.Year
	case KindProgram:
		c.Program = cl.Program
	}

	return c
}

var (
	yearMarker    = regexp.MustCompile(`^(\d{4}) Grants`)
	programMarker = regexp.MustCompile(`(?i)^(\w+) program`)
)

// predicate recognizes one kind of non-data row.
type predicate struct {
	name  string
	match func(name string) (Classification, bool)
}

// Classifier sorts rows by looking at the grantee name column. Predicates
// run in priority order; a row none of them claims is data.
type Classifier struct {
	column     string
	predicates []predicate
}

func NewClassifier(nameColumn string) *Classifier {
	c := &Classifier{column: nameColumn}
	c.predicates = []predicate{
		{name: "year", match: matchYear},
		{name: "program", match: matchProgram},
		{name: "blank", match: c.matchBlank},
	}

	return c
}

func (c *Classifier) Classify(row sheet.Row) Classification {
	name := row.Get(c.column)

	for _, p := range c.predicates {
		if cl, ok := p.match(name); ok {
			slog.Debug("skipping section row", "line", row.Line, "predicate", p.name, "name", name)
			return cl
		}
	}

	return Classification{Kind: KindData}
}

func matchYear(name string) (Classification, bool) {
	m := yearMarker.FindStringSubmatch(name)
	if m == nil {
		return Classification{}, false
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return Classification{}, false
	}

	return Classification{Kind: KindYear, Year: year}, true
}

func matchProgram(name string) (Classification, bool) {
	m := programMarker.FindStringSubmatch(name)
	if m == nil {
		return Classification{}, false
	}

	return Classification{Kind: KindProgram, Program: m[1]}, true
}

// matchBlank also catches a header line repeated mid-file, which happens
// when several exports are pasted together.
func (c *Classifier) matchBlank(name string) (Classification, bool) {
	if name == "" || name == c.column {
		return Classification{Kind: KindBlank}, true
	}

	return Classification{}, false
}

// Entry is a data row together with the context it was listed under.
type Entry struct {
	Row     sheet.Row
	Context Context
}

// Scan folds rows in order starting from initial. It returns the context
// after the last row and every data row paired with the context in force
// when that row was classified.
func (c *Classifier) Scan(rows []sheet.Row, initial Context) (Context, []Entry) {
	ctx := initial

	var entries []Entry

	for _, row := range rows {
		cl := c.Classify(row)
		if cl.Kind == KindData {
			entries = append(entries, Entry{Row: row, Context: ctx})
			continue
		}

		ctx = ctx.Apply(cl)
	}

	return ctx, entries
}
