package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const grantsCSV = `Grantee Name ,Amount Awarded,Date of Approval (listed as month/day/year),Region,Organization City,Organization State,Duration of Grant (Months)
2017 Grants,,,,,,
UK program,,,,,,
Migrant Voice,£1000,03/15/2017,United Kingdom,London,,24
US program,,,,,,
O'Hare Fund,"$2,500",04/01/2017,United States,Chicago,Illinois,12
`

func writeSheet(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "grants.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()

	return out.String(), err
}

func TestSQLCmd_Stdout(t *testing.T) {
	out, err := run(t, "sql", writeSheet(t, grantsCSV), "--offline-rate", "GBP=0.8")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "insert into donations ("))
	assert.Contains(t, out, "'O''Hare Fund'")
	assert.Contains(t, out, "1250.00")
	assert.Contains(t, out, "'offline'")
}

func TestSQLCmd_OutFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.sql")

	out, err := run(t, "sql", writeSheet(t, grantsCSV), "--offline-rate", "GBP=0.8", "--out", dest)
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(b), ";\n"))
}

func TestSQLCmd_FailureWritesNothing(t *testing.T) {
	bad := strings.Replace(grantsCSV, "04/01/2017", "04/01/2018", 1)
	dest := filepath.Join(t.TempDir(), "out.sql")

	_, err := run(t, "sql", writeSheet(t, bad), "--offline-rate", "GBP=0.8", "--out", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 6")

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSQLCmd_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no file", args: []string{"sql"}},
		{name: "bad rate", args: []string{"sql", "x.csv", "--offline-rate", "GBP"}},
		{name: "missing file", args: []string{"sql", filepath.Join(t.TempDir(), "none.csv"), "--offline-rate", "GBP=0.8"}},
		{name: "missing profile", args: []string{"sql", "x.csv", "--profile", filepath.Join(t.TempDir(), "none.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
