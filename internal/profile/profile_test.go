package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/grantsql/internal/profile"
)

func TestDefault_Valid(t *testing.T) {
	p := profile.Default()
	require.NoError(t, p.Validate())

	assert.Equal(t, "Grantee Name ", p.Columns.Name)
	assert.Equal(t, "USD", p.Currencies["$"])
	assert.Equal(t, "GBP", p.Currencies["£"])

	country, ok := p.Country("UK")
	assert.True(t, ok)
	assert.Equal(t, "United Kingdom", country)
}

func TestProfile_Check(t *testing.T) {
	p := profile.Default()

	full := []string{
		"Grantee Name ", "Amount Awarded", "Date of Approval (listed as month/day/year)",
		"Region", "Organization City", "Organization State", "Duration of Grant (Months)",
	}
	assert.NoError(t, p.Check(full))

	// Duration is optional.
	assert.NoError(t, p.Check(full[:6]))

	err := p.Check([]string{"Grantee Name", "Amount Awarded"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Grantee Name "`)
	assert.Contains(t, err.Error(), `"Region"`)
}

func TestLoad(t *testing.T) {
	type testCase struct {
		name    string
		yaml    string
		verify  func(t *testing.T, p profile.Profile)
		wantErr string
	}

	tests := []testCase{
		{
			name: "Overrides",
			yaml: `
donor: Example Foundation
url: https://example.org/grants
columns:
  name: "Grantee"
currencies:
  "€": EUR
  "$": USD
placeholder: ""
`,
			verify: func(t *testing.T, p profile.Profile) {
				assert.Equal(t, "Example Foundation", p.Donor)
				assert.Equal(t, "Grantee", p.Columns.Name)
				assert.Equal(t, "Amount Awarded", p.Columns.Amount)
				assert.Equal(t, map[string]string{"€": "EUR", "$": "USD"}, p.Currencies)
				assert.Equal(t, "United Kingdom", p.Programs["UK"])
				assert.Empty(t, p.Placeholder)
			},
		},
		{
			name: "Maps Replace Defaults",
			yaml: `
programs:
  EU: European Union
`,
			verify: func(t *testing.T, p profile.Profile) {
				assert.Equal(t, map[string]string{"EU": "European Union"}, p.Programs)
				assert.Equal(t, profile.Default().Currencies, p.Currencies)
			},
		},
		{
			name: "Cannot Keep A Dropped Canonical Symbol",
			yaml: `
currencies:
  "£": GBP
`,
			wantErr: "canonical currency",
		},
		{
			name:    "Missing Canonical Symbol",
			yaml:    "canonical_currency: JPY\n",
			wantErr: "canonical currency",
		},
		{
			name:    "Malformed",
			yaml:    "donor: [\n",
			wantErr: "parsing profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profile.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			got, err := profile.Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			tt.verify(t, got)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := profile.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
