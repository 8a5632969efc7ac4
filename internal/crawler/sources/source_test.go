package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRulesetsAreValid(t *testing.T) {
	for _, r := range Builtin() {
		t.Run(r.Name, func(t *testing.T) {
			require.NoError(t, r.Validate())
		})
	}

	assert.True(t, Billa().Paginated())
	assert.False(t, Hofer().Paginated())
	assert.Len(t, Billa().Seeds, 10)
	assert.Len(t, Hofer().Seeds, 11)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Ruleset)
	}{
		{"missing name", func(r *Ruleset) { r.Name = "" }},
		{"no seeds", func(r *Ruleset) { r.Seeds = nil }},
		{"relative seed", func(r *Ruleset) { r.Seeds = []string{"/kategorie/x?page=1"} }},
		{"missing container selector", func(r *Ruleset) { r.Selectors.Container = "" }},
		{"missing price selector", func(r *Ruleset) { r.Selectors.Price = "" }},
		{"query pagination without param", func(r *Ruleset) { r.Pagination.Param = "" }},
		{"unknown pagination mode", func(r *Ruleset) { r.Pagination.Mode = "next-link" }},
		{"empty pagination mode", func(r *Ruleset) { r.Pagination.Mode = "" }},
		{"no decimal separator", func(r *Ruleset) { r.DecimalSeparator = "" }},
		{"same separators", func(r *Ruleset) { r.ThousandsSeparator = "," }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Billa()
			tt.modify(r)
			assert.ErrorIs(t, r.Validate(), ErrInvalidRuleset)
		})
	}
}

func TestSeedsPreserveOrder(t *testing.T) {
	billa, hofer := Billa(), Hofer()
	seeds := Seeds([]*Ruleset{billa, hofer})

	require.Len(t, seeds, len(billa.Seeds)+len(hofer.Seeds))
	assert.Equal(t, billa.Seeds[0], seeds[0].URL)
	assert.Equal(t, "billa", seeds[0].Site())
	assert.Equal(t, hofer.Seeds[0], seeds[len(billa.Seeds)].URL)
	assert.Same(t, hofer, seeds[len(seeds)-1].Ruleset)
}

func TestSelect(t *testing.T) {
	all := Builtin()

	selected, err := Select(all, []string{" Hofer", "billa", ""})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "hofer", selected[0].Name)
	assert.Equal(t, "billa", selected[1].Name)

	_, err = Select(all, []string{"spar"})
	assert.Error(t, err)

	_, err = Select(all, nil)
	assert.Error(t, err)
}

const rulesetsYAML = `
sites:
  - name: billa
    seeds:
      - https://shop.example.at/kategorie/obst?page=1
    selectors:
      container: div.tile
      name: span.title
      price: span.price
    pagination:
      mode: query-param-increment
      param: page
    currency_symbols: ["€"]
    decimal_separator: ","
  - name: corner
    seeds:
      - https://corner.example.at/angebote.html
    selectors:
      container: li.offer
      name: h3
      price: .amount
    pagination:
      mode: none
    decimal_separator: "."
    thousands_separator: ","
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rulesetsYAML), 0o644))

	rulesets, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, rulesets, 2)

	billa := rulesets[0]
	assert.Equal(t, "div.tile", billa.Selectors.Container)
	assert.Equal(t, PaginationQueryParam, billa.Pagination.Mode)
	assert.Equal(t, "page", billa.Pagination.Param)
	assert.Equal(t, []string{"€"}, billa.CurrencySymbols)

	corner := rulesets[1]
	assert.False(t, corner.Paginated())
	assert.Equal(t, ",", corner.ThousandsSeparator)

	merged := Merge(Builtin(), rulesets)
	require.Len(t, merged, 3)
	assert.Same(t, billa, merged[0])
	assert.Equal(t, "hofer", merged[1].Name)
	assert.Same(t, corner, merged[2])
}

func TestParseRejectsInvalidFiles(t *testing.T) {
	_, err := Parse([]byte("sites: []"))
	assert.ErrorIs(t, err, ErrInvalidRuleset)

	_, err = Parse([]byte("sites:\n  - name: x\n"))
	assert.ErrorIs(t, err, ErrInvalidRuleset)

	_, err = Parse([]byte("sites: ["))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
