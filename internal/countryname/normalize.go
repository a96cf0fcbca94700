// Package countryname normalizes country names used as join keys.
//
// The two source systems spell the same country differently ("Viet Nam" vs
// "Vietnam", "Bolivia (Plurinational State of)" vs "Bolivia"), so the join
// key passes through a Normalizer chain instead of relying on exact string
// equality.
package countryname

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// Normalizer maps a country name to its canonical join key.
type Normalizer interface {
	Normalize(name string) string
}

// Exact trims surrounding whitespace and nothing else. Joining with Exact
// reproduces the original exact-match behavior.
type Exact struct{}

func (Exact) Normalize(name string) string { return strings.TrimSpace(name) }

// Folder applies Unicode case folding and collapses internal whitespace.
type Folder struct{}

func (Folder) Normalize(name string) string {
	folded := cases.Fold().String(strings.TrimSpace(name))
	return strings.Join(strings.Fields(folded), " ")
}

// AliasTable rewrites known alternative spellings to a canonical key after
// delegating to an inner normalizer. Lookup keys are stored normalized by
// the inner normalizer, so callers can write aliases in any case.
type AliasTable struct {
	inner   Normalizer
	aliases map[string]string
}

// NewAliasTable builds an alias table over inner. The aliases map is
// variant -> canonical; both sides are normalized through inner.
func NewAliasTable(inner Normalizer, aliases map[string]string) *AliasTable {
	m := make(map[string]string, len(aliases))
	for variant, canonical := range aliases {
		m[inner.Normalize(variant)] = inner.Normalize(canonical)
	}
	return &AliasTable{inner: inner, aliases: m}
}

func (a *AliasTable) Normalize(name string) string {
	key := a.inner.Normalize(name)
	if canonical, ok := a.aliases[key]; ok {
		return canonical
	}
	return key
}

// builtinAliases covers the UNICEF-vs-World-Bank naming mismatches seen in
// the source files. Variants map to the spelling the metadata table uses.
var builtinAliases = map[string]string{
	"Bolivia (Plurinational State of)":      "Bolivia",
	"Iran (Islamic Republic of)":            "Iran",
	"Venezuela (Bolivarian Republic of)":    "Venezuela",
	"United Republic of Tanzania":           "Tanzania",
	"Viet Nam":                              "Vietnam",
	"Lao People's Democratic Republic":      "Laos",
	"Syrian Arab Republic":                  "Syria",
	"Republic of Moldova":                   "Moldova",
	"Democratic People's Republic of Korea": "North Korea",
	"Republic of Korea":                     "South Korea",
	"Türkiye":                               "Turkey",
	"Côte d'Ivoire":                         "Cote d'Ivoire",
}

// Default returns the normalizer chain used by the pipeline: case folding
// plus the builtin alias table.
func Default() Normalizer {
	return NewAliasTable(Folder{}, builtinAliases)
}

// LoadAliases reads a YAML file of variant -> canonical country names and
// layers it over the default chain. Entries in the file win over builtins.
func LoadAliases(path string) (Normalizer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "countryname: read alias file %s", path)
	}

	var aliases map[string]string
	if err := yaml.Unmarshal(raw, &aliases); err != nil {
		return nil, eris.Wrapf(err, "countryname: parse alias file %s", path)
	}

	merged := make(map[string]string, len(builtinAliases)+len(aliases))
	for v, c := range builtinAliases {
		merged[v] = c
	}
	for v, c := range aliases {
		merged[v] = c
	}
	return NewAliasTable(Folder{}, merged), nil
}
