// Package locale selects the output language for prompts and the labels used
// when evaluation fields are folded into idea notes.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Label keys.
const (
	Notes             = "notes"
	ApplicationAreas  = "applicationAreas"
	InnovationFactors = "innovationFactors"
	ScamperTechnique  = "scamperTechnique"
	Implementation    = "implementation"
	Challenges        = "challenges"
	Feasibility       = "feasibility"
	Resources         = "resources"
	Weaknesses        = "weaknesses"
	Improvements      = "improvements"
	WhiteHat          = "whiteHat"
	RedHat            = "redHat"
	BlackHat          = "blackHat"
	YellowHat         = "yellowHat"
	GreenHat          = "greenHat"
	BlueHat           = "blueHat"
	NoAnalysis        = "noAnalysis"
	CentralConcept    = "centralConcept"
	Insights          = "insights"
	Applications      = "applications"
	Connections       = "connections"
	MainBranches      = "mainBranches"

	Substitute      = "substitute"
	Combine         = "combine"
	Adapt           = "adapt"
	Modify          = "modify"
	PutToAnotherUse = "putToAnotherUse"
	Eliminate       = "eliminate"
	Reverse         = "reverse"
)

// Pack is the resolved language for one request. The zero value behaves as English.
type Pack struct {
	tag   language.Tag
	table *table
}

type table struct {
	code        string
	name        string
	instruction string
	labels      map[string]string
}

var (
	supported = []language.Tag{language.English, language.Russian}
	tables    = []*table{english, russian}
	matcher   = language.NewMatcher(supported)
)

// Resolve maps a requested language code (BCP-47, e.g. "ru" or "en-US") to a
// supported pack. Unknown or malformed codes resolve to English.
func Resolve(code string) Pack {
	code = strings.TrimSpace(code)
	if code == "" {
		return Default()
	}
	tag, err := language.Parse(code)
	if err != nil {
		return Default()
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(tables) {
		return Default()
	}
	return Pack{tag: supported[idx], table: tables[idx]}
}

// Default returns the English pack.
func Default() Pack {
	return Pack{tag: language.English, table: english}
}

// Supported lists the language codes with their own tables.
func Supported() []string {
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.code)
	}
	return out
}

func (p Pack) t() *table {
	if p.table == nil {
		return english
	}
	return p.table
}

// Code is the short language code, e.g. "en".
func (p Pack) Code() string { return p.t().code }

// Tag is the matched language tag.
func (p Pack) Tag() language.Tag {
	if p.table == nil {
		return language.English
	}
	return p.tag
}

// Instruction is appended to every system prompt.
func (p Pack) Instruction() string {
	t := p.t()
	return t.instruction + "\nIMPORTANT: Respond in " + t.name + " language only."
}

// Label returns the localized label for key, falling back to English and then
// to the key itself. It never returns an empty string for a non-empty key.
func (p Pack) Label(key string) string {
	if v := p.t().labels[key]; v != "" {
		return v
	}
	if v := english.labels[key]; v != "" {
		return v
	}
	return key
}
