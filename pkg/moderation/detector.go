package moderation

import "strings"

// confusableMap folds Latin look-alikes into the Cyrillic alphabet the rule
// patterns are written in, so "сykа" and "сука" normalize identically.
var confusableMap = map[rune]rune{
	'a': 'а',
	'e': 'е',
	'o': 'о',
	'p': 'р',
	'c': 'с',
	'x': 'х',
	'y': 'у',
	'k': 'к',
	'm': 'м',
	'h': 'н',
	't': 'т',
	'b': 'в',
	'u': 'и',
}

// Result is the outcome of one detection pass.
type Result struct {
	IsAbusive       bool
	Severity        Severity // empty when not abusive
	Categories      []string
	MatchedPatterns []string
}

// HasCategory reports whether the given category was matched.
func (r Result) HasCategory(cat string) bool {
	for _, c := range r.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Detector classifies profanity, insults, threats and rudeness, resistant to
// simple character-substitution obfuscation. Detection is a pure function of
// the input text and the rule table; Detector is safe for concurrent use.
type Detector struct {
	table RuleTable
}

func NewDetector(table RuleTable) *Detector {
	return &Detector{table: table}
}

// Normalize lowercases the text, maps visually-confusable characters to the
// canonical alphabet and strips whitespace and punctuation.
func Normalize(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lower))
	for _, ch := range lower {
		if mapped, ok := confusableMap[ch]; ok {
			ch = mapped
		}
		switch ch {
		case ' ', '\t', '\n', '\r', '.', ',', '-', '_', '*', '!', '?':
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// Detect runs every rule against the normalized text. Any match flags the
// text; the highest severity among matches wins.
func (d *Detector) Detect(text string) Result {
	norm := Normalize(text)

	res := Result{}
	seen := map[string]bool{}
	for _, rule := range d.table.Rules {
		if !rule.Pattern.MatchString(norm) {
			continue
		}
		res.IsAbusive = true
		res.MatchedPatterns = append(res.MatchedPatterns, rule.Pattern.String())
		if !seen[rule.Category] {
			seen[rule.Category] = true
			res.Categories = append(res.Categories, rule.Category)
		}
		if res.Severity != SeverityCritical {
			res.Severity = rule.Severity
		}
	}
	return res
}
