package scenario

import (
	"regexp"
	"strings"
)

const factMaxLength = 200

// Chunks that read like operator instructions rather than client-facing
// facts are filtered out of scenario grounding.
var instructionalRe = regexp.MustCompile(`(?i)(рекомендации|кросс-функциональные|для злых|уменьшить скорость)`)

var (
	headerRe    = regexp.MustCompile(`(?m)^#+\s*`)
	listRe      = regexp.MustCompile(`(?m)^-\s*`)
	multiNlRe   = regexp.MustCompile(`\n{2,}`)
	sentenceRe  = regexp.MustCompile(`[^.!?]+[.!?]+`)
	whitespaceR = regexp.MustCompile(`\s+`)
)

// cleanFact strips structural markup and trims the text to sentence
// boundaries within maxLength runes.
func cleanFact(text string, maxLength int) string {
	cleaned := headerRe.ReplaceAllString(text, "")
	cleaned = listRe.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, "**", "")
	cleaned = strings.ReplaceAll(cleaned, "*", "")
	cleaned = strings.ReplaceAll(cleaned, "`", "")
	cleaned = multiNlRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) <= maxLength {
		return cleaned
	}

	var result string
	for _, sentence := range sentenceRe.FindAllString(cleaned, -1) {
		if len([]rune(result))+len([]rune(sentence)) > maxLength {
			break
		}
		result += sentence
	}

	// No usable sentence boundary: fall back to a word cut.
	if len([]rune(result)) < maxLength/2 {
		words := whitespaceR.Split(cleaned, -1)
		keep := maxLength / 10
		if keep > len(words) {
			keep = len(words)
		}
		result = strings.Join(words[:keep], " ")
		if len(result) < len(cleaned) {
			result += "..."
		}
	}
	return strings.TrimSpace(result)
}

// archetypeKeywords extracts the lowercase keywords a grounding fact must
// share with the archetype: its topics plus the longer title words.
func archetypeKeywords(a *Archetype) []string {
	var keywords []string
	for _, t := range a.Topics {
		keywords = append(keywords, strings.ToLower(t))
	}
	for _, w := range strings.Fields(strings.ToLower(a.Title)) {
		if len([]rune(w)) > 4 {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

func relevantFact(text string, keywords []string, score, minScore float64) bool {
	if score < minScore {
		return false
	}
	lower := strings.ToLower(text)
	hasKeyword := false
	for _, kw := range keywords {
		if len([]rune(kw)) > 4 && strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}
	return hasKeyword && !instructionalRe.MatchString(lower)
}
