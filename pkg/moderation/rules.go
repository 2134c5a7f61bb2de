package moderation

import "regexp"

// Severity ranks how bad a match is. Critical always wins over major.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
)

// Abuse categories.
const (
	CategoryProfanity    = "profanity"
	CategoryInsult       = "insult"
	CategoryHateOrThreat = "hate_or_threat"
	CategoryRude         = "rude"
)

// Rule is one entry of the pattern table. Patterns run against normalized
// text (lowercased, confusables mapped, whitespace/punctuation stripped).
type Rule struct {
	Pattern  *regexp.Regexp
	Category string
	Severity Severity
}

// RuleTable is a versioned set of abuse rules so the table can be swapped or
// extended without touching detection logic.
type RuleTable struct {
	Version string
	Rules   []Rule
}

// DefaultRuleTable returns the built-in v1 rule set. The patterns target the
// language the trainer scripts are authored in.
func DefaultRuleTable() RuleTable {
	return RuleTable{
		Version: "v1",
		Rules: []Rule{
			{regexp.MustCompile(`(х|x|k|к)у(й|е|я|и)`), CategoryProfanity, SeverityCritical},
			{regexp.MustCompile(`(п|p)изд`), CategoryProfanity, SeverityCritical},
			{regexp.MustCompile(`(бля|blya|бл[яа]д)`), CategoryProfanity, SeverityCritical},
			{regexp.MustCompile(`(сука|сук|су4ка)`), CategoryProfanity, SeverityCritical},
			{regexp.MustCompile(`(ебан|ёбан|ебл|еба)`), CategoryProfanity, SeverityCritical},
			{regexp.MustCompile(`(нах|nax|nah)`), CategoryProfanity, SeverityCritical},
			{regexp.MustCompile(`(идиот|дебил|кретин|тупиц|дурак)`), CategoryInsult, SeverityCritical},
			{regexp.MustCompile(`(мразь|скотина|тварь)`), CategoryInsult, SeverityCritical},
			{regexp.MustCompile(`(убью|прикончу|зарежу|подорву)`), CategoryHateOrThreat, SeverityCritical},
			{regexp.MustCompile(`ненавижувас`), CategoryInsult, SeverityCritical},
			{regexp.MustCompile(`пош(ел|ла)(вон|нах|отсюда)`), CategoryRude, SeverityMajor},
			{regexp.MustCompile(`иди(вон|отсюда|кчерту|кчертям)`), CategoryRude, SeverityMajor},
			{regexp.MustCompile(`заткнись`), CategoryRude, SeverityMajor},
			{regexp.MustCompile(`(отвали|отстань)`), CategoryRude, SeverityMajor},
			{regexp.MustCompile(`фигтебе`), CategoryRude, SeverityMajor},
			{regexp.MustCompile(`мнеплевать`), CategoryRude, SeverityMajor},
			{regexp.MustCompile(`небудустобойговорить`), CategoryRude, SeverityMajor},
		},
	}
}
