package scoring

import (
	"regexp"

	"avatar-trainer-be/pkg/moderation"
)

// Signals are the boolean heuristics extracted from one trainee answer.
// Each positive signal keeps the matched span so reports can quote it.
type Signals struct {
	HasPlan          bool
	PlanQuote        string
	HasTimeline      bool
	TimelineQuote    string
	HasClarify       bool
	ClarifyQuote     string
	HasEmpathy       bool
	EmpathyQuote     string
	HasPoliteness    bool
	PolitenessQuote  string
	HasCalming       bool
	CalmingQuote     string
	Hedging          bool
	HedgingQuote     string
	PII              bool
	PIIQuote         string
	Overpromise      bool
	OverpromiseQuote string
	Resolution       bool
	RegulationRef    bool
	RegulationQuote  string
	Dismissive       bool
	DismissiveQuote  string
	Abuse            moderation.Result
}

// Rude reports hostile or dismissive tone, whether it came from the
// moderation table or from the softer heuristics below.
func (s Signals) Rude() bool {
	return s.Abuse.IsAbusive || s.Dismissive
}

// SignalPattern is one entry of the signal table. Patterns are data so the
// heuristics can be tuned without touching the scoring flow.
type SignalPattern struct {
	Id      string
	Pattern *regexp.Regexp
}

var (
	rePlan     = regexp.MustCompile(`(?i)(сейчас|проверю|проверим|открою|создам|оформлю|отправлю|перезвоню|подскажу|помогу|запущу|запрос|оформим|решим)`)
	reTimeline = regexp.MustCompile(`(?i)(минут|час(ов)?|день|срок|в течение|до конца)`)
	reClarify  = regexp.MustCompile(`(?i)(уточни|какой|что именно|когда|куда|какой тариф|какую карту)`)
	reEmpathy  = regexp.MustCompile(`(?i)(понимаю|сожалею|извин|вижу вашу ситуацию|могу помочь|постараюсь помочь)`)
	rePolite   = regexp.MustCompile(`(?i)(пожалуйста|будьте добры|не волнуйтесь|давайте|могу предложить)`)
	reCalming  = regexp.MustCompile(`(?i)(давайте я|сделаем так|возьму под контроль|открою обращение|зафиксирую|помогу решить)`)
	reHedging  = regexp.MustCompile(`(?i)(не знаю|затрудняюсь|сложно сказать|обычно|как правило)`)
	rePromise  = regexp.MustCompile(`(?i)(гарантирую|точно|обещаю|без проблем решу)`)

	// Resolution language from the client side of the script: the trainee
	// closes the issue with a confirmed outcome.
	reResolution = regexp.MustCompile(`(?i)(вопрос решён|вопрос решен|проблема решена|карта разблокирована|заявка выполнена|всё получилось|все получилось)`)

	reRegulation = regexp.MustCompile(`(?i)(согласно|по|в)\s+(регламент|инструкц|правил|kb|баз[еы]\s+знан)`)

	// Brush-offs that fail the answer without reaching the moderation table:
	// the session keeps going, the score does not survive.
	reDismissive = regexp.MustCompile(`(?i)(это ваши проблемы|сами виноват|ваша проблема|мне некогда с вами|не мешайте работать|ждите и не звоните|ничем не помогу)`)
)

// piiPatterns flag requests for data an agent must never ask for in chat.
var piiPatterns = []SignalPattern{
	{Id: "card_number", Pattern: regexp.MustCompile(`\b\d{4}\s?\d{4}\s?\d{4}\s?\d{4}\b`)},
	{Id: "cvv", Pattern: regexp.MustCompile(`(?i)cvv|cvc`)},
	{Id: "pin", Pattern: regexp.MustCompile(`(?i)pin|пин[ -]?код`)},
	{Id: "otp", Pattern: regexp.MustCompile(`(?i)otp|смс код|sms код|код из смс`)},
	{Id: "passport", Pattern: regexp.MustCompile(`(?i)паспорт`)},
	{Id: "phone", Pattern: regexp.MustCompile(`(?i)номер телефона|номер[а-я]* тел`)},
	{Id: "full_card", Pattern: regexp.MustCompile(`(?i)полный номер карты`)},
}

// DetectSignals classifies one trainee answer against the signal table.
func DetectSignals(text string, detector *moderation.Detector) Signals {
	s := Signals{Abuse: detector.Detect(text)}

	s.PlanQuote = rePlan.FindString(text)
	s.HasPlan = s.PlanQuote != ""
	s.TimelineQuote = reTimeline.FindString(text)
	s.HasTimeline = s.TimelineQuote != ""
	s.ClarifyQuote = reClarify.FindString(text)
	s.HasClarify = s.ClarifyQuote != ""
	s.EmpathyQuote = reEmpathy.FindString(text)
	s.HasEmpathy = s.EmpathyQuote != ""
	s.PolitenessQuote = rePolite.FindString(text)
	s.HasPoliteness = s.PolitenessQuote != ""
	s.CalmingQuote = reCalming.FindString(text)
	s.HasCalming = s.CalmingQuote != ""

	s.HedgingQuote = reHedging.FindString(text)
	s.Hedging = s.HedgingQuote != "" && !s.HasPlan

	for _, p := range piiPatterns {
		if m := p.Pattern.FindString(text); m != "" {
			s.PII = true
			s.PIIQuote = m
			break
		}
	}

	s.OverpromiseQuote = rePromise.FindString(text)
	s.Overpromise = s.OverpromiseQuote != ""
	s.Resolution = reResolution.MatchString(text)
	s.RegulationQuote = reRegulation.FindString(text)
	s.RegulationRef = s.RegulationQuote != ""
	s.DismissiveQuote = reDismissive.FindString(text)
	s.Dismissive = s.DismissiveQuote != ""

	return s
}
