package scoring

import (
	"context"
	"fmt"

	"avatar-trainer-be/pkg/moderation"
	"avatar-trainer-be/pkg/retrieval"
	"avatar-trainer-be/pkg/scenario"
)

// Flags an Evaluation may carry.
const (
	FlagAbuse                = "ABUSE"
	FlagProfanity            = "PROFANITY"
	FlagResolved             = "RESOLVED"
	FlagPIIDetected          = "PII_DETECTED"
	FlagOverpromise          = "OVERPROMISE"
	FlagInsufficientEvidence = "INSUFFICIENT_EVIDENCE"
)

// Evidence item kinds.
const (
	EvidenceSource   = "source"
	EvidenceStrength = "strength"
	EvidenceMistake  = "mistake"
)

const (
	evidenceTopK = 3
	// Without any knowledge-base support an answer cannot score above this
	// on correctness, whatever the other signals say.
	noEvidenceCeiling = 40
	evidenceBonusCap  = 20
	piiComplianceCap  = 35
	resolvedMinTotal  = 70
)

// Scores holds the four metric values of one Evaluation, each in [0,100].
type Scores struct {
	Correctness  int `json:"correctness"`
	Compliance   int `json:"compliance"`
	SoftSkills   int `json:"softSkills"`
	DeEscalation int `json:"deEscalation"`
}

// Record is one explained positive or mistake: which rule, on which metric,
// the quoted span that triggered it and why it matters.
type Record struct {
	Id     string `json:"id"`
	Title  string `json:"title"`
	Metric Metric `json:"metric"`
	Quote  string `json:"quote,omitempty"`
	Reason string `json:"reason"`
}

// EvidenceItem merges retrieved source chunks with the positive/mistake
// records, tagged by kind.
type EvidenceItem struct {
	Kind     string  `json:"kind"`
	ChunkId  string  `json:"chunkId,omitempty"`
	DocTitle string  `json:"docTitle,omitempty"`
	Text     string  `json:"text"`
	Score    float64 `json:"score,omitempty"`
}

// Result is the full assessment of one trainee turn.
type Result struct {
	Scores          Scores                    `json:"scores"`
	Flags           []string                  `json:"flags"`
	Positives       []Record                  `json:"positives"`
	Mistakes        []Record                  `json:"mistakes"`
	SuggestedAnswer string                    `json:"suggestedAnswer"`
	Evidence        []EvidenceItem            `json:"evidence"`
	Total           int                       `json:"total"`
	Pass            bool                      `json:"pass"`
	Explain         map[Metric]*MetricExplain `json:"explain"`
}

// HasFlag reports whether the result carries the given flag.
func (r *Result) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Searcher is the knowledge-base lookup the evaluator grounds correctness on.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error)
}

// Logger is the slice of the app logger the evaluator needs.
type Logger interface {
	Warn(module string, message string, details map[string]interface{})
}

// Evaluator scores trainee answers with the rule table, grounded on retrieved
// knowledge-base chunks. It is deterministic for a fixed index state.
type Evaluator struct {
	detector *moderation.Detector
	searcher Searcher
	rules    *RuleTable
	logger   Logger
}

func NewEvaluator(detector *moderation.Detector, searcher Searcher, rules *RuleTable, logger Logger) *Evaluator {
	if rules == nil {
		rules = DefaultRuleTable()
	}
	return &Evaluator{detector: detector, searcher: searcher, rules: rules, logger: logger}
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Evaluate scores one trainee answer against the plan. Retrieval failures
// degrade to a no-evidence evaluation and are never surfaced as errors.
func (e *Evaluator) Evaluate(ctx context.Context, text string, plan *scenario.Plan) *Result {
	signals := DetectSignals(text, e.detector)
	scores, explain := e.rules.Apply(signals)

	result := &Result{
		Flags:   []string{},
		Explain: explain,
	}

	var positives, mistakes []Record
	for _, r := range e.rules.Rules {
		if r.Hit(signals) {
			if quote := r.Quote(signals); quote != "" {
				positives = append(positives, Record{
					Id:     r.Id,
					Title:  r.Title,
					Metric: r.Metric,
					Quote:  quote,
					Reason: r.Title,
				})
			}
		} else {
			mistakes = append(mistakes, Record{
				Id:     r.Id,
				Title:  r.Title,
				Metric: r.Metric,
				Reason: r.Advice,
			})
		}
	}

	if signals.RegulationRef {
		positives = append(positives, Record{
			Id:     "regulation_reference",
			Title:  "Ссылка на регламент/KB",
			Metric: MetricCorrectness,
			Quote:  signals.RegulationQuote,
			Reason: "Ответ опирается на регламент",
		})
	}

	evidence := e.retrieveEvidence(ctx, text)

	correctness := scores[MetricCorrectness]
	if len(evidence) == 0 {
		if correctness > noEvidenceCeiling {
			correctness = noEvidenceCeiling
		}
		result.Flags = append(result.Flags, FlagInsufficientEvidence)
		mistakes = append(mistakes, Record{
			Id:     "insufficient_evidence",
			Title:  "Недостаточно ссылок на базу знаний",
			Metric: MetricCorrectness,
			Reason: "Утверждения не подтверждены регламентом",
		})
	} else {
		bonus := int(evidence[0].Score)
		if bonus > evidenceBonusCap {
			bonus = evidenceBonusCap
		}
		correctness += bonus
	}
	correctness = clampScore(correctness)

	compliance := scores[MetricCompliance]
	softSkills := scores[MetricSoftSkills]
	deEscalation := scores[MetricDeEscalation]
	if plan != nil && plan.Difficulty == scenario.DifficultyIntolerant {
		deEscalation = clampScore(deEscalation - 10)
	}

	if signals.PII {
		if compliance > piiComplianceCap {
			compliance = piiComplianceCap
		}
		result.Flags = append(result.Flags, FlagPIIDetected)
		mistakes = append(mistakes, Record{
			Id:     "pii_request",
			Title:  "Запрос конфиденциальных данных недопустим",
			Metric: MetricCompliance,
			Quote:  signals.PIIQuote,
			Reason: "Агент не запрашивает коды, карты и паспортные данные",
		})
	}
	if signals.Overpromise {
		result.Flags = append(result.Flags, FlagOverpromise)
	}

	// The session loop terminates on any moderation-table match before the
	// evaluator runs; here the flag also covers the softer brush-offs the
	// table deliberately leaves out.
	if signals.Rude() {
		compliance = 0
		softSkills = 0
		deEscalation = 0
		result.Flags = append(result.Flags, FlagProfanity)
		mistakes = append(mistakes, Record{
			Id:     "rude_tone",
			Title:  "Недопустимый тон",
			Metric: MetricSoftSkills,
			Quote:  signals.DismissiveQuote,
			Reason: "Грубость в адрес клиента",
		})
	}

	total := clampScore(int(0.35*float64(correctness) + 0.35*float64(compliance) +
		0.20*float64(softSkills) + 0.10*float64(deEscalation) + 0.5))

	if signals.Resolution && !signals.Rude() && total >= resolvedMinTotal {
		result.Flags = append(result.Flags, FlagResolved)
	}

	result.Scores = Scores{
		Correctness:  correctness,
		Compliance:   compliance,
		SoftSkills:   softSkills,
		DeEscalation: deEscalation,
	}
	result.Total = total
	result.Pass = compliance >= 85 && total >= 70 && !signals.PII && !signals.Rude()
	result.Positives = positives
	result.Mistakes = mistakes
	result.SuggestedAnswer = suggestedAnswer(plan)
	result.Evidence = mergeEvidence(evidence, positives, mistakes)

	return result
}

func (e *Evaluator) retrieveEvidence(ctx context.Context, text string) []retrieval.Result {
	if e.searcher == nil {
		return nil
	}
	chunks, err := e.searcher.Search(ctx, text, evidenceTopK)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("Evaluator", "evidence retrieval failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
	return chunks
}

func suggestedAnswer(plan *scenario.Plan) string {
	reference := "правила сервиса"
	if plan != nil && len(plan.Facts) > 0 {
		reference = plan.Facts[0]
	}
	return fmt.Sprintf("Сошлитесь на регламент (%s), предложите шаги и предупредите, что не запрашиваете коды/карты.", reference)
}

func mergeEvidence(chunks []retrieval.Result, positives, mistakes []Record) []EvidenceItem {
	items := make([]EvidenceItem, 0, len(chunks)+len(positives)+len(mistakes))
	for _, c := range chunks {
		items = append(items, EvidenceItem{
			Kind:     EvidenceSource,
			ChunkId:  c.Id,
			DocTitle: c.DocTitle,
			Text:     c.Snippet,
			Score:    c.Score,
		})
	}
	for _, p := range positives {
		items = append(items, EvidenceItem{Kind: EvidenceStrength, Text: p.Quote + " — " + p.Reason})
	}
	for _, m := range mistakes {
		items = append(items, EvidenceItem{Kind: EvidenceMistake, Text: m.Reason})
	}
	return items
}
