package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"avatar-trainer-be/pkg/moderation"
	"avatar-trainer-be/pkg/retrieval"
	"avatar-trainer-be/pkg/scenario"
)

type stubSearcher struct {
	results []retrieval.Result
	err     error
}

func (s *stubSearcher) Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error) {
	return s.results, s.err
}

func newTestEvaluator(searcher Searcher) *Evaluator {
	return NewEvaluator(moderation.NewDetector(moderation.DefaultRuleTable()), searcher, nil, nil)
}

var evidencePresent = []retrieval.Result{
	{Id: "1", DocTitle: "Регламент переводов", Snippet: "Комиссия 1%", Score: 5.2},
}

const goodAnswer = "Понимаю вашу ситуацию, не волнуйтесь. Сейчас проверю статус перевода, " +
	"уточните, пожалуйста, какую карту вы использовали? Давайте я возьму под контроль, " +
	"решим в течение часа."

func TestScoresWithinBounds(t *testing.T) {
	e := newTestEvaluator(&stubSearcher{results: evidencePresent})
	texts := []string{
		"",
		goodAnswer,
		"не знаю, сложно сказать",
		"гарантирую, без проблем решу, назовите cvv",
		"заткнись и слушай",
	}
	for _, text := range texts {
		r := e.Evaluate(context.Background(), text, nil)
		for name, score := range map[string]int{
			"correctness":  r.Scores.Correctness,
			"compliance":   r.Scores.Compliance,
			"softSkills":   r.Scores.SoftSkills,
			"deEscalation": r.Scores.DeEscalation,
			"total":        r.Total,
		} {
			if score < 0 || score > 100 {
				t.Errorf("%q: %s = %d out of [0,100]", text, name, score)
			}
		}
	}
}

func TestGoodAnswerPasses(t *testing.T) {
	e := newTestEvaluator(&stubSearcher{results: evidencePresent})
	r := e.Evaluate(context.Background(), goodAnswer, nil)
	if !r.Pass {
		t.Errorf("expected pass, got scores %+v total %d flags %v", r.Scores, r.Total, r.Flags)
	}
	if r.Total < 70 {
		t.Errorf("total = %d, want >= 70", r.Total)
	}
	if len(r.Positives) == 0 {
		t.Error("expected quoted positives for a strong answer")
	}
}

func TestPIICapsCompliance(t *testing.T) {
	e := newTestEvaluator(&stubSearcher{results: evidencePresent})
	for _, text := range []string{
		"Продиктуйте полный номер карты 1234 5678 9012 3456",
		"Назовите cvv с обратной стороны карты",
		"Скажите код из смс",
	} {
		r := e.Evaluate(context.Background(), text, nil)
		if !r.HasFlag(FlagPIIDetected) {
			t.Errorf("%q: missing PII_DETECTED, flags %v", text, r.Flags)
		}
		if r.Scores.Compliance > piiComplianceCap {
			t.Errorf("%q: compliance = %d, want <= %d", text, r.Scores.Compliance, piiComplianceCap)
		}
		if r.Pass {
			t.Errorf("%q: PII answer must not pass", text)
		}
	}
}

func TestRudenessZeroesMetrics(t *testing.T) {
	e := newTestEvaluator(&stubSearcher{results: evidencePresent})
	r := e.Evaluate(context.Background(), "заткнись и жди", nil)
	if !r.HasFlag(FlagProfanity) {
		t.Fatalf("missing PROFANITY flag, got %v", r.Flags)
	}
	if r.Scores.Compliance != 0 || r.Scores.SoftSkills != 0 || r.Scores.DeEscalation != 0 {
		t.Errorf("rude answer kept non-zero metrics: %+v", r.Scores)
	}
	if r.Pass {
		t.Error("rude answer must not pass")
	}
}

func TestDismissiveToneZeroesMetricsWithoutAbuseMatch(t *testing.T) {
	detector := moderation.NewDetector(moderation.DefaultRuleTable())
	text := "Это ваши проблемы, ждите."
	if detector.Detect(text).IsAbusive {
		t.Fatalf("%q must stay below the moderation table", text)
	}

	e := newTestEvaluator(&stubSearcher{results: evidencePresent})
	r := e.Evaluate(context.Background(), text, nil)
	if !r.HasFlag(FlagProfanity) {
		t.Fatalf("missing PROFANITY flag, got %v", r.Flags)
	}
	if r.Scores.Compliance != 0 || r.Scores.SoftSkills != 0 || r.Scores.DeEscalation != 0 {
		t.Errorf("dismissive answer kept non-zero metrics: %+v", r.Scores)
	}
}

func TestNoEvidenceCapsCorrectness(t *testing.T) {
	e := newTestEvaluator(&stubSearcher{})
	r := e.Evaluate(context.Background(), goodAnswer, nil)
	if r.Scores.Correctness > noEvidenceCeiling {
		t.Errorf("correctness = %d without evidence, want <= %d", r.Scores.Correctness, noEvidenceCeiling)
	}
	if !r.HasFlag(FlagInsufficientEvidence) {
		t.Errorf("missing INSUFFICIENT_EVIDENCE, got %v", r.Flags)
	}
}

func TestSearchErrorDegradesToNoEvidence(t *testing.T) {
	e := newTestEvaluator(&stubSearcher{err: errors.New("index offline")})
	r := e.Evaluate(context.Background(), goodAnswer, nil)
	if !r.HasFlag(FlagInsufficientEvidence) {
		t.Errorf("retrieval failure should degrade to no evidence, got %v", r.Flags)
	}
}

func TestResolvedFlag(t *testing.T) {
	e := newTestEvaluator(&stubSearcher{results: evidencePresent})
	text := goodAnswer + " Карта разблокирована, вопрос решён."
	r := e.Evaluate(context.Background(), text, nil)
	if !r.HasFlag(FlagResolved) {
		t.Errorf("missing RESOLVED, flags %v total %d", r.Flags, r.Total)
	}
}

func TestOverpromiseFlag(t *testing.T) {
	e := newTestEvaluator(&stubSearcher{results: evidencePresent})
	r := e.Evaluate(context.Background(), "Гарантирую, всё будет готово", nil)
	if !r.HasFlag(FlagOverpromise) {
		t.Errorf("missing OVERPROMISE, flags %v", r.Flags)
	}
}

func TestIntolerantDifficultyPenalty(t *testing.T) {
	e := newTestEvaluator(&stubSearcher{results: evidencePresent})
	base := e.Evaluate(context.Background(), goodAnswer, &scenario.Plan{Difficulty: scenario.DifficultySimple})
	hard := e.Evaluate(context.Background(), goodAnswer, &scenario.Plan{Difficulty: scenario.DifficultyIntolerant})
	if hard.Scores.DeEscalation >= base.Scores.DeEscalation {
		t.Errorf("intolerant deEscalation %d, want below %d", hard.Scores.DeEscalation, base.Scores.DeEscalation)
	}
}

func TestSuggestedAnswerUsesPlanFact(t *testing.T) {
	e := newTestEvaluator(&stubSearcher{results: evidencePresent})
	plan := &scenario.Plan{Facts: []string{"Комиссия за перевод 1%"}}
	r := e.Evaluate(context.Background(), goodAnswer, plan)
	if !strings.Contains(r.SuggestedAnswer, plan.Facts[0]) {
		t.Errorf("suggested answer %q does not reference the plan fact", r.SuggestedAnswer)
	}
}
