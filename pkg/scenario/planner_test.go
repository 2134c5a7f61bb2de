package scenario

import (
	"context"
	"strings"
	"testing"
	"time"

	"avatar-trainer-be/pkg/retrieval"
)

type stubArchetypes struct {
	items []*Archetype
}

func (s *stubArchetypes) FindAll(ctx context.Context) ([]*Archetype, error) { return s.items, nil }
func (s *stubArchetypes) FindById(ctx context.Context, id string) (*Archetype, error) {
	for _, a := range s.items {
		if a.Id == id {
			return a, nil
		}
	}
	return nil, nil
}

type stubSearcher struct {
	results []retrieval.Result
}

func (s *stubSearcher) Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error) {
	return s.results, nil
}

type nopLogger struct{}

func (nopLogger) Warn(module, message string, details map[string]interface{}) {}

var feesArchetype = &Archetype{
	Id:              "fees_dispute",
	Title:           "Спор о комиссии за перевод",
	Summary:         "Клиент недоволен списанной комиссией",
	Topics:          []string{"комиссия", "перевод"},
	SampleQuestions: []string{"Почему с меня списали комиссию?", "А вернуть можно?"},
	Gotchas:         []string{"требует конкретные сроки", "недоволен прозрачностью", "перебивает", "лишний"},
	Outcomes:        []string{"объяснить правило комиссии"},
}

func newTestPlanner(searcher Searcher) *Planner {
	return NewPlanner(&stubArchetypes{items: []*Archetype{feesArchetype}}, searcher, nil, time.Second, nopLogger{})
}

func TestGenerateExamSkewsDifficulty(t *testing.T) {
	p := newTestPlanner(&stubSearcher{})
	for i := 0; i < 20; i++ {
		plan, err := p.Generate(context.Background(), "exam")
		if err != nil {
			t.Fatal(err)
		}
		if plan.Difficulty != DifficultyHard && plan.Difficulty != DifficultyIntolerant {
			t.Fatalf("exam produced difficulty %q", plan.Difficulty)
		}
	}
}

func TestGenerateTriggersCapped(t *testing.T) {
	p := newTestPlanner(&stubSearcher{})
	plan, err := p.Generate(context.Background(), "training")
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.EscalationTriggers) > 3 {
		t.Errorf("got %d escalation triggers, want at most 3", len(plan.EscalationTriggers))
	}
	if plan.ArchetypeId != "fees_dispute" {
		t.Errorf("archetype = %q", plan.ArchetypeId)
	}
	if plan.Opener == "" || !strings.Contains(plan.Opener, feesArchetype.Title) {
		t.Errorf("opener %q does not reference archetype title", plan.Opener)
	}
}

func TestGroundingFactsFiltered(t *testing.T) {
	searcher := &stubSearcher{results: []retrieval.Result{
		{Text: "Комиссия за перевод между банками 1% (min 50 ₽).", Score: 2.5},
		{Text: "Рекомендации для злых клиентов: уменьшить скорость речи.", Score: 3.0}, // instructional
		{Text: "Комиссия удерживается сразу.", Score: 0.2},                            // below threshold
		{Text: "Погода сегодня хорошая и солнечная.", Score: 1.8},                     // no keyword overlap
	}}
	p := newTestPlanner(searcher)

	plan, err := p.Generate(context.Background(), "training")
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Facts) != 1 {
		t.Fatalf("facts = %v, want exactly the relevant one", plan.Facts)
	}
	if !strings.Contains(plan.Facts[0], "Комиссия за перевод") {
		t.Errorf("unexpected fact %q", plan.Facts[0])
	}
}

func TestCleanFactTrimsToSentences(t *testing.T) {
	long := strings.Repeat("Первое предложение о комиссии. ", 20)
	got := cleanFact(long, 200)
	if n := len([]rune(got)); n > 200 {
		t.Errorf("cleaned fact has %d runes, want <= 200", n)
	}
	if !strings.HasSuffix(strings.TrimSpace(got), ".") {
		t.Errorf("fact %q not trimmed at sentence boundary", got)
	}
}

func TestCleanFactStripsMarkdown(t *testing.T) {
	got := cleanFact("# Заголовок\n- пункт **важно** `код`", 200)
	for _, forbidden := range []string{"#", "**", "`", "- "} {
		if strings.Contains(got, forbidden) {
			t.Errorf("cleaned fact %q still contains %q", got, forbidden)
		}
	}
}

func TestInitialClientMessageFallback(t *testing.T) {
	if got := InitialClientMessage(nil); got == "" {
		t.Error("empty fallback opener")
	}
	if got := InitialClientMessage(feesArchetype); got != feesArchetype.SampleQuestions[0] {
		t.Errorf("got %q, want first sample question", got)
	}
}
