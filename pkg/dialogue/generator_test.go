package dialogue

import (
	"context"
	"strings"
	"testing"
	"time"

	"avatar-trainer-be/pkg/scenario"
)

type stubArchetypes struct {
	archetype *scenario.Archetype
}

func (s *stubArchetypes) FindAll(ctx context.Context) ([]*scenario.Archetype, error) {
	return []*scenario.Archetype{s.archetype}, nil
}

func (s *stubArchetypes) FindById(ctx context.Context, id string) (*scenario.Archetype, error) {
	if s.archetype != nil && s.archetype.Id == id {
		return s.archetype, nil
	}
	return nil, nil
}

var testPlan = &scenario.Plan{
	ArchetypeId: "fees_dispute",
	Persona:     scenario.PersonaAggressive,
	Difficulty:  scenario.DifficultyHard,
	EscalationTriggers: []string{
		"отсутствие конкретных шагов",
		"обещание результата без проверки",
	},
}

var testArchetype = &scenario.Archetype{
	Id: "fees_dispute",
	SampleQuestions: []string{
		"Почему с меня списали комиссию?",
		"А вернуть можно?",
		"Сколько это займёт?",
	},
}

func newTestGenerator() *Generator {
	return NewGenerator(&stubArchetypes{archetype: testArchetype}, nil, time.Second, nil)
}

func TestEscalationUsesPlanTriggers(t *testing.T) {
	g := newTestGenerator()
	for i := 0; i < 20; i++ {
		turn := g.Next(context.Background(), testPlan, 1, 30, nil)
		matched := false
		for _, trigger := range testPlan.EscalationTriggers {
			if strings.Contains(turn.Text, trigger) {
				matched = true
			}
		}
		if !matched {
			t.Fatalf("escalation %q contains no plan trigger", turn.Text)
		}
	}
}

func TestFollowUpCyclesSampleQuestions(t *testing.T) {
	g := newTestGenerator()
	for step := 0; step < 6; step++ {
		turn := g.Next(context.Background(), testPlan, step, 80, nil)
		want := testArchetype.SampleQuestions[(step+1)%len(testArchetype.SampleQuestions)]
		if turn.Text != want {
			t.Errorf("step %d: got %q, want %q", step, turn.Text, want)
		}
	}
}

func TestFollowUpQuotesShortPlanFact(t *testing.T) {
	g := newTestGenerator()
	plan := *testPlan
	plan.Facts = []string{"Комиссия за перевод между банками 1% (min 50 ₽)."}

	turn := g.Next(context.Background(), &plan, 0, 80, nil)
	if !strings.Contains(turn.Text, plan.Facts[0]) {
		t.Errorf("follow-up %q does not quote plan fact", turn.Text)
	}

	plan.Facts = []string{strings.Repeat("о", factAppendixMaxLen+1)}
	turn = g.Next(context.Background(), &plan, 0, 80, nil)
	if strings.Contains(turn.Text, plan.Facts[0]) {
		t.Errorf("overly long fact should not be quoted")
	}
}

func TestUnknownArchetypeFallsBack(t *testing.T) {
	g := NewGenerator(&stubArchetypes{}, nil, time.Second, nil)
	turn := g.Next(context.Background(), testPlan, 0, 80, nil)
	if turn.Text != defaultFollowUp {
		t.Errorf("got %q, want default follow-up", turn.Text)
	}
}

func TestDeflectReturnsScriptedRefusal(t *testing.T) {
	g := newTestGenerator()
	turn := g.Deflect(testPlan, 2)
	if turn.Text != PIIDeflectionReply {
		t.Errorf("got %q", turn.Text)
	}
}

func TestDeriveEmotionClamped(t *testing.T) {
	personas := []scenario.Persona{
		scenario.PersonaCalm, scenario.PersonaAnxious, scenario.PersonaAggressive,
		scenario.PersonaSlangy, scenario.PersonaElderly, scenario.PersonaCorporate,
		scenario.PersonaImpatient, scenario.PersonaZoomer, scenario.PersonaGopnik,
	}
	for _, p := range personas {
		for _, turnIdx := range []int{0, 1, 5, 50} {
			e := DeriveEmotion(p, turnIdx)
			if e.Intensity < 0 || e.Intensity > 1 {
				t.Errorf("persona %s turn %d: intensity %f out of [0,1]", p, turnIdx, e.Intensity)
			}
		}
	}
}

func TestDeriveEmotionBumpCapped(t *testing.T) {
	base := DeriveEmotion(scenario.PersonaElderly, 0)
	late := DeriveEmotion(scenario.PersonaElderly, 100)
	if late.Intensity-base.Intensity > 0.2+1e-9 {
		t.Errorf("bump %f exceeds cap", late.Intensity-base.Intensity)
	}
}

func TestFixtureCueHoldsLastLine(t *testing.T) {
	f, ok := FindFixture("card_blocked_call_v1")
	if !ok {
		t.Fatal("card blocked fixture missing")
	}
	if f.Plan.Persona != scenario.PersonaGopnik {
		t.Errorf("fixture persona = %s", f.Plan.Persona)
	}
	last := f.Cue(f.Steps() - 1)
	beyond := f.Cue(f.Steps() + 5)
	if beyond != last {
		t.Errorf("cue beyond script = %+v, want last cue", beyond)
	}
	if first := f.Cue(0); first.EmotionTag != EmotionNeutral {
		t.Errorf("first cue emotion = %s", first.EmotionTag)
	}
}
