package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"avatar-trainer-be/pkg/llm"
	"avatar-trainer-be/pkg/retrieval"
)

const (
	factsTopK    = 5
	factMinScore = 0.5
)

// Searcher is the lexical retrieval dependency used to ground scenario facts.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error)
}

// ArchetypeSource is a read-only repository of scenario archetypes, injected
// at construction instead of being loaded through ambient global state.
type ArchetypeSource interface {
	FindAll(ctx context.Context) ([]*Archetype, error)
	FindById(ctx context.Context, id string) (*Archetype, error)
}

// Logger is the narrow logging surface the planner needs.
type Logger interface {
	Warn(module, message string, details map[string]interface{})
}

var personas = []Persona{
	PersonaCalm, PersonaAnxious, PersonaAggressive, PersonaSlangy,
	PersonaElderly, PersonaCorporate, PersonaImpatient, PersonaGopnik,
}

var difficulties = []Difficulty{DifficultySimple, DifficultyHard, DifficultyIntolerant}

var examDifficulties = []Difficulty{DifficultyHard, DifficultyIntolerant}

var personaTones = map[Persona]string{
	PersonaCalm:       "говорит спокойно и вежливо",
	PersonaAnxious:    "нервничает и переживает, но готов слушать",
	PersonaAggressive: "говорит резко, перебивает и обвиняет",
	PersonaSlangy:     "использует молодежный сленг и шуточки",
	PersonaElderly:    "говорит медленно, иногда отвлекается на детали",
	PersonaCorporate:  "держится официально, требует регламентов",
	PersonaImpatient:  "торопится, не любит долгих объяснений",
	PersonaZoomer:     "говорит коротко, молодежно, но по делу",
	PersonaGopnik:     "коротко, холодно, без лишних извинений",
}

var difficultyHints = map[Difficulty]string{
	DifficultySimple:     "начинает с простой формулировки проблемы",
	DifficultyHard:       "задает уточняющие вопросы, ищет несостыковки",
	DifficultyIntolerant: "реагирует жестко на малейшие ошибки, может обострять диалог",
}

// fallbackArchetype keeps the planner usable when the archetype store is
// empty (fresh install, failed seed).
var fallbackArchetype = Archetype{
	Id:              "fallback",
	Title:           "Generic angry customer",
	Summary:         "Клиент недоволен комиссией и скоростью ответа",
	Topics:          []string{"комиссии", "поддержка", "обслуживание"},
	SampleQuestions: []string{"Почему взяли комиссию?", "Сколько ждать решения?", "Кто отвечает за ошибку?"},
	Gotchas:         []string{"требует конкретные сроки", "недоволен отсутствием прозрачности", "перебивает оператора"},
	Outcomes:        []string{"объяснить комиссию и дать срок решения", "извиниться и предложить компенсацию"},
}

// Planner builds the scenario plan for a new session: archetype, persona,
// difficulty, opener and grounding facts pulled from the knowledge base.
type Planner struct {
	archetypes ArchetypeSource
	searcher   Searcher
	provider   llm.LLMProvider // optional, nil disables augmentation
	timeout    time.Duration
	logger     Logger
	rng        *rand.Rand
}

func NewPlanner(archetypes ArchetypeSource, searcher Searcher, provider llm.LLMProvider, timeout time.Duration, logger Logger) *Planner {
	return &Planner{
		archetypes: archetypes,
		searcher:   searcher,
		provider:   provider,
		timeout:    timeout,
		logger:     logger,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildOpener composes the tone-descriptive scenario opener.
func BuildOpener(archetypeTitle string, persona Persona, difficulty Difficulty) string {
	return fmt.Sprintf("Сценарий: %s. Клиент %s, %s.", archetypeTitle, personaTones[persona], difficultyHints[difficulty])
}

// InitialClientMessage picks the first client line of the dialogue.
func InitialClientMessage(archetype *Archetype) string {
	if archetype != nil && len(archetype.SampleQuestions) > 0 {
		return archetype.SampleQuestions[0]
	}
	return "У меня есть проблема, помогите разобраться."
}

// Generate builds a plan for the given mode. Exam mode skews toward the
// harder difficulties. Retrieval failures degrade to a plan without facts.
func (p *Planner) Generate(ctx context.Context, mode string) (*Plan, error) {
	all, err := p.archetypes.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load archetypes: %w", err)
	}

	archetype := &fallbackArchetype
	if len(all) > 0 {
		archetype = all[p.rng.Intn(len(all))]
	}

	persona := personas[p.rng.Intn(len(personas))]
	var difficulty Difficulty
	if mode == "exam" {
		difficulty = examDifficulties[p.rng.Intn(len(examDifficulties))]
	} else {
		difficulty = difficulties[p.rng.Intn(len(difficulties))]
	}

	facts := p.groundingFacts(ctx, archetype)

	triggers := archetype.Gotchas
	if len(triggers) > 3 {
		triggers = triggers[:3]
	}

	goal := ""
	if len(archetype.Outcomes) > 0 {
		goal = archetype.Outcomes[p.rng.Intn(len(archetype.Outcomes))]
	}

	plan := &Plan{
		ArchetypeId:        archetype.Id,
		Persona:            persona,
		Difficulty:         difficulty,
		Opener:             BuildOpener(archetype.Title, persona, difficulty),
		Goal:               goal,
		Facts:              facts,
		EscalationTriggers: triggers,
		Pitfalls:           triggers,
	}

	p.augment(ctx, plan, archetype)
	return plan, nil
}

// groundingFacts queries the knowledge base with archetype keywords and keeps
// only relevant, cleaned, sentence-trimmed chunks.
func (p *Planner) groundingFacts(ctx context.Context, archetype *Archetype) []string {
	query := strings.TrimSpace(archetype.Title + " " + strings.Join(archetype.Topics, " ") + " " + archetype.Summary)

	results, err := p.searcher.Search(ctx, query, factsTopK)
	if err != nil {
		p.logger.Warn("scenario", "grounding retrieval failed, plan continues without facts", map[string]interface{}{"error": err.Error()})
		return nil
	}

	keywords := archetypeKeywords(archetype)
	var facts []string
	for _, r := range results {
		if !relevantFact(r.Text, keywords, r.Score, factMinScore) {
			continue
		}
		facts = append(facts, cleanFact(r.Text, factMaxLength))
	}
	return facts
}

// planDraft is the JSON shape the augmentation prompt asks the model for.
type planDraft struct {
	Opener             string   `json:"opener"`
	Goal               string   `json:"goal"`
	EscalationTriggers []string `json:"escalationTriggers"`
	Pitfalls           []string `json:"pitfalls"`
}

// augment lets the optional generation collaborator rewrite plan fields.
// One bounded attempt; every failure path leaves the deterministic plan as-is.
func (p *Planner) augment(ctx context.Context, plan *Plan, archetype *Archetype) {
	if p.provider == nil {
		return
	}

	attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	system := "Ты создаёшь план сценария диалога (не сам диалог). Верни JSON с ключами: opener, goal, escalationTriggers (3 элемента), pitfalls (3 элемента). Коротко, по-русски."
	user := fmt.Sprintf("Архетип: %s — %s\nТемы: %s\nСложность: %s, персона: %s",
		archetype.Title, archetype.Summary, strings.Join(archetype.Topics, ", "), plan.Difficulty, plan.Persona)
	if len(plan.Facts) > 0 {
		user += "\nФакты: " + strings.Join(plan.Facts, " | ")
	}

	raw, err := p.provider.Chat(attemptCtx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, llm.WithTemperature(0.6))
	if err != nil {
		p.logger.Warn("scenario", "plan augmentation failed, using deterministic plan", map[string]interface{}{"error": err.Error()})
		return
	}

	var draft planDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		p.logger.Warn("scenario", "plan augmentation returned non-JSON, using deterministic plan", nil)
		return
	}

	if draft.Opener != "" {
		plan.Opener = draft.Opener
	}
	if draft.Goal != "" {
		plan.Goal = draft.Goal
	}
	if len(draft.EscalationTriggers) > 0 {
		plan.EscalationTriggers = draft.EscalationTriggers
	}
	if len(draft.Pitfalls) > 0 {
		plan.Pitfalls = draft.Pitfalls
	}
}
