package dialogue

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"avatar-trainer-be/pkg/llm"
	"avatar-trainer-be/pkg/scenario"
)

// Turn roles within a dialogue history.
const (
	RoleClient  = "client"
	RoleTrainee = "trainee"
)

// Turn is one utterance passed to the generator as history.
type Turn struct {
	Role string
	Text string
}

// escalationThreshold is the evaluation total below which the client stops
// asking follow-ups and escalates.
const escalationThreshold = 55

const historyWindow = 6

// factAppendixMaxLen keeps quoted plan facts short enough to read as a
// client aside rather than a regulation dump.
const factAppendixMaxLen = 160

var escalationLines = []string{
	"Вы мне можете конкретно объяснить, что вы сейчас сделаете?",
	"Почему это не было сказано сразу? Это несерьезно.",
	"У меня нет времени слушать общие слова, отвечайте по делу.",
}

const defaultFollowUp = "И что вы предлагаете сделать дальше?"

// PIIDeflectionReply is the scripted client refusal when the trainee asks for
// personal data.
const PIIDeflectionReply = "Я не передаю паспортные и телефонные данные в чате. Давайте решим без этого. [паспорт скрыт] [телефон скрыт]"

// ClosingThreatLine ends the dialogue after rude trainee language.
const ClosingThreatLine = "Если будете продолжать в таком тоне, я подам жалобу и заканчиваю разговор."

// Logger is the slice of the app logger the generator needs.
type Logger interface {
	Warn(module string, message string, details map[string]interface{})
}

// Generator produces the client's next line. The deterministic path is always
// available; an optional llm provider may replace it under a hard timeout.
type Generator struct {
	archetypes scenario.ArchetypeSource
	provider   llm.LLMProvider
	timeout    time.Duration
	logger     Logger
	rng        *rand.Rand
}

func NewGenerator(archetypes scenario.ArchetypeSource, provider llm.LLMProvider, timeout time.Duration, logger Logger) *Generator {
	return &Generator{
		archetypes: archetypes,
		provider:   provider,
		timeout:    timeout,
		logger:     logger,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClientTurn is the generated next client utterance.
type ClientTurn struct {
	Text    string  `json:"text"`
	Emotion Emotion `json:"emotion"`
}

// Next produces the client's next line for the plan and step. When the last
// evaluation scored below the escalation threshold, the client escalates with
// a trigger from the plan; otherwise it cycles the archetype's follow-up
// questions. The llm path, when configured, replaces the wording but failures
// and timeouts fall back silently.
func (g *Generator) Next(ctx context.Context, plan *scenario.Plan, step int, evaluationScore int, history []Turn) ClientTurn {
	text := ""
	if g.provider != nil {
		text = g.generateLLM(ctx, plan, evaluationScore, history)
	}
	if text == "" {
		text = g.deterministic(ctx, plan, step, evaluationScore)
	}
	return ClientTurn{Text: text, Emotion: DeriveEmotion(plan.Persona, step)}
}

// Deflect produces the scripted refusal to a personal-data request.
func (g *Generator) Deflect(plan *scenario.Plan, step int) ClientTurn {
	return ClientTurn{Text: PIIDeflectionReply, Emotion: DeriveEmotion(plan.Persona, step)}
}

func (g *Generator) deterministic(ctx context.Context, plan *scenario.Plan, step int, evaluationScore int) string {
	if evaluationScore < escalationThreshold {
		line := escalationLines[g.rng.Intn(len(escalationLines))]
		if len(plan.EscalationTriggers) > 0 {
			trigger := plan.EscalationTriggers[g.rng.Intn(len(plan.EscalationTriggers))]
			return strings.TrimSpace(line + " " + trigger)
		}
		return line
	}

	var followUps []string
	if archetype, err := g.archetypes.FindById(ctx, plan.ArchetypeId); err == nil && archetype != nil {
		followUps = archetype.SampleQuestions
	}
	if len(followUps) == 0 {
		return defaultFollowUp
	}
	question := followUps[(step+1)%len(followUps)]
	if question == "" {
		return defaultFollowUp
	}
	if len(plan.Facts) > 0 {
		fact := plan.Facts[step%len(plan.Facts)]
		if fact != "" && len([]rune(fact)) <= factAppendixMaxLen {
			return question + " Мне говорили: «" + fact + "»."
		}
	}
	return question
}

func (g *Generator) generateLLM(ctx context.Context, plan *scenario.Plan, evaluationScore int, history []Turn) string {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	messages := []llm.Message{
		{Role: "system", Content: clientSystemPrompt(plan, evaluationScore)},
		{Role: "user", Content: fmt.Sprintf("Предыдущий диалог:\n%s\n\nСледующий ход клиента:", renderHistory(history))},
	}
	reply, err := g.provider.Chat(ctx, messages, llm.WithTemperature(0.6))
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("ClientGenerator", "llm generation failed, falling back to scripted", map[string]interface{}{"error": err.Error()})
		}
		return ""
	}
	return strings.TrimSpace(reply)
}

func clientSystemPrompt(plan *scenario.Plan, evaluationScore int) string {
	lines := []string{
		"Ты играешь роль клиента банка в тренировочном диалоге.",
		"Отвечай 1-2 предложениями, без ПДн, без внутренних пометок.",
		fmt.Sprintf("Персона: %s, сложность: %s.", plan.Persona, plan.Difficulty),
	}
	goal := plan.Goal
	if goal == "" {
		goal = "получить решение вопроса"
	}
	lines = append(lines, fmt.Sprintf("Цель сценария: %s.", goal))
	if len(plan.EscalationTriggers) > 0 {
		lines = append(lines, "Триггеры эскалации: "+strings.Join(plan.EscalationTriggers, ", "))
	}
	if len(plan.Facts) > 0 {
		facts := plan.Facts
		if len(facts) > 3 {
			facts = facts[:3]
		}
		lines = append(lines, "Контекст регламента:\n- "+strings.Join(facts, "\n- "))
	}
	if evaluationScore < escalationThreshold {
		lines = append(lines, "Оцени работу агента низко: говори требовательно и укажи, что нужно конкретное действие.")
	} else {
		lines = append(lines, "Сохраняй тон персоны, задавай уточняющие вопросы по теме.")
	}
	lines = append(lines, "Не придумывай новые требования, опирайся на тему сценария.")
	return strings.Join(lines, "\n")
}

func renderHistory(history []Turn) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	rendered := make([]string, 0, len(history))
	for _, t := range history {
		speaker := "Агент"
		if t.Role == RoleClient {
			speaker = "Клиент"
		}
		rendered = append(rendered, speaker+": "+t.Text)
	}
	return strings.Join(rendered, "\n")
}
