package dialogue

import "avatar-trainer-be/pkg/scenario"

// ClientCue is one pre-scripted client line with its rendered emotion.
type ClientCue struct {
	Text       string     `json:"text"`
	EmotionTag EmotionTag `json:"emotionTag"`
	Intensity  float64    `json:"intensity"`
}

// Fixture is a pre-scripted demo dialogue: a fixed plan plus the exact client
// cue for every step. Sessions reference one by FixtureScenarioId.
type Fixture struct {
	Id     string
	Plan   scenario.Plan
	Script []ClientCue
}

// Steps returns the scripted session length.
func (f *Fixture) Steps() int { return len(f.Script) }

// Cue returns the client line for the given step, holding the last cue once
// the script runs out.
func (f *Fixture) Cue(step int) ClientCue {
	if len(f.Script) == 0 {
		return ClientCue{Text: "И что вы предлагаете сделать дальше?", EmotionTag: EmotionNeutral, Intensity: 0.4}
	}
	if step < 0 {
		step = 0
	}
	if step >= len(f.Script) {
		step = len(f.Script) - 1
	}
	return f.Script[step]
}

var cardBlockedFixture = Fixture{
	Id: "card_blocked_call_v1",
	Plan: scenario.Plan{
		ArchetypeId: "card_blocked_call_v1",
		Persona:     scenario.PersonaGopnik,
		Difficulty:  scenario.DifficultyHard,
		Opener:      "Клиент звонит с кассы: оплата картой не проходит.",
		Goal:        "Разобраться с блокировкой и предложить безопасные шаги разблокировки.",
		Facts: []string{
			"Карта могла уйти в антифрод из-за нетипичной суммы или повторной попытки.",
			"Разблокировка проводится после идентификации клиента через приложение или проверенный звонок.",
			"Нельзя обещать немедленную разблокировку без проверки безопасности.",
		},
		EscalationTriggers: []string{
			"отсутствие конкретных шагов",
			"обещание результата без проверки",
			"запрос лишних данных",
		},
		Pitfalls: []string{
			"обещание «точно разблокируем»",
			"запрос CVV или кода из СМС",
		},
	},
	Script: []ClientCue{
		{Text: "Здравствуйте. Мою карту заблокировали на кассе, платеж не прошел.", EmotionTag: EmotionNeutral, Intensity: 0.4},
		{Text: "Я сейчас в магазине, очередь стоит. Что вы будете делать?", EmotionTag: EmotionImpatient, Intensity: 0.9},
		{Text: "Почему карта могла заблокироваться? Там обычная сумма.", EmotionTag: EmotionIrritated, Intensity: 0.75},
		{Text: "Мне нужно купить сейчас, сколько ждать проверки?", EmotionTag: EmotionImpatient, Intensity: 0.95},
		{Text: "Если нужно, я могу подтвердить через приложение.", EmotionTag: EmotionNeutral, Intensity: 0.5},
		{Text: "Какие шаги прямо сейчас? Готов ждать минуту, но не больше.", EmotionTag: EmotionImpatient, Intensity: 0.9},
		{Text: "Можете открыть хотя бы один платеж? Остальное потом.", EmotionTag: EmotionAngry, Intensity: 0.9},
		{Text: "По безопасному каналу — что я должен нажать в приложении?", EmotionTag: EmotionNeutral, Intensity: 0.55},
		{Text: "Вы точно разблокируете? Нужна гарантия, иначе ухожу платить наличными.", EmotionTag: EmotionAngry, Intensity: 1.0},
	},
}

var fixtures = map[string]*Fixture{
	cardBlockedFixture.Id: &cardBlockedFixture,
}

// FindFixture resolves a fixture scenario by id.
func FindFixture(id string) (*Fixture, bool) {
	f, ok := fixtures[id]
	return f, ok
}
