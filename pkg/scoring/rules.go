package scoring

// Metric names one Evaluation is scored on.
type Metric string

const (
	MetricCorrectness  Metric = "correctness"
	MetricCompliance   Metric = "compliance"
	MetricSoftSkills   Metric = "softSkills"
	MetricDeEscalation Metric = "deEscalation"
)

// Rule is one weighted condition inside a metric. Weights within a metric sum
// to 100, so the metric score is directly the sum of hit weights.
type Rule struct {
	Id     string
	Title  string
	Metric Metric
	Weight int
	Hit    func(Signals) bool
	Quote  func(Signals) string
	// Advice shown when the rule misses.
	Advice string
}

// RuleTable is a versioned set of scoring rules grouped by metric.
type RuleTable struct {
	Version string
	Rules   []Rule
}

func noQuote(Signals) string { return "" }

// DefaultRuleTable mirrors the supervisor checklist used for manual reviews.
func DefaultRuleTable() *RuleTable {
	return &RuleTable{
		Version: "v1",
		Rules: []Rule{
			{
				Id:     "correctness_plan",
				Title:  "Есть конкретный шаг",
				Metric: MetricCorrectness,
				Weight: 35,
				Hit:    func(s Signals) bool { return s.HasPlan },
				Quote:  func(s Signals) string { return s.PlanQuote },
				Advice: "Назовите конкретное действие, которое вы предпримете",
			},
			{
				Id:     "correctness_timeline",
				Title:  "Есть срок/таймлайн",
				Metric: MetricCorrectness,
				Weight: 20,
				Hit:    func(s Signals) bool { return s.HasTimeline },
				Quote:  func(s Signals) string { return s.TimelineQuote },
				Advice: "Обозначьте срок решения вопроса",
			},
			{
				Id:     "correctness_clarify",
				Title:  "Есть уточняющий вопрос",
				Metric: MetricCorrectness,
				Weight: 15,
				Hit:    func(s Signals) bool { return s.HasClarify },
				Quote:  func(s Signals) string { return s.ClarifyQuote },
				Advice: "Уточните детали, прежде чем предлагать решение",
			},
			{
				Id:     "correctness_no_hedging",
				Title:  "Нет ответа \"не знаю\"",
				Metric: MetricCorrectness,
				Weight: 30,
				Hit:    func(s Signals) bool { return !s.Hedging },
				Quote:  noQuote,
				Advice: "Вместо \"не знаю\" предложите путь к ответу",
			},
			{
				Id:     "compliance_no_pii",
				Title:  "Не запрашивает ПДн/карты",
				Metric: MetricCompliance,
				Weight: 40,
				Hit:    func(s Signals) bool { return !s.PII },
				Quote:  noQuote,
				Advice: "Запрос конфиденциальных данных недопустим",
			},
			{
				Id:     "compliance_no_abuse",
				Title:  "Нет хамства/оскорблений",
				Metric: MetricCompliance,
				Weight: 40,
				Hit:    func(s Signals) bool { return !s.Rude() },
				Quote:  noQuote,
				Advice: "Сохраняйте нейтральный уважительный тон",
			},
			{
				Id:     "compliance_no_overpromise",
				Title:  "Нет необоснованных обещаний",
				Metric: MetricCompliance,
				Weight: 20,
				Hit:    func(s Signals) bool { return !s.Overpromise },
				Quote:  noQuote,
				Advice: "Не гарантируйте результат, который не контролируете",
			},
			{
				Id:     "soft_empathy",
				Title:  "Есть эмпатия/признание",
				Metric: MetricSoftSkills,
				Weight: 45,
				Hit:    func(s Signals) bool { return s.HasEmpathy },
				Quote:  func(s Signals) string { return s.EmpathyQuote },
				Advice: "Покажите клиенту, что понимаете его ситуацию",
			},
			{
				Id:     "soft_polite",
				Title:  "Вежливый тон",
				Metric: MetricSoftSkills,
				Weight: 30,
				Hit:    func(s Signals) bool { return s.HasPoliteness },
				Quote:  func(s Signals) string { return s.PolitenessQuote },
				Advice: "Добавьте вежливые формулировки",
			},
			{
				Id:     "soft_no_rudeness",
				Title:  "Без грубости",
				Metric: MetricSoftSkills,
				Weight: 25,
				Hit:    func(s Signals) bool { return !s.Rude() },
				Quote:  noQuote,
				Advice: "Исключите резкие выражения",
			},
			{
				Id:     "deesc_ownership",
				Title:  "Берёт на себя следующий шаг/контроль",
				Metric: MetricDeEscalation,
				Weight: 45,
				Hit:    func(s Signals) bool { return s.HasPlan || s.HasCalming },
				Quote:  func(s Signals) string { return s.PlanQuote },
				Advice: "Возьмите ответственность за следующий шаг",
			},
			{
				Id:     "deesc_calming",
				Title:  "Использует успокаивающие формулировки",
				Metric: MetricDeEscalation,
				Weight: 30,
				Hit:    func(s Signals) bool { return s.HasCalming },
				Quote:  func(s Signals) string { return s.CalmingQuote },
				Advice: "Используйте формулировки, снижающие напряжение",
			},
			{
				Id:     "deesc_no_conflict",
				Title:  "Не усугубляет конфликт",
				Metric: MetricDeEscalation,
				Weight: 25,
				Hit:    func(s Signals) bool { return !s.Rude() },
				Quote:  noQuote,
				Advice: "Не отвечайте агрессией на агрессию",
			},
		},
	}
}

// MetricExplain keeps the hit/miss detail of one metric for audit.
type MetricExplain struct {
	Score    int      `json:"score"`
	MaxScore int      `json:"maxScore"`
	Hits     []string `json:"hits"`
	Misses   []string `json:"misses"`
}

// Apply runs every rule against the signals and returns per-metric scores in
// [0,100] plus the hit/miss breakdown.
func (t *RuleTable) Apply(s Signals) (map[Metric]int, map[Metric]*MetricExplain) {
	scores := map[Metric]int{}
	explain := map[Metric]*MetricExplain{}
	for _, r := range t.Rules {
		e := explain[r.Metric]
		if e == nil {
			e = &MetricExplain{}
			explain[r.Metric] = e
		}
		e.MaxScore += r.Weight
		if r.Hit(s) {
			e.Score += r.Weight
			e.Hits = append(e.Hits, r.Title)
		} else {
			e.Misses = append(e.Misses, r.Title)
		}
	}
	for metric, e := range explain {
		if e.MaxScore == 0 {
			scores[metric] = 0
			continue
		}
		scores[metric] = int(float64(e.Score)/float64(e.MaxScore)*100 + 0.5)
	}
	return scores, explain
}
