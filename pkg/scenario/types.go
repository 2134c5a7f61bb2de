package scenario

// Persona is the synthetic client's tone/attitude archetype.
type Persona string

const (
	PersonaCalm       Persona = "calm"
	PersonaAnxious    Persona = "anxious"
	PersonaAggressive Persona = "aggressive"
	PersonaSlangy     Persona = "slangy"
	PersonaElderly    Persona = "elderly"
	PersonaCorporate  Persona = "corporate"
	PersonaImpatient  Persona = "impatient"
	PersonaZoomer     Persona = "zoomer"
	PersonaGopnik     Persona = "gopnik"
)

// Difficulty tunes how demanding the synthetic client is.
type Difficulty string

const (
	DifficultySimple     Difficulty = "simple"
	DifficultyHard       Difficulty = "hard"
	DifficultyIntolerant Difficulty = "intolerant"
)

// Archetype is a topic template scenarios are generated from.
type Archetype struct {
	Id              string   `json:"id"`
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	Topics          []string `json:"topics"`
	SampleQuestions []string `json:"sample_questions"`
	Gotchas         []string `json:"gotchas"`
	Outcomes        []string `json:"outcomes"`
}

// Plan is the resolved scenario configuration for one session. It is built
// once by the Planner and never mutated after the session starts.
type Plan struct {
	ArchetypeId        string     `json:"archetype_id"`
	Persona            Persona    `json:"persona"`
	Difficulty         Difficulty `json:"difficulty"`
	Opener             string     `json:"opener"`
	Goal               string     `json:"goal"`
	Facts              []string   `json:"facts"`
	EscalationTriggers []string   `json:"escalation_triggers"`
	Pitfalls           []string   `json:"pitfalls"`
}
