package dialogue

import "avatar-trainer-be/pkg/scenario"

// EmotionTag labels the client's rendered mood. Consumed by the avatar
// frontend, never by scoring.
type EmotionTag string

const (
	EmotionNeutral   EmotionTag = "neutral"
	EmotionIrritated EmotionTag = "irritated"
	EmotionImpatient EmotionTag = "impatient"
	EmotionAngry     EmotionTag = "angry"
)

// Emotion is the persona-derived mood of one client turn.
type Emotion struct {
	Tag       EmotionTag `json:"emotionTag"`
	Intensity float64    `json:"intensity"`
}

func clampIntensity(n float64) float64 {
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// DeriveEmotion maps persona plus a small per-turn bump to an emotion.
// The bump caps at 0.2 so long sessions do not saturate every persona.
func DeriveEmotion(persona scenario.Persona, turnIdx int) Emotion {
	bump := float64(turnIdx) * 0.05
	if bump > 0.2 {
		bump = 0.2
	}
	switch persona {
	case scenario.PersonaAggressive:
		return Emotion{Tag: EmotionAngry, Intensity: clampIntensity(0.9 + bump)}
	case scenario.PersonaImpatient, scenario.PersonaZoomer:
		return Emotion{Tag: EmotionImpatient, Intensity: clampIntensity(0.9 + bump)}
	case scenario.PersonaAnxious:
		return Emotion{Tag: EmotionIrritated, Intensity: clampIntensity(0.75 + bump)}
	case scenario.PersonaGopnik:
		return Emotion{Tag: EmotionIrritated, Intensity: clampIntensity(0.8 + bump)}
	case scenario.PersonaSlangy:
		return Emotion{Tag: EmotionNeutral, Intensity: clampIntensity(0.6 + bump)}
	case scenario.PersonaCorporate:
		return Emotion{Tag: EmotionNeutral, Intensity: clampIntensity(0.5 + bump)}
	case scenario.PersonaElderly:
		return Emotion{Tag: EmotionNeutral, Intensity: clampIntensity(0.4 + bump)}
	default:
		return Emotion{Tag: EmotionNeutral, Intensity: clampIntensity(0.4 + bump)}
	}
}
