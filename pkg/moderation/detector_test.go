package moderation

import "testing"

func TestDetectCritical(t *testing.T) {
	d := NewDetector(DefaultRuleTable())

	tests := []struct {
		name     string
		text     string
		category string
	}{
		{"profanity", "да пошли вы, сука", CategoryProfanity},
		{"insult", "вы идиот и ничего не понимаете", CategoryInsult},
		{"threat", "я тебя убью за это", CategoryHateOrThreat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Detect(tt.text)
			if !res.IsAbusive {
				t.Fatalf("Detect(%q).IsAbusive = false, want true", tt.text)
			}
			if res.Severity != SeverityCritical {
				t.Errorf("Severity = %q, want critical", res.Severity)
			}
			if !res.HasCategory(tt.category) {
				t.Errorf("Categories = %v, want to contain %q", res.Categories, tt.category)
			}
		})
	}
}

func TestDetectMajorRudeness(t *testing.T) {
	d := NewDetector(DefaultRuleTable())

	res := d.Detect("Заткнись и слушай меня")
	if !res.IsAbusive {
		t.Fatal("expected rude text to be flagged")
	}
	if res.Severity != SeverityMajor {
		t.Errorf("Severity = %q, want major", res.Severity)
	}
	if !res.HasCategory(CategoryRude) {
		t.Errorf("Categories = %v, want rude", res.Categories)
	}
}

func TestCriticalOverridesMajor(t *testing.T) {
	d := NewDetector(DefaultRuleTable())

	// Contains both a rude pattern and a critical profanity.
	res := d.Detect("отвали, сука")
	if res.Severity != SeverityCritical {
		t.Errorf("Severity = %q, want critical when both match", res.Severity)
	}
	if len(res.Categories) < 2 {
		t.Errorf("Categories = %v, want both rude and profanity", res.Categories)
	}
}

func TestObfuscationInvariance(t *testing.T) {
	d := NewDetector(DefaultRuleTable())

	// Latin look-alikes substituted for Cyrillic letters, spacing and
	// punctuation injected.
	pairs := [][2]string{
		{"сука", "c у.к-a"},
		{"ты дурак", "ты дypaк"},
		{"заткнись", "з_а_т_к_н_и_с_ь"},
		// Asterisks are stripped before matching, so starred spellings
		// collapse onto the plain pattern.
		{"хуй", "х*у*й"},
	}

	for _, p := range pairs {
		plain := d.Detect(p[0])
		masked := d.Detect(p[1])
		if plain.IsAbusive != masked.IsAbusive {
			t.Errorf("Detect(%q).IsAbusive = %v, Detect(%q).IsAbusive = %v, want equal",
				p[0], plain.IsAbusive, p[1], masked.IsAbusive)
		}
		if plain.Severity != masked.Severity {
			t.Errorf("severity mismatch for %q vs %q", p[0], p[1])
		}
	}
}

func TestCleanTextNotFlagged(t *testing.T) {
	d := NewDetector(DefaultRuleTable())

	clean := []string{
		"Понимаю вашу ситуацию, сейчас проверю статус перевода.",
		"Комиссия составляет 1%, возврат в течение суток.",
	}
	for _, text := range clean {
		if res := d.Detect(text); res.IsAbusive {
			t.Errorf("Detect(%q) flagged %v, want clean", text, res.MatchedPatterns)
		}
	}
}
