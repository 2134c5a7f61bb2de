package retrieval

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	got := SplitText("короткий документ", DefaultChunkSize, DefaultOverlap)
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("абвгдежзик ", 300) // ~3300 runes
	chunks := SplitText(text, 1000, 120)
	if len(chunks) < 3 {
		t.Fatalf("got %d chunks, want at least 3", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > 1000 {
			t.Errorf("chunk %d has %d runes, want <= 1000", i, n)
		}
	}
}

func TestSplitTextDegenerateOverlap(t *testing.T) {
	// overlap >= chunkSize must not loop forever
	chunks := SplitText(strings.Repeat("a", 50), 10, 10)
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}
}

func TestSplitSections(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteString("# Раздел\n")
		b.WriteString(strings.Repeat("правило сервиса и порядок действий. ", 12))
		b.WriteString("\n")
	}
	chunks := SplitSections(b.String())
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > maxSectionChunk {
			t.Errorf("chunk %d exceeds band: %d bytes", i, len(c))
		}
	}
}

func TestSplitSectionsHeaderlessLongText(t *testing.T) {
	text := strings.Repeat("abcdefghij ", 1040) // ~11400 chars, no headers
	chunks := SplitSections(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want the sliding-window fallback to split", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > DefaultChunkSize {
			t.Errorf("chunk %d has %d runes, want <= %d", i, n, DefaultChunkSize)
		}
	}
}

func TestSplitSectionsOversizedSection(t *testing.T) {
	content := "# Лимиты\n" + strings.Repeat("правило и порядок действий по заявке клиента. ", 60)
	chunks := SplitSections(content)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want oversized section split into several", len(chunks))
	}
}

func TestSplitSectionsEmpty(t *testing.T) {
	if got := SplitSections("   \n  "); len(got) != 0 {
		t.Errorf("got %d chunks for blank input, want 0", len(got))
	}
}
