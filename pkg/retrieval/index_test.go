package retrieval

import "testing"

var testChunks = []Chunk{
	{Id: "1", DocTitle: "KB", Text: "Комиссия за перевод между банками составляет 1% от суммы."},
	{Id: "2", DocTitle: "KB", Text: "Блокировка карты снимается после идентификации клиента."},
	{Id: "3", DocTitle: "KB", Text: "перевод перевод перевод статус обрабатывается в течение часа"},
}

func TestRankEmptyQuery(t *testing.T) {
	if got := Rank("", testChunks, 3); len(got) != 0 {
		t.Errorf("Rank on empty query returned %d results, want 0", len(got))
	}
	if got := Rank("...!!!", testChunks, 3); len(got) != 0 {
		t.Errorf("Rank on punctuation-only query returned %d results, want 0", len(got))
	}
}

func TestRankNoOverlap(t *testing.T) {
	if got := Rank("ипотека страховка депозит", testChunks, 3); len(got) != 0 {
		t.Errorf("Rank with no token overlap returned %d results, want 0", len(got))
	}
}

func TestRankOrdersByScore(t *testing.T) {
	got := Rank("статус перевод", testChunks, 3)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	// Chunk 3 contains "перевод" three times plus "статус" so it must rank
	// above chunk 1, which contains "перевод" once.
	if got[0].Id != "3" {
		t.Errorf("top result = chunk %s, want chunk 3", got[0].Id)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %f <= %f", got[0].Score, got[1].Score)
	}
}

func TestRankTopK(t *testing.T) {
	got := Rank("перевод карты клиента", testChunks, 1)
	if len(got) != 1 {
		t.Errorf("topK=1 returned %d results", len(got))
	}
}

func TestRankSnippetTruncated(t *testing.T) {
	long := Chunk{Id: "x", DocTitle: "KB", Text: ""}
	for len([]rune(long.Text)) < 600 {
		long.Text += "перевод и ещё текст про статус операции "
	}
	got := Rank("перевод", []Chunk{long}, 1)
	if len(got) != 1 {
		t.Fatal("expected one result")
	}
	if n := len([]rune(got[0].Snippet)); n > snippetLength {
		t.Errorf("snippet length = %d runes, want <= %d", n, snippetLength)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Почему, ВЗЯЛИ комиссию?! 1%")
	want := []string{"почему", "взяли", "комиссию", "1"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
