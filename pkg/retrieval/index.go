package retrieval

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const snippetLength = 240

// Chunk is one indexed piece of a knowledge document.
type Chunk struct {
	Id       string
	DocTitle string
	Text     string
}

// Result is a scored chunk returned from a query.
type Result struct {
	Id       string
	DocTitle string
	Text     string
	Score    float64
	Snippet  string
}

// Tokenize lowercases the input, strips everything that is not a letter or a
// digit and splits on whitespace.
func Tokenize(input string) []string {
	lower := strings.ToLower(input)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// score is a bag-of-words match: for every unique query token present in the
// chunk it adds 1 + ln(occurrences+1), so repeated occurrences help but
// sub-linearly. No semantic similarity is involved.
func score(queryTokens map[string]struct{}, chunkTokens []string) float64 {
	counts := make(map[string]int, len(chunkTokens))
	for _, t := range chunkTokens {
		counts[t]++
	}

	var s float64
	for token := range queryTokens {
		if occ := counts[token]; occ > 0 {
			s += 1 + math.Log(float64(occ)+1)
		}
	}
	return s
}

// Rank scores every chunk against the query, drops zero-score chunks and
// returns the topK best with a truncated snippet. An empty query, or one
// sharing no tokens with any chunk, yields an empty result.
func Rank(query string, chunks []Chunk, topK int) []Result {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}
	uniq := make(map[string]struct{}, len(queryTokens))
	for _, t := range queryTokens {
		uniq[t] = struct{}{}
	}

	results := make([]Result, 0, len(chunks))
	for _, c := range chunks {
		s := score(uniq, Tokenize(c.Text))
		if s <= 0 {
			continue
		}
		results = append(results, Result{
			Id:       c.Id,
			DocTitle: c.DocTitle,
			Text:     c.Text,
			Score:    math.Round(s*1000) / 1000,
			Snippet:  snippet(c.Text),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLength {
		return text
	}
	return string(runes[:snippetLength])
}
