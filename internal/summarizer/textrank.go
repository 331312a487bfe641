// Package summarizer produces an extractive summary: verbatim sentences
// selected from the source text by graph centrality.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	prose "github.com/jdkato/prose/v2"
)

const (
	dampingFactor = 0.85
	maxIterations = 50
	convergence   = 1e-4
)

type Summarizer struct {
	tokenPattern *regexp.Regexp
}

func New() *Summarizer {
	return &Summarizer{
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+`),
	}
}

// Summarize returns up to n representative sentences, ranked by TextRank and
// emitted in original document order. Texts with fewer than n sentences come
// back whole.
func (s *Summarizer) Summarize(text string, n int) ([]string, error) {
	if n <= 0 || strings.TrimSpace(text) == "" {
		return nil, nil
	}

	sentences, err := splitSentences(text)
	if err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, nil
	}
	if len(sentences) <= n {
		return sentences, nil
	}

	tokens := make([][]string, len(sentences))
	for i, sent := range sentences {
		tokens[i] = s.tokenPattern.FindAllString(strings.ToLower(sent), -1)
	}

	scores := textrank(tokens)

	type ranked struct {
		idx   int
		score float64
	}
	order := make([]ranked, len(scores))
	for i, sc := range scores {
		order[i] = ranked{i, sc}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].score > order[j].score })

	selected := make([]int, n)
	for i := 0; i < n; i++ {
		selected[i] = order[i].idx
	}
	sort.Ints(selected)

	out := make([]string, n)
	for i, idx := range selected {
		out[i] = sentences[idx]
	}
	return out, nil
}

// textrank runs damped power iteration over the sentence similarity graph.
func textrank(tokens [][]string) []float64 {
	n := len(tokens)
	weights := make([][]float64, n)
	outSum := make([]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := similarity(tokens[i], tokens[j])
			weights[i][j] = w
			weights[j][i] = w
			outSum[i] += w
			outSum[j] += w
		}
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0
	}
	next := make([]float64, n)
	for iter := 0; iter < maxIterations; iter++ {
		delta := 0.0
		for i := 0; i < n; i++ {
			rank := 0.0
			for j := 0; j < n; j++ {
				if j == i || weights[j][i] == 0 || outSum[j] == 0 {
					continue
				}
				rank += scores[j] * weights[j][i] / outSum[j]
			}
			next[i] = (1 - dampingFactor) + dampingFactor*rank
			delta += math.Abs(next[i] - scores[i])
		}
		copy(scores, next)
		if delta < convergence {
			break
		}
	}
	return scores
}

// similarity is the TextRank word-overlap measure: shared token count
// normalized by the log lengths of both sentences.
func similarity(a, b []string) float64 {
	if len(a) < 2 || len(b) < 2 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, tok := range a {
		set[tok] = struct{}{}
	}
	shared := 0
	seen := make(map[string]struct{}, len(b))
	for _, tok := range b {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if _, ok := set[tok]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	return float64(shared) / (math.Log(float64(len(a))) + math.Log(float64(len(b))))
}

func splitSentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, err
	}
	var sentences []string
	for _, sent := range doc.Sentences() {
		if trimmed := strings.TrimSpace(sent.Text); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences, nil
}
