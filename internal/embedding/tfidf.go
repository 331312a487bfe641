package embedding

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Local is a TF-IDF vectorizer fitted on the current document's chunks.
// It needs no external model service, which also keeps tests hermetic.
// Vectors are L2-normalized so cosine similarity reduces to a dot product.
type Local struct {
	vocabulary   map[string]int
	idf          []float64
	dimension    int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

func NewLocal() *Local {
	return &Local{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Fit builds the vocabulary and smoothed IDF values from the corpus. Any
// prior fit is discarded.
func (e *Local) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF fit")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus")
	}
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	return nil
}

func (e *Local) Embed(_ context.Context, text string) ([]float32, error) {
	if e.dimension == 0 {
		return nil, errors.New("TF-IDF embedder is not fitted")
	}
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	vec := make([]float64, e.dimension)
	if total == 0 {
		// no vocabulary overlap: a uniform vector keeps downstream cosine
		// math finite
		for i := range vec {
			vec[i] = 1
		}
	} else {
		for idx, count := range tf {
			tfv := float64(count) / float64(total)
			vec[idx] = tfv * e.idf[idx]
		}
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	out := make([]float32, e.dimension)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func (e *Local) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "being", "it", "this", "that", "these", "those",
		"from", "up", "down", "over", "under", "again", "further", "than",
		"so", "such", "into", "about", "between", "through", "during",
		"before", "after", "above", "below", "out", "off", "own", "same",
		"too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
