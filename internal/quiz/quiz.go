// Package quiz builds fill-in-the-blank multiple-choice items from a
// document: pick a salient token per sentence, blank it out, and surround
// the answer with distractors drawn from the document's noun vocabulary.
package quiz

import (
	"math/rand"
	"regexp"
	"strings"
	"time"

	prose "github.com/jdkato/prose/v2"

	"study-assistant/internal/models"
)

const (
	minTokenLen      = 3
	optionCount      = 4
	distractorCount  = 3
	fallbackMinWords = 9
)

// tokenShape rejects punctuation-bearing candidates; hyphen and apostrophe
// are allowed inside a token.
var tokenShape = regexp.MustCompile(`^[A-Za-z0-9\-']+$`)

// Generator produces quizzes. Output depends on the injected random source,
// so a seeded source gives reproducible quizzes.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator with a fresh time-seeded random source.
func New() *Generator {
	return WithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

func WithRand(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

type sentenceInfo struct {
	text   string
	tokens []prose.Token
}

// Generate returns at most n quiz items. It degrades rather than fails:
// too few usable sentences means a shorter quiz, never an error.
func (g *Generator) Generate(text string, n int) ([]models.QuizItem, error) {
	if n <= 0 {
		return nil, nil
	}

	sentences, err := tagSentences(text)
	if err != nil {
		return nil, err
	}

	// candidate answer per sentence: first proper noun, numeral or common
	// noun that passes the shape filter
	type pair struct {
		sentence string
		answer   string
	}
	var candidates []pair
	for _, s := range sentences {
		if c := extractCandidate(s.tokens); c != "" {
			candidates = append(candidates, pair{sentence: s.text, answer: c})
		}
	}
	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	pool := distractorPool(sentences)

	var items []models.QuizItem
	used := make(map[string]struct{})
	for _, cand := range candidates {
		if len(items) >= n {
			break
		}
		key := strings.ToLower(cand.answer)
		if _, taken := used[key]; taken {
			continue
		}
		items = append(items, g.buildItem(cand.sentence, cand.answer, pool))
		used[key] = struct{}{}
	}

	// fallback pass: synthesize trivial completion items from long sentences
	for _, s := range sentences {
		if len(items) >= n {
			break
		}
		words := strings.Fields(s.text)
		if len(words) < fallbackMinWords {
			continue
		}
		answer := words[min(2, len(words)-1)]
		options := []string{answer, answer + "X", answer + "Y", answer + "Z"}
		g.rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
		items = append(items, models.QuizItem{
			Question:    "Complete: " + strings.Join(words[:6], " ") + " ...",
			Options:     options,
			AnswerIndex: indexOf(options, answer),
		})
	}

	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

func (g *Generator) buildItem(sentence, answer string, pool []string) models.QuizItem {
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var distractors []string
	for _, p := range shuffled {
		if len(distractors) >= distractorCount {
			break
		}
		if !strings.EqualFold(p, answer) {
			distractors = append(distractors, p)
		}
	}
	// not enough document vocabulary: pad with digit-suffixed variants of
	// the answer, kept distinct from one another
	for len(distractors) < distractorCount {
		d := answer + string(rune('1'+g.rng.Intn(9)))
		if !contains(distractors, d) {
			distractors = append(distractors, d)
		}
	}

	options := append([]string{answer}, distractors...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return models.QuizItem{
		Question:    blankFirst(sentence, answer),
		Options:     options,
		AnswerIndex: indexOf(options, answer),
	}
}

// extractCandidate scans tagged tokens in sentence order for the first
// proper noun (NNP/NNPS), numeral (CD) or common noun (NN) of usable shape.
func extractCandidate(tokens []prose.Token) string {
	for _, tok := range tokens {
		switch tok.Tag {
		case "NNP", "NNPS", "CD", "NN":
			if usableToken(tok.Text) {
				return tok.Text
			}
		}
	}
	return ""
}

// distractorPool gathers every distinct noun/numeral token across the text.
func distractorPool(sentences []sentenceInfo) []string {
	seen := make(map[string]struct{})
	var pool []string
	for _, s := range sentences {
		for _, tok := range s.tokens {
			if !strings.HasPrefix(tok.Tag, "NN") && tok.Tag != "CD" {
				continue
			}
			if !usableToken(tok.Text) {
				continue
			}
			if _, dup := seen[tok.Text]; dup {
				continue
			}
			seen[tok.Text] = struct{}{}
			pool = append(pool, tok.Text)
		}
	}
	return pool
}

func usableToken(text string) bool {
	return len(text) >= minTokenLen && tokenShape.MatchString(text)
}

// blankFirst replaces the first case-insensitive occurrence of answer in
// the sentence with the blank marker.
func blankFirst(sentence, answer string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(answer))
	loc := re.FindStringIndex(sentence)
	if loc == nil {
		return sentence
	}
	return sentence[:loc[0]] + models.BlankMarker + sentence[loc[1]:]
}

func tagSentences(text string) ([]sentenceInfo, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, err
	}

	var sentences []sentenceInfo
	for _, sent := range doc.Sentences() {
		trimmed := strings.TrimSpace(sent.Text)
		if trimmed == "" {
			continue
		}
		tagged, err := prose.NewDocument(trimmed,
			prose.WithSegmentation(false),
			prose.WithExtraction(false),
		)
		if err != nil {
			return nil, err
		}
		sentences = append(sentences, sentenceInfo{text: trimmed, tokens: tagged.Tokens()})
	}
	return sentences, nil
}

func indexOf(options []string, answer string) int {
	for i, opt := range options {
		if opt == answer {
			return i
		}
	}
	return 0
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
