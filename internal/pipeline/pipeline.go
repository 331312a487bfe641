// Package pipeline answers questions over the current document: retrieve
// the closest chunks, then either delegate to an external generator or fall
// back to the best chunk verbatim.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"study-assistant/internal/generation"
	"study-assistant/internal/index"
	"study-assistant/internal/models"
)

type Pipeline struct {
	generator generation.Generator // nil means extractive-only
}

func New(generator generation.Generator) *Pipeline {
	return &Pipeline{generator: generator}
}

// Answer retrieves the topK chunks for the question and produces an answer.
// used chunks always report every retrieved chunk, whichever answer path is
// taken. Generation failures degrade to the top chunk, never to an error.
func (p *Pipeline) Answer(ctx context.Context, ix *index.Index, question string, topK int) (string, []models.UsedChunk, error) {
	results, err := ix.Query(ctx, question, topK)
	if err != nil {
		return "", nil, err
	}

	used := make([]models.UsedChunk, 0, len(results))
	contextTexts := make([]string, 0, len(results))
	for _, r := range results {
		used = append(used, models.UsedChunk{Idx: r.ChunkIndex, Score: r.Score, Text: r.Text})
		contextTexts = append(contextTexts, r.Text)
	}

	if len(contextTexts) == 0 {
		return models.NoAnswerFound, used, nil
	}

	if p.generator == nil {
		return contextTexts[0], used, nil
	}

	contextBlock := strings.Join(contextTexts, "\n\n")
	prompt := fmt.Sprintf(models.QAPromptTemplate, contextBlock, question)
	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Generation failed, falling back to extractive answer")
		return fmt.Sprintf("(generation failed: %v)\n\n%s", err, contextTexts[0]), used, nil
	}
	return strings.TrimSpace(answer), used, nil
}
