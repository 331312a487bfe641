package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"study-assistant/internal/embedding"
	"study-assistant/internal/index"
	"study-assistant/internal/models"
)

var chunks = []string{
	"The aqueduct carried water across the valley to the city reservoir.",
	"Roman engineers surveyed the terrain with simple leveling instruments.",
	"Arches allowed the structure to span wide ravines without collapsing.",
}

type stubGenerator struct {
	answer string
	err    error
	prompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func buildIndex(t *testing.T) *index.Index {
	t.Helper()
	ix := index.New(embedding.NewLocal())
	if err := ix.Build(context.Background(), chunks); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ix
}

func TestAnswerExtractiveReturnsTopChunk(t *testing.T) {
	ix := buildIndex(t)
	p := New(nil)

	answer, used, err := p.Answer(context.Background(), ix, "how was water carried to the city", 3)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if len(used) != 3 {
		t.Fatalf("got %d used chunks, want 3", len(used))
	}
	if answer != used[0].Text {
		t.Errorf("extractive answer %q is not the top chunk %q", answer, used[0].Text)
	}
}

func TestAnswerEmptyIndex(t *testing.T) {
	ix := index.New(embedding.NewLocal())
	p := New(nil)

	answer, used, err := p.Answer(context.Background(), ix, "anything", 3)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != models.NoAnswerFound {
		t.Errorf("got %q", answer)
	}
	if len(used) != 0 {
		t.Errorf("expected no used chunks, got %d", len(used))
	}
}

func TestAnswerUsesGenerator(t *testing.T) {
	ix := buildIndex(t)
	gen := &stubGenerator{answer: "  Water flowed by gravity.  "}
	p := New(gen)

	answer, used, err := p.Answer(context.Background(), ix, "how did the water move", 2)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "Water flowed by gravity." {
		t.Errorf("got %q", answer)
	}
	if len(used) != 2 {
		t.Errorf("got %d used chunks, want 2", len(used))
	}
	if !strings.Contains(gen.prompt, "QUESTION: how did the water move") {
		t.Errorf("prompt missing question: %q", gen.prompt)
	}
	for _, u := range used {
		if !strings.Contains(gen.prompt, u.Text) {
			t.Errorf("prompt missing retrieved chunk %d", u.Idx)
		}
	}
}

func TestAnswerGenerationFailureFallsBack(t *testing.T) {
	ix := buildIndex(t)
	p := New(&stubGenerator{err: errors.New("service unavailable")})

	answer, used, err := p.Answer(context.Background(), ix, "span wide ravines", 3)
	if err != nil {
		t.Fatalf("generation failure must not surface as error, got %v", err)
	}
	if !strings.HasPrefix(answer, "(generation failed:") {
		t.Errorf("missing failure note: %q", answer)
	}
	if !strings.Contains(answer, used[0].Text) {
		t.Errorf("fallback answer does not contain top chunk: %q", answer)
	}
	if len(used) != 3 {
		t.Errorf("used chunks must be reported on the fallback path, got %d", len(used))
	}
}

func TestAnswerUsedChunksSorted(t *testing.T) {
	ix := buildIndex(t)
	p := New(nil)

	_, used, err := p.Answer(context.Background(), ix, "roman engineers surveyed terrain", 3)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	for i := 1; i < len(used); i++ {
		if used[i].Score > used[i-1].Score {
			t.Errorf("used chunks not ranked: %f > %f", used[i].Score, used[i-1].Score)
		}
	}
}
