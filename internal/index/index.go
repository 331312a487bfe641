// Package index wraps a chromem-go collection holding one vector per chunk
// of the current document.
package index

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"study-assistant/internal/embedding"
)

const collectionName = "document_chunks"

// Result is one nearest-neighbor hit, ranked by cosine similarity.
type Result struct {
	ChunkIndex int
	Score      float32
	Text       string
}

// Index encodes chunks and answers nearest-neighbor queries. Build fully
// replaces prior state; there is no incremental update.
type Index struct {
	embedder   embedding.Embedder
	db         *chromem.DB
	collection *chromem.Collection
	size       int
}

func New(embedder embedding.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Build encodes every chunk in order and stores the vectors in a fresh
// in-memory collection.
func (ix *Index) Build(ctx context.Context, chunks []string) error {
	if fitter, ok := ix.embedder.(embedding.Fitter); ok {
		if err := fitter.Fit(chunks); err != nil {
			return fmt.Errorf("fitting embedder: %v", err)
		}
	}

	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create collection: %v", err)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := ix.embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embedding chunk %d: %v", i, err)
		}
		docs = append(docs, chromem.Document{
			ID:        strconv.Itoa(i),
			Content:   chunk,
			Metadata:  map[string]string{"chunk_index": strconv.Itoa(i)},
			Embedding: vec,
		})
	}
	if len(docs) > 0 {
		if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return fmt.Errorf("failed to add documents: %v", err)
		}
	}

	ix.db = db
	ix.collection = collection
	ix.size = len(chunks)
	return nil
}

// Size reports how many chunks the index holds.
func (ix *Index) Size() int {
	return ix.size
}

// Query returns up to topK chunks ranked by descending cosine similarity to
// the query text.
func (ix *Index) Query(ctx context.Context, text string, topK int) ([]Result, error) {
	n := min(topK, ix.size)
	if n <= 0 {
		return nil, nil
	}

	vec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %v", err)
	}

	hits, err := ix.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vec,
		NResults:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		idx, err := strconv.Atoi(hit.ID)
		if err != nil {
			return nil, fmt.Errorf("unexpected document id %q: %v", hit.ID, err)
		}
		results = append(results, Result{
			ChunkIndex: idx,
			Score:      hit.Similarity,
			Text:       hit.Content,
		})
	}
	return results, nil
}
