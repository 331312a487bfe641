// Package chunker splits extracted text into overlapping word windows used
// as the unit of semantic retrieval.
package chunker

import (
	"fmt"
	"strings"
)

// Chunk splits text into windows of size words, each overlapping the
// previous window by overlap words. The last partial window is kept when
// non-empty. A non-positive stride (overlap >= size) is rejected rather
// than clamped.
func Chunk(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", overlap, size)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	stride := size - overlap
	var chunks []string
	for i := 0; i < len(words); i += stride {
		end := min(i+size, len(words))
		chunk := strings.TrimSpace(strings.Join(words[i:end], " "))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}
