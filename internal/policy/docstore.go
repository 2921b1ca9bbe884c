package policy

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"creditdesk/pkg/errors"
)

// DocStore is a directory-backed Retriever. It loads .md/.txt policy
// circulars once at construction, splits them into paragraph chunks and
// ranks chunks by query-term overlap. It stands in for a heavier retrieval
// collaborator behind the same interface.
type DocStore struct {
	chunks []docChunk
}

type docChunk struct {
	content string
	source  string
	terms   map[string]int
}

// NewDocStore loads every .md and .txt file under dir. An empty or missing
// directory is not an error: the store simply retrieves nothing.
func NewDocStore(dir string) (*DocStore, error) {
	store := &DocStore{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, errors.Wrap(err, "read policy docs dir")
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".md" && ext != ".txt" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrap(err, "read policy doc")
		}
		store.addDocument(entry.Name(), string(data))
	}

	return store, nil
}

func (s *DocStore) addDocument(source, text string) {
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) < 40 {
			continue
		}
		s.chunks = append(s.chunks, docChunk{
			content: para,
			source:  source,
			terms:   termFrequency(para),
		})
	}
}

// Retrieve ranks chunks against the query and returns the topK best,
// dropping chunks with no term overlap at all.
func (s *DocStore) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.chunks) == 0 || topK <= 0 {
		return nil, nil
	}

	queryTerms := termFrequency(query)

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(s.chunks))
	for i, chunk := range s.chunks {
		overlap := 0
		for term := range queryTerms {
			overlap += chunk.terms[term]
		}
		if overlap == 0 {
			continue
		}
		ranked = append(ranked, scored{idx: i, score: float64(overlap)})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	passages := make([]Passage, 0, len(ranked))
	for _, r := range ranked {
		chunk := s.chunks[r.idx]
		passages = append(passages, Passage{
			Content: chunk.content,
			Source:  chunk.source,
			Score:   r.score,
		})
	}
	return passages, nil
}

func termFrequency(text string) map[string]int {
	freq := make(map[string]int)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		term := strings.Trim(field, ".,;:()[]{}%\"'")
		if len(term) < 3 {
			continue
		}
		freq[term]++
	}
	return freq
}
