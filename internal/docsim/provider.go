package docsim

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tradewatch/ipscreen/internal/catalog"
)

// Score is one ranked reference document match.
type Score struct {
	RefID    string  `json:"ref_id"`   // display identifier of the matched reference
	Category string  `json:"category"` // inferred category of the reference document
	Score    float64 `json:"score"`
	Snippet  string  `json:"snippet,omitempty"`
}

// Provider returns a ranked list of reference matches for a document's text.
// Implementations must rank best-first.
type Provider interface {
	Rank(ctx context.Context, text string, topN int) ([]Score, error)
}

// TFIDFProvider ranks against the reference descriptions with TF-IDF weights
// and cosine similarity.
type TFIDFProvider struct {
	refs []catalog.RefDescription
}

// NewTFIDFProvider creates a provider over the reference corpus.
func NewTFIDFProvider(refs []catalog.RefDescription) *TFIDFProvider {
	return &TFIDFProvider{refs: refs}
}

const snippetLen = 300

// Rank vectorizes the query together with the corpus and returns the topN
// references by cosine similarity, best first. Ties keep corpus order, so
// ranking is deterministic. Empty text or an empty corpus yields no scores.
func (p *TFIDFProvider) Rank(_ context.Context, text string, topN int) ([]Score, error) {
	if strings.TrimSpace(text) == "" || len(p.refs) == 0 {
		return nil, nil
	}

	docs := make([]string, 0, len(p.refs)+1)
	docs = append(docs, text)
	for _, ref := range p.refs {
		docs = append(docs, ref.Description)
	}
	vectors := tfidfVectors(docs)

	query := vectors[0]
	scores := make([]Score, 0, len(p.refs))
	for i, ref := range p.refs {
		snippet := ref.Description
		if len(snippet) > snippetLen {
			snippet = snippet[:snippetLen]
		}
		scores = append(scores, Score{
			RefID:    fmt.Sprintf("%s (Row %d)", ref.Product, i+1),
			Category: ref.Product,
			Score:    cosine(query, vectors[i+1]),
			Snippet:  strings.ReplaceAll(snippet, "\n", " "),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if topN > 0 && topN < len(scores) {
		scores = scores[:topN]
	}
	return scores, nil
}
