package law

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/ppiankov/sentinel/internal/cache"
	"github.com/ppiankov/sentinel/internal/model"
)

// Retriever finds the law record most relevant to a clause. A nil record
// with a nil error means no provision matched.
type Retriever interface {
	FindRelevantLaw(ctx context.Context, text string) (*model.LawRecord, error)
}

type indexedLaw struct {
	record model.LawRecord
	tokens []string
}

// LexicalRetriever ranks catalog records by keyword overlap between the
// clause and each record's title and summary
type LexicalRetriever struct {
	index []indexedLaw
	memo  cache.Cache
	ttl   time.Duration
}

// RetrieverOption configures a LexicalRetriever
type RetrieverOption func(*LexicalRetriever)

// WithMemo memoizes lookups in c for ttl
func WithMemo(c cache.Cache, ttl time.Duration) RetrieverOption {
	return func(r *LexicalRetriever) {
		r.memo = c
		r.ttl = ttl
	}
}

// NewLexicalRetriever indexes every catalog record
func NewLexicalRetriever(catalog *Catalog, opts ...RetrieverOption) *LexicalRetriever {
	r := &LexicalRetriever{}
	for _, rec := range catalog.All() {
		r.index = append(r.index, indexedLaw{
			record: rec,
			tokens: tokenize(rec.Title + ". " + rec.Summary),
		})
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// memoEntry distinguishes a cached "no match" from a cache miss
type memoEntry struct {
	Law *model.LawRecord `json:"law"`
}

// FindRelevantLaw returns the best-matching record, or nil when the clause
// shares no keyword with any record
func (r *LexicalRetriever) FindRelevantLaw(ctx context.Context, text string) (*model.LawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var key string
	if r.memo != nil {
		key = cache.CacheKey("law", text)
		var entry memoEntry
		if cache.GetJSON(r.memo, key, &entry) {
			return entry.Law, nil
		}
	}

	var best *model.LawRecord
	if ranked := r.rank(text, 1); len(ranked) > 0 {
		best = &ranked[0]
	}

	if r.memo != nil {
		_ = cache.SetJSON(r.memo, key, memoEntry{Law: best}, r.ttl)
	}
	return best, nil
}

// FindRelevantLaws returns up to k matching records, best first
func (r *LexicalRetriever) FindRelevantLaws(ctx context.Context, text string, k int) ([]model.LawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.rank(text, k), nil
}

type scoredLaw struct {
	pos    int
	score  float64
	shared int
}

func (r *LexicalRetriever) rank(text string, k int) []model.LawRecord {
	if k <= 0 {
		return nil
	}
	query := tokenize(text)
	if len(query) == 0 {
		return nil
	}

	var scored []scoredLaw
	for i, law := range r.index {
		score, shared := jaccard(query, law.tokens)
		if shared == 0 {
			continue
		}
		scored = append(scored, scoredLaw{pos: i, score: score, shared: shared})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].shared > scored[j].shared
	})
	if len(scored) > k {
		scored = scored[:k]
	}

	out := make([]model.LawRecord, len(scored))
	for i, s := range scored {
		rec := r.index[s.pos].record
		relevance := math.Round(s.score*10000) / 10000
		rec.RelevanceScore = &relevance
		out[i] = rec
	}
	return out
}
