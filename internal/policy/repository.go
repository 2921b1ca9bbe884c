package policy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"creditdesk/internal/domain"
	"creditdesk/pkg/cache"
	"creditdesk/pkg/errors"
	"creditdesk/pkg/logger"
)

// Passage is one ranked chunk returned by the retrieval collaborator.
type Passage struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// Retriever is the document-retrieval collaborator. Absence or failure is
// equivalent to "no override available".
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Passage, error)
}

// PatchCache caches extracted policy patches between calls. Implementations
// must be safe for concurrent use; cache errors are never fatal.
type PatchCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// FallbackCounter is notified every time retrieval degrades and the lookup
// falls back to the static table.
type FallbackCounter interface {
	IncrementRetrievalFallback()
}

// Repository resolves (bank, loan type) to an immutable Policy. The static
// table is the only guaranteed source; retrieval overrides are best-effort
// and bounded by a timeout.
type Repository struct {
	table     *Table
	retriever Retriever
	cache     PatchCache
	cacheTTL  time.Duration
	timeout   time.Duration
	topK      int
	fallbacks FallbackCounter
	log       logger.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithRetriever enables document enhancement.
func WithRetriever(r Retriever, timeout time.Duration, topK int) Option {
	return func(repo *Repository) {
		repo.retriever = r
		repo.timeout = timeout
		repo.topK = topK
	}
}

// WithPatchCache caches extracted patches, typically in Redis.
func WithPatchCache(c PatchCache, ttl time.Duration) Option {
	return func(repo *Repository) {
		repo.cache = c
		repo.cacheTTL = ttl
	}
}

// WithFallbackCounter reports retrieval degradations to a metrics counter.
func WithFallbackCounter(c FallbackCounter) Option {
	return func(repo *Repository) {
		repo.fallbacks = c
	}
}

func NewRepository(table *Table, log logger.Logger, opts ...Option) *Repository {
	repo := &Repository{
		table:   table,
		timeout: 2 * time.Second,
		topK:    3,
		log:     log,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// HasBank reports whether the bank is known to the baseline table.
func (r *Repository) HasBank(bank string) bool {
	return r.table.HasBank(bank)
}

// Banks lists the banks the repository can underwrite for.
func (r *Repository) Banks() []string {
	return r.table.Banks()
}

// Lookup resolves the policy for the pair. The merged record carries its
// provenance; retrieval degradation always falls back to the static record.
// A pair absent from the table can still resolve from documents alone.
func (r *Repository) Lookup(ctx context.Context, bank string, loanType domain.LoanType) (*Policy, error) {
	base, found := r.table.Get(bank, string(loanType))

	if r.retriever == nil {
		if !found {
			return nil, errors.ErrPolicyNotFound
		}
		return &base, nil
	}

	patch, ok := r.fetchPatch(ctx, bank, loanType)
	if !ok || patch.IsZero() {
		if !found {
			return nil, errors.ErrPolicyNotFound
		}
		return &base, nil
	}

	if !found {
		// No static baseline; the extracted fields stand alone and unset
		// fields resolve through the conservative defaults.
		standalone := patch.Apply(Policy{})
		standalone.Source = SourceRAGOnly
		r.log.Info("policy resolved from documents only", map[string]interface{}{
			"bank":      bank,
			"loan_type": loanType,
		})
		return &standalone, nil
	}

	merged := patch.Apply(base)
	merged.Source = SourceRAGEnhanced
	r.log.Debug("policy enhanced from documents", map[string]interface{}{
		"bank":      bank,
		"loan_type": loanType,
	})
	return &merged, nil
}

func (r *Repository) fetchPatch(ctx context.Context, bank string, loanType domain.LoanType) (Patch, bool) {
	key := patchCacheKey(bank, loanType)

	if r.cache != nil {
		var cached Patch
		if err := r.cache.Get(ctx, key, &cached); err == nil {
			return cached, true
		} else if !errors.Is(err, cache.ErrMiss) {
			r.log.Warn("policy patch cache read failed", map[string]interface{}{"error": err.Error()})
		}
	}

	query := fmt.Sprintf("%s %s loan interest rate eligibility collateral tenure", bank, loanType)
	passages, err := r.retrieve(ctx, query)
	if err != nil {
		if r.fallbacks != nil {
			r.fallbacks.IncrementRetrievalFallback()
		}
		r.log.Warn("policy retrieval degraded, using static policy", map[string]interface{}{
			"bank":      bank,
			"loan_type": loanType,
			"error":     err.Error(),
		})
		return Patch{}, false
	}

	patch := ExtractPatch(passages, bank, loanType)

	if r.cache != nil && !patch.IsZero() {
		if err := r.cache.Set(ctx, key, patch, r.cacheTTL); err != nil {
			r.log.Warn("policy patch cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return patch, true
}

func (r *Repository) retrieve(ctx context.Context, query string) ([]Passage, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	passages, err := r.retriever.Retrieve(ctx, query, r.topK)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.ErrRetrievalTimeout
		}
		return nil, err
	}
	if len(passages) == 0 {
		return nil, errors.ErrNoPassages
	}
	return passages, nil
}

func patchCacheKey(bank string, loanType domain.LoanType) string {
	return "policy:patch:" + strings.ToLower(bank) + ":" + string(loanType)
}
