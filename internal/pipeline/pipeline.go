// Package pipeline runs a contract through extraction, segmentation,
// per-clause analysis and document aggregation.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/sentinel/internal/cache"
	"github.com/ppiankov/sentinel/internal/deviation"
	"github.com/ppiankov/sentinel/internal/explain"
	"github.com/ppiankov/sentinel/internal/extract"
	"github.com/ppiankov/sentinel/internal/law"
	"github.com/ppiankov/sentinel/internal/llm"
	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/rules"
	"github.com/ppiankov/sentinel/internal/score"
	"github.com/ppiankov/sentinel/internal/segment"
	"github.com/ppiankov/sentinel/internal/verify"
	"github.com/ppiankov/sentinel/internal/worker"
)

// retrievalMemoTTL bounds how long a clause-to-law lookup is remembered
const retrievalMemoTTL = time.Hour

// Advisor produces the optional document-level explanation
type Advisor interface {
	Advise(ctx context.Context, analysis *model.DocumentAnalysis) *model.AIExplanation
}

// Pipeline orchestrates the complete analysis of one document.
// It is safe for concurrent use once built.
type Pipeline struct {
	config    *model.Config
	rules     *rules.RuleSet
	standard  model.FairnessStandard
	catalog   *law.Catalog
	segmenter *segment.Segmenter
	verifier  *verify.Engine
	deviation *deviation.Engine
	scorer    *score.Scorer
	composer  *explain.Composer
	retriever law.Retriever
	advisor   Advisor     // nil when disabled
	cache     cache.Cache // nil when disabled
	refHash   string      // Fingerprint of rules and standard, part of cache keys
	logger    *slog.Logger
	now       func() time.Time
}

type options struct {
	retriever  law.Retriever
	advisor    Advisor
	advisorSet bool
	cache      cache.Cache
	cacheSet   bool
	rules      *rules.RuleSet
	logger     *slog.Logger
	now        func() time.Time
}

// Option customizes a Pipeline
type Option func(*options)

// WithRetriever replaces the lexical law retriever
func WithRetriever(r law.Retriever) Option {
	return func(o *options) { o.retriever = r }
}

// WithAdvisor replaces the configured LLM advisor. Nil disables it.
func WithAdvisor(a Advisor) Option {
	return func(o *options) { o.advisor, o.advisorSet = a, true }
}

// WithCache replaces the analysis cache. Nil disables caching.
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache, o.cacheSet = c, true }
}

// WithRuleSet replaces the rule set named in the configuration
func WithRuleSet(rs *rules.RuleSet) Option {
	return func(o *options) { o.rules = rs }
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the time source for AnalyzedAt
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New builds a pipeline from configuration. Missing or invalid fairness and
// law files fall back to the defaults with a warning. An invalid rule file
// is an error.
func New(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline{
		config: cfg,
		logger: o.logger,
		now:    o.now,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.now == nil {
		p.now = func() time.Time { return time.Now().UTC() }
	}

	// 1. Rules
	p.rules = o.rules
	if p.rules == nil {
		rs, err := rules.Load(cfg.Analysis.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		p.rules = rs
	} else if err := p.rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	// 2. Reference data, degrading to the defaults
	standard, err := rules.LoadFairStandard(cfg.Analysis.FairStandardPath)
	if err != nil {
		p.logger.Warn("using default fairness standard", "err", err)
	}
	p.standard = standard

	catalog, err := law.LoadCatalog(cfg.Analysis.LawsPath)
	if err != nil {
		p.logger.Warn("using default law catalog", "err", err)
	}
	p.catalog = catalog

	// 3. Engines
	seg, err := segment.New(p.rules.Segmentation)
	if err != nil {
		return nil, fmt.Errorf("build segmenter: %w", err)
	}
	p.segmenter = seg
	p.verifier = verify.NewEngine(p.rules)
	p.deviation = deviation.NewEngine(p.rules, p.standard)
	p.scorer = score.NewScorer(p.rules)
	p.composer = explain.NewComposer(p.rules)
	p.refHash = referenceHash(p.rules, p.standard)

	// 4. Collaborators
	p.retriever = o.retriever
	if p.retriever == nil {
		memo := cache.NewMemoryCache(retrievalMemoTTL, 10*time.Minute)
		p.retriever = law.NewLexicalRetriever(p.catalog, law.WithMemo(memo, retrievalMemoTTL))
	}

	if o.cacheSet {
		p.cache = o.cache
	} else if cfg.Cache.Enabled {
		p.cache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	if o.advisorSet {
		p.advisor = o.advisor
	} else if cfg.LLM.Provider != "" {
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			// The rule-based analysis stands on its own
			p.logger.Warn("LLM advisor disabled", "provider", cfg.LLM.Provider, "err", err)
		} else if provider != nil {
			limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
			p.advisor = llm.NewAdvisor(provider, limiter)
		}
	}

	return p, nil
}

// RuleSet returns the rule set in use
func (p *Pipeline) RuleSet() *rules.RuleSet {
	return p.rules
}

// FairStandard returns the fairness standard in use
func (p *Pipeline) FairStandard() model.FairnessStandard {
	return p.standard
}

// Catalog returns the law catalog in use
func (p *Pipeline) Catalog() *law.Catalog {
	return p.catalog
}

// AdvisorEnabled reports whether an LLM advisor is configured
func (p *Pipeline) AdvisorEnabled() bool {
	return p.advisor != nil
}

// AnalyzeFile reads and analyzes the contract at path
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.DocumentAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.AnalyzeBytes(ctx, filepath.Base(path), data)
}

// AnalyzeBytes extracts text from an uploaded file and analyzes it.
// The extension of filename selects the extractor.
func (p *Pipeline) AnalyzeBytes(ctx context.Context, filename string, data []byte) (*model.DocumentAnalysis, error) {
	ext := filepath.Ext(filename)
	if !extract.IsSupported(ext) {
		return nil, &InputError{Reason: "Unsupported file type", Err: extract.ErrUnsupportedFormat}
	}

	text, err := extract.Extract(data, ext)
	if err != nil {
		return nil, &InputError{Reason: "Could not read file", Err: err}
	}

	return p.AnalyzeText(ctx, extract.SanitizeFilename(filename), text)
}

// AnalyzeText analyzes already extracted contract text
func (p *Pipeline) AnalyzeText(ctx context.Context, filename, text string) (*model.DocumentAnalysis, error) {
	if err := extract.Validate(text, p.config.Analysis.MinTextChars); err != nil {
		return nil, &InputError{Reason: "Insufficient text extracted", Err: err}
	}

	docID := uuid.NewString()
	hash := extract.HashText(text)

	// 1. Rule-based analysis, possibly cached
	analysis, cached := p.lookup(hash)
	if !cached {
		var err error
		analysis, err = p.analyze(ctx, docID, text)
		if err != nil {
			return nil, err
		}
		analysis.SourceHash = hash
		p.store(hash, analysis)
	}

	analysis.ID = docID
	analysis.Filename = filename
	analysis.AnalyzedAt = p.now()

	// 2. AI explanation after scoring, never affecting it
	if p.advisor != nil {
		analysis.AI = p.advisor.Advise(ctx, analysis)
		if analysis.AI != nil && analysis.AI.Error != "" {
			p.logger.Warn("AI explanation unavailable", "doc_id", docID, "err", analysis.AI.Error)
		}
	}

	return analysis, nil
}

func (p *Pipeline) analyze(ctx context.Context, docID, text string) (*model.DocumentAnalysis, error) {
	seg := p.segmenter.Split(text)
	if len(seg.Clauses) == 0 {
		return nil, &InputError{Reason: "No clauses found", Err: ErrNoClauses}
	}

	clauses, err := p.analyzeClauses(ctx, docID, seg.Clauses)
	if err != nil {
		return nil, err
	}

	scores := make([]model.RiskScore, len(clauses))
	for i, c := range clauses {
		scores[i] = c.Risk
	}
	risk := p.scorer.Aggregate(scores)

	return &model.DocumentAnalysis{
		RuleSetVersion: p.rules.Version,
		Segmentation:   seg.Strategy,
		Clauses:        clauses,
		Risk:           risk,
		Summary:        explain.SummarizeContract(clauses, risk),
		Principles:     model.DefaultPrinciples(),
	}, nil
}

// clauseResult is the outcome of one clause job
type clauseResult struct {
	analysis model.ClauseAnalysis
	err      error
}

func (r *clauseResult) GetError() error {
	return r.err
}

// analyzeClauses fans clauses out over the worker pool and returns them in
// document order
func (p *Pipeline) analyzeClauses(ctx context.Context, docID string, clauses []model.Clause) ([]model.ClauseAnalysis, error) {
	pool := worker.NewPoolWithContext(ctx, p.config.Concurrency.ClauseWorkers)
	pool.Start()

	for _, c := range clauses {
		clause := c
		pool.Submit(worker.JobFunc(func(ctx context.Context) worker.Result {
			return p.clauseJob(ctx, docID, clause)
		}))
	}

	results := pool.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(results) != len(clauses) {
		return nil, fmt.Errorf("%w: document %s: %d of %d clauses completed", ErrInternal, docID, len(results), len(clauses))
	}

	out := make([]model.ClauseAnalysis, 0, len(results))
	var errs []error
	for _, res := range results {
		r := res.(*clauseResult)
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		out = append(out, r.analysis)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// clauseJob analyzes one clause, turning a panic into ErrInternal
func (p *Pipeline) clauseJob(ctx context.Context, docID string, clause model.Clause) (res worker.Result) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("clause analysis panicked", "doc_id", docID, "clause", clause.Index, "panic", r)
			res = &clauseResult{err: fmt.Errorf("%w: document %s clause %d: %v", ErrInternal, docID, clause.Index, r)}
		}
	}()

	return &clauseResult{analysis: p.AnalyzeClause(ctx, clause)}
}

// AnalyzeClause runs retrieval, verification, deviation, scoring and
// explanation for a single clause
func (p *Pipeline) AnalyzeClause(ctx context.Context, clause model.Clause) model.ClauseAnalysis {
	relevant, err := p.retriever.FindRelevantLaw(ctx, clause.Text)
	if err != nil {
		p.logger.Warn("law retrieval failed", "clause", clause.Index, "err", err)
		relevant = nil
	}

	check := p.verifier.Verify(clause.Text, relevant)
	dev := p.deviation.Check(clause.Text)

	return model.ClauseAnalysis{
		Clause:      clause,
		RelevantLaw: relevant,
		LegalCheck:  check,
		Deviation:   dev,
		Risk:        p.scorer.Score(check, dev),
		Explanation: p.composer.Compose(clause.Text, check, relevant),
	}
}

func (p *Pipeline) cacheKey(hash string) string {
	return cache.CacheKey("analysis", p.rules.Version, p.standard.Name, p.refHash, hash)
}

// referenceHash fingerprints every rule and standard value that can change a score
func referenceHash(rs *rules.RuleSet, std model.FairnessStandard) string {
	ruleData, err := yaml.Marshal(rs)
	if err != nil {
		ruleData = []byte(rs.Version)
	}
	stdData, err := json.Marshal(std)
	if err != nil {
		stdData = []byte(std.Name)
	}
	return extract.HashText(string(ruleData) + "\x00" + string(stdData))
}

func (p *Pipeline) lookup(hash string) (*model.DocumentAnalysis, bool) {
	if p.cache == nil {
		return nil, false
	}
	var analysis model.DocumentAnalysis
	if !cache.GetJSON(p.cache, p.cacheKey(hash), &analysis) {
		return nil, false
	}
	return &analysis, true
}

func (p *Pipeline) store(hash string, analysis *model.DocumentAnalysis) {
	if p.cache == nil {
		return
	}
	if err := cache.SetJSON(p.cache, p.cacheKey(hash), analysis, p.config.Cache.DiskTTL); err != nil {
		p.logger.Warn("analysis cache write failed", "err", err)
	}
}
