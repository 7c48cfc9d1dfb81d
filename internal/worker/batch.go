package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/sentinel/internal/model"
)

// Analyzer analyzes one contract file
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*model.DocumentAnalysis, error)
}

// DocJob analyzes the document at Path
type DocJob struct {
	Index    int
	Path     string
	Analyzer Analyzer
	Limiter  *Limiter
}

// Execute executes the document job
func (j *DocJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, "batch"); err != nil {
			return &DocResult{Index: j.Index, Path: j.Path, Error: err}
		}
	}

	analysis, err := j.Analyzer.AnalyzeFile(ctx, j.Path)
	if err != nil {
		return &DocResult{Index: j.Index, Path: j.Path, Error: err}
	}
	return &DocResult{Index: j.Index, Path: j.Path, Analysis: analysis}
}

// DocResult is the outcome of one document job
type DocResult struct {
	Index    int
	Path     string
	Analysis *model.DocumentAnalysis
	Error    error
}

// GetError returns the error from the document result
func (r *DocResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple documents concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. When requestsPerSecond is
// positive, document starts are throttled to that rate.
func NewBatchProcessor(analyzer Analyzer, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	b := &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
	if requestsPerSecond > 0 {
		b.limiter = NewLimiter(requestsPerSecond, burst)
	}
	return b
}

// ProcessPaths analyzes every path and returns results in input order
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*DocResult {
	if len(paths) == 0 {
		return []*DocResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for i, path := range paths {
		pool.Submit(&DocJob{
			Index:    i,
			Path:     path,
			Analyzer: b.analyzer,
			Limiter:  b.limiter,
		})
	}

	results := pool.Wait()

	// Jobs dropped by cancellation still get a result slot
	docResults := make([]*DocResult, len(paths))
	for _, result := range results {
		r := result.(*DocResult)
		docResults[r.Index] = r
	}
	for i, r := range docResults {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("document %s was not processed", paths[i])
			}
			docResults[i] = &DocResult{Index: i, Path: paths[i], Error: err}
		}
	}

	return docResults
}

// ProcessTarget analyzes a directory of contracts or a list file of paths
func (b *BatchProcessor) ProcessTarget(ctx context.Context, target string, exts []string) ([]*DocResult, error) {
	paths, err := ResolveTarget(target, exts)
	if err != nil {
		return nil, err
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ResolveTarget expands target into document paths. A directory is walked
// for files with one of exts; any other file is read as a path list.
func ResolveTarget(target string, exts []string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat target: %w", err)
	}
	if info.IsDir() {
		return CollectPaths(target, exts)
	}
	return ReadPathsFromFile(target)
}

// CollectPaths walks root and returns files with one of exts, sorted
func CollectPaths(root string, exts []string) ([]string, error) {
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if allowed[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadPathsFromFile reads document paths from a file (one per line).
// Relative paths resolve against the list file's directory.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
