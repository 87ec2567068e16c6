// -----------------------------------------------------------------------
// Pipeline Service - Extracts, chunks and persists documents end to end
// -----------------------------------------------------------------------

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/common"
	"github.com/ternarybob/scindo/internal/interfaces"
	"github.com/ternarybob/scindo/internal/models"
	"github.com/ternarybob/scindo/internal/services/chunker"
	"github.com/ternarybob/scindo/internal/services/extractor"
	"github.com/ternarybob/scindo/internal/services/splitter"
	"github.com/ternarybob/scindo/internal/services/tokenizer"
	"github.com/ternarybob/scindo/internal/services/transform"
)

// Options control where chunk output goes, whether chunks are filtered
// against the dedup index, and how many documents process in parallel.
type Options struct {
	OutputPath  string // explicit output file; honored for single-document runs
	OutputDir   string // directory for default-named outputs; empty writes beside the source
	NoSave      bool   // compute results without writing chunk files
	Dedupe      bool   // drop chunks whose content hash is already recorded
	Concurrency int    // parallel documents in a batch; values below 1 mean sequential
}

// Service runs the document chunking pipeline: extract pages, clean and
// split text, pack sentences into token-bounded windows, then enrich the
// records and persist them.
type Service struct {
	factory   *extractor.Factory
	transform *transform.Service
	splitter  *splitter.Service
	chunker   *chunker.Service
	counter   interfaces.TokenCounter
	index     interfaces.ChunkIndex
	options   Options
	logger    arbor.ILogger
}

// NewService wires the pipeline from chunker configuration. index may be
// nil when deduplication is disabled.
func NewService(config *chunker.Config, options Options, index interfaces.ChunkIndex, logger arbor.ILogger) (*Service, error) {
	counter, err := tokenizer.NewService(config.Encoding, logger)
	if err != nil {
		return nil, err
	}

	chunkerSvc, err := chunker.NewService(config, counter, logger)
	if err != nil {
		return nil, err
	}

	transformSvc := transform.NewService(logger)

	return &Service{
		factory:   extractor.NewFactory(transformSvc, logger),
		transform: transformSvc,
		splitter:  splitter.NewService(logger),
		chunker:   chunkerSvc,
		counter:   counter,
		index:     index,
		options:   options,
		logger:    logger,
	}, nil
}

// ProcessFile chunks a single document and returns its result. The
// result carries the enriched chunks even when saving is disabled.
func (s *Service) ProcessFile(ctx context.Context, path string) (*models.DocumentResult, error) {
	started := time.Now().UTC()

	ext, err := s.factory.ForFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := ext.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	facts := factsFor(path, doc)
	processedAt := time.Now().UTC()

	var drafts []draft
	dropped := 0
	for _, page := range doc.Pages {
		clean := s.transform.CleanText(page.Text)
		if clean == "" {
			continue
		}
		sentences := s.splitter.Split(clean)
		windows, pageDropped := s.chunker.PackPage(sentences)
		dropped += pageDropped
		for i, window := range windows {
			drafts = append(drafts, draft{
				window:     window,
				pageNumber: page.PageNumber,
				chunkIndex: i,
				hash:       models.ContentHash(window.Text),
			})
		}
	}

	deduplicated := 0
	if s.options.Dedupe && s.index != nil {
		drafts, deduplicated, err = s.dedupe(ctx, drafts, facts)
		if err != nil {
			return nil, err
		}
	}

	chunks := finalize(drafts, facts, doc.PageCount, processedAt)

	result := &models.DocumentResult{
		Source:       doc.Source,
		PageCount:    doc.PageCount,
		ChunkCount:   len(chunks),
		Dropped:      dropped,
		Deduplicated: deduplicated,
		StartedAt:    started,
		Chunks:       chunks,
	}
	for _, chunk := range chunks {
		result.TokenTotal += chunk.TokenCount
		if chunk.TokenCount > result.MaxTokens {
			result.MaxTokens = chunk.TokenCount
		}
	}
	if len(chunks) > 0 {
		result.MeanTokens = round2(float64(result.TokenTotal) / float64(len(chunks)))
	}

	if !s.options.NoSave {
		outputPath := s.outputPathFor(path)
		if err := writeChunks(outputPath, chunks); err != nil {
			return nil, err
		}
		result.OutputPath = outputPath
	}

	result.TotalMs = time.Since(started).Milliseconds()

	s.logger.Info().
		Str("source", facts.fileName).
		Int("pages", result.PageCount).
		Int("chunks", result.ChunkCount).
		Int("tokens", result.TokenTotal).
		Int64("total_ms", result.TotalMs).
		Msg("Document chunked")

	return result, nil
}

// ProcessFiles chunks each document independently, up to Concurrency
// documents at a time. One document failing does not stop the rest;
// failures land in the batch error map. Results keep input order.
func (s *Service) ProcessFiles(ctx context.Context, paths []string) *models.BatchResult {
	batch := &models.BatchResult{
		RunID:  common.NewRunID(),
		Errors: make(map[string]string),
	}

	workers := s.options.Concurrency
	if workers < 1 {
		workers = 1
	}

	type outcome struct {
		result *models.DocumentResult
		err    error
	}
	outcomes := make([]outcome, len(paths))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		common.SafeGo(s.logger, "process:"+filepath.Base(path), func() {
			defer wg.Done()
			defer func() { <-sem }()
			result, err := s.ProcessFile(ctx, path)
			outcomes[i] = outcome{result: result, err: err}
		})
	}
	wg.Wait()

	for i, o := range outcomes {
		path := paths[i]
		if o.err != nil {
			s.logger.Warn().Str("source", path).Err(o.err).Msg("Document failed")
			batch.Errors[path] = o.err.Error()
			batch.Failed++
			continue
		}
		if o.result == nil {
			batch.Errors[path] = "processing panicked"
			batch.Failed++
			continue
		}
		batch.Results = append(batch.Results, *o.result)
		batch.Documents++
		batch.Chunks += o.result.ChunkCount
	}

	s.logger.Info().
		Str("run_id", batch.RunID).
		Int("documents", batch.Documents).
		Int("failed", batch.Failed).
		Int("chunks", batch.Chunks).
		Msg("Batch complete")

	return batch
}

// dedupe drops drafts whose content hash is already indexed and records
// first sightings.
func (s *Service) dedupe(ctx context.Context, drafts []draft, facts sourceFacts) ([]draft, int, error) {
	kept := make([]draft, 0, len(drafts))
	removed := 0
	for _, d := range drafts {
		seen, err := s.index.Has(ctx, d.hash)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to check chunk index: %w", err)
		}
		if seen {
			removed++
			continue
		}
		entry := &interfaces.ChunkIndexEntry{
			ContentHash: d.hash,
			ChunkID:     models.ChunkID(facts.sourceName, d.pageNumber, d.chunkIndex),
			Source:      facts.sourcePath,
			FirstSeen:   time.Now().UTC(),
		}
		if err := s.index.Record(ctx, entry); err != nil {
			return nil, 0, fmt.Errorf("failed to record chunk hash: %w", err)
		}
		kept = append(kept, d)
	}
	return kept, removed, nil
}

// outputPathFor picks the chunk file location for source. An explicit
// OutputPath wins, then OutputDir, then the source's own directory.
func (s *Service) outputPathFor(source string) string {
	if s.options.OutputPath != "" {
		return s.options.OutputPath
	}
	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "_chunks.json"
	if s.options.OutputDir != "" {
		return filepath.Join(s.options.OutputDir, name)
	}
	return filepath.Join(filepath.Dir(source), name)
}
