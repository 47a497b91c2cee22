package core

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/huangsam/docscope/core/algo"
	"github.com/huangsam/docscope/core/detect"
	"github.com/huangsam/docscope/schema"
)

// FileMetricsBuilder runs the detector stages over one file.
// A failed stage stops the chain and Build reports it as a *schema.DetectorError.
type FileMetricsBuilder struct {
	ctx    context.Context
	opts   schema.AnalysisOptions
	file   schema.SourceFile
	src    *detect.Source
	docs   detect.DocReport
	result *schema.FileMetrics
	err    error

	// stage is read by the timeout watcher while the chain runs
	stage atomic.Value
}

// NewFileMetricsBuilder is the starting point for building file metrics.
func NewFileMetricsBuilder(ctx context.Context, opts schema.AnalysisOptions, file schema.SourceFile) *FileMetricsBuilder {
	b := &FileMetricsBuilder{
		ctx:  ctx,
		opts: opts,
		file: file,
		result: &schema.FileMetrics{
			Path:      file.RelPath,
			Module:    file.Module,
			SizeBytes: len(file.Content),
			Lines:     file.LineCount,
		},
	}
	b.stage.Store("")
	return b
}

// Stage returns the detector that is running or last ran.
func (b *FileMetricsBuilder) Stage() string {
	s, _ := b.stage.Load().(string)
	return s
}

// enter records the stage and reports whether it should run.
func (b *FileMetricsBuilder) enter(stage string) bool {
	if b.err != nil {
		return false
	}
	b.stage.Store(stage)
	if err := b.ctx.Err(); err != nil {
		b.fail(err)
		return false
	}
	return true
}

func (b *FileMetricsBuilder) fail(err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = schema.ErrFileTimeout
	}
	b.err = &schema.DetectorError{Path: b.file.RelPath, Detector: b.Stage(), Err: err}
}

// Lex splits the file into code and comment text once for every later stage.
func (b *FileMetricsBuilder) Lex() *FileMetricsBuilder {
	if !b.enter(detect.LexerStage) {
		return b
	}
	b.src = detect.NewSource(b.file)
	b.result.CodeLines = b.src.CodeLines()
	return b
}

// DetectDocs finds documentable units and the tags documenting them.
func (b *FileMetricsBuilder) DetectDocs() *FileMetricsBuilder {
	if !b.enter(detect.DocsStage) {
		return b
	}
	b.docs = detect.DetectDocs(b.src)
	r := b.result
	r.Classes, r.DocumentedClasses = b.docs.Classes()
	r.Functions, r.DocumentedFunctions = b.docs.Functions()
	r.DocBlocks = b.docs.DocBlocks
	r.DocLines = b.docs.DocLines
	r.BriefCount = b.docs.Tags.Brief
	r.ParamCount = b.docs.Tags.Params
	r.ReturnCount = b.docs.Tags.Returns
	r.DocRatio = b.docs.DocRatio()
	if n := len(b.file.Content); n > 0 {
		r.DocToCodeRatio = float64(b.docs.DocChars) / float64(n)
	}
	return b
}

// EstimateComplexity measures control-flow density.
func (b *FileMetricsBuilder) EstimateComplexity() *FileMetricsBuilder {
	if !b.enter(detect.ComplexityStage) {
		return b
	}
	c := detect.EstimateComplexity(b.src, b.opts.Complexity)
	b.result.ComplexityKeywords = c.Keywords
	b.result.ComplexityDensity = c.Density
	b.result.ComplexityTier = c.Tier
	return b
}

// DetectMagicNumbers counts unexplained numeric literals.
func (b *FileMetricsBuilder) DetectMagicNumbers() *FileMetricsBuilder {
	if !b.enter(detect.MagicStage) {
		return b
	}
	m := detect.DetectMagicNumbers(b.src, b.opts.Magic)
	b.result.MagicNumbers = m.Count
	b.result.MagicFlagged = m.Flagged
	b.result.MagicSamples = m.Samples()
	return b
}

// EstimateAge buckets the file by the latest year in its comments.
func (b *FileMetricsBuilder) EstimateAge() *FileMetricsBuilder {
	if !b.enter(detect.AgeStage) {
		return b
	}
	a := detect.EstimateAge(b.src, b.opts.NowYear)
	b.result.AgeBucket = a.Bucket
	b.result.LatestYear = a.LatestYear
	return b
}

// ScanSmells counts markers, long functions and nesting depth.
func (b *FileMetricsBuilder) ScanSmells() *FileMetricsBuilder {
	if !b.enter(detect.SmellsStage) {
		return b
	}
	s, err := detect.ScanSmells(b.src, b.opts.Smells)
	if err != nil {
		b.fail(err)
		return b
	}
	b.result.Smells = s
	return b
}

// CalculateScore computes the documentation score and tier.
func (b *FileMetricsBuilder) CalculateScore() *FileMetricsBuilder {
	if !b.enter(detect.ScoreStage) {
		return b
	}
	res := algo.Score(algo.Input{
		DocRatio:       b.result.DocRatio,
		Tags:           b.docs.Tags,
		DocToCodeRatio: b.result.DocToCodeRatio,
		Cuts:           b.opts.Cuts,
	})
	b.result.DocScore = res.Score
	b.result.DocTier = res.Tier
	b.result.Breakdown = res.Breakdown
	if b.opts.Detail {
		b.result.Units = algo.ScoreUnits(b.docs.Units, b.opts.Cuts)
	}
	return b
}

// Build returns the final metrics, or the error of the stage that failed.
func (b *FileMetricsBuilder) Build() (schema.FileMetrics, error) {
	if b.err != nil {
		return schema.FileMetrics{}, b.err
	}
	return *b.result, nil
}
