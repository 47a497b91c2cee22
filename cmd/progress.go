package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/schollz/progressbar/v3"
)

// barProgress renders per-file analysis progress on stderr.
type barProgress struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

var _ contract.ProgressReporter = &barProgress{} // Compile-time check

// newProgress returns a progress bar reporter when enabled, otherwise a no-op.
func newProgress(enabled bool) contract.ProgressReporter {
	if !enabled {
		return contract.NopProgress{}
	}
	return &barProgress{}
}

// Start implements contract.ProgressReporter.
func (p *barProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Analyzing[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(os.Stderr)
		}),
	)
}

// Advance implements contract.ProgressReporter.
func (p *barProgress) Advance(_ string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// Finish implements contract.ProgressReporter.
func (p *barProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
