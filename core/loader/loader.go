// Package loader enumerates and reads the C++ source files of one or more root directories.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/huangsam/docscope/schema"
)

// ValidateGlobs checks every exclude pattern before any file is read.
func ValidateGlobs(globs []string) error {
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return schema.NewConfigError("exclude", "malformed glob %q", g)
		}
	}
	return nil
}

// Excluded reports whether a slash-separated root-relative path matches any glob.
// A glob also matches when anchored at any depth, so "*/test/*" excludes
// "source/processes/test/foo.cc".
func Excluded(relPath string, globs []string) bool {
	for _, g := range globs {
		for _, p := range globVariants(g) {
			if ok, err := doublestar.Match(p, relPath); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func globVariants(g string) []string {
	g = strings.TrimPrefix(g, "./")
	variants := []string{g}
	if !strings.HasPrefix(g, "**/") {
		variants = append(variants, "**/"+g)
	}
	if !strings.HasSuffix(g, "/**") {
		variants = append(variants, g+"/**")
		if !strings.HasPrefix(g, "**/") {
			variants = append(variants, "**/"+g+"/**")
		}
	}
	// "*/test/*" also excludes a top-level test/ directory under the root
	if rest, ok := strings.CutPrefix(g, "*/"); ok && rest != "" {
		variants = append(variants, rest)
		if !strings.HasSuffix(rest, "/**") {
			variants = append(variants, rest+"/**")
		}
	}
	return variants
}

// ModuleOf returns the module of a root-relative path: the segment after
// sourceDir when it is set, otherwise the first directory segment.
func ModuleOf(relPath, sourceDir string) string {
	segs := strings.Split(relPath, "/")
	dirs := segs[:len(segs)-1]
	if sourceDir == "" {
		if len(dirs) == 0 || dirs[0] == "" {
			return schema.OtherModule
		}
		return dirs[0]
	}
	for i, s := range dirs {
		if s == sourceDir && i+1 < len(dirs) {
			return dirs[i+1]
		}
	}
	return schema.OtherModule
}

// Enumerate walks each root and returns the files selected by opts, sorted by relative path.
func Enumerate(ctx context.Context, roots []string, opts schema.LoadOptions) ([]schema.SourceRef, error) {
	refs, _, err := enumerate(ctx, roots, opts)
	return refs, err
}

func enumerate(ctx context.Context, roots []string, opts schema.LoadOptions) ([]schema.SourceRef, []schema.AnalysisFailure, error) {
	if len(roots) == 0 {
		return nil, nil, schema.NewConfigError("root", "at least one root directory is required")
	}
	if err := ValidateGlobs(opts.Exclude); err != nil {
		return nil, nil, err
	}
	absRoots := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, nil, &schema.ConfigurationError{Field: "root", Err: fmt.Errorf("%s: %w", root, err)}
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return nil, nil, &schema.ConfigurationError{Field: "root", Err: fmt.Errorf("%s: %w", root, schema.ErrRootNotFound)}
		}
		absRoots = append(absRoots, abs)
	}

	exts := make(map[string]struct{}, len(opts.IncludeExt))
	for _, e := range opts.IncludeExt {
		exts[strings.ToLower(e)] = struct{}{}
	}

	seen := make(map[string]struct{})
	var refs []schema.SourceRef
	var warnings []schema.AnalysisFailure
	for _, root := range absRoots {
		prefix := ""
		if len(absRoots) > 1 {
			prefix = filepath.Base(root) + "/"
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if path == root {
					return err
				}
				warnings = append(warnings, schema.AnalysisFailure{
					Path:    path,
					Kind:    schema.ReadFailure,
					Message: err.Error(),
				})
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := exts[strings.ToLower(filepath.Ext(path))]; !ok {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if Excluded(rel, opts.Exclude) {
				return nil
			}
			if _, dup := seen[path]; dup {
				return nil
			}
			seen[path] = struct{}{}
			refs = append(refs, schema.SourceRef{
				Path:    path,
				RelPath: prefix + rel,
				Module:  ModuleOf(rel, opts.SourceDir),
			})
			return nil
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, nil, err
			}
			return nil, nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].RelPath < refs[j].RelPath })
	return refs, warnings, nil
}

// Read loads one file. Content that is not valid UTF-8 is repaired;
// content containing NUL bytes is rejected as binary.
func Read(ref schema.SourceRef) (schema.SourceFile, error) {
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return schema.SourceFile{}, &schema.FileReadError{Path: ref.RelPath, Err: err}
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return schema.SourceFile{}, &schema.FileReadError{Path: ref.RelPath, Err: schema.ErrBinaryContent}
	}
	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, string(utf8.RuneError))
	}
	return FromContent(ref, content), nil
}

// FromContent builds a SourceFile from in-memory content.
func FromContent(ref schema.SourceRef, content string) schema.SourceFile {
	return schema.SourceFile{
		Path:      ref.Path,
		RelPath:   ref.RelPath,
		Module:    ref.Module,
		Content:   content,
		LineCount: CountLines(content),
	}
}

// CountLines counts lines, including a final line without a newline.
func CountLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// Load enumerates and reads every selected file. Unreadable files are
// returned as warnings and never abort the load.
func Load(ctx context.Context, roots []string, opts schema.LoadOptions) ([]schema.SourceFile, []schema.AnalysisFailure, error) {
	refs, warnings, err := enumerate(ctx, roots, opts)
	if err != nil {
		return nil, nil, err
	}
	files := make([]schema.SourceFile, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		f, err := Read(ref)
		if err != nil {
			warnings = append(warnings, ReadWarning(ref, err))
			continue
		}
		files = append(files, f)
	}
	return files, warnings, nil
}

// ReadWarning converts a read failure into a diagnostics entry.
func ReadWarning(ref schema.SourceRef, err error) schema.AnalysisFailure {
	return schema.AnalysisFailure{
		Path:    ref.RelPath,
		Module:  ref.Module,
		Kind:    schema.ReadFailure,
		Message: err.Error(),
	}
}

// EnumerateWithWarnings is Enumerate that also returns unreadable directories as warnings.
func EnumerateWithWarnings(ctx context.Context, roots []string, opts schema.LoadOptions) ([]schema.SourceRef, []schema.AnalysisFailure, error) {
	return enumerate(ctx, roots, opts)
}
