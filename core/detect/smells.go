package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/huangsam/docscope/schema"
)

var (
	// functionHeadPattern matches text before '{' that closes a parameter list,
	// optionally followed by qualifiers or a trailing return type.
	functionHeadPattern = regexp.MustCompile(`\)\s*(?:(?:const|volatile|override|final|noexcept|mutable|&&|&|try)\s*|noexcept\s*\([^)]*\)\s*|->\s*[\w:<>,*&\s]+)*$`)

	lambdaPattern = regexp.MustCompile(`(?:=|\(|,|return)\s*\[[^\]]*\]`)
)

// controlWords open blocks that are never function bodies.
var controlWords = map[string]struct{}{
	"if": {}, "else": {}, "for": {}, "while": {}, "do": {}, "switch": {}, "catch": {}, "try": {},
	"namespace": {}, "class": {}, "struct": {}, "enum": {}, "union": {}, "extern": {},
}

// braceFrame is one open brace on the nesting stack.
type braceFrame struct {
	line     int
	function bool
}

// ScanSmells counts comment markers and measures function length and brace nesting.
func ScanSmells(src *Source, opts schema.SmellOptions) (schema.SmellCounts, error) {
	counts := schema.SmellCounts{}
	for _, line := range src.Lines {
		if line.Comment == "" {
			continue
		}
		counts.TODO += strings.Count(line.Comment, "TODO")
		counts.FIXME += strings.Count(line.Comment, "FIXME")
		counts.HACK += strings.Count(line.Comment, "HACK")
		for _, marker := range opts.DeprecatedMarkers {
			if marker != "" {
				counts.Deprecated += strings.Count(line.Comment, marker)
			}
		}
	}

	var (
		stack      []braceFrame
		header     strings.Builder
		inFunction int
		continued  bool
	)
	for _, line := range src.Lines {
		trimmed := strings.TrimSpace(line.Code)
		directive := continued || strings.HasPrefix(trimmed, "#")
		continued = directive && strings.HasSuffix(trimmed, "\\")
		if directive {
			continue
		}
		for i := 0; i < len(line.Code); i++ {
			switch c := line.Code[i]; c {
			case '{':
				fn := inFunction == 0 && isFunctionHead(header.String())
				if fn {
					inFunction++
				} else if inFunction > 0 {
					inFunction++
				}
				stack = append(stack, braceFrame{line: line.Number, function: fn})
				counts.MaxNesting = max(counts.MaxNesting, len(stack))
				header.Reset()
			case '}':
				if len(stack) == 0 {
					return counts, fmt.Errorf("line %d: %w", line.Number, schema.ErrUnbalancedBraces)
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if inFunction > 0 {
					inFunction--
				}
				if top.function && line.Number-top.line > opts.LongFunctionLines {
					counts.LongFunctions++
				}
				header.Reset()
			case ';':
				header.Reset()
			default:
				header.WriteByte(c)
			}
		}
		header.WriteByte(' ')
	}
	counts.DeepNesting = counts.MaxNesting > opts.NestingDepth
	return counts, nil
}

// isFunctionHead reports whether the text before '{' looks like a function signature.
func isFunctionHead(head string) bool {
	head = strings.TrimSpace(head)
	if head == "" || !functionHeadPattern.MatchString(head) {
		return false
	}
	if lambdaPattern.MatchString(head) || strings.HasPrefix(head, "[") {
		return false
	}
	first := firstWord(strings.TrimLeft(head, ":, \t"))
	_, control := controlWords[first]
	return !control
}
