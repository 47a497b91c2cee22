package detect

import (
	"sort"
	"strings"

	"github.com/huangsam/docscope/schema"
)

// Line is one physical source line split by the lexer.
type Line struct {
	Number  int    // 1-based line number
	Code    string // Code text with comments removed and literal contents blanked
	Comment string // Comment text on this line, delimiters included
}

// HasCode reports whether the line carries any code.
func (l Line) HasCode() bool { return strings.TrimSpace(l.Code) != "" }

// IsBlank reports whether the line has neither code nor comment.
func (l Line) IsBlank() bool { return !l.HasCode() && strings.TrimSpace(l.Comment) == "" }

// Source is a lexed SourceFile shared read-only by every detector of one pass.
type Source struct {
	File   schema.SourceFile
	Lines  []Line
	Blocks []schema.CommentBlock
}

// CodeLines returns the number of lines that carry code.
func (s *Source) CodeLines() int {
	n := 0
	for _, l := range s.Lines {
		if l.HasCode() {
			n++
		}
	}
	return n
}

// NewSource lexes a file into per-line code and comment text plus comment blocks.
func NewSource(file schema.SourceFile) *Source {
	e := &lexEngine{}
	lines := splitLines(file.Content)
	src := &Source{File: file, Lines: make([]Line, 0, len(lines))}
	for i, text := range lines {
		src.Lines = append(src.Lines, e.processLine(i+1, text))
	}
	e.flushRun()
	if e.block != nil {
		// Unterminated block comment runs to the end of the file
		e.finishBlock(len(lines))
	}
	sort.SliceStable(e.blocks, func(i, j int) bool {
		return e.blocks[i].StartLine < e.blocks[j].StartLine
	})
	src.Blocks = e.blocks
	return src
}

// splitLines splits content on newlines, dropping carriage returns and the final empty line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// blockBuilder accumulates one comment block while it is open.
type blockBuilder struct {
	start    int
	end      int
	kind     schema.BlockKind
	doc      bool
	trailing bool
	text     strings.Builder
}

func (b *blockBuilder) build() schema.CommentBlock {
	return schema.CommentBlock{
		StartLine: b.start,
		EndLine:   b.end,
		Text:      b.text.String(),
		Kind:      b.kind,
		Doc:       b.doc,
		Trailing:  b.trailing,
	}
}

// lexEngine holds the C++ lexical state carried across lines.
type lexEngine struct {
	inBlockComment    bool
	inDoubleQuotedStr bool
	inSingleQuotedChr bool
	inRawString       bool
	rawDelim          string

	block  *blockBuilder // open /* */ comment
	run    *blockBuilder // open run of whole-line // comments
	blocks []schema.CommentBlock
}

// processLine scans one line and updates the lexer state.
func (e *lexEngine) processLine(number int, text string) Line {
	var code, comment strings.Builder
	touchedBlock := e.inBlockComment
	if e.inBlockComment && e.block != nil {
		e.block.text.WriteByte('\n')
	}

	for idx := 0; idx < len(text); {
		current := text[idx]
		hasNext := idx+1 < len(text)
		next := byte(0)
		if hasNext {
			next = text[idx+1]
		}

		if e.inBlockComment {
			if current == '*' && next == '/' {
				comment.WriteString("*/")
				e.block.text.WriteString("*/")
				e.inBlockComment = false
				e.finishBlock(number)
				idx += 2
				continue
			}
			comment.WriteByte(current)
			e.block.text.WriteByte(current)
			idx++
			continue
		}

		if e.inRawString {
			closing := ")" + e.rawDelim + `"`
			if strings.HasPrefix(text[idx:], closing) {
				code.WriteByte('"')
				e.inRawString = false
				idx += len(closing)
				continue
			}
			code.WriteByte(' ')
			idx++
			continue
		}

		if e.inDoubleQuotedStr || e.inSingleQuotedChr {
			quote := byte('"')
			if e.inSingleQuotedChr {
				quote = '\''
			}
			if current == '\\' {
				if !hasNext {
					// Line continuation keeps the literal open
					code.WriteByte(' ')
					return e.endLine(number, code.String(), comment.String(), touchedBlock, true)
				}
				code.WriteString("  ")
				idx += 2
				continue
			}
			if current == quote {
				code.WriteByte(quote)
				e.inDoubleQuotedStr = false
				e.inSingleQuotedChr = false
				idx++
				continue
			}
			code.WriteByte(' ')
			idx++
			continue
		}

		switch {
		case current == '/' && next == '*':
			e.flushRun()
			touchedBlock = true
			e.inBlockComment = true
			rest := text[idx+2:]
			e.block = &blockBuilder{
				start:    number,
				kind:     schema.BlockComment,
				doc:      isDocBlockOpener(rest),
				trailing: strings.TrimSpace(code.String()) != "",
			}
			e.block.text.WriteString("/*")
			comment.WriteString("/*")
			idx += 2
		case current == '/' && next == '/':
			seg := text[idx:]
			comment.WriteString(seg)
			e.lineComment(number, seg, strings.TrimSpace(code.String()) != "" || touchedBlock)
			return e.endLine(number, code.String(), comment.String(), touchedBlock, false)
		case current == '"':
			if delim, skip, ok := rawStringStart(text, idx); ok {
				code.WriteByte('"')
				e.inRawString = true
				e.rawDelim = delim
				idx += skip
				continue
			}
			code.WriteByte('"')
			e.inDoubleQuotedStr = true
			idx++
		case current == '\'':
			if isDigitSeparator(text, idx) {
				idx++
				continue
			}
			code.WriteByte('\'')
			e.inSingleQuotedChr = true
			idx++
		default:
			code.WriteByte(current)
			idx++
		}
	}
	return e.endLine(number, code.String(), comment.String(), touchedBlock, false)
}

// endLine closes per-line state. Unterminated literals end at the line break
// unless the line ends in a continuation.
func (e *lexEngine) endLine(number int, code, comment string, touchedBlock, continued bool) Line {
	if !continued {
		e.inDoubleQuotedStr = false
		e.inSingleQuotedChr = false
	}
	hasComment := strings.TrimSpace(comment) != ""
	if !hasComment || strings.TrimSpace(code) != "" || touchedBlock {
		// Anything other than a whole-line // comment ends the current run
		if e.run != nil && e.run.end != number {
			e.flushRun()
		}
	}
	return Line{Number: number, Code: code, Comment: comment}
}

// lineComment records a // comment either as part of a run or as a trailing block.
func (e *lexEngine) lineComment(number int, seg string, afterCode bool) {
	doc := isDocLineOpener(seg)
	if afterCode {
		e.flushRun()
		b := &blockBuilder{start: number, end: number, kind: schema.LineCommentRun, doc: doc, trailing: true}
		b.text.WriteString(seg)
		e.blocks = append(e.blocks, b.build())
		return
	}
	if e.run != nil && e.run.end != number-1 {
		e.flushRun()
	}
	if e.run == nil {
		e.run = &blockBuilder{start: number, kind: schema.LineCommentRun}
	} else {
		e.run.text.WriteByte('\n')
	}
	// One Doxygen line makes the whole contiguous run documentation
	e.run.doc = e.run.doc || doc
	e.run.end = number
	e.run.text.WriteString(seg)
}

func (e *lexEngine) flushRun() {
	if e.run == nil {
		return
	}
	e.blocks = append(e.blocks, e.run.build())
	e.run = nil
}

func (e *lexEngine) finishBlock(number int) {
	e.block.end = number
	e.blocks = append(e.blocks, e.block.build())
	e.block = nil
}

// isDocBlockOpener reports whether the text after "/*" opens a Doxygen block.
// Banner lines such as "/*****" and the empty "/**/" are not documentation.
func isDocBlockOpener(rest string) bool {
	if strings.HasPrefix(rest, "!") {
		return true
	}
	if !strings.HasPrefix(rest, "*") {
		return false
	}
	return len(rest) == 1 || (rest[1] != '*' && rest[1] != '/')
}

// isDocLineOpener reports whether a // comment is a Doxygen line (/// or //!).
func isDocLineOpener(seg string) bool {
	if strings.HasPrefix(seg, "//!") {
		return true
	}
	return strings.HasPrefix(seg, "///") && !strings.HasPrefix(seg, "////")
}

// rawStringStart detects R"delim( at idx and returns the delimiter and the bytes to skip.
func rawStringStart(text string, idx int) (string, int, bool) {
	if idx == 0 || text[idx-1] != 'R' {
		return "", 0, false
	}
	if idx >= 2 && isIdentByte(text[idx-2]) {
		prefix := identBefore(text, idx-1)
		if prefix != "u8" && prefix != "u" && prefix != "U" && prefix != "L" {
			return "", 0, false
		}
	}
	open := strings.IndexByte(text[idx+1:], '(')
	if open < 0 || open > 16 {
		return "", 0, false
	}
	delim := text[idx+1 : idx+1+open]
	if strings.ContainsAny(delim, " ()\\\t\"") {
		return "", 0, false
	}
	return delim, open + 2, true
}

// identBefore returns the identifier characters ending right before end.
func identBefore(text string, end int) string {
	start := end
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	return text[start:end]
}

// isDigitSeparator reports whether the quote at idx is a C++14 digit separator as in 1'000'000.
func isDigitSeparator(text string, idx int) bool {
	if idx == 0 || idx+1 >= len(text) {
		return false
	}
	if !isHexByte(text[idx-1]) || !isHexByte(text[idx+1]) {
		return false
	}
	word := identBefore(text, idx)
	return word != "" && word[0] >= '0' && word[0] <= '9'
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isHexByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
