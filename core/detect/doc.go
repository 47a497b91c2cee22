package detect

import (
	"regexp"
	"sort"
	"strings"

	"github.com/huangsam/docscope/schema"
)

// maxDocGap is the number of blank or attribute lines allowed between a
// documentation block and the declaration it documents.
const maxDocGap = 2

var (
	classPattern = regexp.MustCompile(`^\s*(?:template\s*<.*>\s*)?(?:class|struct)\s+((?:[A-Za-z_]\w*(?:\([^)]*\))?\s+)*)([A-Za-z_]\w*)\s*(?:final\s*)?(?::[^:]|:$|\{|$)`)

	functionPattern = regexp.MustCompile(`^\s*(?:(?:virtual|static|inline|explicit|constexpr|friend|extern)\s+)*(?:const\s+)?(?:(?:unsigned|signed|long|short)\s+)*([A-Za-z_][\w:<>,]*)(?:\s*[*&]+\s*|\s+)(?:[A-Za-z_][\w:]*::)?(~?[A-Za-z_]\w*|operator\s*[^\s(]+)\s*\(`)

	qualifiedPattern = regexp.MustCompile(`^\s*((?:[A-Za-z_]\w*(?:<[^>]*>)?::)+)(~?[A-Za-z_]\w*)\s*\(`)

	destructorPattern = regexp.MustCompile(`^\s*(?:virtual\s+)?(~[A-Za-z_]\w*)\s*\(`)

	attributePattern = regexp.MustCompile(`^\s*(?:\[\[|template\s*<|__attribute__|alignas\b|__declspec)`)

	briefPattern  = regexp.MustCompile(`[@\\]brief\b|///<|//!<|/\*\*<|/\*!<`)
	paramPattern  = regexp.MustCompile(`[@\\]param\b`)
	returnPattern = regexp.MustCompile(`[@\\]returns?\b`)
	tagLinePrefix = regexp.MustCompile(`^[@\\][A-Za-z]+`)
)

// nonDeclWords never start or name a declaration.
var nonDeclWords = map[string]struct{}{
	"if": {}, "for": {}, "while": {}, "switch": {}, "return": {}, "catch": {}, "sizeof": {},
	"else": {}, "do": {}, "case": {}, "new": {}, "delete": {}, "throw": {}, "typedef": {},
	"using": {}, "goto": {}, "static_assert": {}, "decltype": {}, "alignof": {}, "co_return": {},
}

// DocReport is the documentation view of one file.
type DocReport struct {
	Tags      schema.DocTagSet
	Units     []schema.DocumentableUnit
	DocBlocks int // Qualifying and Doxygen-style blocks
	DocLines  int
	DocChars  int
}

// Classes returns the number of class units.
func (r DocReport) Classes() (total, documented int) {
	return r.count(schema.ClassUnit)
}

// Functions returns the number of function units.
func (r DocReport) Functions() (total, documented int) {
	return r.count(schema.FunctionUnit)
}

func (r DocReport) count(kind schema.UnitKind) (total, documented int) {
	for _, u := range r.Units {
		if u.Kind != kind {
			continue
		}
		total++
		if u.Documented {
			documented++
		}
	}
	return total, documented
}

// DocRatio returns documented units over all units, or 0 without units.
func (r DocReport) DocRatio() float64 {
	if len(r.Units) == 0 {
		return 0
	}
	documented := 0
	for _, u := range r.Units {
		if u.Documented {
			documented++
		}
	}
	return float64(documented) / float64(len(r.Units))
}

// DetectDocs finds the documentable units of a file and the tags documenting them.
func DetectDocs(src *Source) DocReport {
	units := findDeclarations(src)
	report := DocReport{}
	counted := make(map[int]bool, len(src.Blocks))

	for bi, block := range src.Blocks {
		ui := attachTarget(src, block, units)
		if ui >= 0 {
			tags := TagsOf(block.Text)
			units[ui].Documented = true
			units[ui].Tags = tags
			units[ui].BlockChars = len(block.Text)
			counted[bi] = true
		}
		if block.Doc {
			counted[bi] = true
		}
	}

	for bi, block := range src.Blocks {
		if !counted[bi] {
			continue
		}
		report.Tags = report.Tags.Add(TagsOf(block.Text))
		report.DocBlocks++
		report.DocLines += block.EndLine - block.StartLine + 1
		report.DocChars += len(block.Text)
	}
	report.Units = units
	return report
}

// attachTarget returns the index of the unit a block documents, or -1.
func attachTarget(src *Source, block schema.CommentBlock, units []schema.DocumentableUnit) int {
	if block.Trailing {
		if !briefPattern.MatchString(block.Text) {
			return -1
		}
		// Member docs such as ///< document the declaration they trail
		for i := range units {
			if units[i].Line == block.StartLine && !units[i].Documented {
				return i
			}
		}
		return -1
	}

	// First declaration starting on or after the block's last line. Code sharing
	// that line with a leading block always follows the comment.
	i := sort.Search(len(units), func(i int) bool { return units[i].Line >= block.EndLine })
	if i >= len(units) || units[i].Documented {
		return -1
	}

	gap := 0
	for n := block.EndLine + 1; n < units[i].Line; n++ {
		line := src.Lines[n-1]
		switch {
		case line.IsBlank():
			gap++
		case line.Comment == "" && attributePattern.MatchString(line.Code):
			gap++
		default:
			return -1
		}
		if gap > maxDocGap {
			return -1
		}
	}
	return i
}

// findDeclarations scans code text for class and function declaration sites in line order.
func findDeclarations(src *Source) []schema.DocumentableUnit {
	var units []schema.DocumentableUnit
	for _, line := range src.Lines {
		code := line.Code
		trimmed := strings.TrimSpace(code)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		kind, name, ok := matchDeclaration(code)
		if !ok {
			continue
		}
		units = append(units, schema.DocumentableUnit{
			Kind:      kind,
			Name:      name,
			Line:      line.Number,
			DeclChars: len(trimmed),
		})
	}
	return units
}

// matchDeclaration classifies one code line as a class head, a function signature, or neither.
func matchDeclaration(code string) (schema.UnitKind, string, bool) {
	if m := classPattern.FindStringSubmatch(code); m != nil {
		if strings.HasSuffix(strings.TrimSpace(code), ";") && !strings.Contains(code, "{") {
			return "", "", false
		}
		return schema.ClassUnit, m[2], true
	}
	if m := destructorPattern.FindStringSubmatch(code); m != nil {
		return schema.FunctionUnit, m[1], true
	}
	if m := qualifiedPattern.FindStringSubmatch(code); m != nil {
		// Out-of-line definitions; calls such as Foo::Instance()->Bar(); end in a semicolon
		if !strings.HasSuffix(strings.TrimSpace(code), ";") && !strings.HasPrefix(m[1], "std::") {
			return schema.FunctionUnit, m[2], true
		}
	}
	if m := functionPattern.FindStringSubmatch(code); m != nil {
		first := firstWord(code)
		name := strings.TrimPrefix(m[2], "~")
		if _, bad := nonDeclWords[first]; bad {
			return "", "", false
		}
		if _, bad := nonDeclWords[name]; bad {
			return "", "", false
		}
		if _, bad := nonDeclWords[m[1]]; bad {
			return "", "", false
		}
		return schema.FunctionUnit, m[2], true
	}
	return "", "", false
}

func firstWord(code string) string {
	trimmed := strings.TrimSpace(code)
	end := 0
	for end < len(trimmed) && isIdentByte(trimmed[end]) {
		end++
	}
	return trimmed[:end]
}

// TagsOf counts the documentation tags in a comment block's text.
func TagsOf(text string) schema.DocTagSet {
	tags := schema.DocTagSet{
		Brief:   len(briefPattern.FindAllStringIndex(text, -1)),
		Params:  len(paramPattern.FindAllStringIndex(text, -1)),
		Returns: len(returnPattern.FindAllStringIndex(text, -1)),
	}
	prose := 0
	for _, raw := range strings.Split(text, "\n") {
		line := stripCommentDelimiters(raw)
		if line == "" || tagLinePrefix.MatchString(line) {
			continue
		}
		prose++
	}
	tags.HasDetailedText = prose >= 2
	return tags
}

// stripCommentDelimiters removes comment markers and decoration from one line of a block.
func stripCommentDelimiters(line string) string {
	s := strings.TrimSpace(line)
	for _, p := range []string{"///<", "//!<", "/**<", "/*!<", "///", "//!", "//", "/**", "/*!", "/*"} {
		if strings.HasPrefix(s, p) {
			s = s[len(p):]
			break
		}
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "*/"))
	s = strings.TrimSpace(strings.TrimLeft(s, "*"))
	return strings.Trim(s, "-=*/ \t")
}
