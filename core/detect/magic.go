package detect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/docscope/schema"
)

// maxMagicSamples is the number of literals kept as samples per file.
const maxMagicSamples = 5

// namedConstantPattern matches a declaration binding a name to a single literal,
// such as "static constexpr G4int kMax = 1024;".
var namedConstantPattern = regexp.MustCompile(`^\s*(?:(?:static|inline|extern)\s+)*(?:constexpr|const)\s+[^=;(){}]+=\s*[-+]?[0-9.][0-9A-Za-z.+-]*\s*;\s*$`)

// MagicReport lists the magic numbers of one file.
type MagicReport struct {
	Count   int
	Matches []schema.MagicMatch
	Flagged bool
}

// Samples returns the first literals found, at most five.
func (r MagicReport) Samples() []string {
	n := min(len(r.Matches), maxMagicSamples)
	out := make([]string, 0, n)
	for _, m := range r.Matches[:n] {
		out = append(out, m.Literal)
	}
	return out
}

// DetectMagicNumbers scans code text for unexplained numeric literals.
func DetectMagicNumbers(src *Source, opts schema.MagicOptions) MagicReport {
	units := make(map[string]struct{}, len(opts.Units))
	for _, u := range opts.Units {
		units[u] = struct{}{}
	}
	report := MagicReport{}
	continued := false
	for _, line := range src.Lines {
		code := line.Code
		trimmed := strings.TrimSpace(code)
		directive := continued || strings.HasPrefix(trimmed, "#")
		continued = directive && strings.HasSuffix(trimmed, "\\")
		if directive || trimmed == "" || namedConstantPattern.MatchString(code) {
			continue
		}
		for _, lit := range scanLiterals(code, units) {
			if countSignificantDigits(lit) < opts.MinDigits || isAllowed(lit, opts.Allow) {
				continue
			}
			report.Matches = append(report.Matches, schema.MagicMatch{Line: line.Number, Literal: lit})
		}
	}
	report.Count = len(report.Matches)
	report.Flagged = opts.MinHits > 0 && report.Count >= opts.MinHits
	return report
}

// scanLiterals returns the numeric literals of a code line that are not written with a unit.
func scanLiterals(code string, units map[string]struct{}) []string {
	var out []string
	for i := 0; i < len(code); {
		c := code[i]
		startsNumber := isDigit(c) || (c == '.' && i+1 < len(code) && isDigit(code[i+1]))
		if !startsNumber || (i > 0 && (isIdentByte(code[i-1]) || code[i-1] == '.')) {
			i++
			continue
		}
		end := numberEnd(code, i)
		lit := code[i:end]
		i = end
		if end < len(code) && (isIdentByte(code[end]) || code[end] == '.') {
			// User-defined literal or malformed token
			continue
		}
		if hasUnitSuffix(code[end:], units) {
			continue
		}
		out = append(out, lit)
	}
	return out
}

// numberEnd returns the index just past the numeric literal starting at i.
func numberEnd(code string, i int) int {
	j := i
	if code[j] == '0' && j+1 < len(code) && (code[j+1] == 'x' || code[j+1] == 'X' || code[j+1] == 'b' || code[j+1] == 'B') {
		j += 2
		for j < len(code) && isHexByte(code[j]) {
			j++
		}
		return integerSuffixEnd(code, j)
	}
	for j < len(code) && isDigit(code[j]) {
		j++
	}
	if j < len(code) && code[j] == '.' {
		j++
		for j < len(code) && isDigit(code[j]) {
			j++
		}
	}
	if j < len(code) && (code[j] == 'e' || code[j] == 'E') {
		k := j + 1
		if k < len(code) && (code[k] == '+' || code[k] == '-') {
			k++
		}
		if k < len(code) && isDigit(code[k]) {
			for k < len(code) && isDigit(code[k]) {
				k++
			}
			j = k
		}
	}
	for j < len(code) && strings.IndexByte("fFlL", code[j]) >= 0 {
		j++
	}
	return integerSuffixEnd(code, j)
}

func integerSuffixEnd(code string, j int) int {
	for j < len(code) && strings.IndexByte("uUlLzZ", code[j]) >= 0 {
		j++
	}
	return j
}

// hasUnitSuffix reports whether rest starts with an optional '*' and a unit token.
func hasUnitSuffix(rest string, units map[string]struct{}) bool {
	s := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(s, "*") {
		return false
	}
	s = strings.TrimLeft(s[1:], " \t")
	end := 0
	for end < len(s) && isIdentByte(s[end]) {
		end++
	}
	if end == 0 {
		return false
	}
	_, ok := units[s[:end]]
	return ok
}

// countSignificantDigits counts mantissa digits without leading zeros or trailing fractional zeros.
func countSignificantDigits(lit string) int {
	lower := strings.ToLower(lit)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0b") {
		digits := strings.TrimRight(lower[2:], "ulz")
		return len(strings.TrimLeft(digits, "0"))
	}
	mantissa := strings.TrimRight(lower, "fluz")
	if idx := strings.IndexByte(mantissa, 'e'); idx >= 0 {
		mantissa = mantissa[:idx]
	}
	whole, frac, hasFrac := strings.Cut(mantissa, ".")
	if hasFrac {
		frac = strings.TrimRight(frac, "0")
	}
	digits := strings.TrimLeft(whole+frac, "0")
	return len(digits)
}

// isAllowed reports whether the literal's value is on the allow list.
func isAllowed(lit string, allow []float64) bool {
	v, ok := literalValue(lit)
	if !ok {
		return false
	}
	for _, a := range allow {
		if a == v {
			return true
		}
	}
	return false
}

// literalValue parses a C++ numeric literal into a float64.
func literalValue(lit string) (float64, bool) {
	lower := strings.ToLower(lit)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0b") {
		base := 16
		if lower[1] == 'b' {
			base = 2
		}
		u, err := strconv.ParseUint(strings.TrimRight(lower[2:], "ulz"), base, 64)
		if err != nil {
			return 0, false
		}
		return float64(u), true
	}
	f, err := strconv.ParseFloat(strings.TrimRight(lower, "fluz"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
