package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/docscope/schema"
)

// Color variables for console output.
var (
	WellColor    = color.New(color.FgGreen, color.Bold) // WellColor marks well documented files.
	PartialColor = color.New(color.FgYellow)            // PartialColor marks partially documented files.
	PoorColor    = color.New(color.FgRed, color.Bold)   // PoorColor marks poorly documented files.
)

// GetColorLabel returns a colored tier label for console output (table).
func GetColorLabel(tier schema.DocTier) string {
	text := schema.GetPlainLabel(tier)
	switch tier {
	case schema.WellTier:
		return WellColor.Sprint(text)
	case schema.PartialTier:
		return PartialColor.Sprint(text)
	default:
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".docscope_history.db"
	}
	return filepath.Join(homeDir, ".docscope_history.db")
}

// GetHistoryBoltFilePath returns the path to the bolt file for run history.
func GetHistoryBoltFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".docscope_history.bolt"
	}
	return filepath.Join(homeDir, ".docscope_history.bolt")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for the "..." prefix and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SplitList splits a comma-separated option into trimmed, non-empty parts.
func SplitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseFloatList parses a comma-separated list of numbers.
func ParseFloatList(s string) ([]float64, error) {
	parts := SplitList(s)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
