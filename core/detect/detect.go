// Package detect has the lexical detectors run over every C++ source file:
// documentation blocks, control-flow density, magic numbers, age and code smells.
package detect

// Detector names used in diagnostics.
const (
	LexerStage      = "lexer"
	DocsStage       = "docs"
	ComplexityStage = "complexity"
	MagicStage      = "magic"
	AgeStage        = "age"
	SmellsStage     = "smells"
	ScoreStage      = "score"
)
