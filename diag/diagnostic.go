// Package diag implements the compiler's diagnostic taxonomy, sink, and
// emitter (spec.md §4.6/§7), grounded line-for-line on
// original_source/crates/lency_diagnostics. Collect-and-continue is the
// governing policy: every phase appends to a shared Sink and keeps running
// rather than aborting on the first error, per spec.md §7.
package diag

import "github.com/Microindole/beryl/token"

// Level is a diagnostic's severity.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelNote
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	default:
		return "unknown"
	}
}

// Kind names one entry of the error taxonomy in spec.md §7. Sorting
// diagnostics by (span.start, span.end, Kind) — spec.md §9's Open Question
// resolution — needs Kind to be a total order, hence the explicit int enum
// rather than a free-form string.
type Kind int

const (
	// Lexical.
	UnterminatedString Kind = iota
	InvalidNumber
	UnknownCharacter

	// Syntactic.
	UnexpectedToken
	UnclosedDelimiter
	MalformedDeclaration

	// Resolution.
	UndefinedVariable
	UndefinedType
	DuplicateDefinition
	NotAStruct
	NotAClass
	UndefinedMethod
	UndefinedField
	NotCallable

	// Semantic/type.
	TypeMismatch
	ArgumentCountMismatch
	GenericArityMismatch
	MissingReturn
	ArrayIndexOutOfBounds
	PossibleNullAccess
	CannotInferType
	InvalidTryContext
	BreakOutsideLoop
	ContinueOutsideLoop
	NonExhaustiveMatch

	// Driver.
	IOError
	ToolInvocationError
)

var kindNames = [...]string{
	"UnterminatedString", "InvalidNumber", "UnknownCharacter",
	"UnexpectedToken", "UnclosedDelimiter", "MalformedDeclaration",
	"UndefinedVariable", "UndefinedType", "DuplicateDefinition", "NotAStruct",
	"NotAClass", "UndefinedMethod", "UndefinedField", "NotCallable",
	"TypeMismatch", "ArgumentCountMismatch", "GenericArityMismatch",
	"MissingReturn", "ArrayIndexOutOfBounds", "PossibleNullAccess",
	"CannotInferType", "InvalidTryContext", "BreakOutsideLoop",
	"ContinueOutsideLoop", "NonExhaustiveMatch",
	"IOError", "ToolInvocationError",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UnknownKind"
}

// Suggestion is an attached `= help: ...` / `try: ...` pair.
type Suggestion struct {
	Message     string
	Replacement string // empty if there's no concrete replacement text
}

// Diagnostic is one error/warning/note, matching
// lency_diagnostics::Diagnostic's fields (level, message, span, file path,
// notes, suggestions).
type Diagnostic struct {
	Level       Level
	Kind        Kind
	Message     string
	Span        token.Span
	HasSpan     bool
	FilePath    string
	Notes       []string
	Suggestions []Suggestion
}

// New builds a Diagnostic at LevelError with no span; chain With* to fill
// in the rest, mirroring the builder style of Diagnostic::error(...).span(...)
// in the original.
func New(kind Kind, message string) Diagnostic {
	return Diagnostic{Level: LevelError, Kind: kind, Message: message}
}

// Warning builds a LevelWarning diagnostic with no span; chain With* as
// with New.
func Warning(kind Kind, message string) Diagnostic {
	return Diagnostic{Level: LevelWarning, Kind: kind, Message: message}
}

func (d Diagnostic) WithSpan(s token.Span) Diagnostic {
	d.Span = s
	d.HasSpan = true
	return d
}

func (d Diagnostic) WithFile(path string) Diagnostic {
	d.FilePath = path
	return d
}

func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

func (d Diagnostic) WithSuggestion(message, replacement string) Diagnostic {
	d.Suggestions = append(d.Suggestions, Suggestion{Message: message, Replacement: replacement})
	return d
}
