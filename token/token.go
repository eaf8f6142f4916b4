// Package token defines the lexical token kinds and source spans shared by
// the lexer, parser, and diagnostics packages. It mirrors the teacher's
// convention of a small, closed set of token kinds plus a position type
// (grailbio/gql's lex.go keys off text/scanner.Position; here spans are
// byte-offset ranges per spec, since the downstream diagnostics renderer
// computes line:col itself by scanning the source for newlines).
package token

import "fmt"

// Span is a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int
	End   int
}

// Join returns the smallest span containing both a and b.
func Join(a, b Span) Span {
	s := a
	if b.Start < s.Start {
		s.Start = b.Start
	}
	if b.End > s.End {
		s.End = b.End
	}
	return s
}

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Start, s.End) }

// Kind identifies the lexical category of a token.
type Kind int

const (
	// EOF marks the end of input.
	EOF Kind = iota
	// Error marks a lexical error; the parser reports this as an
	// "unexpected character" diagnostic but otherwise recovers.
	Error

	Ident
	Int
	Float
	String

	// Keywords.
	KwInt
	KwFloat
	KwBool
	KwString
	KwVoid
	KwVar
	KwIf
	KwElse
	KwWhile
	KwFor
	KwIn
	KwBreak
	KwContinue
	KwReturn
	KwExtern
	KwStruct
	KwEnum
	KwTrait
	KwImpl
	KwTrue
	KwFalse
	KwNull
	KwMatch
	KwCase
	KwDefault
	KwOk
	KwErr
	KwSome
	KwNone
	KwAs
	KwImport
	KwVec // 'vec' macro-like keyword introducing 'vec![...]'

	// String/file builtin intrinsics (keyworded per spec.md §4.2).
	KwLen
	KwTrim
	KwSplit
	KwJoin
	KwSubstr
	KwCharToString
	KwFormat
	KwPanic
	KwPrint
	KwReadFile
	KwWriteFile

	// Symbols / operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Dot
	QuestionDot
	Question
	QuestionQuestion
	Colon
	ColonColon
	Semi
	Arrow // '=>'
	Pipe  // '|' (closure param delimiter)
	Bang

	Assign // '='
	Plus
	Minus
	Star
	Slash
	Percent

	EqEq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	AndAnd
	OrOr
)

var kindNames = map[Kind]string{
	EOF: "EOF", Error: "<error>", Ident: "identifier", Int: "int literal",
	Float: "float literal", String: "string literal",
	KwInt: "int", KwFloat: "float", KwBool: "bool", KwString: "string", KwVoid: "void",
	KwVar: "var", KwIf: "if", KwElse: "else", KwWhile: "while", KwFor: "for", KwIn: "in",
	KwBreak: "break", KwContinue: "continue", KwReturn: "return",
	KwExtern: "extern", KwStruct: "struct", KwEnum: "enum", KwTrait: "trait", KwImpl: "impl",
	KwTrue: "true", KwFalse: "false", KwNull: "null", KwMatch: "match", KwCase: "case",
	KwDefault: "default", KwOk: "Ok", KwErr: "Err", KwSome: "Some", KwNone: "None",
	KwAs: "as", KwImport: "import", KwVec: "vec",
	KwLen: "len", KwTrim: "trim", KwSplit: "split", KwJoin: "join", KwSubstr: "substr",
	KwCharToString: "char_to_string", KwFormat: "format", KwPanic: "panic", KwPrint: "print",
	KwReadFile: "read_file", KwWriteFile: "write_file",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Dot: ".", QuestionDot: "?.", Question: "?", QuestionQuestion: "??",
	Colon: ":", ColonColon: "::", Semi: ";", Arrow: "=>", Pipe: "|", Bang: "!",
	Assign: "=", Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	EqEq: "==", NotEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	AndAnd: "&&", OrOr: "||",
}

// String renders a human-readable name for k, used in "expected one of ..."
// diagnostics.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Keywords maps a source spelling to its keyword Kind, consulted by the
// lexer after matching an identifier (longest-match with keyword priority,
// per spec.md §4.1).
var Keywords = map[string]Kind{
	"int": KwInt, "float": KwFloat, "bool": KwBool, "string": KwString, "void": KwVoid,
	"var": KwVar, "if": KwIf, "else": KwElse, "while": KwWhile, "for": KwFor, "in": KwIn,
	"break": KwBreak, "continue": KwContinue, "return": KwReturn,
	"extern": KwExtern, "struct": KwStruct, "enum": KwEnum, "trait": KwTrait, "impl": KwImpl,
	"true": KwTrue, "false": KwFalse, "null": KwNull, "match": KwMatch, "case": KwCase,
	"default": KwDefault, "Ok": KwOk, "Err": KwErr, "Some": KwSome, "None": KwNone,
	"as": KwAs, "import": KwImport, "vec": KwVec,
	"len": KwLen, "trim": KwTrim, "split": KwSplit, "join": KwJoin, "substr": KwSubstr,
	"char_to_string": KwCharToString, "format": KwFormat, "panic": KwPanic, "print": KwPrint,
	"read_file": KwReadFile, "write_file": KwWriteFile,
}

// Token is a single lexical unit: a kind, its source span, and any decoded
// literal payload.
type Token struct {
	Kind Kind
	Span Span

	// Lexeme is the raw source text of the token (used for float parsing,
	// and for diagnostics that quote the offending text).
	Lexeme string

	// IntValue is set when Kind == Int.
	IntValue int64
	// StringValue is set when Kind == String (decoded, escapes resolved) or
	// Kind == Ident (the identifier text).
	StringValue string
}

func (t Token) String() string {
	if t.Lexeme != "" {
		return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Lexeme, t.Span)
	}
	return fmt.Sprintf("%s@%s", t.Kind, t.Span)
}
