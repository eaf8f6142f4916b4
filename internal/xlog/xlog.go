// Package xlog wraps github.com/grailbio/base/log the way the teacher's
// gql/log.go does: leveled logging functions that prefix messages with the
// source-code location of the AST node involved. Panicf is reserved for
// internal invariant violations (a supposedly-impossible compiler state),
// never for user-facing compile errors — those always go through
// diag.Sink instead. See SPEC_FULL.md §6.
package xlog

import (
	"fmt"

	"github.com/grailbio/base/log"
)

// Located is anything that can report where it came from, for use in log
// messages. ast.Expr/Stmt/Decl and token.Span's String() all satisfy this
// loosely via the Locate() adapter below.
type Located interface {
	Locate() string
}

// Span adapts any fmt.Stringer span (token.Span satisfies this) into a
// Located for logging.
type spanLocated struct{ s fmt.Stringer }

func (l spanLocated) Locate() string { return l.s.String() }

// At wraps a span-like value (anything with String()) as a Located.
func At(s fmt.Stringer) Located { return spanLocated{s} }

// Unknown is used when no source location is available.
type unknown struct{}

func (unknown) Locate() string { return "<unknown>" }

// Unknown is the Located to use when no better location is known.
var Unknown Located = unknown{}

// Debugf logs at Debug level, similar to log.Debug.Printf.
func Debugf(loc Located, format string, args ...interface{}) {
	if log.At(log.Debug) {
		log.Output(2, log.Debug, loc.Locate()+": "+fmt.Sprintf(format, args...)) // nolint: errcheck
	}
}

// Logf logs at Info level, similar to log.Printf.
func Logf(loc Located, format string, args ...interface{}) {
	if log.At(log.Info) {
		log.Output(2, log.Info, loc.Locate()+": "+fmt.Sprintf(format, args...)) // nolint: errcheck
	}
}

// Errorf logs at Error level for internal (non-user-facing) failures —
// compiler bugs worth surfacing even outside a panic.
func Errorf(loc Located, format string, args ...interface{}) {
	log.Output(2, log.Error, loc.Locate()+": "+fmt.Sprintf(format, args...)) // nolint: errcheck
}

// Panicf signals that the compiler reached a state its own invariants say
// is impossible — a bug in this compiler, never a user-facing diagnostic.
// User-facing errors always go through diag.Sink.
func Panicf(loc Located, format string, args ...interface{}) {
	panic(loc.Locate() + ": " + fmt.Sprintf(format, args...))
}
