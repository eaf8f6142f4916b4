package diag

import "sort"

// Sink accumulates diagnostics across every compiler phase in insertion
// order. It is shared by the parser, the resolver, and the type checker
// (spec.md §4's "single shared diagnostic sink").
type Sink struct {
	diags []Diagnostic
}

// NewSink returns an empty Sink.
func NewSink() *Sink { return &Sink{} }

// Report appends d.
func (s *Sink) Report(d Diagnostic) { s.diags = append(s.diags, d) }

// ReportError reports an error-level diagnostic of kind with no span; use
// Report with New(...).WithSpan(...) when a span is known.
func (s *Sink) ReportError(kind Kind, message string) { s.Report(New(kind, message)) }

// HasErrors reports whether any LevelError diagnostic was reported — the
// top-level driver's exit-code decision (spec.md §7).
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}

// Len reports the number of diagnostics reported so far.
func (s *Sink) Len() int { return len(s.diags) }

// Diagnostics returns a stably-sorted copy of the accumulated diagnostics,
// ordered by (span.start, span.end, kind) per spec.md §9's reproducibility
// resolution. Diagnostics without a span sort before all spanned ones,
// keeping their relative insertion order (stable sort).
func (s *Sink) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HasSpan != b.HasSpan {
			return !a.HasSpan // no-span first
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End < b.Span.End
		}
		return a.Kind < b.Kind
	})
	return out
}
