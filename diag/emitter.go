package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Emitter renders Diagnostics to an io.Writer, grounded line-for-line on
// original_source/crates/lency_diagnostics/src/emitter.rs's emit_colored/
// emit_plain pair, using github.com/fatih/color as the Go analogue of the
// Rust `colored` crate.
type Emitter struct {
	w         io.Writer
	useColors bool
}

// NewEmitter returns a colored Emitter writing to w.
func NewEmitter(w io.Writer) *Emitter { return &Emitter{w: w, useColors: true} }

// NewPlainEmitter returns an Emitter with ANSI color disabled.
func NewPlainEmitter(w io.Writer) *Emitter { return &Emitter{w: w, useColors: false} }

// EmitAll renders every diagnostic in order, separated by a blank line,
// resolving line:col against source for diagnostics carrying a span and a
// non-empty FilePath.
func (e *Emitter) EmitAll(diags []Diagnostic, source string) {
	for _, d := range diags {
		e.Emit(d, source)
		fmt.Fprintln(e.w)
	}
}

// Emit renders one diagnostic.
func (e *Emitter) Emit(d Diagnostic, source string) {
	if e.useColors {
		e.emitColored(d, source)
	} else {
		e.emitPlain(d, source)
	}
}

func levelColoredName(l Level) string {
	switch l {
	case LevelError:
		return color.New(color.FgRed, color.Bold).Sprint("error")
	case LevelWarning:
		return color.New(color.FgYellow, color.Bold).Sprint("warning")
	default:
		return color.New(color.FgCyan, color.Bold).Sprint("note")
	}
}

func (e *Emitter) emitColored(d Diagnostic, source string) {
	arrow := color.New(color.FgBlue, color.Bold).Sprint("-->")
	fmt.Fprintf(e.w, "%s: %s\n", levelColoredName(d.Level), color.New(color.Bold).Sprint(d.Message))

	if d.HasSpan {
		if source != "" && d.FilePath != "" {
			line, col := resolveLineCol(source, d.Span.Start)
			fmt.Fprintf(e.w, "  %s %s:%d:%d\n", arrow, d.FilePath, line, col)
			e.emitSnippetColored(source, d.Span.Start, d.Span.End-d.Span.Start, line)
		} else {
			fmt.Fprintf(e.w, "  %s %s\n", arrow, d.Span)
		}
	}

	for _, n := range d.Notes {
		fmt.Fprintf(e.w, "  %s %s\n", color.New(color.FgBlue, color.Bold).Sprint("="),
			color.New(color.FgHiBlack).Sprintf("note: %s", n))
	}
	for _, sg := range d.Suggestions {
		fmt.Fprintf(e.w, "  %s %s\n", color.New(color.FgGreen, color.Bold).Sprint("="),
			color.New(color.FgGreen).Sprintf("help: %s", sg.Message))
		if sg.Replacement != "" {
			fmt.Fprintf(e.w, "        try: %s\n", color.New(color.FgGreen, color.Italic).Sprint(sg.Replacement))
		}
	}
}

func (e *Emitter) emitPlain(d Diagnostic, source string) {
	pos := ""
	if d.HasSpan && source != "" && d.FilePath != "" {
		line, col := resolveLineCol(source, d.Span.Start)
		pos = fmt.Sprintf(" %s:%d:%d:", d.FilePath, line, col)
	}
	fmt.Fprintf(e.w, "%s:%s %s\n", d.Level, pos, d.Message)

	if d.HasSpan {
		if source != "" && d.FilePath != "" {
			line, _ := resolveLineCol(source, d.Span.Start)
			e.emitSnippetPlain(source, d.Span.Start, d.Span.End-d.Span.Start, line)
		} else {
			fmt.Fprintf(e.w, "  --> %s\n", d.Span)
		}
	}

	for _, n := range d.Notes {
		fmt.Fprintf(e.w, "  = note: %s\n", n)
	}
	for _, sg := range d.Suggestions {
		fmt.Fprintf(e.w, "  = help: %s\n", sg.Message)
		if sg.Replacement != "" {
			fmt.Fprintf(e.w, "        try: %s\n", sg.Replacement)
		}
	}
}

func (e *Emitter) emitSnippetColored(source string, start, length, lineNum int) {
	lineContent, lineStart := lineContentAt(source, start)
	if strings.TrimSpace(lineContent) == "" {
		return
	}
	gutter := fmt.Sprintf("%d", lineNum)
	padding := strings.Repeat(" ", len(gutter))
	blue := color.New(color.FgBlue, color.Bold)

	fmt.Fprintf(e.w, "  %s |\n", blue.Sprint(padding))
	fmt.Fprintf(e.w, "  %s | %s\n", blue.Sprint(gutter), lineContent)

	colOffset := clampNonNeg(start - lineStart)
	markLen := clampMarkLen(length, len(lineContent), colOffset)
	pointerPadding := strings.Repeat(" ", colOffset)
	pointer := color.New(color.FgRed, color.Bold).Sprint(strings.Repeat("^", markLen))
	fmt.Fprintf(e.w, "  %s | %s%s\n", blue.Sprint(padding), pointerPadding, pointer)
}

func (e *Emitter) emitSnippetPlain(source string, start, length, lineNum int) {
	lineContent, lineStart := lineContentAt(source, start)
	if strings.TrimSpace(lineContent) == "" {
		return
	}
	gutter := fmt.Sprintf("%d", lineNum)
	padding := strings.Repeat(" ", len(gutter))

	fmt.Fprintf(e.w, "  %s |\n", padding)
	fmt.Fprintf(e.w, "  %s | %s\n", gutter, lineContent)

	colOffset := clampNonNeg(start - lineStart)
	markLen := clampMarkLen(length, len(lineContent), colOffset)
	pointerPadding := strings.Repeat(" ", colOffset)
	pointer := strings.Repeat("^", markLen)
	fmt.Fprintf(e.w, "  %s | %s%s\n", padding, pointerPadding, pointer)
}

func clampNonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func clampMarkLen(length, lineLen, colOffset int) int {
	if length < 1 {
		length = 1
	}
	max := lineLen - colOffset
	if max < 0 {
		max = 0
	}
	if length > max {
		return max
	}
	return length
}

// resolveLineCol computes 1-based (line, col) for a byte offset by
// scanning source for newlines, per spec.md §4.6.
func resolveLineCol(source string, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < len(source) && i < offset; i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// lineContentAt returns the full line containing byte offset, and that
// line's starting byte offset.
func lineContentAt(source string, offset int) (content string, lineStart int) {
	if offset > len(source) {
		offset = len(source)
	}
	lineStart = 0
	for i := offset - 1; i >= 0; i-- {
		if source[i] == '\n' {
			lineStart = i + 1
			break
		}
	}
	lineEnd := len(source)
	for i := offset; i < len(source); i++ {
		if source[i] == '\n' {
			lineEnd = i
			break
		}
	}
	if lineStart > len(source) || lineStart > lineEnd {
		return "", lineStart
	}
	return source[lineStart:lineEnd], lineStart
}
