// Command berylc is the thin CLI driver over package compiler, exposing the
// four subcommands spec.md §6 names. build/run/repl each require an
// external code generator and runtime that this repo does not implement
// (spec.md §1's explicit exclusion); they report that boundary plainly
// rather than pretending to work. check is fully functional end-to-end,
// grounded on the teacher's gql command-line driver shape.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Microindole/beryl/compiler"
	"github.com/Microindole/beryl/diag"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var maxErrors int
	var noColor bool

	root := &cobra.Command{
		Use:   "berylc",
		Short: "berylc compiles beryl source to the emitter-facing contract",
	}
	root.PersistentFlags().IntVar(&maxErrors, "max-errors", 0, "stop reporting after this many errors (0 = unlimited)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI diagnostic colors")

	check := &cobra.Command{
		Use:   "check <file>",
		Short: "parse, resolve, type-check, and monomorphize a source file, reporting diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0], maxErrors, !noColor)
		},
	}

	unimplemented := func(name string) *cobra.Command {
		return &cobra.Command{
			Use:   name + " <file>",
			Short: name + " requires an external code generator and runtime, not implemented by this module",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return fmt.Errorf("%s: no code generator or runtime is wired into this build (spec.md §1 excludes codegen from this core); run `berylc check` instead", name)
			},
		}
	}

	root.AddCommand(check, unimplemented("build"), unimplemented("run"), unimplemented("repl"))
	return root
}

func runCheck(path string, maxErrors int, color bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("berylc: %w", err)
	}

	res, err := compiler.Compile(src, compiler.Options{File: path, MaxErrors: maxErrors})
	if err != nil {
		return fmt.Errorf("berylc: internal error: %w", err)
	}

	var emitter *diag.Emitter
	if color {
		emitter = diag.NewEmitter(os.Stderr)
	} else {
		emitter = diag.NewPlainEmitter(os.Stderr)
	}
	emitter.EmitAll(res.Diagnostics, string(src))

	if res.HasErrors() {
		return fmt.Errorf("berylc: compilation failed with errors")
	}
	fmt.Printf("berylc: %s checked ok (%d struct(s), %d enum(s))\n", path, len(res.Unit.Structs), len(res.Unit.Enums))
	return nil
}
