package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
)

func findFunc(f *ast.File, name string) *ast.FuncDecl {
	for _, d := range f.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Name == name {
			return fn
		}
	}
	return nil
}

// Scenario 1 (spec.md §8): a single function returning a literal.
func TestCompileReturnLiteral(t *testing.T) {
	res, err := Compile([]byte(`int main(){ return 42; }`), Options{File: "t1.beryl"})
	require.NoError(t, err)
	assert.False(t, res.HasErrors())

	fn := findFunc(res.Unit.Program, "main")
	require.NotNil(t, fn)
	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	lit, ok := ret.Value.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, int64(42), lit.Int)
}

// Scenario 2: a call site resolves to the declared function.
func TestCompileCallResolvesToDeclaredFunction(t *testing.T) {
	src := `int add(int a,int b){return a+b;} int main(){return add(10,32);}`
	res, err := Compile([]byte(src), Options{File: "t2.beryl"})
	require.NoError(t, err)
	assert.False(t, res.HasErrors())

	require.NotNil(t, findFunc(res.Unit.Program, "add"))
	require.NotNil(t, findFunc(res.Unit.Program, "main"))
}

// Scenario 3: referencing an undefined variable produces exactly one
// UndefinedVariable diagnostic.
func TestCompileUndefinedVariable(t *testing.T) {
	res, err := Compile([]byte(`int main(){ return x; }`), Options{File: "t3.beryl"})
	require.NoError(t, err)
	require.True(t, res.HasErrors())

	var found int
	for _, d := range res.Diagnostics {
		if d.Kind == diag.UndefinedVariable {
			found++
		}
	}
	assert.Equal(t, 1, found)
}

// Scenario 4: assigning a string literal to an int-annotated variable
// produces a TypeMismatch diagnostic on the initializer.
func TestCompileTypeMismatchOnInitializer(t *testing.T) {
	res, err := Compile([]byte(`int main(){ var x:int="hi"; return x; }`), Options{File: "t4.beryl"})
	require.NoError(t, err)
	require.True(t, res.HasErrors())

	var found bool
	for _, d := range res.Diagnostics {
		if d.Kind == diag.TypeMismatch {
			found = true
		}
	}
	assert.True(t, found)
}

// Scenario 5: a generic function instantiated with ::<int> is monomorphized
// into identity__int and the call site is rewritten to reference it.
func TestCompileMonomorphizesGenericFunction(t *testing.T) {
	src := `T identity<T>(T x){return x;} int main(){ return identity::<int>(7); }`
	res, err := Compile([]byte(src), Options{File: "t5.beryl"})
	require.NoError(t, err)
	assert.False(t, res.HasErrors())

	specialized := findFunc(res.Unit.Program, "identity__int")
	require.NotNil(t, specialized)
	assert.Empty(t, specialized.Generics)

	main := findFunc(res.Unit.Program, "main")
	require.NotNil(t, main)
	ret := main.Body.Stmts[0].(*ast.ReturnStmt)
	call, ok := ret.Value.(*ast.CallExpr)
	require.True(t, ok)
	callee, ok := call.Callee.(*ast.VarExpr)
	require.True(t, ok)
	assert.Equal(t, "identity__int", callee.Name)

	// No generic template survives monomorphization (spec.md §8's universal
	// invariant: output contains no unresolved GenericParam).
	assert.Nil(t, findFunc(res.Unit.Program, "identity"))
}

// Scenario 6: a generic struct instantiated via a struct literal is
// monomorphized into Box__int with a concretely-typed field.
func TestCompileMonomorphizesGenericStruct(t *testing.T) {
	src := `struct Box<T>{T v} int main(){ var b=Box<int>{v:3}; return b.v; }`
	res, err := Compile([]byte(src), Options{File: "t6.beryl"})
	require.NoError(t, err)
	assert.False(t, res.HasErrors())

	var boxed *ast.StructDecl
	for _, d := range res.Unit.Program.Decls {
		if s, ok := d.(*ast.StructDecl); ok && s.Name == "Box__int" {
			boxed = s
		}
	}
	require.NotNil(t, boxed)
	require.Len(t, boxed.Fields, 1)
	assert.Equal(t, "v", boxed.Fields[0].Name)
	_, isInt := boxed.Fields[0].Type.(ast.IntType)
	assert.True(t, isInt)

	var foundLayout bool
	for _, sl := range res.Unit.Structs {
		if sl.Name == "Box__int" {
			foundLayout = true
		}
	}
	assert.True(t, foundLayout)
}

// Break outside a loop produces a dedicated diagnostic kind rather than a
// generic syntax error (spec.md §8's boundary behaviors).
func TestCompileBreakOutsideLoop(t *testing.T) {
	res, err := Compile([]byte(`int main(){ break; return 0; }`), Options{File: "t7.beryl"})
	require.NoError(t, err)
	require.True(t, res.HasErrors())

	var found bool
	for _, d := range res.Diagnostics {
		if d.Kind == diag.BreakOutsideLoop {
			found = true
		}
	}
	assert.True(t, found)
}

// Literal out-of-bounds array indexing is caught at compile time.
func TestCompileArrayIndexOutOfBounds(t *testing.T) {
	src := `int main(){ var a:[int;2]=[1,2]; return a[5]; }`
	res, err := Compile([]byte(src), Options{File: "t8.beryl"})
	require.NoError(t, err)
	require.True(t, res.HasErrors())

	var found int
	for _, d := range res.Diagnostics {
		if d.Kind == diag.ArrayIndexOutOfBounds {
			found++
		}
	}
	assert.Equal(t, 1, found)
}

// Diagnostics come back sorted by (span.start, span.end, kind), per
// spec.md §9's reproducibility resolution.
func TestCompileDiagnosticsAreSorted(t *testing.T) {
	src := `int main(){ return y; } int other(){ return z; }`
	res, err := Compile([]byte(src), Options{File: "t9.beryl"})
	require.NoError(t, err)
	require.True(t, res.HasErrors())
	for i := 1; i < len(res.Diagnostics); i++ {
		prev, cur := res.Diagnostics[i-1], res.Diagnostics[i]
		if prev.Span.Start != cur.Span.Start {
			assert.LessOrEqual(t, prev.Span.Start, cur.Span.Start)
		}
	}
}
