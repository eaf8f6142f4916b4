package types

import (
	"github.com/Microindole/beryl/ast"
	"github.com/Microindole/beryl/diag"
	"github.com/Microindole/beryl/resolve"
	"github.com/Microindole/beryl/scope"
)

// vecMethodResult types Vec's built-in methods (spec.md §4.4: "Vec has built-in
// methods push/pop/len/get/set with direct typing").
func vecMethodResult(method string, elem Type, args []Type) (Type, bool) {
	switch method {
	case "push":
		return Unit, len(args) == 1 && AssignableTo(args[0], elem)
	case "pop":
		return Option(elem), len(args) == 0
	case "len":
		return Int, len(args) == 0
	case "get":
		return elem, len(args) == 1 && args[0].Kind == KInt
	case "set":
		return Unit, len(args) == 2 && args[0].Kind == KInt && AssignableTo(args[1], elem)
	default:
		return Error, false
	}
}

// mapMethodResult types Map's built-in methods (SPEC_FULL §8's HashMap
// addition): insert/get/contains/remove/len.
func mapMethodResult(method string, key, val Type, args []Type) (Type, bool) {
	switch method {
	case "insert":
		return Unit, len(args) == 2 && AssignableTo(args[0], key) && AssignableTo(args[1], val)
	case "get":
		return Option(val), len(args) == 1 && AssignableTo(args[0], key)
	case "contains":
		return Bool, len(args) == 1 && AssignableTo(args[0], key)
	case "remove":
		return Unit, len(args) == 1 && AssignableTo(args[0], key)
	case "len":
		return Int, len(args) == 0
	default:
		return Error, false
	}
}

func (c *Checker) checkExpr(e ast.Expr, cur scope.ID) Type {
	switch ex := e.(type) {
	case *ast.LiteralExpr:
		switch ex.Kind {
		case ast.LitInt:
			return setType(e, Int)
		case ast.LitFloat:
			return setType(e, Float)
		case ast.LitBool:
			return setType(e, Bool)
		case ast.LitString:
			return setType(e, String)
		default: // LitNull
			return setType(e, Nullable(Error))
		}
	case *ast.UnitExpr:
		return setType(e, Unit)
	case *ast.VarExpr:
		sym, ok := c.lookupVar(cur, ex.Name)
		if !ok {
			// Already reported by resolve; annotate with poison so the
			// checker doesn't cascade.
			return setType(e, Error)
		}
		return setType(e, symbolType(sym))
	case *ast.BinaryExpr:
		return c.checkBinary(ex, cur)
	case *ast.UnaryExpr:
		operand := c.checkExpr(ex.Operand, cur)
		res, ok := unaryResult(ex.Op, operand)
		if !ok {
			c.err(diag.TypeMismatch, ex.Span(), "operator not defined for %s", operand.String())
		}
		return setType(e, res)
	case *ast.CallExpr:
		return c.checkCall(ex, cur)
	case *ast.GetExpr:
		return c.checkGet(ex, cur)
	case *ast.SafeGetExpr:
		return c.checkSafeGet(ex, cur)
	case *ast.IndexExpr:
		return c.checkIndex(ex, cur)
	case *ast.ArrayLitExpr:
		var elem Type = Error
		for i, el := range ex.Elems {
			t := c.checkExpr(el, cur)
			if i == 0 {
				elem = t
			} else {
				c.checkAssignable(el, t, elem)
			}
		}
		return setType(e, Array(elem, int64(len(ex.Elems))))
	case *ast.VecLitExpr:
		var elem Type = Error
		for i, el := range ex.Elems {
			t := c.checkExpr(el, cur)
			if i == 0 {
				elem = t
			} else {
				c.checkAssignable(el, t, elem)
			}
		}
		return setType(e, Vec(elem))
	case *ast.StructLitExpr:
		return c.checkStructLit(ex, cur)
	case *ast.GenericInstExpr:
		return c.checkGenericInst(ex, cur)
	case *ast.ClosureExpr:
		return c.checkClosure(ex, cur)
	case *ast.MatchExpr:
		return c.checkMatch(ex, cur)
	case *ast.TryExpr:
		return c.checkTry(ex, cur)
	case *ast.OkExpr:
		v := c.checkExpr(ex.Value, cur)
		return setType(e, Result(v, Struct("Error")))
	case *ast.ErrExpr:
		c.checkExpr(ex.Value, cur)
		return setType(e, Result(Void, Struct("Error")))
	case *ast.SomeExpr:
		v := c.checkExpr(ex.Value, cur)
		return setType(e, Option(v))
	case *ast.NoneExpr:
		return setType(e, Option(Error))
	case *ast.PrintExpr:
		c.checkExpr(ex.Value, cur)
		return setType(e, Unit)
	case *ast.StringBuiltinExpr:
		return c.checkStringBuiltin(ex, cur)
	case *ast.FileBuiltinExpr:
		return c.checkFileBuiltin(ex, cur)
	case *ast.CastExpr:
		return c.checkCast(ex, cur)
	}
	return Error
}

func (c *Checker) checkBinary(ex *ast.BinaryExpr, cur scope.ID) Type {
	lhs := c.checkExpr(ex.Left, cur)
	rhs := c.checkExpr(ex.Right, cur)

	if lhs.Kind == KGenericParam {
		// spec.md §4.4: a generic-parameter operand is allowed through the
		// table only when its declared trait bound permits the operator.
		bound := c.curGenericBounds[lhs.Name]
		if !genericBoundAllows(bound, ex.Op) {
			c.err(diag.TypeMismatch, ex.Span(), "operator %v not permitted by bound %q on generic parameter %s", ex.Op, bound, lhs.Name)
			return setType(ex, Error)
		}
		return setType(ex, Bool)
	}

	res, ok := binaryResult(ex.Op, lhs, rhs)
	if !ok {
		c.err(diag.TypeMismatch, ex.Span(), "operator not defined for %s and %s", lhs.String(), rhs.String())
	}
	return setType(ex, res)
}

func (c *Checker) checkCast(ex *ast.CastExpr, cur scope.ID) Type {
	got := c.checkExpr(ex.Operand, cur)
	target := FromAST(ex.Target)
	if !got.IsError() && !IsNumeric(got) && !Equal(got, target) {
		c.err(diag.TypeMismatch, ex.Span(), "cannot cast %s as %s", got.String(), target.String())
	}
	return setType(ex, target)
}

func (c *Checker) checkIndex(ex *ast.IndexExpr, cur scope.ID) Type {
	objT := c.checkExpr(ex.Object, cur)
	idxT := c.checkExpr(ex.Index, cur)
	if idxT.Kind != KInt && !idxT.IsError() {
		c.err(diag.TypeMismatch, ex.Index.Span(), "index must be int, found %s", idxT.String())
	}
	switch objT.Kind {
	case KArray:
		if lit, ok := ex.Index.(*ast.LiteralExpr); ok && lit.Kind == ast.LitInt {
			if lit.Int < 0 || lit.Int >= objT.Size {
				c.err(diag.ArrayIndexOutOfBounds, ex.Span(), "index %d out of bounds for array of size %d", lit.Int, objT.Size)
			}
		}
		return setType(ex, *objT.Elem)
	case KVec:
		return setType(ex, *objT.Elem)
	case KMap:
		return setType(ex, *objT.Value)
	default:
		if !objT.IsError() {
			c.err(diag.TypeMismatch, ex.Object.Span(), "cannot index %s", objT.String())
		}
		return setType(ex, Error)
	}
}

func (c *Checker) checkGet(ex *ast.GetExpr, cur scope.ID) Type {
	objT := c.checkExpr(ex.Object, cur)
	if objT.Kind == KNullable {
		c.err(diag.PossibleNullAccess, ex.Span(), "possible null access on %s", objT.String())
		objT = *objT.Elem
	}
	fieldT, ok := c.lookupField(objT, ex.Field)
	if !ok {
		if !objT.IsError() {
			c.err(diag.UndefinedField, ex.Span(), "undefined field %q on %s", ex.Field, objT.String())
		}
		return setType(ex, Error)
	}
	return setType(ex, fieldT)
}

func (c *Checker) checkSafeGet(ex *ast.SafeGetExpr, cur scope.ID) Type {
	objT := c.checkExpr(ex.Object, cur)
	base := objT
	if base.Kind == KNullable {
		base = *base.Elem
	}
	fieldT, ok := c.lookupField(base, ex.Field)
	if !ok {
		if !base.IsError() {
			c.err(diag.UndefinedField, ex.Span(), "undefined field %q on %s", ex.Field, base.String())
		}
		return setType(ex, Nullable(Error))
	}
	if fieldT.Kind == KNullable {
		return setType(ex, fieldT)
	}
	return setType(ex, Nullable(fieldT))
}

// lookupField resolves a field name on a struct or instantiated-generic
// struct type, substituting the struct's own generic parameters where
// needed.
func (c *Checker) lookupField(t Type, field string) (Type, bool) {
	var name string
	var sub map[string]Type
	switch t.Kind {
	case KStruct:
		name = t.Name
	case KGeneric:
		name = t.Name
		decl, ok := c.res.Structs[name]
		if ok {
			sub = genericSubst(decl.Generics, t.Args)
		}
	default:
		return Error, false
	}
	decl, ok := c.res.Structs[name]
	if !ok {
		return Error, false
	}
	for _, f := range decl.Fields {
		if f.Name == field {
			ft := FromAST(f.Type)
			if sub != nil {
				ft = Substitute(ft, sub)
			}
			return ft, true
		}
	}
	return Error, false
}

func genericSubst(params []ast.GenericParam, args []Type) map[string]Type {
	m := make(map[string]Type, len(params))
	for i, p := range params {
		if i < len(args) {
			m[p.Name] = args[i]
		}
	}
	return m
}

func (c *Checker) checkStructLit(ex *ast.StructLitExpr, cur scope.ID) Type {
	decl, ok := c.res.Structs[ex.TypeName]
	if !ok {
		for _, f := range ex.Fields {
			c.checkExpr(f.Expr, cur)
		}
		return setType(ex, Error)
	}
	var args []Type
	var sub map[string]Type
	if len(ex.GenericArgs) > 0 {
		args = make([]Type, len(ex.GenericArgs))
		for i, a := range ex.GenericArgs {
			args[i] = FromAST(a)
		}
		sub = genericSubst(decl.Generics, args)
	}

	declared := map[string]ast.Type{}
	for _, f := range decl.Fields {
		declared[f.Name] = f.Type
	}
	for _, f := range ex.Fields {
		got := c.checkExpr(f.Expr, cur)
		want, ok := declared[f.Name]
		if !ok {
			c.err(diag.UndefinedField, f.Expr.Span(), "struct %q has no field %q", ex.TypeName, f.Name)
			continue
		}
		wantT := FromAST(want)
		if sub != nil {
			wantT = Substitute(wantT, sub)
		}
		c.checkAssignable(f.Expr, got, wantT)
	}

	if args != nil {
		return setType(ex, Generic(ex.TypeName, args))
	}
	return setType(ex, Struct(ex.TypeName))
}

func (c *Checker) checkGenericInst(ex *ast.GenericInstExpr, cur scope.ID) Type {
	v, ok := ex.Callee.(*ast.VarExpr)
	if !ok {
		c.checkExpr(ex.Callee, cur)
		return setType(ex, Error)
	}
	fn, ok := c.res.Funcs[v.Name]
	if !ok {
		c.err(diag.NotCallable, ex.Span(), "%q is not a generic function", v.Name)
		return setType(ex, Error)
	}
	if len(ex.Args) != len(fn.Generics) {
		c.err(diag.GenericArityMismatch, ex.Span(), "expected %d type argument(s), found %d", len(fn.Generics), len(ex.Args))
		return setType(ex, Error)
	}
	args := make([]Type, len(ex.Args))
	sub := map[string]Type{}
	for i, a := range ex.Args {
		args[i] = FromAST(a)
		sub[fn.Generics[i].Name] = args[i]
	}
	params := make([]Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = Substitute(FromAST(p.Type), sub)
	}
	ret := Substitute(FromAST(fn.Ret), sub)
	return setType(ex, Function(params, ret))
}

func (c *Checker) checkClosure(ex *ast.ClosureExpr, cur scope.ID) Type {
	closureScope := c.tree.NextChild(cur)
	bodyT := c.checkExpr(ex.Body, closureScope)
	params := make([]Type, len(ex.Params))
	for i, p := range ex.Params {
		params[i] = FromAST(p.Type)
	}
	return setType(ex, Function(params, bodyT))
}

func (c *Checker) checkTry(ex *ast.TryExpr, cur scope.ID) Type {
	operand := c.checkExpr(ex.Operand, cur)
	if operand.IsError() {
		return setType(ex, Error)
	}
	if operand.Kind != KResult {
		c.err(diag.InvalidTryContext, ex.Span(), "'?' requires a Result operand, found %s", operand.String())
		return setType(ex, Error)
	}
	if !c.hasCurReturn || c.curReturn.Kind != KResult {
		c.err(diag.InvalidTryContext, ex.Span(), "'?' used outside a function returning Result")
	} else if !AssignableTo(*operand.Err, *c.curReturn.Err) {
		c.err(diag.InvalidTryContext, ex.Span(), "'?' error type %s incompatible with enclosing return type %s", operand.Err.String(), c.curReturn.Err.String())
	}
	return setType(ex, *operand.Ok)
}

func (c *Checker) checkStringBuiltin(ex *ast.StringBuiltinExpr, cur scope.ID) Type {
	args := make([]Type, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = c.checkExpr(a, cur)
	}
	var result Type
	switch ex.Builtin {
	case ast.BuiltinLen:
		result = Int
	case ast.BuiltinTrim, ast.BuiltinSubstr, ast.BuiltinCharToString, ast.BuiltinJoin, ast.BuiltinFormat:
		result = String
	case ast.BuiltinSplit:
		result = Vec(String)
	case ast.BuiltinPanic:
		result = Void
	}
	return setType(ex, result)
}

func (c *Checker) checkFileBuiltin(ex *ast.FileBuiltinExpr, cur scope.ID) Type {
	for _, a := range ex.Args {
		c.checkExpr(a, cur)
	}
	switch ex.Builtin {
	case ast.BuiltinReadFile:
		return setType(ex, Result(String, Struct("Error")))
	default: // BuiltinWriteFile
		return setType(ex, Result(Void, Struct("Error")))
	}
}

func (c *Checker) checkMatch(ex *ast.MatchExpr, cur scope.ID) Type {
	scrutinee := c.checkExpr(ex.Value, cur)

	var result Type = Error
	haveResult := false
	seenVariants := map[string]bool{}
	hasWildcard := ex.Default != nil

	for _, mc := range ex.Cases {
		armScope := c.tree.NextChild(cur)
		switch mc.Pattern.Kind {
		case ast.PatternLiteral:
			if scrutinee.Kind != KInt && !scrutinee.IsError() {
				c.err(diag.TypeMismatch, mc.Pattern.Span, "expected enum scrutinee, found integer pattern")
			}
		case ast.PatternWildcard:
			hasWildcard = true
		case ast.PatternEnumUnit, ast.PatternEnumTuple:
			seenVariants[mc.Pattern.Variant] = true
			c.bindEnumPattern(mc.Pattern, scrutinee, armScope)
		}
		bodyT := c.checkExpr(mc.Body, armScope)
		if !haveResult {
			result, haveResult = bodyT, true
		} else {
			c.checkAssignable(mc.Body, bodyT, result)
		}
	}

	if ex.Default != nil {
		defScope := c.tree.NextChild(cur)
		bodyT := c.checkExpr(ex.Default, defScope)
		if !haveResult {
			result, haveResult = bodyT, true
		} else {
			c.checkAssignable(ex.Default, bodyT, result)
		}
	}

	if scrutinee.Kind == KStruct || scrutinee.Kind == KGeneric {
		if decl, ok := c.res.Enums[scrutinee.Name]; ok && !hasWildcard {
			for _, v := range decl.Variants {
				if !seenVariants[v.Name] {
					c.err(diag.NonExhaustiveMatch, ex.Span(), "non-exhaustive match: missing variant %q", v.Name)
				}
			}
		}
	} else if scrutinee.Kind == KInt && !hasWildcard {
		c.err(diag.NonExhaustiveMatch, ex.Span(), "non-exhaustive match over int: a default arm is required")
	}

	if !haveResult {
		result = Void
	}
	return setType(ex, result)
}

func (c *Checker) bindEnumPattern(p ast.Pattern, scrutinee Type, armScope scope.ID) {
	if scrutinee.Kind != KStruct && scrutinee.Kind != KGeneric {
		return
	}
	decl, ok := c.res.Enums[scrutinee.Name]
	if !ok {
		return
	}
	var sub map[string]Type
	if scrutinee.Kind == KGeneric {
		sub = genericSubst(decl.Generics, scrutinee.Args)
	}
	for _, v := range decl.Variants {
		if v.Name != p.Variant {
			continue
		}
		for i, bind := range p.Bindings {
			if i >= len(v.Payload) {
				break
			}
			bt := FromAST(v.Payload[i])
			if sub != nil {
				bt = Substitute(bt, sub)
			}
			if sym, ok := c.lookupVar(armScope, bind); ok {
				sym.Type = ToAST(bt)
			}
		}
	}
}

func (c *Checker) checkCall(ex *ast.CallExpr, cur scope.ID) Type {
	switch callee := ex.Callee.(type) {
	case *ast.GenericInstExpr:
		fnT := c.checkGenericInst(callee, cur)
		return setType(ex, c.checkArgsAgainstFunction(ex, fnT, cur))
	case *ast.GetExpr:
		return c.checkMethodOrVariantCall(ex, callee, cur)
	case *ast.VarExpr:
		if fn, ok := c.res.Funcs[callee.Name]; ok {
			setType(callee, funcInfoType(fn))
			return setType(ex, c.checkArgsAgainstParams(ex, fn.Params, fn.Ret, nil, cur))
		}
		fnT := c.checkExpr(callee, cur)
		return setType(ex, c.checkArgsAgainstFunction(ex, fnT, cur))
	default:
		fnT := c.checkExpr(ex.Callee, cur)
		return setType(ex, c.checkArgsAgainstFunction(ex, fnT, cur))
	}
}

func funcInfoType(fn *resolve.FuncInfo) Type {
	params := make([]Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = FromAST(p.Type)
	}
	return Function(params, FromAST(fn.Ret))
}

func (c *Checker) checkArgsAgainstFunction(ex *ast.CallExpr, fnT Type, cur scope.ID) Type {
	if fnT.IsError() {
		for _, a := range ex.Args {
			c.checkExpr(a, cur)
		}
		return Error
	}
	if fnT.Kind != KFunction {
		c.err(diag.NotCallable, ex.Callee.Span(), "expression of type %s is not callable", fnT.String())
		for _, a := range ex.Args {
			c.checkExpr(a, cur)
		}
		return Error
	}
	if len(ex.Args) != len(fnT.Params) {
		c.err(diag.ArgumentCountMismatch, ex.Span(), "expected %d argument(s), found %d", len(fnT.Params), len(ex.Args))
	}
	for i, a := range ex.Args {
		got := c.checkExpr(a, cur)
		if i < len(fnT.Params) {
			c.checkAssignable(a, got, fnT.Params[i])
		}
	}
	return *fnT.Ret
}

func (c *Checker) checkArgsAgainstParams(ex *ast.CallExpr, params []ast.Param, ret ast.Type, sub map[string]Type, cur scope.ID) Type {
	if len(ex.Args) != len(params) {
		c.err(diag.ArgumentCountMismatch, ex.Span(), "expected %d argument(s), found %d", len(params), len(ex.Args))
	}
	for i, a := range ex.Args {
		got := c.checkExpr(a, cur)
		if i < len(params) {
			want := FromAST(params[i].Type)
			if sub != nil {
				want = Substitute(want, sub)
			}
			c.checkAssignable(a, got, want)
		}
	}
	retT := FromAST(ret)
	if sub != nil {
		retT = Substitute(retT, sub)
	}
	return retT
}

// checkMethodOrVariantCall handles `obj.m(args)` (instance/Vec method
// calls) and `Enum.Variant(args)` (tuple enum constructors), per spec.md
// §4.4.
func (c *Checker) checkMethodOrVariantCall(ex *ast.CallExpr, callee *ast.GetExpr, cur scope.ID) Type {
	if v, ok := callee.Object.(*ast.VarExpr); ok {
		if decl, isEnum := c.res.Enums[v.Name]; isEnum {
			return setType(ex, c.checkEnumConstructorCall(ex, decl, callee.Field, cur))
		}
	}

	objT := c.checkExpr(callee.Object, cur)
	if objT.Kind == KVec {
		args := make([]Type, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = c.checkExpr(a, cur)
		}
		result, ok := vecMethodResult(callee.Field, *objT.Elem, args)
		if !ok {
			c.err(diag.UndefinedMethod, ex.Span(), "Vec has no method %q matching these arguments (expected one of push/pop/len/get/set)", callee.Field)
		}
		setType(callee, Error)
		return setType(ex, result)
	}
	if objT.Kind == KMap {
		args := make([]Type, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = c.checkExpr(a, cur)
		}
		result, ok := mapMethodResult(callee.Field, *objT.Key, *objT.Value, args)
		if !ok {
			c.err(diag.UndefinedMethod, ex.Span(), "Map has no method %q matching these arguments (expected one of insert/get/contains/remove/len)", callee.Field)
		}
		setType(callee, Error)
		return setType(ex, result)
	}

	var name string
	var sub map[string]Type
	switch objT.Kind {
	case KStruct:
		name = objT.Name
	case KGeneric:
		name = objT.Name
		if decl, ok := c.res.Structs[name]; ok {
			sub = genericSubst(decl.Generics, objT.Args)
		}
	default:
		if !objT.IsError() {
			c.err(diag.NotAStruct, callee.Object.Span(), "cannot call method on %s", objT.String())
		}
		for _, a := range ex.Args {
			c.checkExpr(a, cur)
		}
		return setType(ex, Error)
	}

	fn, ok := c.res.Funcs[resolve.MangleMethod(name, callee.Field)]
	if !ok {
		c.err(diag.UndefinedMethod, ex.Span(), "undefined method %q on %s", callee.Field, name)
		for _, a := range ex.Args {
			c.checkExpr(a, cur)
		}
		return setType(ex, Error)
	}
	setType(callee, Error) // GetExpr used only as call syntax, not a field value
	return setType(ex, c.checkArgsAgainstParams(ex, fn.Params, fn.Ret, sub, cur))
}

func (c *Checker) checkEnumConstructorCall(ex *ast.CallExpr, decl *ast.EnumDecl, variant string, cur scope.ID) Type {
	for _, v := range decl.Variants {
		if v.Name != variant {
			continue
		}
		if len(ex.Args) != len(v.Payload) {
			c.err(diag.ArgumentCountMismatch, ex.Span(), "variant %q expects %d argument(s), found %d", variant, len(v.Payload), len(ex.Args))
		}
		for i, a := range ex.Args {
			got := c.checkExpr(a, cur)
			if i < len(v.Payload) {
				c.checkAssignable(a, got, FromAST(v.Payload[i]))
			}
		}
		if len(decl.Generics) > 0 {
			args := make([]Type, len(decl.Generics))
			for i := range args {
				args[i] = Error
			}
			return Generic(decl.Name, args)
		}
		return Struct(decl.Name)
	}
	c.err(diag.UndefinedField, ex.Span(), "enum %q has no variant %q", decl.Name, variant)
	for _, a := range ex.Args {
		c.checkExpr(a, cur)
	}
	return Error
}
