package ast

import "github.com/Microindole/beryl/token"

// Stmt is any statement node, per spec.md §3's Statements section. Like
// Expr, each alternative is its own Go struct rather than a single tagged
// struct (teacher's gql/ast.go shape).
type Stmt interface {
	ID() NodeID
	Span() token.Span
}

// StmtBase is the common embedded header every concrete Stmt carries.
type StmtBase struct {
	id   NodeID
	span token.Span
}

// NewStmtBase builds a StmtBase for a freshly parsed node.
func NewStmtBase(id NodeID, span token.Span) StmtBase {
	return StmtBase{id: id, span: span}
}

func (s *StmtBase) ID() NodeID       { return s.id }
func (s *StmtBase) Span() token.Span { return s.span }

// VarDeclStmt is `var name[: Type] = init;` or `var name: Type;` (no init;
// the checker accepts this for any annotated Type).
type VarDeclStmt struct {
	StmtBase
	Name        string
	Annotation  Type // nil if elided; then the checker infers from Init
	Init        Expr // nil if elided
}

// LValue is the target of an AssignStmt: a bare variable, a field get, or
// an index expression, per spec.md §3.
type LValue interface {
	Expr
	isLValue()
}

func (*VarExpr) isLValue()   {}
func (*GetExpr) isLValue()   {}
func (*IndexExpr) isLValue() {}

// AssignStmt is `target = value;`.
type AssignStmt struct {
	StmtBase
	Target LValue
	Value  Expr
}

// ExprStmt is a bare expression used for its side effects, `expr;`.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// BlockStmt is `{ stmt... }`, introducing its own lexical scope.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// IfStmt is `if (cond) then [else else_]`. Parenthesization of cond is
// mandatory (spec.md §9's struct-literal-vs-block disambiguation), enforced
// by the parser rather than encoded here.
type IfStmt struct {
	StmtBase
	Cond Expr
	Then *BlockStmt
	Else Stmt // *BlockStmt or *IfStmt (else-if chain), nil if absent
}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	StmtBase
	Cond Expr
	Body *BlockStmt
}

// ForStmt is the C-style `for (init; cond; post) body`. Any of Init/Cond/Post
// may be nil for the corresponding elided clause.
type ForStmt struct {
	StmtBase
	Init Stmt // *VarDeclStmt, *AssignStmt, or *ExprStmt
	Cond Expr
	Post Stmt
	Body *BlockStmt
}

// ForInStmt is `for (name in iterable) body` over an array/vec.
type ForInStmt struct {
	StmtBase
	Name     string
	Iterable Expr
	Body     *BlockStmt
}

// BreakStmt is `break;`.
type BreakStmt struct{ StmtBase }

// ContinueStmt is `continue;`.
type ContinueStmt struct{ StmtBase }

// ReturnStmt is `return [expr];`. Value is nil for a bare `return;` in a
// void-returning function.
type ReturnStmt struct {
	StmtBase
	Value Expr
}

var (
	_ Stmt = (*VarDeclStmt)(nil)
	_ Stmt = (*AssignStmt)(nil)
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*BlockStmt)(nil)
	_ Stmt = (*IfStmt)(nil)
	_ Stmt = (*WhileStmt)(nil)
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*ForInStmt)(nil)
	_ Stmt = (*BreakStmt)(nil)
	_ Stmt = (*ContinueStmt)(nil)
	_ Stmt = (*ReturnStmt)(nil)

	_ LValue = (*VarExpr)(nil)
	_ LValue = (*GetExpr)(nil)
	_ LValue = (*IndexExpr)(nil)
)
