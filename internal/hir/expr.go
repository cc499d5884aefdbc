package hir

import "github.com/quill-lang/quill/internal/source"

// Expr is a surface expression permitted in literal patterns and range
// endpoints: literals, negated literals, paths, and inline const blocks.
type Expr interface {
	isExpr()
	ID() NodeID
	Span() source.Span
}

// ExprBase carries the identity and span every surface expression has.
type ExprBase struct {
	Node NodeID
	Sp   source.Span
}

func (b ExprBase) ID() NodeID        { return b.Node }
func (b ExprBase) Span() source.Span { return b.Sp }

// LitKind classifies literal tokens.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitChar
	LitStr
)

// Lit is one literal token. Integer and char literals keep their unsigned
// magnitude so that negation can be applied before any width truncation.
type Lit struct {
	Kind  LitKind
	Uint  uint64  // LitInt, LitChar: magnitude
	Float float64 // LitFloat
	Bool  bool    // LitBool
	Str   string  // LitStr
}

// LitExpr is a literal expression.
type LitExpr struct {
	ExprBase
	Lit Lit
}

// NegExpr is the syntactic negation of a literal. Negation is recognized
// before the literal's bit pattern is evaluated, so the most negative value
// of a signed type can be written without an intermediate overflow.
type NegExpr struct {
	ExprBase
	Sub Expr
}

// PathExpr names a constant, associated constant, or unit constructor.
type PathExpr struct {
	ExprBase
}

// ConstBlockExpr is an inline `const { ... }` expression. Const names the
// block for the evaluation oracle; Body is consulted only for the
// literal fast path.
type ConstBlockExpr struct {
	ExprBase
	Const ConstID
	Body  Expr // nil when the block is not just a (negated) literal
}

func (LitExpr) isExpr()        {}
func (NegExpr) isExpr()        {}
func (PathExpr) isExpr()       {}
func (ConstBlockExpr) isExpr() {}
