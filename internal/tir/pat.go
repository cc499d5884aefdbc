package tir

import (
	"github.com/quill-lang/quill/internal/cval"
	"github.com/quill-lang/quill/internal/diag"
	"github.com/quill-lang/quill/internal/hir"
	"github.com/quill-lang/quill/internal/source"
	"github.com/quill-lang/quill/internal/types"
)

// Pat is one node of the typed pattern IR. Nodes are built bottom-up in a
// single lowering pass and are immutable afterwards; rewrites go through the
// fold framework and produce new trees.
type Pat struct {
	Ty   types.Ty
	Span source.Span
	Kind Kind
}

// Kind is the closed set of pattern node shapes.
type Kind interface {
	isKind()
}

// Wild matches anything.
type Wild struct{}

// BindMode says how a Binding captures the scrutinee.
type BindMode int

const (
	BindByValue BindMode = iota
	BindByRefShared
	BindByRefUnique
)

func (m BindMode) String() string {
	switch m {
	case BindByRefShared:
		return "ref"
	case BindByRefUnique:
		return "ref mut"
	default:
		return "by-value"
	}
}

// Binding introduces a variable bound to the scrutinee. For by-reference
// bindings the enclosing Pat's type is the referent type while VarTy keeps
// the variable's own reference type.
type Binding struct {
	Mutable   bool
	Mode      BindMode
	Name      string
	Var       hir.VarID
	VarTy     types.Ty
	Sub       *Pat // optional `name @ sub`
	IsPrimary bool
}

// FieldPat pairs a declared field index with its sub-pattern.
type FieldPat struct {
	Field int
	Pat   *Pat
}

// Variant matches one case of a multi-variant enum.
type Variant struct {
	Adt    *types.AdtDef
	Args   []types.Ty
	Index  int
	Fields []FieldPat
}

// Leaf matches a struct, union, tuple or single-variant value structurally;
// no discriminant test is needed.
type Leaf struct {
	Fields []FieldPat
}

// Deref matches after dereferencing one level of reference or box
// indirection.
type Deref struct {
	Sub *Pat
}

// Const matches by value equality against an evaluated constant.
type Const struct {
	Value cval.Const
}

// Range matches a scalar interval. Lo and Hi always share the node's type
// and the interval is never empty; an inclusive range with equal endpoints
// is normalized to Const during lowering.
type Range struct {
	Lo  cval.Const
	Hi  cval.Const
	End hir.RangeEnd
}

// Slice matches a variable-length sequence.
type Slice struct {
	Prefix []*Pat
	Middle *Pat // optional `..` sub-pattern
	Suffix []*Pat
}

// Array matches a fixed-length sequence. The declared length is always at
// least len(Prefix)+len(Suffix).
type Array struct {
	Prefix []*Pat
	Middle *Pat
	Suffix []*Pat
}

// Or matches if any alternative matches, in order. Order is significant for
// downstream witness reporting.
type Or struct {
	Alts []*Pat
}

// Variance is the subtyping direction an Ascribe node requires between the
// inferred and the annotated type.
type Variance int

const (
	Covariant Variance = iota
	Contravariant
)

// Ascribe records a user-written type annotation for later consistency
// checking. It is erased before exhaustiveness analysis. Its sub-pattern
// always shares the ascription node's span.
type Ascribe struct {
	Sub        *Pat
	Annotation types.UserAnnotation
	InferredTy types.Ty
	Variance   Variance
}

// Error marks a pattern that failed to lower. The handle ties it to the one
// diagnostic reported for it.
type Error struct {
	Err diag.Handle
}

func (Wild) isKind()    {}
func (Binding) isKind() {}
func (Variant) isKind() {}
func (Leaf) isKind()    {}
func (Deref) isKind()   {}
func (Const) isKind()   {}
func (Range) isKind()   {}
func (Slice) isKind()   {}
func (Array) isKind()   {}
func (Or) isKind()      {}
func (Ascribe) isKind() {}
func (Error) isKind()   {}
