package hir

import (
	"github.com/quill-lang/quill/internal/source"
)

// NodeID identifies one surface syntax node. Type-checking results are keyed
// by it.
type NodeID int

// VarID identifies a bound variable. It is the NodeID of the variable's
// primary binding occurrence; repeated occurrences introduced by or-patterns
// share the primary's VarID under their own NodeIDs.
type VarID NodeID

// RangeEnd says whether a range pattern includes its upper bound.
type RangeEnd int

const (
	RangeExcluded RangeEnd = iota
	RangeIncluded
)

func (e RangeEnd) String() string {
	if e == RangeIncluded {
		return "..="
	}
	return ".."
}

// Pat is a surface pattern node as produced by parsing and name resolution,
// before lowering.
type Pat interface {
	isPat()
	ID() NodeID
	Span() source.Span
}

// PatBase carries the identity and span every surface pattern has.
type PatBase struct {
	Node NodeID
	Sp   source.Span
}

func (b PatBase) ID() NodeID        { return b.Node }
func (b PatBase) Span() source.Span { return b.Sp }

// WildPat is the `_` pattern.
type WildPat struct {
	PatBase
}

// LitPat matches a literal, negated literal, path or inline const block
// expression by value.
type LitPat struct {
	PatBase
	Expr Expr
}

// RangePat matches a scalar interval. At least one bound must be present;
// the parser rejects `..` as a standalone pattern.
type RangePat struct {
	PatBase
	Lo  Expr // nil when the lower bound is open
	Hi  Expr // nil when the upper bound is open
	End RangeEnd
}

// PathPat is a bare path pattern: a unit variant, unit struct, or named
// constant.
type PathPat struct {
	PatBase
}

// RefPat matches behind one level of reference.
type RefPat struct {
	PatBase
	Sub Pat
}

// BoxPat matches behind one level of box indirection.
type BoxPat struct {
	PatBase
	Sub Pat
}

// SlicePat matches a slice or fixed-length array. When HasRest is set, a
// `..` marker separates Prefix and Suffix; Rest is its optional binding
// sub-pattern (`mid @ ..`), nil for a bare `..`.
type SlicePat struct {
	PatBase
	Prefix  []Pat
	HasRest bool
	Rest    Pat
	Suffix  []Pat
}

// TuplePat matches a tuple positionally. DotDotPos is the index of a `..`
// gap marker, or -1 when absent.
type TuplePat struct {
	PatBase
	Elems     []Pat
	DotDotPos int
}

// BindingPat introduces a variable. Mutability and binding mode live in the
// type-checking results, not on the surface node.
type BindingPat struct {
	PatBase
	Name      string
	Var       VarID
	IdentSpan source.Span
	Sub       Pat // optional `name @ sub`
}

// TupleStructPat matches a tuple-struct or tuple-variant constructor.
type TupleStructPat struct {
	PatBase
	Elems     []Pat
	DotDotPos int
}

// FieldPat is one named field inside a StructPat. Its NodeID keys the
// resolved field index in the type-checking results.
type FieldPat struct {
	Node NodeID
	Name string
	Pat  Pat
}

// StructPat matches a struct or struct-variant by field name.
type StructPat struct {
	PatBase
	Fields []FieldPat
}

// OrPat matches if any alternative matches. Order is preserved through
// lowering.
type OrPat struct {
	PatBase
	Alts []Pat
}

func (WildPat) isPat()        {}
func (LitPat) isPat()         {}
func (RangePat) isPat()       {}
func (PathPat) isPat()        {}
func (RefPat) isPat()         {}
func (BoxPat) isPat()         {}
func (SlicePat) isPat()       {}
func (TuplePat) isPat()       {}
func (BindingPat) isPat()     {}
func (TupleStructPat) isPat() {}
func (StructPat) isPat()      {}
func (OrPat) isPat()          {}
