package lower

import (
	"github.com/quill-lang/quill/internal/cval"
	"github.com/quill-lang/quill/internal/source"
	"github.com/quill-lang/quill/internal/tir"
	"github.com/quill-lang/quill/internal/types"
)

// Decomposer turns a fully evaluated constant into the equivalent
// structural pattern, so that `FOO` with `const FOO: (u8, u8) = (1, 2)`
// matches like the written pattern `(1, 2)` would.
type Decomposer interface {
	Decompose(c cval.Const, span source.Span) *tir.Pat
}

// StructuralDecomposer decomposes structured constants by shape: aggregates
// become Leaf/Variant/Array nodes over their parts, references peel to
// Deref, and anything without structure falls back to an opaque constant
// pattern compared by value equality.
type StructuralDecomposer struct{}

func (d StructuralDecomposer) Decompose(c cval.Const, span source.Span) *tir.Pat {
	ty := c.Type()
	branch, ok := c.(*cval.Branch)
	if !ok {
		return &tir.Pat{Ty: ty, Span: span, Kind: tir.Const{Value: c}}
	}

	var kind tir.Kind
	switch t := ty.(type) {
	case types.Tuple:
		kind = tir.Leaf{Fields: d.fieldPats(branch.Elems, span)}
	case types.Array:
		kind = tir.Array{Prefix: d.pats(branch.Elems, span)}
	case types.Slice:
		kind = tir.Slice{Prefix: d.pats(branch.Elems, span)}
	case types.Ref, types.Box:
		kind = tir.Deref{Sub: d.Decompose(branch.Elems[0], span)}
	case types.Adt:
		if t.Def.IsEnum() {
			kind = tir.Variant{
				Adt:    t.Def,
				Args:   t.Args,
				Index:  branch.Variant,
				Fields: d.fieldPats(branch.Elems, span),
			}
		} else {
			kind = tir.Leaf{Fields: d.fieldPats(branch.Elems, span)}
		}
	default:
		kind = tir.Const{Value: c}
	}
	return &tir.Pat{Ty: ty, Span: span, Kind: kind}
}

func (d StructuralDecomposer) pats(elems []cval.Const, span source.Span) []*tir.Pat {
	out := make([]*tir.Pat, len(elems))
	for i, e := range elems {
		out[i] = d.Decompose(e, span)
	}
	return out
}

func (d StructuralDecomposer) fieldPats(elems []cval.Const, span source.Span) []tir.FieldPat {
	out := make([]tir.FieldPat, len(elems))
	for i, e := range elems {
		out[i] = tir.FieldPat{Field: i, Pat: d.Decompose(e, span)}
	}
	return out
}
