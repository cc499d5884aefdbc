// Package lower converts surface match patterns into the typed pattern IR
// consumed by exhaustiveness checking and decision-tree generation.
//
// Lowering is total: patterns that are provably malformed degrade to Error
// IR nodes carrying a diagnostic handle, so one bad arm never prevents the
// rest of a match from being checked. Inconsistencies that only an earlier
// phase could have produced (a tuple pattern against a non-tuple type, a
// by-ref binding without a reference type) fail loudly instead.
package lower

import (
	"fmt"

	"github.com/quill-lang/quill/internal/cval"
	"github.com/quill-lang/quill/internal/diag"
	"github.com/quill-lang/quill/internal/hir"
	"github.com/quill-lang/quill/internal/source"
	"github.com/quill-lang/quill/internal/tir"
	"github.com/quill-lang/quill/internal/types"
)

// Ctx carries the read-only snapshots one lowering session works against:
// type-checking results, the constant evaluation oracle, the constant
// decomposer and the diagnostic sink. A Ctx is single-threaded; independent
// match expressions can be lowered concurrently with one Ctx each.
type Ctx struct {
	typeck *hir.TypeckResults
	oracle cval.Oracle
	decomp Decomposer
	diags  *diag.Bag
}

// New builds a lowering context. A nil decomposer selects the structural
// default.
func New(typeck *hir.TypeckResults, oracle cval.Oracle, decomp Decomposer, diags *diag.Bag) *Ctx {
	if decomp == nil {
		decomp = StructuralDecomposer{}
	}
	if diags == nil {
		diags = diag.NewBag()
	}
	return &Ctx{typeck: typeck, oracle: oracle, decomp: decomp, diags: diags}
}

// Diags returns the diagnostic sink the context reports into.
func (cx *Ctx) Diags() *diag.Bag { return cx.diags }

// Lower converts one surface pattern into typed IR. It never fails;
// unresolvable fragments lower to Error nodes.
func (cx *Ctx) Lower(pat hir.Pat) *tir.Pat {
	return cx.lowerPattern(pat)
}

func (cx *Ctx) lowerPattern(pat hir.Pat) *tir.Pat {
	// The unadjusted pattern has the type that results *after* any implicit
	// dereferences recorded by the type checker. Wrap it in Deref nodes
	// consuming the adjustment list in reverse, so the outermost Deref
	// carries the first (least dereferenced) adjustment type.
	p := cx.lowerUnadjusted(pat)
	adjustments := cx.typeck.PatAdjustments(pat.ID())
	for i := len(adjustments) - 1; i >= 0; i-- {
		p = &tir.Pat{Ty: adjustments[i], Span: p.Span, Kind: tir.Deref{Sub: p}}
	}
	return p
}

func (cx *Ctx) lowerPatterns(pats []hir.Pat) []*tir.Pat {
	out := make([]*tir.Pat, len(pats))
	for i, p := range pats {
		out[i] = cx.lowerPattern(p)
	}
	return out
}

func (cx *Ctx) lowerOpt(pat hir.Pat) *tir.Pat {
	if pat == nil {
		return nil
	}
	return cx.lowerPattern(pat)
}

func (cx *Ctx) lowerUnadjusted(pat hir.Pat) *tir.Pat {
	ty := cx.typeck.NodeType(pat.ID())
	span := pat.Span()

	var kind tir.Kind
	switch p := pat.(type) {
	case *hir.WildPat:
		kind = tir.Wild{}

	case *hir.LitPat:
		kind = cx.lowerLit(p.Expr)

	case *hir.RangePat:
		k, err := cx.lowerRange(p.Lo, p.Hi, p.End, ty, span)
		if err != nil {
			kind = tir.Error{Err: handleOf(err)}
		} else {
			kind = k
		}

	case *hir.PathPat:
		return cx.lowerPathNode(p.ID(), span)

	case *hir.RefPat:
		kind = tir.Deref{Sub: cx.lowerPattern(p.Sub)}

	case *hir.BoxPat:
		kind = tir.Deref{Sub: cx.lowerPattern(p.Sub)}

	case *hir.SlicePat:
		kind = cx.lowerSliceOrArray(span, ty, p)

	case *hir.TuplePat:
		tup, ok := ty.(types.Tuple)
		if !ok {
			panic(fmt.Sprintf("lower: unexpected type %s for tuple pattern at %s", ty, span))
		}
		kind = tir.Leaf{Fields: cx.lowerTupleSubpats(p.Elems, len(tup.Elems), p.DotDotPos)}

	case *hir.BindingPat:
		// `ref x` reuses the variable's node, so the node type is the
		// reference type &T while the pattern must match the referent T.
		if span.Contains(p.IdentSpan) {
			span = span.WithHi(p.IdentSpan.Hi)
		}
		bm := cx.typeck.BindingMode(p.ID())
		mutable := false
		mode := tir.BindByValue
		switch {
		case !bm.ByRef:
			mutable = bm.Mutable
		case bm.RefMutable:
			mode = tir.BindByRefUnique
		default:
			mode = tir.BindByRefShared
		}
		varTy := ty
		if bm.ByRef {
			ref, ok := ty.(types.Ref)
			if !ok {
				panic(fmt.Sprintf("lower: by-ref binding %q has non-reference type %s", p.Name, ty))
			}
			ty = ref.Elem
		}
		kind = tir.Binding{
			Mutable:   mutable,
			Mode:      mode,
			Name:      p.Name,
			Var:       p.Var,
			VarTy:     varTy,
			Sub:       cx.lowerOpt(p.Sub),
			IsPrimary: hir.NodeID(p.Var) == p.ID(),
		}

	case *hir.TupleStructPat:
		res := cx.typeck.Resolution(p.ID())
		arity := ctorArity(res, len(p.Elems))
		fields := cx.lowerTupleSubpats(p.Elems, arity, p.DotDotPos)
		kind = cx.lowerVariantOrLeaf(res, p.ID(), span, ty, fields)

	case *hir.StructPat:
		res := cx.typeck.Resolution(p.ID())
		fields := make([]tir.FieldPat, len(p.Fields))
		for i, f := range p.Fields {
			fields[i] = tir.FieldPat{
				Field: cx.typeck.FieldIndex(f.Node),
				Pat:   cx.lowerPattern(f.Pat),
			}
		}
		kind = cx.lowerVariantOrLeaf(res, p.ID(), span, ty, fields)

	case *hir.OrPat:
		kind = tir.Or{Alts: cx.lowerPatterns(p.Alts)}

	default:
		panic(fmt.Sprintf("lower: unhandled surface pattern %T", pat))
	}

	return &tir.Pat{Ty: ty, Span: span, Kind: kind}
}

// lowerTupleSubpats assigns field indices positionally, shifting indices
// after a `..` gap so suffix patterns line up with the trailing fields.
func (cx *Ctx) lowerTupleSubpats(pats []hir.Pat, expectedLen, gapPos int) []tir.FieldPat {
	out := make([]tir.FieldPat, len(pats))
	for i, sub := range pats {
		idx := i
		if gapPos >= 0 && i >= gapPos {
			idx = i + expectedLen - len(pats)
		}
		out[i] = tir.FieldPat{Field: idx, Pat: cx.lowerPattern(sub)}
	}
	return out
}

func (cx *Ctx) lowerSliceOrArray(span source.Span, ty types.Ty, p *hir.SlicePat) tir.Kind {
	prefix := cx.lowerPatterns(p.Prefix)
	var elem types.Ty
	switch t := ty.(type) {
	case types.Slice:
		elem = t.Elem
	case types.Array:
		elem = t.Elem
	}
	var middle *tir.Pat
	if p.HasRest {
		if p.Rest != nil {
			middle = cx.lowerPattern(p.Rest)
		} else if elem != nil {
			// A bare `..` binds nothing but still matches the gap.
			middle = &tir.Pat{Ty: types.Slice{Elem: elem}, Span: span, Kind: tir.Wild{}}
		}
	}
	suffix := cx.lowerPatterns(p.Suffix)

	switch t := ty.(type) {
	case types.Slice:
		return tir.Slice{Prefix: prefix, Middle: middle, Suffix: suffix}
	case types.Array:
		if t.Len < len(prefix)+len(suffix) {
			panic(fmt.Sprintf(
				"lower: array pattern at %s has %d sub-patterns but the array length is %d",
				span, len(prefix)+len(suffix), t.Len,
			))
		}
		return tir.Array{Prefix: prefix, Middle: middle, Suffix: suffix}
	default:
		panic(fmt.Sprintf("lower: bad slice pattern type %s at %s", ty, span))
	}
}

// lowerVariantOrLeaf normalizes a constructor resolution to its owning
// variant and builds the matching IR form. Multi-variant enums need a
// Variant node with a discriminant test; everything matched structurally
// becomes a Leaf. A user-written type ascription on the pattern's syntax
// node wraps the result covariantly.
func (cx *Ctx) lowerVariantOrLeaf(res hir.Res, id hir.NodeID, span source.Span, ty types.Ty, fields []tir.FieldPat) tir.Kind {
	var kind tir.Kind
	switch r := res.(type) {
	case hir.VariantRes:
		if r.Adt.IsEnum() {
			var args []types.Ty
			switch t := ty.(type) {
			case types.Adt:
				args = t.Args
			case types.Error:
				// The scrutinee type already failed to check; reuse the
				// diagnostic the earlier phase recorded.
				return tir.Error{Err: t.Err}
			default:
				panic(fmt.Sprintf("lower: inappropriate type %s for variant pattern at %s", ty, span))
			}
			kind = tir.Variant{Adt: r.Adt, Args: args, Index: r.Variant, Fields: fields}
		} else {
			kind = tir.Leaf{Fields: fields}
		}

	case hir.StructRes:
		kind = tir.Leaf{Fields: fields}

	case hir.ConstParamRes:
		h := cx.diags.Errorf(diag.ConstParamInPattern, span,
			"const parameter %q cannot be referenced in a pattern", r.Name)
		kind = tir.Error{Err: h}

	case hir.StaticRes:
		h := cx.diags.Errorf(diag.StaticInPattern, span,
			"static %q cannot be referenced in a pattern", r.Name)
		kind = tir.Error{Err: h}

	default:
		h := cx.diags.Errorf(diag.NonConstantPath, span,
			"path in pattern does not denote a constant or constructor")
		kind = tir.Error{Err: h}
	}

	if userTy, ok := cx.typeck.UserType(id); ok {
		kind = tir.Ascribe{
			Sub:        &tir.Pat{Ty: ty, Span: span, Kind: kind},
			Annotation: userTy,
			InferredTy: cx.typeck.NodeType(id),
			Variance:   tir.Covariant,
		}
	}
	return kind
}

// ctorArity returns the declared field count of the constructor res names,
// falling back to the written arity when resolution failed.
func ctorArity(res hir.Res, fallback int) int {
	switch r := res.(type) {
	case hir.VariantRes:
		return len(r.Adt.Variants[r.Variant].Fields)
	case hir.StructRes:
		return len(r.Adt.Variants[0].Fields)
	default:
		return fallback
	}
}

// reportedErr propagates a handle for a diagnostic that has already been
// emitted; callers turn it into an Error IR node without reporting again.
type reportedErr struct {
	handle diag.Handle
}

func (reportedErr) Error() string { return "lower: diagnostic already reported" }

func handleOf(err error) diag.Handle {
	re, ok := err.(reportedErr)
	if !ok {
		panic(fmt.Sprintf("lower: unreported lowering failure: %v", err))
	}
	return re.handle
}
