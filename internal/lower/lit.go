package lower

import (
	"errors"
	"fmt"

	"github.com/quill-lang/quill/internal/cval"
	"github.com/quill-lang/quill/internal/diag"
	"github.com/quill-lang/quill/internal/hir"
	"github.com/quill-lang/quill/internal/source"
	"github.com/quill-lang/quill/internal/tir"
)

// lowerLit converts literals, negated literals, paths and inline const
// blocks in pattern position. Negation is recognized syntactically before
// the literal is evaluated, so the most negative value of a signed type
// lowers without an intermediate overflow.
func (cx *Ctx) lowerLit(expr hir.Expr) tir.Kind {
	var lit hir.Lit
	var litSpan source.Span
	neg := false

	switch e := expr.(type) {
	case *hir.PathExpr:
		return cx.lowerPathNode(e.ID(), e.Span()).Kind
	case *hir.ConstBlockExpr:
		return cx.lowerInlineConst(e)
	case *hir.LitExpr:
		lit, litSpan = e.Lit, e.Span()
	case *hir.NegExpr:
		sub, ok := e.Sub.(*hir.LitExpr)
		if !ok {
			panic(fmt.Sprintf("lower: negation of a non-literal %T at %s", e.Sub, e.Span()))
		}
		lit, litSpan, neg = sub.Lit, sub.Span(), true
	default:
		panic(fmt.Sprintf("lower: not a literal pattern expression: %T at %s", expr, expr.Span()))
	}

	c, err := cval.LitToConst(lit, cx.typeck.NodeType(expr.ID()), neg)
	if err != nil {
		// The type checker accepts only literals that inhabit the pattern
		// type; a mismatch here is an upstream bug.
		panic(fmt.Sprintf("lower: literal type error escaped type checking at %s: %v", litSpan, err))
	}
	return cx.decomp.Decompose(c, litSpan).Kind
}

// lowerPathNode lowers a path in pattern position. Constant paths are
// evaluated and decomposed; anything else builds a variant or leaf node
// directly (a unit enum variant written as a bare path, for example).
func (cx *Ctx) lowerPathNode(id hir.NodeID, span source.Span) *tir.Pat {
	ty := cx.typeck.NodeType(id)
	res := cx.typeck.Resolution(id)

	cr, isConst := res.(hir.ConstRes)
	if !isConst {
		return &tir.Pat{Ty: ty, Span: span, Kind: cx.lowerVariantOrLeaf(res, id, span, ty, nil)}
	}

	errPat := func(h diag.Handle) *tir.Pat {
		return &tir.Pat{Ty: ty, Span: span, Kind: tir.Error{Err: h}}
	}

	args := cx.typeck.GenericArgs(id)
	// Prefer the structured value so the decomposer can build structural
	// sub-patterns; fall back to the opaque representation.
	c, structured, err := cx.oracle.EvalStructured(cr.Const, args, ty)
	switch {
	case errors.Is(err, cval.ErrUnresolved) && cr.Assoc:
		return errPat(cx.diags.Errorf(diag.AssocConstUnresolved, span,
			"associated constant %q could not be resolved to a concrete implementation", cr.Const))
	case errors.Is(err, cval.ErrTooGeneric):
		// Distinguishable from a generic evaluation failure, and more
		// informative for the user.
		return errPat(cx.diags.Errorf(diag.ConstEvalTooGeneric, span,
			"constant pattern depends on a generic parameter"))
	case err != nil:
		return errPat(cx.diags.Errorf(diag.ConstEvalFailed, span,
			"could not evaluate constant pattern"))
	}
	if !structured {
		c, err = cx.oracle.EvalOpaque(cr.Const, args, ty)
		if err != nil {
			return errPat(cx.diags.Errorf(diag.ConstEvalFailed, span,
				"could not evaluate constant pattern"))
		}
	}

	pat := cx.decomp.Decompose(c, span)
	if !cr.Assoc {
		return pat
	}

	// Associated constants carry their ascription themselves. The
	// ascription is contravariant here, unlike the covariant one used for
	// resolved constructor paths: the declared type of the constant must
	// be a subtype of the type this pattern position expects.
	if userTy, ok := cx.typeck.UserType(id); ok {
		return &tir.Pat{
			Ty:   c.Type(),
			Span: span,
			Kind: tir.Ascribe{
				Sub:        pat,
				Annotation: userTy,
				InferredTy: cx.typeck.NodeType(id),
				Variance:   tir.Contravariant,
			},
		}
	}
	return pat
}

// lowerInlineConst converts `const { ... }` block patterns. Blocks that are
// just a (possibly negated) literal skip the evaluation round-trip.
func (cx *Ctx) lowerInlineConst(e *hir.ConstBlockExpr) tir.Kind {
	ty := cx.typeck.NodeType(e.ID())
	span := e.Span()

	if lit, neg, ok := literalBody(e.Body); ok {
		c, err := cval.LitToConst(lit, ty, neg)
		if err == nil {
			return cx.decomp.Decompose(c, span).Kind
		}
		// Ignore that the block is a literal and leave reporting to the
		// const eval path below.
	}

	args := cx.typeck.GenericArgs(e.ID())
	c, structured, err := cx.oracle.EvalStructured(e.Const, args, ty)
	switch {
	case errors.Is(err, cval.ErrTooGeneric):
		return tir.Error{Err: cx.diags.Errorf(diag.ConstEvalTooGeneric, span,
			"constant pattern depends on a generic parameter")}
	case err != nil:
		return tir.Error{Err: cx.diags.Errorf(diag.ConstEvalFailed, span,
			"could not evaluate constant pattern")}
	}
	if !structured {
		c, err = cx.oracle.EvalOpaque(e.Const, args, ty)
		if err != nil {
			return tir.Error{Err: cx.diags.Errorf(diag.ConstEvalFailed, span,
				"could not evaluate constant pattern")}
		}
	}
	return cx.decomp.Decompose(c, span).Kind
}

// literalBody recognizes const blocks whose body is just a literal or a
// negated literal.
func literalBody(body hir.Expr) (hir.Lit, bool, bool) {
	switch b := body.(type) {
	case *hir.LitExpr:
		return b.Lit, false, true
	case *hir.NegExpr:
		if sub, ok := b.Sub.(*hir.LitExpr); ok {
			return sub.Lit, true, true
		}
	}
	return hir.Lit{}, false, false
}
