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

// endpointAscription is a type ascription stripped off a range endpoint,
// re-attached to the finished range node. Associated-constant endpoints are
// the only source of these.
type endpointAscription struct {
	annotation types.UserAnnotation
	inferredTy types.Ty
	variance   tir.Variance
}

// lowerRange resolves range endpoints to constants, fills open bounds with
// the type's numeric extrema and validates that the interval is non-empty.
// An inclusive range with equal endpoints normalizes to a constant pattern.
// The returned error always wraps an already-reported diagnostic.
func (cx *Ctx) lowerRange(loExpr, hiExpr hir.Expr, end hir.RangeEnd, ty types.Ty, span source.Span) (tir.Kind, error) {
	if loExpr == nil && hiExpr == nil {
		// The parser rejects `..` as a standalone pattern.
		panic(fmt.Sprintf("lower: twice-open range pattern at %s outside of error recovery", span))
	}

	lo, loAscr, err := cx.lowerRangeEndpoint(loExpr)
	if err != nil {
		return nil, err
	}
	hi, hiAscr, err := cx.lowerRangeEndpoint(hiExpr)
	if err != nil {
		return nil, err
	}

	if lo == nil {
		lo = numericExtremum(ty, span, false)
	}
	if hi == nil {
		hi = numericExtremum(ty, span, true)
	}
	if !types.Equal(lo.Type(), ty) || !types.Equal(hi.Type(), ty) {
		panic(fmt.Sprintf("lower: range endpoints at %s have types %s and %s, want %s",
			span, lo.Type(), hi.Type(), ty))
	}

	cmp, comparable := cval.Compare(lo, hi)
	var kind tir.Kind
	switch {
	// `x..y` where `x < y`: non-empty because it includes at least `x`.
	case end == hir.RangeExcluded && comparable && cmp == cval.Less:
		kind = tir.Range{Lo: lo, Hi: hi, End: end}
	// `x..=y` where `x == y` matches exactly one value.
	case end == hir.RangeIncluded && comparable && cmp == cval.Equal:
		kind = tir.Const{Value: lo}
	case end == hir.RangeIncluded && comparable && cmp == cval.Less:
		kind = tir.Range{Lo: lo, Hi: hi, End: end}
	default:
		// The interval is empty or the endpoints are incomparable. An
		// overflowed endpoint literal has already wrapped around by now
		// and masquerades as `lo > hi`, so re-inspect the original
		// expressions first and prefer the overflow message.
		if h, overflowed := cx.literalOverflow(loExpr, ty); overflowed {
			return nil, reportedErr{handle: h}
		}
		if h, overflowed := cx.literalOverflow(hiExpr, ty); overflowed {
			return nil, reportedErr{handle: h}
		}
		var h diag.Handle
		if end == hir.RangeIncluded {
			h = cx.diags.Errorf(diag.MalformedRange, span,
				"lower range bound must be less than or equal to upper bound")
		} else {
			h = cx.diags.Errorf(diag.MalformedRange, span,
				"lower range bound must be less than upper bound")
		}
		return nil, reportedErr{handle: h}
	}

	// Endpoints that were associated constants carry their own
	// ascriptions; hang them on the range node. Lo and hi may each carry
	// one, and the two are not required to agree here: consistency is
	// checked by the downstream type-consistency pass.
	for _, ascr := range [...]*endpointAscription{loAscr, hiAscr} {
		if ascr == nil {
			continue
		}
		kind = tir.Ascribe{
			Sub:        &tir.Pat{Ty: ty, Span: span, Kind: kind},
			Annotation: ascr.annotation,
			InferredTy: ascr.inferredTy,
			Variance:   ascr.variance,
		}
	}
	return kind, nil
}

// lowerRangeEndpoint evaluates one optional bound to a constant, keeping
// any ascription wrapper the constant lowering produced.
func (cx *Ctx) lowerRangeEndpoint(expr hir.Expr) (cval.Const, *endpointAscription, error) {
	if expr == nil {
		return nil, nil, nil
	}
	kind := cx.lowerLit(expr)

	var ascr *endpointAscription
	if asc, ok := kind.(tir.Ascribe); ok {
		ascr = &endpointAscription{
			annotation: asc.Annotation,
			inferredTy: asc.InferredTy,
			variance:   asc.Variance,
		}
		kind = asc.Sub.Kind
	}

	switch k := kind.(type) {
	case tir.Const:
		return k.Value, ascr, nil
	case tir.Error:
		return nil, nil, reportedErr{handle: k.Err}
	default:
		panic(fmt.Sprintf("lower: bad range pattern endpoint %T at %s outside of error recovery",
			kind, expr.Span()))
	}
}

// literalOverflow re-inspects an original endpoint expression for a literal
// outside the type's representable range. The comparison must use the
// unevaluated magnitude, because the evaluated bit pattern has already
// wrapped.
func (cx *Ctx) literalOverflow(expr hir.Expr, ty types.Ty) (diag.Handle, bool) {
	if expr == nil {
		return 0, false
	}
	span := expr.Span()

	negated := false
	if neg, ok := expr.(*hir.NegExpr); ok {
		negated = true
		expr = neg.Sub
	}
	lit, ok := expr.(*hir.LitExpr)
	if !ok || lit.Lit.Kind != hir.LitInt {
		return 0, false
	}
	min, max, maxMagnitude, ok := types.LiteralBounds(ty)
	if !ok {
		return 0, false
	}

	magnitude := lit.Lit.Uint
	overflowed := false
	switch {
	case !negated:
		overflowed = magnitude > maxMagnitude
	case isUint(ty):
		overflowed = magnitude > 0
	default:
		// One more than the positive maximum is representable negated
		// (the type's most negative value).
		overflowed = magnitude > maxMagnitude+1
	}
	if !overflowed {
		return 0, false
	}

	h := cx.diags.Emit(diag.Diagnostic{
		Code:     diag.LiteralOverflow,
		Severity: diag.SeverityError,
		Span:     span,
		Message:  fmt.Sprintf("literal out of range for %s", ty),
		Note:     fmt.Sprintf("the range of %s is %d..=%d", ty, min, max),
	})
	return h, true
}

func isUint(ty types.Ty) bool {
	_, ok := ty.(types.Uint)
	return ok
}

// numericExtremum fills an open range bound with the type's minimum or
// maximum. Open bounds only type-check against numeric types, so a missing
// extremum is an upstream bug.
func numericExtremum(ty types.Ty, span source.Span, max bool) cval.Const {
	minBits, maxBits, ok := types.NumericBounds(ty)
	if !ok {
		panic(fmt.Sprintf("lower: open range bound over non-numeric type %s at %s", ty, span))
	}
	if max {
		return cval.Scalar{Ty: ty, Bits: maxBits}
	}
	return cval.Scalar{Ty: ty, Bits: minBits}
}
