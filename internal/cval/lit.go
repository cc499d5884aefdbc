package cval

import (
	"errors"
	"math"

	"github.com/quill-lang/quill/internal/hir"
	"github.com/quill-lang/quill/internal/types"
)

// ErrLitTypeMismatch reports a literal paired with a type it cannot inhabit.
// The type checker rejects such programs before lowering, so callers treat
// this as an invariant violation rather than a user diagnostic.
var ErrLitTypeMismatch = errors.New("cval: literal does not fit pattern type")

// LitToConst converts a literal token to a constant of the expected type.
// Negation is applied to the magnitude here, before truncation to the
// type's width, so the most negative value of a signed type converts
// without overflowing. Out-of-range magnitudes wrap; overflow detection is
// the caller's concern because only malformed ranges need it.
func LitToConst(lit hir.Lit, ty types.Ty, neg bool) (Const, error) {
	switch lit.Kind {
	case hir.LitInt:
		switch ty.(type) {
		case types.Int, types.Uint:
			bits := lit.Uint
			if neg {
				bits = -bits
			}
			return NewScalar(ty, bits), nil
		case types.Char:
			if neg {
				return nil, ErrLitTypeMismatch
			}
			return NewScalar(ty, lit.Uint), nil
		case types.Float:
			return floatConst(ty, float64(lit.Uint), neg)
		}
	case hir.LitFloat:
		if _, ok := ty.(types.Float); ok {
			return floatConst(ty, lit.Float, neg)
		}
	case hir.LitBool:
		if _, ok := ty.(types.Bool); ok && !neg {
			var bits uint64
			if lit.Bool {
				bits = 1
			}
			return NewScalar(ty, bits), nil
		}
	case hir.LitChar:
		if _, ok := ty.(types.Char); ok && !neg {
			return NewScalar(ty, lit.Uint), nil
		}
	case hir.LitStr:
		if _, ok := ty.(types.Str); ok && !neg {
			return StrConst{Value: lit.Str}, nil
		}
	}
	return nil, ErrLitTypeMismatch
}

func floatConst(ty types.Ty, v float64, neg bool) (Const, error) {
	if neg {
		v = -v
	}
	ft := ty.(types.Float)
	if ft.Bits == 32 {
		return Scalar{Ty: ty, Bits: uint64(math.Float32bits(float32(v)))}, nil
	}
	return Scalar{Ty: ty, Bits: math.Float64bits(v)}, nil
}
