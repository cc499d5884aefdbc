package cval

import (
	"fmt"
	"math"
	"strings"

	"github.com/quill-lang/quill/internal/types"
)

// Ordering is the result of a defined three-way comparison.
type Ordering int

const (
	Less Ordering = iota - 1
	Equal
	Greater
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "equal"
	}
}

// Compare orders two constants of the same type. The boolean is false when
// the values are incomparable: a float NaN, or a constant without an
// evaluated bit pattern on either side. Both operands must share one type;
// mixed-type comparison is an invariant violation of the caller.
//
// This is hot when checking matches with many ranges, so scalars of types
// whose bit order matches value order are compared raw.
func Compare(a, b Const) (Ordering, bool) {
	if !types.Equal(a.Type(), b.Type()) {
		panic(fmt.Sprintf("cval: comparing constants of different types %s and %s", a.Type(), b.Type()))
	}

	sa, aScalar := a.(Scalar)
	sb, bScalar := b.(Scalar)
	if !aScalar || !bScalar {
		return compareUnevaluated(a, b)
	}

	switch t := a.Type().(type) {
	case types.Float:
		if t.Bits == 32 {
			return cmpFloat(float64(math.Float32frombits(uint32(sa.Bits))), float64(math.Float32frombits(uint32(sb.Bits))))
		}
		return cmpFloat(math.Float64frombits(sa.Bits), math.Float64frombits(sb.Bits))
	case types.Int:
		ea := SignExtend(sa.Bits, t.Bits)
		eb := SignExtend(sb.Bits, t.Bits)
		switch {
		case ea < eb:
			return Less, true
		case ea > eb:
			return Greater, true
		default:
			return Equal, true
		}
	default:
		return cmpUint(sa.Bits, sb.Bits), true
	}
}

// compareUnevaluated orders constants with no evaluated bit pattern. Two
// opaque values order by representation and two strings lexicographically;
// everything else, an opaque against a scalar included, is incomparable and
// callers degrade to recovery.
func compareUnevaluated(a, b Const) (Ordering, bool) {
	if oa, ok := a.(Opaque); ok {
		if ob, ok := b.(Opaque); ok {
			return Ordering(strings.Compare(oa.Rep, ob.Rep)), true
		}
	}
	if sa, ok := a.(StrConst); ok {
		if sb, ok := b.(StrConst); ok {
			return Ordering(strings.Compare(sa.Value, sb.Value)), true
		}
	}
	return Equal, false
}

func cmpUint(a, b uint64) Ordering {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

func cmpFloat(a, b float64) (Ordering, bool) {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return Equal, false
	case a < b:
		return Less, true
	case a > b:
		return Greater, true
	default:
		return Equal, true
	}
}
