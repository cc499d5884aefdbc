package cval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/quill-lang/quill/internal/types"
)

// Const is an evaluated constant value tagged with its type. Scalars carry a
// raw bit pattern, Branch values are fully structured ("valtrees"), and
// Opaque values could not be decomposed beyond a byte-level representation.
type Const interface {
	isConst()
	Type() types.Ty
	String() string
}

// Scalar is a constant whose value fits one machine scalar. Bits holds the
// value's bit pattern truncated to the type's width; signed values are in
// two's complement.
type Scalar struct {
	Ty   types.Ty
	Bits uint64
}

func (Scalar) isConst()         {}
func (s Scalar) Type() types.Ty { return s.Ty }

func (s Scalar) String() string {
	switch t := s.Ty.(type) {
	case types.Bool:
		if s.Bits != 0 {
			return "true"
		}
		return "false"
	case types.Char:
		return strconv.QuoteRune(rune(s.Bits))
	case types.Int:
		return strconv.FormatInt(SignExtend(s.Bits, t.Bits), 10)
	case types.Uint:
		return strconv.FormatUint(s.Bits, 10)
	case types.Float:
		if t.Bits == 32 {
			return strconv.FormatFloat(float64(math.Float32frombits(uint32(s.Bits))), 'g', -1, 32)
		}
		return strconv.FormatFloat(math.Float64frombits(s.Bits), 'g', -1, 64)
	default:
		return fmt.Sprintf("{%#x: %s}", s.Bits, s.Ty)
	}
}

// NewScalar truncates bits to the width of ty and wraps it as a constant.
func NewScalar(ty types.Ty, bits uint64) Scalar {
	if w, ok := types.ScalarWidth(ty); ok && w < 64 {
		bits &= types.MaxForWidth(w)
	}
	return Scalar{Ty: ty, Bits: bits}
}

// Branch is a structured constant: an aggregate decomposed into its parts.
// Variant is the variant index when Ty names a multi-variant enum, zero
// otherwise.
type Branch struct {
	Ty      types.Ty
	Variant int
	Elems   []Const
}

func (*Branch) isConst()         {}
func (b *Branch) Type() types.Ty { return b.Ty }

func (b *Branch) String() string {
	parts := make([]string, len(b.Elems))
	for i, e := range b.Elems {
		parts[i] = e.String()
	}
	head := b.Ty.String()
	if adt, ok := b.Ty.(types.Adt); ok && adt.Def.IsEnum() {
		head = adt.Def.Name + "::" + adt.Def.Variants[b.Variant].Name
	}
	return head + "(" + strings.Join(parts, ", ") + ")"
}

// Opaque is a constant that evaluated but has no structured form. Rep is a
// stable byte-level representation used for equality and deterministic
// ordering.
type Opaque struct {
	Ty  types.Ty
	Rep string
}

func (Opaque) isConst()         {}
func (o Opaque) Type() types.Ty { return o.Ty }
func (o Opaque) String() string { return fmt.Sprintf("<opaque %s: %s>", o.Rep, o.Ty) }

// StrConst is a string constant. Strings match by value equality and never
// decompose structurally.
type StrConst struct {
	Value string
}

func (StrConst) isConst()         {}
func (s StrConst) Type() types.Ty { return types.Str{} }
func (s StrConst) String() string { return strconv.Quote(s.Value) }

// SignExtend interprets bits as a two's complement value of the given width.
func SignExtend(bits uint64, width uint) int64 {
	if width == 0 || width >= 64 {
		return int64(bits)
	}
	shift := 64 - width
	return int64(bits<<shift) >> shift
}
