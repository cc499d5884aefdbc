package types

import (
	"fmt"
	"strings"

	"github.com/quill-lang/quill/internal/diag"
	"github.com/quill-lang/quill/internal/source"
)

// Ty is the semantic type of a pattern or scrutinee. Types are read-only
// snapshots produced by the type checker; lowering never mutates them.
type Ty interface {
	isTy()
	String() string
}

// Bool is the boolean type.
type Bool struct{}

// Char is the unicode scalar value type.
type Char struct{}

// Int is a signed integer type of the given bit width (8, 16, 32 or 64).
type Int struct {
	Bits uint
}

// Uint is an unsigned integer type of the given bit width.
type Uint struct {
	Bits uint
}

// Float is a binary IEEE float type of the given bit width (32 or 64).
type Float struct {
	Bits uint
}

// Str is the string slice type.
type Str struct{}

// Ref is a reference type.
type Ref struct {
	Elem    Ty
	Mutable bool
}

// Box is an owning pointer type. Like Ref it is matched through one
// level of Deref.
type Box struct {
	Elem Ty
}

// Tuple is a fixed arity product type.
type Tuple struct {
	Elems []Ty
}

// Array is a fixed-length sequence type.
type Array struct {
	Elem Ty
	Len  int
}

// Slice is a variable-length sequence type.
type Slice struct {
	Elem Ty
}

// Adt is an instance of an algebraic data type with its generic arguments
// applied.
type Adt struct {
	Def  *AdtDef
	Args []Ty
}

// Error is the type assigned by the type checker to expressions that failed
// to check. It carries the handle of the diagnostic the earlier phase
// emitted, so lowering can propagate the failure without reporting twice.
type Error struct {
	Err diag.Handle
}

func (Bool) isTy()  {}
func (Char) isTy()  {}
func (Int) isTy()   {}
func (Uint) isTy()  {}
func (Float) isTy() {}
func (Str) isTy()   {}
func (Ref) isTy()   {}
func (Box) isTy()   {}
func (Tuple) isTy() {}
func (Array) isTy() {}
func (Slice) isTy() {}
func (Adt) isTy()   {}
func (Error) isTy() {}

func (Bool) String() string    { return "bool" }
func (Char) String() string    { return "char" }
func (t Int) String() string   { return fmt.Sprintf("i%d", t.Bits) }
func (t Uint) String() string  { return fmt.Sprintf("u%d", t.Bits) }
func (t Float) String() string { return fmt.Sprintf("f%d", t.Bits) }
func (Str) String() string     { return "str" }

func (t Ref) String() string {
	if t.Mutable {
		return "&mut " + t.Elem.String()
	}
	return "&" + t.Elem.String()
}

func (t Box) String() string { return "box " + t.Elem.String() }

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t Array) String() string { return fmt.Sprintf("[%s; %d]", t.Elem, t.Len) }
func (t Slice) String() string { return "[" + t.Elem.String() + "]" }

func (t Adt) String() string {
	if len(t.Args) == 0 {
		return t.Def.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Def.Name + "<" + strings.Join(parts, ", ") + ">"
}

func (Error) String() string { return "{type error}" }

// AdtKind distinguishes the three algebraic data type families.
type AdtKind int

const (
	AdtEnum AdtKind = iota
	AdtStruct
	AdtUnion
)

// AdtDef is the definition of an algebraic data type. Definitions are shared
// by identity: two Adt types name the same definition iff their Def pointers
// are equal.
type AdtDef struct {
	Name     string
	Kind     AdtKind
	Variants []VariantDef
}

// IsEnum reports whether matching a value of this ADT requires a
// discriminant test. A single-variant enum does not.
func (d *AdtDef) IsEnum() bool {
	return d.Kind == AdtEnum && len(d.Variants) > 1
}

// VariantDef is one case of an ADT. Structs and unions have exactly one.
type VariantDef struct {
	Name   string
	Fields []FieldDef
}

// FieldDef is a single field of a variant.
type FieldDef struct {
	Name string
	Ty   Ty
}

// UserAnnotation is a type annotation the user wrote on a pattern. It is
// preserved through lowering for later consistency checking.
type UserAnnotation struct {
	Ty   Ty
	Span source.Span
}

// Equal reports structural equality of two types. ADT definitions compare
// by identity.
func Equal(a, b Ty) bool {
	switch x := a.(type) {
	case Bool:
		_, ok := b.(Bool)
		return ok
	case Char:
		_, ok := b.(Char)
		return ok
	case Str:
		_, ok := b.(Str)
		return ok
	case Error:
		_, ok := b.(Error)
		return ok
	case Int:
		y, ok := b.(Int)
		return ok && x.Bits == y.Bits
	case Uint:
		y, ok := b.(Uint)
		return ok && x.Bits == y.Bits
	case Float:
		y, ok := b.(Float)
		return ok && x.Bits == y.Bits
	case Ref:
		y, ok := b.(Ref)
		return ok && x.Mutable == y.Mutable && Equal(x.Elem, y.Elem)
	case Box:
		y, ok := b.(Box)
		return ok && Equal(x.Elem, y.Elem)
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case Array:
		y, ok := b.(Array)
		return ok && x.Len == y.Len && Equal(x.Elem, y.Elem)
	case Slice:
		y, ok := b.(Slice)
		return ok && Equal(x.Elem, y.Elem)
	case Adt:
		y, ok := b.(Adt)
		if !ok || x.Def != y.Def || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ScalarWidth returns the bit width of a scalar type used in raw bit-pattern
// comparisons. ok is false for non-scalar types.
func ScalarWidth(t Ty) (uint, bool) {
	switch x := t.(type) {
	case Bool:
		return 8, true
	case Char:
		return 32, true
	case Int:
		return x.Bits, true
	case Uint:
		return x.Bits, true
	case Float:
		return x.Bits, true
	default:
		return 0, false
	}
}

// NumericBounds returns the bit patterns of the numeric minimum and maximum
// values of t, used to fill open range-pattern bounds. ok is false when the
// type has no numeric extrema.
func NumericBounds(t Ty) (minBits, maxBits uint64, ok bool) {
	switch x := t.(type) {
	case Int:
		// Two's complement bit patterns truncated to the width.
		minBits = uint64(1) << (x.Bits - 1)
		maxBits = minBits - 1
		return minBits, maxBits, true
	case Uint:
		return 0, MaxForWidth(x.Bits), true
	case Char:
		return 0, 0x10FFFF, true
	case Bool:
		return 0, 1, true
	default:
		return 0, 0, false
	}
}

// LiteralBounds returns, for an integer type, the inclusive value range
// [min, max] printed in overflow diagnostics, plus the largest literal
// magnitude representable without a leading minus sign. ok is false for
// non-integer types.
func LiteralBounds(t Ty) (min int64, max, maxMagnitude uint64, ok bool) {
	switch x := t.(type) {
	case Int:
		maxMagnitude = uint64(1)<<(x.Bits-1) - 1
		return -int64(1) << (x.Bits - 1), maxMagnitude, maxMagnitude, true
	case Uint:
		m := MaxForWidth(x.Bits)
		return 0, m, m, true
	default:
		return 0, 0, 0, false
	}
}

// MaxForWidth returns the largest unsigned value representable in bits.
func MaxForWidth(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<bits - 1
}
