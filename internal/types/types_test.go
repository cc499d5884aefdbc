package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	u8 := Uint{Bits: 8}
	def := &AdtDef{Name: "Opt", Kind: AdtEnum, Variants: []VariantDef{{Name: "A"}, {Name: "B"}}}
	sameShape := &AdtDef{Name: "Opt", Kind: AdtEnum, Variants: []VariantDef{{Name: "A"}, {Name: "B"}}}

	tests := []struct {
		name     string
		a, b     Ty
		expected bool
	}{
		{"same scalar", u8, Uint{Bits: 8}, true},
		{"different width", u8, Uint{Bits: 16}, false},
		{"signedness matters", Int{Bits: 8}, u8, false},
		{"ref mutability matters", Ref{Elem: u8}, Ref{Elem: u8, Mutable: true}, false},
		{"nested refs", Ref{Elem: Ref{Elem: u8}}, Ref{Elem: Ref{Elem: u8}}, true},
		{"tuples elementwise", Tuple{Elems: []Ty{u8, u8}}, Tuple{Elems: []Ty{u8, u8}}, true},
		{"tuple arity", Tuple{Elems: []Ty{u8}}, Tuple{Elems: []Ty{u8, u8}}, false},
		{"array length matters", Array{Elem: u8, Len: 2}, Array{Elem: u8, Len: 3}, false},
		{"adt by definition identity", Adt{Def: def}, Adt{Def: def}, true},
		{"structurally equal adts differ", Adt{Def: def}, Adt{Def: sameShape}, false},
		{"error types are interchangeable", Error{Err: 1}, Error{Err: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Equal(tt.a, tt.b))
		})
	}
}

func TestIsEnum(t *testing.T) {
	multi := &AdtDef{Kind: AdtEnum, Variants: []VariantDef{{Name: "A"}, {Name: "B"}}}
	single := &AdtDef{Kind: AdtEnum, Variants: []VariantDef{{Name: "Only"}}}
	strct := &AdtDef{Kind: AdtStruct, Variants: []VariantDef{{Name: "S"}}}

	assert.True(t, multi.IsEnum())
	assert.False(t, single.IsEnum(), "single-variant enums match structurally")
	assert.False(t, strct.IsEnum())
}

func TestNumericBounds(t *testing.T) {
	minBits, maxBits, ok := NumericBounds(Int{Bits: 8})
	assert.True(t, ok)
	assert.Equal(t, uint64(0x80), minBits)
	assert.Equal(t, uint64(0x7f), maxBits)

	minBits, maxBits, ok = NumericBounds(Uint{Bits: 16})
	assert.True(t, ok)
	assert.Equal(t, uint64(0), minBits)
	assert.Equal(t, uint64(0xffff), maxBits)

	_, maxBits, ok = NumericBounds(Char{})
	assert.True(t, ok)
	assert.Equal(t, uint64(0x10FFFF), maxBits)

	_, _, ok = NumericBounds(Str{})
	assert.False(t, ok)
}

func TestLiteralBounds(t *testing.T) {
	min, max, maxMagnitude, ok := LiteralBounds(Int{Bits: 8})
	assert.True(t, ok)
	assert.Equal(t, int64(-128), min)
	assert.Equal(t, uint64(127), max)
	assert.Equal(t, uint64(127), maxMagnitude)

	min, max, maxMagnitude, ok = LiteralBounds(Uint{Bits: 64})
	assert.True(t, ok)
	assert.Equal(t, int64(0), min)
	assert.Equal(t, ^uint64(0), max)
	assert.Equal(t, ^uint64(0), maxMagnitude)

	_, _, _, ok = LiteralBounds(Float{Bits: 64})
	assert.False(t, ok)
}

func TestTyString(t *testing.T) {
	u8 := Uint{Bits: 8}
	def := &AdtDef{Name: "Opt"}

	assert.Equal(t, "&mut u8", Ref{Elem: u8, Mutable: true}.String())
	assert.Equal(t, "box u8", Box{Elem: u8}.String())
	assert.Equal(t, "[u8; 4]", Array{Elem: u8, Len: 4}.String())
	assert.Equal(t, "[u8]", Slice{Elem: u8}.String())
	assert.Equal(t, "(u8, bool)", Tuple{Elems: []Ty{u8, Bool{}}}.String())
	assert.Equal(t, "Opt<u8>", Adt{Def: def, Args: []Ty{u8}}.String())
}
