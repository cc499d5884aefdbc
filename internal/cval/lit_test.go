package cval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quill/internal/hir"
	"github.com/quill-lang/quill/internal/types"
)

func TestLitToConst(t *testing.T) {
	i8 := types.Int{Bits: 8}
	u8 := types.Uint{Bits: 8}

	tests := []struct {
		name     string
		lit      hir.Lit
		ty       types.Ty
		neg      bool
		expected Const
	}{
		{
			name:     "plain integer",
			lit:      hir.Lit{Kind: hir.LitInt, Uint: 5},
			ty:       u8,
			expected: Scalar{Ty: u8, Bits: 5},
		},
		{
			name:     "negated integer",
			lit:      hir.Lit{Kind: hir.LitInt, Uint: 1},
			ty:       i8,
			neg:      true,
			expected: Scalar{Ty: i8, Bits: 0xff},
		},
		{
			name: "most negative value of the type",
			// 128 does not fit i8, but -128 does; negation happens before
			// truncation
			lit:      hir.Lit{Kind: hir.LitInt, Uint: 128},
			ty:       i8,
			neg:      true,
			expected: Scalar{Ty: i8, Bits: 0x80},
		},
		{
			name:     "out of range magnitude wraps",
			lit:      hir.Lit{Kind: hir.LitInt, Uint: 130},
			ty:       i8,
			neg:      true,
			expected: Scalar{Ty: i8, Bits: 0x7e}, // -130 wrapped to 126
		},
		{
			name:     "integer literal at float type",
			lit:      hir.Lit{Kind: hir.LitInt, Uint: 2},
			ty:       types.Float{Bits: 64},
			expected: Scalar{Ty: types.Float{Bits: 64}, Bits: math.Float64bits(2)},
		},
		{
			name:     "float literal",
			lit:      hir.Lit{Kind: hir.LitFloat, Float: 1.5},
			ty:       types.Float{Bits: 32},
			neg:      true,
			expected: Scalar{Ty: types.Float{Bits: 32}, Bits: uint64(math.Float32bits(-1.5))},
		},
		{
			name:     "bool",
			lit:      hir.Lit{Kind: hir.LitBool, Bool: true},
			ty:       types.Bool{},
			expected: Scalar{Ty: types.Bool{}, Bits: 1},
		},
		{
			name:     "char",
			lit:      hir.Lit{Kind: hir.LitChar, Uint: 'x'},
			ty:       types.Char{},
			expected: Scalar{Ty: types.Char{}, Bits: 'x'},
		},
		{
			name:     "string",
			lit:      hir.Lit{Kind: hir.LitStr, Str: "hello"},
			ty:       types.Str{},
			expected: StrConst{Value: "hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LitToConst(tt.lit, tt.ty, tt.neg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestLitToConstMismatch(t *testing.T) {
	tests := []struct {
		name string
		lit  hir.Lit
		ty   types.Ty
		neg  bool
	}{
		{
			name: "bool literal at integer type",
			lit:  hir.Lit{Kind: hir.LitBool, Bool: true},
			ty:   types.Int{Bits: 32},
		},
		{
			name: "negated bool",
			lit:  hir.Lit{Kind: hir.LitBool, Bool: true},
			ty:   types.Bool{},
			neg:  true,
		},
		{
			name: "negated char",
			lit:  hir.Lit{Kind: hir.LitChar, Uint: 'x'},
			ty:   types.Char{},
			neg:  true,
		},
		{
			name: "string literal at char type",
			lit:  hir.Lit{Kind: hir.LitStr, Str: "x"},
			ty:   types.Char{},
		},
		{
			name: "float literal at integer type",
			lit:  hir.Lit{Kind: hir.LitFloat, Float: 1},
			ty:   types.Int{Bits: 32},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LitToConst(tt.lit, tt.ty, tt.neg)
			assert.ErrorIs(t, err, ErrLitTypeMismatch)
		})
	}
}

func TestScalarString(t *testing.T) {
	assert.Equal(t, "-128", Scalar{Ty: types.Int{Bits: 8}, Bits: 0x80}.String())
	assert.Equal(t, "255", Scalar{Ty: types.Uint{Bits: 8}, Bits: 0xff}.String())
	assert.Equal(t, "true", Scalar{Ty: types.Bool{}, Bits: 1}.String())
	assert.Equal(t, "'a'", Scalar{Ty: types.Char{}, Bits: 'a'}.String())
	assert.Equal(t, `"hi"`, StrConst{Value: "hi"}.String())
}
