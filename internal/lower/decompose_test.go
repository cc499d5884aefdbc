package lower_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quill/internal/cval"
	"github.com/quill-lang/quill/internal/lower"
	"github.com/quill-lang/quill/internal/source"
	"github.com/quill-lang/quill/internal/tir"
	"github.com/quill-lang/quill/internal/types"
)

func TestStructuralDecomposer(t *testing.T) {
	u8 := types.Uint{Bits: 8}
	sp := source.New("t", 0, 4)
	d := lower.StructuralDecomposer{}

	t.Run("scalar stays a constant", func(t *testing.T) {
		got := d.Decompose(cval.NewScalar(u8, 5), sp)
		assert.Equal(t, tir.Const{Value: cval.NewScalar(u8, 5)}, got.Kind)
	})

	t.Run("nested aggregate decomposes recursively", func(t *testing.T) {
		opt := optionDef()
		optTy := types.Adt{Def: opt}
		tup := types.Tuple{Elems: []types.Ty{u8, optTy}}

		c := &cval.Branch{
			Ty: tup,
			Elems: []cval.Const{
				cval.NewScalar(u8, 1),
				&cval.Branch{Ty: optTy, Variant: 1, Elems: []cval.Const{cval.NewScalar(u8, 2)}},
			},
		}
		got := d.Decompose(c, sp)
		leaf := got.Kind.(tir.Leaf)
		require.Len(t, leaf.Fields, 2)
		variant := leaf.Fields[1].Pat.Kind.(tir.Variant)
		assert.Equal(t, 1, variant.Index)
		assert.Equal(t, "(0: 1, 1: Option::Some(0: 2))", got.String())
	})

	t.Run("reference peels to a deref", func(t *testing.T) {
		refU8 := types.Ref{Elem: u8}
		c := &cval.Branch{Ty: refU8, Elems: []cval.Const{cval.NewScalar(u8, 9)}}
		got := d.Decompose(c, sp)
		deref := got.Kind.(tir.Deref)
		assert.Equal(t, tir.Const{Value: cval.NewScalar(u8, 9)}, deref.Sub.Kind)
	})

	t.Run("array spreads its elements", func(t *testing.T) {
		arr := types.Array{Elem: u8, Len: 2}
		c := &cval.Branch{Ty: arr, Elems: []cval.Const{cval.NewScalar(u8, 1), cval.NewScalar(u8, 2)}}
		got := d.Decompose(c, sp)
		assert.Equal(t, "[1, 2]", got.String())
	})

	t.Run("opaque stays a constant", func(t *testing.T) {
		c := cval.Opaque{Ty: u8, Rep: "0x2a"}
		got := d.Decompose(c, sp)
		assert.Equal(t, tir.Const{Value: c}, got.Kind)
	})
}
