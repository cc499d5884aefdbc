package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quill/internal/types"
)

func TestParseType(t *testing.T) {
	u8 := types.Uint{Bits: 8}
	opt := &types.AdtDef{Name: "Option"}
	b := &builder{adts: map[string]*types.AdtDef{"Option": opt}}

	tests := []struct {
		src      string
		expected types.Ty
	}{
		{"bool", types.Bool{}},
		{"char", types.Char{}},
		{"str", types.Str{}},
		{"i64", types.Int{Bits: 64}},
		{"u8", u8},
		{"f32", types.Float{Bits: 32}},
		{"&u8", types.Ref{Elem: u8}},
		{"&mut u8", types.Ref{Elem: u8, Mutable: true}},
		{"&&u8", types.Ref{Elem: types.Ref{Elem: u8}}},
		{"box u8", types.Box{Elem: u8}},
		{"[u8]", types.Slice{Elem: u8}},
		{"[u8; 4]", types.Array{Elem: u8, Len: 4}},
		{"[&u8; 2]", types.Array{Elem: types.Ref{Elem: u8}, Len: 2}},
		{"()", types.Tuple{}},
		{"(u8, bool)", types.Tuple{Elems: []types.Ty{u8, types.Bool{}}}},
		{"(u8, (bool, str))", types.Tuple{Elems: []types.Ty{
			u8,
			types.Tuple{Elems: []types.Ty{types.Bool{}, types.Str{}}},
		}}},
		{"Option", types.Adt{Def: opt}},
		{"&mut [Option]", types.Ref{Elem: types.Slice{Elem: types.Adt{Def: opt}}, Mutable: true}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			ty, err := b.parseType(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ty)
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	b := &builder{adts: map[string]*types.AdtDef{}}

	for _, src := range []string{
		"",
		"Nope",
		"u9",
		"[u8",
		"[u8;]",
		"(u8,",
		"(u8 bool)",
		"u8 extra",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := b.parseType(src)
			assert.Error(t, err)
		})
	}
}
