package tir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quill/internal/cval"
	"github.com/quill-lang/quill/internal/hir"
	"github.com/quill-lang/quill/internal/source"
	"github.com/quill-lang/quill/internal/types"
)

func samplePat() *Pat {
	u8 := types.Uint{Bits: 8}
	opt := &types.AdtDef{
		Name: "Option",
		Kind: types.AdtEnum,
		Variants: []types.VariantDef{
			{Name: "None"},
			{Name: "Some", Fields: []types.FieldDef{{Name: "0", Ty: u8}}},
		},
	}
	optTy := types.Adt{Def: opt}
	sp := source.New("sample", 0, 24)

	return &Pat{
		Ty:   types.Ref{Elem: optTy},
		Span: sp,
		Kind: Deref{Sub: &Pat{
			Ty:   optTy,
			Span: sp,
			Kind: Or{Alts: []*Pat{
				{
					Ty:   optTy,
					Span: sp,
					Kind: Variant{Adt: opt, Index: 1, Fields: []FieldPat{
						{Field: 0, Pat: &Pat{
							Ty:   u8,
							Span: sp,
							Kind: Binding{
								Name:      "n",
								Var:       hir.VarID(7),
								VarTy:     u8,
								IsPrimary: true,
								Sub: &Pat{
									Ty:   u8,
									Span: sp,
									Kind: Range{
										Lo:  cval.NewScalar(u8, 1),
										Hi:  cval.NewScalar(u8, 9),
										End: hir.RangeIncluded,
									},
								},
							},
						}},
					}},
				},
				{
					Ty:   optTy,
					Span: sp,
					Kind: Variant{Adt: opt, Index: 0},
				},
			}},
		}},
	}
}

func TestIdentityFoldCopies(t *testing.T) {
	orig := samplePat()
	copied := Fold(IdentityFolder{}, orig)

	assert.Equal(t, orig, copied)
	assert.NotSame(t, orig, copied)

	// the copy must be deep: rewriting it leaves the original intact
	deref := copied.Kind.(Deref)
	or := deref.Sub.Kind.(Or)
	or.Alts[0].Kind = Wild{}
	_, stillVariant := orig.Kind.(Deref).Sub.Kind.(Or).Alts[0].Kind.(Variant)
	assert.True(t, stillVariant)
}

// wildErrors replaces every Error node with a wildcard, the shape of the
// erasure passes that run before exhaustiveness analysis.
type wildErrors struct{}

func (f wildErrors) FoldPat(p *Pat) *Pat { return SuperFoldPat(f, p) }
func (f wildErrors) FoldKind(k Kind) Kind {
	if _, ok := k.(Error); ok {
		return Wild{}
	}
	return SuperFoldKind(f, k)
}

func TestRewriteFold(t *testing.T) {
	u8 := types.Uint{Bits: 8}
	sp := source.New("sample", 0, 8)
	p := &Pat{
		Ty:   types.Tuple{Elems: []types.Ty{u8, u8}},
		Span: sp,
		Kind: Leaf{Fields: []FieldPat{
			{Field: 0, Pat: &Pat{Ty: u8, Span: sp, Kind: Error{Err: 0}}},
			{Field: 1, Pat: &Pat{Ty: u8, Span: sp, Kind: Const{Value: cval.NewScalar(u8, 3)}}},
		}},
	}

	rewritten := Fold(wildErrors{}, p)

	leaf, ok := rewritten.Kind.(Leaf)
	require.True(t, ok)
	assert.Equal(t, Wild{}, leaf.Fields[0].Pat.Kind)
	assert.Equal(t, Const{Value: cval.NewScalar(u8, 3)}, leaf.Fields[1].Pat.Kind)

	// input unchanged
	_, isErr := p.Kind.(Leaf).Fields[0].Pat.Kind.(Error)
	assert.True(t, isErr)
}
