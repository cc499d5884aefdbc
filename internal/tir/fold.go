package tir

import "github.com/quill-lang/quill/internal/types"

// Folder rewrites pattern trees structurally. Implementations override the
// cases they care about and delegate everything else to SuperFoldPat or
// SuperFoldKind, which recurse with the default per-kind rule. Scalar leaf
// fields (spans, types, identities, constants) are value-copied.
type Folder interface {
	FoldPat(p *Pat) *Pat
	FoldKind(k Kind) Kind
}

// Fold applies f to p, producing a new tree. The input is never mutated.
func Fold(f Folder, p *Pat) *Pat {
	return f.FoldPat(p)
}

// SuperFoldPat is the default recursion over a pattern node.
func SuperFoldPat(f Folder, p *Pat) *Pat {
	if p == nil {
		return nil
	}
	return &Pat{Ty: p.Ty, Span: p.Span, Kind: f.FoldKind(p.Kind)}
}

// SuperFoldKind is the default recursion over a pattern kind.
func SuperFoldKind(f Folder, k Kind) Kind {
	switch x := k.(type) {
	case Wild, Const, Range, Error:
		return x
	case Binding:
		x.Sub = foldOpt(f, x.Sub)
		return x
	case Variant:
		x.Args = append([]types.Ty(nil), x.Args...)
		x.Fields = foldFields(f, x.Fields)
		return x
	case Leaf:
		x.Fields = foldFields(f, x.Fields)
		return x
	case Deref:
		x.Sub = f.FoldPat(x.Sub)
		return x
	case Slice:
		x.Prefix = foldList(f, x.Prefix)
		x.Middle = foldOpt(f, x.Middle)
		x.Suffix = foldList(f, x.Suffix)
		return x
	case Array:
		x.Prefix = foldList(f, x.Prefix)
		x.Middle = foldOpt(f, x.Middle)
		x.Suffix = foldList(f, x.Suffix)
		return x
	case Or:
		x.Alts = foldList(f, x.Alts)
		return x
	case Ascribe:
		x.Sub = f.FoldPat(x.Sub)
		return x
	default:
		return x
	}
}

func foldOpt(f Folder, p *Pat) *Pat {
	if p == nil {
		return nil
	}
	return f.FoldPat(p)
}

func foldList(f Folder, ps []*Pat) []*Pat {
	if ps == nil {
		return nil
	}
	out := make([]*Pat, len(ps))
	for i, p := range ps {
		out[i] = f.FoldPat(p)
	}
	return out
}

func foldFields(f Folder, fs []FieldPat) []FieldPat {
	if fs == nil {
		return nil
	}
	out := make([]FieldPat, len(fs))
	for i, fp := range fs {
		out[i] = FieldPat{Field: fp.Field, Pat: f.FoldPat(fp.Pat)}
	}
	return out
}

// IdentityFolder rebuilds a tree unchanged. Folding with it yields a deep
// structural copy of the input.
type IdentityFolder struct{}

func (f IdentityFolder) FoldPat(p *Pat) *Pat { return SuperFoldPat(f, p) }
func (f IdentityFolder) FoldKind(k Kind) Kind {
	return SuperFoldKind(f, k)
}
