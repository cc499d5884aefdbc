package fixture

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/quill-lang/quill/internal/cval"
	"github.com/quill-lang/quill/internal/hir"
	"github.com/quill-lang/quill/internal/source"
	"github.com/quill-lang/quill/internal/types"
)

// defaultMode tracks the binding-mode default while implicit dereferences
// are consumed, mirroring the match ergonomics the type checker applies.
type defaultMode int

const (
	modeMove defaultMode = iota
	modeRefShared
	modeRefMut
)

type constInfo struct {
	id   hir.ConstID
	kind string
	ty   types.Ty
}

type builder struct {
	file   string
	adts   map[string]*types.AdtDef
	consts map[string]constInfo
	typeck *hir.TypeckResults
	oracle *cval.TableOracle
	next   hir.NodeID
	offset int
}

func newBuilder(doc *fixtureDoc) (*builder, error) {
	b := &builder{
		file:   doc.Name,
		adts:   map[string]*types.AdtDef{},
		consts: map[string]constInfo{},
		typeck: hir.NewTypeckResults(),
		oracle: cval.NewTableOracle(),
	}
	if b.file == "" {
		b.file = "fixture"
	}

	// Declare ADT shells first so fields can refer to other fixture types.
	for _, decl := range doc.Types {
		if _, dup := b.adts[decl.Name]; dup {
			return nil, fmt.Errorf("duplicate type %q", decl.Name)
		}
		def := &types.AdtDef{Name: decl.Name}
		switch decl.Kind {
		case "", "enum":
			def.Kind = types.AdtEnum
		case "struct":
			def.Kind = types.AdtStruct
		case "union":
			def.Kind = types.AdtUnion
		default:
			return nil, fmt.Errorf("type %q: unknown kind %q", decl.Name, decl.Kind)
		}
		b.adts[decl.Name] = def
	}
	for _, decl := range doc.Types {
		def := b.adts[decl.Name]
		variants := decl.Variants
		if len(variants) == 0 {
			variants = []variantDecl{{Name: decl.Name, Fields: decl.Fields}}
		}
		for _, v := range variants {
			vd := types.VariantDef{Name: v.Name}
			for _, f := range v.Fields {
				ty, err := b.parseType(f.Type)
				if err != nil {
					return nil, fmt.Errorf("type %q, variant %q: %w", decl.Name, v.Name, err)
				}
				vd.Fields = append(vd.Fields, types.FieldDef{Name: f.Name, Ty: ty})
			}
			def.Variants = append(def.Variants, vd)
		}
	}

	for _, decl := range doc.Consts {
		info := constInfo{id: hir.ConstID(decl.Name), kind: decl.Kind}
		if info.kind == "" {
			info.kind = "const"
		}
		if decl.Type != "" {
			ty, err := b.parseType(decl.Type)
			if err != nil {
				return nil, fmt.Errorf("const %q: %w", decl.Name, err)
			}
			info.ty = ty
		}
		b.consts[decl.Name] = info

		switch {
		case decl.Generic:
			b.oracle.Generic[info.id] = true
		case decl.Failing:
			b.oracle.Failing[info.id] = true
		case decl.Opaque != "":
			b.oracle.OpaqueOnly[info.id] = cval.Opaque{Ty: info.ty, Rep: decl.Opaque}
		case decl.Value != nil:
			c, err := b.buildVal(decl.Value, info.ty)
			if err != nil {
				return nil, fmt.Errorf("const %q: %w", decl.Name, err)
			}
			b.oracle.Structured[info.id] = c
		}
	}
	return b, nil
}

func (b *builder) build(doc *fixtureDoc) (*Fixture, error) {
	fx := &Fixture{Name: doc.Name, Typeck: b.typeck, Oracle: b.oracle}
	for _, pd := range doc.Patterns {
		ty, err := b.parseType(pd.Scrutinee)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pd.Name, err)
		}
		pat, err := b.buildPat(&pd.Pat, ty, modeMove)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pd.Name, err)
		}
		fx.Cases = append(fx.Cases, Case{
			Name:      pd.Name,
			Scrutinee: ty,
			Pat:       pat,
			Expect:    pd.Expect,
		})
	}
	return fx, nil
}

func (b *builder) id() hir.NodeID {
	b.next++
	return b.next
}

func (b *builder) span() source.Span {
	lo := b.offset
	b.offset += 32
	return source.New(b.file, lo, lo+24)
}

// adjusting reports whether a pattern shape consumes implicit dereferences.
// Reference patterns, bindings and wildcards match the reference itself.
func adjusting(n *patNode) bool {
	return n.Ref == nil && n.Bind == nil && n.Wild == nil
}

func (b *builder) buildPat(n *patNode, ty types.Ty, dm defaultMode) (hir.Pat, error) {
	id := b.id()
	sp := b.span()
	base := hir.PatBase{Node: id, Sp: sp}

	var adjustments []types.Ty
	if adjusting(n) {
		for {
			ref, ok := ty.(types.Ref)
			if !ok {
				break
			}
			adjustments = append(adjustments, ty)
			if !ref.Mutable {
				dm = modeRefShared
			} else if dm != modeRefShared {
				dm = modeRefMut
			}
			ty = ref.Elem
		}
	}
	record := func(p hir.Pat) hir.Pat {
		b.typeck.NodeTypes[id] = ty
		if len(adjustments) > 0 {
			b.typeck.Adjustments[id] = adjustments
		}
		return p
	}

	switch {
	case n.Wild != nil:
		return record(&hir.WildPat{PatBase: base}), nil

	case n.Lit != nil:
		expr, err := b.buildLitExpr(n.Lit, ty, false)
		if err != nil {
			return nil, err
		}
		return record(&hir.LitPat{PatBase: base, Expr: expr}), nil

	case n.Neg != nil:
		expr, err := b.buildLitExpr(n.Neg, ty, true)
		if err != nil {
			return nil, err
		}
		return record(&hir.LitPat{PatBase: base, Expr: expr}), nil

	case n.Const != nil:
		expr, err := b.buildConstBlock(n.Const, ty)
		if err != nil {
			return nil, err
		}
		return record(&hir.LitPat{PatBase: base, Expr: expr}), nil

	case n.Range != nil:
		lo, err := b.buildEndpoint(n.Range.Lo, ty)
		if err != nil {
			return nil, err
		}
		hi, err := b.buildEndpoint(n.Range.Hi, ty)
		if err != nil {
			return nil, err
		}
		end := hir.RangeExcluded
		if n.Range.Inclusive {
			end = hir.RangeIncluded
		}
		return record(&hir.RangePat{PatBase: base, Lo: lo, Hi: hi, End: end}), nil

	case n.Path != "":
		b.typeck.PathRes[id] = b.resolve(n.Path)
		return record(&hir.PathPat{PatBase: base}), nil

	case n.Ref != nil:
		inner, ok := refElem(ty)
		if !ok {
			return nil, fmt.Errorf("ref pattern against non-reference type %s", ty)
		}
		sub, err := b.buildPat(n.Ref, inner, modeMove)
		if err != nil {
			return nil, err
		}
		return record(&hir.RefPat{PatBase: base, Sub: sub}), nil

	case n.Slice != nil:
		return b.buildSlice(n.Slice, ty, dm, base, record)

	case n.Tuple != nil:
		tup, ok := ty.(types.Tuple)
		if !ok {
			return nil, fmt.Errorf("tuple pattern against non-tuple type %s", ty)
		}
		gap := -1
		if n.Tuple.RestAt != nil {
			gap = *n.Tuple.RestAt
		}
		elems := make([]hir.Pat, len(n.Tuple.Elems))
		for i := range n.Tuple.Elems {
			idx := gapIndex(i, len(n.Tuple.Elems), len(tup.Elems), gap)
			if idx < 0 || idx >= len(tup.Elems) {
				return nil, fmt.Errorf("tuple pattern arity %d does not fit %s", len(n.Tuple.Elems), ty)
			}
			sub, err := b.buildPat(&n.Tuple.Elems[i], tup.Elems[idx], dm)
			if err != nil {
				return nil, err
			}
			elems[i] = sub
		}
		return record(&hir.TuplePat{PatBase: base, Elems: elems, DotDotPos: gap}), nil

	case n.Bind != nil:
		return b.buildBind(n.Bind, ty, dm, base, sp)

	case n.Ctor != nil:
		return b.buildCtor(n.Ctor, ty, dm, base, record)

	case n.Struct != nil:
		return b.buildStruct(n.Struct, ty, dm, base, record)

	case len(n.Or) > 0:
		alts := make([]hir.Pat, len(n.Or))
		for i := range n.Or {
			sub, err := b.buildPat(&n.Or[i], ty, dm)
			if err != nil {
				return nil, err
			}
			alts[i] = sub
		}
		return record(&hir.OrPat{PatBase: base, Alts: alts}), nil

	default:
		return nil, fmt.Errorf("empty pattern node")
	}
}

func (b *builder) buildBind(n *bindNode, ty types.Ty, dm defaultMode, base hir.PatBase, sp source.Span) (hir.Pat, error) {
	mode := hir.BindingMode{Mutable: n.Mut}
	switch n.Mode {
	case "ref":
		mode = hir.BindingMode{ByRef: true}
	case "ref-mut":
		mode = hir.BindingMode{ByRef: true, RefMutable: true}
	case "move":
		// explicit `move` opts out of the by-reference default
	case "":
		switch dm {
		case modeRefShared:
			mode = hir.BindingMode{ByRef: true}
		case modeRefMut:
			mode = hir.BindingMode{ByRef: true, RefMutable: true}
		}
	default:
		return nil, fmt.Errorf("binding %q: unknown mode %q", n.Name, n.Mode)
	}
	b.typeck.BindingModes[base.Node] = mode

	nodeTy := ty
	if mode.ByRef {
		nodeTy = types.Ref{Elem: ty, Mutable: mode.RefMutable}
	}

	var sub hir.Pat
	if n.Sub != nil {
		var err error
		sub, err = b.buildPat(n.Sub, ty, dm)
		if err != nil {
			return nil, err
		}
	}
	pat := &hir.BindingPat{
		PatBase:   base,
		Name:      n.Name,
		Var:       hir.VarID(base.Node),
		IdentSpan: source.New(sp.File, sp.Lo, sp.Lo+len(n.Name)),
		Sub:       sub,
	}
	b.typeck.NodeTypes[base.Node] = nodeTy
	return pat, nil
}

func (b *builder) buildSlice(n *sliceNode, ty types.Ty, dm defaultMode, base hir.PatBase, record func(hir.Pat) hir.Pat) (hir.Pat, error) {
	var elem types.Ty
	switch t := ty.(type) {
	case types.Slice:
		elem = t.Elem
	case types.Array:
		elem = t.Elem
	default:
		return nil, fmt.Errorf("slice pattern against non-sequence type %s", ty)
	}

	build := func(nodes []patNode) ([]hir.Pat, error) {
		out := make([]hir.Pat, len(nodes))
		for i := range nodes {
			sub, err := b.buildPat(&nodes[i], elem, dm)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil
	}
	prefix, err := build(n.Prefix)
	if err != nil {
		return nil, err
	}
	suffix, err := build(n.Suffix)
	if err != nil {
		return nil, err
	}
	pat := &hir.SlicePat{
		PatBase: base,
		Prefix:  prefix,
		HasRest: n.Rest || n.RestAs != nil,
		Suffix:  suffix,
	}
	if n.RestAs != nil {
		restNode := &patNode{Bind: n.RestAs}
		rest, err := b.buildPat(restNode, types.Slice{Elem: elem}, dm)
		if err != nil {
			return nil, err
		}
		pat.Rest = rest
	}
	return record(pat), nil
}

func (b *builder) buildCtor(n *ctorNode, ty types.Ty, dm defaultMode, base hir.PatBase, record func(hir.Pat) hir.Pat) (hir.Pat, error) {
	res := b.resolve(n.Path)
	b.typeck.PathRes[base.Node] = res
	variant, err := variantOf(res)
	if err != nil {
		return nil, fmt.Errorf("ctor %q: %w", n.Path, err)
	}
	gap := -1
	if n.RestAt != nil {
		gap = *n.RestAt
	}
	elems := make([]hir.Pat, len(n.Elems))
	for i := range n.Elems {
		idx := gapIndex(i, len(n.Elems), len(variant.Fields), gap)
		if idx < 0 || idx >= len(variant.Fields) {
			return nil, fmt.Errorf("ctor %q: pattern arity %d does not fit %d fields", n.Path, len(n.Elems), len(variant.Fields))
		}
		sub, err := b.buildPat(&n.Elems[i], variant.Fields[idx].Ty, dm)
		if err != nil {
			return nil, err
		}
		elems[i] = sub
	}
	return record(&hir.TupleStructPat{PatBase: base, Elems: elems, DotDotPos: gap}), nil
}

func (b *builder) buildStruct(n *structNode, ty types.Ty, dm defaultMode, base hir.PatBase, record func(hir.Pat) hir.Pat) (hir.Pat, error) {
	res := b.resolve(n.Path)
	b.typeck.PathRes[base.Node] = res
	variant, err := variantOf(res)
	if err != nil {
		return nil, fmt.Errorf("struct %q: %w", n.Path, err)
	}

	names := make([]string, 0, len(n.Fields))
	for name := range n.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]hir.FieldPat, 0, len(names))
	for _, name := range names {
		idx := -1
		for i, f := range variant.Fields {
			if f.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("struct %q has no field %q", n.Path, name)
		}
		node := n.Fields[name]
		sub, err := b.buildPat(&node, variant.Fields[idx].Ty, dm)
		if err != nil {
			return nil, err
		}
		fieldID := b.id()
		b.typeck.FieldIndices[fieldID] = idx
		fields = append(fields, hir.FieldPat{Node: fieldID, Name: name, Pat: sub})
	}
	return record(&hir.StructPat{PatBase: base, Fields: fields}), nil
}

func (b *builder) buildLitExpr(n *litNode, ty types.Ty, neg bool) (hir.Expr, error) {
	lit, err := litOf(n)
	if err != nil {
		return nil, err
	}
	litID := b.id()
	sp := b.span()
	b.typeck.NodeTypes[litID] = ty
	var expr hir.Expr = &hir.LitExpr{ExprBase: hir.ExprBase{Node: litID, Sp: sp}, Lit: lit}
	if neg {
		negID := b.id()
		b.typeck.NodeTypes[negID] = ty
		expr = &hir.NegExpr{ExprBase: hir.ExprBase{Node: negID, Sp: sp}, Sub: expr}
	}
	return expr, nil
}

func (b *builder) buildConstBlock(n *constBlockNode, ty types.Ty) (hir.Expr, error) {
	id := b.id()
	sp := b.span()
	b.typeck.NodeTypes[id] = ty
	blk := &hir.ConstBlockExpr{ExprBase: hir.ExprBase{Node: id, Sp: sp}, Const: hir.ConstID(n.Name)}
	if n.Lit != nil {
		body, err := b.buildLitExpr(n.Lit, ty, false)
		if err != nil {
			return nil, err
		}
		blk.Body = body
	} else if n.Neg != nil {
		body, err := b.buildLitExpr(n.Neg, ty, true)
		if err != nil {
			return nil, err
		}
		blk.Body = body
	}
	return blk, nil
}

func (b *builder) buildEndpoint(n *endpointNode, ty types.Ty) (hir.Expr, error) {
	if n == nil {
		return nil, nil
	}
	switch {
	case n.Lit != nil:
		return b.buildLitExpr(n.Lit, ty, false)
	case n.Neg != nil:
		return b.buildLitExpr(n.Neg, ty, true)
	case n.Path != "":
		id := b.id()
		sp := b.span()
		b.typeck.NodeTypes[id] = ty
		b.typeck.PathRes[id] = b.resolve(n.Path)
		return &hir.PathExpr{ExprBase: hir.ExprBase{Node: id, Sp: sp}}, nil
	default:
		return nil, fmt.Errorf("empty range endpoint")
	}
}

// resolve maps a fixture path to a name-resolution result the way the
// resolver would: `Adt::Variant` to a variant, a bare type name to its
// struct, a constant name to its declaration kind.
func (b *builder) resolve(path string) hir.Res {
	if name, variant, ok := strings.Cut(path, "::"); ok {
		def := b.adts[name]
		if def == nil {
			return hir.ErrRes{}
		}
		for i, v := range def.Variants {
			if v.Name == variant {
				return hir.VariantRes{Adt: def, Variant: i}
			}
		}
		return hir.ErrRes{}
	}
	if def, ok := b.adts[path]; ok {
		return hir.StructRes{Adt: def}
	}
	if info, ok := b.consts[path]; ok {
		switch info.kind {
		case "assoc-const":
			return hir.ConstRes{Const: info.id, Assoc: true}
		case "static":
			return hir.StaticRes{Name: path}
		case "const-param":
			return hir.ConstParamRes{Name: path}
		default:
			return hir.ConstRes{Const: info.id}
		}
	}
	return hir.ErrRes{}
}

func (b *builder) buildVal(v *valNode, ty types.Ty) (cval.Const, error) {
	switch {
	case v.Int != nil:
		return cval.NewScalar(ty, uint64(*v.Int)), nil
	case v.Float != nil:
		if ft, ok := ty.(types.Float); ok && ft.Bits == 32 {
			return cval.Scalar{Ty: ty, Bits: uint64(math.Float32bits(float32(*v.Float)))}, nil
		}
		return cval.Scalar{Ty: ty, Bits: math.Float64bits(*v.Float)}, nil
	case v.Bool != nil:
		bits := uint64(0)
		if *v.Bool {
			bits = 1
		}
		return cval.Scalar{Ty: ty, Bits: bits}, nil
	case v.Char != "":
		return cval.Scalar{Ty: ty, Bits: uint64([]rune(v.Char)[0])}, nil
	case v.Str != nil:
		return cval.StrConst{Value: *v.Str}, nil
	case v.Tuple != nil:
		tup, ok := ty.(types.Tuple)
		if !ok || len(tup.Elems) != len(v.Tuple) {
			return nil, fmt.Errorf("tuple value does not fit type %s", ty)
		}
		elems := make([]cval.Const, len(v.Tuple))
		for i := range v.Tuple {
			c, err := b.buildVal(&v.Tuple[i], tup.Elems[i])
			if err != nil {
				return nil, err
			}
			elems[i] = c
		}
		return &cval.Branch{Ty: ty, Elems: elems}, nil
	case v.Ref != nil:
		inner, ok := refElem(ty)
		if !ok {
			return nil, fmt.Errorf("ref value does not fit type %s", ty)
		}
		c, err := b.buildVal(v.Ref, inner)
		if err != nil {
			return nil, err
		}
		return &cval.Branch{Ty: ty, Elems: []cval.Const{c}}, nil
	case v.Variant != nil:
		res := b.resolve(v.Variant.Path)
		vr, ok := res.(hir.VariantRes)
		if !ok {
			return nil, fmt.Errorf("value path %q does not name a variant", v.Variant.Path)
		}
		variant := vr.Adt.Variants[vr.Variant]
		if len(variant.Fields) != len(v.Variant.Elems) {
			return nil, fmt.Errorf("variant %q takes %d fields", v.Variant.Path, len(variant.Fields))
		}
		elems := make([]cval.Const, len(v.Variant.Elems))
		for i := range v.Variant.Elems {
			c, err := b.buildVal(&v.Variant.Elems[i], variant.Fields[i].Ty)
			if err != nil {
				return nil, err
			}
			elems[i] = c
		}
		return &cval.Branch{Ty: ty, Variant: vr.Variant, Elems: elems}, nil
	default:
		return nil, fmt.Errorf("empty constant value")
	}
}

func litOf(n *litNode) (hir.Lit, error) {
	switch {
	case n.Int != nil:
		return hir.Lit{Kind: hir.LitInt, Uint: *n.Int}, nil
	case n.Float != nil:
		return hir.Lit{Kind: hir.LitFloat, Float: *n.Float}, nil
	case n.Bool != nil:
		return hir.Lit{Kind: hir.LitBool, Bool: *n.Bool}, nil
	case n.Char != "":
		return hir.Lit{Kind: hir.LitChar, Uint: uint64([]rune(n.Char)[0])}, nil
	case n.Str != nil:
		return hir.Lit{Kind: hir.LitStr, Str: *n.Str}, nil
	default:
		return hir.Lit{}, fmt.Errorf("empty literal")
	}
}

func variantOf(res hir.Res) (types.VariantDef, error) {
	switch r := res.(type) {
	case hir.VariantRes:
		return r.Adt.Variants[r.Variant], nil
	case hir.StructRes:
		return r.Adt.Variants[0], nil
	default:
		return types.VariantDef{}, fmt.Errorf("path does not name a constructor")
	}
}

func refElem(ty types.Ty) (types.Ty, bool) {
	switch t := ty.(type) {
	case types.Ref:
		return t.Elem, true
	case types.Box:
		return t.Elem, true
	default:
		return nil, false
	}
}

// gapIndex maps the i-th written sub-pattern to its declared field index,
// shifting indices after a `..` gap.
func gapIndex(i, written, declared, gap int) int {
	if gap >= 0 && i >= gap {
		return i + declared - written
	}
	return i
}
