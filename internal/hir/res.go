package hir

import "github.com/quill-lang/quill/internal/types"

// ConstID names a constant item for the evaluation oracle: a free constant,
// an associated constant, or an inline const block.
type ConstID string

// Res is the outcome of name resolution for a path in pattern position.
type Res interface {
	isRes()
}

// VariantRes resolves a path to a variant (or variant constructor) of an ADT.
type VariantRes struct {
	Adt     *types.AdtDef
	Variant int
}

// StructRes resolves a path to a struct, union, type alias, associated type,
// self type, or self constructor: anything matched without a discriminant.
type StructRes struct {
	Adt *types.AdtDef
}

// ConstRes resolves a path to a named constant. Assoc marks associated
// constants, which carry their own ascription and failure modes.
type ConstRes struct {
	Const ConstID
	Assoc bool
}

// ConstParamRes resolves a path to a const generic parameter, which is not
// allowed in pattern position.
type ConstParamRes struct {
	Name string
}

// StaticRes resolves a path to a static item, which is not allowed in
// pattern position.
type StaticRes struct {
	Name string
}

// ErrRes marks a path that did not resolve.
type ErrRes struct{}

func (VariantRes) isRes()    {}
func (StructRes) isRes()     {}
func (ConstRes) isRes()      {}
func (ConstParamRes) isRes() {}
func (StaticRes) isRes()     {}
func (ErrRes) isRes()        {}
