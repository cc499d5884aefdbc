package cval

import (
	"errors"
	"fmt"

	"github.com/quill-lang/quill/internal/hir"
	"github.com/quill-lang/quill/internal/types"
)

// ErrTooGeneric means the constant's value depends on a generic parameter
// that is still unresolved. Retrying cannot help: genericity is a structural
// property of the request.
var ErrTooGeneric = errors.New("cval: constant depends on generic parameters")

// ErrUnresolved means resolution found no concrete implementation for an
// associated constant.
var ErrUnresolved = errors.New("cval: no concrete implementation for constant")

// Oracle evaluates named constants. Implementations may be expensive or
// memoize internally; from the caller's perspective every call is a
// synchronous, read-only query.
type Oracle interface {
	// EvalStructured evaluates the constant to a structured value.
	// ok is false when the constant evaluates but only an opaque
	// byte-level representation is available.
	EvalStructured(id hir.ConstID, args []types.Ty, ty types.Ty) (c Const, ok bool, err error)

	// EvalOpaque evaluates the constant to its opaque representation. It
	// is called only after EvalStructured reported ok=false.
	EvalOpaque(id hir.ConstID, args []types.Ty, ty types.Ty) (Const, error)
}

// TableOracle is an Oracle backed by fixed tables, used by tests and by
// fixture-driven runs where the compilation snapshot is synthetic.
type TableOracle struct {
	// Structured holds constants with a structured value.
	Structured map[hir.ConstID]Const
	// OpaqueOnly holds constants that evaluate but cannot be decomposed.
	OpaqueOnly map[hir.ConstID]Const
	// Generic marks constants whose value depends on generic parameters.
	Generic map[hir.ConstID]bool
	// Failing marks constants whose evaluation errors out.
	Failing map[hir.ConstID]bool
}

// NewTableOracle returns an empty table oracle; callers populate the maps
// directly.
func NewTableOracle() *TableOracle {
	return &TableOracle{
		Structured: map[hir.ConstID]Const{},
		OpaqueOnly: map[hir.ConstID]Const{},
		Generic:    map[hir.ConstID]bool{},
		Failing:    map[hir.ConstID]bool{},
	}
}

func (t *TableOracle) EvalStructured(id hir.ConstID, _ []types.Ty, _ types.Ty) (Const, bool, error) {
	if t.Generic[id] {
		return nil, false, ErrTooGeneric
	}
	if t.Failing[id] {
		return nil, false, fmt.Errorf("cval: evaluation of %q failed", id)
	}
	if c, ok := t.Structured[id]; ok {
		return c, true, nil
	}
	if _, ok := t.OpaqueOnly[id]; ok {
		return nil, false, nil
	}
	return nil, false, ErrUnresolved
}

func (t *TableOracle) EvalOpaque(id hir.ConstID, _ []types.Ty, _ types.Ty) (Const, error) {
	if c, ok := t.OpaqueOnly[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("cval: no opaque value for %q", id)
}
