package hir

import (
	"fmt"

	"github.com/quill-lang/quill/internal/types"
)

// BindingMode records how a binding pattern captures the matched value.
type BindingMode struct {
	ByRef      bool
	RefMutable bool // meaningful only when ByRef is set
	Mutable    bool // `mut name`; meaningful only for by-value bindings
}

// TypeckResults is the read-only snapshot of type-checking output consumed
// during lowering. Missing entries for nodes that must have them indicate a
// bug in the earlier phase and fail loudly.
type TypeckResults struct {
	// NodeTypes maps every pattern and endpoint expression node to its
	// resolved type.
	NodeTypes map[NodeID]types.Ty
	// Adjustments lists implicit dereference types per pattern node,
	// ordered outermost-first.
	Adjustments map[NodeID][]types.Ty
	// BindingModes maps binding pattern nodes to their capture mode.
	BindingModes map[NodeID]BindingMode
	// FieldIndices maps struct-pattern field nodes to their declared index.
	FieldIndices map[NodeID]int
	// UserTypes maps pattern and path nodes to user-written type
	// ascriptions.
	UserTypes map[NodeID]types.UserAnnotation
	// PathRes maps path nodes to their resolution.
	PathRes map[NodeID]Res
	// NodeArgs maps constant path nodes to their generic arguments.
	NodeArgs map[NodeID][]types.Ty
}

// NewTypeckResults returns an empty results table; callers populate the maps
// directly.
func NewTypeckResults() *TypeckResults {
	return &TypeckResults{
		NodeTypes:    map[NodeID]types.Ty{},
		Adjustments:  map[NodeID][]types.Ty{},
		BindingModes: map[NodeID]BindingMode{},
		FieldIndices: map[NodeID]int{},
		UserTypes:    map[NodeID]types.UserAnnotation{},
		PathRes:      map[NodeID]Res{},
		NodeArgs:     map[NodeID][]types.Ty{},
	}
}

// NodeType returns the type of a node, panicking when the type checker
// left no entry.
func (t *TypeckResults) NodeType(id NodeID) types.Ty {
	ty, ok := t.NodeTypes[id]
	if !ok {
		panic(fmt.Sprintf("hir: no type recorded for node %d", id))
	}
	return ty
}

// PatAdjustments returns the implicit dereference list for a pattern node,
// outermost-first. The list may be empty.
func (t *TypeckResults) PatAdjustments(id NodeID) []types.Ty {
	return t.Adjustments[id]
}

// BindingMode returns the capture mode of a binding node, panicking when
// missing.
func (t *TypeckResults) BindingMode(id NodeID) BindingMode {
	bm, ok := t.BindingModes[id]
	if !ok {
		panic(fmt.Sprintf("hir: missing binding mode for node %d", id))
	}
	return bm
}

// FieldIndex returns the resolved field index for a struct-pattern field
// node, panicking when missing.
func (t *TypeckResults) FieldIndex(id NodeID) int {
	i, ok := t.FieldIndices[id]
	if !ok {
		panic(fmt.Sprintf("hir: missing field index for node %d", id))
	}
	return i
}

// UserType returns the user-written ascription for a node, if any.
func (t *TypeckResults) UserType(id NodeID) (types.UserAnnotation, bool) {
	u, ok := t.UserTypes[id]
	return u, ok
}

// Resolution returns the name-resolution result for a path node. Paths the
// resolver never saw resolve to ErrRes.
func (t *TypeckResults) Resolution(id NodeID) Res {
	if r, ok := t.PathRes[id]; ok {
		return r
	}
	return ErrRes{}
}

// GenericArgs returns the generic arguments recorded for a constant path
// node. The list may be empty.
func (t *TypeckResults) GenericArgs(id NodeID) []types.Ty {
	return t.NodeArgs[id]
}
