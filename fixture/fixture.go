// Package fixture loads YAML descriptions of synthetic compilation
// snapshots: type declarations, named constants, and surface patterns with
// expectations. Fixtures drive the patc CLI and the integration tests; they
// stand in for the parser, resolver and type checker that normally feed the
// lowering pass.
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quill-lang/quill/internal/cval"
	"github.com/quill-lang/quill/internal/hir"
	"github.com/quill-lang/quill/internal/types"
)

// Fixture is one loaded snapshot plus its pattern cases. All cases share a
// single type-checking table and oracle, as patterns of one compilation
// would.
type Fixture struct {
	Name   string
	Typeck *hir.TypeckResults
	Oracle cval.Oracle
	Cases  []Case
}

// Case is one surface pattern to lower, with optional expectations.
type Case struct {
	Name      string
	Scrutinee types.Ty
	Pat       hir.Pat
	Expect    Expectation
}

// Expectation describes what lowering a case should produce.
type Expectation struct {
	// Diags lists expected diagnostic codes, in emission order.
	Diags []string `yaml:"diags"`
	// Render is the expected String rendering of the lowered pattern.
	Render string `yaml:"render"`
}

type fixtureDoc struct {
	Name     string       `yaml:"name"`
	Types    []adtDecl    `yaml:"types"`
	Consts   []constDecl  `yaml:"consts"`
	Patterns []patternDoc `yaml:"patterns"`
}

type adtDecl struct {
	Name     string        `yaml:"name"`
	Kind     string        `yaml:"kind"` // enum (default), struct, union
	Variants []variantDecl `yaml:"variants"`
	Fields   []fieldDecl   `yaml:"fields"` // shorthand for single-variant types
}

type variantDecl struct {
	Name   string      `yaml:"name"`
	Fields []fieldDecl `yaml:"fields"`
}

type fieldDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type constDecl struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"` // const (default), assoc-const, static, const-param
	Type    string   `yaml:"type"`
	Value   *valNode `yaml:"value"`
	Opaque  string   `yaml:"opaque"`  // opaque byte-level representation
	Generic bool     `yaml:"generic"` // evaluation is TooGeneric
	Failing bool     `yaml:"failing"` // evaluation errors out
}

type patternDoc struct {
	Name      string      `yaml:"name"`
	Scrutinee string      `yaml:"scrutinee"`
	Pat       patNode     `yaml:"pat"`
	Expect    Expectation `yaml:"expect"`
}

type patNode struct {
	Wild   *struct{}       `yaml:"wild"`
	Lit    *litNode        `yaml:"lit"`
	Neg    *litNode        `yaml:"neg"`
	Range  *rangeNode      `yaml:"range"`
	Path   string          `yaml:"path"`
	Ref    *patNode        `yaml:"ref"`
	Slice  *sliceNode      `yaml:"slice"`
	Tuple  *tupleNode      `yaml:"tuple"`
	Bind   *bindNode       `yaml:"bind"`
	Ctor   *ctorNode       `yaml:"ctor"`
	Struct *structNode     `yaml:"struct"`
	Or     []patNode       `yaml:"or"`
	Const  *constBlockNode `yaml:"const"`
}

type litNode struct {
	Int   *uint64  `yaml:"int"`
	Float *float64 `yaml:"float"`
	Bool  *bool    `yaml:"bool"`
	Char  string   `yaml:"char"`
	Str   *string  `yaml:"str"`
}

type endpointNode struct {
	Lit  *litNode `yaml:"lit"`
	Neg  *litNode `yaml:"neg"`
	Path string   `yaml:"path"`
}

type rangeNode struct {
	Lo        *endpointNode `yaml:"lo"`
	Hi        *endpointNode `yaml:"hi"`
	Inclusive bool          `yaml:"inclusive"`
}

type sliceNode struct {
	Prefix []patNode `yaml:"prefix"`
	Rest   bool      `yaml:"rest"`
	RestAs *bindNode `yaml:"rest_as"`
	Suffix []patNode `yaml:"suffix"`
}

type tupleNode struct {
	Elems  []patNode `yaml:"elems"`
	RestAt *int      `yaml:"rest_at"`
}

type bindNode struct {
	Name string   `yaml:"name"`
	Mode string   `yaml:"mode"` // move (default), ref, ref-mut
	Mut  bool     `yaml:"mut"`
	Sub  *patNode `yaml:"sub"`
}

type ctorNode struct {
	Path   string    `yaml:"path"`
	Elems  []patNode `yaml:"elems"`
	RestAt *int      `yaml:"rest_at"`
}

type structNode struct {
	Path   string             `yaml:"path"`
	Fields map[string]patNode `yaml:"fields"`
}

type constBlockNode struct {
	Name string   `yaml:"name"` // oracle identity of the block
	Lit  *litNode `yaml:"lit"`
	Neg  *litNode `yaml:"neg"`
}

// valNode is a structured constant value, shaped by the declared type.
type valNode struct {
	Int     *int64    `yaml:"int"`
	Float   *float64  `yaml:"float"`
	Bool    *bool     `yaml:"bool"`
	Char    string    `yaml:"char"`
	Str     *string   `yaml:"str"`
	Tuple   []valNode `yaml:"tuple"`
	Ref     *valNode  `yaml:"ref"`
	Variant *ctorVal  `yaml:"variant"`
}

type ctorVal struct {
	Path  string    `yaml:"path"`
	Elems []valNode `yaml:"elems"`
}

// Load reads and builds a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: reading %s: %w", path, err)
	}
	fx, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixture: %s: %w", path, err)
	}
	if fx.Name == "" {
		fx.Name = path
	}
	return fx, nil
}

// Parse builds a fixture from YAML bytes.
func Parse(data []byte) (*Fixture, error) {
	var doc fixtureDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling: %w", err)
	}
	b, err := newBuilder(&doc)
	if err != nil {
		return nil, err
	}
	return b.build(&doc)
}
