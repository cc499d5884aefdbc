// Package pattern is the public entry point for lowering fixture files. It
// loads fixture snapshots, runs each pattern case through the lowering pass,
// and collects typed IR alongside any diagnostics.
package pattern

import (
	"github.com/quill-lang/quill/fixture"
	"github.com/quill-lang/quill/internal/diag"
	"github.com/quill-lang/quill/internal/lower"
	"github.com/quill-lang/quill/internal/tir"
)

// Checker lowers every case of a fixture file.
type Checker interface {
	Run(path string) ([]Result, error)
	RunSource(src []byte) ([]Result, error)
}

// Result is the outcome of lowering a single pattern case.
type Result struct {
	Fixture string            `json:"fixture"`
	Case    string            `json:"case"`
	Render  string            `json:"render"`
	Diags   []diag.Diagnostic `json:"diags,omitempty"`

	Pat *tir.Pat `json:"-"`
}

type checker struct {
	cache *fixtureCache
}

// New creates a Checker backed by the structural value decomposer. Parsed
// fixtures are cached per path, so repeated runs over unchanged files skip
// the parse.
func New() Checker {
	return &checker{cache: newFixtureCache()}
}

func (c *checker) Run(path string) ([]Result, error) {
	fx, err := c.cache.load(path)
	if err != nil {
		return nil, err
	}
	return runFixture(fx), nil
}

func (c *checker) RunSource(src []byte) ([]Result, error) {
	fx, err := fixture.Parse(src)
	if err != nil {
		return nil, err
	}
	return runFixture(fx), nil
}

func runFixture(fx *fixture.Fixture) []Result {
	results := make([]Result, 0, len(fx.Cases))
	for _, cs := range fx.Cases {
		bag := diag.NewBag()
		cx := lower.New(fx.Typeck, fx.Oracle, nil, bag)
		pat := cx.Lower(cs.Pat)
		results = append(results, Result{
			Fixture: fx.Name,
			Case:    cs.Name,
			Render:  pat.String(),
			Diags:   bag.Diagnostics(),
			Pat:     pat,
		})
	}
	return results
}
