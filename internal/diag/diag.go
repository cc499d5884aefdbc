package diag

import (
	"fmt"

	"github.com/quill-lang/quill/internal/source"
)

// Code identifies a class of diagnostic emitted during pattern lowering.
type Code string

const (
	// MalformedRange is reported for empty or misordered range patterns.
	MalformedRange Code = "malformed-range"
	// LiteralOverflow is a more specific form of MalformedRange, reported
	// when a range endpoint literal lies outside the type's representable
	// range and the generic ordering message would be misleading.
	LiteralOverflow Code = "literal-overflow"
	// ConstParamInPattern is reported when a path pattern resolves to a
	// const generic parameter.
	ConstParamInPattern Code = "const-param-in-pattern"
	// StaticInPattern is reported when a path pattern resolves to a static item.
	StaticInPattern Code = "static-in-pattern"
	// NonConstantPath is reported for any other path that does not denote
	// a constant or a constructor.
	NonConstantPath Code = "non-constant-path"
	// AssocConstUnresolved is reported when an associated constant has no
	// concrete implementation to resolve to.
	AssocConstUnresolved Code = "assoc-const-unresolved"
	// ConstEvalTooGeneric is reported when a constant pattern depends on a
	// generic parameter that is still unresolved.
	ConstEvalTooGeneric Code = "const-eval-too-generic"
	// ConstEvalFailed is reported for any other constant evaluation failure.
	ConstEvalFailed Code = "const-eval-failed"
	// TypeError marks a diagnostic recorded by an earlier phase for a type
	// that failed to check; lowering never emits it, only propagates it.
	TypeError Code = "type-error"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic is a single user-facing message tied to a source span.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Span     source.Span
	Message  string
	Note     string
}

// Handle is proof that a diagnostic was recorded in a Bag. Every Error IR
// node carries one, so a produced error is never silently dropped.
type Handle int

// Bag collects diagnostics emitted during one lowering session.
// It is not safe for concurrent use; each lowering context owns its own bag.
type Bag struct {
	diags []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

// Emit records d and returns a handle referring to it.
func (b *Bag) Emit(d Diagnostic) Handle {
	b.diags = append(b.diags, d)
	return Handle(len(b.diags) - 1)
}

// Errorf records an error-severity diagnostic with a formatted message.
func (b *Bag) Errorf(code Code, span source.Span, format string, args ...any) Handle {
	return b.Emit(Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Get returns the diagnostic behind a handle.
func (b *Bag) Get(h Handle) Diagnostic {
	return b.diags[h]
}

// Diagnostics returns all recorded diagnostics in emission order.
func (b *Bag) Diagnostics() []Diagnostic {
	return b.diags
}

// Len reports how many diagnostics have been emitted.
func (b *Bag) Len() int {
	return len(b.diags)
}
