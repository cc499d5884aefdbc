package tir

import (
	"fmt"
	"strings"
)

// String renders the pattern in surface-like syntax for debugging and CLI
// output. The rendering is stable and used in golden assertions.
func (p *Pat) String() string {
	var b strings.Builder
	writePat(&b, p)
	return b.String()
}

func writePat(b *strings.Builder, p *Pat) {
	switch k := p.Kind.(type) {
	case Wild:
		b.WriteByte('_')
	case Binding:
		switch k.Mode {
		case BindByRefShared:
			b.WriteString("ref ")
		case BindByRefUnique:
			b.WriteString("ref mut ")
		}
		if k.Mutable {
			b.WriteString("mut ")
		}
		b.WriteString(k.Name)
		if k.Sub != nil {
			b.WriteString(" @ ")
			writePat(b, k.Sub)
		}
	case Variant:
		b.WriteString(k.Adt.Name)
		b.WriteString("::")
		b.WriteString(k.Adt.Variants[k.Index].Name)
		if len(k.Fields) > 0 {
			writeFields(b, k.Fields)
		}
	case Leaf:
		writeFields(b, k.Fields)
	case Deref:
		b.WriteByte('&')
		writePat(b, k.Sub)
	case Const:
		b.WriteString(k.Value.String())
	case Range:
		b.WriteString(k.Lo.String())
		b.WriteString(k.End.String())
		b.WriteString(k.Hi.String())
	case Slice, Array:
		var prefix, suffix []*Pat
		var middle *Pat
		if s, ok := k.(Slice); ok {
			prefix, middle, suffix = s.Prefix, s.Middle, s.Suffix
		} else {
			a := k.(Array)
			prefix, middle, suffix = a.Prefix, a.Middle, a.Suffix
		}
		b.WriteByte('[')
		for i, sub := range prefix {
			if i > 0 {
				b.WriteString(", ")
			}
			writePat(b, sub)
		}
		if middle != nil || len(suffix) > 0 {
			if len(prefix) > 0 {
				b.WriteString(", ")
			}
			if middle != nil {
				if _, wild := middle.Kind.(Wild); !wild {
					writePat(b, middle)
					b.WriteString(" @ ")
				}
			}
			b.WriteString("..")
			for _, sub := range suffix {
				b.WriteString(", ")
				writePat(b, sub)
			}
		}
		b.WriteByte(']')
	case Or:
		for i, alt := range k.Alts {
			if i > 0 {
				b.WriteString(" | ")
			}
			writePat(b, alt)
		}
	case Ascribe:
		writePat(b, k.Sub)
		b.WriteString(": ")
		b.WriteString(k.Annotation.Ty.String())
	case Error:
		b.WriteString("<error>")
	default:
		fmt.Fprintf(b, "<%T>", k)
	}
}

func writeFields(b *strings.Builder, fields []FieldPat) {
	b.WriteByte('(')
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%d: ", f.Field)
		writePat(b, f.Pat)
	}
	b.WriteByte(')')
}
