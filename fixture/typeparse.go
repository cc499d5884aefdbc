package fixture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quill-lang/quill/internal/types"
)

// parseType reads the small surface-syntax type notation fixtures use:
// scalar names, `&T`, `&mut T`, `box T`, `[T]`, `[T; N]` and `(A, B)`.
func (b *builder) parseType(s string) (types.Ty, error) {
	p := &typeParser{src: s, builder: b}
	ty, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("type %q: trailing input at offset %d", s, p.pos)
	}
	return ty, nil
}

type typeParser struct {
	src     string
	pos     int
	builder *builder
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) eat(prefix string) bool {
	if strings.HasPrefix(p.src[p.pos:], prefix) {
		p.pos += len(prefix)
		return true
	}
	return false
}

func (p *typeParser) parse() (types.Ty, error) {
	p.skipSpace()
	switch {
	case p.eat("&mut "):
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return types.Ref{Elem: elem, Mutable: true}, nil

	case p.eat("&"):
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return types.Ref{Elem: elem}, nil

	case p.eat("box "):
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return types.Box{Elem: elem}, nil

	case p.eat("["):
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eat("]") {
			return types.Slice{Elem: elem}, nil
		}
		if !p.eat(";") {
			return nil, p.errHere("expected `;` or `]`")
		}
		p.skipSpace()
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.Atoi(p.src[start:p.pos])
		if err != nil {
			return nil, p.errHere("expected array length")
		}
		p.skipSpace()
		if !p.eat("]") {
			return nil, p.errHere("expected `]`")
		}
		return types.Array{Elem: elem, Len: n}, nil

	case p.eat("("):
		var elems []types.Ty
		p.skipSpace()
		for !p.eat(")") {
			elem, err := p.parse()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			p.skipSpace()
			if p.eat(",") {
				p.skipSpace()
				continue
			}
			if !p.eat(")") {
				return nil, p.errHere("expected `,` or `)`")
			}
			break
		}
		return types.Tuple{Elems: elems}, nil

	default:
		return p.parseName()
	}
}

func (p *typeParser) parseName() (types.Ty, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	name := p.src[start:p.pos]
	if name == "" {
		return nil, p.errHere("expected a type")
	}
	switch name {
	case "bool":
		return types.Bool{}, nil
	case "char":
		return types.Char{}, nil
	case "str":
		return types.Str{}, nil
	case "i8":
		return types.Int{Bits: 8}, nil
	case "i16":
		return types.Int{Bits: 16}, nil
	case "i32":
		return types.Int{Bits: 32}, nil
	case "i64":
		return types.Int{Bits: 64}, nil
	case "u8":
		return types.Uint{Bits: 8}, nil
	case "u16":
		return types.Uint{Bits: 16}, nil
	case "u32":
		return types.Uint{Bits: 32}, nil
	case "u64":
		return types.Uint{Bits: 64}, nil
	case "f32":
		return types.Float{Bits: 32}, nil
	case "f64":
		return types.Float{Bits: 64}, nil
	}
	if def, ok := p.builder.adts[name]; ok {
		return types.Adt{Def: def}, nil
	}
	return nil, fmt.Errorf("unknown type %q", name)
}

func (p *typeParser) errHere(msg string) error {
	return fmt.Errorf("type %q: %s at offset %d", p.src, msg, p.pos)
}
