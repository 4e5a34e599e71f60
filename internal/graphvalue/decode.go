package graphvalue

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/shopspring/decimal"
)

// decoder is a recursive-descent parser over one raw payload.
type decoder struct {
	src    string
	pos    int
	target string

	// coerce turns list elements that are strings spelling a special float
	// into Float. Objects are never coerced, nor are lists nested in them.
	coerce bool
}

// decode parses src as exactly one value.
func decode(src, target string, coerce bool) (Value, error) {
	d := &decoder{src: src, target: target, coerce: coerce}
	return d.all()
}

func (d *decoder) all() (Value, error) {
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	d.skipSpace()
	if !d.eof() {
		return nil, d.fail("unexpected trailing content")
	}
	return v, nil
}

func (d *decoder) fail(reason string) *FormatError {
	return formatErr(d.target, d.src, d.pos, reason)
}

func (d *decoder) failAt(pos int, reason string) *FormatError {
	return formatErr(d.target, d.src, pos, reason)
}

func (d *decoder) eof() bool { return d.pos >= len(d.src) }

func (d *decoder) peek() byte {
	if d.eof() {
		return 0
	}
	return d.src[d.pos]
}

func (d *decoder) skipSpace() {
	for !d.eof() && unicode.IsSpace(rune(d.src[d.pos])) {
		d.pos++
	}
}

func (d *decoder) value() (Value, error) {
	d.skipSpace()
	if d.eof() {
		return nil, d.fail("unexpected end of input")
	}
	start := d.pos
	c := d.src[d.pos]

	if c == '-' || isDigit(c) {
		lit, err := d.numberLiteral()
		if err != nil {
			return nil, err
		}
		ann, err := d.annotation()
		if err != nil {
			return nil, err
		}
		return d.number(lit, ann, start)
	}

	var (
		v   Value
		err error
	)
	switch {
	case c == '{':
		v, err = d.object()
	case c == '[':
		v, err = d.list()
	case c == '"':
		var s string
		s, err = d.str()
		v = String(s)
	case isIdentStart(c):
		v, err = d.word()
	default:
		return nil, d.fail(fmt.Sprintf("unexpected character %q", c))
	}
	if err != nil {
		return nil, err
	}

	ann, err := d.annotation()
	if err != nil {
		return nil, err
	}
	return d.annotate(v, ann, start)
}

// numberLiteral scans -?digits(.digits)?([eE][+-]?digits)? or -Infinity.
func (d *decoder) numberLiteral() (string, error) {
	start := d.pos
	if d.peek() == '-' {
		d.pos++
		if strings.HasPrefix(d.src[d.pos:], tokenInfinity) {
			d.pos += len(tokenInfinity)
			return d.src[start:d.pos], nil
		}
	}
	if !isDigit(d.peek()) {
		return "", d.failAt(start, "malformed number")
	}
	d.digits()
	if d.peek() == '.' {
		d.pos++
		if !isDigit(d.peek()) {
			return "", d.failAt(start, "malformed fraction")
		}
		d.digits()
	}
	if c := d.peek(); c == 'e' || c == 'E' {
		d.pos++
		if c := d.peek(); c == '+' || c == '-' {
			d.pos++
		}
		if !isDigit(d.peek()) {
			return "", d.failAt(start, "malformed exponent")
		}
		d.digits()
	}
	return d.src[start:d.pos], nil
}

func (d *decoder) digits() {
	for isDigit(d.peek()) {
		d.pos++
	}
}

// number converts a scanned literal according to its shape and annotation.
// Integer literals beyond int64 decode as Decimal so no digits are lost.
func (d *decoder) number(lit, ann string, start int) (Value, error) {
	if lit == tokenNegInfinity {
		if ann != "" && ann != "float" {
			return nil, d.failAt(start, "special float cannot be annotated ::"+ann)
		}
		return Float(math.Inf(-1)), nil
	}
	integral := !strings.ContainsAny(lit, ".eE")

	switch ann {
	case "numeric":
		dec, err := decimal.NewFromString(lit)
		if err != nil {
			return nil, d.failAt(start, "malformed numeric")
		}
		return NewDecimal(dec), nil
	case "float":
		return d.float(lit, start)
	case "integer":
		if !integral {
			return nil, d.failAt(start, "integer annotation on a fractional literal")
		}
	case "":
		if !integral {
			return d.float(lit, start)
		}
	default:
		return nil, d.failAt(start, "unsupported annotation ::"+ann+" on a number")
	}

	i, err := strconv.ParseInt(lit, 10, 64)
	if err == nil {
		return Int(i), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		dec, derr := decimal.NewFromString(lit)
		if derr == nil {
			return NewDecimal(dec), nil
		}
	}
	return nil, d.failAt(start, "malformed integer")
}

func (d *decoder) float(lit string, start int) (Value, error) {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, d.failAt(start, "malformed float")
	}
	// Out of range literals saturate to ±Inf or 0, as ParseFloat reports them.
	return Float(f), nil
}

// word decodes a bare identifier literal.
func (d *decoder) word() (Value, error) {
	start := d.pos
	for isIdentPart(d.peek()) {
		d.pos++
	}
	w := d.src[start:d.pos]
	switch {
	case strings.EqualFold(w, "null"):
		return Null{}, nil
	case strings.EqualFold(w, "true"):
		return Bool(true), nil
	case strings.EqualFold(w, "false"):
		return Bool(false), nil
	case w == tokenInfinity:
		return Float(math.Inf(1)), nil
	case w == tokenNaN:
		return Float(math.NaN()), nil
	}
	return nil, d.failAt(start, fmt.Sprintf("unknown literal %q", w))
}

// annotation consumes an optional ::name suffix directly after a value.
func (d *decoder) annotation() (string, error) {
	if !strings.HasPrefix(d.src[d.pos:], "::") {
		return "", nil
	}
	at := d.pos
	d.pos += 2
	start := d.pos
	for isIdentPart(d.peek()) {
		d.pos++
	}
	if d.pos == start {
		return "", d.failAt(at, "missing annotation name")
	}
	return d.src[start:d.pos], nil
}

func (d *decoder) annotate(v Value, ann string, start int) (Value, error) {
	switch ann {
	case "":
		return v, nil
	case "vertex":
		m, ok := v.(Map)
		if !ok {
			return nil, d.failAt(start, "::vertex annotates a "+v.Kind().String())
		}
		vertex, err := vertexFromMap(m)
		if err != nil {
			return nil, d.failAt(start, err.Error())
		}
		return vertex, nil
	case "edge":
		m, ok := v.(Map)
		if !ok {
			return nil, d.failAt(start, "::edge annotates a "+v.Kind().String())
		}
		edge, err := edgeFromMap(m)
		if err != nil {
			return nil, d.failAt(start, err.Error())
		}
		return edge, nil
	case "path":
		l, ok := v.(List)
		if !ok {
			return nil, d.failAt(start, "::path annotates a "+v.Kind().String())
		}
		path, err := pathFromList(l)
		if err != nil {
			return nil, d.failAt(start, err.Error())
		}
		return path, nil
	case "float":
		if f, ok := v.(Float); ok {
			return f, nil
		}
	}
	return nil, d.failAt(start, fmt.Sprintf("unsupported annotation ::%s on a %s", ann, v.Kind()))
}

func (d *decoder) list() (List, error) {
	d.pos++ // '['
	items := List{}
	d.skipSpace()
	if d.peek() == ']' {
		d.pos++
		return items, nil
	}
	for {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		if s, ok := v.(String); ok && d.coerce {
			if f, ok := specialFloat(string(s)); ok {
				v = Float(f)
			}
		}
		items = append(items, v)
		d.skipSpace()
		switch d.peek() {
		case ',':
			d.pos++
		case ']':
			d.pos++
			return items, nil
		default:
			return nil, d.fail("expected ',' or ']' in list")
		}
	}
}

func (d *decoder) object() (Map, error) {
	coerce := d.coerce
	d.coerce = false
	defer func() { d.coerce = coerce }()

	d.pos++ // '{'
	var m Map
	d.skipSpace()
	if d.peek() == '}' {
		d.pos++
		return m, nil
	}
	for {
		d.skipSpace()
		if d.peek() != '"' {
			return Map{}, d.fail("expected object key")
		}
		key, err := d.str()
		if err != nil {
			return Map{}, err
		}
		d.skipSpace()
		if d.peek() != ':' {
			return Map{}, d.fail("expected ':' after object key")
		}
		d.pos++
		v, err := d.value()
		if err != nil {
			return Map{}, err
		}
		m.set(key, v)
		d.skipSpace()
		switch d.peek() {
		case ',':
			d.pos++
		case '}':
			d.pos++
			return m, nil
		default:
			return Map{}, d.fail("expected ',' or '}' in object")
		}
	}
}

// str decodes a double-quoted string. The result never aliases src.
func (d *decoder) str() (string, error) {
	start := d.pos
	d.pos++ // opening quote
	var sb strings.Builder
	for !d.eof() {
		c := d.src[d.pos]
		switch c {
		case '"':
			d.pos++
			return sb.String(), nil
		case '\\':
			if err := d.escape(&sb); err != nil {
				return "", err
			}
		default:
			sb.WriteByte(c)
			d.pos++
		}
	}
	return "", d.failAt(start, "unterminated string")
}

func (d *decoder) escape(sb *strings.Builder) error {
	at := d.pos
	d.pos++ // backslash
	if d.eof() {
		return d.failAt(at, "unterminated escape")
	}
	c := d.src[d.pos]
	d.pos++
	switch c {
	case '"', '\\', '/':
		sb.WriteByte(c)
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		r, err := d.hex4(at)
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			r2 := unicode.ReplacementChar
			if strings.HasPrefix(d.src[d.pos:], `\u`) {
				d.pos += 2
				if r2, err = d.hex4(at); err != nil {
					return err
				}
			}
			r = utf16.DecodeRune(r, r2)
		}
		sb.WriteRune(r)
	default:
		return d.failAt(at, fmt.Sprintf("invalid escape \\%c", c))
	}
	return nil
}

func (d *decoder) hex4(at int) (rune, error) {
	if d.pos+4 > len(d.src) {
		return 0, d.failAt(at, "truncated unicode escape")
	}
	n, err := strconv.ParseUint(d.src[d.pos:d.pos+4], 16, 32)
	if err != nil {
		return 0, d.failAt(at, "invalid unicode escape")
	}
	d.pos += 4
	return rune(n), nil
}

// specialFloat maps the three special float tokens to their values.
func specialFloat(s string) (float64, bool) {
	switch s {
	case tokenInfinity:
		return math.Inf(1), true
	case tokenNegInfinity:
		return math.Inf(-1), true
	case tokenNaN:
		return math.NaN(), true
	}
	return 0, false
}

func vertexFromMap(m Map) (Vertex, error) {
	if m.Has("start_id") || m.Has("end_id") {
		return Vertex{}, errors.New("vertex carries edge endpoints")
	}
	id, err := idField(m, "id")
	if err != nil {
		return Vertex{}, err
	}
	label, err := labelField(m)
	if err != nil {
		return Vertex{}, err
	}
	props, err := propertiesField(m)
	if err != nil {
		return Vertex{}, err
	}
	return Vertex{ID: id, Label: label, Properties: props}, nil
}

func edgeFromMap(m Map) (Edge, error) {
	id, err := idField(m, "id")
	if err != nil {
		return Edge{}, err
	}
	start, err := idField(m, "start_id")
	if err != nil {
		return Edge{}, err
	}
	end, err := idField(m, "end_id")
	if err != nil {
		return Edge{}, err
	}
	label, err := labelField(m)
	if err != nil {
		return Edge{}, err
	}
	props, err := propertiesField(m)
	if err != nil {
		return Edge{}, err
	}
	return Edge{ID: id, StartID: start, EndID: end, Label: label, Properties: props}, nil
}

func idField(m Map, key string) (ID, error) {
	v, ok := m.Get(key)
	if !ok {
		return 0, fmt.Errorf("missing %q", key)
	}
	switch x := v.(type) {
	case Int:
		if x < 0 {
			return 0, fmt.Errorf("%q is negative", key)
		}
		return ID(x), nil
	case Decimal:
		bi := x.BigInt()
		if x.IsInteger() && bi.IsUint64() {
			return ID(bi.Uint64()), nil
		}
	}
	return 0, fmt.Errorf("%q is not an unsigned 64-bit integer", key)
}

func labelField(m Map) (string, error) {
	v, ok := m.Get("label")
	if !ok {
		return "", errors.New(`missing "label"`)
	}
	s, ok := v.(String)
	if !ok {
		return "", errors.New(`"label" is not a string`)
	}
	return string(s), nil
}

func propertiesField(m Map) (Map, error) {
	v, ok := m.Get("properties")
	if !ok {
		return Map{}, errors.New(`missing "properties"`)
	}
	props, ok := v.(Map)
	if !ok {
		return Map{}, errors.New(`"properties" is not a map`)
	}
	return props, nil
}

// classify resolves a path element to a Vertex or an Edge. Un-annotated
// objects are classified by field presence: endpoints make an edge.
func classify(v Value) (Value, error) {
	switch x := v.(type) {
	case Vertex, Edge:
		return x, nil
	case Map:
		if x.Has("start_id") && x.Has("end_id") {
			e, err := edgeFromMap(x)
			if err != nil {
				return nil, err
			}
			return e, nil
		}
		if x.Has("id") && x.Has("label") && x.Has("properties") {
			v, err := vertexFromMap(x)
			if err != nil {
				return nil, err
			}
			return v, nil
		}
		return nil, errors.New("object is neither vertex- nor edge-shaped")
	}
	return nil, fmt.Errorf("%s is neither a vertex nor an edge", v.Kind())
}

func pathFromList(l List) (Path, error) {
	if len(l)%2 == 0 {
		return Path{}, fmt.Errorf("path has %d elements, want an odd count alternating vertex and edge", len(l))
	}
	p := Path{
		Vertices: make([]Vertex, 0, len(l)/2+1),
		Edges:    make([]Edge, 0, len(l)/2),
	}
	for i, el := range l {
		g, err := classify(el)
		if err != nil {
			return Path{}, fmt.Errorf("path element %d: %w", i, err)
		}
		switch x := g.(type) {
		case Vertex:
			if i%2 != 0 {
				return Path{}, fmt.Errorf("path element %d: expected edge, got vertex", i)
			}
			p.Vertices = append(p.Vertices, x)
		case Edge:
			if i%2 == 0 {
				return Path{}, fmt.Errorf("path element %d: expected vertex, got edge", i)
			}
			p.Edges = append(p.Edges, x)
		}
	}
	return p, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
