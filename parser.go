package cppon

import "strings"

// Mode selects how much work Parse does beyond recognizing the grammar.
type Mode int

const (
	// ModeFull parses fully, decodes blob-text to blob-bytes, and
	// converts every number-token to a concrete numeric.
	ModeFull Mode = iota
	// ModeEager parses fully and converts numbers but leaves blob-text
	// undecoded.
	ModeEager
	// ModeLazy parses fully but keeps numbers as textual number-tokens
	// and blobs as undecoded blob-text.
	ModeLazy
	// ModeValidate walks the grammar without building a tree.
	ModeValidate
)

// parser is the recursive-descent parser's working state: one NUL-
// terminated byte buffer, a cursor, and the mode controlling how much of
// the tree actually gets materialized.
type parser struct {
	env  *Env
	buf  []byte // buf[len(buf)-1] is the sentinel byte; real input is buf[:end()]
	pos  int
	mode Mode
}

func (p *parser) end() int { return len(p.buf) - 1 }

func (p *parser) cur() byte {
	if p.pos >= len(p.buf) {
		return 0
	}
	return p.buf[p.pos]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Parse parses src according to mode and returns the root Value.
//
// src is copied exactly once into an internally NUL-terminated buffer;
// every string-view, number-token, path-token and blob-text Value
// produced by the parser borrows from that copy, never from src itself,
// so the caller may reuse or mutate src immediately after Parse returns.
// The copy is kept alive for as long as any Value references it by
// ordinary Go garbage collection; callers do not need to manage its
// lifetime explicitly.
func Parse(env *Env, src []byte, mode Mode) (Value, error) {
	env.dispatch.rebind(env.dispatchOverride)

	if len(src) == 0 {
		return Null(), nil
	}
	if err := checkBOMRejections(src); err != nil {
		return Value{}, err
	}
	src = stripUTF8BOM(src)

	buf := make([]byte, len(src)+1) // trailing byte is the zero sentinel
	copy(buf, src)
	p := &parser{env: env, buf: buf, mode: mode}

	idx := skipSpaces(p.buf, 0, p.end())
	if idx == notFound {
		return Value{}, newSyntaxError(KindUnexpectedEndOfText, p.end(), "no non-whitespace input")
	}
	p.pos = idx

	val, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipWS()
	if p.pos < p.end() {
		return Value{}, newUnexpectedSymbol(p.buf[p.pos], p.pos)
	}
	return val, nil
}

// Validate walks src per the grammar without materializing a tree. For
// any well-formed input, Parse succeeds in every mode iff Validate
// succeeds.
func Validate(env *Env, src []byte) error {
	_, err := Parse(env, src, ModeValidate)
	return err
}

func checkBOMRejections(src []byte) error {
	if len(src) >= 4 && src[0] == 0x00 && src[1] == 0x00 && src[2] == 0xFE && src[3] == 0xFF {
		return newSyntaxError(KindUtf32Bom, 0, "UTF-32BE BOM is not supported")
	}
	if len(src) >= 4 && src[0] == 0xFF && src[1] == 0xFE && src[2] == 0x00 && src[3] == 0x00 {
		return newSyntaxError(KindUtf32Bom, 0, "UTF-32LE BOM is not supported")
	}
	if len(src) >= 2 && src[0] == 0xFE && src[1] == 0xFF {
		return newSyntaxError(KindUtf16Bom, 0, "UTF-16BE BOM is not supported")
	}
	if len(src) >= 2 && src[0] == 0xFF && src[1] == 0xFE {
		return newSyntaxError(KindUtf16Bom, 0, "UTF-16LE BOM is not supported")
	}
	c := src[0]
	if c >= 0xF8 {
		return newSyntaxError(KindInvalidUtf8, 0, "invalid UTF-8 lead byte")
	}
	if c >= 0x80 && c <= 0xBF {
		return newSyntaxError(KindUtf8Continuation, 0, "unexpected UTF-8 continuation byte at start of input")
	}
	return nil
}

func stripUTF8BOM(src []byte) []byte {
	if len(src) >= 3 && src[0] == 0xEF && src[1] == 0xBB && src[2] == 0xBF {
		return src[3:]
	}
	return src
}

func (p *parser) skipWS() {
	count := p.end() - p.pos
	if count <= 0 {
		return
	}
	idx := skipSpaces(p.buf, p.pos, count)
	if idx == notFound {
		p.pos = p.end()
		return
	}
	p.pos = idx
}

// scanDigits advances past a digit run starting at pos using the Env's
// dispatched scanner, relying on the sentinel byte at p.buf[p.end()] for
// the one-byte-past-window read.
func (p *parser) scanDigits(pos int) int {
	count := p.end() - pos
	return p.env.dispatch.scanDigits(p.buf, pos, count)
}

func (p *parser) parseValue() (Value, error) {
	p.skipWS()
	if p.pos >= p.end() {
		return Value{}, newSyntaxError(KindUnexpectedEndOfText, p.pos, "expected a value")
	}
	c := p.buf[p.pos]
	switch {
	case c == '"':
		p.pos++
		return p.parseString()
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == 'n':
		return p.parseKeyword("null", Null())
	case c == 't':
		return p.parseKeyword("true", Bool(true))
	case c == 'f':
		return p.parseKeyword("false", Bool(false))
	case c == '-' || isDigit(c):
		return p.parseNumber()
	default:
		return Value{}, newUnexpectedSymbol(c, p.pos)
	}
}

func (p *parser) parseKeyword(kw string, v Value) (Value, error) {
	end := p.pos + len(kw)
	if end > p.end() {
		return Value{}, newUnexpectedSymbol(p.cur(), p.pos)
	}
	for i := 0; i < len(kw); i++ {
		if p.buf[p.pos+i] != kw[i] {
			return Value{}, newUnexpectedSymbol(p.buf[p.pos+i], p.pos+i)
		}
	}
	p.pos = end
	return v, nil
}

// parseStringRaw assumes the leading quote has already been consumed. It
// finds the closing unescaped quote via the dispatched find-quote
// primitive; an odd-length run of backslashes immediately before a quote
// escapes it rather than closing the string.
func (p *parser) parseStringRaw() (string, error) {
	start := p.pos
	for {
		count := p.end() - p.pos
		if count < 0 {
			count = 0
		}
		idx := p.env.dispatch.findQuote(p.buf, p.pos, count)
		if idx == notFound {
			return "", newSyntaxError(KindUnexpectedEndOfText, p.pos, "unterminated string")
		}
		backslashes := 0
		for j := idx - 1; j >= start && p.buf[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 1 {
			p.pos = idx + 1
			continue
		}
		content := bytesToString(p.buf[start:idx])
		p.pos = idx + 1
		return content, nil
	}
}

// parseString classifies the raw string body: path prefix, blob prefix,
// typed-number prefix, else a plain string-view. Object *keys* go
// through parseStringRaw directly, not this classification; a key is
// always a plain borrowed name, never itself a path/blob/number Value.
func (p *parser) parseString() (Value, error) {
	raw, err := p.parseStringRaw()
	if err != nil {
		return Value{}, err
	}
	cfg := p.env.cfg
	switch {
	case cfg.PathPrefix != "" && strings.HasPrefix(raw, cfg.PathPrefix):
		tail := raw[len(cfg.PathPrefix):]
		if tail == "" || tail[0] != '/' {
			return Value{}, newTokenError(KindInvalidPath, raw, "path-token must be absolute")
		}
		return pathToken(tail), nil
	case cfg.BlobPrefix != "" && strings.HasPrefix(raw, cfg.BlobPrefix):
		payload := raw[len(cfg.BlobPrefix):]
		if p.mode == ModeFull || p.mode == ModeValidate {
			decoded, err := base64Decode(payload, true)
			if err != nil {
				return Value{}, err
			}
			if p.mode == ModeValidate {
				return Value{kind: KindBlobText, str: payload}, nil
			}
			return Value{kind: KindBlobBytes, bytes: decoded}, nil
		}
		return Value{kind: KindBlobText, str: payload}, nil
	case cfg.NumberPrefix != "" && strings.HasPrefix(raw, cfg.NumberPrefix):
		return p.parseTypedNumberToken(raw[len(cfg.NumberPrefix):])
	default:
		return Value{kind: KindStringView, str: raw}, nil
	}
}

// parseTypedNumberToken parses the reversible TYPE(digits) form used by
// JSON-compat printing of width-suffixed numbers.
func (p *parser) parseTypedNumberToken(wrapped string) (Value, error) {
	open := strings.IndexByte(wrapped, '(')
	if open < 0 || len(wrapped) == 0 || wrapped[len(wrapped)-1] != ')' {
		return Value{}, newTokenError(KindNumberNotConverted, wrapped, "malformed typed number token")
	}
	typeName := wrapped[:open]
	digits := wrapped[open+1 : len(wrapped)-1]
	kind, ok := numberKindFromTypeName(typeName)
	if !ok {
		return Value{}, newTokenError(KindNumberNotConverted, typeName, "unknown typed-number TYPE")
	}
	if p.mode == ModeLazy {
		return Value{kind: KindNumberToken, numKind: kind, str: digits}, nil
	}
	bits, err := convertText(digits, kind)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindNumber, numKind: kind, bits: bits}, nil
}

func (p *parser) parseNumber() (Value, error) {
	start := p.pos
	if p.cur() == '-' {
		p.pos++
	}
	if p.cur() == '0' {
		p.pos++
	} else if isDigit(p.cur()) {
		p.pos = p.scanDigits(p.pos)
	} else {
		return Value{}, newUnexpectedSymbol(p.cur(), p.pos)
	}

	isFloat := false
	if p.cur() == '.' {
		isFloat = true
		p.pos++
		if !isDigit(p.cur()) {
			return Value{}, newUnexpectedSymbol(p.cur(), p.pos)
		}
		p.pos = p.scanDigits(p.pos)
	}
	if p.cur() == 'e' || p.cur() == 'E' {
		isFloat = true
		p.pos++
		if p.cur() == '+' || p.cur() == '-' {
			p.pos++
		}
		if !isDigit(p.cur()) {
			return Value{}, newUnexpectedSymbol(p.cur(), p.pos)
		}
		p.pos = p.scanDigits(p.pos)
	}

	text := bytesToString(p.buf[start:p.pos])
	kind, err := p.parseNumberSuffix(isFloat)
	if err != nil {
		return Value{}, err
	}
	if p.mode == ModeLazy {
		return Value{kind: KindNumberToken, numKind: kind, str: text}, nil
	}
	bits, err := convertText(text, kind)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindNumber, numKind: kind, bits: bits}, nil
}

// parseNumberSuffix reads the optional width suffix. A decimal or
// exponent form only admits f/F; a pure integer form admits i/u width
// codes. The two sets never combine.
func (p *parser) parseNumberSuffix(isFloat bool) (NumberKind, error) {
	if isFloat {
		if p.cur() == 'f' || p.cur() == 'F' {
			p.pos++
			return NumKindF32, nil
		}
		return NumKindJSONDouble, nil
	}
	c := p.cur()
	if c != 'i' && c != 'u' {
		return NumKindJSONInt64, nil
	}
	signed := c == 'i'
	p.pos++
	next := p.cur()
	switch next {
	case '8':
		p.pos++
		if signed {
			return NumKindI8, nil
		}
		return NumKindU8, nil
	case '1':
		p.pos++
		if p.cur() != '6' {
			return 0, newUnexpectedSymbol(p.cur(), p.pos)
		}
		p.pos++
		if signed {
			return NumKindI16, nil
		}
		return NumKindU16, nil
	case '3':
		p.pos++
		if p.cur() != '2' {
			return 0, newUnexpectedSymbol(p.cur(), p.pos)
		}
		p.pos++
		if signed {
			return NumKindI32, nil
		}
		return NumKindU32, nil
	case '6':
		p.pos++
		if p.cur() != '4' {
			return 0, newUnexpectedSymbol(p.cur(), p.pos)
		}
		p.pos++
		if signed {
			return KindI64Num, nil
		}
		return KindU64Num, nil
	default:
		if isDigit(next) {
			// a digit that doesn't start a recognized width code
			return 0, newUnexpectedSymbol(next, p.pos)
		}
		// bare i/u means 64-bit
		if signed {
			return KindI64Num, nil
		}
		return KindU64Num, nil
	}
}

func (p *parser) parseObject() (Value, error) {
	p.pos++ // consume '{'
	obj := Value{kind: KindObject}
	if p.mode != ModeValidate {
		obj.members = make([]member, 0, p.env.cfg.MinReserve)
	}
	p.skipWS()
	if p.pos < p.end() && p.buf[p.pos] == '}' {
		p.pos++
		return obj, nil
	}
	for {
		p.skipWS()
		if p.pos >= p.end() || p.buf[p.pos] != '"' {
			return Value{}, newExpectedSymbol('"', p.pos)
		}
		p.pos++
		key, err := p.parseStringRaw()
		if err != nil {
			return Value{}, err
		}
		p.skipWS()
		if p.pos >= p.end() || p.buf[p.pos] != ':' {
			return Value{}, newExpectedSymbol(':', p.pos)
		}
		p.pos++
		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		if p.mode != ModeValidate {
			obj.members = append(obj.members, member{key: key, val: val})
		}
		p.skipWS()
		if p.pos >= p.end() {
			return Value{}, newSyntaxError(KindUnexpectedEndOfText, p.pos, "unterminated object")
		}
		switch p.buf[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return obj, nil
		default:
			return Value{}, newUnexpectedSymbol(p.buf[p.pos], p.pos)
		}
	}
}

func (p *parser) parseArray() (Value, error) {
	p.pos++ // consume '['
	arr := Value{kind: KindArray}
	if p.mode != ModeValidate {
		arr.elems = make([]Value, 0, p.env.cfg.MinReserve)
	}
	p.skipWS()
	if p.pos < p.end() && p.buf[p.pos] == ']' {
		p.pos++
		return arr, nil
	}
	for {
		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		if p.mode != ModeValidate {
			arr.elems = append(arr.elems, val)
		}
		p.skipWS()
		if p.pos >= p.end() {
			return Value{}, newSyntaxError(KindUnexpectedEndOfText, p.pos, "unterminated array")
		}
		switch p.buf[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return arr, nil
		default:
			return Value{}, newUnexpectedSymbol(p.buf[p.pos], p.pos)
		}
	}
}
