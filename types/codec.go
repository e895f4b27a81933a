package types

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	// ErrSerialization means a message could not be encoded. Builders treat it
	// as a contract violation and never emit the enclosing artifact.
	ErrSerialization = errors.New("types: serialization failure")
	ErrMalformed     = errors.New("types: malformed message")
)

// encoder writes proto3 wire format in field-number order so that equal
// messages always encode to equal bytes. Empty scalar fields are omitted;
// repeated elements are always written.
type encoder struct {
	buf []byte
	err error
}

func (e *encoder) putString(num protowire.Number, name, s string) {
	if s == "" {
		return
	}
	e.putStrings(num, name, []string{s})
}

func (e *encoder) putStrings(num protowire.Number, name string, ss []string) {
	if e.err != nil {
		return
	}
	for _, s := range ss {
		if !utf8.ValidString(s) {
			e.err = fmt.Errorf("%w: field %s is not valid UTF-8", ErrSerialization, name)
			return
		}
		e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
		e.buf = protowire.AppendString(e.buf, s)
	}
}

func (e *encoder) putBytes(num protowire.Number, b []byte) {
	if e.err != nil || len(b) == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, b)
}

func (e *encoder) putMessage(num protowire.Number, b []byte, err error) {
	if e.err != nil {
		return
	}
	if err != nil {
		e.err = err
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, b)
}

func (e *encoder) putBool(num protowire.Number, v bool) {
	if e.err != nil || !v {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeBool(v))
}

func (e *encoder) result() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.buf == nil {
		return []byte{}, nil
	}
	return e.buf, nil
}

type field struct {
	num    protowire.Number
	typ    protowire.Type
	bytes  []byte
	varint uint64
}

// decodeFields splits b into its fields. Unknown field types are skipped.
func decodeFields(b []byte) ([]field, error) {
	var fields []field
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
		}
		b = b[n:]
		fields = append(fields, f)
	}
	return fields, nil
}

func (f field) asString() (string, error) {
	if f.typ != protowire.BytesType {
		return "", fmt.Errorf("%w: field %d has wire type %d", ErrMalformed, f.num, f.typ)
	}
	if !utf8.Valid(f.bytes) {
		return "", fmt.Errorf("%w: field %d is not valid UTF-8", ErrMalformed, f.num)
	}
	return string(f.bytes), nil
}

func (f field) asBytes() ([]byte, error) {
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("%w: field %d has wire type %d", ErrMalformed, f.num, f.typ)
	}
	out := make([]byte, len(f.bytes))
	copy(out, f.bytes)
	return out, nil
}

func (f field) asBool() (bool, error) {
	if f.typ != protowire.VarintType {
		return false, fmt.Errorf("%w: field %d has wire type %d", ErrMalformed, f.num, f.typ)
	}
	return protowire.DecodeBool(f.varint), nil
}
