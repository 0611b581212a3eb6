// SPDX-License-Identifier: MPL-2.0

package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"time"
)

var (
	// ErrSyntax is returned by Parse for input that is not a single JSON value.
	ErrSyntax = errors.New("malformed JSON")
	// ErrDuplicateKey is returned by Parse when an object repeats a key.
	ErrDuplicateKey = errors.New("duplicate object key")
	// ErrUnsupportedValue is returned when a value cannot be represented in the tree.
	ErrUnsupportedValue = errors.New("unsupported value")
)

// Parse decodes a single JSON document into a tree, preserving object key order.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrSyntax)
		}
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after offset %d", ErrSyntax, dec.InputOffset())
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, t, dec.InputOffset())
		}
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected token %v", ErrSyntax, tok)
	}
}

func parseObject(dec *json.Decoder) (Value, error) {
	obj := NewObject(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key must be a string at offset %d", ErrSyntax, dec.InputOffset())
		}
		if obj.Has(key) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		v, err := parseValue(dec)
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		obj.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(err)
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	arr := Array{}
	for dec.More() {
		v, err := parseValue(dec)
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		arr = append(arr, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(err)
	}
	return arr, nil
}

// unexpectedEOF turns a bare io.EOF inside a container into a syntax error.
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return syntaxError(err)
	}
	return err
}

func syntaxError(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %w", ErrSyntax, err)
}

// Marshal encodes v as JSON. With an empty indent the output is compact;
// otherwise nested values are indented with indent per level.
func Marshal(v Value, indent string) ([]byte, error) {
	var compact bytes.Buffer
	if err := writeValue(&compact, v); err != nil {
		return nil, err
	}
	if indent == "" {
		return compact.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("indenting document: %w", err)
	}
	return out.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(t)))
	case Number:
		if !json.Valid([]byte(t)) {
			return fmt.Errorf("%w: number literal %q", ErrUnsupportedValue, string(t))
		}
		buf.WriteString(string(t))
	case String:
		return writeString(buf, string(t))
	case Array:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object:
		buf.WriteByte('{')
		i := 0
		for k, e := range t.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, e); err != nil {
				return err
			}
			i++
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return nil
}

// writeString quotes s without HTML escaping, so version ranges such as
// ">=1.0" stay readable.
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding string: %w", err)
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}

// FromGo converts a value produced by a generic decoder (encoding/json, CUE,
// TOML or YAML decoding into any) into a tree. Map keys are sorted because Go
// maps carry no order.
func FromGo(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return Clone(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint16:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint32:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case float32:
		return floatNumber(float64(t), 32)
	case float64:
		return floatNumber(t, 64)
	case time.Time:
		return String(t.Format(time.RFC3339Nano)), nil
	case []any:
		arr := make(Array, len(t))
		for i, e := range t {
			conv, err := FromGo(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = conv
		}
		return arr, nil
	case []map[string]any:
		arr := make(Array, len(t))
		for i, e := range t {
			conv, err := FromGo(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = conv
		}
		return arr, nil
	case map[string]any:
		obj := NewObject(len(t))
		for _, k := range slices.Sorted(maps.Keys(t)) {
			conv, err := FromGo(t[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj.Set(k, conv)
		}
		return obj, nil
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: non-string object key %v", ErrUnsupportedValue, k)
			}
			m[ks] = e
		}
		return FromGo(m)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func floatNumber(f float64, bits int) (Value, error) {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !json.Valid([]byte(s)) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedValue, s)
	}
	return Number(s), nil
}
