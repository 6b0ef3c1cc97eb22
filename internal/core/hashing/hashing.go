// Package hashing derives deterministic content keys for the build cache and stable
// serialization indices for objects.
package hashing

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"encoding/hex"
	"math"
	"reflect"
	"slices"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/zerr"
)

// KeySize is the size of a content key in bytes.
const KeySize = 16

// Key is a 128-bit content key.
type Key [KeySize]byte

// String returns the lowercase hex form of the key.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// MarshalText encodes the key as hex.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a hex key.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey parses the hex form produced by Key.String.
func ParseKey(s string) (Key, error) {
	var k Key
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != KeySize {
		return k, zerr.With(domain.ErrInvalidKey, "key", s)
	}
	copy(k[:], raw)
	return k, nil
}

// Sum hashes a stage format version followed by values into a Key.
// Supported values are booleans, numbers, strings, byte slices, text marshalers,
// and slices, arrays, maps, pointers and structs of those. Maps are hashed in key order;
// wrap a slice with Unordered to hash it independently of element order.
func Sum(version uint32, values ...any) (Key, error) {
	h := digest.Canonical.Hash()
	e := &encoder{w: h}
	e.uint(version)
	for _, v := range values {
		if err := e.encode(reflect.ValueOf(v)); err != nil {
			return Key{}, err
		}
	}
	var k Key
	copy(k[:], h.Sum(nil))
	return k, nil
}

// MustSum is Sum for values known to be hashable. It panics otherwise.
func MustSum(version uint32, values ...any) Key {
	k, err := Sum(version, values...)
	if err != nil {
		panic(err)
	}
	return k
}

// unordered marks a collection whose element order must not affect the hash.
type unordered struct {
	v any
}

// Unordered wraps a slice, array or map so Sum hashes its elements as a set.
func Unordered(v any) any {
	return unordered{v: v}
}

var (
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	unorderedType     = reflect.TypeFor[unordered]()
)

// Tags separate value kinds so that distinct structures never share an encoding.
const (
	tagNil byte = iota
	tagBool
	tagInt
	tagUint
	tagFloat
	tagString
	tagBytes
	tagText
	tagList
	tagSet
	tagMap
	tagStruct
)

type writer interface {
	Write(p []byte) (int, error)
}

type encoder struct {
	w writer
}

func (e *encoder) tag(t byte) {
	_, _ = e.w.Write([]byte{t})
}

func (e *encoder) uint(v uint32) {
	e.uint64(uint64(v))
}

func (e *encoder) uint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = e.w.Write(buf[:])
}

func (e *encoder) bytes(b []byte) {
	e.uint64(uint64(len(b)))
	_, _ = e.w.Write(b)
}

//nolint:gocyclo // one case per reflect kind
func (e *encoder) encode(v reflect.Value) error {
	if v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		e.tag(tagNil)
		return nil
	}

	if v.Type() == unorderedType {
		return e.encodeSet(reflect.ValueOf(v.Interface().(unordered).v))
	}

	if v.Type().Implements(textMarshalerType) && (v.Kind() != reflect.Pointer || !v.IsNil()) {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return zerr.Wrap(err, domain.ErrUnhashableValue.Error())
		}
		e.tag(tagText)
		e.bytes(text)
		return nil
	}

	switch v.Kind() {
	case reflect.Bool:
		e.tag(tagBool)
		if v.Bool() {
			_, _ = e.w.Write([]byte{1})
		} else {
			_, _ = e.w.Write([]byte{0})
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.tag(tagInt)
		e.uint64(uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.tag(tagUint)
		e.uint64(v.Uint())
	case reflect.Float32, reflect.Float64:
		e.tag(tagFloat)
		e.uint64(math.Float64bits(v.Float()))
	case reflect.String:
		e.tag(tagString)
		e.bytes([]byte(v.String()))
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			e.tag(tagBytes)
			e.bytes(v.Bytes())
			return nil
		}
		return e.encodeList(v)
	case reflect.Array:
		return e.encodeList(v)
	case reflect.Map:
		return e.encodeMap(v)
	case reflect.Struct:
		return e.encodeStruct(v)
	case reflect.Pointer:
		if v.IsNil() {
			e.tag(tagNil)
			return nil
		}
		return e.encode(v.Elem())
	default:
		return zerr.With(domain.ErrUnhashableValue, "kind", v.Kind().String())
	}
	return nil
}

func (e *encoder) encodeList(v reflect.Value) error {
	e.tag(tagList)
	e.uint64(uint64(v.Len()))
	for i := range v.Len() {
		if err := e.encode(v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// encodeSet hashes every element on its own and writes the encodings in sorted order.
func (e *encoder) encodeSet(v reflect.Value) error {
	var elems [][]byte
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			b, err := encodeToBytes(v.Index(i))
			if err != nil {
				return err
			}
			elems = append(elems, b)
		}
	case reflect.Map:
		return e.encodeMap(v)
	default:
		return zerr.With(domain.ErrUnhashableValue, "kind", v.Kind().String())
	}
	slices.SortFunc(elems, bytes.Compare)
	e.tag(tagSet)
	e.uint64(uint64(len(elems)))
	for _, b := range elems {
		e.bytes(b)
	}
	return nil
}

// encodeMap writes entries ordered by the encoding of their keys.
func (e *encoder) encodeMap(v reflect.Value) error {
	type entry struct{ key, value []byte }
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := encodeToBytes(iter.Key())
		if err != nil {
			return err
		}
		val, err := encodeToBytes(iter.Value())
		if err != nil {
			return err
		}
		entries = append(entries, entry{key: k, value: val})
	}
	slices.SortFunc(entries, func(a, b entry) int { return bytes.Compare(a.key, b.key) })

	e.tag(tagMap)
	e.uint64(uint64(len(entries)))
	for _, en := range entries {
		e.bytes(en.key)
		e.bytes(en.value)
	}
	return nil
}

// encodeStruct writes exported fields in declaration order. Fields tagged `hash:"-"` are skipped.
func (e *encoder) encodeStruct(v reflect.Value) error {
	t := v.Type()
	e.tag(tagStruct)
	e.bytes([]byte(t.Name()))
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("hash") == "-" {
			continue
		}
		e.bytes([]byte(f.Name))
		if err := e.encode(v.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

func encodeToBytes(v reflect.Value) ([]byte, error) {
	var buf bytes.Buffer
	sub := &encoder{w: &buf}
	if err := sub.encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
