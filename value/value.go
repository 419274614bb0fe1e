// Package value provides the polymorphic value model the rendering core
// walks: every piece of user data reaching the renderer is a Value wrapping
// exactly one of Atom, Object, List, LazyValue or LazyFormat.
//
// There is no arithmetic, no comparison operators, and no generic "get item
// by index" here — the renderer only ever needs kind dispatch, truthiness,
// printing, keyed lookup, iteration, and lazy invocation. Keeping the
// surface this small is what lets any Go type join the model just by
// implementing one small interface.
package value

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
)

// Kind tags the shape a Value holds. The renderer switches on Kind rather
// than doing Go type assertions so that user-supplied types (which may
// implement several of Atom/Object/List/LazyValue/LazyFormat at once) are
// unambiguous: the Kind recorded at construction wins.
type Kind int

const (
	KindNull Kind = iota
	KindAtom
	KindObject
	KindList
	KindLazyValue
	KindLazyFormat
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindAtom:
		return "atom"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	case KindLazyValue:
		return "lazy_value"
	case KindLazyFormat:
		return "lazy_format"
	default:
		return "unknown"
	}
}

// Strict reports whether the kind is one of the renderer's four "ordinary"
// kinds, as opposed to a lazy kind that must be re-entered before a section
// or variable can be interpreted. This is the only ordering property the
// section interpreter relies on.
func (k Kind) Strict() bool {
	return k == KindNull || k == KindAtom || k == KindObject || k == KindList
}

// Atom is a leaf, directly printable value: a string, number, boolean, or
// any other scalar. Test reports truthiness in section position; Print
// writes the atom's text representation to w.
type Atom interface {
	Test() bool
	Print(w io.Writer) error
}

// Handle is the callback protocol Object.Get and List.Iterate invoke. It
// may be called more than once per Get/Iterate call (lists call it once per
// element) and the same Object may be asked to Get the same key many times
// across one render — implementations must not assume a handle is consumed
// exactly once globally.
type Handle func(Value)

// Object is an associative mapping from string keys to values. Get must
// invoke handle exactly once: with the value bound to key, or with Null()
// if key is absent. Key order is never observed by the renderer.
type Object interface {
	Get(key string, handle Handle)
}

// List is an ordered sequence. Iterate invokes handle once per element, in
// order. A Value constructed with FromList always satisfies this; a list
// whose underlying type is (or embeds) OpaqueList is treated by the
// section interpreter as a single opaque value rather than as a sequence.
type List interface {
	Iterate(handle Handle)
}

// LazyValue is a thunk that, invoked, yields another Value. view is nil in
// variable position; in section position it is the AST view of the section
// body currently being interpreted, letting the thunk decide how (or
// whether) to recurse into it. handle receives the yielded Value exactly
// once.
type LazyValue interface {
	CallValue(view any, handle Handle)
}

// Format is anything that exposes a renderable view: a parsed template.
// The render core asks it for a View and walks that, without caring how it
// was produced.
type Format interface {
	View() any
}

// LazyFormat is a thunk that, invoked, yields a Format to be rendered in
// the caller's current environment (same scope chain, same sinks). view is
// nil in variable position and the section body otherwise, exactly as for
// LazyValue.
type LazyFormat interface {
	CallFormat(view any) Format
}

// Value is the tagged union the renderer operates on uniformly. The zero
// Value is Null.
type Value struct {
	kind Kind
	data any
}

// Null returns the absence value. It never prints anything in variable
// position and is falsy in section position.
func Null() Value { return Value{kind: KindNull} }

// FromAtom wraps an Atom.
func FromAtom(a Atom) Value {
	if a == nil {
		return Null()
	}
	return Value{kind: KindAtom, data: a}
}

// FromObject wraps an Object.
func FromObject(o Object) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindObject, data: o}
}

// FromList wraps a List.
func FromList(l List) Value {
	if l == nil {
		return Null()
	}
	return Value{kind: KindList, data: l}
}

// OpaqueList advertises KindList without a usable Iterate: a Value built
// with FromList from an OpaqueList, or from a type that embeds one, reports
// ok=false from AsList, so the renderer's section interpreter falls back to
// rendering the section body once against the value itself. This is
// chiefly useful for types that want to advertise KindList without
// supporting iteration, e.g. a lazily-paged collection. Calling its
// Iterate directly panics.
type OpaqueList struct{}

func (OpaqueList) Iterate(Handle) { panic("value: OpaqueList has no Iterate; check Kind first") }

func (OpaqueList) opaqueList() {}

// FromLazyValue wraps a LazyValue.
func FromLazyValue(l LazyValue) Value {
	if l == nil {
		return Null()
	}
	return Value{kind: KindLazyValue, data: l}
}

// FromLazyFormat wraps a LazyFormat.
func FromLazyFormat(l LazyFormat) Value {
	if l == nil {
		return Null()
	}
	return Value{kind: KindLazyFormat, data: l}
}

// Kind reports which alternative of the union v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsAtom returns the wrapped Atom, if v holds one.
func (v Value) AsAtom() (Atom, bool) {
	a, ok := v.data.(Atom)
	return a, ok && v.kind == KindAtom
}

// AsObject returns the wrapped Object, if v holds one.
func (v Value) AsObject() (Object, bool) {
	o, ok := v.data.(Object)
	return o, ok && v.kind == KindObject
}

// AsList returns the wrapped List, if v holds one. ok is false both when v
// is not a list and when the list is (or embeds) an OpaqueList (the caller
// should fall back to treating v as a single value — see List's doc).
func (v Value) AsList() (List, bool) {
	if v.kind != KindList {
		return nil, false
	}
	if _, opaque := v.data.(interface{ opaqueList() }); opaque {
		return nil, false
	}
	l, ok := v.data.(List)
	return l, ok
}

// AsLazyValue returns the wrapped LazyValue, if v holds one.
func (v Value) AsLazyValue() (LazyValue, bool) {
	l, ok := v.data.(LazyValue)
	return l, ok && v.kind == KindLazyValue
}

// AsLazyFormat returns the wrapped LazyFormat, if v holds one.
func (v Value) AsLazyFormat() (LazyFormat, bool) {
	l, ok := v.data.(LazyFormat)
	return l, ok && v.kind == KindLazyFormat
}

// Raw returns the underlying Go value wrapped by v, for diagnostics.
func (v Value) Raw() any { return v.data }

// --- convenience atoms -----------------------------------------------------

// basicAtom adapts a plain Go scalar to the Atom interface using the
// standard truthiness/printing rules of the reference Mustache
// implementations: empty string, zero number, false bool, and nil are
// falsy; everything else prints via fmt and is truthy.
type basicAtom struct{ v any }

func (b basicAtom) Test() bool {
	switch x := b.v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}

func (b basicAtom) Print(w io.Writer) error {
	s, ok := b.v.(string)
	if !ok {
		s = fmt.Sprint(b.v)
	}
	_, err := io.WriteString(w, s)
	return err
}

// FromString wraps a string as an atom.
func FromString(s string) Value { return FromAtom(basicAtom{s}) }

// FromBool wraps a bool as an atom.
func FromBool(b bool) Value { return FromAtom(basicAtom{b}) }

// FromInt wraps an int64 as an atom.
func FromInt(i int64) Value { return FromAtom(basicAtom{i}) }

// FromFloat wraps a float64 as an atom.
func FromFloat(f float64) Value { return FromAtom(basicAtom{f}) }

// --- convenience object/list adapters --------------------------------------

// MapObject adapts a map[string]Value to Object.
type MapObject map[string]Value

func (m MapObject) Get(key string, handle Handle) {
	if v, ok := m[key]; ok {
		handle(v)
		return
	}
	handle(Null())
}

// FromMap wraps a map[string]Value as an object-kind Value.
func FromMap(m map[string]Value) Value { return FromObject(MapObject(m)) }

// SliceList adapts a []Value to List.
type SliceList []Value

func (s SliceList) Iterate(handle Handle) {
	for _, v := range s {
		handle(v)
	}
}

// FromSlice wraps a []Value as a list-kind Value.
func FromSlice(s []Value) Value { return FromList(SliceList(s)) }

// DefaultObject returns the object whose Get always yields Null, used to
// seed a scope frame when the root value is not an object.
func DefaultObject() Object { return emptyObject{} }

type emptyObject struct{}

func (emptyObject) Get(_ string, handle Handle) { handle(Null()) }

// FromAny converts an arbitrary Go value into a Value using reflection:
// maps become Object, slices/arrays become List, structs become Object
// (exported fields, honoring a `json` tag for the key name),
// pointers/interfaces are dereferenced, []byte becomes a string Atom, and
// bools, numbers and strings become Atoms. Any other kind (func, chan,
// complex, unsafe pointer) and any nil pointer becomes Null.
func FromAny(v any) Value {
	if v == nil {
		return Null()
	}
	if val, ok := v.(Value); ok {
		return val
	}
	if o, ok := v.(Object); ok {
		return FromObject(o)
	}
	if l, ok := v.(List); ok {
		return FromList(l)
	}
	if lv, ok := v.(LazyValue); ok {
		return FromLazyValue(lv)
	}
	if lf, ok := v.(LazyFormat); ok {
		return FromLazyFormat(lf)
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Null()
	}
	switch rv.Kind() {
	case reflect.Bool:
		return FromBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FromInt(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return FromFloat(rv.Float())
	case reflect.String:
		return FromString(rv.String())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return FromString(string(rv.Bytes()))
		}
		out := make([]Value, rv.Len())
		for i := range out {
			out[i] = fromReflect(rv.Index(i))
		}
		return FromSlice(out)
	case reflect.Map:
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			var key string
			if k.Kind() == reflect.String {
				key = k.String()
			} else {
				key = fmt.Sprint(k.Interface())
			}
			m[key] = fromReflect(iter.Value())
		}
		return FromMap(m)
	case reflect.Struct:
		return fromStruct(rv)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return fromReflect(rv.Elem())
	default:
		return Null()
	}
}

func fromStruct(rv reflect.Value) Value {
	t := rv.Type()
	m := make(map[string]Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			if comma := indexComma(tag); comma >= 0 {
				tag = tag[:comma]
			}
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		m[name] = fromReflect(rv.Field(i))
	}
	return FromMap(m)
}

func indexComma(s string) int {
	for i, c := range s {
		if c == ',' {
			return i
		}
	}
	return -1
}

// Repr is a debug representation, used by error messages and tests; it is
// never consulted by the rendering core itself.
func (v Value) Repr() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindAtom:
		var buf stringsBuilder
		if a, ok := v.AsAtom(); ok {
			_ = a.Print(&buf)
		}
		return strconv.Quote(buf.String())
	case KindObject:
		return "<object>"
	case KindList:
		return "<list>"
	case KindLazyValue:
		return "<lazy value>"
	case KindLazyFormat:
		return "<lazy format>"
	default:
		return "<unknown>"
	}
}

// stringsBuilder avoids importing strings solely for Repr's scratch buffer.
type stringsBuilder struct{ b []byte }

func (s *stringsBuilder) Write(p []byte) (int, error) { s.b = append(s.b, p...); return len(p), nil }
func (s *stringsBuilder) String() string              { return string(s.b) }

// sortedKeys returns m's keys in sorted order. Nothing in the package calls
// it; Repr prints every object as "<object>".
func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
