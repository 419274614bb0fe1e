package wisp

import (
	"strings"

	"github.com/foliage-labs/wisp/value"
)

// splitFirst splits key on its first '.' boundary, returning the segment
// before it and everything after (without the dot). rest is "" both when
// key has no dot and when key's first dot is its last byte — an edge case
// no Mustache template can legitimately construct.
func splitFirst(key string) (seg, rest string) {
	if i := strings.IndexByte(key, '.'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

// resolve performs the first phase of two-phase dotted-key lookup: the
// cursor and leading-dot rules, then either an innermost-frame-only lookup
// (leading dot) or a full scope-chain lookup (bare key) for the first
// segment. It returns the value found for that first segment and whatever
// dotted remainder still needs nested descent ("" if none).
func (v *visitor) resolve(key string) (val value.Value, rest string) {
	if key == "" {
		return value.Null(), ""
	}
	if key[0] == '.' {
		if key == "." {
			return v.cursor, ""
		}
		seg, rest := splitFirst(key[1:])
		var found value.Value
		v.scope.data.Get(seg, func(x value.Value) { found = x })
		return found, rest
	}
	seg, rest := splitFirst(key)
	return lookup(v.scope, seg), rest
}

// resolveNested descends purely by Object.Get, one dotted segment at a
// time, starting from obj. It fails (ok=false) the moment an intermediate
// value isn't an object, or any segment misses — nested descent fails
// silently rather than erroring.
func resolveNested(obj value.Object, sub string) (val value.Value, ok bool) {
	for {
		seg, rest := splitFirst(sub)
		var got value.Value
		obj.Get(seg, func(x value.Value) { got = x })
		if rest == "" {
			if got.IsNull() {
				return value.Null(), false
			}
			return got, true
		}
		if got.IsNull() {
			return value.Null(), false
		}
		next, isObj := got.AsObject()
		if !isObj {
			return value.Null(), false
		}
		obj, sub = next, rest
	}
}

// resolveAndHandle glues resolve/resolveNested with an unresolved-handler
// fallback: on a miss, it calls unresolved (if any) and hands its result to
// handle; unresolved is nil for section-key resolution, where a miss is
// simply treated as Null.
func (v *visitor) resolveAndHandle(key string, unresolved func(string) value.Value, handle func(value.Value)) {
	val, rest := v.resolve(key)
	if rest != "" {
		if obj, ok := val.AsObject(); ok {
			if nested, ok := resolveNested(obj, rest); ok {
				handle(nested)
				return
			}
		}
	} else if !val.IsNull() {
		handle(val)
		return
	}
	if unresolved != nil {
		handle(unresolved(key))
		return
	}
	handle(value.Null())
}
