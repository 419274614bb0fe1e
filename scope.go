package wisp

import "github.com/foliage-labs/wisp/value"

// scope is one frame of the lexical lookup chain. Frames are strictly
// nested: a frame exists only for the duration of the section body that
// pushed it, and the visitor restores its scope pointer to the parent on
// the way out of that body — never outliving its parent.
type scope struct {
	parent *scope
	data   value.Object
}

// lookup walks scope outward (innermost first) looking for key. It
// returns value.Null() if every frame misses.
func lookup(s *scope, key string) value.Value {
	for cur := s; cur != nil; cur = cur.parent {
		var found value.Value
		cur.data.Get(key, func(v value.Value) { found = v })
		if !found.IsNull() {
			return found
		}
	}
	return value.Null()
}
