package value_test

import (
	"testing"

	"github.com/foliage-labs/wisp/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomTruthiness(t *testing.T) {
	cases := []struct {
		v     value.Value
		truthy bool
	}{
		{value.FromString(""), false},
		{value.FromString("x"), true},
		{value.FromBool(false), false},
		{value.FromBool(true), true},
		{value.FromInt(0), false},
		{value.FromInt(1), true},
		{value.FromFloat(0), false},
		{value.Null(), false},
	}
	for _, c := range cases {
		if c.v.IsNull() {
			assert.Equal(t, value.KindNull, c.v.Kind())
			continue
		}
		a, ok := c.v.AsAtom()
		require.True(t, ok)
		assert.Equal(t, c.truthy, a.Test(), "Repr=%s", c.v.Repr())
	}
}

func TestFromMapGet(t *testing.T) {
	v := value.FromMap(map[string]value.Value{
		"name": value.FromString("Chris"),
	})
	obj, ok := v.AsObject()
	require.True(t, ok)

	var got value.Value
	obj.Get("name", func(x value.Value) { got = x })
	a, ok := got.AsAtom()
	require.True(t, ok)
	assert.True(t, a.Test())

	var miss value.Value
	obj.Get("nope", func(x value.Value) { miss = x })
	assert.True(t, miss.IsNull())
}

func TestFromSliceIterate(t *testing.T) {
	v := value.FromSlice([]value.Value{value.FromInt(1), value.FromInt(2), value.FromInt(3)})
	l, ok := v.AsList()
	require.True(t, ok)

	var reprs []string
	l.Iterate(func(x value.Value) { reprs = append(reprs, x.Repr()) })
	assert.Equal(t, []string{`"1"`, `"2"`, `"3"`}, reprs)
}

func TestDefaultObjectAlwaysNull(t *testing.T) {
	obj := value.DefaultObject()
	var got value.Value
	obj.Get("anything", func(x value.Value) { got = x })
	assert.True(t, got.IsNull())
}

type person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	Tags []string
}

func TestFromAnyStruct(t *testing.T) {
	v := value.FromAny(person{Name: "Ada", Age: 36, Tags: []string{"math", "computing"}})
	obj, ok := v.AsObject()
	require.True(t, ok)

	var name, age, tags value.Value
	obj.Get("name", func(x value.Value) { name = x })
	obj.Get("age", func(x value.Value) { age = x })
	obj.Get("Tags", func(x value.Value) { tags = x })

	nameAtom, ok := name.AsAtom()
	require.True(t, ok)
	assert.True(t, nameAtom.Test())

	ageAtom, ok := age.AsAtom()
	require.True(t, ok)
	assert.True(t, ageAtom.Test())

	tagList, ok := tags.AsList()
	require.True(t, ok)
	count := 0
	tagList.Iterate(func(value.Value) { count++ })
	assert.Equal(t, 2, count)
}

func TestFromAnyNilPointer(t *testing.T) {
	var p *person
	v := value.FromAny(p)
	assert.True(t, v.IsNull())
}

func TestStructObjectLazyField(t *testing.T) {
	obj := value.NewStructObject(&person{Name: "Grace", Age: 85})
	var name value.Value
	obj.Get("name", func(x value.Value) { name = x })
	a, ok := name.AsAtom()
	require.True(t, ok)
	assert.True(t, a.Test())
}

func TestChainObjectFallsThrough(t *testing.T) {
	primary := value.MapObject{"a": value.FromString("primary")}
	fallback := value.MapObject{"a": value.FromString("fallback"), "b": value.FromString("only-in-fallback")}
	chain := value.ChainObject{primary, fallback}

	var a, b, c value.Value
	chain.Get("a", func(x value.Value) { a = x })
	chain.Get("b", func(x value.Value) { b = x })
	chain.Get("c", func(x value.Value) { c = x })

	aAtom, _ := a.AsAtom()
	bAtom, _ := b.AsAtom()
	require.NotNil(t, aAtom)
	require.NotNil(t, bAtom)
	assert.True(t, c.IsNull())
}
