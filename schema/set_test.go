package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typereflect/errors"
)

func TestNewSetOrderAndLookup(t *testing.T) {
	a := &Struct{Name: "A"}
	b := &Alias{Name: "B", Type: ArrayOf(Ref("A"))}
	c := &Enum{Name: "C"}

	set, err := NewSet(c, a, b)
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []Entity{c, a, b}, set.Entities())
	assert.Equal(t, []string{"A", "B", "C"}, set.Names())

	got, ok := set.Lookup("B")
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.False(t, set.Has("D"))
}

func TestNewSetRejectsDuplicates(t *testing.T) {
	_, err := NewSet(&Struct{Name: "A"}, &Enum{Name: "A"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidSchema))
	assert.Contains(t, err.Error(), "declared twice")
}

func TestSetEntitiesIsACopy(t *testing.T) {
	set := MustSet(&Struct{Name: "A"})
	entities := set.Entities()
	entities[0] = &Struct{Name: "Z"}
	assert.Equal(t, "A", set.Entities()[0].EntityName())
}

func TestSelect(t *testing.T) {
	set := MustSet(&Struct{Name: "A"}, &Struct{Name: "B"}, &Struct{Name: "C"})

	all, err := set.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := set.Select([]string{"C", "A"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "A", some[0].EntityName(), "selection keeps schema order")
	assert.Equal(t, "C", some[1].EntityName())

	_, err = set.Select([]string{"Nope"})
	assert.True(t, errors.Is(err, errors.ErrUnknownReference))
}

func TestMerge(t *testing.T) {
	left := MustSet(&Struct{Name: "A"})
	right := MustSet(&Struct{Name: "B"})

	merged, err := left.Merge(right)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, merged.Names())
	assert.Equal(t, 1, left.Len())

	_, err = merged.Merge(right)
	assert.Error(t, err)
}

func TestCheckReferences(t *testing.T) {
	node := &Struct{Name: "Node", Fields: []NamedField{
		{Name: "children", Type: ArrayOf(Ref("Node"))},
		{Name: "meta", Type: OptionalOf(Ref("Meta"))},
	}}
	event := &Enum{Name: "Event", Type: Untagged{}, Cases: []EnumCase{
		{Name: "Moved", Fields: NamedCase{Fields: []NamedField{{Name: "to", Type: Ref("Point")}}}},
	}}
	set := MustSet(node, event)

	err := set.CheckReferences(node)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownReference))
	assert.Contains(t, err.Error(), "field meta: Meta")

	err = set.CheckReferences(event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "case Moved field to: Point")

	withMeta := MustSet(node, &Struct{Name: "Meta"})
	assert.NoError(t, withMeta.CheckReferences(node))
}
