package pathfinder

import (
	"encoding/json"
	"testing"

	"github.com/npillmayer/cssompatch/cssom/douceuradapter"
	"github.com/npillmayer/cssompatch/index"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sample = `@import "x.css"; a {} b {} a {} @media print {c {}} @media print {d {}} e:before {}`

func build(t *testing.T, text string) *index.RuleNode {
	t.Helper()
	sheet, err := douceuradapter.Parse(text)
	require.NoError(t, err)
	return index.Build(sheet, index.HideImports)
}

func TestLocateExact(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.pathfinder")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	root := build(t, sample)
	loc := Locate(root, Path{C("a", 2)}, nil)
	assert.Equal(t, Exact, loc.Kind)
	assert.Equal(t, 3, loc.Node.SiblingIndex())
	assert.True(t, loc.Parent == root)
	//
	loc = Locate(root, Path{C("@media print", 2), C("d", 1)}, nil)
	assert.Equal(t, Exact, loc.Kind)
	assert.Equal(t, "d", loc.Node.Name())
	assert.Equal(t, 5, loc.Node.TopLevel().SiblingIndex())
	//
	loc = Locate(root, Path{{Name: "e:after", Pos: 0}}, nil)
	assert.Equal(t, Partial, loc.Kind)
	loc = Locate(root, Path{{Name: "e:before", Pos: 0}}, nil)
	assert.Equal(t, Exact, loc.Kind, "expected names to be normalized")
	//
	loc = Locate(root, nil, nil)
	assert.Equal(t, Exact, loc.Kind)
	assert.True(t, loc.Node == root)
	assert.Nil(t, loc.Parent)
}

func TestLocateNearest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.pathfinder")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	root := build(t, sample)
	loc := Locate(root, Path{C("a", 5)}, nil)
	assert.Equal(t, Nearest, loc.Kind)
	assert.Equal(t, 3, loc.Node.SiblingIndex(), "expected last candidate")
	//
	loc = Locate(root, Path{C("@media print", 3), C("c", 1)}, nil)
	assert.Equal(t, Partial, loc.Kind, "last @media print has no c")
	assert.Equal(t, 5, loc.Parent.SiblingIndex())
	//
	hints := []Hint{{}, {}}
	loc = LocateAdd(root, Path{C("@media print", 3), C("c", 1)}, hints)
	assert.Equal(t, Nearest, loc.Kind, "hints prefer a candidate containing c")
	assert.Equal(t, 4, loc.Node.TopLevel().SiblingIndex())
	//
	loc = Locate(root, Path{C("@media print", 3), C("c", 1)}, hints)
	assert.Equal(t, Partial, loc.Kind, "hints break ties for additions only")
	assert.Equal(t, 5, loc.Parent.SiblingIndex())
}

func TestLocatePartial(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.pathfinder")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	root := build(t, sample)
	loc := Locate(root, Path{C("@media screen", 1), C("f", 1)}, nil)
	assert.Equal(t, Partial, loc.Kind)
	assert.True(t, loc.Parent == root)
	assert.Equal(t, 0, loc.Level)
	assert.Equal(t, Path{C("@media screen", 1), C("f", 1)}, loc.Rest)
	assert.Equal(t, 7, loc.Index, "append to live list")
	assert.Equal(t, "e::before", loc.Node.Name())
	//
	loc = Locate(root, Path{C("@media print", 1), C("f", 1)}, nil)
	assert.Equal(t, Partial, loc.Kind)
	assert.Equal(t, 1, loc.Level)
	assert.Equal(t, Path{C("f", 1)}, loc.Rest)
	assert.Equal(t, 1, loc.Index)
	assert.Equal(t, "c", loc.Node.Name())
}

func TestInsertionIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssom.pathfinder")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	root := build(t, sample)
	assert.Equal(t, 9, InsertionIndex(root, Hint{}, 9))
	assert.Equal(t, 2, InsertionIndex(root, Hint{Before: []PathComponent{C("x", 1), C("b", 1)}}, 9))
	assert.Equal(t, 4, InsertionIndex(root, Hint{After: []PathComponent{C("b", 1), C("a", 2), C("y", 1)}}, 9))
	assert.Equal(t, 1, InsertionIndex(root, Hint{
		Before: []PathComponent{C("a", 1)},
		After:  []PathComponent{C("e::before", 1)},
	}, 9), "before wins over after")
	//
	loc := Locate(root, Path{C("z", 1)}, []Hint{{Before: []PathComponent{C("b", 1)}}})
	assert.Equal(t, 2, loc.Index)
	assert.Equal(t, "a", loc.Node.Name())
	loc = Locate(root, Path{C("z", 1)}, []Hint{{Before: []PathComponent{C("a", 1)}}})
	assert.Equal(t, 1, loc.Index)
	assert.Nil(t, loc.Node, "hidden @import is not a preceding node")
}

func TestPathComponentDecoding(t *testing.T) {
	var path Path
	require.NoError(t, json.Unmarshal([]byte(`[["a:after", 2], "b", ["c"], ["d", 0]]`), &path))
	assert.Equal(t, Path{{"a::after", 2}, {"b", 1}, {"c", 1}, {"d", 1}}, path)
	assert.Error(t, json.Unmarshal([]byte(`[[1, 2]]`), &path))
	assert.Error(t, json.Unmarshal([]byte(`[{"name": "a"}]`), &path))
	//
	out, err := json.Marshal(Path{C("a", 2)})
	require.NoError(t, err)
	assert.Equal(t, `[["a",2]]`, string(out))
	//
	var ypath Path
	require.NoError(t, yaml.Unmarshal([]byte("- [\"@media print\", 2]\n- a, b\n"), &ypath))
	assert.Equal(t, Path{{"@media print", 2}, {"a, b", 1}}, ypath)
	assert.Error(t, yaml.Unmarshal([]byte("- {name: a}\n"), &ypath))
	//
	var h Hint
	require.NoError(t, json.Unmarshal([]byte(`{"before": [["a", 1]]}`), &h))
	assert.Equal(t, []PathComponent{{"a", 1}}, h.Before)
	assert.False(t, h.IsEmpty())
	assert.Equal(t, "[a|1 / b|2]", Path{C("a", 1), C("b", 2)}.String())
}
