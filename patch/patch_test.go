package patch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/cssompatch/pathfinder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSingle(t *testing.T) {
	patches, err := Decode(strings.NewReader(`{
		"path": [["@media print", 1], ["a:before", 2]],
		"action": "update",
		"update": [{"name": "color", "value": "red !important"}, {"name": "@import", "value": "url(x.css)"}],
		"remove": [{"name": "margin"}],
		"hints": [{}, {"after": [["b", 1]]}]
	}`))
	require.NoError(t, err)
	require.Len(t, patches, 1)
	p := patches[0]
	assert.Equal(t, Update, p.Action)
	assert.Equal(t, pathfinder.Path{{Name: "@media print", Pos: 1}, {Name: "a::before", Pos: 2}}, p.Path)
	assert.False(t, p.Update[0].IsAtRule())
	assert.True(t, p.Update[1].IsAtRule())
	assert.Equal(t, "margin", p.Remove[0].String())
	assert.Nil(t, p.All)
	require.Len(t, p.Hints, 2)
	assert.True(t, p.Hints[0].IsEmpty())
	assert.Equal(t, []pathfinder.PathComponent{{Name: "b", Pos: 1}}, p.Hints[1].After)
}

func TestDecodeList(t *testing.T) {
	patches, err := Decode(strings.NewReader(`[
		{"path": ["a"], "action": "remove"},
		{"path": [["b", 1]], "action": "update", "all": []}
	]`))
	require.NoError(t, err)
	require.Len(t, patches, 2)
	assert.Equal(t, Remove, patches[0].Action)
	assert.NotNil(t, patches[1].All)
	assert.Len(t, patches[1].All, 0)
}

func TestDecodeInvalid(t *testing.T) {
	for _, text := range []string{
		`{"path": [], "action": "rename"}`,
		`{"path": 1, "action": "add"}`,
		`[{"path": [], "action": "add"}, {"path": []}]`,
		`not json`,
	} {
		_, err := Decode(strings.NewReader(text))
		assert.True(t, errors.Is(err, ErrInvalidPatch), "expected %s to be invalid", text)
	}
}

func TestDecodeYAML(t *testing.T) {
	patches, err := DecodeYAML(strings.NewReader(`
- path: [["@media print", 1], c]
  action: update
  update:
    - {name: d, value: "2"}
  hints:
    - before: [[a, 1]]
- path: [a]
  action: remove
`))
	require.NoError(t, err)
	require.Len(t, patches, 2)
	assert.Equal(t, pathfinder.Path{{Name: "@media print", Pos: 1}, {Name: "c", Pos: 1}}, patches[0].Path)
	assert.Equal(t, []Property{{Name: "d", Value: "2"}}, patches[0].Update)
	assert.Equal(t, []pathfinder.PathComponent{{Name: "a", Pos: 1}}, patches[0].Hints[0].Before)
	//
	patches, err = DecodeYAML(strings.NewReader("path: [a]\naction: add\n"))
	require.NoError(t, err)
	assert.Len(t, patches, 1)
	_, err = DecodeYAML(strings.NewReader("just a string\n"))
	assert.True(t, errors.Is(err, ErrInvalidPatch))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	j := filepath.Join(dir, "p.json")
	y := filepath.Join(dir, "p.YML")
	require.NoError(t, os.WriteFile(j, []byte(`{"path": ["a"], "action": "add"}`), 0o644))
	require.NoError(t, os.WriteFile(y, []byte("path: [a]\naction: add\n"), 0o644))
	pj, err := Load(j)
	require.NoError(t, err)
	py, err := Load(y)
	require.NoError(t, err)
	assert.Equal(t, pj, py)
	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
